package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
)

// listNotifications returns the caller's notifications, broadcasts included
func (r *Router) listNotifications(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())
	page, pageSize := parsePagination(req)

	query := r.db.Model(&models.Notification{}).
		Where("recipient_id IS NULL OR recipient_id = ?", admin.ID)
	if req.URL.Query().Get("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	var items []models.Notification
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	respondJSON(w, http.StatusOK, Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// notificationsWS upgrades to a websocket stream of live notifications
func (r *Router) notificationsWS(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())
	r.hub.Serve(w, req, admin.ID)
}

func (r *Router) markNotificationRead(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	admin, _ := middleware.AdminFromContext(req.Context())

	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND (recipient_id IS NULL OR recipient_id = ?)", id, admin.ID).
		Update("is_read", true)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (r *Router) markAllNotificationsRead(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())

	result := r.db.Model(&models.Notification{}).
		Where("is_read = ? AND (recipient_id IS NULL OR recipient_id = ?)", false, admin.ID).
		Update("is_read", true)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All notifications marked as read",
		"updated": result.RowsAffected,
	})
}
