package handlers

import (
	"net/http"
	"time"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// listAuditLogs returns the audit trail, filterable by actor, action,
// resource type and date range
func (r *Router) listAuditLogs(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)
	q := req.URL.Query()

	query := r.db.Model(&models.AuditLog{})
	if action := q.Get("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if actor := q.Get("actorId"); actor != "" {
		query = query.Where("actor_id = ?", actor)
	}
	if resource := q.Get("resourceType"); resource != "" {
		query = query.Where("resource_type = ?", resource)
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	var items []models.AuditLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch audit logs")
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
