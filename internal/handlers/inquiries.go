package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/services/inquiry"
)

// applyInquiryFilters narrows an inquiry query by the shared listing and
// export query params
func applyInquiryFilters(query *gorm.DB, q url.Values) *gorm.DB {
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := q.Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if product := q.Get("productType"); product != "" {
		query = query.Where("product_type = ?", product)
	}
	if assigned := q.Get("assignedTo"); assigned != "" {
		query = query.Where("assigned_to = ?", assigned)
	}
	if search := q.Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"full_name ILIKE ? OR email ILIKE ? OR company_name ILIKE ?", like, like, like)
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// Inclusive end date
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	return query
}

// listInquiries returns a filtered, paginated inquiry listing, newest first
func (r *Router) listInquiries(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)

	query := applyInquiryFilters(r.db.Model(&models.Inquiry{}), req.URL.Query())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}

	var items []models.Inquiry
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
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

// inquiryStats returns the funnel and product breakdown for the dashboard
func (r *Router) inquiryStats(w http.ResponseWriter, req *http.Request) {
	funnel, err := r.analytics.Funnel()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	products, err := r.analytics.Products()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"funnel":   funnel,
		"products": products,
	})
}

// getInquiry returns one inquiry with its chronological log trail
func (r *Router) getInquiry(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var inq models.Inquiry
	if err := r.db.Preload("Logs", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).First(&inq, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Inquiry not found")
		return
	}

	respondJSON(w, http.StatusOK, inq)
}

// changeInquiryStatus moves an inquiry to a new pipeline stage
func (r *Router) changeInquiryStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	admin, _ := middleware.AdminFromContext(req.Context())
	inq, err := r.inquiries.ChangeStatus(id, models.InquiryStatus(body.Status), body.Note, admin)
	if err != nil {
		switch {
		case errors.Is(err, inquiry.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, inquiry.ErrNotFound):
			respondError(w, http.StatusNotFound, "Inquiry not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	r.audit(req, models.AuditUpdate, "inquiry", id, inq.FullName, "status -> "+body.Status)
	respondJSON(w, http.StatusOK, inq)
}

// assignInquiry sets or clears the handling admin
func (r *Router) assignInquiry(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		AssignedTo *string `json:"assignedTo"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.AssignedTo != nil {
		var count int64
		r.db.Model(&models.AdminProfile{}).Where("id = ?", *body.AssignedTo).Count(&count)
		if count == 0 {
			respondError(w, http.StatusBadRequest, "Unknown admin")
			return
		}
	}

	admin, _ := middleware.AdminFromContext(req.Context())
	inq, err := r.inquiries.Assign(id, body.AssignedTo, admin)
	if err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to assign inquiry")
		return
	}

	respondJSON(w, http.StatusOK, inq)
}

// addInquiryNote appends to the inquiry's note log
func (r *Router) addInquiryNote(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Note == "" {
		respondError(w, http.StatusBadRequest, "Note must not be empty")
		return
	}

	admin, _ := middleware.AdminFromContext(req.Context())
	inq, err := r.inquiries.AddNote(id, body.Note, admin)
	if err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to add note")
		return
	}

	respondJSON(w, http.StatusOK, inq)
}

// deleteInquiry removes an inquiry and its log trail
func (r *Router) deleteInquiry(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	if err := r.inquiries.Delete(id); err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete inquiry")
		return
	}

	r.audit(req, models.AuditDelete, "inquiry", id, "", "")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Inquiry deleted successfully",
		"id":      id,
	})
}
