package handlers

import (
	"net/http"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/observer"
	"github.com/meridianpetro/meridian-backend/internal/services/report"
)

// exportFilter loads the inquiries for an export, applying the same filters
// as the inquiry listing, newest first
func (r *Router) exportFilter(req *http.Request) ([]models.Inquiry, error) {
	query := applyInquiryFilters(r.db.Model(&models.Inquiry{}), req.URL.Query())

	var inquiries []models.Inquiry
	err := query.Order("created_at DESC").Find(&inquiries).Error
	return inquiries, err
}

func (r *Router) exportInquiriesCSV(w http.ResponseWriter, req *http.Request) {
	inquiries, err := r.exportFilter(req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}

	data, err := report.InquiriesCSV(inquiries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	observer.ExportsGenerated.WithLabelValues("csv").Inc()
	r.audit(req, models.AuditExport, "inquiry", "", "", "csv export")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+report.Filename("inquiries", "csv")+`"`)
	w.Write(data)
}

func (r *Router) exportInquiriesPDF(w http.ResponseWriter, req *http.Request) {
	inquiries, err := r.exportFilter(req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}

	dashboardURL := r.cfg.BaseURL + "/admin/inquiries"
	data, err := report.InquiriesPDF(inquiries, dashboardURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	observer.ExportsGenerated.WithLabelValues("pdf").Inc()
	r.audit(req, models.AuditExport, "inquiry", "", "", "pdf export")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+report.Filename("inquiries", "pdf")+`"`)
	w.Write(data)
}
