package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
)

// listSettings returns all setting rows grouped by category
func (r *Router) listSettings(w http.ResponseWriter, req *http.Request) {
	rows, err := r.settings.LoadAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}

	grouped := make(map[string][]models.SiteSetting)
	for _, row := range rows {
		grouped[row.Category] = append(grouped[row.Category], row)
	}
	respondJSON(w, http.StatusOK, grouped)
}

// saveSettings diff-upserts a flat key/value payload; the audit entry lists
// the keys that actually changed
func (r *Router) saveSettings(w http.ResponseWriter, req *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(req.Body).Decode(&values); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(values) == 0 {
		respondError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	admin, _ := middleware.AdminFromContext(req.Context())
	changed, err := r.settings.Save(values, admin.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	if len(changed) > 0 {
		r.audit(req, models.AuditSettingsChange, "site_settings", "", "",
			strings.Join(changed, ", "))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Settings saved",
		"changed": changed,
	})
}
