package handlers

import (
	"net/http"
	"strconv"
)

func (r *Router) funnel(w http.ResponseWriter, req *http.Request) {
	stages, err := r.analytics.Funnel()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute funnel")
		return
	}
	respondJSON(w, http.StatusOK, stages)
}

func (r *Router) productBreakdown(w http.ResponseWriter, req *http.Request) {
	stats, err := r.analytics.Products()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute breakdown")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// inquiryTrend returns daily inquiry counts for the last N days (default 30)
func (r *Router) inquiryTrend(w http.ResponseWriter, req *http.Request) {
	days := 30
	if v, err := strconv.Atoi(req.URL.Query().Get("days")); err == nil && v > 0 && v <= 365 {
		days = v
	}

	points, err := r.analytics.Trend(days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute trend")
		return
	}
	respondJSON(w, http.StatusOK, points)
}
