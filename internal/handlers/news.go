package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/services/news"
)

// listNews returns fetched articles for the review queue, filterable by
// review state and minimum relevance
func (r *Router) listNews(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)
	q := req.URL.Query()

	query := r.db.Model(&models.NewsArticle{})
	if status := q.Get("status"); status != "" {
		query = query.Where("auto_post_status = ?", status)
	}
	if sentiment := q.Get("sentiment"); sentiment != "" {
		query = query.Where("sentiment = ?", sentiment)
	}
	if source := q.Get("source"); source != "" {
		query = query.Where("source_name = ?", source)
	}
	if v, err := strconv.ParseFloat(q.Get("minRelevance"), 64); err == nil {
		query = query.Where("relevance_score >= ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	var items []models.NewsArticle
	if err := query.Order("relevance_score DESC, created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
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

func (r *Router) getNews(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var article models.NewsArticle
	if err := r.db.First(&article, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Article not found")
		return
	}
	respondJSON(w, http.StatusOK, article)
}

func (r *Router) approveNews(w http.ResponseWriter, req *http.Request) {
	r.reviewNews(w, req, true)
}

func (r *Router) rejectNews(w http.ResponseWriter, req *http.Request) {
	r.reviewNews(w, req, false)
}

// reviewNews applies an approve or reject decision to a pending article
func (r *Router) reviewNews(w http.ResponseWriter, req *http.Request, approve bool) {
	id := mux.Vars(req)["id"]

	var body struct {
		Notes string `json:"notes"`
	}
	if req.Body != nil {
		json.NewDecoder(req.Body).Decode(&body)
	}

	admin, _ := middleware.AdminFromContext(req.Context())

	var (
		article *models.NewsArticle
		err     error
	)
	if approve {
		article, err = r.news.Approve(id, body.Notes, admin)
	} else {
		article, err = r.news.Reject(id, body.Notes, admin)
	}
	if err != nil {
		switch {
		case errors.Is(err, news.ErrNotFound):
			respondError(w, http.StatusNotFound, "Article not found")
		case errors.Is(err, news.ErrNotPending):
			respondError(w, http.StatusConflict, "Article has already been reviewed")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to review article")
		}
		return
	}

	decision := "rejected"
	if approve {
		decision = "approved"
	}
	r.audit(req, models.AuditUpdate, "news_article", id, article.Title, decision)
	respondJSON(w, http.StatusOK, article)
}
