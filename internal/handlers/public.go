package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// publicSettings returns the allow-listed settings the marketing site renders
func (r *Router) publicSettings(w http.ResponseWriter, req *http.Request) {
	values, err := r.settings.LoadPublic()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	respondJSON(w, http.StatusOK, values)
}

// publicPosts lists published posts for the marketing site, newest first
func (r *Router) publicPosts(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)
	q := req.URL.Query()

	query := r.db.Model(&models.BlogPost{}).
		Where("status = ?", models.PostStatusPublished)
	if category := q.Get("category"); category != "" {
		query = query.Joins("JOIN blog_categories ON blog_categories.id = blog_posts.category_id").
			Where("blog_categories.slug = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	var items []models.BlogPost
	if err := query.Preload("Category").
		Select("blog_posts.id, blog_posts.slug, blog_posts.title, blog_posts.excerpt, " +
			"blog_posts.category_id, blog_posts.tags, blog_posts.is_auto_generated, " +
			"blog_posts.published_at, blog_posts.created_at, blog_posts.updated_at").
		Order("published_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
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

// publicPostBySlug returns one published post by its slug
func (r *Router) publicPostBySlug(w http.ResponseWriter, req *http.Request) {
	slug := mux.Vars(req)["slug"]

	var post models.BlogPost
	if err := r.db.Preload("Category").
		Where("slug = ? AND status = ?", slug, models.PostStatusPublished).
		First(&post).Error; err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	respondJSON(w, http.StatusOK, post)
}
