package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/internal/validator"
)

// PostRequest is the create/update payload for a blog post
type PostRequest struct {
	Title          string   `json:"title" validate:"required,min=3,max=200"`
	Slug           string   `json:"slug" validate:"omitempty,max=220"`
	Excerpt        string   `json:"excerpt" validate:"max=500"`
	Content        string   `json:"content" validate:"required"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft scheduled published archived"`
	CategoryID     *uint    `json:"categoryId"`
	Tags           []string `json:"tags"`
	SEOTitle       string   `json:"seoTitle" validate:"max=200"`
	SEODescription string   `json:"seoDescription" validate:"max=300"`
	MarketOutlook  string   `json:"marketOutlook"`
	KeyFactors     []string `json:"keyFactors"`
	PublishedAt    *string  `json:"publishedAt"`
}

// listPosts returns the CMS post listing with optional status/category filters
func (r *Router) listPosts(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)
	q := req.URL.Query()

	query := r.db.Model(&models.BlogPost{})
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := q.Get("categoryId"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if q.Get("autoOnly") == "true" {
		query = query.Where("is_auto_generated = ?", true)
	}
	if search := q.Get("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	var items []models.BlogPost
	if err := query.Preload("Category").Order("created_at DESC").
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

func (r *Router) getPost(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var post models.BlogPost
	if err := r.db.Preload("Category").First(&post, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// createPost creates a new post, defaulting to draft status
func (r *Router) createPost(w http.ResponseWriter, req *http.Request) {
	var body PostRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, _ := middleware.AdminFromContext(req.Context())

	slug := body.Slug
	if slug == "" {
		slug = utils.Slugify(body.Title)
	}

	status := models.PostStatusDraft
	if body.Status != "" {
		status = models.PostStatus(body.Status)
	}

	post := models.BlogPost{
		Title:          body.Title,
		Slug:           slug,
		Excerpt:        body.Excerpt,
		Content:        body.Content,
		Status:         status,
		CategoryID:     body.CategoryID,
		SEOTitle:       body.SEOTitle,
		SEODescription: body.SEODescription,
		MarketOutlook:  body.MarketOutlook,
	}
	if admin != nil {
		post.AuthorID = admin.ID
	}
	if len(body.Tags) > 0 {
		post.Tags = mustJSON(body.Tags)
	}
	if len(body.KeyFactors) > 0 {
		post.KeyFactors = mustJSON(body.KeyFactors)
	}
	if status == models.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := r.db.Create(&post).Error; err != nil {
		respondError(w, http.StatusConflict, "A post with this slug already exists")
		return
	}

	r.audit(req, models.AuditCreate, "blog_post", post.ID, post.Title, "")
	respondJSON(w, http.StatusCreated, post)
}

func (r *Router) updatePost(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var post models.BlogPost
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	var body PostRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post.Title = body.Title
	if body.Slug != "" {
		post.Slug = body.Slug
	}
	post.Excerpt = body.Excerpt
	post.Content = body.Content
	post.CategoryID = body.CategoryID
	post.SEOTitle = body.SEOTitle
	post.SEODescription = body.SEODescription
	post.MarketOutlook = body.MarketOutlook
	post.Tags = mustJSON(body.Tags)
	post.KeyFactors = mustJSON(body.KeyFactors)
	if body.Status != "" {
		newStatus := models.PostStatus(body.Status)
		if newStatus == models.PostStatusPublished && post.Status != models.PostStatusPublished {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = newStatus
	}

	if err := r.db.Save(&post).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	r.audit(req, models.AuditUpdate, "blog_post", post.ID, post.Title, "")
	respondJSON(w, http.StatusOK, post)
}

// publishPost flips a draft or scheduled post live
func (r *Router) publishPost(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var post models.BlogPost
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if post.Status == models.PostStatusPublished {
		respondJSON(w, http.StatusOK, post)
		return
	}

	now := time.Now().UTC()
	post.Status = models.PostStatusPublished
	post.PublishedAt = &now
	if err := r.db.Save(&post).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to publish post")
		return
	}

	r.audit(req, models.AuditUpdate, "blog_post", post.ID, post.Title, "published")
	respondJSON(w, http.StatusOK, post)
}

func (r *Router) deletePost(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var post models.BlogPost
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	if err := r.db.Delete(&post).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	r.audit(req, models.AuditDelete, "blog_post", post.ID, post.Title, "")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
		"id":      id,
	})
}

// CategoryRequest is the create/update payload for a blog category
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=300"`
}

func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	var categories []models.BlogCategory
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (r *Router) createCategory(w http.ResponseWriter, req *http.Request) {
	var body CategoryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slug := body.Slug
	if slug == "" {
		slug = utils.Slugify(body.Name)
	}
	category := models.BlogCategory{
		Name:        body.Name,
		Slug:        slug,
		Description: body.Description,
	}
	if err := r.db.Create(&category).Error; err != nil {
		respondError(w, http.StatusConflict, "A category with this slug already exists")
		return
	}

	r.audit(req, models.AuditCreate, "blog_category", category.Slug, category.Name, "")
	respondJSON(w, http.StatusCreated, category)
}

func (r *Router) updateCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var category models.BlogCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	var body CategoryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category.Name = body.Name
	if body.Slug != "" {
		category.Slug = body.Slug
	}
	category.Description = body.Description
	if err := r.db.Save(&category).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	r.audit(req, models.AuditUpdate, "blog_category", category.Slug, category.Name, "")
	respondJSON(w, http.StatusOK, category)
}

func (r *Router) deleteCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var category models.BlogCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	var inUse int64
	r.db.Model(&models.BlogPost{}).Where("category_id = ?", category.ID).Count(&inUse)
	if inUse > 0 {
		respondError(w, http.StatusConflict, "Category still has posts assigned")
		return
	}

	if err := r.db.Delete(&category).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	r.audit(req, models.AuditDelete, "blog_category", category.Slug, category.Name, "")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}

// mustJSON marshals a value for a datatypes.JSON column. Inputs here are
// plain string slices, which cannot fail to marshal.
func mustJSON(v interface{}) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}
