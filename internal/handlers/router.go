package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/database"
	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/notify"
	"github.com/meridianpetro/meridian-backend/internal/scheduler"
	"github.com/meridianpetro/meridian-backend/internal/services/analytics"
	"github.com/meridianpetro/meridian-backend/internal/services/inquiry"
	"github.com/meridianpetro/meridian-backend/internal/services/news"
	"github.com/meridianpetro/meridian-backend/internal/services/settings"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

// Router wraps the mux router, database and services
type Router struct {
	*mux.Router
	db  *database.DB
	cfg *config.Config
	hub *notify.Hub

	engine    *scheduler.Engine
	inquiries *inquiry.Service
	settings  *settings.Service
	news      *news.Service
	analytics *analytics.Service
}

// NewRouter creates the HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, hub *notify.Hub) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		cfg:       cfg,
		hub:       hub,
		inquiries: inquiry.NewService(db.DB),
		settings:  settings.NewService(db.DB),
		news:      news.NewService(db.DB),
		analytics: analytics.NewService(db.DB),
	}

	r.Use(middleware.RequestLogger)

	// Health and metrics
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API (marketing site)
	public := r.PathPrefix("/api/public").Subrouter()
	public.HandleFunc("/settings", r.publicSettings).Methods("GET")
	public.HandleFunc("/prices/latest", r.latestPrice).Methods("GET")
	public.HandleFunc("/posts", r.publicPosts).Methods("GET")
	public.HandleFunc("/posts/{slug}", r.publicPostBySlug).Methods("GET")

	r.HandleFunc("/api/status", r.getStatus).Methods("GET")
	r.HandleFunc("/api/contact", r.submitContact).Methods("POST")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/refresh", r.refresh).Methods("POST")

	authed := middleware.AuthMiddleware(db, cfg.JWTSecret)
	me := r.PathPrefix("/auth").Subrouter()
	me.Use(authed)
	me.HandleFunc("/logout", r.logout).Methods("POST")
	me.HandleFunc("/me", r.currentAdmin).Methods("GET")

	// CMS API, bearer auth + per-section role gates
	viewer := r.PathPrefix("/api").Subrouter()
	viewer.Use(authed, middleware.RequireRole(models.RoleViewer))

	editor := r.PathPrefix("/api").Subrouter()
	editor.Use(authed, middleware.RequireRole(models.RoleEditor))

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(authed, middleware.RequireRole(models.RoleAdmin))

	superAdmin := r.PathPrefix("/api").Subrouter()
	superAdmin.Use(authed, middleware.RequireRole(models.RoleSuperAdmin))

	// Inquiries
	viewer.HandleFunc("/inquiries", r.listInquiries).Methods("GET")
	viewer.HandleFunc("/inquiries/stats", r.inquiryStats).Methods("GET")
	viewer.HandleFunc("/inquiries/{id}", r.getInquiry).Methods("GET")
	editor.HandleFunc("/inquiries/{id}/status", r.changeInquiryStatus).Methods("PATCH")
	editor.HandleFunc("/inquiries/{id}/assign", r.assignInquiry).Methods("PATCH")
	editor.HandleFunc("/inquiries/{id}/notes", r.addInquiryNote).Methods("POST")
	admin.HandleFunc("/inquiries/{id}", r.deleteInquiry).Methods("DELETE")

	// Blog
	viewer.HandleFunc("/posts", r.listPosts).Methods("GET")
	viewer.HandleFunc("/posts/{id}", r.getPost).Methods("GET")
	editor.HandleFunc("/posts", r.createPost).Methods("POST")
	editor.HandleFunc("/posts/{id}", r.updatePost).Methods("PUT")
	editor.HandleFunc("/posts/{id}/publish", r.publishPost).Methods("POST")
	editor.HandleFunc("/posts/{id}", r.deletePost).Methods("DELETE")
	viewer.HandleFunc("/categories", r.listCategories).Methods("GET")
	editor.HandleFunc("/categories", r.createCategory).Methods("POST")
	editor.HandleFunc("/categories/{id}", r.updateCategory).Methods("PUT")
	editor.HandleFunc("/categories/{id}", r.deleteCategory).Methods("DELETE")

	// News review
	viewer.HandleFunc("/news", r.listNews).Methods("GET")
	viewer.HandleFunc("/news/{id}", r.getNews).Methods("GET")
	editor.HandleFunc("/news/{id}/approve", r.approveNews).Methods("POST")
	editor.HandleFunc("/news/{id}/reject", r.rejectNews).Methods("POST")

	// Scheduled jobs
	admin.HandleFunc("/jobs", r.listJobs).Methods("GET")
	admin.HandleFunc("/jobs", r.createJob).Methods("POST")
	admin.HandleFunc("/jobs/configs", r.listAPIConfigs).Methods("GET")
	admin.HandleFunc("/jobs/configs", r.createAPIConfig).Methods("POST")
	admin.HandleFunc("/jobs/configs/{id}", r.updateAPIConfig).Methods("PUT")
	admin.HandleFunc("/jobs/configs/{id}", r.deleteAPIConfig).Methods("DELETE")
	admin.HandleFunc("/jobs/{id}", r.updateJob).Methods("PUT")
	admin.HandleFunc("/jobs/{id}", r.deleteJob).Methods("DELETE")
	admin.HandleFunc("/jobs/{id}/toggle", r.toggleJob).Methods("PATCH")
	admin.HandleFunc("/jobs/{id}/run", r.runJobNow).Methods("POST")
	admin.HandleFunc("/jobs/{id}/executions", r.listJobExecutions).Methods("GET")

	// Prices
	viewer.HandleFunc("/prices", r.listPrices).Methods("GET")
	viewer.HandleFunc("/prices/latest", r.latestPrice).Methods("GET")
	editor.HandleFunc("/prices", r.createPrice).Methods("POST")

	// Analytics
	viewer.HandleFunc("/analytics/funnel", r.funnel).Methods("GET")
	viewer.HandleFunc("/analytics/products", r.productBreakdown).Methods("GET")
	viewer.HandleFunc("/analytics/trend", r.inquiryTrend).Methods("GET")

	// Audit
	admin.HandleFunc("/audit", r.listAuditLogs).Methods("GET")

	// Notifications
	viewer.HandleFunc("/notifications", r.listNotifications).Methods("GET")
	viewer.HandleFunc("/notifications/ws", r.notificationsWS).Methods("GET")
	viewer.HandleFunc("/notifications/read-all", r.markAllNotificationsRead).Methods("POST")
	viewer.HandleFunc("/notifications/{id}/read", r.markNotificationRead).Methods("PATCH")

	// Settings
	admin.HandleFunc("/settings", r.listSettings).Methods("GET")
	admin.HandleFunc("/settings", r.saveSettings).Methods("PUT")

	// Profiles
	superAdmin.HandleFunc("/admins", r.listAdmins).Methods("GET")
	superAdmin.HandleFunc("/admins", r.createAdmin).Methods("POST")
	superAdmin.HandleFunc("/admins/{id}", r.updateAdmin).Methods("PUT")
	viewer.HandleFunc("/profile", r.updateProfile).Methods("PATCH")
	viewer.HandleFunc("/profile/avatar", r.uploadAvatar).Methods("POST")
	viewer.HandleFunc("/profile/avatar", r.deleteAvatar).Methods("DELETE")
	viewer.HandleFunc("/profile/password", r.changePassword).Methods("POST")

	// Reports
	viewer.HandleFunc("/reports/inquiries.csv", r.exportInquiriesCSV).Methods("GET")
	viewer.HandleFunc("/reports/inquiries.pdf", r.exportInquiriesPDF).Methods("GET")

	// Marketing site static files
	staticDir := cfg.UploadDir
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(staticDir))))

	return r
}

// SetEngine registers the job engine for dashboard run-now actions
func (r *Router) SetEngine(engine *scheduler.Engine) {
	r.engine = engine
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// Page is the list envelope for paginated endpoints
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

const defaultPageSize = 15

// parsePagination reads page/pageSize query params with sane bounds
func parsePagination(req *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(req.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(req.URL.Query().Get("pageSize")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}

// totalPages computes the page count for a result set
func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// audit records a tracked action; failures are logged, never surfaced
func (r *Router) audit(req *http.Request, action models.AuditAction, resourceType, resourceID, resourceName, details string) {
	entry := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Details:      details,
		IPAddress: utils.ClientIP(req.RemoteAddr,
			req.Header.Get("X-Forwarded-For"), req.Header.Get("X-Real-Ip")),
		UserAgent: req.UserAgent(),
	}
	if admin, ok := middleware.AdminFromContext(req.Context()); ok {
		entry.ActorID = admin.ID
		entry.ActorEmail = admin.Email
	}
	if err := r.db.Create(&entry).Error; err != nil {
		logger.Log.Error("failed to write audit log", zap.Error(err))
	}
}
