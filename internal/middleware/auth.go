package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/meridianpetro/meridian-backend/internal/database"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/utils"
)

type contextKey string

const AdminContextKey contextKey = "admin"

// AuthMiddleware verifies JWT bearer tokens and loads the admin profile
func AuthMiddleware(db *database.DB, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			adminID, ok := claims["id"].(string)
			if !ok {
				http.Error(w, "Invalid token: missing id", http.StatusUnauthorized)
				return
			}

			var admin models.AdminProfile
			if err := db.Where("id = ?", adminID).First(&admin).Error; err != nil {
				http.Error(w, "Admin profile not found", http.StatusUnauthorized)
				return
			}

			if !admin.IsActive {
				http.Error(w, "Account is inactive", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), AdminContextKey, &admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler behind a minimum role level
func RequireRole(min models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := AdminFromContext(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !admin.Role.AtLeast(min) {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminFromContext retrieves the authenticated admin from request context
func AdminFromContext(ctx context.Context) (*models.AdminProfile, bool) {
	admin, ok := ctx.Value(AdminContextKey).(*models.AdminProfile)
	return admin, ok
}
