package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles admin login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var admin models.AdminProfile
	if err := r.db.Where("email = ?", loginReq.Email).First(&admin).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !admin.IsActive {
		respondError(w, http.StatusForbidden, "Account is inactive")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, admin.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now().UTC()
	admin.LastLoginAt = &now
	r.db.Model(&admin).Update("last_login_at", now)

	accessToken, refreshToken, err := utils.GenerateTokens(&admin, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	r.db.Create(&models.AuditLog{
		Action:     models.AuditLogin,
		ActorID:    admin.ID,
		ActorEmail: admin.Email,
		IPAddress: utils.ClientIP(req.RemoteAddr,
			req.Header.Get("X-Forwarded-For"), req.Header.Get("X-Real-Ip")),
		UserAgent: req.UserAgent(),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"admin": admin,
	})
}

// refresh exchanges a refresh token for a new token pair
func (r *Router) refresh(w http.ResponseWriter, req *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	claims, err := utils.ValidateToken(body.RefreshToken, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	adminID, ok := claims["id"].(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var admin models.AdminProfile
	if err := r.db.Where("id = ?", adminID).First(&admin).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Admin profile not found")
		return
	}
	if !admin.IsActive {
		respondError(w, http.StatusForbidden, "Account is inactive")
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&admin, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// logout records the logout action; token invalidation is client-side
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	r.audit(req, models.AuditLogout, "", "", "", "")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// currentAdmin returns the authenticated profile
func (r *Router) currentAdmin(w http.ResponseWriter, req *http.Request) {
	admin, ok := middleware.AdminFromContext(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	respondJSON(w, http.StatusOK, admin)
}
