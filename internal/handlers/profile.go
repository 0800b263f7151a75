package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/meridianpetro/meridian-backend/internal/middleware"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/internal/validator"
)

const maxAvatarSize = 2 << 20 // 2MB

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AdminRequest is the create/update payload for an admin account
type AdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"omitempty,min=8"`
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Role       string `json:"role" validate:"required,oneof=viewer editor admin super_admin"`
	Phone      string `json:"phone" validate:"max=30"`
	Department string `json:"department" validate:"max=80"`
	IsActive   *bool  `json:"isActive"`
}

func (r *Router) listAdmins(w http.ResponseWriter, req *http.Request) {
	var admins []models.AdminProfile
	if err := r.db.Order("created_at").Find(&admins).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch admins")
		return
	}
	respondJSON(w, http.StatusOK, admins)
}

func (r *Router) createAdmin(w http.ResponseWriter, req *http.Request) {
	var body AdminRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Password == "" {
		respondError(w, http.StatusBadRequest, "Password is required")
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	admin := models.AdminProfile{
		Email:      body.Email,
		Password:   hash,
		FullName:   body.FullName,
		Role:       models.Role(body.Role),
		Phone:      body.Phone,
		Department: body.Department,
		IsActive:   true,
	}
	if body.IsActive != nil {
		admin.IsActive = *body.IsActive
	}

	if err := r.db.Create(&admin).Error; err != nil {
		respondError(w, http.StatusConflict, "An admin with this email already exists")
		return
	}

	r.audit(req, models.AuditCreate, "admin_profile", admin.ID, admin.Email, "role "+body.Role)
	respondJSON(w, http.StatusCreated, admin)
}

func (r *Router) updateAdmin(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var admin models.AdminProfile
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Admin not found")
		return
	}

	var body AdminRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	oldRole := admin.Role

	admin.Email = body.Email
	admin.FullName = body.FullName
	admin.Role = models.Role(body.Role)
	admin.Phone = body.Phone
	admin.Department = body.Department
	if body.IsActive != nil {
		admin.IsActive = *body.IsActive
	}
	if body.Password != "" {
		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update admin")
			return
		}
		admin.Password = hash
	}

	if err := r.db.Save(&admin).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update admin")
		return
	}

	if oldRole != admin.Role {
		r.audit(req, models.AuditRoleChange, "admin_profile", admin.ID, admin.Email,
			fmt.Sprintf("%s -> %s", oldRole, admin.Role))
	} else {
		r.audit(req, models.AuditUpdate, "admin_profile", admin.ID, admin.Email, "")
	}
	respondJSON(w, http.StatusOK, admin)
}

// ProfileRequest is the self-service profile update payload
type ProfileRequest struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"max=30"`
	Department string `json:"department" validate:"max=80"`
}

// updateProfile lets the caller edit their own display fields
func (r *Router) updateProfile(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())

	var body ProfileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin.FullName = body.FullName
	admin.Phone = body.Phone
	admin.Department = body.Department
	if err := r.db.Model(admin).Updates(map[string]interface{}{
		"full_name":  body.FullName,
		"phone":      body.Phone,
		"department": body.Department,
	}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, admin)
}

// uploadAvatar stores a new avatar image for the caller
func (r *Router) uploadAvatar(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())

	req.Body = http.MaxBytesReader(w, req.Body, maxAvatarSize)
	if err := req.ParseMultipartForm(maxAvatarSize); err != nil {
		respondError(w, http.StatusBadRequest, "Avatar must be an image up to 2MB")
		return
	}

	file, header, err := req.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer file.Close()

	ext, ok := avatarExtensions[header.Header.Get("Content-Type")]
	if !ok {
		respondError(w, http.StatusBadRequest, "Avatar must be JPEG, PNG, GIF or WebP")
		return
	}

	dir := filepath.Join(r.cfg.UploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}

	// Replace the previous file if any
	if admin.AvatarPath != "" {
		os.Remove(filepath.Join(r.cfg.UploadDir, "avatars", filepath.Base(admin.AvatarPath)))
	}

	avatarPath := "/uploads/avatars/" + name
	if err := r.db.Model(admin).Update("avatar_path", avatarPath).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store avatar")
		return
	}
	admin.AvatarPath = avatarPath

	respondJSON(w, http.StatusOK, map[string]string{"avatarPath": avatarPath})
}

func (r *Router) deleteAvatar(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())

	if admin.AvatarPath != "" {
		os.Remove(filepath.Join(r.cfg.UploadDir, "avatars", filepath.Base(admin.AvatarPath)))
	}
	if err := r.db.Model(admin).Update("avatar_path", "").Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to remove avatar")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Avatar removed"})
}

// PasswordRequest is the self-service password change payload
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

func (r *Router) changePassword(w http.ResponseWriter, req *http.Request) {
	admin, _ := middleware.AdminFromContext(req.Context())

	var body PasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !utils.CheckPasswordHash(body.CurrentPassword, admin.Password) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := r.db.Model(admin).Update("password", hash).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	r.audit(req, models.AuditPasswordChange, "admin_profile", admin.ID, admin.Email, "")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}
