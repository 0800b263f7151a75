package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/observer"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/internal/validator"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

// ContactRequest is the public contact form payload
type ContactRequest struct {
	FullName        string  `json:"fullName" validate:"required,min=2,max=120"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"omitempty,max=32"`
	CompanyName     string  `json:"companyName" validate:"omitempty,max=160"`
	Category        string  `json:"category" validate:"required,oneof=verified-buyer verified-seller strategic-partner"`
	ProductType     string  `json:"productType" validate:"required,oneof=crude-oil pms ago jet-fuel multiple"`
	EstimatedVolume float64 `json:"estimatedVolume" validate:"omitempty,gte=0"`
	VolumeUnit      string  `json:"volumeUnit" validate:"omitempty,oneof=bbl mt litres"`
	Message         string  `json:"message" validate:"required,min=10,max=5000"`
	AgreeToTerms    bool    `json:"agreeToTerms" validate:"required,eq=true"`
}

// submitContact turns a public contact form submission into a pending inquiry
func (r *Router) submitContact(w http.ResponseWriter, req *http.Request) {
	var form ContactRequest
	if err := json.NewDecoder(req.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := validator.Validate(form); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inq := models.Inquiry{
		FullName:        form.FullName,
		Email:           form.Email,
		Phone:           form.Phone,
		CompanyName:     form.CompanyName,
		Category:        models.InquiryCategory(form.Category),
		ProductType:     models.ProductType(form.ProductType),
		EstimatedVolume: form.EstimatedVolume,
		VolumeUnit:      form.VolumeUnit,
		Message:         form.Message,
		Status:          models.InquiryStatusPending,
		Source:          "website",
		IPAddress: utils.ClientIP(req.RemoteAddr,
			req.Header.Get("X-Forwarded-For"), req.Header.Get("X-Real-Ip")),
		UserAgent: req.UserAgent(),
	}

	if err := r.db.Create(&inq).Error; err != nil {
		logger.Log.Error("failed to store inquiry", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to submit inquiry")
		return
	}

	observer.InquiriesCreated.Inc()

	// Surface the new lead in the CMS
	n := models.Notification{
		Title:    "New inquiry from " + inq.FullName,
		Message:  string(inq.Category) + " / " + string(inq.ProductType),
		Type:     models.NotifyInfo,
		Category: models.NotifyCategoryInquiry,
	}
	if err := r.db.Create(&n).Error; err != nil {
		logger.Log.Warn("failed to store inquiry notification", zap.Error(err))
	} else if r.hub != nil {
		r.hub.Broadcast(&n)
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Inquiry submitted successfully",
		"id":      inq.ID,
	})
}
