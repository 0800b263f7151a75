package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/validator"
)

// JobRequest is the create/update payload for a scheduled job
type JobRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	JobType         string `json:"jobType" validate:"required,oneof=news_fetch price_update"`
	APIConfigID     *uint  `json:"apiConfigId"`
	IntervalMinutes int    `json:"intervalMinutes" validate:"omitempty,min=5,max=10080"`
	IsActive        *bool  `json:"isActive"`
}

func (r *Router) listJobs(w http.ResponseWriter, req *http.Request) {
	var jobs []models.ScheduledJob
	if err := r.db.Preload("APIConfig").Order("id").Find(&jobs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

func (r *Router) createJob(w http.ResponseWriter, req *http.Request) {
	var body JobRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := models.ScheduledJob{
		Name:            body.Name,
		JobType:         models.JobType(body.JobType),
		APIConfigID:     body.APIConfigID,
		IntervalMinutes: 60,
		IsActive:        true,
	}
	if body.IntervalMinutes > 0 {
		job.IntervalMinutes = body.IntervalMinutes
	}
	if body.IsActive != nil {
		job.IsActive = *body.IsActive
	}

	if err := r.db.Create(&job).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	r.audit(req, models.AuditCreate, "scheduled_job", fmt.Sprint(job.ID), job.Name, "")
	respondJSON(w, http.StatusCreated, job)
}

func (r *Router) updateJob(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var job models.ScheduledJob
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	var body JobRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	job.Name = body.Name
	job.JobType = models.JobType(body.JobType)
	job.APIConfigID = body.APIConfigID
	if body.IntervalMinutes > 0 {
		job.IntervalMinutes = body.IntervalMinutes
	}
	if body.IsActive != nil {
		job.IsActive = *body.IsActive
	}

	if err := r.db.Save(&job).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}

	r.audit(req, models.AuditUpdate, "scheduled_job", id, job.Name, "")
	respondJSON(w, http.StatusOK, job)
}

func (r *Router) deleteJob(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var job models.ScheduledJob
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	if err := r.db.Delete(&job).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	r.audit(req, models.AuditDelete, "scheduled_job", id, job.Name, "")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Job deleted successfully",
	})
}

// toggleJob flips a job between active and paused
func (r *Router) toggleJob(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var job models.ScheduledJob
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	job.IsActive = !job.IsActive
	if err := r.db.Model(&job).Update("is_active", job.IsActive).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to toggle job")
		return
	}

	state := "paused"
	if job.IsActive {
		state = "activated"
	}
	r.audit(req, models.AuditUpdate, "scheduled_job", id, job.Name, state)
	respondJSON(w, http.StatusOK, job)
}

// runJobNow executes a job immediately, outside its schedule
func (r *Router) runJobNow(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	if r.engine == nil {
		respondError(w, http.StatusServiceUnavailable, "Job engine is not running")
		return
	}

	var job models.ScheduledJob
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	go func(job models.ScheduledJob) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		r.engine.RunJob(ctx, &job)
	}(job)

	r.audit(req, models.AuditUpdate, "scheduled_job", id, job.Name, "manual run")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Job started",
	})
}

func (r *Router) listJobExecutions(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	page, pageSize := parsePagination(req)

	query := r.db.Model(&models.JobExecutionLog{}).Where("job_id = ?", id)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch executions")
		return
	}

	var items []models.JobExecutionLog
	if err := query.Order("started_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch executions")
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

// APIConfigRequest is the create/update payload for an external source config
type APIConfigRequest struct {
	Name             string            `json:"name" validate:"required,min=2,max=100"`
	BaseURL          string            `json:"baseUrl" validate:"required,url"`
	APIKey           string            `json:"apiKey"`
	QueryParams      map[string]string `json:"queryParams"`
	RateLimitPerHour int               `json:"rateLimitPerHour" validate:"omitempty,min=1,max=100000"`
	IsActive         *bool             `json:"isActive"`
}

func (r *Router) listAPIConfigs(w http.ResponseWriter, req *http.Request) {
	var configs []models.APIConfig
	if err := r.db.Order("id").Find(&configs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch configs")
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (r *Router) createAPIConfig(w http.ResponseWriter, req *http.Request) {
	var body APIConfigRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := models.APIConfig{
		Name:             body.Name,
		BaseURL:          body.BaseURL,
		APIKey:           body.APIKey,
		RateLimitPerHour: 100,
		IsActive:         true,
	}
	if body.RateLimitPerHour > 0 {
		cfg.RateLimitPerHour = body.RateLimitPerHour
	}
	if body.IsActive != nil {
		cfg.IsActive = *body.IsActive
	}
	if len(body.QueryParams) > 0 {
		b, _ := json.Marshal(body.QueryParams)
		cfg.QueryParams = datatypes.JSON(b)
	}

	if err := r.db.Create(&cfg).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create config")
		return
	}

	r.audit(req, models.AuditCreate, "api_config", fmt.Sprint(cfg.ID), cfg.Name, "")
	respondJSON(w, http.StatusCreated, cfg)
}

func (r *Router) updateAPIConfig(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var cfg models.APIConfig
	if err := r.db.First(&cfg, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Config not found")
		return
	}

	var body APIConfigRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg.Name = body.Name
	cfg.BaseURL = body.BaseURL
	if body.APIKey != "" {
		cfg.APIKey = body.APIKey
	}
	if body.RateLimitPerHour > 0 {
		cfg.RateLimitPerHour = body.RateLimitPerHour
	}
	if body.IsActive != nil {
		cfg.IsActive = *body.IsActive
	}
	if body.QueryParams != nil {
		b, _ := json.Marshal(body.QueryParams)
		cfg.QueryParams = datatypes.JSON(b)
	}

	if err := r.db.Save(&cfg).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update config")
		return
	}

	r.audit(req, models.AuditUpdate, "api_config", id, cfg.Name, "")
	respondJSON(w, http.StatusOK, cfg)
}

func (r *Router) deleteAPIConfig(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var cfg models.APIConfig
	if err := r.db.First(&cfg, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Config not found")
		return
	}

	var inUse int64
	r.db.Model(&models.ScheduledJob{}).Where("api_config_id = ?", cfg.ID).Count(&inUse)
	if inUse > 0 {
		respondError(w, http.StatusConflict, "Config is referenced by scheduled jobs")
		return
	}

	if err := r.db.Delete(&cfg).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete config")
		return
	}

	r.audit(req, models.AuditDelete, "api_config", id, cfg.Name, "")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Config deleted successfully",
	})
}
