package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobType defines what a scheduled job does when it runs
type JobType string

const (
	JobTypeNewsFetch   JobType = "news_fetch"
	JobTypePriceUpdate JobType = "price_update"
)

// Valid reports whether the job type is known
func (t JobType) Valid() bool {
	return t == JobTypeNewsFetch || t == JobTypePriceUpdate
}

// ScheduledJob is a recurring API job executed by the in-process engine.
// Counters and run timestamps are written only by the engine.
type ScheduledJob struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"not null" json:"name"`
	JobType         JobType `gorm:"not null;index" json:"jobType"`
	APIConfigID     *uint   `gorm:"index" json:"apiConfigId,omitempty"`
	IntervalMinutes int     `gorm:"default:60" json:"intervalMinutes"`
	IsActive        bool    `gorm:"default:true;index" json:"isActive"`

	LastRunAt    *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt    *time.Time `gorm:"index" json:"nextRunAt,omitempty"`
	RunCount     int        `gorm:"default:0" json:"runCount"`
	SuccessCount int        `gorm:"default:0" json:"successCount"`
	FailureCount int        `gorm:"default:0" json:"failureCount"`
	SuccessRate  float64    `gorm:"default:0" json:"successRate"` // persisted 0..100
	LastError    string     `gorm:"type:text" json:"lastError,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	APIConfig *APIConfig `gorm:"foreignKey:APIConfigID" json:"apiConfig,omitempty"`
}

// TableName specifies the table name for ScheduledJob model
func (ScheduledJob) TableName() string {
	return "scheduled_jobs"
}

// APIConfig describes an external data source a job fetches from, including
// its hourly rate-limit window
type APIConfig struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	BaseURL          string         `gorm:"not null" json:"baseUrl"`
	APIKey           string         `json:"-"`
	QueryParams      datatypes.JSON `json:"queryParams,omitempty"`
	RateLimitPerHour int            `gorm:"default:100" json:"rateLimitPerHour"`
	RequestsThisHour int            `gorm:"default:0" json:"requestsThisHour"`
	RateWindowStart  *time.Time     `json:"rateWindowStart,omitempty"`
	IsActive         bool           `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for APIConfig model
func (APIConfig) TableName() string {
	return "api_configs"
}

// ExecutionStatus defines the outcome of a single job run
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailure ExecutionStatus = "failure"
)

// JobExecutionLog is an append-only record of one job run
type JobExecutionLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	JobID        uint            `gorm:"not null;index" json:"jobId"`
	Status       ExecutionStatus `gorm:"not null" json:"status"`
	StartedAt    time.Time       `json:"startedAt"`
	FinishedAt   time.Time       `json:"finishedAt"`
	ItemsFetched int             `gorm:"default:0" json:"itemsFetched"`
	ItemsStored  int             `gorm:"default:0" json:"itemsStored"`
	Error        string          `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TableName specifies the table name for JobExecutionLog model
func (JobExecutionLog) TableName() string {
	return "job_execution_logs"
}
