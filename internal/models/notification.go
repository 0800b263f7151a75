package models

import (
	"time"
)

// NotificationType defines the visual severity of a notification
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// NotificationCategory groups notifications by origin
type NotificationCategory string

const (
	NotifyCategoryInquiry  NotificationCategory = "inquiry"
	NotifyCategorySecurity NotificationCategory = "security"
	NotifyCategorySystem   NotificationCategory = "system"
	NotifyCategoryUpdate   NotificationCategory = "update"
)

// Notification is a per-user or broadcast message shown in the CMS header.
// A nil RecipientID means every admin sees it.
type Notification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	RecipientID *string              `gorm:"type:uuid;index" json:"recipientId,omitempty"`
	Title       string               `gorm:"not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	Type        NotificationType     `gorm:"default:'info'" json:"type"`
	Category    NotificationCategory `gorm:"default:'system';index" json:"category"`
	IsRead      bool                 `gorm:"default:false;index" json:"isRead"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
