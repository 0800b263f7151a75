package models

import (
	"time"
)

// AuditAction defines the tracked system actions
type AuditAction string

const (
	AuditLogin          AuditAction = "login"
	AuditLogout         AuditAction = "logout"
	AuditCreate         AuditAction = "create"
	AuditUpdate         AuditAction = "update"
	AuditDelete         AuditAction = "delete"
	AuditView           AuditAction = "view"
	AuditExport         AuditAction = "export"
	AuditSettingsChange AuditAction = "settings_change"
	AuditPasswordChange AuditAction = "password_change"
	AuditRoleChange     AuditAction = "role_change"
)

// AuditLog is a system-wide immutable action record. Write-once, read-many;
// used for compliance reporting.
type AuditLog struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Action       AuditAction `gorm:"not null;index" json:"action"`
	ResourceType string      `gorm:"index" json:"resourceType,omitempty"` // inquiry, blog_post, setting, ...
	ResourceID   string      `gorm:"index" json:"resourceId,omitempty"`
	ResourceName string      `json:"resourceName,omitempty"`
	ActorID      string      `gorm:"type:uuid;index" json:"actorId,omitempty"`
	ActorEmail   string      `json:"actorEmail,omitempty"`
	Details      string      `gorm:"type:text" json:"details,omitempty"`
	IPAddress    string      `json:"ipAddress,omitempty"`
	UserAgent    string      `json:"userAgent,omitempty"`
	CreatedAt    time.Time   `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
