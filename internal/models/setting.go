package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSetting is a key/value configuration entry. Values are JSON; keys on
// the public allow-list are exposed to the marketing site, everything else is
// admin-only.
type SiteSetting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `json:"value"`
	Category  string         `gorm:"default:'general';index" json:"category"`
	IsPublic  bool           `gorm:"default:false;index" json:"isPublic"`
	UpdatedBy string         `gorm:"type:uuid" json:"updatedBy,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for SiteSetting model
func (SiteSetting) TableName() string {
	return "site_settings"
}
