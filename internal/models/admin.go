package models

import (
	"time"

	"gorm.io/gorm"
)

// Role defines the back-office permission level
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleLevels is the strict total order used for authorization gating
var roleLevels = map[Role]int{
	RoleViewer:     0,
	RoleEditor:     1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Valid reports whether the role is one of the known levels
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether the role meets the minimum required level
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min]
}

// AdminProfile represents an authenticated back-office user
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type AdminProfile struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FullName    string     `gorm:"not null" json:"fullName"`
	Role        Role       `gorm:"default:'viewer';index" json:"role"`
	Phone       string     `json:"phone,omitempty"`
	Department  string     `json:"department,omitempty"`
	AvatarPath  string     `json:"avatarPath,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for AdminProfile model
func (AdminProfile) TableName() string {
	return "admin_profiles"
}
