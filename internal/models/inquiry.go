package models

import (
	"time"
)

// InquiryStatus defines the sales pipeline stage of an inquiry
type InquiryStatus string

const (
	InquiryStatusPending     InquiryStatus = "pending"
	InquiryStatusContacted   InquiryStatus = "contacted"
	InquiryStatusQualified   InquiryStatus = "qualified"
	InquiryStatusNegotiating InquiryStatus = "negotiating"
	InquiryStatusClosedWon   InquiryStatus = "closed_won"
	InquiryStatusClosedLost  InquiryStatus = "closed_lost"
)

// InquiryStatuses lists every pipeline stage in funnel order
var InquiryStatuses = []InquiryStatus{
	InquiryStatusPending,
	InquiryStatusContacted,
	InquiryStatusQualified,
	InquiryStatusNegotiating,
	InquiryStatusClosedWon,
	InquiryStatusClosedLost,
}

// Valid reports whether the status is one of the known pipeline stages
func (s InquiryStatus) Valid() bool {
	for _, known := range InquiryStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// InquiryCategory classifies the counterparty type of a lead
type InquiryCategory string

const (
	CategoryVerifiedBuyer    InquiryCategory = "verified-buyer"
	CategoryVerifiedSeller   InquiryCategory = "verified-seller"
	CategoryStrategicPartner InquiryCategory = "strategic-partner"
)

// Valid reports whether the category is known
func (c InquiryCategory) Valid() bool {
	return c == CategoryVerifiedBuyer || c == CategoryVerifiedSeller || c == CategoryStrategicPartner
}

// ProductType classifies the commodity an inquiry concerns
type ProductType string

const (
	ProductCrudeOil ProductType = "crude-oil"
	ProductPMS      ProductType = "pms"
	ProductAGO      ProductType = "ago"
	ProductJetFuel  ProductType = "jet-fuel"
	ProductMultiple ProductType = "multiple"
)

// Valid reports whether the product type is known
func (p ProductType) Valid() bool {
	switch p {
	case ProductCrudeOil, ProductPMS, ProductAGO, ProductJetFuel, ProductMultiple:
		return true
	}
	return false
}

// Inquiry represents a lead submitted via the public contact form,
// tracked through the sales pipeline by the back office
type Inquiry struct {
	ID              string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FullName        string          `gorm:"not null" json:"fullName"`
	Email           string          `gorm:"not null;index" json:"email"`
	Phone           string          `json:"phone,omitempty"`
	CompanyName     string          `json:"companyName,omitempty"`
	Category        InquiryCategory `gorm:"not null;index" json:"category"`
	ProductType     ProductType     `gorm:"not null;index" json:"productType"`
	EstimatedVolume float64         `json:"estimatedVolume"`
	VolumeUnit      string          `json:"volumeUnit,omitempty"` // bbl, mt, litres
	Message         string          `gorm:"type:text" json:"message"`
	Status          InquiryStatus   `gorm:"default:'pending';index" json:"status"`
	AssignedTo      *string         `gorm:"type:uuid;index" json:"assignedTo,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"` // append-only text log

	// Request metadata captured at submission time
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Source    string `gorm:"default:'website'" json:"source"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	AssignedAdmin *AdminProfile `gorm:"foreignKey:AssignedTo" json:"assignedAdmin,omitempty"`
	Logs          []InquiryLog  `gorm:"foreignKey:InquiryID" json:"logs,omitempty"`
}

// TableName specifies the table name for Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}

// InquiryLogAction defines the kind of audit entry recorded against an inquiry
type InquiryLogAction string

const (
	LogActionStatusChange InquiryLogAction = "status_change"
	LogActionNoteAdded    InquiryLogAction = "note_added"
	LogActionAssigned     InquiryLogAction = "assigned"
)

// InquiryLog is an immutable audit entry keyed to an inquiry. Append-only;
// rows are never updated, and are removed only when their inquiry is deleted.
type InquiryLog struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	InquiryID string           `gorm:"type:uuid;not null;index" json:"inquiryId"`
	Action    InquiryLogAction `gorm:"not null" json:"action"`
	OldStatus InquiryStatus    `json:"oldStatus,omitempty"`
	NewStatus InquiryStatus    `json:"newStatus,omitempty"`
	Note      string           `gorm:"type:text" json:"note,omitempty"`
	ActorID   string           `gorm:"type:uuid" json:"actorId,omitempty"`
	ActorName string           `json:"actorName,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// TableName specifies the table name for InquiryLog model
func (InquiryLog) TableName() string {
	return "inquiry_logs"
}
