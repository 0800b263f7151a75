package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostStatus defines the publication state of a blog post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether the post status is known
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// BlogCategory groups blog posts for the public site
type BlogCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for BlogCategory model
func (BlogCategory) TableName() string {
	return "blog_categories"
}

// BlogPost is a content entity for the public site, either hand-written or
// generated from an approved news article by the auto-post pass
type BlogPost struct {
	ID         string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Slug       string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title      string     `gorm:"not null" json:"title"`
	Excerpt    string     `gorm:"type:text" json:"excerpt,omitempty"`
	Content    string     `gorm:"type:text" json:"content"`
	Status     PostStatus `gorm:"default:'draft';index" json:"status"`
	CategoryID *uint      `gorm:"index" json:"categoryId,omitempty"`
	AuthorID   string     `gorm:"type:uuid" json:"authorId,omitempty"`

	// Ordered tag list
	Tags datatypes.JSON `json:"tags,omitempty"`

	// SEO fields
	SEOTitle       string `json:"seoTitle,omitempty"`
	SEODescription string `json:"seoDescription,omitempty"`

	// Auto-generation provenance
	IsAutoGenerated bool   `gorm:"default:false;index" json:"isAutoGenerated"`
	AutoSource      string `json:"autoSource,omitempty"`

	// Market-analysis fields
	MarketOutlook string         `gorm:"type:text" json:"marketOutlook,omitempty"`
	KeyFactors    datatypes.JSON `json:"keyFactors,omitempty"`

	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Category *BlogCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for BlogPost model
func (BlogPost) TableName() string {
	return "blog_posts"
}
