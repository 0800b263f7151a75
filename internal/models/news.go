package models

import (
	"time"
)

// AutoPostStatus defines the review state of an externally fetched article
type AutoPostStatus string

const (
	AutoPostPending  AutoPostStatus = "pending"
	AutoPostApproved AutoPostStatus = "approved"
	AutoPostRejected AutoPostStatus = "rejected"
	AutoPostPosted   AutoPostStatus = "posted"
	AutoPostSkipped  AutoPostStatus = "skipped"
)

// Sentiment classifies the market tone of an article
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// NewsArticle is an externally fetched candidate for auto-posting. Articles
// enter as pending (or skipped when below the relevance threshold), are
// approved or rejected by a reviewer, and approved ones are turned into blog
// posts by the scheduler's auto-post pass.
type NewsArticle struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SourceName  string     `gorm:"index" json:"sourceName"`
	SourceURL   string     `gorm:"uniqueIndex;not null" json:"sourceUrl"`
	Title       string     `gorm:"not null" json:"title"`
	Summary     string     `gorm:"type:text" json:"summary,omitempty"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`

	RelevanceScore float64   `gorm:"default:0;index" json:"relevanceScore"` // 0..1
	Sentiment      Sentiment `gorm:"default:'neutral'" json:"sentiment"`
	TargetCategory string    `json:"targetCategory,omitempty"`

	AutoPostStatus AutoPostStatus `gorm:"default:'pending';index" json:"autoPostStatus"`
	ReviewNotes    string         `gorm:"type:text" json:"reviewNotes,omitempty"`
	ReviewedBy     string         `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty"`
	BlogPostID     *string        `gorm:"type:uuid" json:"blogPostId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for NewsArticle model
func (NewsArticle) TableName() string {
	return "news_articles"
}
