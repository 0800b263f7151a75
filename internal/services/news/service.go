package news

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

var (
	// ErrNotFound is returned when the article does not exist
	ErrNotFound = errors.New("news article not found")
	// ErrNotPending is returned when a review action targets a non-pending article
	ErrNotPending = errors.New("article has already been reviewed")
)

// Service owns the news review gate. Review transitions are one-way:
// pending -> approved, pending -> rejected. The scheduler later moves
// approved articles to posted.
type Service struct {
	db *gorm.DB
}

// NewService creates a news review service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Approve marks a pending article approved. No undo.
func (s *Service) Approve(id, notes string, reviewer *models.AdminProfile) (*models.NewsArticle, error) {
	return s.review(id, models.AutoPostApproved, notes, reviewer)
}

// Reject marks a pending article rejected. No undo.
func (s *Service) Reject(id, notes string, reviewer *models.AdminProfile) (*models.NewsArticle, error) {
	return s.review(id, models.AutoPostRejected, notes, reviewer)
}

func (s *Service) review(id string, target models.AutoPostStatus, notes string, reviewer *models.AdminProfile) (*models.NewsArticle, error) {
	var article models.NewsArticle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if article.AutoPostStatus != models.AutoPostPending {
			return fmt.Errorf("%w: status is %s", ErrNotPending, article.AutoPostStatus)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"auto_post_status": target,
			"review_notes":     notes,
			"reviewed_at":      now,
		}
		if reviewer != nil {
			updates["reviewed_by"] = reviewer.ID
		}

		if err := tx.Model(&models.NewsArticle{}).Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return err
		}

		article.AutoPostStatus = target
		article.ReviewNotes = notes
		article.ReviewedAt = &now
		if reviewer != nil {
			article.ReviewedBy = reviewer.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// MarkPosted links an approved article to the blog post created from it.
// Called only by the scheduler's auto-post pass.
func (s *Service) MarkPosted(id, blogPostID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var article models.NewsArticle
		if err := tx.First(&article, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if article.AutoPostStatus != models.AutoPostApproved {
			return fmt.Errorf("cannot post article in status %s", article.AutoPostStatus)
		}
		return tx.Model(&models.NewsArticle{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"auto_post_status": models.AutoPostPosted,
				"blog_post_id":     blogPostID,
			}).Error
	})
}
