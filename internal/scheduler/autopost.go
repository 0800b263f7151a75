package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/observer"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

// postApproved converts every approved news article into a blog post and
// marks it posted. Posts are created as drafts unless the news_auto_publish
// setting is "true".
func (e *Engine) postApproved(ctx context.Context) error {
	var approved []models.NewsArticle
	if err := e.db.Where("auto_post_status = ?", models.AutoPostApproved).
		Order("reviewed_at").Limit(20).Find(&approved).Error; err != nil {
		return err
	}
	if len(approved) == 0 {
		return nil
	}

	publish := false
	if flat, err := e.settings.LoadFlat(); err == nil {
		publish = flat["news_auto_publish"] == "true"
	}

	for i := range approved {
		article := &approved[i]
		if err := e.postOne(article, publish); err != nil {
			logger.Log.Error("auto-post failed",
				zap.String("article_id", article.ID), zap.Error(err))
			continue
		}
		observer.AutoPosts.Inc()
	}
	return nil
}

func (e *Engine) postOne(article *models.NewsArticle, publish bool) error {
	status := models.PostStatusDraft
	var publishedAt *time.Time
	if publish {
		status = models.PostStatusPublished
		now := time.Now().UTC()
		publishedAt = &now
	}

	tags, _ := json.Marshal([]string{"market-news", "auto-post"})

	content := article.Content
	if content == "" {
		content = article.Summary
	}
	content += fmt.Sprintf("\n\nSource: %s (%s)", article.SourceName, article.SourceURL)

	post := models.BlogPost{
		Slug:            utils.Slugify(article.Title),
		Title:           article.Title,
		Excerpt:         article.Summary,
		Content:         content,
		Status:          status,
		Tags:            datatypes.JSON(tags),
		IsAutoGenerated: true,
		AutoSource:      article.SourceName,
		PublishedAt:     publishedAt,
	}

	// Slug collisions get a date suffix rather than failing the pass
	var count int64
	if err := e.db.Model(&models.BlogPost{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		post.Slug = fmt.Sprintf("%s-%s", post.Slug, time.Now().UTC().Format("20060102150405"))
	}

	if err := e.db.Create(&post).Error; err != nil {
		return err
	}

	return e.news.MarkPosted(article.ID, post.ID)
}
