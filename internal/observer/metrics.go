package observer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InquiriesCreated counts inquiries received via the public contact form
	InquiriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_inquiries_created_total",
		Help: "Total inquiries submitted through the contact form",
	})

	// InquiryStatusChanges counts pipeline transitions by target status
	InquiryStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_inquiry_status_changes_total",
		Help: "Total inquiry status changes by new status",
	}, []string{"status"})

	// JobRuns counts scheduled job executions by type and outcome
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_job_runs_total",
		Help: "Total scheduled job executions by job type and outcome",
	}, []string{"job_type", "status"})

	// NewsArticlesStored counts fetched articles by resulting review status
	NewsArticlesStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_news_articles_stored_total",
		Help: "Total fetched news articles stored by initial status",
	}, []string{"status"})

	// AutoPosts counts blog posts created from approved news articles
	AutoPosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_auto_posts_total",
		Help: "Total blog posts created by the auto-post pass",
	})

	// ExportsGenerated counts report exports by format
	ExportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_exports_generated_total",
		Help: "Total report exports by format",
	}, []string{"format"})
)
