package scheduler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/notify"
	"github.com/meridianpetro/meridian-backend/internal/observer"
	newsservice "github.com/meridianpetro/meridian-backend/internal/services/news"
	"github.com/meridianpetro/meridian-backend/internal/services/settings"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

const defaultMinRelevance = 0.35

// Engine executes scheduled jobs: news ingestion, price snapshots, and the
// auto-post pass over approved articles
type Engine struct {
	db       *gorm.DB
	cfg      config.SchedulerConfig
	fetcher  *Fetcher
	analyzer Analyzer
	news     *newsservice.Service
	settings *settings.Service
	hub      *notify.Hub

	pool   *ants.Pool
	cancel context.CancelFunc
	done   chan struct{}

	// in-flight job IDs, so a slow run is not resubmitted by the next scan
	mu      sync.Mutex
	running map[uint]struct{}
}

// NewEngine wires the job engine. analyzer may be a GeminiClient or the
// keyword fallback.
func NewEngine(db *gorm.DB, cfg config.SchedulerConfig, analyzer Analyzer, hub *notify.Hub) (*Engine, error) {
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		db:       db,
		cfg:      cfg,
		fetcher:  NewFetcher(),
		analyzer: analyzer,
		news:     newsservice.NewService(db),
		settings: settings.NewService(db),
		hub:      hub,
		pool:     pool,
		done:     make(chan struct{}),
		running:  make(map[uint]struct{}),
	}, nil
}

// Start begins the scan loop. Non-blocking; use Stop to shut down.
func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	go func() {
		defer close(e.done)
		ticker := time.NewTicker(time.Duration(e.cfg.ScanInterval) * time.Second)
		defer ticker.Stop()

		logger.Log.Info("scheduler started",
			zap.Int("scan_interval_s", e.cfg.ScanInterval),
			zap.Int("pool_size", e.cfg.PoolSize))

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.scan(ctx)
			}
		}
	}()
}

// Stop cancels the scan loop and releases the worker pool
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
		<-e.done
	}
	e.pool.Release()
	logger.Log.Info("scheduler stopped")
}

// scan submits every due active job to the pool, then runs the auto-post pass
func (e *Engine) scan(ctx context.Context) {
	var due []models.ScheduledJob
	now := time.Now().UTC()
	if err := e.db.Where("is_active = ? AND (next_run_at IS NULL OR next_run_at <= ?)", true, now).
		Find(&due).Error; err != nil {
		logger.Log.Error("scheduler: failed to scan jobs", zap.Error(err))
		return
	}

	for i := range due {
		job := due[i]
		if err := e.pool.Submit(func() { e.RunJob(ctx, &job) }); err != nil {
			logger.Log.Warn("scheduler: pool rejected job", zap.Uint("job_id", job.ID), zap.Error(err))
		}
	}

	if err := e.postApproved(ctx); err != nil {
		logger.Log.Error("scheduler: auto-post pass failed", zap.Error(err))
	}
}

// tryAcquire marks a job as in-flight. Returns false when a run of the same
// job is still going.
func (e *Engine) tryAcquire(jobID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, inFlight := e.running[jobID]; inFlight {
		return false
	}
	e.running[jobID] = struct{}{}
	return true
}

func (e *Engine) release(jobID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, jobID)
}

// RunJob executes one job now, regardless of its schedule. Also used by the
// dashboard's run-now action.
func (e *Engine) RunJob(ctx context.Context, job *models.ScheduledJob) {
	log := logger.Log.With(zap.Uint("job_id", job.ID), zap.String("job_type", string(job.JobType)))

	if !e.tryAcquire(job.ID) {
		log.Debug("previous run still in flight, skipping")
		return
	}
	defer e.release(job.ID)

	started := time.Now().UTC()

	var apiCfg *models.APIConfig
	if job.APIConfigID != nil {
		apiCfg = &models.APIConfig{}
		if err := e.db.First(apiCfg, *job.APIConfigID).Error; err != nil {
			e.finishRun(job, started, 0, 0, err)
			return
		}
		if ok, err := e.consumeRateBudget(apiCfg); err != nil {
			e.finishRun(job, started, 0, 0, err)
			return
		} else if !ok {
			log.Warn("rate limit exhausted, skipping run")
			e.finishRun(job, started, 0, 0, errRateLimited)
			return
		}
	}

	var fetched, stored int
	var err error
	switch job.JobType {
	case models.JobTypeNewsFetch:
		fetched, stored, err = e.runNewsFetch(ctx, apiCfg)
	case models.JobTypePriceUpdate:
		fetched, stored, err = e.runPriceUpdate(ctx, apiCfg)
	default:
		log.Warn("unknown job type")
		return
	}

	e.finishRun(job, started, fetched, stored, err)
}

var errRateLimited = &rateLimitError{}

type rateLimitError struct{}

func (*rateLimitError) Error() string { return "api rate limit exhausted for this hour" }

// consumeRateBudget advances the hourly window and takes one request from it.
// Returns false when the budget is exhausted. The increment is guarded in
// SQL so concurrent runs sharing a config cannot lose an update or overshoot
// the limit.
func (e *Engine) consumeRateBudget(cfg *models.APIConfig) (bool, error) {
	now := time.Now().UTC()
	if RateWindowExpired(cfg.RateWindowStart, now) {
		if err := e.db.Model(cfg).Updates(map[string]interface{}{
			"rate_window_start":  now,
			"requests_this_hour": 0,
		}).Error; err != nil {
			return false, err
		}
		cfg.RateWindowStart = &now
		cfg.RequestsThisHour = 0
	}

	res := e.db.Model(&models.APIConfig{}).
		Where("id = ? AND (rate_limit_per_hour <= 0 OR requests_this_hour < rate_limit_per_hour)", cfg.ID).
		Update("requests_this_hour", gorm.Expr("requests_this_hour + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cfg.RequestsThisHour++
	return true, nil
}

// RateWindowExpired reports whether the hourly window needs a reset
func RateWindowExpired(start *time.Time, now time.Time) bool {
	return start == nil || now.Sub(*start) >= time.Hour
}

// runNewsFetch pulls the feed, scores new articles, and stores them
func (e *Engine) runNewsFetch(ctx context.Context, apiCfg *models.APIConfig) (int, int, error) {
	if apiCfg == nil {
		return 0, 0, errMissingConfig
	}

	articles, err := e.fetcher.FetchArticles(ctx, apiCfg)
	if err != nil {
		return 0, 0, err
	}

	threshold := e.minRelevance()
	stored := 0
	for _, item := range articles {
		if item.URL == "" || item.Title == "" {
			continue
		}

		// Dedupe by source URL
		var count int64
		if err := e.db.Model(&models.NewsArticle{}).
			Where("source_url = ?", item.URL).Count(&count).Error; err != nil {
			return len(articles), stored, err
		}
		if count > 0 {
			continue
		}

		score, sentiment, err := e.analyzer.Analyze(ctx, item.Title, item.Summary)
		if err != nil {
			logger.Log.Warn("analysis failed, falling back to keyword scorer", zap.Error(err))
			score, sentiment, _ = KeywordScorer{}.Analyze(ctx, item.Title, item.Summary)
		}

		status := models.AutoPostPending
		if score < threshold {
			status = models.AutoPostSkipped
		}

		source := item.Source
		if source == "" {
			source = apiCfg.Name
		}

		article := models.NewsArticle{
			SourceName:     source,
			SourceURL:      item.URL,
			Title:          item.Title,
			Summary:        item.Summary,
			Content:        item.Content,
			PublishedAt:    item.PublishedAt,
			RelevanceScore: score,
			Sentiment:      sentiment,
			AutoPostStatus: status,
		}
		if err := e.db.Create(&article).Error; err != nil {
			return len(articles), stored, err
		}
		stored++
		observer.NewsArticlesStored.WithLabelValues(string(status)).Inc()
	}

	return len(articles), stored, nil
}

var errMissingConfig = &missingConfigError{}

type missingConfigError struct{}

func (*missingConfigError) Error() string { return "job has no API config" }

// runPriceUpdate fetches benchmark quotes and upserts today's snapshot
func (e *Engine) runPriceUpdate(ctx context.Context, apiCfg *models.APIConfig) (int, int, error) {
	if apiCfg == nil {
		return 0, 0, errMissingConfig
	}

	quote, err := e.fetcher.FetchPrices(ctx, apiCfg)
	if err != nil {
		return 0, 0, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var previous models.OilPrice
	hasPrevious := e.db.Where("price_date < ?", today).
		Order("price_date DESC").First(&previous).Error == nil

	row := models.OilPrice{
		PriceDate:       today,
		BrentPrice:      quote.Brent,
		WTIPrice:        quote.WTI,
		OPECBasketPrice: quote.OPECBasket,
		NaturalGasPrice: quote.NaturalGas,
		Source:          apiCfg.Name,
	}
	if hasPrevious {
		row.BrentChange, row.BrentChangePct = PriceChange(previous.BrentPrice, quote.Brent)
		row.WTIChange, row.WTIChangePct = PriceChange(previous.WTIPrice, quote.WTI)
		row.OPECBasketChange, row.OPECBasketChgPct = PriceChange(previous.OPECBasketPrice, quote.OPECBasket)
		row.NaturalGasChange, row.NaturalGasChgPct = PriceChange(previous.NaturalGasPrice, quote.NaturalGas)
	}

	// One row per date: replace today's snapshot if it already exists
	var existing models.OilPrice
	if err := e.db.Where("price_date = ?", today).First(&existing).Error; err == nil {
		row.ID = existing.ID
		return 1, 1, e.db.Save(&row).Error
	}
	return 1, 1, e.db.Create(&row).Error
}

// PriceChange computes the absolute and percent change between two prices
func PriceChange(prev, current float64) (float64, float64) {
	change := current - prev
	if prev == 0 {
		return change, 0
	}
	return change, change / prev * 100
}

// finishRun records the execution outcome and reschedules the job
func (e *Engine) finishRun(job *models.ScheduledJob, started time.Time, fetched, stored int, runErr error) {
	finished := time.Now().UTC()
	status := models.ExecutionSuccess
	errText := ""
	if runErr != nil {
		status = models.ExecutionFailure
		errText = runErr.Error()
	}

	exec := models.JobExecutionLog{
		JobID:        job.ID,
		Status:       status,
		StartedAt:    started,
		FinishedAt:   finished,
		ItemsFetched: fetched,
		ItemsStored:  stored,
		Error:        errText,
	}
	if err := e.db.Create(&exec).Error; err != nil {
		logger.Log.Error("scheduler: failed to write execution log", zap.Error(err))
	}

	job.RunCount++
	if runErr == nil {
		job.SuccessCount++
		job.LastError = ""
	} else {
		job.FailureCount++
		job.LastError = errText
	}
	job.SuccessRate = SuccessRate(job.SuccessCount, job.RunCount)
	job.LastRunAt = &started
	next := NextRun(finished, job.IntervalMinutes)
	job.NextRunAt = &next

	if err := e.db.Model(job).Updates(map[string]interface{}{
		"run_count":     job.RunCount,
		"success_count": job.SuccessCount,
		"failure_count": job.FailureCount,
		"success_rate":  job.SuccessRate,
		"last_run_at":   job.LastRunAt,
		"next_run_at":   job.NextRunAt,
		"last_error":    job.LastError,
	}).Error; err != nil {
		logger.Log.Error("scheduler: failed to update job counters", zap.Error(err))
	}

	observer.JobRuns.WithLabelValues(string(job.JobType), string(status)).Inc()

	if runErr != nil {
		logger.Log.Error("job run failed",
			zap.Uint("job_id", job.ID), zap.String("job", job.Name), zap.Error(runErr))
		e.notifyFailure(job, runErr)
	}
}

// notifyFailure stores a broadcast notification and pushes it to live sessions
func (e *Engine) notifyFailure(job *models.ScheduledJob, runErr error) {
	n := models.Notification{
		Title:    "Scheduled job failed: " + job.Name,
		Message:  runErr.Error(),
		Type:     models.NotifyError,
		Category: models.NotifyCategorySystem,
	}
	if err := e.db.Create(&n).Error; err != nil {
		logger.Log.Error("scheduler: failed to store failure notification", zap.Error(err))
		return
	}
	if e.hub != nil {
		e.hub.Broadcast(&n)
	}
}

// NextRun computes the next scheduled run from the end of the current one
func NextRun(finished time.Time, intervalMinutes int) time.Time {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return finished.Add(time.Duration(intervalMinutes) * time.Minute)
}

// SuccessRate returns the persisted percentage, one decimal place
func SuccessRate(successes, runs int) float64 {
	if runs == 0 {
		return 0
	}
	return float64(int64(float64(successes)/float64(runs)*1000+0.5)) / 10
}

// minRelevance reads the news_min_relevance setting, defaulting when absent
// or unparsable
func (e *Engine) minRelevance() float64 {
	flat, err := e.settings.LoadFlat()
	if err != nil {
		return defaultMinRelevance
	}
	raw, ok := flat["news_min_relevance"]
	if !ok {
		return defaultMinRelevance
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return defaultMinRelevance
	}
	return v
}
