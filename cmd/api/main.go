package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/meridianpetro/meridian-backend/internal/ai"
	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/database"
	"github.com/meridianpetro/meridian-backend/internal/handlers"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/notify"
	"github.com/meridianpetro/meridian-backend/internal/scheduler"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.AdminProfile{},
		&models.Inquiry{},
		&models.InquiryLog{},
		&models.AuditLog{},
		&models.BlogCategory{},
		&models.BlogPost{},
		&models.NewsArticle{},
		&models.ScheduledJob{},
		&models.APIConfig{},
		&models.JobExecutionLog{},
		&models.OilPrice{},
		&models.SiteSetting{},
		&models.Notification{},
	); err != nil {
		logger.Log.Fatal("failed to migrate database schema", zap.Error(err))
	}

	hub := notify.NewHub()
	router := handlers.NewRouter(db, cfg, hub)

	// Relevance analysis falls back to the keyword scorer when no API key
	// is configured
	var analyzer scheduler.Analyzer = scheduler.KeywordScorer{}
	var gemini *ai.GeminiClient
	if cfg.Gemini.APIKey != "" {
		gemini, err = ai.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Log.Warn("gemini client unavailable, using keyword scorer", zap.Error(err))
		} else {
			analyzer = gemini
		}
	}

	var engine *scheduler.Engine
	if cfg.Scheduler.Enabled {
		engine, err = scheduler.NewEngine(db.DB, cfg.Scheduler, analyzer, hub)
		if err != nil {
			logger.Log.Fatal("failed to create job engine", zap.Error(err))
		}
		router.SetEngine(engine)
		engine.Start()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("server shutdown error", zap.Error(err))
	}

	if engine != nil {
		engine.Stop()
	}
	hub.Close()
	if gemini != nil {
		gemini.Close()
	}
	if err := db.Close(); err != nil {
		logger.Log.Error("database close error", zap.Error(err))
	}

	logger.Log.Info("shutdown complete")
}
