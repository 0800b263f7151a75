package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meridianpetro/meridian-backend/internal/config"
	"github.com/meridianpetro/meridian-backend/internal/database"
	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/utils"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

// Seeds the first super admin account. Usage:
//
//	create_admin -email admin@example.com -password secret -name "Jane Doe"
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.AdminProfile{}); err != nil {
		logger.Log.Fatal("failed to migrate database schema", zap.Error(err))
	}

	var existing int64
	db.Model(&models.AdminProfile{}).Where("email = ?", *email).Count(&existing)
	if existing > 0 {
		logger.Log.Fatal("an admin with this email already exists", zap.String("email", *email))
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		logger.Log.Fatal("failed to hash password", zap.Error(err))
	}

	admin := models.AdminProfile{
		Email:    *email,
		Password: hash,
		FullName: *name,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		logger.Log.Fatal("failed to create admin", zap.Error(err))
	}

	logger.Log.Info("super admin created",
		zap.String("id", admin.ID),
		zap.String("email", admin.Email))
}
