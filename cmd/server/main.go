package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"deduction-reconciliation-backend/internal/config"
	"deduction-reconciliation-backend/internal/logger"
	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/routes"
	"deduction-reconciliation-backend/internal/storage"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog := logger.New(cfg.Log)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Grampanchayat{},
		&models.DeductionRecord{},
		&models.Staff{},
		&models.Admin{},
		&models.AgreementStatus{},
	); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	store, err := storage.NewGCSStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("init object store: %v", err)
	}
	defer store.Close()

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg, store, appLog)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	appLog.WithField("addr", addr).Info("server listening")
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
