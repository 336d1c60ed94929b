package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loadflow/cmd"
	"loadflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfigs(logger)

	sqlDB, err := sql.Open("postgres", config.PostgresDSN())
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := cmd.Migrate(sqlDB); err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		logger.Error("gorm init failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("composition root init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Error("shutdown cleanup failed", "error", err)
		}
	}()

	jobManager := jobs.NewJobManager(
		root.CreateRunAutoTransitionsCommandHandler(),
		root.CreateSyncConvoysCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	root.CreateServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil {
			logger.Info("http server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, reading environment directly")
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "loadflow"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		KafkaHost:            envOr("KAFKA_HOST", "localhost:9092"),
		KafkaLoadEventsTopic: envOr("KAFKA_LOAD_EVENTS_TOPIC", "load.lifecycle.events"),

		ComplianceServiceURL:  envOr("COMPLIANCE_SERVICE_URL", "http://localhost:8091"),
		PositioningServiceURL: envOr("POSITIONING_SERVICE_URL", "http://localhost:8092"),
		BillingServiceURL:     envOr("BILLING_SERVICE_URL", "http://localhost:8093"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
