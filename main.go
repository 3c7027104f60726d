package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voice-local/api-go/config"
	"github.com/voice-local/api-go/logger"
	"github.com/voice-local/api-go/repository"
	"github.com/voice-local/api-go/routes"
	"github.com/voice-local/api-go/storage"
	"github.com/voice-local/api-go/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db, err := config.InitDB(cfg.Database, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}

	deps := routes.Dependencies{
		Users:      repository.NewUserRepository(db),
		Categories: repository.NewCategoryRepository(db),
		Issues:     repository.NewIssueRepository(db),
		Comments:   repository.NewCommentRepository(db),
		Votes:      repository.NewVoteRepository(db),
		Tokens:     utils.NewTokenService(cfg.JWT),
	}
	if images := storage.NewR2Store(cfg.R2); images != nil {
		deps.Images = images
	} else {
		l.Warn("Cloudflare R2 is not configured, image uploads are disabled")
	}
	if google := config.NewGoogleConfig(cfg.Google); google != nil {
		deps.Google = google
	} else {
		l.Warn("Google OAuth is not configured, Google sign-in is disabled")
	}

	router := routes.NewRouter(cfg, l, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		l.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	l.Info("Received shutdown signal...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Errorf("Server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	l.Info("Server stopped")
}
