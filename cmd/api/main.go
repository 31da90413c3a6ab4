package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uni-mart/unimart-backend/config"
	"github.com/uni-mart/unimart-backend/internal/audit"
	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/auth/tokencache"
	"github.com/uni-mart/unimart-backend/internal/bootstrap"
	"github.com/uni-mart/unimart-backend/internal/docstore"
	"github.com/uni-mart/unimart-backend/internal/logger"
	"github.com/uni-mart/unimart-backend/internal/media"
	"github.com/uni-mart/unimart-backend/internal/metrics"
	"github.com/uni-mart/unimart-backend/internal/session"
)

const serviceName = "unimart-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.SetupDefault(os.Stdout, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fbAuth, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		slog.Error("failed to initialize firebase", "error", err)
		os.Exit(1)
	}

	fsClient, err := bootstrap.OpenFirestore(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to firestore", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()
	store := docstore.NewFirestoreStore(fsClient)

	// Token cache is best-effort: run without it if redis is unreachable.
	var tokenCache auth.TokenCache
	redisClient, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		slog.Warn("redis unavailable, token cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		tokenCache = tokencache.New(redisClient)
	}

	verifier := auth.NewFirebaseVerifier(fbAuth, tokenCache, config.TokenCacheTTL)
	sessions := session.NewProvider()
	collector := metrics.NewCollector()
	uploader := media.NewUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.UploadPreset)

	router, limiter := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:        serviceName,
		Version:            cfg.App.Version,
		Store:              store,
		Cache:              redisClient,
		Verifier:           verifier,
		Revoker:            fbAuth,
		Sessions:           sessions,
		Uploader:           uploader,
		Metrics:            collector,
		RateLimitPerMinute: cfg.RateLimit.RequestsPerMinute,
		RateLimitBurst:     cfg.RateLimit.Burst,
	})
	defer limiter.Stop()

	if cfg.Audit.Enabled {
		auditor := audit.NewAuditor(store, collector)
		scheduler := audit.NewScheduler(auditor, cfg.Audit.Spec)
		if err := scheduler.Start(); err != nil {
			slog.Error("failed to start cart audit scheduler", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
