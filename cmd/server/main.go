package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/moments/backend/internal/metrics"
	"github.com/anonto42/moments/backend/internal/moderation"
	"github.com/anonto42/moments/backend/internal/repositories"
	"github.com/anonto42/moments/backend/internal/router"
	"github.com/anonto42/moments/backend/internal/session"
	"github.com/anonto42/moments/backend/internal/state"
	"github.com/anonto42/moments/backend/pkg/config"
	"github.com/anonto42/moments/backend/pkg/firebase"
	"github.com/anonto42/moments/backend/pkg/logger"
	"github.com/anonto42/moments/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backing services are optional; whatever is unreachable falls back to memory.
	db, err := config.InitDB(ctx, cfg, zlog)
	if err != nil {
		zlog.Warn("Some backing services are unavailable, using in-memory fallbacks", zap.Error(err))
	}
	defer db.CloseDB()

	recorder := metrics.NewPrometheus()
	base := state.Options{
		Gate:          newGate(ctx, cfg, zlog),
		Preferences:   newPreferences(db, zlog),
		Locations:     newLocations(db, cfg),
		Trending:      newTrending(db, cfg),
		Metrics:       recorder,
		Logger:        zlog,
		NoticeTTL:     cfg.NoticeTTL,
		PurchaseDelay: cfg.PurchaseDelay,
		VerifyDelay:   cfg.VerifyDelay,
		AudioDelay:    cfg.AudioDelay,
	}
	sessions := session.NewManager(base, zlog, session.WithTTL(cfg.SessionTTL))
	defer sessions.Close()

	deps := router.Dependencies{
		Sessions:  sessions,
		JWTSecret: cfg.JWTSecret,
		Logger:    zlog,
	}
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, zlog)
		if err != nil {
			zlog.Warn("Firebase disabled", zap.Error(err))
		} else {
			deps.Firebase = firebaseApp
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, zlog)
	router.SetupRoutes(e, deps)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           recorder.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zlog.Info("Metrics listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		zlog.Info("Server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Metrics shutdown failed", zap.Error(err))
	}
}

func newGate(ctx context.Context, cfg *config.Config, zlog *zap.Logger) moderation.Gate {
	if cfg.GeminiAPIKey == "" {
		zlog.Info("GEMINI_API_KEY not set, using offline moderation")
		return moderation.Offline{}
	}
	gate, err := moderation.NewGeminiGate(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiVisionModel, zlog)
	if err != nil {
		zlog.Warn("Gemini unavailable, using offline moderation", zap.Error(err))
		return moderation.Offline{}
	}
	return gate
}

func newPreferences(db *config.DB, zlog *zap.Logger) repositories.PreferenceRepository {
	if db.Postgres == nil {
		return repositories.NewMemoryPreferenceRepository()
	}
	if err := router.AutoMigrate(db.Postgres); err != nil {
		zlog.Warn("Preference migration failed, using in-memory preferences", zap.Error(err))
		return repositories.NewMemoryPreferenceRepository()
	}
	zlog.Info("PostgreSQL auto-migrations completed")
	return repositories.NewPostgresPreferenceRepository(db.Postgres)
}

func newLocations(db *config.DB, cfg *config.Config) repositories.LocationCache {
	if db.Redis == nil {
		return repositories.NewMemoryLocationCache()
	}
	return repositories.NewRedisLocationCache(db.Redis, cfg.SessionTTL)
}

func newTrending(db *config.DB, cfg *config.Config) repositories.TrendingSource {
	generated := repositories.NewGeneratedTrendingSource(rand.New(rand.NewSource(time.Now().UnixNano())))
	if db.Mongo == nil {
		return generated
	}
	return repositories.FallbackTrendingSource{
		Primary:   repositories.NewMongoTrendingRepository(db.Mongo.Database(cfg.MongoDatabase)),
		Secondary: generated,
	}
}
