package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/config"
	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/internal/handlers"
	"github.com/lifequest/backend/internal/migrations"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/routes"
	"github.com/lifequest/backend/internal/services"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Env)
	logger.Info().Str("environment", cfg.Env).Msg("Starting LifeQuest backend...")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if _, err := migrations.NewMigrator(db).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	cache := database.NewCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
	defer cache.Close()

	gate, err := progression.NewGate(cfg.GenerationWindowStart, cfg.GenerationWindowEnd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid generation window")
	}

	st := store.NewGorm(db)
	missions := services.NewMissionService(st,
		progression.SystemClock,
		progression.NewRand(time.Now().UnixNano()),
		services.WithGate(gate),
		services.WithCache(cache),
	)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get underlying sql.DB")
	}
	h := handlers.New(st, missions, sqlDB.PingContext)

	r := routes.NewRouter(routes.Deps{
		Handler:              h,
		Store:                st,
		Cache:                cache,
		FrontendURL:          cfg.FrontendURL,
		GenerateLimitPerHour: cfg.GenerateLimitPerHour,
	})

	go missions.RunExpirer(ctx, cfg.ExpireInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	_ = sqlDB.Close()

	logger.Info().Msg("Server exited gracefully")
}
