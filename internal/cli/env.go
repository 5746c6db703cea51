// Package cli implements the lqctl subcommands.
package cli

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lifequest/backend/internal/config"
	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/internal/progression"
	"github.com/lifequest/backend/internal/services"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	EnvFile = ".env"
	Verbose bool

	// openDB is replaced in tests.
	openDB = database.Connect

	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	bad  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// env is what every command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	db       *gorm.DB
	store    *store.Store
	missions *services.MissionService
}

func loadConfig() (*config.Config, error) {
	level := zerolog.InfoLevel
	if Verbose {
		level = zerolog.DebugLevel
	}
	logger.InitWriter(os.Stderr, level)

	cfg, err := config.Load(EnvFile)
	if err != nil {
		return nil, err
	}
	config.AppConfig = cfg
	return cfg, nil
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	gate, err := progression.NewGate(cfg.GenerationWindowStart, cfg.GenerationWindowEnd)
	if err != nil {
		return nil, err
	}
	st := store.NewGorm(db)
	return &env{
		cfg:   cfg,
		db:    db,
		store: st,
		missions: services.NewMissionService(st,
			progression.SystemClock,
			progression.NewRand(time.Now().UnixNano()),
			services.WithGate(gate),
		),
	}, nil
}
