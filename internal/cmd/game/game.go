// Package game parses game command flags and starts the game runtime.
package game

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	entrypoint "github.com/habagat/typhoon.garden/internal/platform/cmd"
	"github.com/habagat/typhoon.garden/internal/platform/random"
	"github.com/habagat/typhoon.garden/internal/services/game/app"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/roll"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/tax"
	gamesqlite "github.com/habagat/typhoon.garden/internal/services/game/storage/sqlite"
)

// Config holds game command configuration.
type Config struct {
	DBPath       string        `env:"TYPHOON_GARDEN_DB_PATH" envDefault:"data/game.db"`
	TickInterval time.Duration `env:"TYPHOON_GARDEN_TICK_INTERVAL" envDefault:"1m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the snapshot database")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Scheduler tick period")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game runtime: snapshot store, engines, and scheduler.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := gamesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close snapshot store: %v", closeErr)
		}
	}()

	stormSeed, err := random.NewSeed()
	if err != nil {
		return fmt.Errorf("seed storm engine: %w", err)
	}
	taxSeed, err := random.NewSeed()
	if err != nil {
		return fmt.Errorf("seed tax engine: %w", err)
	}

	svc := app.New(
		store,
		logMessenger{},
		logBroadcaster{},
		storm.NewEngine(roll.New(stormSeed)),
		tax.NewEngine(roll.New(taxSeed)),
	)
	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	log.Printf("game scheduler starting, tick every %v", cfg.TickInterval)
	return app.NewScheduler(svc, cfg.TickInterval).Run(ctx)
}
