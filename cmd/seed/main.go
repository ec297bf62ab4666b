// Package main seeds the database with demo flags for local development.
package main

import (
	"context"
	"fmt"
	"os"

	"openflag/internal/domain/flags"
	"openflag/internal/infrastructure/storage/postgres"
	"openflag/internal/infrastructure/storage/postgres/flag_repo"
	"openflag/pkg/logger"
)

type seedFlag struct {
	key         string
	name        string
	description string
	typ         flags.FlagType
	value       string
	enabled     bool
}

var demoFlags = []seedFlag{
	{"dark_mode", "Dark Mode", "Enables the dark UI theme", flags.TypeBoolean, "true", true},
	{"new_checkout", "New Checkout Flow", "Gradual rollout of the rebuilt checkout", flags.TypeBoolean, "false", true},
	{"max_items", "Max Items Per Page", "Pagination size for list views", flags.TypeNumber, "50", true},
	{"welcome_message", "Welcome Message", "Banner text on the landing page", flags.TypeString, "Welcome to OpenFlag!", true},
	{"ui_config", "UI Configuration", "Theme and layout settings", flags.TypeJSON, `{"theme":"dark","sidebar":true}`, true},
	{"legacy_api", "Legacy API", "Kept for clients that still resolve it", flags.TypeBoolean, "false", false},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("required environment variable DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	repo := flag_repo.NewFlagRepo(postgres.NewTxManager(pool))

	created := 0
	for _, s := range demoFlags {
		exists, err := repo.ExistsByKey(ctx, s.key)
		if err != nil {
			log.Fatalw("failed to check flag", "key", s.key, "error", err)
		}
		if exists {
			log.Infow("flag already present, skipping", "key", s.key)
			continue
		}

		flag := flags.NewFlag(s.key, s.name, s.typ, s.value, s.enabled)
		if s.description != "" {
			desc := s.description
			flag.Description = &desc
		}

		if err := repo.Create(ctx, flag); err != nil {
			log.Fatalw("failed to create flag", "key", s.key, "error", err)
		}
		log.Infow("flag created", "key", s.key, "type", s.typ)
		created++
	}

	log.Infow("seed complete", "created", created, "skipped", len(demoFlags)-created)
}
