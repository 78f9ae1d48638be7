// Command seed loads the showcase drink and its sample reviews. Safe to run
// repeatedly.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coffeeshop/site-api/internal/infrastructure/db/postgres"
	"github.com/coffeeshop/site-api/internal/pkg/config"
	"github.com/coffeeshop/site-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "site-api-seed"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	if _, err := postgres.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := postgres.Seed(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int64("drink_id", postgres.SampleDrinkID).Msg("seed complete")
}
