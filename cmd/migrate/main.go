// Command migrate applies pending database migrations and exits.
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
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "site-api-migrate"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if len(applied) == 0 {
		log.Info().Msg("schema already up to date")
		return
	}
	log.Info().Strs("applied", applied).Msg("migrations applied")
}
