// Command server runs the coffee shop HTTP API.
//
//	@title						Coffee Shop API
//	@version					1.0
//	@description				News, posts, menu, reviews, staff schedule and reputation for the coffee shop site.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/coffeeshop/site-api/docs"
	"github.com/coffeeshop/site-api/internal/api"
	"github.com/coffeeshop/site-api/internal/api/handler"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/core/service"
	"github.com/coffeeshop/site-api/internal/core/token"
	"github.com/coffeeshop/site-api/internal/infrastructure/db/mongo"
	"github.com/coffeeshop/site-api/internal/infrastructure/db/postgres"
	"github.com/coffeeshop/site-api/internal/infrastructure/db/redis"
	"github.com/coffeeshop/site-api/internal/infrastructure/storage"
	"github.com/coffeeshop/site-api/internal/pkg/config"
	"github.com/coffeeshop/site-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "site-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		applied, err := postgres.Migrate(ctx, db, logger.Component("migrate"))
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("migrations up to date")
	}

	health := map[string]handler.PingFunc{"postgres": db.PingContext}

	// Optional stores. Interfaces stay nil when disabled.
	var (
		auditRepo   ports.AuditRepository
		auditReader ports.AuditReader
		throttle    ports.LoginThrottle
	)

	if cfg.Mongo.Enabled {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "site-api"})
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		defer disconnectMongo(client, log)

		repo := mongo.NewAuditRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		auditRepo, auditReader = repo, repo
		health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer closeRedis(client, log)

		throttle = redis.NewLoginThrottle(client, cfg.Redis.MaxAttempts, cfg.Redis.Window)
		health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info().Int("max_attempts", cfg.Redis.MaxAttempts).Dur("window", cfg.Redis.Window).Msg("login throttle enabled")
	}

	store, uploadDir, err := imageStore(ctx, cfg.Upload)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	pol := policy.New(cfg.CreatorUsername)
	images := service.NewImages(store, cfg.Upload.MaxBytes, logger.Component("images"))

	accountRepo := postgres.NewAccountRepository(db)

	roles := service.NewRoleService(accountRepo, pol, auditRepo, logger.Component("roles"))
	if err := roles.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile roles: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Log:      logger.Component("http"),
		Tokens:   tokens,
		Accounts: accountRepo,

		Auth:       service.NewAuthService(accountRepo, roles, tokens, throttle, logger.Component("auth")),
		Users:      service.NewAccountService(accountRepo, pol, images, auditRepo, logger.Component("accounts")),
		Roles:      roles,
		Reputation: service.NewReputationService(postgres.NewReputationRepository(db), pol, auditRepo, logger.Component("reputation")),
		News:       service.NewFeedService(domain.FeedNews, postgres.NewFeedRepository(db, domain.FeedNews), pol, images, auditRepo, logger.Component("news")),
		Posts:      service.NewFeedService(domain.FeedPosts, postgres.NewFeedRepository(db, domain.FeedPosts), pol, images, auditRepo, logger.Component("posts")),
		Drinks:     service.NewDrinkService(postgres.NewDrinkRepository(db), pol, images, auditRepo, logger.Component("drinks")),
		Schedule:   service.NewScheduleService(postgres.NewShiftRepository(db), accountRepo, pol, logger.Component("schedule")),
		Uploads:    service.NewUploadService(images),
		Audit:      auditReader,

		Health:    health,
		UploadDir: uploadDir,
		BodyLimit: bodyLimit(cfg.Upload.MaxBytes),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// imageStore builds the configured backend. The returned directory is served
// at /uploads and is empty for S3.
func imageStore(ctx context.Context, cfg config.UploadConfig) (ports.ImageStore, string, error) {
	if cfg.Backend == config.UploadBackendS3 {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
			PublicURL:    cfg.S3.PublicURL,
			Prefix:       cfg.S3.Prefix,
		})
		return s3, "", err
	}
	local, err := storage.NewLocalStore(cfg.Dir)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}

// bodyLimit leaves room for multipart framing around the largest image.
func bodyLimit(maxImage int64) string {
	return fmt.Sprintf("%dK", maxImage/1024+1024)
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
