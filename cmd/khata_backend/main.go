package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/dto"
	"github.com/mdnahid/baki_khata_app/internal/events/kafka"
	"github.com/mdnahid/baki_khata_app/internal/handlers"
	"github.com/mdnahid/baki_khata_app/internal/middleware"
	"github.com/mdnahid/baki_khata_app/internal/repositories/database/pgsql"
	"github.com/mdnahid/baki_khata_app/internal/repositories/extraction"
	"github.com/mdnahid/baki_khata_app/internal/repositories/localcache"
	"github.com/mdnahid/baki_khata_app/pkg/config"
	"github.com/mdnahid/baki_khata_app/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Local cache is mandatory; the app cannot run without it.
	cache, err := localcache.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to initialize local cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The remote store is optional. A missing or unreachable database
	// degrades the app to local-only mode rather than failing startup.
	var (
		dbPool       *pgxpool.Pool
		remoteLedger ports.RemoteLedger
		remotePhones ports.RemotePhones
	)
	if cfg.DatabaseURL != "" {
		dbPool, err = database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Remote store unreachable, continuing local-only", slog.String("error", err.Error()))
		} else {
			defer database.ClosePgxPool(dbPool)
			if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
				logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
				os.Exit(1)
			}
			remoteLedger = pgsql.NewLedgerRepository(dbPool)
			remotePhones = pgsql.NewPhoneRepository(dbPool)
		}
	}

	// Optional best-effort event publishing.
	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka event publishing enabled", slog.Int("brokers", len(cfg.KafkaBrokers)))
	}

	// Optional smart-entry extraction.
	var extractor ports.TransactionExtractor
	if cfg.GeminiAPIKey != "" {
		extractor = extraction.NewGeminiExtractor(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.RemoteTimeout)
		logger.Info("Smart entry extraction enabled")
	}

	svcs := &handlers.Services{
		Sessions: services.NewSessionManager(cache, remoteLedger, remotePhones, publisher, cfg.RemoteTimeout, logger),
		Shops:    services.NewShopService(cache, logger),
		Smart:    services.NewSmartEntryService(extractor, logger),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterCustomValidators()

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection via the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
