// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	router "chads-social/internal/api"
	"chads-social/internal/api/handler"
	"chads-social/internal/config"
	"chads-social/internal/identity"
	"chads-social/internal/metrics"
	"chads-social/internal/repository"
	"chads-social/internal/repository/postgres"
	"chads-social/internal/service"
	"chads-social/internal/util"
	"chads-social/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository  repository.AccountRepository
	TransferRepository repository.TransferRepository
	MessageRepository  repository.MessageRepository

	// Services
	LedgerService       service.LedgerService
	ConversationService service.ConversationService
	AccountService      service.AccountService

	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Log)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and bring the schema up to date
	database, err := db.NewPostgresDB(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := postgres.Migrate(ctx, app.DB, app.Logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository()
	app.TransferRepository = postgres.NewTransferRepository()
	app.MessageRepository = postgres.NewMessageRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Metrics
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(app.DB.DB, cfg.DB.DBName),
	)
	app.Metrics = metrics.New(app.Registry)

	// 6. Initialize Services
	tx := service.NewTransactor(app.DB, db.BeginTx, db.CommitTx, db.RollbackTx)
	app.LedgerService = service.NewLedgerService(
		tx,
		app.DB,
		app.AccountRepository,
		app.TransferRepository,
		app.MessageRepository,
		app.Metrics,
		app.Logger,
	)
	app.ConversationService = service.NewConversationService(
		tx,
		app.DB,
		app.MessageRepository,
		cfg.Messages,
		app.Metrics,
		app.Logger,
	)
	app.AccountService = service.NewAccountService(app.DB, app.AccountRepository)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	verifier, err := identity.NewVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to configure identity verification: %w", err)
	}
	if cfg.Auth.Mode == identity.ModeHeader {
		app.Logger.Warn("Header identity mode is enabled; callers are trusted without verification.")
	}

	deps := router.RouterDeps{
		Verifier:    verifier,
		RateLimiter: router.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:     app.Metrics,
		Logger:      app.Logger,
	}
	if cfg.Metrics {
		deps.Gatherer = app.Registry
	}
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Transfers: handler.NewTransferHandler(app.LedgerService, app.Logger),
		Messages:  handler.NewMessageHandler(app.ConversationService, app.Logger),
		Accounts:  handler.NewAccountHandler(app.AccountService, app.Logger),
	}, deps)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
