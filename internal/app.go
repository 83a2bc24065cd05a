// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "opledger/internal/api"
	"opledger/internal/api/handler"
	"opledger/internal/api/middleware"
	"opledger/internal/config"
	"opledger/internal/identity"
	"opledger/internal/repository"
	"opledger/internal/repository/postgres"
	"opledger/internal/service"
	"opledger/internal/util"
	"opledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	BalanceRepository repository.BalanceRepository
	RecordRepository  repository.RecordRepository

	// External collaborators
	IdentityClient *identity.Client

	// Services
	BalanceService service.BalanceService
	RecordService  service.RecordService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
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
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.BalanceRepository = postgres.NewBalanceRepository(app.DB)
	app.RecordRepository = postgres.NewRecordRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize the identity client for the external auth service
	app.IdentityClient = identity.NewClient(app.Config.AuthAPIURL, app.Config.AuthTimeout, app.Logger)

	// 6. Initialize Services
	app.BalanceService = service.NewBalanceService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.BalanceRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.RecordService = service.NewRecordService(
		app.DB,
		app.DB,
		app.RecordRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	authGate := middleware.NewAuthGate(app.IdentityClient, app.Logger)
	balanceHandler := handler.NewBalanceHandler(app.BalanceService, app.Logger)
	recordHandler := handler.NewRecordHandler(app.RecordService, app.Logger)
	app.HTTPHandler = router.NewRouter(balanceHandler, recordHandler, authGate, app.Logger)
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
