// internal/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	router "vaultcore-ledger/internal/api"
	"vaultcore-ledger/internal/api/handler"
	"vaultcore-ledger/internal/auth"
	"vaultcore-ledger/internal/config"
	"vaultcore-ledger/internal/notify"
	"vaultcore-ledger/internal/otp"
	"vaultcore-ledger/internal/repository"
	"vaultcore-ledger/internal/repository/postgres"
	"vaultcore-ledger/internal/service"
	"vaultcore-ledger/internal/statement"
	"vaultcore-ledger/internal/util"
	"vaultcore-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *zap.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	AccountRepository     repository.AccountRepository
	HoldingRepository     repository.HoldingRepository
	TransactionRepository repository.TransactionRepository

	// Services and collaborators
	LedgerService service.LedgerService
	AuthService   *auth.Service
	OTPStore      *otp.Store
	Notifier      notify.Notifier

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	logger, err := util.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	app.Logger = logger
	app.Logger.Info("configuration loaded")

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.EnsureSchema(ctx, database); err != nil {
		return err
	}
	app.Logger.Info("database connection established")

	app.UserRepository = postgres.NewUserRepository()
	app.AccountRepository = postgres.NewAccountRepository()
	app.HoldingRepository = postgres.NewHoldingRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()

	app.LedgerService = service.NewLedgerService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor for non-transactional reads
		app.UserRepository,
		app.AccountRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)

	app.AuthService = auth.NewService(app.Config.JWTSecret)
	app.OTPStore = otp.NewStore(app.Config.OTPTTL)
	app.Notifier = notify.NewLogNotifier(app.Logger)
	app.Logger.Info("services initialized")

	renderer := statement.NewCSVRenderer()
	authHandler := handler.NewAuthHandler(app.LedgerService, app.AuthService, app.OTPStore, app.Notifier, app.Logger)
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.OTPStore, app.Notifier, renderer, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, ledgerHandler, app.AuthService, app.LedgerService, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("failed to close database connection", zap.Error(err))
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	app.Logger.Info("application shut down gracefully")
	return nil
}
