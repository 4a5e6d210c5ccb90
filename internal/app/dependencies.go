package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monetapp/moneta/internal/auth"
	"github.com/monetapp/moneta/internal/config"
	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/internal/mailer"
	"github.com/monetapp/moneta/internal/utils"
	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/budget"
	"github.com/monetapp/moneta/pkg/changefeed"
	"github.com/monetapp/moneta/pkg/receipt"
	"github.com/monetapp/moneta/pkg/recurring"
	"github.com/monetapp/moneta/pkg/stats"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/monetapp/moneta/pkg/transfer"
	"github.com/monetapp/moneta/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	TokenService *auth.TokenService
	Mailer       mailer.Mailer

	UserService user.Service
	UserHandler *user.Handler

	AccountRepo    account.Repo
	AccountService account.Service
	AccountHandler *account.Handler

	TransactionRepo    *transaction.RepoImpl
	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	RecurringRepo    recurring.Repo
	RecurringService recurring.Service
	RecurringHandler *recurring.Handler

	ReceiptRepo    receipt.Repo
	ReceiptService receipt.Service
	ReceiptHandler *receipt.Handler

	TransferService transfer.Service
	TransferHandler *transfer.Handler

	ChangeTracker *changefeed.Tracker
	ChangeHandler *changefeed.Handler

	StatsService stats.Service
	StatsHandler *stats.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	// The tracker must subscribe before any service publishes.
	deps.ChangeTracker = changefeed.NewTracker(deps.Bus)
	deps.ChangeHandler = changefeed.NewHandler(deps.ChangeTracker)

	deps.TokenService = auth.NewTokenService(cfg.Auth.JwtSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	deps.Mailer = mailer.NewSmtpMailer(cfg.Smtp)

	deps.UserService = user.NewUserService(user.NewUserRepo(db), deps.TokenService, deps.Mailer, cfg.Admin.Email)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TransactionRepo = transaction.NewTransactionRepo(db)
	deps.TransactionService = transaction.NewTransactionService(deps.TransactionRepo, deps.Bus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.AccountRepo = account.NewAccountRepo(db)
	deps.AccountService = account.NewAccountService(deps.AccountRepo, deps.TransactionRepo, deps.Bus)
	deps.AccountHandler = account.NewHandler(deps.AccountService)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.TransactionRepo, deps.Bus, deps.Clock)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.RecurringRepo = recurring.NewRecurringRepo(db)
	deps.RecurringService = recurring.NewRecurringService(deps.RecurringRepo, deps.Bus, deps.Clock)
	deps.RecurringHandler = recurring.NewHandler(deps.RecurringService)

	deps.ReceiptRepo = receipt.NewReceiptRepo(db)
	deps.ReceiptService = receipt.NewReceiptService(deps.ReceiptRepo, deps.Bus, cfg.Storage.Path)
	deps.ReceiptHandler = receipt.NewHandler(deps.ReceiptService)

	deps.TransferService = transfer.NewTransferService(
		deps.AccountService,
		deps.TransactionService,
		deps.BudgetService,
		deps.RecurringService,
		deps.Clock,
	)
	deps.TransferHandler = transfer.NewHandler(deps.TransferService)

	deps.StatsService = stats.NewStatsService(deps.AccountService, deps.BudgetService, deps.TransactionRepo, deps.Clock)
	deps.StatsHandler = stats.NewHandler(deps.StatsService)

	return deps
}
