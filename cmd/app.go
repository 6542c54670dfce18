package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	authPostgres "github.com/frahmantamala/leave-management/internal/auth/postgres"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	leavetypePostgres "github.com/frahmantamala/leave-management/internal/leavetype/postgres"
	"github.com/frahmantamala/leave-management/internal/reconcile"
	reconcilePostgres "github.com/frahmantamala/leave-management/internal/reconcile/postgres"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// application holds the wired services shared by the server, worker and seed commands.
type application struct {
	Config     *internal.Config
	DB         *gorm.DB
	SQLX       *sqlx.DB
	Logger     *slog.Logger
	Bus        *events.EventBus
	Transactor *database.GormTransactor

	Auth       *auth.Service
	Ledger     *balance.Ledger
	Leave      *leave.Service
	Query      *leave.QueryService
	LeaveTypes *leavetype.Service
	Users      *user.Service
	Reconciler *reconcile.Reconciler
}

func newApplication(cfg *internal.Config) (*application, error) {
	lg := logger.LoggerWrapper()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlxDB, err := database.SQLX(db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	bus := events.NewEventBus(lg)
	events.AuditLogger(bus, lg)

	transactor := database.NewTransactor(db)
	ledger := balance.NewLedger(balancePostgres.NewBalanceRepository(db), lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	return &application{
		Config:     cfg,
		DB:         db,
		SQLX:       sqlxDB,
		Logger:     lg,
		Bus:        bus,
		Transactor: transactor,

		Auth:       auth.NewService(authPostgres.NewRepository(db), tokens, cfg.Security.BCryptCost, lg),
		Ledger:     ledger,
		Leave:      leave.NewService(leavePostgres.NewLeaveRepository(db), ledger, transactor, bus, lg),
		Query:      leave.NewQueryService(leavePostgres.NewQueryRepository(sqlxDB), ledger, lg),
		LeaveTypes: leavetype.NewService(leavetypePostgres.NewLeaveTypeRepository(db), lg),
		Users:      user.NewService(userPostgres.NewUserRepository(db), lg),
		Reconciler: reconcile.NewReconciler(reconcilePostgres.NewUsageRepository(sqlxDB), bus, lg),
	}, nil
}

// Close waits for in-flight event handlers before releasing the pool.
func (a *application) Close() {
	a.Bus.Wait()
	if err := database.Close(a.DB); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}
