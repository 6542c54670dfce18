package leave_test

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	employeeID   int64 = 1
	managerID    int64 = 2
	secondEmpID  int64 = 3
	annualLeave  int64 = 1
	sickLeave    int64 = 2
	personalDays int64 = 3
)

// engineStack is the real engine wired over an in-memory sqlite database.
type engineStack struct {
	db      *gorm.DB
	ledger  *balance.Ledger
	service *leave.Service
	query   *leave.QueryService
	bus     *events.EventBus
}

func newEngineStack() *engineStack {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())

	// one connection keeps the in-memory database alive and serialises transactions
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	Expect(db.AutoMigrate(
		&userDatamodel.User{},
		&leaveDatamodel.LeaveType{},
		&leaveDatamodel.LeaveBalance{},
		&leaveDatamodel.LeaveRequest{},
	)).To(Succeed())

	for _, u := range []*userDatamodel.User{
		{ID: employeeID, Username: "john", PasswordHash: "x", FullName: "John Employee", Email: "john@example.com", Role: "employee"},
		{ID: managerID, Username: "mary", PasswordHash: "x", FullName: "Mary Manager", Email: "mary@example.com", Role: "manager"},
		{ID: secondEmpID, Username: "jane", PasswordHash: "x", FullName: "Jane Employee", Email: "jane@example.com", Role: "employee"},
	} {
		Expect(db.Create(u).Error).To(Succeed())
	}
	for _, t := range []*leaveDatamodel.LeaveType{
		{ID: annualLeave, Name: "Annual Leave", Description: "Yearly vacation", MaxDays: 20},
		{ID: sickLeave, Name: "Sick Leave", Description: "Medical absence", MaxDays: 10},
		{ID: personalDays, Name: "Personal Leave", Description: "Personal matters", MaxDays: 5},
	} {
		Expect(db.Create(t).Error).To(Succeed())
	}

	sqlxDB, err := database.SQLX(db)
	Expect(err).NotTo(HaveOccurred())

	bus := events.NewEventBus(slogger)
	ledger := balance.NewLedger(balancePostgres.NewBalanceRepository(db), slogger)
	service := leave.NewService(leavePostgres.NewLeaveRepository(db), ledger, database.NewTransactor(db), bus, slogger)
	query := leave.NewQueryService(leavePostgres.NewQueryRepository(sqlxDB), ledger, slogger)

	return &engineStack{db: db, ledger: ledger, service: service, query: query, bus: bus}
}

func (s *engineStack) provision(userID, leaveTypeID int64, days int) {
	_, err := s.ledger.Provision(context.Background(), userID, leaveTypeID, days)
	Expect(err).NotTo(HaveOccurred())
}

func (s *engineStack) submit(userID, leaveTypeID int64, start, end string) int64 {
	id, err := s.service.SubmitRequest(context.Background(), leave.SubmitRequestDTO{
		UserID:      leave.ID(userID),
		LeaveTypeID: leave.ID(leaveTypeID),
		StartDate:   start,
		EndDate:     end,
		Reason:      "test",
	})
	Expect(err).NotTo(HaveOccurred())
	return id
}

func (s *engineStack) balance(userID, leaveTypeID int64) *balance.Balance {
	b, err := s.ledger.GetBalance(context.Background(), userID, leaveTypeID)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func (s *engineStack) status(requestID int64) string {
	var row leaveDatamodel.LeaveRequest
	Expect(s.db.First(&row, requestID).Error).To(Succeed())
	return row.Status
}

func (s *engineStack) close() {
	s.bus.Wait()
	Expect(database.Close(s.db)).To(Succeed())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
