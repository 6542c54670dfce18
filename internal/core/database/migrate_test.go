package database_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/frahmantamala/leave-management/internal/core/database"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Migrator", func() {
	var (
		db       *gorm.DB
		migrator *database.Migrator
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		migrator, err = database.NewMigrator(db, lg)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("applies the embedded migrations in order", func() {
		applied, err := migrator.Up(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(Equal([]int64{1, 2, 3, 4}))

		version, err := migrator.Version(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(int64(4)))

		for _, table := range []string{"users", "leave_types", "leave_balances", "leave_requests"} {
			Expect(db.Migrator().HasTable(table)).To(BeTrue(), table)
		}
	})

	It("is a no-op when already up to date", func() {
		_, err := migrator.Up(ctx)
		Expect(err).NotTo(HaveOccurred())

		applied, err := migrator.Up(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(BeEmpty())
	})

	It("enforces the balance invariants in the schema", func() {
		_, err := migrator.Up(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&userDatamodel.User{Username: "john", PasswordHash: "x", FullName: "John", Email: "john@example.com", Role: "employee"}).Error).To(Succeed())
		Expect(db.Create(&leaveDatamodel.LeaveType{Name: "Annual Leave", Description: "Yearly", MaxDays: 20}).Error).To(Succeed())

		Expect(db.Create(&leaveDatamodel.LeaveBalance{UserID: 1, LeaveTypeID: 1, TotalDays: 10, UsedDays: 0, RemainingDays: 10}).Error).To(Succeed())
		Expect(db.Exec("UPDATE leave_balances SET remaining_days = -1, used_days = 11 WHERE id = 1").Error).To(HaveOccurred())
		Expect(db.Exec("UPDATE leave_balances SET remaining_days = 9 WHERE id = 1").Error).To(HaveOccurred())
	})

	It("rolls back the latest migration", func() {
		_, err := migrator.Up(ctx)
		Expect(err).NotTo(HaveOccurred())

		version, err := migrator.Down(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(int64(4)))
		Expect(db.Migrator().HasTable("leave_requests")).To(BeFalse())
		Expect(db.Migrator().HasTable("leave_balances")).To(BeTrue())
	})
})
