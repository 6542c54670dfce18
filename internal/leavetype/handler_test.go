package leavetype_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	leavetypePostgres "github.com/frahmantamala/leave-management/internal/leavetype/postgres"
	"github.com/frahmantamala/leave-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Leave Type Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *leavetype.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&leaveDatamodel.LeaveType{})).To(Succeed())

		repo := leavetypePostgres.NewLeaveTypeRepository(db)
		service := leavetype.NewService(repo, slogger)
		handler = leavetype.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		for _, t := range []*leaveDatamodel.LeaveType{
			{Name: "Sick Leave", Description: "Medical absence", MaxDays: 10},
			{Name: "Annual Leave", Description: "Yearly vacation", MaxDays: 20},
			{Name: "Personal Leave", Description: "Personal matters", MaxDays: 5},
		} {
			Expect(repo.Create(context.Background(), t)).To(Succeed())
		}
	})

	It("lists leave types ordered by name inside the success envelope", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/leaves/types", nil)
		w := httptest.NewRecorder()

		handler.GetLeaveTypes(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

		var body struct {
			Success bool                          `json:"success"`
			Types   []leavetype.LeaveTypeResponse `json:"types"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Types).To(HaveLen(3))
		Expect(body.Types[0].Name).To(Equal("Annual Leave"))
		Expect(body.Types[1].Name).To(Equal("Personal Leave"))
		Expect(body.Types[2].Name).To(Equal("Sick Leave"))
	})

	It("returns 500 with a failure envelope when the table is gone", func() {
		Expect(db.Migrator().DropTable(&leaveDatamodel.LeaveType{})).To(Succeed())

		req := httptest.NewRequest(http.MethodGet, "/api/leaves/types", nil)
		w := httptest.NewRecorder()

		handler.GetLeaveTypes(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["success"]).To(BeFalse())
		Expect(body["message"]).To(Equal("Error fetching leave types"))
	})
})
