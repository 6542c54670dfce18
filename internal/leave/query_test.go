package leave_test

import (
	"context"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Query Service", func() {
	var (
		s        *engineStack
		ctx      context.Context
		janToFeb int64
		march    int64
		pending  int64
		rejected int64
		lastYear int64
	)

	intp := func(v int) *int { return &v }

	ids := func(rows []leave.LeaveResponse) []int64 {
		out := make([]int64, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	BeforeEach(func() {
		s = newEngineStack()
		ctx = context.Background()

		s.provision(employeeID, annualLeave, 20)
		s.provision(secondEmpID, annualLeave, 20)
		s.provision(employeeID, sickLeave, 10)

		lastYear = s.submit(secondEmpID, annualLeave, "2023-12-28", "2023-12-29")
		janToFeb = s.submit(employeeID, annualLeave, "2024-01-30", "2024-02-02")
		march = s.submit(secondEmpID, annualLeave, "2024-03-11", "2024-03-12")
		rejected = s.submit(employeeID, sickLeave, "2024-03-01", "2024-03-01")
		pending = s.submit(employeeID, annualLeave, "2024-03-20", "2024-03-22")

		for _, id := range []int64{lastYear, janToFeb, march} {
			_, err := s.service.ReviewRequest(ctx, id, leave.ReviewRequestDTO{Status: leave.StatusApproved})
			Expect(err).NotTo(HaveOccurred())
		}
		_, err := s.service.ReviewRequest(ctx, rejected, leave.ReviewRequestDTO{Status: leave.StatusRejected, ManagerComments: "Busy"})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		s.close()
	})

	Describe("ListByUser", func() {
		It("returns the user's requests newest first with the leave type name", func() {
			rows, err := s.query.ListByUser(ctx, employeeID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{pending, rejected, janToFeb}))

			Expect(rows[0].LeaveTypeName).To(Equal("Annual Leave"))
			Expect(rows[0].StartDate).To(Equal("2024-03-20"))
			Expect(rows[0].EndDate).To(Equal("2024-03-22"))
			Expect(rows[0].TotalDays).To(Equal(3))
			Expect(rows[0].FullName).To(BeEmpty())

			Expect(rows[1].LeaveTypeName).To(Equal("Sick Leave"))
			Expect(*rows[1].ManagerComments).To(Equal("Busy"))
		})

		It("narrows to one status", func() {
			rows, err := s.query.ListByUser(ctx, employeeID, leave.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{janToFeb}))
		})

		It("rejects unknown statuses", func() {
			_, err := s.query.ListByUser(ctx, employeeID, "archived")
			Expect(apperrors.IsType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})

		It("returns an empty list for users without requests", func() {
			rows, err := s.query.ListByUser(ctx, managerID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("ListAll", func() {
		It("returns every request newest first with the employee attached", func() {
			rows, err := s.query.ListAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{pending, rejected, march, janToFeb, lastYear}))
			Expect(rows[2].FullName).To(Equal("Jane Employee"))
			Expect(rows[2].Email).To(Equal("jane@example.com"))
		})
	})

	Describe("ListCalendar", func() {
		It("returns all approved requests by start date when unfiltered", func() {
			rows, err := s.query.ListCalendar(ctx, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{lastYear, janToFeb, march}))
			Expect(rows[0].FullName).To(Equal("Jane Employee"))
		})

		It("filters by year", func() {
			rows, err := s.query.ListCalendar(ctx, intp(2024), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{janToFeb, march}))
		})

		It("includes requests that overlap the month from either side", func() {
			rows, err := s.query.ListCalendar(ctx, intp(2024), intp(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{janToFeb}))

			rows, err = s.query.ListCalendar(ctx, intp(2024), intp(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{janToFeb}))

			rows, err = s.query.ListCalendar(ctx, intp(2024), intp(4))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("matches a month without a year across every year", func() {
			newYear := s.submit(secondEmpID, annualLeave, "2024-12-30", "2025-01-02")
			_, err := s.service.ReviewRequest(ctx, newYear, leave.ReviewRequestDTO{Status: leave.StatusApproved})
			Expect(err).NotTo(HaveOccurred())

			rows, err := s.query.ListCalendar(ctx, nil, intp(12))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{lastYear, newYear}))

			rows, err = s.query.ListCalendar(ctx, nil, intp(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{janToFeb, newYear}))

			rows, err = s.query.ListCalendar(ctx, nil, intp(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(rows)).To(Equal([]int64{march}))

			rows, err = s.query.ListCalendar(ctx, nil, intp(6))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})

		It("rejects out of range periods", func() {
			_, err := s.query.ListCalendar(ctx, nil, intp(13))
			Expect(apperrors.IsType(err, apperrors.ErrorTypeValidation)).To(BeTrue())

			_, err = s.query.ListCalendar(ctx, intp(0), nil)
			Expect(apperrors.IsType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("ListBalances", func() {
		It("returns the ledger rows with leave type names", func() {
			rows, err := s.query.ListBalances(ctx, employeeID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].LeaveTypeName).To(Equal("Annual Leave"))
			Expect(rows[0].UsedDays).To(Equal(4))
			Expect(rows[0].RemainingDays).To(Equal(16))
			Expect(rows[1].LeaveTypeName).To(Equal("Sick Leave"))
			Expect(rows[1].UsedDays).To(Equal(0))
		})
	})
})

var _ = Describe("CalendarWindow", func() {
	intp := func(v int) *int { return &v }
	day := func(v string) time.Time {
		t, err := time.Parse("2006-01-02", v)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	It("is unbounded without a year", func() {
		Expect(leave.CalendarWindow(nil, nil)).To(BeNil())
		Expect(leave.CalendarWindow(nil, intp(12))).To(BeNil())
	})

	It("spans a whole year", func() {
		w := leave.CalendarWindow(intp(2024), nil)
		Expect(w.From).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
		Expect(w.To).To(Equal(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
	})

	It("spans a month, leap years included", func() {
		w := leave.CalendarWindow(intp(2024), intp(2))
		Expect(w.From).To(Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
		Expect(w.To).To(Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))
	})

	It("tells whether a range touches a month in any year", func() {
		Expect(leave.CoversMonth(day("2023-12-28"), day("2023-12-29"), time.December)).To(BeTrue())
		Expect(leave.CoversMonth(day("2023-12-28"), day("2024-01-02"), time.January)).To(BeTrue())
		Expect(leave.CoversMonth(day("2024-11-25"), day("2025-01-03"), time.December)).To(BeTrue())
		Expect(leave.CoversMonth(day("2024-03-11"), day("2024-03-12"), time.April)).To(BeFalse())
		Expect(leave.CoversMonth(day("2024-01-01"), day("2025-06-30"), time.September)).To(BeTrue())
	})
})
