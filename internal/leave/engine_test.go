package leave_test

import (
	"context"
	"sync"

	apperrors "github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Engine Integration", func() {
	var (
		s   *engineStack
		ctx context.Context
	)

	BeforeEach(func() {
		s = newEngineStack()
		ctx = context.Background()
	})

	AfterEach(func() {
		s.close()
	})

	approve := func(requestID int64) error {
		_, err := s.service.ReviewRequest(ctx, requestID, leave.ReviewRequestDTO{Status: leave.StatusApproved})
		return err
	}

	It("leaves the balance alone until approval, then refuses to cancel", func() {
		s.provision(employeeID, annualLeave, 10)

		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-08")
		Expect(s.status(requestID)).To(Equal(leave.StatusPending))

		b := s.balance(employeeID, annualLeave)
		Expect([]int{b.TotalDays, b.UsedDays, b.RemainingDays}).To(Equal([]int{10, 0, 10}))

		Expect(approve(requestID)).To(Succeed())
		b = s.balance(employeeID, annualLeave)
		Expect([]int{b.TotalDays, b.UsedDays, b.RemainingDays}).To(Equal([]int{10, 3, 7}))

		_, err := s.service.CancelRequest(ctx, requestID)
		Expect(apperrors.IsType(err, apperrors.ErrorTypeConflict)).To(BeTrue())
		Expect(s.status(requestID)).To(Equal(leave.StatusApproved))
	})

	It("approves a request that uses the whole balance", func() {
		s.provision(employeeID, personalDays, 5)
		requestID := s.submit(employeeID, personalDays, "2024-06-03", "2024-06-07")

		Expect(approve(requestID)).To(Succeed())

		b := s.balance(employeeID, personalDays)
		Expect(b.RemainingDays).To(Equal(0))
		Expect(b.UsedDays).To(Equal(5))
		Expect(b.Consistent()).To(BeTrue())
	})

	It("rolls the status change back when the debit would overdraw", func() {
		s.provision(employeeID, personalDays, 5)
		first := s.submit(employeeID, personalDays, "2024-06-03", "2024-06-07")
		second := s.submit(employeeID, personalDays, "2024-07-01", "2024-07-05")

		Expect(approve(first)).To(Succeed())

		err := approve(second)
		Expect(apperrors.IsType(err, apperrors.ErrorTypeConstraint)).To(BeTrue())
		Expect(err.Error()).To(Equal("Leave balance cannot go below zero. Available: 0 days, Requested: 5 days"))

		Expect(s.status(second)).To(Equal(leave.StatusPending))
		var row leaveDatamodel.LeaveRequest
		Expect(s.db.First(&row, second).Error).To(Succeed())
		Expect(row.ReviewedAt).To(BeNil())

		b := s.balance(employeeID, personalDays)
		Expect(b.UsedDays).To(Equal(5))
		Expect(b.RemainingDays).To(Equal(0))
	})

	It("lets only one of two concurrent approvals spend the same days", func() {
		s.provision(employeeID, personalDays, 5)
		requests := []int64{
			s.submit(employeeID, personalDays, "2024-06-03", "2024-06-07"),
			s.submit(employeeID, personalDays, "2024-07-01", "2024-07-05"),
		}

		errs := make([]error, len(requests))
		var wg sync.WaitGroup
		for i, id := range requests {
			wg.Add(1)
			go func(i int, id int64) {
				defer GinkgoRecover()
				defer wg.Done()
				errs[i] = approve(id)
			}(i, id)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			Expect(apperrors.IsType(err, apperrors.ErrorTypeConstraint)).To(BeTrue())
		}
		Expect(succeeded).To(Equal(1))

		statuses := []string{s.status(requests[0]), s.status(requests[1])}
		Expect(statuses).To(ConsistOf(leave.StatusApproved, leave.StatusPending))

		b := s.balance(employeeID, personalDays)
		Expect(b.RemainingDays).To(Equal(0))
		Expect(b.Consistent()).To(BeTrue())
	})

	It("debits once when several reviewers race on one request", func() {
		s.provision(employeeID, annualLeave, 20)
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-10")

		const reviewers = 5
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			conflicts int
		)
		for i := 0; i < reviewers; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				err := approve(requestID)

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
					return
				}
				Expect(err).To(MatchError(apperrors.ErrAlreadyReviewed))
				conflicts++
			}()
		}
		wg.Wait()

		Expect(succeeded).To(Equal(1))
		Expect(conflicts).To(Equal(reviewers - 1))

		b := s.balance(employeeID, annualLeave)
		Expect(b.UsedDays).To(Equal(5))
		Expect(b.RemainingDays).To(Equal(15))
	})

	It("keeps a rejected request out of the ledger", func() {
		s.provision(employeeID, sickLeave, 10)
		requestID := s.submit(employeeID, sickLeave, "2024-02-01", "2024-02-02")

		message, err := s.service.ReviewRequest(ctx, requestID, leave.ReviewRequestDTO{Status: leave.StatusRejected, ManagerComments: "Busy week"})
		Expect(err).NotTo(HaveOccurred())
		Expect(message).To(Equal("Leave request rejected successfully"))

		var row leaveDatamodel.LeaveRequest
		Expect(s.db.First(&row, requestID).Error).To(Succeed())
		Expect(row.Status).To(Equal(leave.StatusRejected))
		Expect(*row.ManagerComments).To(Equal("Busy week"))
		Expect(row.ReviewedAt).NotTo(BeNil())

		Expect(s.balance(employeeID, sickLeave).UsedDays).To(Equal(0))
	})

	It("removes a cancelled request and lets only the first cancel win", func() {
		s.provision(employeeID, annualLeave, 10)
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-06")

		_, err := s.service.CancelRequest(ctx, requestID)
		Expect(err).NotTo(HaveOccurred())

		var count int64
		Expect(s.db.Model(&leaveDatamodel.LeaveRequest{}).Where("id = ?", requestID).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())

		_, err = s.service.CancelRequest(ctx, requestID)
		Expect(err).To(MatchError(apperrors.ErrNotCancellable))

		Expect(s.balance(employeeID, annualLeave).RemainingDays).To(Equal(10))
	})

	It("refuses a submission without a provisioned balance", func() {
		_, err := s.service.SubmitRequest(ctx, leave.SubmitRequestDTO{
			UserID: leave.ID(secondEmpID), LeaveTypeID: leave.ID(annualLeave), StartDate: "2024-05-06", EndDate: "2024-05-07",
		})
		Expect(apperrors.IsType(err, apperrors.ErrorTypeNotFound)).To(BeTrue())
		Expect(err.Error()).To(Equal("Leave balance not found for this user"))
	})

	It("publishes lifecycle events after commit", func() {
		var (
			mu   sync.Mutex
			seen []string
		)
		record := func(ctx context.Context, event events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, event.EventType())
			return nil
		}
		s.bus.Subscribe(events.EventTypeLeaveSubmitted, record)
		s.bus.Subscribe(events.EventTypeLeaveReviewed, record)

		s.provision(employeeID, annualLeave, 10)
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-07")
		Expect(approve(requestID)).To(Succeed())
		s.bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		Expect(seen).To(ConsistOf(events.EventTypeLeaveSubmitted, events.EventTypeLeaveReviewed))
	})
})
