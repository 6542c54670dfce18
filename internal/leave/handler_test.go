package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Handler", func() {
	var (
		s      *engineStack
		router *chi.Mux
	)

	type envelope struct {
		Success   bool                     `json:"success"`
		Message   string                   `json:"message"`
		Code      string                   `json:"code"`
		RequestID int64                    `json:"requestId"`
		Leave     *leave.LeaveResponse     `json:"leave"`
		Leaves    []leave.LeaveResponse    `json:"leaves"`
		Balances  []map[string]interface{} `json:"balances"`
	}

	do := func(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
		var reader *bytes.Reader
		switch b := body.(type) {
		case nil:
			reader = bytes.NewReader(nil)
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			raw, err := json.Marshal(b)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}

		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	BeforeEach(func() {
		s = newEngineStack()
		s.provision(employeeID, annualLeave, 10)

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := leave.NewHandler(transport.NewBaseHandler(slogger), s.service, s.query)

		router = chi.NewRouter()
		router.Route("/api/leaves", func(r chi.Router) {
			r.Post("/request", handler.SubmitRequest)
			r.Put("/review/{requestId}", handler.ReviewRequest)
			r.Get("/{requestId}", handler.GetRequest)
			r.Delete("/{requestId}", handler.CancelRequest)
			r.Get("/user/{userId}", handler.GetUserLeaves)
			r.Get("/all", handler.GetAllLeaves)
			r.Get("/calendar", handler.GetCalendar)
			r.Get("/balances/{userId}", handler.GetBalances)
		})
	})

	AfterEach(func() {
		s.close()
	})

	It("walks a request from submission to approval", func() {
		w, env := do(http.MethodPost, "/api/leaves/request", `{"userId":1,"leaveTypeId":"1","startDate":"2024-05-06","endDate":"2024-05-08","reason":"Trip"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
		Expect(env.Message).To(Equal("Leave request submitted successfully"))
		Expect(env.RequestID).To(BeNumerically(">", 0))
		requestID := env.RequestID

		w, env = do(http.MethodPut, "/api/leaves/review/"+itoa(requestID), map[string]string{"status": "approved", "managerComments": "ok"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Leave request approved successfully"))

		w, env = do(http.MethodPut, "/api/leaves/review/"+itoa(requestID), map[string]string{"status": "rejected"})
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(Equal("Leave request not found or already reviewed"))

		w, env = do(http.MethodGet, "/api/leaves/balances/1", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Balances).To(HaveLen(1))
		Expect(env.Balances[0]).To(HaveKeyWithValue("remaining_days", BeNumerically("==", 7)))
		Expect(env.Balances[0]).To(HaveKeyWithValue("leave_type_name", "Annual Leave"))

		w, env = do(http.MethodGet, "/api/leaves/calendar?year=2024&month=5", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Leaves).To(HaveLen(1))
		Expect(env.Leaves[0].FullName).To(Equal("John Employee"))
	})

	It("answers 422 with both day counts when the balance is short", func() {
		w, env := do(http.MethodPost, "/api/leaves/request", map[string]interface{}{
			"userId": 1, "leaveTypeId": 1, "startDate": "2024-05-01", "endDate": "2024-05-20",
		})
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Code).To(Equal(string(internal.ErrCodeInsufficientBalance)))
		Expect(env.Message).To(Equal("Insufficient leave balance. Available: 10 days, Requested: 20 days"))
	})

	It("answers 400 for inverted ranges, bad bodies and bad ids", func() {
		w, env := do(http.MethodPost, "/api/leaves/request", map[string]interface{}{
			"userId": 1, "leaveTypeId": 1, "startDate": "2024-05-08", "endDate": "2024-05-06",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("End date must be after start date"))

		w, _ = do(http.MethodPost, "/api/leaves/request", `{"userId":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w, _ = do(http.MethodPost, "/api/leaves/request", `{"userId":"abc"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w, _ = do(http.MethodDelete, "/api/leaves/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w, _ = do(http.MethodGet, "/api/leaves/calendar?month=june", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w, _ = do(http.MethodGet, "/api/leaves/calendar?month=13", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 when the user has no balance for the leave type", func() {
		w, env := do(http.MethodPost, "/api/leaves/request", map[string]interface{}{
			"userId": 1, "leaveTypeId": 2, "startDate": "2024-05-06", "endDate": "2024-05-06",
		})
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal(string(internal.ErrCodeBalanceNotFound)))
	})

	It("rejects review statuses other than approved or rejected", func() {
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-06")

		w, env := do(http.MethodPut, "/api/leaves/review/"+itoa(requestID), map[string]string{"status": "cancelled"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Invalid status. Must be approved or rejected"))
	})

	It("cancels pending requests only", func() {
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-06")

		w, env := do(http.MethodDelete, "/api/leaves/"+itoa(requestID), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Leave request cancelled successfully"))

		w, env = do(http.MethodDelete, "/api/leaves/"+itoa(requestID), nil)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(env.Message).To(Equal("Cannot delete this leave request. It may not exist or has already been processed"))
	})

	It("returns a single request by id", func() {
		requestID := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-08")

		w, env := do(http.MethodGet, "/api/leaves/"+itoa(requestID), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Leave).NotTo(BeNil())
		Expect(env.Leave.ID).To(Equal(requestID))
		Expect(env.Leave.UserID).To(Equal(employeeID))
		Expect(env.Leave.StartDate).To(Equal("2024-05-06"))
		Expect(env.Leave.TotalDays).To(Equal(3))
		Expect(env.Leave.Status).To(Equal(leave.StatusPending))

		w, env = do(http.MethodGet, "/api/leaves/999", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal(string(internal.ErrCodeRequestNotFound)))

		w, _ = do(http.MethodGet, "/api/leaves/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists a user's requests with a status filter", func() {
		first := s.submit(employeeID, annualLeave, "2024-05-06", "2024-05-06")
		s.submit(employeeID, annualLeave, "2024-06-03", "2024-06-04")
		_, err := s.service.ReviewRequest(context.Background(), first, leave.ReviewRequestDTO{Status: leave.StatusRejected})
		Expect(err).NotTo(HaveOccurred())

		w, env := do(http.MethodGet, "/api/leaves/user/1", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Leaves).To(HaveLen(2))

		w, env = do(http.MethodGet, "/api/leaves/user/1?status=rejected", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Leaves).To(HaveLen(1))
		Expect(env.Leaves[0].ID).To(Equal(first))

		w, env = do(http.MethodGet, "/api/leaves/all", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Leaves).To(HaveLen(2))
		Expect(env.Leaves[0].Email).To(Equal("john@example.com"))
	})

	It("fills the user id from the authenticated caller when omitted", func() {
		body, _ := json.Marshal(map[string]interface{}{"leaveTypeId": 1, "startDate": "2024-05-06", "endDate": "2024-05-07"})
		req := httptest.NewRequest(http.MethodPost, "/api/leaves/request", bytes.NewReader(body))
		req = req.WithContext(internal.ContextWithUser(req.Context(), &internal.User{ID: employeeID, Role: internal.RoleEmployee}))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})
})
