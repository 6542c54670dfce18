package leave

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SubmitRequest(ctx context.Context, dto SubmitRequestDTO) (int64, error)
	ReviewRequest(ctx context.Context, requestID int64, dto ReviewRequestDTO) (string, error)
	CancelRequest(ctx context.Context, requestID int64) (string, error)
	GetRequest(ctx context.Context, requestID int64) (*LeaveRequest, error)
}

type QueryAPI interface {
	ListByUser(ctx context.Context, userID int64, status string) ([]LeaveResponse, error)
	ListAll(ctx context.Context) ([]LeaveResponse, error)
	ListCalendar(ctx context.Context, year, month *int) ([]LeaveResponse, error)
	ListBalances(ctx context.Context, userID int64) ([]balance.BalanceResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Query   QueryAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, query QueryAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Query:       query,
	}
}

// SubmitRequest handles POST /leaves/request
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var dto SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// an authenticated caller may omit userId
	if dto.UserID == 0 {
		if user, ok := internal.UserFromContext(r.Context()); ok && user != nil {
			dto.UserID = ID(user.ID)
		}
	}

	requestID, err := h.Service.SubmitRequest(r.Context(), dto)
	if err != nil {
		h.Logger.Error("SubmitRequest: service error", "error", err, "user_id", int64(dto.UserID))
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"message":   "Leave request submitted successfully",
		"requestId": requestID,
	})
}

// ReviewRequest handles PUT /leaves/review/{requestId}
func (h *Handler) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.pathID(w, r, "requestId", "Invalid request ID")
	if !ok {
		return
	}

	var dto ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ReviewRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := h.Service.ReviewRequest(r.Context(), requestID, dto)
	if err != nil {
		h.Logger.Error("ReviewRequest: service error", "error", err, "request_id", requestID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": message,
	})
}

// CancelRequest handles DELETE /leaves/{requestId}
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.pathID(w, r, "requestId", "Invalid request ID")
	if !ok {
		return
	}

	message, err := h.Service.CancelRequest(r.Context(), requestID)
	if err != nil {
		h.Logger.Error("CancelRequest: service error", "error", err, "request_id", requestID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": message,
	})
}

// GetRequest handles GET /leaves/{requestId}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.pathID(w, r, "requestId", "Invalid request ID")
	if !ok {
		return
	}

	request, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		h.Logger.Error("GetRequest: service error", "error", err, "request_id", requestID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"leave": FromEntity(request),
	})
}

// GetUserLeaves handles GET /leaves/user/{userId}?status=
func (h *Handler) GetUserLeaves(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	leaves, err := h.Query.ListByUser(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		h.Logger.Error("GetUserLeaves: query error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// GetAllLeaves handles GET /leaves/all
func (h *Handler) GetAllLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Query.ListAll(r.Context())
	if err != nil {
		h.Logger.Error("GetAllLeaves: query error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// GetCalendar handles GET /leaves/calendar?year=&month=
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, ok := h.queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := h.queryInt(w, r, "month")
	if !ok {
		return
	}

	leaves, err := h.Query.ListCalendar(r.Context(), year, month)
	if err != nil {
		h.Logger.Error("GetCalendar: query error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// GetBalances handles GET /leaves/balances/{userId}
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	balances, err := h.Query.ListBalances(r.Context(), userID)
	if err != nil {
		h.Logger.Error("GetBalances: query error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"balances": balances,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param, message string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.Logger.Error("invalid path id", "param", param, "value", raw)
		h.WriteError(w, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; absent yields nil.
func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError(name, name+" must be a number", internal.ErrCodeInvalidPeriod))
		return nil, false
	}
	return &v, true
}
