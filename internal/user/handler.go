package user

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context) ([]UserResponse, error)
	GetUser(ctx context.Context, id int64) (*UserResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetEmployees handles GET /users/employees
func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.Logger.Error("GetEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
	})
}

// GetUser handles GET /users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		h.Logger.Error("GetUser: invalid user ID", "id", userIDStr)
		h.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("GetUser: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"user": u,
	})
}
