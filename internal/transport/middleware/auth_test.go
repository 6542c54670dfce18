package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserContext", func() {
	var (
		buf  *bytes.Buffer
		next http.Handler
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("handled")
			w.WriteHeader(http.StatusNoContent)
		})
	})

	serve := func(user *internal.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := logger.WithLogger(req.Context(), slog.New(slog.NewTextHandler(buf, nil)))
		if user != nil {
			ctx = internal.ContextWithUser(ctx, user)
		}
		w := httptest.NewRecorder()
		UserContext(next).ServeHTTP(w, req.WithContext(ctx))
		return w
	}

	It("adds the caller role to the request logger", func() {
		w := serve(&internal.User{ID: 2, Username: "mary", Role: internal.RoleManager})
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(buf.String()).To(ContainSubstring("role=manager"))
	})

	It("passes anonymous requests through untouched", func() {
		w := serve(nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(buf.String()).NotTo(ContainSubstring("role="))
	})
})
