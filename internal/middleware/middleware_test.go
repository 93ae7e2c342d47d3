package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		key        string
		wantStatus int
	}{
		{name: "valid key", path: "/api/products", key: "secret-key", wantStatus: http.StatusOK},
		{name: "missing key", path: "/api/products", key: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", path: "/api/products", key: "nope", wantStatus: http.StatusUnauthorized},
		{name: "health is exempt", path: "/health", key: "", wantStatus: http.StatusOK},
		{name: "webhook is exempt", path: "/api/webhook", key: "", wantStatus: http.StatusOK},
	}

	handler := APIKeyAuth("secret-key", zerolog.Nop())(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	admin := &model.User{ID: uuid.New(), Email: "admin@shop.test", Role: model.RoleAdmin}

	tests := []struct {
		name       string
		email      string
		repoUser   *model.User
		repoErr    error
		wantStatus int
		wantUser   bool
	}{
		{name: "known user attached to context", email: "admin@shop.test", repoUser: admin, wantStatus: http.StatusOK, wantUser: true},
		{name: "anonymous passes through", email: "", wantStatus: http.StatusOK},
		{name: "unknown user rejected", email: "ghost@shop.test", wantStatus: http.StatusUnauthorized},
		{name: "repository error", email: "admin@shop.test", repoErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			if tt.email != "" {
				repo.On("GetByEmail", mock.Anything, tt.email).Return(tt.repoUser, tt.repoErr)
			}

			var gotUser *model.User
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.email != "" {
				req.Header.Set("X-User-Email", tt.email)
			}
			rec := httptest.NewRecorder()

			Authenticate(repo, zerolog.Nop())(inner).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser {
				assert.Equal(t, admin, gotUser)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := &model.User{ID: uuid.New(), Role: model.RoleUser}
	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler())

	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
	}{
		{name: "anonymous", user: nil, wantStatus: http.StatusUnauthorized},
		{name: "regular user", user: &model.User{Role: model.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "admin", user: &model.User{Role: model.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/product/x", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	Recovery(zerolog.Nop())(panicky).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "INTERNAL_ERROR", "message": "internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	rec := httptest.NewRecorder()
	CORS(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
