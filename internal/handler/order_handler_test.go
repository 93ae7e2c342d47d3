package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/placeorder", h.PlaceOrder)
	r.Get("/api/order", h.List)
	r.Get("/api/order/stats", h.Stats)
	r.Get("/api/order/{id}", h.GetByID)
	r.Patch("/api/order/{id}/status", h.UpdateStatus)
	return r
}

func asUser(req *http.Request, user *model.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func TestOrderHandler_PlaceOrder(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "jane@example.com", Role: model.RoleUser}
	orderID := uuid.New()

	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, user, mock.MatchedBy(func(req *model.PlaceOrderRequest) bool {
		return len(req.CartItems) == 1 && req.CartItems[0].Quantity == 2
	})).Return(&model.PlaceOrderResponse{
		Message:     "Order placed successfully",
		OrderID:     orderID,
		CheckoutURL: "https://pay.example/cs_123",
	}, nil)

	h := NewOrderHandler(svc, zerolog.Nop())

	body := `{"cartItems": [{"variantId": "` + uuid.NewString() + `", "quantity": 2, "price": 10}]}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/placeorder", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.PlaceOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, orderID, resp.OrderID)
	assert.Equal(t, "https://pay.example/cs_123", resp.CheckoutURL)
	svc.AssertExpectations(t)
}

func TestOrderHandler_PlaceOrder_InsufficientStock(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}

	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, user, mock.Anything).Return(nil, &model.InsufficientStockError{
		Title: "Linen Shirt", Colour: "White", Size: "M", Requested: 5, Available: 2,
	})

	h := NewOrderHandler(svc, zerolog.Nop())

	body := `{"cartItems": [{"variantId": "` + uuid.NewString() + `", "quantity": 5}]}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/placeorder", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeInsufficientStock, resp.Error)
	assert.Contains(t, resp.Message, "Linen Shirt")
}

func TestOrderHandler_PlaceOrder_EmptyCart(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}

	svc := new(MockOrderService)
	svc.On("PlaceOrder", mock.Anything, user, mock.Anything).Return(nil, model.ErrEmptyCart)

	h := NewOrderHandler(svc, zerolog.Nop())

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/placeorder", strings.NewReader(`{"cartItems": []}`)), user)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_List(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}

	svc := new(MockOrderService)
	svc.On("List", mock.Anything, user, model.OrderQuery{Page: 3, Limit: 5, Search: "abc"}).
		Return(&model.OrderPage{Orders: []model.Order{}, Total: 0, Page: 3, Limit: 5}, nil)

	h := NewOrderHandler(svc, zerolog.Nop())

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/order?page=3&limit=5&search=abc", nil), user)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser}
	orderID := uuid.New()

	svc := new(MockOrderService)
	svc.On("GetByID", mock.Anything, user, orderID).Return(nil, model.ErrOrderNotFound)

	h := NewOrderHandler(svc, zerolog.Nop())

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/order/"+orderID.String(), nil), user)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(svc *MockOrderService)
		wantStatus int
	}{
		{
			name: "valid transition",
			body: `{"status": "FULFILLED"}`,
			setup: func(svc *MockOrderService) {
				svc.On("UpdateStatus", mock.Anything, orderID, model.OrderFulfilled).
					Return(&model.Order{ID: orderID, Status: model.OrderFulfilled}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid status value",
			body: `{"status": "SHIPPED"}`,
			setup: func(svc *MockOrderService) {
				svc.On("UpdateStatus", mock.Anything, orderID, model.OrderStatus("SHIPPED")).
					Return(nil, model.ErrInvalidStatus)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			h := NewOrderHandler(svc, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPatch, "/api/order/"+orderID.String()+"/status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			orderRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOrderHandler_Stats(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("Stats", mock.Anything).Return(&model.OrderStats{TotalOrders: 7, TotalUnits: 21, TotalAmount: 350.50}, nil)

	h := NewOrderHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/order/stats", nil)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.OrderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(7), stats.TotalOrders)
	assert.Equal(t, 350.50, stats.TotalAmount)
}
