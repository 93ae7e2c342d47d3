package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRouter(h *CartHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/cart", h.Get)
	r.Delete("/api/cart", h.Clear)
	r.Post("/api/cart/items", h.AddItem)
	r.Patch("/api/cart/items/{variantId}", h.UpdateItem)
	r.Delete("/api/cart/items/{variantId}", h.RemoveItem)
	return r
}

func newCartHandler() *CartHandler {
	manager := cart.NewManager(cart.NewMemoryStore(), zerolog.Nop())
	return NewCartHandler(manager, zerolog.Nop())
}

func TestCartHandler_GuestAndUserCartsAreSeparate(t *testing.T) {
	h := newCartHandler()
	router := cartRouter(h)
	user := &model.User{ID: uuid.New(), Email: "jane@example.com", Role: model.RoleUser}

	addBody := `{"variantId": "` + uuid.NewString() + `", "quantity": 2, "price": 10, "title": "Linen Shirt"}`

	// Guest adds an item.
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(addBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The authenticated user's cart stays empty.
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), user)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var userCart model.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &userCart))
	assert.Equal(t, "jane@example.com", userCart.Identity)
	assert.Empty(t, userCart.Lines)

	// The guest cart kept its line.
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var guestCart model.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guestCart))
	assert.Equal(t, model.GuestIdentity, guestCart.Identity)
	assert.Len(t, guestCart.Lines, 1)
}

func TestCartHandler_AddUpdateRemoveFlow(t *testing.T) {
	h := newCartHandler()
	router := cartRouter(h)
	variantID := uuid.New()

	addBody := `{"variantId": "` + variantID.String() + `", "quantity": 1, "price": 25.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(addBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Bump the quantity.
	req = httptest.NewRequest(http.MethodPatch, "/api/cart/items/"+variantID.String(), strings.NewReader(`{"quantity": 4}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var c model.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 4, c.Lines[0].Quantity)

	// Remove the line.
	req = httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+variantID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Lines)
}

func TestCartHandler_AddItem_InvalidQuantity(t *testing.T) {
	h := newCartHandler()

	body := `{"variantId": "` + uuid.NewString() + `", "quantity": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeInvalidQuantity, resp.Error)
}

func TestCartHandler_UpdateItem_AbsentVariant(t *testing.T) {
	h := newCartHandler()

	req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/"+uuid.NewString(), strings.NewReader(`{"quantity": 2}`))
	rec := httptest.NewRecorder()
	cartRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	h := newCartHandler()
	router := cartRouter(h)

	addBody := `{"variantId": "` + uuid.NewString() + `", "quantity": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(addBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var c model.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Lines)
}
