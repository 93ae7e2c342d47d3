package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// CartHandler handles the server-side cart. Carts are keyed by the
// authenticated user's email, or by the shared guest identity for anonymous
// shoppers. Stock is not enforced here; checkout revalidates every line.
type CartHandler struct {
	carts  *cart.Manager
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Manager, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

func cartIdentity(r *http.Request) string {
	if user := middleware.UserFrom(r.Context()); user != nil {
		return user.Email
	}
	return model.GuestIdentity
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), cartIdentity(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var line model.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	c, err := h.carts.AddLine(r.Context(), cartIdentity(r), line)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// UpdateItem handles PATCH /api/cart/items/{variantId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	variantID, err := pathID(r, "variantId")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid variant id", h.logger)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), cartIdentity(r), variantID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/cart/items/{variantId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	variantID, err := pathID(r, "variantId")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid variant id", h.logger)
		return
	}

	c, err := h.carts.RemoveLine(r.Context(), cartIdentity(r), variantID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), cartIdentity(r)); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
