package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue browsing and admin product management.
type ProductHandler struct {
	products service.ProductService
	loader   catalog.Loader
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler. loader may be nil when
// bulk import is not configured.
func NewProductHandler(products service.ProductService, loader catalog.Loader, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		loader:   loader,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/product/get-products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := model.ProductQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 0),
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
		Role:   model.RoleUser,
	}
	if user := middleware.UserFrom(r.Context()); user.IsAdmin() {
		q.Role = model.RoleAdmin
	}

	page, err := h.products.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Create handles POST /api/product/add-product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.products.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpdateTitle handles PATCH /api/product/update-product-title/{id}.
func (h *ProductHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product id", h.logger)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "title is required", h.logger)
		return
	}

	product, err := h.products.UpdateTitle(r.Context(), id, req.Title)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles PATCH /api/product/delete-product/{id}. Products are only
// ever soft-deleted.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product id", h.logger)
		return
	}

	product, err := h.products.SoftDelete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// AddVariants handles POST /api/product/add-variants/{productId}.
func (h *ProductHandler) AddVariants(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product id", h.logger)
		return
	}

	var req struct {
		Variants []model.VariantRequest `json:"variants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if len(req.Variants) == 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "at least one variant is required", h.logger)
		return
	}

	variants, err := h.products.AddVariants(r.Context(), productID, req.Variants)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, variants)
}

// UpdateVariant handles PUT /api/product/update-variant/{id}.
func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid variant id", h.logger)
		return
	}

	var req model.VariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	variant, err := h.products.UpdateVariant(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, variant)
}

// DeactivateVariant handles PATCH /api/product/deactivate-variant/{id}.
func (h *ProductHandler) DeactivateVariant(w http.ResponseWriter, r *http.Request) {
	h.setVariantStatus(w, r, h.products.DeactivateVariant)
}

// ReactivateVariant handles PATCH /api/product/reactivate-variant/{id}.
func (h *ProductHandler) ReactivateVariant(w http.ResponseWriter, r *http.Request) {
	h.setVariantStatus(w, r, h.products.ReactivateVariant)
}

func (h *ProductHandler) setVariantStatus(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID) (*model.Variant, error),
) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid variant id", h.logger)
		return
	}

	variant, err := op(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, variant)
}

// Upload handles POST /api/product/upload-products. The body names a seed
// document; the loader resolves it from disk or S3.
func (h *ProductHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeInternalError, "bulk import is not configured", h.logger)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "name is required", h.logger)
		return
	}

	seeds, err := h.loader.Load(r.Context(), req.Name)
	if err != nil {
		h.logger.Error().Err(err).Str("name", req.Name).Msg("failed to load seed document")
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "failed to load seed document", h.logger)
		return
	}

	summary, err := h.products.Import(r.Context(), seeds)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
