package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one role-aware catalogue page.
func (s *productService) List(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 8
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	products, total, err := s.productRepo.List(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", q.Page).
			Int("limit", q.Limit).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("page", q.Page).
		Msg("catalogue page retrieved")

	return &model.ProductPage{
		Products: products,
		Total:    total,
		HasMore:  q.Page*q.Limit < total,
	}, nil
}

// validateVariantRequest checks one variant payload for field-level problems.
func validateVariantRequest(v *model.VariantRequest) error {
	if strings.TrimSpace(v.Colour) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Variant colour is required")
	}
	if strings.TrimSpace(v.Size) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Variant size is required")
	}
	if v.Price <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Variant price must be greater than 0")
	}
	if v.Stock < 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Variant stock cannot be negative")
	}
	return nil
}

// checkDuplicateVariants rejects colour+size combinations duplicated within
// the request, before any row is written.
func checkDuplicateVariants(reqs []model.VariantRequest) error {
	seen := make(map[string]bool, len(reqs))
	for _, v := range reqs {
		key := v.Colour + "|" + v.Size
		if seen[key] {
			return &model.DuplicateVariantError{Colour: v.Colour, Size: v.Size}
		}
		seen[key] = true
	}
	return nil
}

// Create creates a product with at least one variant.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product title is required")
	}
	if len(req.Variants) == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "At least one variant is required")
	}

	for i := range req.Variants {
		if err := validateVariantRequest(&req.Variants[i]); err != nil {
			return nil, err
		}
	}
	if err := checkDuplicateVariants(req.Variants); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:        uuid.New(),
		Title:     req.Title,
		IsDeleted: model.ProductActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.Variants = buildVariants(product.ID, req.Variants, now)

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("title", req.Title).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("title", product.Title).
		Int("variant_count", len(product.Variants)).
		Msg("product created")

	return product, nil
}

// buildVariants maps variant requests onto new ACTIVE variant rows.
func buildVariants(productID uuid.UUID, reqs []model.VariantRequest, now time.Time) []model.Variant {
	variants := make([]model.Variant, len(reqs))
	for i, v := range reqs {
		variants[i] = model.Variant{
			ID:                 uuid.New(),
			ProductID:          productID,
			Colour:             v.Colour,
			ColourCode:         v.ColourCode,
			Size:               v.Size,
			Price:              v.Price,
			Stock:              v.Stock,
			Img:                v.Img,
			AvailabilityStatus: model.VariantActive,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}
	return variants
}

// UpdateTitle updates a product's title.
func (s *productService) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Product, error) {
	if strings.TrimSpace(title) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product title is required")
	}

	product, err := s.productRepo.UpdateTitle(ctx, id, title)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product title")
		return nil, fmt.Errorf("failed to update product title: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// SoftDelete marks a product deleted and deactivates all its variants.
func (s *productService) SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.SoftDelete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to soft-delete product")
		return nil, fmt.Errorf("failed to soft-delete product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// AddVariants adds variants to an existing product.
func (s *productService) AddVariants(ctx context.Context, productID uuid.UUID, reqs []model.VariantRequest) ([]model.Variant, error) {
	if len(reqs) == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "At least one variant is required")
	}

	for i := range reqs {
		if err := validateVariantRequest(&reqs[i]); err != nil {
			return nil, err
		}
	}
	if err := checkDuplicateVariants(reqs); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	// Reject duplicates against existing rows before writing anything.
	for _, v := range reqs {
		exists, err := s.variantRepo.ColourSizeExists(ctx, productID, v.Colour, v.Size, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check variant uniqueness: %w", err)
		}
		if exists {
			return nil, &model.DuplicateVariantError{Colour: v.Colour, Size: v.Size}
		}
	}

	variants := buildVariants(productID, reqs, time.Now())
	if err := s.variantRepo.Add(ctx, variants); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to add variants")
		return nil, fmt.Errorf("failed to add variants: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Int("variant_count", len(variants)).
		Msg("variants added")

	return variants, nil
}

// UpdateVariant replaces a variant's editable fields.
func (s *productService) UpdateVariant(ctx context.Context, id uuid.UUID, req *model.VariantRequest) (*model.Variant, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Variant payload is required")
	}
	if err := validateVariantRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.variantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}
	if existing == nil {
		return nil, &model.VariantNotFoundError{VariantID: id.String()}
	}

	// The duplicate check must not trip over the variant being edited.
	exists, err := s.variantRepo.ColourSizeExists(ctx, existing.ProductID, req.Colour, req.Size, &id)
	if err != nil {
		return nil, fmt.Errorf("failed to check variant uniqueness: %w", err)
	}
	if exists {
		return nil, &model.DuplicateVariantError{Colour: req.Colour, Size: req.Size}
	}

	existing.Colour = req.Colour
	existing.ColourCode = req.ColourCode
	existing.Size = req.Size
	existing.Price = req.Price
	existing.Stock = req.Stock
	existing.Img = req.Img

	updated, err := s.variantRepo.Update(ctx, existing)
	if err != nil {
		s.logger.Error().Err(err).Str("variant_id", id.String()).Msg("failed to update variant")
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}
	if updated == nil {
		return nil, &model.VariantNotFoundError{VariantID: id.String()}
	}

	return updated, nil
}

// DeactivateVariant sets a variant INACTIVE without deleting it.
func (s *productService) DeactivateVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	return s.setVariantStatus(ctx, id, model.VariantInactive)
}

// ReactivateVariant sets a variant back to ACTIVE.
func (s *productService) ReactivateVariant(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	return s.setVariantStatus(ctx, id, model.VariantActive)
}

func (s *productService) setVariantStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) (*model.Variant, error) {
	variant, err := s.variantRepo.SetStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("variant_id", id.String()).
			Str("status", string(status)).
			Msg("failed to set variant status")
		return nil, fmt.Errorf("failed to set variant status: %w", err)
	}
	if variant == nil {
		return nil, &model.VariantNotFoundError{VariantID: id.String()}
	}

	s.logger.Info().
		Str("variant_id", id.String()).
		Str("status", string(status)).
		Msg("variant status changed")

	return variant, nil
}

// Import creates products from a bulk seed file. Each product is created
// independently; failures are collected in the summary.
func (s *productService) Import(ctx context.Context, seeds []catalog.ProductSeed) (*catalog.ImportSummary, error) {
	if len(seeds) == 0 {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Seed file contains no products")
	}

	summary := &catalog.ImportSummary{}
	for _, seed := range seeds {
		req := &model.ProductRequest{
			Title:    seed.Title,
			Variants: make([]model.VariantRequest, len(seed.Variants)),
		}
		for i, v := range seed.Variants {
			req.Variants[i] = model.VariantRequest{
				Colour:     v.Colour,
				ColourCode: v.ColourCode,
				Size:       v.Size,
				Price:      v.Price,
				Stock:      v.Stock,
				Img:        v.Img,
			}
		}

		if _, err := s.Create(ctx, req); err != nil {
			s.logger.Warn().Err(err).Str("title", seed.Title).Msg("seed product rejected")
			summary.Failed = append(summary.Failed, catalog.ImportFailure{
				Title:  seed.Title,
				Reason: err.Error(),
			})
			continue
		}
		summary.Imported++
	}

	s.logger.Info().
		Int("imported", summary.Imported).
		Int("failed", len(summary.Failed)).
		Msg("catalogue import finished")

	return summary, nil
}
