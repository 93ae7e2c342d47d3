package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InventoryValidator checks a batch of cart lines against current stock.
// Validation is all-or-nothing: the first violation rejects the whole batch.
// It is a pure read with no side effects.
type InventoryValidator struct {
	variantRepo repository.VariantRepository
	logger      zerolog.Logger
}

// NewInventoryValidator creates a new inventory validator.
func NewInventoryValidator(variantRepo repository.VariantRepository, logger zerolog.Logger) *InventoryValidator {
	return &InventoryValidator{
		variantRepo: variantRepo,
		logger:      logger.With().Str("component", "inventory-validator").Logger(),
	}
}

// Validate checks that every line references an existing, active variant
// with sufficient stock. The caller must not proceed to the transaction
// step if any line fails.
func (v *InventoryValidator) Validate(ctx context.Context, lines []model.CartLine) error {
	if len(lines) == 0 {
		return model.ErrEmptyCart
	}

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		if line.Quantity < 1 {
			return model.ErrInvalidQuantity
		}
		ids[i] = line.VariantID
	}

	details, err := v.variantRepo.GetDetailsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load variants for validation: %w", err)
	}

	byID := make(map[uuid.UUID]model.VariantDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	for _, line := range lines {
		detail, ok := byID[line.VariantID]
		if !ok {
			v.logger.Warn().
				Str("variant_id", line.VariantID.String()).
				Msg("cart references missing variant")
			return &model.VariantNotFoundError{VariantID: line.VariantID.String()}
		}

		if detail.AvailabilityStatus == model.VariantInactive {
			v.logger.Warn().
				Str("variant_id", line.VariantID.String()).
				Str("title", detail.ProductTitle).
				Msg("cart references inactive variant")
			return &model.VariantInactiveError{
				VariantID: line.VariantID.String(),
				Title:     detail.ProductTitle,
			}
		}

		if line.Quantity > detail.Stock {
			v.logger.Warn().
				Str("variant_id", line.VariantID.String()).
				Int("requested", line.Quantity).
				Int("available", detail.Stock).
				Msg("insufficient stock")
			return &model.InsufficientStockError{
				Title:     detail.ProductTitle,
				Colour:    detail.Colour,
				Size:      detail.Size,
				Requested: line.Quantity,
				Available: detail.Stock,
			}
		}
	}

	return nil
}
