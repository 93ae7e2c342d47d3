package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// variantRepository implements the VariantRepository interface using PostgreSQL.
type variantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVariantRepository creates a new PostgreSQL-backed variant repository.
func NewVariantRepository(pool *pgxpool.Pool, logger zerolog.Logger) VariantRepository {
	return &variantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "variant").Logger(),
	}
}

const variantColumns = `id, product_id, colour, colour_code, size, price, stock, img,
	availability_status, created_at, updated_at`

func scanVariant(row pgx.Row, v *model.Variant) error {
	return row.Scan(&v.ID, &v.ProductID, &v.Colour, &v.ColourCode, &v.Size,
		&v.Price, &v.Stock, &v.Img, &v.AvailabilityStatus, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID retrieves a single variant.
func (r *variantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`

	var v model.Variant
	if err := scanVariant(r.pool.QueryRow(ctx, query, id), &v); err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("variant_id", id.String()).Msg("variant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("variant_id", id.String()).Msg("failed to query variant")
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}

	return &v, nil
}

// GetDetailsByIDs retrieves variants joined with their product titles.
func (r *variantRepository) GetDetailsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.VariantDetail, error) {
	if len(ids) == 0 {
		return []model.VariantDetail{}, nil
	}

	query := `
		SELECT v.id, v.product_id, v.colour, v.colour_code, v.size, v.price,
		       v.stock, v.img, v.availability_status, v.created_at, v.updated_at,
		       p.title
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query variant details")
		return nil, fmt.Errorf("failed to query variant details: %w", err)
	}
	defer rows.Close()

	var details []model.VariantDetail
	for rows.Next() {
		var d model.VariantDetail
		err := rows.Scan(&d.ID, &d.ProductID, &d.Colour, &d.ColourCode, &d.Size,
			&d.Price, &d.Stock, &d.Img, &d.AvailabilityStatus,
			&d.CreatedAt, &d.UpdatedAt, &d.ProductTitle)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant detail row")
			return nil, fmt.Errorf("failed to scan variant detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant detail rows")
		return nil, fmt.Errorf("error iterating variant details: %w", err)
	}

	return details, nil
}

// Add inserts new variants for an existing product.
func (r *variantRepository) Add(ctx context.Context, variants []model.Variant) error {
	if len(variants) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_variants
			(id, product_id, colour, colour_code, size, price, stock, img,
			 availability_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, v := range variants {
		batch.Queue(query, v.ID, v.ProductID, v.Colour, v.ColourCode, v.Size,
			v.Price, v.Stock, v.Img, v.AvailabilityStatus, v.CreatedAt, v.UpdatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(variants); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_id", variants[i].ProductID.String()).
				Msg("failed to insert variant")
			return fmt.Errorf("failed to insert variant: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(variants)).Msg("variants inserted")

	return nil
}

// Update replaces a variant's editable fields.
func (r *variantRepository) Update(ctx context.Context, v *model.Variant) (*model.Variant, error) {
	query := `
		UPDATE product_variants
		SET colour = $2, colour_code = $3, size = $4, price = $5, stock = $6,
		    img = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + variantColumns

	var updated model.Variant
	err := scanVariant(r.pool.QueryRow(ctx, query,
		v.ID, v.Colour, v.ColourCode, v.Size, v.Price, v.Stock, v.Img, time.Now()), &updated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("variant_id", v.ID.String()).Msg("failed to update variant")
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}

	return &updated, nil
}

// SetStatus flips a variant's availability status.
func (r *variantRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) (*model.Variant, error) {
	query := `
		UPDATE product_variants
		SET availability_status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + variantColumns

	var v model.Variant
	if err := scanVariant(r.pool.QueryRow(ctx, query, id, status, time.Now()), &v); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("variant_id", id.String()).
			Str("status", string(status)).
			Msg("failed to set variant status")
		return nil, fmt.Errorf("failed to set variant status: %w", err)
	}

	return &v, nil
}

// ColourSizeExists reports whether the product already has a variant with
// the given colour and size.
func (r *variantRepository) ColourSizeExists(ctx context.Context, productID uuid.UUID, colour, size string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM product_variants
			WHERE product_id = $1 AND colour = $2 AND size = $3 AND ($4::uuid IS NULL OR id <> $4)
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, productID, colour, size, excludeID).Scan(&exists); err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID.String()).
			Str("colour", colour).
			Str("size", size).
			Msg("failed to check variant uniqueness")
		return false, fmt.Errorf("failed to check variant uniqueness: %w", err)
	}

	return exists, nil
}
