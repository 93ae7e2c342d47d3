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

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves one catalogue page and the total row count for the query.
func (r *productRepository) List(ctx context.Context, q model.ProductQuery) ([]model.Product, int, error) {
	where := `WHERE p.is_deleted = 'active'`
	args := []any{}
	argN := 1

	if q.Search != "" {
		where += fmt.Sprintf(" AND p.title ILIKE $%d", argN)
		args = append(args, "%"+q.Search+"%")
		argN++
	}

	// Customers only see products with at least one sellable variant.
	if q.Role != model.RoleAdmin {
		where += ` AND EXISTS (
			SELECT 1 FROM product_variants v
			WHERE v.product_id = p.id AND v.availability_status = 'ACTIVE'
		)`
	}

	var orderBy string
	switch q.Sort {
	case model.SortTitleAsc:
		orderBy = "p.title ASC"
	case model.SortTitleDesc:
		orderBy = "p.title DESC"
	case model.SortDateAsc:
		orderBy = "p.created_at ASC"
	default:
		orderBy = "p.created_at DESC"
	}

	countQuery := `SELECT COUNT(*) FROM products p ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.is_deleted, p.created_at, p.updated_at
		FROM products p
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, argN, argN+1)

	offset := (q.Page - 1) * q.Limit
	args = append(args, q.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", q.Page).
			Int("limit", q.Limit).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachVariants(ctx, products, q.Role); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// attachVariants loads the variants for each listed product. Customers only
// receive ACTIVE variants; admins receive all of them.
func (r *productRepository) attachVariants(ctx context.Context, products []model.Product, role model.Role) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT id, product_id, colour, colour_code, size, price, stock, img,
		       availability_status, created_at, updated_at
		FROM product_variants
		WHERE product_id = ANY($1)
	`
	if role != model.RoleAdmin {
		query += ` AND availability_status = 'ACTIVE'`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query product variants")
		return fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v model.Variant
		err := rows.Scan(&v.ID, &v.ProductID, &v.Colour, &v.ColourCode, &v.Size,
			&v.Price, &v.Stock, &v.Img, &v.AvailabilityStatus, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant row")
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		if i, ok := index[v.ProductID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant rows")
		return fmt.Errorf("error iterating variants: %w", err)
	}

	return nil
}

// GetByID retrieves a product with all of its variants.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, title, is_deleted, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	products := []model.Product{p}
	if err := r.attachVariants(ctx, products, model.RoleAdmin); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// Create inserts a product and its variants in one transaction.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	productQuery := `
		INSERT INTO products (id, title, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, productQuery,
		product.ID, product.Title, product.IsDeleted, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	variantQuery := `
		INSERT INTO product_variants
			(id, product_id, colour, colour_code, size, price, stock, img,
			 availability_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, v := range product.Variants {
		batch.Queue(variantQuery, v.ID, v.ProductID, v.Colour, v.ColourCode, v.Size,
			v.Price, v.Stock, v.Img, v.AvailabilityStatus, v.CreatedAt, v.UpdatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range product.Variants {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to insert variant")
			return fmt.Errorf("failed to insert variant: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close variant batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to commit product")
		return fmt.Errorf("failed to commit product: %w", err)
	}

	r.logger.Debug().
		Str("product_id", product.ID.String()).
		Int("variant_count", len(product.Variants)).
		Msg("product created")

	return nil
}

// UpdateTitle updates a product's title.
func (r *productRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*model.Product, error) {
	query := `
		UPDATE products
		SET title = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, title, is_deleted, created_at, updated_at
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id, title, time.Now()).
		Scan(&p.ID, &p.Title, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product title")
		return nil, fmt.Errorf("failed to update product title: %w", err)
	}

	return &p, nil
}

// SoftDelete marks a product deleted and cascades its variants to INACTIVE.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	productQuery := `
		UPDATE products
		SET is_deleted = 'deleted', updated_at = $2
		WHERE id = $1
		RETURNING id, title, is_deleted, created_at, updated_at
	`

	var p model.Product
	err = tx.QueryRow(ctx, productQuery, id, now).
		Scan(&p.ID, &p.Title, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to soft-delete product")
		return nil, fmt.Errorf("failed to soft-delete product: %w", err)
	}

	variantQuery := `
		UPDATE product_variants
		SET availability_status = 'INACTIVE', updated_at = $2
		WHERE product_id = $1
	`
	if _, err := tx.Exec(ctx, variantQuery, id, now); err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to deactivate variants")
		return nil, fmt.Errorf("failed to deactivate variants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to commit soft-delete")
		return nil, fmt.Errorf("failed to commit soft-delete: %w", err)
	}

	r.logger.Info().Str("product_id", id.String()).Msg("product soft-deleted")

	return &p, nil
}
