// Package repo contains the hand-written pgx persistence layer. Queries are
// kept small and explicit; schema.sql documents the tables.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-gorden/internal/variant"
)

// VariantRepo persists option definitions and generated variants.
type VariantRepo struct {
	Pool *pgxpool.Pool
}

// OptionsByProduct returns the stored option definitions in display order.
func (r VariantRepo) OptionsByProduct(ctx context.Context, productID uuid.UUID) ([]variant.OptionDefinition, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT name, values FROM product_options WHERE product_id = $1 ORDER BY position`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var options []variant.OptionDefinition
	for rows.Next() {
		var opt variant.OptionDefinition
		if err := rows.Scan(&opt.Name, &opt.Values); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// ListByProduct returns the persisted variant set in display order.
func (r VariantRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]variant.Variant, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, attributes, price_gross, price_net, unit, active
		   FROM product_variants WHERE product_id = $1 ORDER BY position`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var variants []variant.Variant
	for rows.Next() {
		var (
			id uuid.UUID
			v  variant.Variant
		)
		if err := rows.Scan(&id, &v.Attributes, &v.PriceGross, &v.PriceNet, &v.Unit, &v.Active); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		v.ID = id.String()
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ReplaceForProduct atomically swaps the option definitions and the derived
// variant set. Carried-forward ids are kept; fresh combinations get new ids.
// Returns the set as persisted.
func (r VariantRepo) ReplaceForProduct(ctx context.Context, productID uuid.UUID, options []variant.OptionDefinition, variants []variant.Variant) ([]variant.Variant, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM product_options WHERE product_id = $1`, productID); err != nil {
		return nil, fmt.Errorf("clear options: %w", err)
	}
	for i, opt := range options {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_options (product_id, position, name, values) VALUES ($1, $2, $3, $4)`,
			productID, i, opt.Name, opt.Values); err != nil {
			return nil, fmt.Errorf("insert option %q: %w", opt.Name, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
		return nil, fmt.Errorf("clear variants: %w", err)
	}
	saved := make([]variant.Variant, 0, len(variants))
	for i, v := range variants {
		id, err := uuid.Parse(v.ID)
		if err != nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_variants (id, product_id, attributes, price_gross, price_net, unit, active, position, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
			id, productID, v.Attributes, v.PriceGross, v.PriceNet, v.Unit, v.Active, i); err != nil {
			return nil, fmt.Errorf("insert variant: %w", err)
		}
		v.ID = id.String()
		saved = append(saved, v)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}
