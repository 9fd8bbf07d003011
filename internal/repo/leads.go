package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-gorden/internal/quote"
)

// LeadRepo reads stored calculator submissions. The payload is returned raw:
// older rows hold double-encoded JSON and the lenient lead parser owns the
// recovery rules.
type LeadRepo struct {
	Pool *pgxpool.Pool
}

// RawLead fetches the stored payload of one lead.
func (r LeadRepo) RawLead(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var payload []byte
	err := r.Pool.QueryRow(ctx,
		`SELECT payload FROM calculator_leads WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quote.ErrNotFound
		}
		return nil, fmt.Errorf("query lead: %w", err)
	}
	return payload, nil
}
