package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-gorden/internal/quote"
)

// QuotationRepo persists quotation documents. The body is stored as a JSONB
// document; discount and total are also stored as columns so the admin list
// can sort and filter without unpacking documents.
type QuotationRepo struct {
	Pool *pgxpool.Pool
}

// Create inserts a new document.
func (r QuotationRepo) Create(ctx context.Context, doc quote.Document) (quote.Document, error) {
	body, err := json.Marshal(doc.Quotation)
	if err != nil {
		return quote.Document{}, fmt.Errorf("marshal quotation: %w", err)
	}
	row := r.Pool.QueryRow(ctx,
		`INSERT INTO quotations (id, customer_name, document, discount_amount, total_amount)
		 VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		 RETURNING created_at, updated_at`,
		doc.ID, doc.CustomerName, body,
		doc.Totals.DiscountAmount.String(), doc.Totals.GrandTotal.String())
	if err := row.Scan(&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return quote.Document{}, fmt.Errorf("insert quotation: %w", err)
	}
	return doc, nil
}

// Update replaces the body and derived columns of an existing document.
func (r QuotationRepo) Update(ctx context.Context, doc quote.Document) (quote.Document, error) {
	body, err := json.Marshal(doc.Quotation)
	if err != nil {
		return quote.Document{}, fmt.Errorf("marshal quotation: %w", err)
	}
	row := r.Pool.QueryRow(ctx,
		`UPDATE quotations
		    SET customer_name = $2, document = $3,
		        discount_amount = $4::numeric, total_amount = $5::numeric,
		        updated_at = now()
		  WHERE id = $1
		  RETURNING created_at, updated_at`,
		doc.ID, doc.CustomerName, body,
		doc.Totals.DiscountAmount.String(), doc.Totals.GrandTotal.String())
	if err := row.Scan(&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quote.Document{}, quote.ErrNotFound
		}
		return quote.Document{}, fmt.Errorf("update quotation: %w", err)
	}
	return doc, nil
}

// Get fetches a document by id. Totals are recomputed from the document
// body so every consumer sees the same numbers regardless of when the row
// was written.
func (r QuotationRepo) Get(ctx context.Context, id uuid.UUID) (quote.Document, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT id, customer_name, document, created_at, updated_at FROM quotations WHERE id = $1`, id)
	return scanDocument(row)
}

// List returns a page of documents, newest first, plus the total count.
func (r QuotationRepo) List(ctx context.Context, limit, offset int) ([]quote.Document, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM quotations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT id, customer_name, document, created_at, updated_at
		   FROM quotations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query quotations: %w", err)
	}
	defer rows.Close()

	var docs []quote.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, rows.Err()
}

func scanDocument(row pgx.Row) (quote.Document, error) {
	var (
		doc  quote.Document
		body []byte
	)
	if err := row.Scan(&doc.ID, &doc.CustomerName, &body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quote.Document{}, quote.ErrNotFound
		}
		return quote.Document{}, fmt.Errorf("scan quotation: %w", err)
	}
	doc.Quotation = quote.ParseQuotation(body)
	doc.Totals = quote.ComputeTotals(doc.Quotation)
	return doc, nil
}
