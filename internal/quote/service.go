package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-gorden/internal/common"
	"github.com/noah-isme/backend-gorden/internal/obs"
)

// ErrNotFound is returned by repositories when a document or lead is absent.
var ErrNotFound = errors.New("quote: not found")

// Document is a persisted quotation together with its server-computed
// totals. Totals are derived on every write so the stored document and the
// numbers every surface renders can never drift apart.
type Document struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customer_name"`
	Quotation    Quotation `json:"quotation"`
	Totals       Totals    `json:"totals"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repo persists quotation documents.
type Repo interface {
	Create(ctx context.Context, doc Document) (Document, error)
	Update(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, id uuid.UUID) (Document, error)
	List(ctx context.Context, limit, offset int) ([]Document, int64, error)
}

// LeadSource fetches the raw stored payload of a calculator lead.
type LeadSource interface {
	RawLead(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Service wraps the assembler with persistence and lead conversion.
type Service struct {
	repo    Repo
	leads   LeadSource
	convert ConvertOptions
	logger  zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo           Repo
	Leads          LeadSource
	ConvertOptions ConvertOptions
	Logger         zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("quote: repo is required")
	}
	return &Service{
		repo:    cfg.Repo,
		leads:   cfg.Leads,
		convert: cfg.ConvertOptions,
		logger:  cfg.Logger,
	}, nil
}

// Preview computes totals for an unsaved quotation. This is the single
// calculation path shared by the editor, the preview pane, and the PDF
// exporter.
func (s *Service) Preview(q Quotation) Totals {
	obs.IncQuotationsComputed("preview")
	return ComputeTotals(q)
}

// Create persists a new quotation document with derived totals.
func (s *Service) Create(ctx context.Context, customerName string, q Quotation) (Document, error) {
	doc := Document{
		ID:           uuid.New(),
		CustomerName: customerName,
		Quotation:    q,
		Totals:       ComputeTotals(q),
	}
	saved, err := s.repo.Create(ctx, doc)
	if err != nil {
		return Document{}, fmt.Errorf("create quotation: %w", err)
	}
	obs.IncQuotationsComputed("create")
	s.logger.Info().Str("quotation_id", saved.ID.String()).
		Str("grand_total", saved.Totals.GrandTotal.String()).
		Msg("quotation created")
	return saved, nil
}

// Update replaces the document body and recomputes totals. A missing id
// maps to a 404 AppError.
func (s *Service) Update(ctx context.Context, id uuid.UUID, customerName string, q Quotation) (Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, mapNotFound(err)
	}
	existing.CustomerName = customerName
	existing.Quotation = q
	existing.Totals = ComputeTotals(q)
	saved, err := s.repo.Update(ctx, existing)
	if err != nil {
		return Document{}, mapNotFound(err)
	}
	obs.IncQuotationsComputed("update")
	return saved, nil
}

// Get fetches a document by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, mapNotFound(err)
	}
	return doc, nil
}

// List returns a page of documents plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// FromLead loads a stored calculator lead, converts it, and persists the
// resulting quotation. A partially malformed lead still yields a usable
// skeleton; only a missing lead fails.
func (s *Service) FromLead(ctx context.Context, leadID uuid.UUID) (Document, error) {
	if s.leads == nil {
		return Document{}, common.NewAppError("LEADS_UNAVAILABLE", "lead storage not configured", http.StatusServiceUnavailable, nil)
	}
	raw, err := s.leads.RawLead(ctx, leadID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, common.NotFound("lead not found")
		}
		return Document{}, err
	}
	lead := ParseLead(raw)
	q := ConvertLead(lead, s.convert)
	doc, err := s.Create(ctx, "", q)
	if err != nil {
		return Document{}, err
	}
	obs.IncLeadsConverted()
	s.logger.Info().Str("lead_id", leadID.String()).
		Str("quotation_id", doc.ID.String()).
		Int("sections", len(q.Sections)).
		Msg("lead converted to quotation")
	return doc, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return common.NotFound("quotation not found")
	}
	return err
}
