package quote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-gorden/internal/quote"
)

type stubRepo struct {
	docs  map[uuid.UUID]quote.Document
	order []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{docs: map[uuid.UUID]quote.Document{}}
}

func (s *stubRepo) Create(_ context.Context, doc quote.Document) (quote.Document, error) {
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return doc, nil
}

func (s *stubRepo) Update(_ context.Context, doc quote.Document) (quote.Document, error) {
	if _, ok := s.docs[doc.ID]; !ok {
		return quote.Document{}, quote.ErrNotFound
	}
	doc.UpdatedAt = time.Now()
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *stubRepo) Get(_ context.Context, id uuid.UUID) (quote.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return quote.Document{}, quote.ErrNotFound
	}
	return doc, nil
}

func (s *stubRepo) List(_ context.Context, limit, offset int) ([]quote.Document, int64, error) {
	var out []quote.Document
	for i := offset; i < len(s.order) && len(out) < limit; i++ {
		out = append(out, s.docs[s.order[i]])
	}
	return out, int64(len(s.order)), nil
}

type stubLeads struct {
	payloads map[uuid.UUID][]byte
}

func (s *stubLeads) RawLead(_ context.Context, id uuid.UUID) ([]byte, error) {
	raw, ok := s.payloads[id]
	if !ok {
		return nil, quote.ErrNotFound
	}
	return raw, nil
}

func newTestRouter(t *testing.T, repo quote.Repo, leads quote.LeadSource) chi.Router {
	t.Helper()
	service, err := quote.NewService(quote.ServiceConfig{
		Repo:   repo,
		Leads:  leads,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	quote.NewHandler(quote.HandlerConfig{Service: service}).Routes(r)
	return r
}

type documentEnvelope struct {
	Data quote.Document `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestPreviewHandlerCoercesMistypedInput(t *testing.T) {
	r := newTestRouter(t, newStubRepo(), nil)

	body := `{
		"sections": [{"id": "s1", "title": "Jendela 1", "lines": [
			{"id": "l1", "name": "Blackout", "unit_price": "seratus", "quantity": 2},
			{"id": "l2", "name": "Rel", "unit_price": "75000", "quantity": "abc"}
		]}],
		"global_discount_percent": "10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotations/preview", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Totals quote.Totals `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	requireDecEqual(t, 75_000, resp.Data.Totals.Subtotal)
	requireDecEqual(t, 67_500, resp.Data.Totals.GrandTotal)
}

func TestCreateAndGetQuotation(t *testing.T) {
	r := newTestRouter(t, newStubRepo(), nil)

	body := `{
		"customer_name": "Ibu Sari",
		"sections": [{"id": "s1", "title": "Jendela 1", "lines": [
			{"id": "l1", "name": "Blackout", "unit_price": 100000, "discount_percent": 10, "quantity": 2}
		]}],
		"global_discount_percent": 20
	}`
	req := httptest.NewRequest(http.MethodPost, "/quotations", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created documentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.Data.ID)
	require.Equal(t, "Ibu Sari", created.Data.CustomerName)
	requireDecEqual(t, 180_000, created.Data.Totals.Subtotal)
	requireDecEqual(t, 144_000, created.Data.Totals.GrandTotal)

	req = httptest.NewRequest(http.MethodGet, "/quotations/"+created.Data.ID.String(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched documentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, created.Data.ID, fetched.Data.ID)
	requireDecEqual(t, 144_000, fetched.Data.Totals.GrandTotal)
}

func TestUpdateQuotationRecomputesTotals(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(t, repo, nil)

	service, err := quote.NewService(quote.ServiceConfig{Repo: repo, Logger: zerolog.Nop()})
	require.NoError(t, err)
	doc, err := service.Create(context.Background(), "Pak Budi", quote.Quotation{
		Sections: []quote.Section{{ID: "s1", Lines: []quote.Line{{ID: "l1", UnitPrice: dec(50_000), Quantity: 1}}}},
	})
	require.NoError(t, err)

	body := `{"customer_name": "Pak Budi", "sections": [{"id": "s1", "lines": [
		{"id": "l1", "name": "Sheer", "unit_price": 80000, "quantity": 2}
	]}]}`
	req := httptest.NewRequest(http.MethodPut, "/quotations/"+doc.ID.String(), bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated documentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	requireDecEqual(t, 160_000, updated.Data.Totals.GrandTotal)
}

func TestQuotationHandlerErrors(t *testing.T) {
	r := newTestRouter(t, newStubRepo(), &stubLeads{})

	t.Run("invalid uuid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/quotations/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp errorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "INVALID_ID", resp.Error.Code)
	})

	t.Run("missing quotation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/quotations/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp errorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("missing lead", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/quotations/from-lead/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp errorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "lead not found", resp.Error.Message)
	})
}

func TestFromLeadHandler(t *testing.T) {
	leadID := uuid.New()
	leads := &stubLeads{payloads: map[uuid.UUID][]byte{leadID: []byte(leadPayload)}}
	repo := newStubRepo()
	r := newTestRouter(t, repo, leads)

	req := httptest.NewRequest(http.MethodPost, "/quotations/from-lead/"+leadID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp documentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Quotation.Sections, 2)
	for _, s := range resp.Data.Quotation.Sections {
		require.Len(t, s.Lines, 3)
	}
	require.Equal(t, quote.DefaultPaymentTerms, resp.Data.Quotation.PaymentTerms)
	require.Len(t, repo.docs, 1, "converted quotation is persisted")
}

func TestListQuotationsPagination(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(t, repo, nil)

	service, err := quote.NewService(quote.ServiceConfig{Repo: repo, Logger: zerolog.Nop()})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), "Pelanggan", quote.Quotation{})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/quotations?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []quote.Document `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalItems int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, 2, resp.Pagination.Page)
	require.Equal(t, 3, resp.Pagination.TotalItems)
}
