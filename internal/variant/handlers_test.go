package variant_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-gorden/internal/variant"
)

func newHandlerRouter(t *testing.T, repo *stubVariantRepo) chi.Router {
	t.Helper()
	service, err := variant.NewService(variant.ServiceConfig{Repo: repo, Logger: zerolog.Nop()})
	require.NoError(t, err)

	r := chi.NewRouter()
	variant.NewHandler(variant.HandlerConfig{Service: service}).Routes(r)
	return r
}

func TestRegenerateHandler(t *testing.T) {
	repo := &stubVariantRepo{stored: []variant.Variant{
		{ID: "keep-1", Attributes: map[string]string{"Warna": "Merah"}, PriceNet: 120_000, Active: true},
	}}
	r := newHandlerRouter(t, repo)

	body := `{"options": [{"name": "Warna", "values": ["Merah", "Biru"]}]}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString()+"/options", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data variant.RegenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Variants, 2)
	require.Len(t, resp.Data.Options, 1)
}

func TestRegenerateHandlerRejectsBadInput(t *testing.T) {
	r := newHandlerRouter(t, &stubVariantRepo{})

	t.Run("invalid product id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/products/nope/options", bytes.NewBufferString(`{"options":[]}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString()+"/options", bytes.NewBufferString(`{broken`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "INVALID_BODY", resp.Error.Code)
	})

	t.Run("too many options", func(t *testing.T) {
		body := `{"options": [
			{"name": "A", "values": ["x"]}, {"name": "B", "values": ["x"]},
			{"name": "C", "values": ["x"]}, {"name": "D", "values": ["x"]},
			{"name": "E", "values": ["x"]}
		]}`
		req := httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString()+"/options", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestVariantsHandler(t *testing.T) {
	repo := &stubVariantRepo{stored: []variant.Variant{
		{ID: "v1", Attributes: map[string]string{"Warna": "Merah"}, PriceNet: 100_000, Active: true},
	}}
	r := newHandlerRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString()+"/variants", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []variant.Variant `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "v1", resp.Data[0].ID)
}

func TestOptionsHandler(t *testing.T) {
	repo := &stubVariantRepo{options: []variant.OptionDefinition{
		{Name: "Warna", Values: []string{"Merah", "Biru"}},
	}}
	r := newHandlerRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString()+"/options", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Options []variant.OptionDefinition `json:"options"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Options, 1)
	require.Equal(t, "Warna", resp.Data.Options[0].Name)
}
