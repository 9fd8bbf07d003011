package quote

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-gorden/internal/common"
)

// Handler exposes the quotation endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Routes mounts the quotation endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/quotations/preview", h.Preview)
	r.Post("/quotations", h.Create)
	r.Get("/quotations", h.List)
	r.Get("/quotations/{id}", h.Get)
	r.Put("/quotations/{id}", h.Update)
	r.Post("/quotations/from-lead/{leadID}", h.FromLead)
}

type documentRequest struct {
	customerName string
	quotation    Quotation
}

// readDocument decodes the request body leniently: the editor may submit
// mistyped numeric fields and re-submitted legacy documents use the old
// "windows" key. Bad fields default, they never fail the request.
func readDocument(r *http.Request) documentRequest {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return documentRequest{}
	}
	var decoded any
	if !common.UnmarshalLenient(raw, &decoded) {
		return documentRequest{}
	}
	m := common.MapOf(decoded)
	return documentRequest{
		customerName: common.StringOf(common.Pick(m, "customer_name", "customerName")),
		quotation:    QuotationFromAny(decoded),
	}
}

// Preview handles POST /api/v1/quotations/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	req := readDocument(r)
	totals := h.service.Preview(req.quotation)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"quotation": req.quotation,
			"totals":    totals,
		},
	})
}

// Create handles POST /api/v1/quotations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req := readDocument(r)
	doc, err := h.service.Create(r.Context(), req.customerName, req.quotation)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": doc})
}

// Update handles PUT /api/v1/quotations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "quotation id must be a UUID", err))
		return
	}
	req := readDocument(r)
	doc, err := h.service.Update(r.Context(), id, req.customerName, req.quotation)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

// Get handles GET /api/v1/quotations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "quotation id must be a UUID", err))
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

// List handles GET /api/v1/quotations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20, 100)
	docs, total, err := h.service.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       docs,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// FromLead handles POST /api/v1/quotations/from-lead/{leadID}.
func (h *Handler) FromLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "leadID"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "lead id must be a UUID", err))
		return
	}
	doc, err := h.service.FromLead(r.Context(), id)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": doc})
}
