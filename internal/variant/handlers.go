package variant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-gorden/internal/common"
)

// Handler exposes the product option/variant endpoints.
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

// Routes mounts the variant endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/products/{id}/options", h.Options)
	r.Put("/products/{id}/options", h.Regenerate)
	r.Get("/products/{id}/variants", h.Variants)
}

type optionsRequest struct {
	Options []OptionDefinition `json:"options"`
}

// Regenerate handles PUT /api/v1/products/{id}/options: it stores the edited
// option definitions and replaces the derived variant matrix, preserving
// prices of surviving combinations.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "product id must be a UUID", err))
		return
	}
	var req optionsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_BODY", "request body must be valid JSON", err))
		return
	}
	result, err := h.service.Regenerate(r.Context(), productID, req.Options)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Variants handles GET /api/v1/products/{id}/variants.
func (h *Handler) Variants(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "product id must be a UUID", err))
		return
	}
	variants, err := h.service.List(r.Context(), productID)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": variants})
}

// Options handles GET /api/v1/products/{id}/options.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteAppError(w, common.BadRequest("INVALID_ID", "product id must be a UUID", err))
		return
	}
	options, err := h.service.Options(r.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			common.WriteAppError(w, common.NotFound("product not found"))
			return
		}
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"options": options}})
}
