package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marmurfit_voicebot/internal/catalog/service"
	"marmurfit_voicebot/internal/catalog/transport"
	"marmurfit_voicebot/platform/apperr"
	"marmurfit_voicebot/platform/httpkit"
	"marmurfit_voicebot/platform/validator"
)

const currencyRON = "RON"

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	catalog *service.Catalog
	val     *validator.Validator
}

// New creates a new catalog handler.
func New(catalog *service.Catalog, val *validator.Validator) *Handler {
	return &Handler{catalog: catalog, val: val}
}

// ListMaterials returns all materials.
// GET /api/v1/catalog
func (h *Handler) ListMaterials(c *gin.Context) {
	materials := h.catalog.Materials()
	items := make([]transport.MaterialResponse, len(materials))
	for i, m := range materials {
		items[i] = transport.MaterialResponse{Name: m.Name, PricePerArea: m.PricePerArea}
	}
	httpkit.OK(c, transport.MaterialListResponse{Items: items, Currency: currencyRON})
}

// GetPrice returns the rate for one exact material name.
// GET /api/v1/catalog/price?material=
func (h *Handler) GetPrice(c *gin.Context) {
	var req transport.PriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, ok := h.catalog.Lookup(req.Material)
	if !ok {
		httpkit.HandleError(c, apperr.NotFound("material not found"))
		return
	}
	httpkit.OK(c, transport.MaterialResponse{Name: m.Name, PricePerArea: m.PricePerArea})
}
