package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marmurfit_voicebot/internal/estimate/service"
	"marmurfit_voicebot/internal/estimate/transport"
	"marmurfit_voicebot/platform/httpkit"
	"marmurfit_voicebot/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler exposes the interpreter over HTTP for testing prompts without a phone.
type Handler struct {
	interpreter *service.Interpreter
	val         *validator.Validator
}

// New creates a new estimate handler.
func New(interpreter *service.Interpreter, val *validator.Validator) *Handler {
	return &Handler{interpreter: interpreter, val: val}
}

// Estimate interprets a free-text request.
// POST /api/v1/estimate
func (h *Handler) Estimate(c *gin.Context) {
	var req transport.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, ToResponse(h.interpreter.Interpret(req.Text)))
}

// ToResponse maps an interpretation result onto the wire shape.
func ToResponse(r service.Result) transport.EstimateResponse {
	resp := transport.EstimateResponse{
		Mode:               string(r.Mode),
		AreaSquareMeters:   r.AreaSquareMeters,
		WidthCentimeters:   r.WidthCentimeters,
		LengthLinearMeters: r.LengthLinearMeters,
		EstimateRON:        r.Estimate,
		Complete:           r.Complete(),
		Missing:            string(r.Missing()),
	}
	if r.Material != nil {
		name := r.Material.Name
		rate := r.Material.PricePerArea
		resp.Material = &name
		resp.PricePerArea = &rate
	}
	return resp
}
