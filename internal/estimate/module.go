// Package estimate provides the estimate interpreter bounded context module.
package estimate

import (
	"marmurfit_voicebot/internal/estimate/handler"
	"marmurfit_voicebot/internal/estimate/service"
	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/platform/validator"
)

// Module is the estimate bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	interpreter *service.Interpreter
}

// NewModule builds the interpreter over an already loaded knowledge base.
func NewModule(kb service.KnowledgeBase, val *validator.Validator) *Module {
	interpreter := service.NewInterpreter(kb)
	return &Module{
		handler:     handler.New(interpreter, val),
		interpreter: interpreter,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "estimate"
}

// Interpreter returns the shared interpreter for the voice flow.
func (m *Module) Interpreter() *service.Interpreter {
	return m.interpreter
}

// RegisterRoutes mounts estimate routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/estimate", m.handler.Estimate)
}

var _ apphttp.Module = (*Module)(nil)
