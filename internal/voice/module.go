// Package voice provides the telephony call flow bounded context module.
package voice

import (
	"marmurfit_voicebot/internal/events"
	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/internal/telephony"
	"marmurfit_voicebot/internal/voice/handler"
	"marmurfit_voicebot/internal/voice/service"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"
)

// ModuleConfig combines the config interfaces the call flow needs.
type ModuleConfig interface {
	config.VoiceConfig
	GetLeadsSourceTag() string
}

// Module is the voice bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the flow over the shared interpreter and catalog.
func NewModule(cfg ModuleConfig, interpreter service.Interpreter, catalog service.Catalog, publisher handler.LeadPublisher, bus events.Bus, log *logger.Logger) *Module {
	flow := service.NewFlow(interpreter, catalog, service.Options{
		BaseURL:       cfg.GetPublicBaseURL(),
		MaxReprompts:  cfg.GetVoiceMaxReprompts(),
		HandoffNumber: cfg.GetVoiceHandoffNumber(),
		SourceTag:     cfg.GetLeadsSourceTag(),
	})
	dialects := telephony.NewRegistry(telephony.Speech{
		Language: cfg.GetVoiceLanguage(),
		Voice:    cfg.GetVoiceName(),
	})
	if cfg.GetTwilioAuthToken() == "" {
		log.Warn("TWILIO_AUTH_TOKEN not set; twilio webhook signatures are not verified")
	}

	return &Module{
		handler: handler.New(flow, dialects, publisher, bus, handler.Config{
			TwilioAuthToken: cfg.GetTwilioAuthToken(),
			PublicBaseURL:   cfg.GetPublicBaseURL(),
		}, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "voice"
}

// RegisterRoutes mounts the provider webhooks on the voice group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	calls := ctx.Voice.Group("/:provider", m.handler.ResolveProvider())
	calls.POST("", m.handler.Greeting)
	calls.POST("/collect", m.handler.Collect)
	calls.POST("/final", m.handler.Final)
}

var _ apphttp.Module = (*Module)(nil)
