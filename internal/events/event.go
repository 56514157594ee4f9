// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"marmurfit_voicebot/internal/leads/domain"
	"marmurfit_voicebot/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Voice Domain Events
// =============================================================================

// LeadCaptured is published when a call produced a complete estimate.
type LeadCaptured struct {
	BaseEvent
	Lead domain.Lead `json:"lead"`
}

func (e LeadCaptured) EventName() string { return "voice.lead.captured" }

// SummaryRequested is published when the caller said yes to a WhatsApp summary.
type SummaryRequested struct {
	BaseEvent
	Provider    string `json:"provider"`
	CallID      string `json:"callId"`
	CallerPhone string `json:"callerPhone"`
	Summary     string `json:"summary"`
}

func (e SummaryRequested) EventName() string { return "voice.summary.requested" }
