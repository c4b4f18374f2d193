// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadwatch_backend/platform/events"
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
// Accountability Engine Events
// =============================================================================

// AssignmentOpened is published when detection observes a new lead assignment
// and opens a timer for it.
type AssignmentOpened struct {
	BaseEvent
	AssignmentID   int64     `json:"assignmentId"`
	ExternalLeadID string    `json:"externalLeadId"`
	LeadName       string    `json:"leadName"`
	AgentID        string    `json:"agentId"`
	AgentName      string    `json:"agentName"`
	SourceName     string    `json:"sourceName"`
	AssignedAt     time.Time `json:"assignedAt"`
	TimerExpiresAt time.Time `json:"timerExpiresAt"`
}

func (e AssignmentOpened) EventName() string { return "engine.assignment.opened" }

// LeadCalled is published when resolution finds call evidence before the
// timer window closed without one.
type LeadCalled struct {
	BaseEvent
	AssignmentID   int64     `json:"assignmentId"`
	ExternalLeadID string    `json:"externalLeadId"`
	CallDetectedAt time.Time `json:"callDetectedAt"`
}

func (e LeadCalled) EventName() string { return "engine.lead.called" }

// LeadEscalated is published when a timer expires with no call evidence.
// The notification module subscribes to this event; delivery is best-effort.
type LeadEscalated struct {
	BaseEvent
	AssignmentID   int64     `json:"assignmentId"`
	ExternalLeadID string    `json:"externalLeadId"`
	LeadName       string    `json:"leadName"`
	LeadPhone      string    `json:"leadPhone"`
	AgentName      string    `json:"agentName"`
	AgentEmail     string    `json:"agentEmail"`
	SourceName     string    `json:"sourceName"`
	AssignedAt     time.Time `json:"assignedAt"`
	TimerMinutes   int       `json:"timerMinutes"`
}

func (e LeadEscalated) EventName() string { return "engine.lead.escalated" }
