package repository

import (
	"context"
	"time"
)

// Status is the lifecycle state of a lead assignment.
// pending is the only non-terminal state; called and reassigned are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCalled     Status = "called"
	StatusReassigned Status = "reassigned"
)

// LeadAssignment is one observed assignment cycle of a lead to an agent.
// Agent and lead fields are snapshots taken when the assignment was first
// observed; they are never re-fetched. Rows are never deleted.
type LeadAssignment struct {
	ID             int64      `db:"id"`
	ExternalLeadID string     `db:"external_lead_id"`
	LeadName       string     `db:"lead_name"`
	LeadPhone      string     `db:"lead_phone"`
	AgentID        string     `db:"agent_id"`
	AgentName      string     `db:"agent_name"`
	AgentEmail     string     `db:"agent_email"`
	SourceName     string     `db:"source_name"`
	AssignedAt     time.Time  `db:"assigned_at"`
	TimerExpiresAt time.Time  `db:"timer_expires_at"`
	Status         Status     `db:"status"`
	CallDetectedAt *time.Time `db:"call_detected_at"`
	NotifiedAt     *time.Time `db:"notified_at"`
	EscalatedAt    *time.Time `db:"escalated_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// TimerMinutes returns the configured window length for this assignment.
func (a LeadAssignment) TimerMinutes() int {
	return int(a.TimerExpiresAt.Sub(a.AssignedAt) / time.Minute)
}

// InsertPendingParams contains everything needed to open a timer.
type InsertPendingParams struct {
	ExternalLeadID string
	LeadName       string
	LeadPhone      string
	AgentID        string
	AgentName      string
	AgentEmail     string
	SourceName     string
	AssignedAt     time.Time
	TimerExpiresAt time.Time
}

// ListFilter narrows the admin history listing.
type ListFilter struct {
	Status     *Status
	SourceName *string
	Limit      int
	Offset     int
}

// StatusCounts is the aggregate view exposed to the admin interface.
type StatusCounts struct {
	Pending    int64 `json:"pending"`
	Called     int64 `json:"called"`
	Reassigned int64 `json:"reassigned"`
}

// Store combines all lead assignment operations.
//
// MarkCalled and MarkReassigned are conditional transitions: they only touch
// rows still in pending and report whether a row changed. Overlapping
// resolution passes therefore settle each row at most once.
type Store interface {
	InsertPending(ctx context.Context, params InsertPendingParams) (*LeadAssignment, bool, error)
	HasPending(ctx context.Context, externalLeadID string) (bool, error)
	ListExpiredPending(ctx context.Context, now time.Time) ([]LeadAssignment, error)
	MarkCalled(ctx context.Context, id int64, callDetectedAt time.Time) (bool, error)
	MarkReassigned(ctx context.Context, id int64, at time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*LeadAssignment, error)
	List(ctx context.Context, filter ListFilter) ([]LeadAssignment, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}
