// Package engine implements the lead accountability core: it observes new
// lead assignments in the external directory, opens a per-lead deadline, and
// resolves each assignment to exactly one terminal outcome — called when call
// evidence appears, reassigned when the timer expires without any.
package engine

import (
	"context"
	"time"

	assignrepo "leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/events"
	srcrepo "leadwatch_backend/internal/sources/repository"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

// AssignmentStore is the engine's view of the assignment table. The terminal
// transitions are conditional on the row still being pending; overlapping
// resolution passes therefore settle each row at most once.
type AssignmentStore interface {
	InsertPending(ctx context.Context, params assignrepo.InsertPendingParams) (*assignrepo.LeadAssignment, bool, error)
	HasPending(ctx context.Context, externalLeadID string) (bool, error)
	GetByID(ctx context.Context, id int64) (*assignrepo.LeadAssignment, error)
	ListExpiredPending(ctx context.Context, now time.Time) ([]assignrepo.LeadAssignment, error)
	MarkCalled(ctx context.Context, id int64, callDetectedAt time.Time) (bool, error)
	MarkReassigned(ctx context.Context, id int64, at time.Time) (bool, error)
}

// ResolutionScheduler enqueues a resolution task to fire when an assignment's
// timer expires. Optional; the periodic sweep resolves expired rows either way.
type ResolutionScheduler interface {
	ScheduleAssignmentResolution(ctx context.Context, assignmentID int64, runAt time.Time) error
}

// SourceRegistry enumerates the operator-managed dynamic watch targets.
type SourceRegistry interface {
	ListEnabled(ctx context.Context) ([]srcrepo.MonitoredSource, error)
}

// Directory is the engine's view of the external lead directory.
type Directory interface {
	ListAssignedLeads(ctx context.Context, sel crm.Selector) ([]crm.Lead, error)
	ListCallsSince(ctx context.Context, externalID string, since time.Time) ([]crm.Call, error)
	AddTag(ctx context.Context, externalID, tag string) error
	ClearAssignment(ctx context.Context, externalID, poolID string) error
}

// Engine orchestrates assignment detection and expiry resolution. The three
// periodic jobs (static pool detection, source detection, resolution) run
// concurrently without mutual exclusion; the only shared state is the
// assignment store and the last-seen map, which carries its own lock.
type Engine struct {
	store     AssignmentStore
	registry  SourceRegistry
	directory Directory
	bus       events.Bus
	log       *logger.Logger

	lastSeen   *lastSeenMap
	resolution ResolutionScheduler
	now        func() time.Time

	staticPoolID   string
	defaultTimer   time.Duration
	escalationMode string
	escalationTag  string
	returnPoolID   string
}

// New creates the engine. The last-seen map starts empty on every process
// start; the pending-row guard in detection absorbs the resulting
// re-observations without opening duplicate timers.
func New(store AssignmentStore, registry SourceRegistry, directory Directory, bus events.Bus, cfg config.EngineConfig, log *logger.Logger) *Engine {
	defaultTimer := time.Duration(cfg.GetDefaultTimerMinutes()) * time.Minute
	if defaultTimer <= 0 {
		defaultTimer = 30 * time.Minute
	}

	return &Engine{
		store:          store,
		registry:       registry,
		directory:      directory,
		bus:            bus,
		log:            log,
		lastSeen:       newLastSeenMap(),
		now:            time.Now,
		staticPoolID:   cfg.GetStaticPoolID(),
		defaultTimer:   defaultTimer,
		escalationMode: cfg.GetEscalationMode(),
		escalationTag:  cfg.GetEscalationTag(),
		returnPoolID:   cfg.GetReturnPoolID(),
	}
}

// SetResolutionScheduler wires the delayed-task scheduler. Must be called
// before the first detection pass if used at all.
func (e *Engine) SetResolutionScheduler(s ResolutionScheduler) {
	e.resolution = s
}
