package engine

import (
	"context"
	"fmt"
	"time"

	assignrepo "leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/events"
)

// DetectStaticPool runs one detection pass over the statically configured
// holding pool. A no-op when no pool is configured.
func (e *Engine) DetectStaticPool(ctx context.Context) error {
	if e.staticPoolID == "" {
		e.log.Debug("static pool detection skipped, no pool configured")
		return nil
	}

	sel := crm.Selector{PoolID: e.staticPoolID}
	return e.detectTarget(ctx, sel, "pool:"+e.staticPoolID, e.defaultTimer)
}

// DetectSources runs one detection pass over every enabled monitored source.
// The first failing target ends the cycle; the next scheduled run starts over.
func (e *Engine) DetectSources(ctx context.Context) error {
	sources, err := e.registry.ListEnabled(ctx)
	if err != nil {
		e.log.DatabaseError("list enabled sources", err)
		return fmt.Errorf("list enabled sources: %w", err)
	}

	for _, src := range sources {
		sel := crm.Selector{Source: src.Name}
		timer := time.Duration(src.TimerMinutes) * time.Minute
		if timer <= 0 {
			timer = e.defaultTimer
		}
		if err := e.detectTarget(ctx, sel, src.Name, timer); err != nil {
			return err
		}
	}

	return nil
}

// detectTarget polls one watch target and opens a pending assignment for every
// lead whose assignee is new or changed since the previous poll. The last-seen
// map is advanced for every assigned lead, including ones that already have a
// pending row.
func (e *Engine) detectTarget(ctx context.Context, sel crm.Selector, sourceName string, timer time.Duration) error {
	leads, err := e.directory.ListAssignedLeads(ctx, sel)
	if err != nil {
		e.log.DirectoryError("list assigned leads "+sel.Label(), err)
		return fmt.Errorf("list assigned leads %s: %w", sel.Label(), err)
	}

	for _, lead := range leads {
		if lead.Assignee == nil || lead.Assignee.ID == "" {
			continue
		}

		if e.lastSeen.Changed(lead.ExternalID, lead.Assignee.ID) {
			if err := e.openAssignment(ctx, lead, sourceName, timer); err != nil {
				return err
			}
		}
		e.lastSeen.Observe(lead.ExternalID, lead.Assignee.ID)
	}

	return nil
}

// openAssignment starts a timer for a freshly observed assignment unless the
// lead already has a pending row. The partial unique index backs the same
// guarantee at the database level, so a racing pass loses the insert silently.
func (e *Engine) openAssignment(ctx context.Context, lead crm.Lead, sourceName string, timer time.Duration) error {
	pending, err := e.store.HasPending(ctx, lead.ExternalID)
	if err != nil {
		e.log.DatabaseError("check pending assignment", err)
		return fmt.Errorf("check pending assignment: %w", err)
	}
	if pending {
		return nil
	}

	now := e.now()
	assignment, inserted, err := e.store.InsertPending(ctx, assignrepo.InsertPendingParams{
		ExternalLeadID: lead.ExternalID,
		LeadName:       lead.Name,
		LeadPhone:      lead.Phone,
		AgentID:        lead.Assignee.ID,
		AgentName:      lead.Assignee.Name,
		AgentEmail:     lead.Assignee.Email,
		SourceName:     sourceName,
		AssignedAt:     now,
		TimerExpiresAt: now.Add(timer),
	})
	if err != nil {
		e.log.DatabaseError("insert pending assignment", err)
		return fmt.Errorf("insert pending assignment: %w", err)
	}
	if !inserted {
		return nil
	}

	e.log.Info("assignment opened",
		"assignment_id", assignment.ID,
		"external_lead_id", assignment.ExternalLeadID,
		"agent_id", assignment.AgentID,
		"source", sourceName,
		"timer_expires_at", assignment.TimerExpiresAt,
	)

	e.bus.Publish(ctx, events.AssignmentOpened{
		BaseEvent:      events.NewBaseEvent(),
		AssignmentID:   assignment.ID,
		ExternalLeadID: assignment.ExternalLeadID,
		LeadName:       assignment.LeadName,
		AgentID:        assignment.AgentID,
		AgentName:      assignment.AgentName,
		SourceName:     assignment.SourceName,
		AssignedAt:     assignment.AssignedAt,
		TimerExpiresAt: assignment.TimerExpiresAt,
	})

	if e.resolution != nil {
		if err := e.resolution.ScheduleAssignmentResolution(ctx, assignment.ID, assignment.TimerExpiresAt); err != nil {
			e.log.Warn("failed to schedule resolution task",
				"assignment_id", assignment.ID,
				"error", err,
			)
		}
	}

	return nil
}
