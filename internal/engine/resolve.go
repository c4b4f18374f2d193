package engine

import (
	"context"
	"fmt"

	assignrepo "leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/events"
	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/config"
)

// ResolveExpired runs one resolution pass over every pending assignment whose
// timer has expired. Failures on one row never block the rest; the row stays
// pending and the next pass picks it up again.
func (e *Engine) ResolveExpired(ctx context.Context) error {
	expired, err := e.store.ListExpiredPending(ctx, e.now())
	if err != nil {
		e.log.DatabaseError("list expired assignments", err)
		return fmt.Errorf("list expired assignments: %w", err)
	}

	for _, row := range expired {
		e.resolveRow(ctx, row)
	}

	return nil
}

// ResolveAssignment settles a single assignment whose deadline task fired.
// Assignments resolved by an earlier pass, or no longer present, are a no-op.
func (e *Engine) ResolveAssignment(ctx context.Context, id int64) error {
	row, err := e.store.GetByID(ctx, id)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		e.log.DatabaseError("load assignment for resolution", err)
		return fmt.Errorf("load assignment %d: %w", id, err)
	}

	if row.Status != assignrepo.StatusPending {
		return nil
	}

	e.resolveRow(ctx, *row)
	return nil
}

// resolveRow settles one expired assignment. Call evidence since the moment of
// assignment wins over escalation; without it the escalation marker and the
// notification each get exactly one attempt before the conditional transition.
func (e *Engine) resolveRow(ctx context.Context, row assignrepo.LeadAssignment) {
	calls, err := e.directory.ListCallsSince(ctx, row.ExternalLeadID, row.AssignedAt)
	if err != nil {
		e.log.DirectoryError("list calls for "+row.ExternalLeadID, err)
		return
	}

	if len(calls) > 0 {
		e.settleCalled(ctx, row, calls)
		return
	}

	e.escalate(ctx, row)
}

func (e *Engine) settleCalled(ctx context.Context, row assignrepo.LeadAssignment, calls []crm.Call) {
	earliest := calls[0].Timestamp
	for _, c := range calls[1:] {
		if c.Timestamp.Before(earliest) {
			earliest = c.Timestamp
		}
	}

	updated, err := e.store.MarkCalled(ctx, row.ID, earliest)
	if err != nil {
		e.log.DatabaseError("mark assignment called", err)
		return
	}
	if !updated {
		e.log.Debug("assignment already resolved", "assignment_id", row.ID)
		return
	}

	e.log.Info("lead called",
		"assignment_id", row.ID,
		"external_lead_id", row.ExternalLeadID,
		"agent_id", row.AgentID,
		"call_detected_at", earliest,
	)

	e.bus.Publish(ctx, events.LeadCalled{
		BaseEvent:      events.NewBaseEvent(),
		AssignmentID:   row.ID,
		ExternalLeadID: row.ExternalLeadID,
		CallDetectedAt: earliest,
	})
}

// escalate applies the configured escalation marker, notifies, and closes the
// row. Marker and notification are best-effort; their failures are logged and
// never keep the row pending, or a broken directory would re-notify forever.
func (e *Engine) escalate(ctx context.Context, row assignrepo.LeadAssignment) {
	if err := e.applyEscalationMarker(ctx, row); err != nil {
		e.log.DirectoryError("apply escalation marker for "+row.ExternalLeadID, err)
	}

	if err := e.bus.PublishSync(ctx, events.LeadEscalated{
		BaseEvent:      events.NewBaseEvent(),
		AssignmentID:   row.ID,
		ExternalLeadID: row.ExternalLeadID,
		LeadName:       row.LeadName,
		LeadPhone:      row.LeadPhone,
		AgentName:      row.AgentName,
		AgentEmail:     row.AgentEmail,
		SourceName:     row.SourceName,
		AssignedAt:     row.AssignedAt,
		TimerMinutes:   row.TimerMinutes(),
	}); err != nil {
		e.log.Warn("escalation notification failed",
			"assignment_id", row.ID,
			"external_lead_id", row.ExternalLeadID,
			"error", err,
		)
	}

	updated, err := e.store.MarkReassigned(ctx, row.ID, e.now())
	if err != nil {
		e.log.DatabaseError("mark assignment reassigned", err)
		return
	}
	if !updated {
		e.log.Debug("assignment already resolved", "assignment_id", row.ID)
		return
	}

	e.log.Info("lead escalated",
		"assignment_id", row.ID,
		"external_lead_id", row.ExternalLeadID,
		"agent_id", row.AgentID,
		"source", row.SourceName,
		"mode", e.escalationMode,
	)
}

func (e *Engine) applyEscalationMarker(ctx context.Context, row assignrepo.LeadAssignment) error {
	if e.escalationMode == config.EscalationModeReassign {
		return e.directory.ClearAssignment(ctx, row.ExternalLeadID, e.returnPoolID)
	}
	return e.directory.AddTag(ctx, row.ExternalLeadID, e.escalationTag)
}
