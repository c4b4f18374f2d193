package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadwatch_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assignmentNotFoundMsg = "assignment not found"

const assignmentColumns = `id, external_lead_id, lead_name, lead_phone, agent_id, agent_name,
	agent_email, source_name, assigned_at, timer_expires_at, status,
	call_detected_at, notified_at, escalated_at, created_at, updated_at`

// Repository provides database operations for lead assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new assignments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertPending opens a timer for a newly observed assignment. The partial
// unique index on pending rows makes this a no-op when a timer is already
// open for the lead; the second return value reports whether a row was
// actually created.
func (r *Repository) InsertPending(ctx context.Context, params InsertPendingParams) (*LeadAssignment, bool, error) {
	query := `
		INSERT INTO lead_assignments (
			external_lead_id, lead_name, lead_phone, agent_id, agent_name,
			agent_email, source_name, assigned_at, timer_expires_at, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending'
		)
		ON CONFLICT (external_lead_id) WHERE status = 'pending' DO NOTHING
		RETURNING ` + assignmentColumns

	row := r.pool.QueryRow(ctx, query,
		params.ExternalLeadID, params.LeadName, params.LeadPhone, params.AgentID,
		params.AgentName, params.AgentEmail, params.SourceName,
		params.AssignedAt, params.TimerExpiresAt,
	)

	assignment, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A pending row already exists for this lead.
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert pending assignment: %w", err)
	}

	return assignment, true, nil
}

// HasPending reports whether the lead already has an open timer.
func (r *Repository) HasPending(ctx context.Context, externalLeadID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM lead_assignments
			WHERE external_lead_id = $1 AND status = 'pending'
		)`,
		externalLeadID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending assignment: %w", err)
	}
	return exists, nil
}

// ListExpiredPending returns every pending assignment whose deadline has
// passed. Rows are independent; no ordering is guaranteed to callers.
func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time) ([]LeadAssignment, error) {
	query := `SELECT ` + assignmentColumns + `
		FROM lead_assignments
		WHERE status = 'pending' AND timer_expires_at < $1`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// MarkCalled transitions a pending assignment to called. The update is
// conditional on the row still being pending, so concurrent resolution
// passes settle each row at most once; false means another pass won.
func (r *Repository) MarkCalled(ctx context.Context, id int64, callDetectedAt time.Time) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE lead_assignments
		 SET status = 'called', call_detected_at = $2, updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id, callDetectedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark assignment called: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkReassigned transitions a pending assignment to reassigned, recording
// when the notification and escalation were attempted. Same conditional
// discipline as MarkCalled.
func (r *Repository) MarkReassigned(ctx context.Context, id int64, at time.Time) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE lead_assignments
		 SET status = 'reassigned', notified_at = $2, escalated_at = $2, updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id, at,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark assignment reassigned: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByID retrieves an assignment by its internal id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*LeadAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM lead_assignments WHERE id = $1`

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(assignmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// List returns assignment history for the admin interface, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]LeadAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM lead_assignments WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.SourceName != nil {
		args = append(args, *filter.SourceName)
		query += fmt.Sprintf(" AND source_name = $%d", len(args))
	}

	limit := filter.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// CountByStatus returns aggregate counts for the admin dashboard.
func (r *Repository) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'called'),
			COUNT(*) FILTER (WHERE status = 'reassigned')
		 FROM lead_assignments`,
	).Scan(&counts.Pending, &counts.Called, &counts.Reassigned)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count assignments: %w", err)
	}

	return counts, nil
}

func scanAssignment(row pgx.Row) (*LeadAssignment, error) {
	var a LeadAssignment
	var status string
	err := row.Scan(
		&a.ID, &a.ExternalLeadID, &a.LeadName, &a.LeadPhone, &a.AgentID,
		&a.AgentName, &a.AgentEmail, &a.SourceName, &a.AssignedAt,
		&a.TimerExpiresAt, &status, &a.CallDetectedAt, &a.NotifiedAt,
		&a.EscalatedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]LeadAssignment, error) {
	var results []LeadAssignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		results = append(results, *assignment)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}

var _ Store = (*Repository)(nil)
