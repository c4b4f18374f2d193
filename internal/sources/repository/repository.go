package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadwatch_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sourceNotFoundMsg     = "monitored source not found"
	sourceConflictMsg     = "a source with this name is already monitored"
	uniqueViolationPgCode = "23505"
)

const sourceColumns = `id, name, timer_minutes, enabled, created_at, created_by, updated_at`

// PgRepository provides database operations for monitored sources.
type PgRepository struct {
	pool *pgxpool.Pool
}

// New creates a new monitored sources repository.
func New(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Create inserts a new monitored source.
func (r *PgRepository) Create(ctx context.Context, params CreateParams) (MonitoredSource, error) {
	query := `
		INSERT INTO monitored_sources (id, name, timer_minutes, enabled, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + sourceColumns

	source, err := scanSource(r.pool.QueryRow(ctx, query,
		uuid.New(), params.Name, params.TimerMinutes, params.Enabled, params.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return MonitoredSource{}, apperr.Conflict(sourceConflictMsg)
		}
		return MonitoredSource{}, fmt.Errorf("failed to create monitored source: %w", err)
	}

	return source, nil
}

// GetByID retrieves a monitored source by its ID.
func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (MonitoredSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM monitored_sources WHERE id = $1`

	source, err := scanSource(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MonitoredSource{}, apperr.NotFound(sourceNotFoundMsg)
		}
		return MonitoredSource{}, fmt.Errorf("failed to get monitored source: %w", err)
	}

	return source, nil
}

// List retrieves all monitored sources, enabled or not.
func (r *PgRepository) List(ctx context.Context) ([]MonitoredSource, error) {
	return r.list(ctx, `SELECT `+sourceColumns+` FROM monitored_sources ORDER BY name`)
}

// ListEnabled retrieves the sources the detection routine should watch.
func (r *PgRepository) ListEnabled(ctx context.Context) ([]MonitoredSource, error) {
	return r.list(ctx, `SELECT `+sourceColumns+` FROM monitored_sources WHERE enabled ORDER BY name`)
}

// Update modifies name and/or timer duration of an existing source.
func (r *PgRepository) Update(ctx context.Context, params UpdateParams) (MonitoredSource, error) {
	query := `
		UPDATE monitored_sources SET
			name = COALESCE($2, name),
			timer_minutes = COALESCE($3, timer_minutes),
			updated_at = $4
		WHERE id = $1
		RETURNING ` + sourceColumns

	source, err := scanSource(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.TimerMinutes, time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MonitoredSource{}, apperr.NotFound(sourceNotFoundMsg)
		}
		if isUniqueViolation(err) {
			return MonitoredSource{}, apperr.Conflict(sourceConflictMsg)
		}
		return MonitoredSource{}, fmt.Errorf("failed to update monitored source: %w", err)
	}

	return source, nil
}

// SetEnabled pauses or resumes monitoring of a source. Paused sources are
// skipped by detection, not deleted.
func (r *PgRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE monitored_sources SET enabled = $2, updated_at = $3 WHERE id = $1`,
		id, enabled, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to toggle monitored source: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(sourceNotFoundMsg)
	}

	return nil
}

// Delete removes a monitored source. Assignment rows created while the
// source was watched are kept for audit.
func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM monitored_sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete monitored source: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(sourceNotFoundMsg)
	}

	return nil
}

func (r *PgRepository) list(ctx context.Context, query string) ([]MonitoredSource, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored sources: %w", err)
	}
	defer rows.Close()

	var results []MonitoredSource
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitored source: %w", err)
		}
		results = append(results, source)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return results, nil
}

func scanSource(row pgx.Row) (MonitoredSource, error) {
	var s MonitoredSource
	err := row.Scan(&s.ID, &s.Name, &s.TimerMinutes, &s.Enabled, &s.CreatedAt, &s.CreatedBy, &s.UpdatedAt)
	return s, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationPgCode
}

var _ Repository = (*PgRepository)(nil)
