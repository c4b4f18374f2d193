package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MonitoredSource is an operator-managed watch target: a CRM lead source
// whose assignments the engine monitors. Name must exactly match the CRM's
// source taxonomy string.
type MonitoredSource struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	TimerMinutes int       `db:"timer_minutes"`
	Enabled      bool      `db:"enabled"`
	CreatedAt    time.Time `db:"created_at"`
	CreatedBy    string    `db:"created_by"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CreateParams contains parameters for creating a monitored source.
type CreateParams struct {
	Name         string
	TimerMinutes int
	Enabled      bool
	CreatedBy    string
}

// UpdateParams contains parameters for updating a monitored source.
type UpdateParams struct {
	ID           uuid.UUID
	Name         *string
	TimerMinutes *int
}

// Reader provides read operations for monitored sources.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (MonitoredSource, error)
	List(ctx context.Context) ([]MonitoredSource, error)
	ListEnabled(ctx context.Context) ([]MonitoredSource, error)
}

// Writer provides write operations for monitored sources.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (MonitoredSource, error)
	Update(ctx context.Context, params UpdateParams) (MonitoredSource, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all monitored source operations.
type Repository interface {
	Reader
	Writer
}
