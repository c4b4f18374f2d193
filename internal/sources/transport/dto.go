package transport

import (
	"time"

	"github.com/google/uuid"

	"leadwatch_backend/internal/sources/repository"
)

// CreateSourceRequest contains data for registering a new monitored source.
// Name must exactly match the CRM's source taxonomy string.
type CreateSourceRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	TimerMinutes *int   `json:"timerMinutes,omitempty" validate:"omitempty,min=1,max=120"`
	Enabled      *bool  `json:"enabled,omitempty"`
}

// UpdateSourceRequest contains data for updating an existing monitored source.
type UpdateSourceRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	TimerMinutes *int    `json:"timerMinutes,omitempty" validate:"omitempty,min=1,max=120"`
}

// SourceResponse represents a monitored source in API responses.
type SourceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TimerMinutes int       `json:"timerMinutes"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// SourceListResponse wraps a list of monitored sources.
type SourceListResponse struct {
	Items []SourceResponse `json:"items"`
	Total int              `json:"total"`
}

// DirectorySourceResponse is a CRM taxonomy entry, proxied so operators can
// pick valid source names.
type DirectorySourceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ToSourceResponse maps a repository row to an API response.
func ToSourceResponse(s repository.MonitoredSource) SourceResponse {
	return SourceResponse{
		ID:           s.ID,
		Name:         s.Name,
		TimerMinutes: s.TimerMinutes,
		Enabled:      s.Enabled,
		CreatedAt:    s.CreatedAt,
		CreatedBy:    s.CreatedBy,
	}
}

// ToSourceListResponse maps a slice of rows.
func ToSourceListResponse(rows []repository.MonitoredSource) SourceListResponse {
	items := make([]SourceResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToSourceResponse(row))
	}
	return SourceListResponse{Items: items, Total: len(items)}
}
