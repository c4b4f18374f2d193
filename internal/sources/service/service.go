// Package service provides source registry management. Operators decide which
// CRM sources are watched and how long each source's timer runs; the engine
// only ever reads the enabled set.
package service

import (
	"context"
	"strings"

	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/sources/repository"
	"leadwatch_backend/internal/sources/transport"
	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/logger"

	"github.com/google/uuid"
)

// DefaultTimerMinutes applies when a source is created without an explicit duration.
const DefaultTimerMinutes = 30

// DirectorySourceLister lists the CRM source taxonomy.
type DirectorySourceLister interface {
	ListSources(ctx context.Context) ([]crm.Source, error)
}

// Service manages monitored sources.
type Service struct {
	repo      repository.Repository
	directory DirectorySourceLister
	log       *logger.Logger
}

// New creates a new sources service. directory may be nil when no CRM proxy
// is wired (the listing endpoint then reports upstream unavailability).
func New(repo repository.Repository, directory DirectorySourceLister, log *logger.Logger) *Service {
	return &Service{repo: repo, directory: directory, log: log}
}

// Create registers a new monitored source.
func (s *Service) Create(ctx context.Context, req transport.CreateSourceRequest, createdBy string) (repository.MonitoredSource, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return repository.MonitoredSource{}, apperr.Validation("source name is required")
	}

	timerMinutes := DefaultTimerMinutes
	if req.TimerMinutes != nil {
		timerMinutes = *req.TimerMinutes
	}
	if timerMinutes < 1 || timerMinutes > 120 {
		return repository.MonitoredSource{}, apperr.Validation("timer must be within [1,120] minutes")
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	source, err := s.repo.Create(ctx, repository.CreateParams{
		Name:         name,
		TimerMinutes: timerMinutes,
		Enabled:      enabled,
		CreatedBy:    createdBy,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return repository.MonitoredSource{}, err
		}
		s.log.DatabaseError("sources.create", err)
		return repository.MonitoredSource{}, apperr.Internal("failed to create monitored source")
	}

	s.log.Info("monitored source created",
		"source", source.Name,
		"timer_minutes", source.TimerMinutes,
		"created_by", createdBy,
	)
	return source, nil
}

// Update modifies an existing monitored source.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateSourceRequest) (repository.MonitoredSource, error) {
	params := repository.UpdateParams{ID: id, TimerMinutes: req.TimerMinutes}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return repository.MonitoredSource{}, apperr.Validation("source name cannot be empty")
		}
		params.Name = &name
	}
	if req.TimerMinutes != nil && (*req.TimerMinutes < 1 || *req.TimerMinutes > 120) {
		return repository.MonitoredSource{}, apperr.Validation("timer must be within [1,120] minutes")
	}

	source, err := s.repo.Update(ctx, params)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) || apperr.Is(err, apperr.KindConflict) {
			return repository.MonitoredSource{}, err
		}
		s.log.DatabaseError("sources.update", err)
		return repository.MonitoredSource{}, apperr.Internal("failed to update monitored source")
	}

	return source, nil
}

// GetByID returns a single monitored source.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.MonitoredSource, error) {
	source, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.MonitoredSource{}, err
		}
		s.log.DatabaseError("sources.get", err)
		return repository.MonitoredSource{}, apperr.Internal("failed to get monitored source")
	}
	return source, nil
}

// List returns all monitored sources.
func (s *Service) List(ctx context.Context) ([]repository.MonitoredSource, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.log.DatabaseError("sources.list", err)
		return nil, apperr.Internal("failed to list monitored sources")
	}
	return rows, nil
}

// SetEnabled pauses or resumes a monitored source.
func (s *Service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	if err := s.repo.SetEnabled(ctx, id, enabled); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		s.log.DatabaseError("sources.toggle", err)
		return apperr.Internal("failed to toggle monitored source")
	}
	return nil
}

// Delete removes a monitored source.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		s.log.DatabaseError("sources.delete", err)
		return apperr.Internal("failed to delete monitored source")
	}
	return nil
}

// ListDirectorySources proxies the CRM taxonomy for operator convenience.
func (s *Service) ListDirectorySources(ctx context.Context) ([]crm.Source, error) {
	if s.directory == nil {
		return nil, apperr.Upstream("lead directory not configured", nil)
	}
	return s.directory.ListSources(ctx)
}
