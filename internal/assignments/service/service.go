// Package service provides the read-side service for assignment history.
// Only the engine's detection and resolution routines mutate assignments;
// this service exists for the administrative interface.
package service

import (
	"context"

	"leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/logger"
)

// Service exposes assignment history reads.
type Service struct {
	store repository.Store
	log   *logger.Logger
}

// New creates a new assignments service.
func New(store repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// List returns assignment history, newest first.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]repository.LeadAssignment, error) {
	if filter.Status != nil {
		switch *filter.Status {
		case repository.StatusPending, repository.StatusCalled, repository.StatusReassigned:
		default:
			return nil, apperr.Validation("unknown status filter")
		}
	}

	rows, err := s.store.List(ctx, filter)
	if err != nil {
		s.log.DatabaseError("assignments.list", err)
		return nil, apperr.Internal("failed to list assignments")
	}

	return rows, nil
}

// GetByID returns a single assignment.
func (s *Service) GetByID(ctx context.Context, id int64) (*repository.LeadAssignment, error) {
	assignment, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		s.log.DatabaseError("assignments.get", err)
		return nil, apperr.Internal("failed to get assignment")
	}

	return assignment, nil
}

// Stats returns aggregate counts by status.
func (s *Service) Stats(ctx context.Context) (repository.StatusCounts, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		s.log.DatabaseError("assignments.stats", err)
		return repository.StatusCounts{}, apperr.Internal("failed to aggregate assignments")
	}

	return counts, nil
}
