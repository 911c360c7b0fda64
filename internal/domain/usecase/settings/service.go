package settings

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
)

// Service implements reads and versioned writes of the settings singleton
type Service struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a settings service
func NewService(uow persistence.UnitOfWork, timeProvider coreport.TimeProvider, logger coreport.Logger) *Service {
	return &Service{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Get returns the current settings
func (s *Service) Get(ctx context.Context) (*entity.Settings, error) {
	return s.uow.GetSettingsRepository(ctx).Get(ctx)
}

// UpdateField changes one named setting. The write carries the version the
// read saw, so two concurrent edits can't silently overwrite each other.
func (s *Service) UpdateField(ctx context.Context, field, value string) (*entity.Settings, error) {
	repo := s.uow.GetSettingsRepository(ctx)

	current, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	expectedVersion := current.Version
	if err := current.UpdateField(field, value, s.timeProvider.Now()); err != nil {
		return nil, err
	}

	if err := repo.Save(ctx, current, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Settings updated", map[string]any{
		"field":   field,
		"version": current.Version,
	})
	return current, nil
}
