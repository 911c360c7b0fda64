package settings

import (
	"context"
	"testing"
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/logger"
	"github.com/litepremium/coin-engine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSettingsFixture(t *testing.T) (*Service, *testutil.MemoryUnitOfWork, *testutil.StubClock) {
	t.Helper()

	clock := testutil.NewStubClock(baseTime)
	uow := testutil.NewMemoryUnitOfWork()
	service := NewService(uow, clock, logger.NewNoopLogger())

	uow.SeedSettings(entity.DefaultSettings(baseTime))
	return service, uow, clock
}

func TestGetSettings(t *testing.T) {
	service, _, _ := newSettingsFixture(t)

	settings, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(720000), settings.MinWithdrawal)
	assert.Equal(t, uint64(1), settings.Version)
}

func TestUpdateField(t *testing.T) {
	service, uow, clock := newSettingsFixture(t)
	ctx := context.Background()

	clock.Advance(time.Minute)

	updated, err := service.UpdateField(ctx, "min_withdrawal", "5000")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), updated.MinWithdrawal)
	assert.Equal(t, uint64(2), updated.Version)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)

	// The write is persisted, not just returned
	stored, err := uow.GetSettingsRepository(ctx).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), stored.MinWithdrawal)
	assert.Equal(t, uint64(2), stored.Version)
}

func TestUpdateFieldValidation(t *testing.T) {
	service, uow, _ := newSettingsFixture(t)
	ctx := context.Background()

	_, err := service.UpdateField(ctx, "jackpot_odds", "1")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = service.UpdateField(ctx, "exchange_rate", "0")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	// Failed updates leave the version untouched
	stored, err := uow.GetSettingsRepository(ctx).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.Version)
}

func TestUpdateFieldVersionConflict(t *testing.T) {
	service, uow, clock := newSettingsFixture(t)
	ctx := context.Background()

	current, err := service.Get(ctx)
	require.NoError(t, err)

	// Another writer bumps the version between our read and write
	racer := *current
	require.NoError(t, racer.UpdateField("min_deposit", "200", clock.Now()))
	require.NoError(t, uow.GetSettingsRepository(ctx).Save(ctx, &racer, current.Version))

	staleVersion := current.Version
	require.NoError(t, current.UpdateField("min_deposit", "300", clock.Now()))
	err = uow.GetSettingsRepository(ctx).Save(ctx, current, staleVersion)
	assert.ErrorIs(t, err, errs.ErrSettingsConflict)

	// The racer's write survives
	stored, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), stored.MinDeposit)
	assert.Equal(t, uint64(2), stored.Version)
}
