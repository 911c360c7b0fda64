package accrual

import (
	"context"
	"testing"
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/logger"
	"github.com/litepremium/coin-engine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newEngineFixture(t *testing.T) (*Engine, *testutil.MemoryUnitOfWork, *testutil.StubClock) {
	t.Helper()

	clock := testutil.NewStubClock(baseTime)
	uow := testutil.NewMemoryUnitOfWork()
	engine := NewEngine(uow, clock, logger.NewNoopLogger())
	return engine, uow, clock
}

func seedAccrualUser(t *testing.T, uow *testutil.MemoryUnitOfWork, clock *testutil.StubClock, rate int64) *entity.User {
	t.Helper()

	user, err := entity.NewUser("player@example.com", "abcd1234", 0, clock)
	require.NoError(t, err)
	user.MiningRate = rate
	uow.SeedUser(user)
	return user
}

func seedHolding(t *testing.T, uow *testutil.MemoryUnitOfWork, h *entity.Holding) *entity.Holding {
	t.Helper()
	require.NoError(t, uow.GetHoldingRepository(context.Background()).Create(context.Background(), h))
	return h
}

func TestSettleNoElapsedTime(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 100)

	credited, err := engine.Settle(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, credited)
	assert.Zero(t, user.Balance())
}

func TestSettleCreditsMiningRate(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 100)
	ctx := context.Background()

	clock.Advance(90 * time.Minute)

	credited, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(150), credited)
	assert.Equal(t, int64(150), user.Balance())
	assert.Equal(t, clock.Now(), user.LastAccrualAt)

	// Persisted with a single accrual ledger entry
	stored, err := uow.GetUserRepository(ctx).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), stored.Balance())

	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonAccrual, entries[0].Reason)
	assert.Equal(t, int64(150), entries[0].Amount)
}

func TestSettleIsIdempotent(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 100)
	ctx := context.Background()

	clock.Advance(time.Hour)

	first, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(100), first)

	// Same instant again: nothing more to pay
	second, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, second)

	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSettleCarriesSubCentEarnings(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 1)
	ctx := context.Background()

	clock.Advance(30 * time.Minute)
	credited, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, credited)
	assert.Equal(t, int64(1800), user.AccrualCarry)

	clock.Advance(30 * time.Minute)
	credited, err = engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), credited)
	assert.Zero(t, user.AccrualCarry)
}

func TestSettleExpiresWorkerHolding(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 100)
	user.WorkerLevel = "Digital Worker"
	ctx := context.Background()

	seedHolding(t, uow, &entity.Holding{
		UserID:       user.ID,
		AssetName:    "Digital Worker",
		AssetType:    entity.AssetWorker,
		HourlyReturn: 100,
		Status:       entity.HoldingActive,
		CreatedAt:    baseTime,
		ExpiresAt:    baseTime.Add(time.Hour),
	})

	// Two hours pass; the holding earned for one of them
	clock.Advance(2 * time.Hour)

	credited, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(100), credited)
	assert.Zero(t, user.MiningRate)
	assert.Empty(t, user.WorkerLevel, "expired worker must vacate the slot")

	holdings, err := uow.GetHoldingRepository(ctx).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, entity.HoldingExpired, holdings[0].Status)
	require.NotNil(t, holdings[0].ExpiredAt)

	// Expired exactly once: settling again pays nothing
	clock.Advance(time.Hour)
	credited, err = engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, credited)
}

func TestSettleSegmentsMultipleExpiries(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 300)
	ctx := context.Background()

	seedHolding(t, uow, &entity.Holding{
		UserID:       user.ID,
		AssetName:    "Short Investor",
		AssetType:    entity.AssetInvestor,
		HourlyReturn: 100,
		Status:       entity.HoldingActive,
		CreatedAt:    baseTime,
		ExpiresAt:    baseTime.Add(time.Hour),
	})
	seedHolding(t, uow, &entity.Holding{
		UserID:       user.ID,
		AssetName:    "Long Investor",
		AssetType:    entity.AssetInvestor,
		HourlyReturn: 200,
		Status:       entity.HoldingActive,
		CreatedAt:    baseTime,
		ExpiresAt:    baseTime.Add(2 * time.Hour),
	})

	clock.Advance(3 * time.Hour)

	// Hour 1 at 300, hour 2 at 200, hour 3 at 0
	credited, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(500), credited)
	assert.Zero(t, user.MiningRate)
	assert.Equal(t, int64(500), user.Balance())

	// One aggregate ledger entry for the whole settlement
	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(500), entries[0].Amount)
}

func TestSettleIgnoresNeverExpiringHoldings(t *testing.T) {
	engine, uow, clock := newEngineFixture(t)
	user := seedAccrualUser(t, uow, clock, 100)
	ctx := context.Background()

	seedHolding(t, uow, &entity.Holding{
		UserID:       user.ID,
		AssetName:    "Starter Worker",
		AssetType:    entity.AssetWorker,
		HourlyReturn: 100,
		Status:       entity.HoldingActive,
		CreatedAt:    baseTime,
	})

	clock.Advance(10 * time.Hour)

	credited, err := engine.Settle(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), credited)
	assert.Equal(t, int64(100), user.MiningRate, "holdings without expiry keep earning")
}
