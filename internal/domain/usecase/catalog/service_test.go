package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/domain/usecase/accrual"
	"github.com/litepremium/coin-engine/internal/domain/usecase/ledger"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/logger"
	"github.com/litepremium/coin-engine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newCatalogFixture(t *testing.T) (*Service, *testutil.MemoryUnitOfWork, *testutil.StubClock) {
	t.Helper()

	clock := testutil.NewStubClock(baseTime)
	uow := testutil.NewMemoryUnitOfWork()
	noop := logger.NewNoopLogger()

	serializer := ledger.NewUserSerializer(0, noop)
	t.Cleanup(serializer.Shutdown)

	store := ledger.NewStore(uow, serializer, clock, noop)
	engine := accrual.NewEngine(uow, clock, noop)
	service := NewService(uow, store, engine, clock, noop)
	return service, uow, clock
}

func seedBuyer(t *testing.T, uow *testutil.MemoryUnitOfWork, clock *testutil.StubClock, email, code string, balance int64) uint64 {
	t.Helper()

	user, err := entity.NewUser(email, code, balance, clock)
	require.NoError(t, err)
	return uow.SeedUser(user)
}

func workerAsset(name string, price, rate int64) *entity.Asset {
	return &entity.Asset{Name: name, Type: entity.AssetWorker, Price: price, Rate: rate}
}

func investorAsset(name string, price, monthlyProfit int64, stock uint32, days int) *entity.Asset {
	return &entity.Asset{
		Name:          name,
		Type:          entity.AssetInvestor,
		Price:         price,
		MonthlyProfit: monthlyProfit,
		StockLimit:    stock,
		LifecycleDays: days,
	}
}

func TestPurchaseWorkerReplacesPreviousWorker(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 1000000)
	starterID := uow.SeedAsset(workerAsset("Starter Worker", 0, 10))
	digitalID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))

	first, err := service.Purchase(ctx, userID, starterID)
	require.NoError(t, err)
	assert.Equal(t, "0.10", first.MiningRate)

	second, err := service.Purchase(ctx, userID, digitalID)
	require.NoError(t, err)
	assert.Equal(t, "1.00", second.MiningRate, "new worker replaces, not adds")
	assert.Equal(t, "5000.00", second.Balance)

	user, err := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Digital Worker", user.WorkerLevel)
	assert.Equal(t, int64(100), user.MiningRate)

	// The starter holding is retired so the rate isn't subtracted again later
	holdings, err := uow.GetHoldingRepository(ctx).ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	statusByName := map[string]entity.HoldingStatus{}
	for _, h := range holdings {
		statusByName[h.AssetName] = h.Status
	}
	assert.Equal(t, entity.HoldingExpired, statusByName["Starter Worker"])
	assert.Equal(t, entity.HoldingActive, statusByName["Digital Worker"])
}

func TestPurchaseInvestorStacks(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 20000000)
	workerID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))
	investorID := uow.SeedAsset(investorAsset("Premium Investor", 5000000, 1800000, 0, 30))

	_, err := service.Purchase(ctx, userID, workerID)
	require.NoError(t, err)

	result, err := service.Purchase(ctx, userID, investorID)
	require.NoError(t, err)
	assert.Equal(t, "26.00", result.MiningRate, "investor adds 25.00 on top of the worker")

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, "Digital Worker", user.WorkerLevel, "investor purchase leaves the worker slot alone")
	assert.Equal(t, baseTime.Add(30*24*time.Hour), result.Holding.ExpiresAt)

	// Second investor stacks again
	result, err = service.Purchase(ctx, userID, investorID)
	require.NoError(t, err)
	assert.Equal(t, "51.00", result.MiningRate)
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 499999)
	assetID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))

	_, err := service.Purchase(ctx, userID, assetID)
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(499999), user.Balance())

	holdings, _ := uow.GetHoldingRepository(ctx).ListByUser(ctx, userID)
	assert.Empty(t, holdings)

	asset, _ := uow.GetAssetRepository(ctx).GetByID(ctx, assetID)
	assert.Zero(t, asset.UnitsSold, "failed purchase must not consume stock")
}

func TestPurchaseSoldOut(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 20000000)
	asset := investorAsset("Premium Investor", 5000000, 1800000, 1, 30)
	asset.UnitsSold = 1
	assetID := uow.SeedAsset(asset)

	_, err := service.Purchase(ctx, userID, assetID)
	assert.ErrorIs(t, err, errs.ErrSoldOut)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(20000000), user.Balance())
}

func TestPurchaseConcurrentLastUnit(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	aliceID := seedBuyer(t, uow, clock, "alice@b.com", "code0001", 20000000)
	bobID := seedBuyer(t, uow, clock, "bob@b.com", "code0002", 20000000)
	assetID := uow.SeedAsset(investorAsset("Premium Investor", 5000000, 1800000, 1, 30))

	results := make(map[uint64]error, 2)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, userID := range []uint64{aliceID, bobID} {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_, err := service.Purchase(ctx, id, assetID)
			mu.Lock()
			results[id] = err
			mu.Unlock()
		}(userID)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, errs.ErrSoldOut)
			losers++
		}
	}
	assert.Equal(t, 1, winners, "exactly one buyer gets the last unit")
	assert.Equal(t, 1, losers)

	asset, err := uow.GetAssetRepository(ctx).GetByID(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), asset.UnitsSold)

	// The loser's balance is untouched
	for userID, purchaseErr := range results {
		user, err := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		require.NoError(t, err)
		if purchaseErr != nil {
			assert.Equal(t, int64(20000000), user.Balance())
		} else {
			assert.Equal(t, int64(15000000), user.Balance())
		}
	}
}

func TestPurchaseConcurrentSameUserDoubleSpend(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	// Two purchases together cost more than the balance covers
	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 500000)
	assetID := uow.SeedAsset(investorAsset("Premium Investor", 300000, 1800000, 0, 30))

	errors := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errors {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := service.Purchase(ctx, userID, assetID)
			errors[slot] = err
		}(i)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range errors {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
			losers++
		}
	}
	assert.Equal(t, 1, winners, "only one purchase fits in the balance")
	assert.Equal(t, 1, losers)

	user, err := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), user.Balance())
	assert.GreaterOrEqual(t, user.Balance(), int64(0))

	holdings, err := uow.GetHoldingRepository(ctx).ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, holdings, 1)

	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-300000), entries[0].Amount)
}

func TestPurchaseFreeAssetSkipsLedger(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 0)
	assetID := uow.SeedAsset(workerAsset("Starter Worker", 0, 10))

	result, err := service.Purchase(ctx, userID, assetID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.Balance)
	assert.Equal(t, "0.10", result.MiningRate)

	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "a free purchase moves no money")
}

func TestPurchaseSettlesAccrualFirst(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 500000)
	workerID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))

	_, err := service.Purchase(ctx, userID, workerID)
	require.NoError(t, err)

	// An hour of earnings at the old rate lands before the next purchase debits
	clock.Advance(time.Hour)
	cheapID := uow.SeedAsset(workerAsset("Budget Worker", 100, 50))

	result, err := service.Purchase(ctx, userID, cheapID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", result.Balance) // 0 + 100 accrued - 100 price
	assert.Equal(t, "0.50", result.MiningRate)
}

func TestPurchaseBannedUser(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	user, err := entity.NewUser("a@b.com", "code0001", 1000000, clock)
	require.NoError(t, err)
	user.Status = entity.StatusBanned
	userID := uow.SeedUser(user)
	assetID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))

	_, err = service.Purchase(ctx, userID, assetID)
	assert.ErrorIs(t, err, errs.ErrUserBanned)
}

func TestPurchaseValidation(t *testing.T) {
	service, uow, clock := newCatalogFixture(t)
	ctx := context.Background()

	userID := seedBuyer(t, uow, clock, "a@b.com", "code0001", 1000000)

	_, err := service.Purchase(ctx, 0, 1)
	assert.ErrorIs(t, err, errs.ErrInvalidUserID)

	_, err = service.Purchase(ctx, userID, 999)
	assert.ErrorIs(t, err, errs.ErrAssetNotFound)
}

func TestCreateAsset(t *testing.T) {
	service, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("Valid asset", func(t *testing.T) {
		asset, err := service.CreateAsset(ctx, usecase.AssetInput{
			Name:  "Mining Pro",
			Type:  "worker",
			Price: "15000",
			Rate:  "5",
		})
		require.NoError(t, err)
		assert.NotZero(t, asset.ID)
		assert.Equal(t, int64(1500000), asset.Price)
		assert.Equal(t, int64(500), asset.Rate)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		_, err := service.CreateAsset(ctx, usecase.AssetInput{
			Name:  "Mining Pro",
			Type:  "worker",
			Price: "1",
			Rate:  "1",
		})
		assert.ErrorIs(t, err, errs.ErrDuplicateAsset)
	})

	t.Run("Invalid definition", func(t *testing.T) {
		_, err := service.CreateAsset(ctx, usecase.AssetInput{
			Name:  "Broken",
			Type:  "gambler",
			Price: "1",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		_, err = service.CreateAsset(ctx, usecase.AssetInput{
			Name:  "Broken",
			Type:  "worker",
			Price: "-1",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestUpdateAssetPreservesUnitsSold(t *testing.T) {
	service, uow, _ := newCatalogFixture(t)
	ctx := context.Background()

	asset := investorAsset("Premium Investor", 5000000, 1800000, 50, 30)
	asset.UnitsSold = 7
	assetID := uow.SeedAsset(asset)

	updated, err := service.UpdateAsset(ctx, assetID, usecase.AssetInput{
		Name:          "Premium Investor",
		Type:          "investor",
		Price:         "60000",
		MonthlyProfit: "20000",
		StockLimit:    50,
		LifecycleDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6000000), updated.Price)
	assert.Equal(t, uint32(7), updated.UnitsSold)
}

func TestDeleteAsset(t *testing.T) {
	service, uow, _ := newCatalogFixture(t)
	ctx := context.Background()

	assetID := uow.SeedAsset(workerAsset("Digital Worker", 500000, 100))

	require.NoError(t, service.DeleteAsset(ctx, assetID))
	assert.ErrorIs(t, service.DeleteAsset(ctx, assetID), errs.ErrAssetNotFound)
}

func TestListAssetsOrderedByPrice(t *testing.T) {
	service, uow, _ := newCatalogFixture(t)
	ctx := context.Background()

	uow.SeedAsset(workerAsset("Expensive", 1500000, 500))
	uow.SeedAsset(workerAsset("Free", 0, 10))
	uow.SeedAsset(workerAsset("Cheap", 500000, 100))

	assets, err := service.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "Free", assets[0].Name)
	assert.Equal(t, "Cheap", assets[1].Name)
	assert.Equal(t, "Expensive", assets[2].Name)
}
