package request

import (
	"context"
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

func newRequestFixture(t *testing.T) (*Service, *testutil.MemoryUnitOfWork, *testutil.StubClock) {
	t.Helper()

	clock := testutil.NewStubClock(baseTime)
	uow := testutil.NewMemoryUnitOfWork()
	noop := logger.NewNoopLogger()

	serializer := ledger.NewUserSerializer(0, noop)
	t.Cleanup(serializer.Shutdown)

	store := ledger.NewStore(uow, serializer, clock, noop)
	engine := accrual.NewEngine(uow, clock, noop)
	service := NewService(uow, store, engine, clock, noop)

	uow.SeedSettings(entity.DefaultSettings(baseTime))
	return service, uow, clock
}

func seedRequester(t *testing.T, uow *testutil.MemoryUnitOfWork, clock *testutil.StubClock, balance int64) uint64 {
	t.Helper()

	user, err := entity.NewUser("player@example.com", "abcd1234", balance, clock)
	require.NoError(t, err)
	return uow.SeedUser(user)
}

func depositInput(amount, trxID string) usecase.DepositInput {
	return usecase.DepositInput{
		Amount:        amount,
		Method:        "bkash",
		SenderNumber:  "01700000001",
		TransactionID: trxID,
	}
}

func withdrawalInput(amount string) usecase.WithdrawalInput {
	return usecase.WithdrawalInput{
		Amount:       amount,
		Method:       "nagad",
		PayoutNumber: "01800000002",
	}
}

func TestSubmitDeposit(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 0)

	t.Run("Pending request, nothing credited", func(t *testing.T) {
		req, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX100"))
		require.NoError(t, err)
		assert.Equal(t, entity.RequestPending, req.Status)
		assert.Equal(t, int64(50000), req.AmountBDT)
		assert.Equal(t, int64(50000), req.Amount, "default rate is 1 coin per BDT")
		assert.Equal(t, "TRX100", req.TransactionID)

		user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		assert.Zero(t, user.Balance(), "submission must not move money")
	})

	t.Run("Duplicate transaction id", func(t *testing.T) {
		_, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX100"))
		assert.ErrorIs(t, err, errs.ErrDuplicateTransaction)

		var dup *errs.DuplicateTransactionError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "TRX100", dup.TransactionID)
	})

	t.Run("Below minimum", func(t *testing.T) {
		// Default minimum deposit is 100 BDT
		_, err := service.SubmitDeposit(ctx, userID, depositInput("99.99", "TRX101"))
		assert.ErrorIs(t, err, errs.ErrBelowMinimum)
	})

	t.Run("Malformed amount", func(t *testing.T) {
		_, err := service.SubmitDeposit(ctx, userID, depositInput("abc", "TRX102"))
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Banned user", func(t *testing.T) {
		banned, err := entity.NewUser("banned@example.com", "efgh5678", 0, clock)
		require.NoError(t, err)
		banned.Status = entity.StatusBanned
		bannedID := uow.SeedUser(banned)

		_, err = service.SubmitDeposit(ctx, bannedID, depositInput("500", "TRX103"))
		assert.ErrorIs(t, err, errs.ErrUserBanned)
	})
}

func TestResolveDepositApprove(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 0)

	req, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX100"))
	require.NoError(t, err)

	resolved, err := service.ResolveDeposit(ctx, req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(50000), user.Balance())

	entries, err := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonDeposit, entries[0].Reason)
	assert.Equal(t, "TRX100", entries[0].Reference)
	assert.Equal(t, int64(50000), entries[0].Amount)
}

func TestResolveDepositTwice(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 0)

	req, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX100"))
	require.NoError(t, err)

	_, err = service.ResolveDeposit(ctx, req.ID, true)
	require.NoError(t, err)

	// Second approval must fail and must not credit again
	_, err = service.ResolveDeposit(ctx, req.ID, true)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	var transition *errs.StateTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "deposit", transition.Kind)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(50000), user.Balance(), "double approval must not pay twice")

	entries, _ := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	assert.Len(t, entries, 1)
}

func TestResolveDepositReject(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 0)

	req, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX100"))
	require.NoError(t, err)

	resolved, err := service.ResolveDeposit(ctx, req.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, resolved.Status)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Zero(t, user.Balance())

	// A rejected deposit can't be approved afterwards
	_, err = service.ResolveDeposit(ctx, req.ID, true)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func TestDepositUsesExchangeRate(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 0)

	settings := entity.DefaultSettings(baseTime)
	settings.ExchangeRate = 200 // 2 coins per BDT
	uow.SeedSettings(settings)

	req, err := service.SubmitDeposit(ctx, userID, depositInput("100", "TRX200"))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), req.AmountBDT)
	assert.Equal(t, int64(20000), req.Amount, "100 BDT at rate 2 is 200 coins")

	// The coin amount was snapshotted at submission, so a rate change
	// before approval must not change what gets credited.
	settings.ExchangeRate = 50
	uow.SeedSettings(settings)

	_, err = service.ResolveDeposit(ctx, req.ID, true)
	require.NoError(t, err)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(20000), user.Balance())

	entries, _ := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(20000), entries[0].Amount)
}

func TestSubmitWithdrawal(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()

	t.Run("Debits up front", func(t *testing.T) {
		userID := seedRequester(t, uow, clock, 720000)

		req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
		require.NoError(t, err)
		assert.Equal(t, entity.RequestPending, req.Status)
		assert.Equal(t, int64(720000), req.Amount)
		assert.Equal(t, int64(720000), req.AmountBDT, "default rate is 1 BDT per coin")
		assert.False(t, req.Refunded)

		user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		assert.Zero(t, user.Balance(), "the full amount is held while pending")

		entries, _ := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
		require.Len(t, entries, 1)
		assert.Equal(t, entity.ReasonWithdrawal, entries[0].Reason)
		assert.Equal(t, int64(-720000), entries[0].Amount)
		assert.Equal(t, "request:1", entries[0].Reference)
	})

	t.Run("Below minimum", func(t *testing.T) {
		userID := seedRequester(t, uow, clock, 720000)

		_, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7199.99"))
		assert.ErrorIs(t, err, errs.ErrBelowMinimum)

		user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		assert.Equal(t, int64(720000), user.Balance())
	})

	t.Run("Insufficient balance rolls everything back", func(t *testing.T) {
		userID := seedRequester(t, uow, clock, 719999)

		_, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

		user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		assert.Equal(t, int64(719999), user.Balance())

		requests, _ := service.ListUserWithdrawals(ctx, userID)
		assert.Empty(t, requests, "the request row must not survive the rollback")
	})

	t.Run("Accrued yield counts toward the minimum", func(t *testing.T) {
		user, err := entity.NewUser("miner@example.com", "mmmm0001", 719900, clock)
		require.NoError(t, err)
		user.MiningRate = 100
		userID := uow.SeedUser(user)

		clock.Advance(time.Hour) // earns the missing 100

		req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
		require.NoError(t, err)
		assert.Equal(t, int64(720000), req.Amount)

		stored, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
		assert.Zero(t, stored.Balance())
	})
}

func TestResolveWithdrawalApprove(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 720000)

	req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
	require.NoError(t, err)

	resolved, err := service.ResolveWithdrawal(ctx, req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, resolved.Status)
	assert.False(t, resolved.Refunded)

	// Already debited on submission, approval moves no more money
	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Zero(t, user.Balance())

	entries, _ := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	assert.Len(t, entries, 1)
}

func TestResolveWithdrawalRejectRefundsOnce(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 720000)

	req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
	require.NoError(t, err)

	resolved, err := service.ResolveWithdrawal(ctx, req.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, resolved.Status)
	assert.True(t, resolved.Refunded)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(720000), user.Balance(), "rejection returns the held coins")

	entries, _ := uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ReasonWithdrawalReject, entries[0].Reason)
	assert.Equal(t, int64(720000), entries[0].Amount)
	assert.Equal(t, "request:1", entries[0].Reference)

	// Resolving again fails and must not refund a second time
	_, err = service.ResolveWithdrawal(ctx, req.ID, false)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	user, _ = uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(720000), user.Balance())

	entries, _ = uow.GetLedgerRepository(ctx).ListByUser(ctx, userID, 10, 0)
	assert.Len(t, entries, 2)
}

func TestWithdrawalRoundTrip(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 720000)

	req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
	require.NoError(t, err)

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Zero(t, user.Balance())

	_, err = service.ResolveWithdrawal(ctx, req.ID, false)
	require.NoError(t, err)

	user, _ = uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(720000), user.Balance(), "reject after submit restores the starting balance")
}

func TestWithdrawalPayoutUsesExchangeRate(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 720000)

	settings := entity.DefaultSettings(baseTime)
	settings.ExchangeRate = 200 // 2 coins per BDT
	uow.SeedSettings(settings)

	req, err := service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
	require.NoError(t, err)
	assert.Equal(t, int64(720000), req.Amount)
	assert.Equal(t, int64(360000), req.AmountBDT, "7200 coins at rate 2 pay out 3600 BDT")

	user, _ := uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Zero(t, user.Balance())

	// Rejection refunds the coin debit, not the BDT figure
	_, err = service.ResolveWithdrawal(ctx, req.ID, false)
	require.NoError(t, err)

	user, _ = uow.GetUserRepository(ctx).GetByID(ctx, userID)
	assert.Equal(t, int64(720000), user.Balance())
}

func TestListRequests(t *testing.T) {
	service, uow, clock := newRequestFixture(t)
	ctx := context.Background()
	userID := seedRequester(t, uow, clock, 2000000)

	first, err := service.SubmitDeposit(ctx, userID, depositInput("500", "TRX1"))
	require.NoError(t, err)
	second, err := service.SubmitDeposit(ctx, userID, depositInput("600", "TRX2"))
	require.NoError(t, err)
	_, err = service.SubmitWithdrawal(ctx, userID, withdrawalInput("7200"))
	require.NoError(t, err)

	t.Run("User history is newest first", func(t *testing.T) {
		deposits, err := service.ListUserDeposits(ctx, userID)
		require.NoError(t, err)
		require.Len(t, deposits, 2)
		assert.Equal(t, second.ID, deposits[0].ID)
		assert.Equal(t, first.ID, deposits[1].ID)
	})

	t.Run("Pending queue is oldest first", func(t *testing.T) {
		_, err := service.ResolveDeposit(ctx, first.ID, true)
		require.NoError(t, err)

		pending, err := service.ListPendingDeposits(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, second.ID, pending[0].ID)
	})

	t.Run("Pending withdrawals", func(t *testing.T) {
		pending, err := service.ListPendingWithdrawals(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})
}
