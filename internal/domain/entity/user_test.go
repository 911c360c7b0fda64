package entity_test

import (
	"testing"
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/litepremium/coin-engine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewUser(t *testing.T) {
	clock := testutil.NewStubClock(baseTime)

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := entity.NewUser("Player@Example.COM", "abcd1234", 1000, clock)

		require.NoError(t, err)
		assert.Equal(t, "player@example.com", user.Email)
		assert.Equal(t, entity.StatusActive, user.Status)
		assert.Equal(t, entity.BadgeSilver, user.Badge)
		assert.Equal(t, int64(1000), user.Balance())
		assert.Equal(t, "10.00", user.FormattedBalance())
		assert.Equal(t, baseTime, user.LastAccrualAt)
		assert.Zero(t, user.MiningRate)
		assert.Nil(t, user.ReferrerID)
	})

	t.Run("Invalid email", func(t *testing.T) {
		for _, email := range []string{"", "   ", "not-an-email"} {
			user, err := entity.NewUser(email, "abcd1234", 0, clock)
			assert.ErrorIs(t, err, errs.ErrInvalidRequest)
			assert.Nil(t, user)
		}
	})

	t.Run("Negative signup grant", func(t *testing.T) {
		user, err := entity.NewUser("a@b.com", "abcd1234", -1, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, user)
	})
}

func TestUserBalanceMutations(t *testing.T) {
	clock := testutil.NewStubClock(baseTime)

	newUser := func(grant int64) *entity.User {
		user, err := entity.NewUser("a@b.com", "abcd1234", grant, clock)
		require.NoError(t, err)
		return user
	}

	t.Run("ApplyCredit", func(t *testing.T) {
		user := newUser(100)
		require.NoError(t, user.ApplyCredit(50, clock))
		assert.Equal(t, int64(150), user.Balance())

		assert.ErrorIs(t, user.ApplyCredit(0, clock), errs.ErrInvalidAmount)
		assert.ErrorIs(t, user.ApplyCredit(-5, clock), errs.ErrInvalidAmount)
	})

	t.Run("ApplyDebit", func(t *testing.T) {
		user := newUser(100)
		require.NoError(t, user.ApplyDebit(100, clock))
		assert.Equal(t, int64(0), user.Balance())

		err := user.ApplyDebit(1, clock)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(0), user.Balance())
	})

	t.Run("ApplyAdjustment keeps balance non-negative", func(t *testing.T) {
		user := newUser(100)
		require.NoError(t, user.ApplyAdjustment(-100, clock))
		assert.Equal(t, int64(0), user.Balance())

		assert.ErrorIs(t, user.ApplyAdjustment(-1, clock), errs.ErrInsufficientBalance)
		assert.ErrorIs(t, user.ApplyAdjustment(0, clock), errs.ErrInvalidAmount)

		require.NoError(t, user.ApplyAdjustment(250, clock))
		assert.Equal(t, int64(250), user.Balance())
	})
}

func TestUserAccrueTo(t *testing.T) {
	clock := testutil.NewStubClock(baseTime)

	t.Run("Whole hours", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.MiningRate = 100 // 1.00 per hour

		credit := user.AccrueTo(baseTime.Add(2 * time.Hour))
		assert.Equal(t, int64(200), credit)
		assert.Equal(t, baseTime.Add(2*time.Hour), user.LastAccrualAt)
		assert.Zero(t, user.AccrualCarry)
	})

	t.Run("Sub-cent earnings carry over", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.MiningRate = 1 // 0.01 per hour

		credit := user.AccrueTo(baseTime.Add(30 * time.Minute))
		assert.Zero(t, credit)
		assert.Equal(t, int64(1800), user.AccrualCarry)

		credit = user.AccrueTo(baseTime.Add(60 * time.Minute))
		assert.Equal(t, int64(1), credit)
		assert.Zero(t, user.AccrualCarry)
	})

	t.Run("Repeated short intervals lose nothing", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.MiningRate = 77

		var total int64
		for i := 1; i <= 3600; i++ {
			total += user.AccrueTo(baseTime.Add(time.Duration(i) * time.Second))
		}
		assert.Equal(t, int64(77), total)
		assert.Zero(t, user.AccrualCarry)
	})

	t.Run("Clock never moves backwards", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.MiningRate = 100
		user.AccrueTo(baseTime.Add(time.Hour))

		assert.Zero(t, user.AccrueTo(baseTime))
		assert.Zero(t, user.AccrueTo(baseTime.Add(time.Hour)))
		assert.Equal(t, baseTime.Add(time.Hour), user.LastAccrualAt)
	})

	t.Run("Zero rate advances the clock", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)

		assert.Zero(t, user.AccrueTo(baseTime.Add(time.Hour)))
		assert.Equal(t, baseTime.Add(time.Hour), user.LastAccrualAt)
	})
}

func TestUserWorkerSlot(t *testing.T) {
	clock := testutil.NewStubClock(baseTime)
	user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)

	user.EquipWorker("Starter Worker", 10, 0)
	assert.Equal(t, int64(10), user.MiningRate)
	assert.Equal(t, "Starter Worker", user.WorkerLevel)

	// Investor contributions stack on top
	user.AddRateContribution(2500)
	assert.Equal(t, int64(2510), user.MiningRate)

	// A new worker replaces only the worker's share of the rate
	user.EquipWorker("Digital Worker", 100, 10)
	assert.Equal(t, int64(2600), user.MiningRate)
	assert.Equal(t, "Digital Worker", user.WorkerLevel)

	user.RemoveRateContribution(2500)
	assert.Equal(t, int64(100), user.MiningRate)

	// Drift protection
	user.RemoveRateContribution(500)
	assert.Zero(t, user.MiningRate)
}

func TestUserSetReferrer(t *testing.T) {
	clock := testutil.NewStubClock(baseTime)

	t.Run("Set once", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.ID = 2

		require.NoError(t, user.SetReferrer(1))
		require.NotNil(t, user.ReferrerID)
		assert.Equal(t, uint64(1), *user.ReferrerID)

		assert.ErrorIs(t, user.SetReferrer(3), errs.ErrInvalidStateTransition)
		assert.Equal(t, uint64(1), *user.ReferrerID)
	})

	t.Run("Self and zero rejected", func(t *testing.T) {
		user, _ := entity.NewUser("a@b.com", "abcd1234", 0, clock)
		user.ID = 2

		assert.ErrorIs(t, user.SetReferrer(2), errs.ErrInvalidRequest)
		assert.ErrorIs(t, user.SetReferrer(0), errs.ErrInvalidRequest)
		assert.Nil(t, user.ReferrerID)
	})
}

func TestUserFromRecord(t *testing.T) {
	referrer := uint64(7)
	rec := entity.UserRecord{
		ID:            3,
		Email:         "a@b.com",
		Status:        "active",
		Badge:         "Gold",
		Balance:       123456,
		MiningRate:    500,
		WorkerLevel:   "Digital Worker",
		ReferralCode:  "abcd1234",
		ReferrerID:    &referrer,
		ReferralCount: 2,
		LastAccrualAt: baseTime,
		AccrualCarry:  1799,
	}

	user := entity.UserFromRecord(rec)
	assert.Equal(t, int64(123456), user.Balance())
	assert.Equal(t, entity.BadgeTier("Gold"), user.Badge)
	assert.Equal(t, int64(1799), user.AccrualCarry)
	assert.Equal(t, referrer, *user.ReferrerID)
}
