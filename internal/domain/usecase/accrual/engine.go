package accrual

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
)

// Engine settles lazily-accrued yield. There is no background ticker:
// every read or mutation of a balance first calls Settle, which advances
// the user's accrual clock to now and credits whatever the active holdings
// earned in the meantime.
type Engine struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewEngine creates an accrual engine
func NewEngine(uow persistence.UnitOfWork, timeProvider coreport.TimeProvider, logger coreport.Logger) *Engine {
	return &Engine{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Settle advances the user's accrual clock to now, expiring holdings that
// ran out along the way. The user must already be loaded with a row lock
// and txCtx must be transaction-bound; Settle persists the user and any
// expired holdings but the caller owns the commit.
//
// Expired holdings are processed in expiry order: the user earns at the
// full rate up to each expiry, the holding's contribution is removed, then
// earning continues at the reduced rate. A holding therefore pays out its
// final partial hour exactly once.
func (e *Engine) Settle(txCtx context.Context, user *entity.User) (int64, error) {
	now := e.timeProvider.Now()
	if !now.After(user.LastAccrualAt) {
		return 0, nil
	}

	holdingRepo := e.uow.GetHoldingRepository(txCtx)
	holdings, err := holdingRepo.ListActiveByUser(txCtx, user.ID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, h := range holdings {
		if !h.IsExpiredAt(now) {
			continue
		}

		// Earn at the current rate up to the moment this holding expired
		if h.ExpiresAt.After(user.LastAccrualAt) {
			total += user.AccrueTo(h.ExpiresAt)
		}

		if err := h.MarkExpired(now); err != nil {
			return 0, err
		}
		if err := holdingRepo.Update(txCtx, h); err != nil {
			return 0, err
		}

		user.RemoveRateContribution(h.HourlyReturn)
		if h.AssetType == entity.AssetWorker && user.WorkerLevel == h.AssetName {
			user.WorkerLevel = ""
		}

		e.logger.Info("Holding expired", map[string]any{
			"user_id":    user.ID,
			"asset_name": h.AssetName,
			"rate":       entity.FormatCoins(h.HourlyReturn),
		})
	}

	total += user.AccrueTo(now)

	if total > 0 {
		if err := user.ApplyCredit(total, e.timeProvider); err != nil {
			return 0, err
		}
	}

	userRepo := e.uow.GetUserRepository(txCtx)
	if err := userRepo.Update(txCtx, user); err != nil {
		return 0, err
	}

	if total > 0 {
		entry := entity.NewLedgerEntry(user.ID, total, user.Balance(), entity.ReasonAccrual, "", now)
		if err := e.uow.GetLedgerRepository(txCtx).Append(txCtx, entry); err != nil {
			return 0, err
		}
	}

	return total, nil
}
