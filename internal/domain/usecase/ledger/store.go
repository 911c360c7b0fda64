package ledger

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
)

// Store is the single write path for balances. Every balance change goes
// through a per-user serializer slot, a database transaction and a row lock,
// and leaves an entry in the append-only ledger.
type Store struct {
	uow          persistence.UnitOfWork
	serializer   *UserSerializer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewStore creates a ledger store
func NewStore(
	uow persistence.UnitOfWork,
	serializer *UserSerializer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Store {
	return &Store{
		uow:          uow,
		serializer:   serializer,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute runs fn while holding the user's serializer slot, inside a
// database transaction. The context passed to fn is transaction-bound;
// repositories fetched from the unit of work with it join the transaction.
// Commit happens only when fn returns nil.
//
// fn must not call Execute again for any user; cross-user work inside fn
// relies on row locks instead.
func (s *Store) Execute(ctx context.Context, userID uint64, fn func(txCtx context.Context) error) error {
	return s.serializer.Do(ctx, userID, func(ctx context.Context) error {
		txCtx, err := s.uow.Begin(ctx)
		if err != nil {
			return err
		}

		if err := fn(txCtx); err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Failed to rollback transaction", map[string]any{
					"user_id": userID,
					"error":   rbErr.Error(),
				})
			}
			return err
		}

		return s.uow.Commit(txCtx)
	})
}

// Credit adds amount to the user's balance and records the ledger entry.
// Must be called with a transaction-bound context and the user's row locked
// via GetForUpdate.
func (s *Store) Credit(txCtx context.Context, user *entity.User, amount int64, reason entity.LedgerReason, reference string) error {
	if err := user.ApplyCredit(amount, s.timeProvider); err != nil {
		return err
	}
	return s.record(txCtx, user, amount, reason, reference)
}

// Debit subtracts amount from the user's balance and records the ledger
// entry. Fails with InsufficientBalanceError when funds don't cover it.
// Same calling contract as Credit.
func (s *Store) Debit(txCtx context.Context, user *entity.User, amount int64, reason entity.LedgerReason, reference string) error {
	if err := user.ApplyDebit(amount, s.timeProvider); err != nil {
		return err
	}
	return s.record(txCtx, user, -amount, reason, reference)
}

// Adjust applies a signed delta, keeping the balance non-negative.
// Same calling contract as Credit.
func (s *Store) Adjust(txCtx context.Context, user *entity.User, delta int64, reason entity.LedgerReason, reference string) error {
	if err := user.ApplyAdjustment(delta, s.timeProvider); err != nil {
		return err
	}
	return s.record(txCtx, user, delta, reason, reference)
}

func (s *Store) record(txCtx context.Context, user *entity.User, amount int64, reason entity.LedgerReason, reference string) error {
	userRepo := s.uow.GetUserRepository(txCtx)
	if err := userRepo.Update(txCtx, user); err != nil {
		return err
	}

	entry := entity.NewLedgerEntry(user.ID, amount, user.Balance(), reason, reference, s.timeProvider.Now())
	if err := s.uow.GetLedgerRepository(txCtx).Append(txCtx, entry); err != nil {
		return err
	}

	s.logger.Debug("Balance changed", map[string]any{
		"user_id":       user.ID,
		"amount":        entity.FormatCoins(amount),
		"balance_after": user.FormattedBalance(),
		"reason":        string(reason),
	})
	return nil
}

// Entries returns a page of the user's ledger, newest first
func (s *Store) Entries(ctx context.Context, userID uint64, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.uow.GetLedgerRepository(ctx)
	entries, err := repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
