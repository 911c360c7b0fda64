package request

import (
	"context"
	"strconv"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/domain/usecase/accrual"
	"github.com/litepremium/coin-engine/internal/domain/usecase/ledger"
)

// Service implements the deposit and withdrawal review workflow
type Service struct {
	uow          persistence.UnitOfWork
	store        *ledger.Store
	accrual      *accrual.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a request workflow service
func NewService(
	uow persistence.UnitOfWork,
	store *ledger.Store,
	accrualEngine *accrual.Engine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		store:        store,
		accrual:      accrualEngine,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// SubmitDeposit records a pending deposit claim. The amount is the BDT the
// user paid externally; the coins to credit are computed at the current
// exchange rate and snapshotted on the request. Nothing is credited yet;
// the transaction id is checked up front and guarded again by a unique
// constraint on insert, so a replayed payment proof can never be accepted
// twice even under concurrent submissions.
func (s *Service) SubmitDeposit(ctx context.Context, userID uint64, input usecase.DepositInput) (*entity.DepositRequest, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	amountBDT, err := entity.ParseCoinAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned() {
		return nil, errs.ErrUserBanned
	}

	settings, err := s.uow.GetSettingsRepository(ctx).Get(ctx)
	if err != nil {
		return nil, err
	}
	if amountBDT < settings.MinDeposit {
		return nil, errs.ErrBelowMinimum
	}

	req, err := entity.NewDepositRequest(userID, amountBDT, settings.CoinsForBDT(amountBDT),
		entity.PaymentMethod(input.Method), input.SenderNumber, input.TransactionID, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	depositRepo := s.uow.GetDepositRepository(ctx)
	exists, err := depositRepo.TransactionIDExists(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewDuplicateTransactionError(req.TransactionID, userID)
	}

	if err := depositRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit request submitted", map[string]any{
		"user_id":        userID,
		"request_id":     req.ID,
		"amount_bdt":     entity.FormatCoins(req.AmountBDT),
		"coins":          entity.FormatCoins(req.Amount),
		"transaction_id": req.TransactionID,
	})
	return req, nil
}

// ResolveDeposit approves or rejects a pending deposit. The request row is
// locked for the duration, so two admins clicking at once can't both win;
// the loser gets a StateTransitionError.
func (s *Service) ResolveDeposit(ctx context.Context, requestID uint64, approve bool) (*entity.DepositRequest, error) {
	peek, err := s.uow.GetDepositRepository(ctx).GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var resolved *entity.DepositRequest
	err = s.store.Execute(ctx, peek.UserID, func(txCtx context.Context) error {
		depositRepo := s.uow.GetDepositRepository(txCtx)
		req, err := depositRepo.GetForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}

		now := s.timeProvider.Now()
		if approve {
			if err := req.Approve(now); err != nil {
				return err
			}

			user, err := s.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, req.UserID)
			if err != nil {
				return err
			}
			if _, err := s.accrual.Settle(txCtx, user); err != nil {
				return err
			}
			if err := s.store.Credit(txCtx, user, req.Amount, entity.ReasonDeposit, req.TransactionID); err != nil {
				return err
			}
		} else {
			if err := req.Reject(now); err != nil {
				return err
			}
		}

		if err := depositRepo.Update(txCtx, req); err != nil {
			return err
		}

		s.logger.Info("Deposit request resolved", map[string]any{
			"request_id": requestID,
			"user_id":    req.UserID,
			"status":     string(req.Status),
		})
		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// SubmitWithdrawal debits the amount up front and records a pending
// cash-out request. The debit keeps the user from spending coins that are
// already on their way out; a later rejection refunds it.
func (s *Service) SubmitWithdrawal(ctx context.Context, userID uint64, input usecase.WithdrawalInput) (*entity.WithdrawalRequest, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	amount, err := entity.ParseCoinAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	var created *entity.WithdrawalRequest
	err = s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		user, err := s.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user.IsBanned() {
			return errs.ErrUserBanned
		}

		settings, err := s.uow.GetSettingsRepository(txCtx).Get(txCtx)
		if err != nil {
			return err
		}
		if amount < settings.MinWithdrawal {
			return errs.ErrBelowMinimum
		}

		// Settle first so freshly earned yield counts toward the withdrawal
		if _, err := s.accrual.Settle(txCtx, user); err != nil {
			return err
		}

		req, err := entity.NewWithdrawalRequest(userID, amount, settings.BDTForCoins(amount),
			entity.PaymentMethod(input.Method), input.PayoutNumber, s.timeProvider.Now())
		if err != nil {
			return err
		}

		if err := s.uow.GetWithdrawalRepository(txCtx).Create(txCtx, req); err != nil {
			return err
		}
		if err := s.store.Debit(txCtx, user, amount, entity.ReasonWithdrawal, formatRequestRef(req.ID)); err != nil {
			return err
		}

		s.logger.Info("Withdrawal request submitted", map[string]any{
			"user_id":    userID,
			"request_id": req.ID,
			"coins":      entity.FormatCoins(req.Amount),
			"amount_bdt": entity.FormatCoins(req.AmountBDT),
		})
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ResolveWithdrawal approves or rejects a pending withdrawal. Approval just
// records the payout since the coins were already debited. Rejection refunds
// the held amount; the pending-to-terminal transition happens under a row
// lock so the refund cannot be paid twice.
func (s *Service) ResolveWithdrawal(ctx context.Context, requestID uint64, approve bool) (*entity.WithdrawalRequest, error) {
	peek, err := s.uow.GetWithdrawalRepository(ctx).GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var resolved *entity.WithdrawalRequest
	err = s.store.Execute(ctx, peek.UserID, func(txCtx context.Context) error {
		withdrawalRepo := s.uow.GetWithdrawalRepository(txCtx)
		req, err := withdrawalRepo.GetForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}

		now := s.timeProvider.Now()
		if approve {
			if err := req.Approve(now); err != nil {
				return err
			}
		} else {
			if err := req.Reject(now); err != nil {
				return err
			}

			user, err := s.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, req.UserID)
			if err != nil {
				return err
			}
			if err := s.store.Credit(txCtx, user, req.Amount, entity.ReasonWithdrawalReject, formatRequestRef(req.ID)); err != nil {
				return err
			}
		}

		if err := withdrawalRepo.Update(txCtx, req); err != nil {
			return err
		}

		s.logger.Info("Withdrawal request resolved", map[string]any{
			"request_id": requestID,
			"user_id":    req.UserID,
			"status":     string(req.Status),
		})
		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// ListUserDeposits returns a user's deposit requests, newest first
func (s *Service) ListUserDeposits(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return s.uow.GetDepositRepository(ctx).ListByUser(ctx, userID)
}

// ListUserWithdrawals returns a user's withdrawal requests, newest first
func (s *Service) ListUserWithdrawals(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return s.uow.GetWithdrawalRepository(ctx).ListByUser(ctx, userID)
}

// ListPendingDeposits returns the admin review queue, oldest first
func (s *Service) ListPendingDeposits(ctx context.Context) ([]*entity.DepositRequest, error) {
	return s.uow.GetDepositRepository(ctx).ListByStatus(ctx, entity.RequestPending)
}

// ListPendingWithdrawals returns the admin review queue, oldest first
func (s *Service) ListPendingWithdrawals(ctx context.Context) ([]*entity.WithdrawalRequest, error) {
	return s.uow.GetWithdrawalRepository(ctx).ListByStatus(ctx, entity.RequestPending)
}

func formatRequestRef(id uint64) string {
	return "request:" + strconv.FormatUint(id, 10)
}
