package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/domain/usecase/accrual"
	"github.com/litepremium/coin-engine/internal/domain/usecase/ledger"
)

// referralCodeBytes gives 8 hex characters per code
const referralCodeBytes = 4

// Service implements account operations
type Service struct {
	uow          persistence.UnitOfWork
	store        *ledger.Store
	accrual      *accrual.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a user service
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

// Register creates a new account with the configured signup grant. If a
// referral code is supplied the accounts are linked and the referrer is
// paid the one-time bonus in the same transaction.
func (s *Service) Register(ctx context.Context, email, referrerCode string) (*entity.User, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.register(txCtx, email, referrerCode)
	if err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Failed to rollback registration", map[string]any{"error": rbErr.Error()})
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"user_id": created.ID,
		"email":   created.Email,
	})
	return created, nil
}

func (s *Service) register(txCtx context.Context, email, referrerCode string) (*entity.User, error) {
	settings, err := s.uow.GetSettingsRepository(txCtx).Get(txCtx)
	if err != nil {
		return nil, err
	}

	code, err := generateReferralCode()
	if err != nil {
		return nil, err
	}

	user, err := entity.NewUser(email, code, settings.SignupBonus, s.timeProvider)
	if err != nil {
		return nil, err
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	if err := userRepo.Create(txCtx, user); err != nil {
		return nil, err
	}

	if settings.SignupBonus > 0 {
		entry := entity.NewLedgerEntry(user.ID, settings.SignupBonus, user.Balance(),
			entity.ReasonSignup, "", s.timeProvider.Now())
		if err := s.uow.GetLedgerRepository(txCtx).Append(txCtx, entry); err != nil {
			return nil, err
		}
	}

	if referrerCode != "" {
		applied, err := s.applyReferral(txCtx, user, referrerCode, settings)
		if err != nil {
			return nil, err
		}
		if applied {
			if err := userRepo.Update(txCtx, user); err != nil {
				return nil, err
			}
		}
	}

	return user, nil
}

// ApplyReferral links the user to the owner of the referral code and pays
// the one-time bonus. The link only ever happens on a fresh account: if the
// user already has a referrer, the code does not resolve, or the balance has
// moved since signup, the call is a silent no-op so it is safe to retry.
func (s *Service) ApplyReferral(ctx context.Context, userID uint64, referrerCode string) (bool, error) {
	if userID == 0 {
		return false, errs.ErrInvalidUserID
	}

	var applied bool
	err := s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		userRepo := s.uow.GetUserRepository(txCtx)
		user, err := userRepo.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		settings, err := s.uow.GetSettingsRepository(txCtx).Get(txCtx)
		if err != nil {
			return err
		}

		applied, err = s.applyReferral(txCtx, user, referrerCode, settings)
		if err != nil {
			return err
		}
		if !applied {
			return nil
		}
		return userRepo.Update(txCtx, user)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// applyReferral does the linking inside an open transaction. The referrer's
// row is locked directly rather than through their serializer queue; nesting
// queue waits inside a held slot would deadlock when two users refer each
// other at once.
func (s *Service) applyReferral(txCtx context.Context, user *entity.User, referrerCode string, settings *entity.Settings) (bool, error) {
	if user.ReferrerID != nil {
		return false, nil
	}

	// Once the balance has moved past the signup grant the referral window
	// is closed; linking late would let a seasoned account farm the bonus.
	if user.Balance() != settings.SignupBonus {
		return false, nil
	}

	referrerCode = strings.TrimSpace(referrerCode)
	if referrerCode == "" || referrerCode == user.ReferralCode {
		return false, nil
	}

	userRepo := s.uow.GetUserRepository(txCtx)
	referrer, err := userRepo.GetByReferralCode(txCtx, referrerCode)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	if referrer.ID == user.ID {
		return false, nil
	}

	if err := user.SetReferrer(referrer.ID); err != nil {
		return false, err
	}

	locked, err := userRepo.GetForUpdate(txCtx, referrer.ID)
	if err != nil {
		return false, err
	}
	locked.ReferralCount++

	if settings.ReferralBonus > 0 {
		if err := s.store.Credit(txCtx, locked, settings.ReferralBonus, entity.ReasonReferral, user.ReferralCode); err != nil {
			return false, err
		}
	} else {
		if err := userRepo.Update(txCtx, locked); err != nil {
			return false, err
		}
	}

	s.logger.Info("Referral bonus paid", map[string]any{
		"referrer_id": locked.ID,
		"referred_id": user.ID,
		"bonus":       entity.FormatCoins(settings.ReferralBonus),
	})
	return true, nil
}

// GetBalance settles pending accrual and returns the formatted balance
func (s *Service) GetBalance(ctx context.Context, userID uint64) (*usecase.BalanceResponse, error) {
	user, err := s.settle(ctx, userID)
	if err != nil {
		return nil, err
	}
	return balanceResponse(user), nil
}

// GetProfile settles pending accrual and returns the full account
func (s *Service) GetProfile(ctx context.Context, userID uint64) (*entity.User, error) {
	return s.settle(ctx, userID)
}

// settle runs a settlement pass for the user and returns the fresh entity
func (s *Service) settle(ctx context.Context, userID uint64) (*entity.User, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	var user *entity.User
	err := s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		var err error
		user, err = s.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		_, err = s.accrual.Settle(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LedgerHistory returns a page of the user's balance changes
func (s *Service) LedgerHistory(ctx context.Context, userID uint64, limit, offset int) (*usecase.LedgerPage, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	entries, total, err := s.store.Entries(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &usecase.LedgerPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// ListUsers returns all accounts for the admin panel
func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.uow.GetUserRepository(ctx).List(ctx)
}

// SetBadge assigns a badge tier to an account
func (s *Service) SetBadge(ctx context.Context, userID uint64, badge string) error {
	if !entity.IsValidBadge(badge) {
		return errs.ErrInvalidRequest
	}

	return s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		userRepo := s.uow.GetUserRepository(txCtx)
		user, err := userRepo.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		user.Badge = entity.BadgeTier(badge)
		return userRepo.Update(txCtx, user)
	})
}

// SetStatus activates or bans an account. Banned accounts keep their balance
// and holdings but can't trigger mutating operations.
func (s *Service) SetStatus(ctx context.Context, userID uint64, status string) error {
	if !entity.IsValidStatus(status) {
		return errs.ErrInvalidRequest
	}

	return s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		userRepo := s.uow.GetUserRepository(txCtx)
		user, err := userRepo.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		user.Status = entity.UserStatus(status)
		return userRepo.Update(txCtx, user)
	})
}

// AdjustBalance applies a signed admin correction. Accrual is settled first
// so the adjustment lands on an up-to-date balance.
func (s *Service) AdjustBalance(ctx context.Context, userID uint64, delta string, note string) (*usecase.BalanceResponse, error) {
	delta = strings.TrimSpace(delta)
	negative := strings.HasPrefix(delta, "-")
	cents, err := entity.ParseCoinAmount(strings.TrimPrefix(delta, "-"))
	if err != nil {
		return nil, err
	}
	if negative {
		cents = -cents
	}

	var user *entity.User
	err = s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		user, err = s.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if _, err := s.accrual.Settle(txCtx, user); err != nil {
			return err
		}
		return s.store.Adjust(txCtx, user, cents, entity.ReasonAdminAdjust, note)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin balance adjustment", map[string]any{
		"user_id": userID,
		"delta":   entity.FormatCoins(cents),
		"note":    note,
	})
	return balanceResponse(user), nil
}

// DeleteUser removes an account
func (s *Service) DeleteUser(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return errs.ErrInvalidUserID
	}
	return s.uow.GetUserRepository(ctx).Delete(ctx, userID)
}

func balanceResponse(user *entity.User) *usecase.BalanceResponse {
	return &usecase.BalanceResponse{
		UserID:      user.ID,
		Balance:     user.FormattedBalance(),
		MiningRate:  entity.FormatCoins(user.MiningRate),
		WorkerLevel: user.WorkerLevel,
		Badge:       string(user.Badge),
	}
}

// generateReferralCode produces a short random hex code. Uniqueness is
// enforced by the database constraint; at 32 bits of entropy collisions
// are rare enough that retrying the registration is acceptable.
func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(errs.ErrInternalServer, err)
	}
	return hex.EncodeToString(buf), nil
}
