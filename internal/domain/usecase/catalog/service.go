package catalog

import (
	"context"
	"errors"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
	"github.com/litepremium/coin-engine/internal/domain/port/usecase"
	"github.com/litepremium/coin-engine/internal/domain/usecase/accrual"
	"github.com/litepremium/coin-engine/internal/domain/usecase/ledger"
)

// Service implements the asset catalog and purchase flow
type Service struct {
	uow          persistence.UnitOfWork
	store        *ledger.Store
	accrual      *accrual.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a catalog service
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

// ListAssets returns the purchasable catalog ordered by price
func (s *Service) ListAssets(ctx context.Context) ([]*entity.Asset, error) {
	return s.uow.GetAssetRepository(ctx).List(ctx)
}

// ListHoldings returns a user's holdings, newest first
func (s *Service) ListHoldings(ctx context.Context, userID uint64) ([]*entity.Holding, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return s.uow.GetHoldingRepository(ctx).ListByUser(ctx, userID)
}

// Purchase atomically debits the price, reserves a unit of stock and creates
// the holding. The whole flow runs in the user's serializer slot and one
// database transaction, so a concurrent purchase of the last unit of stock
// fails cleanly with ErrSoldOut and leaves the loser's balance untouched.
func (s *Service) Purchase(ctx context.Context, userID, assetID uint64) (*usecase.PurchaseResult, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	var result *usecase.PurchaseResult
	err := s.store.Execute(ctx, userID, func(txCtx context.Context) error {
		userRepo := s.uow.GetUserRepository(txCtx)
		user, err := userRepo.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user.IsBanned() {
			return errs.ErrUserBanned
		}

		// Settle earnings under the rate that was active before the purchase
		if _, err := s.accrual.Settle(txCtx, user); err != nil {
			return err
		}

		asset, err := s.uow.GetAssetRepository(txCtx).GetByID(txCtx, assetID)
		if err != nil {
			return err
		}
		if !asset.InStock() {
			return errs.ErrSoldOut
		}

		if asset.Price > 0 {
			if !user.CanDebit(asset.Price) {
				return errs.NewInsufficientBalanceError(userID, entity.FormatCoins(asset.Price), user.FormattedBalance())
			}
		}

		// The UPDATE carries the stock guard, so this is the authoritative
		// check against concurrent buyers
		if err := s.uow.GetAssetRepository(txCtx).ReserveUnit(txCtx, asset.ID); err != nil {
			return err
		}

		now := s.timeProvider.Now()
		holding := entity.NewHolding(userID, asset, now)

		holdingRepo := s.uow.GetHoldingRepository(txCtx)
		if err := holdingRepo.Create(txCtx, holding); err != nil {
			return err
		}

		rate := asset.HourlyReturn()
		if asset.Type == entity.AssetWorker {
			previousRate, err := s.retirePreviousWorker(txCtx, userID, holdingRepo)
			if err != nil {
				return err
			}
			user.EquipWorker(asset.Name, rate, previousRate)
		} else {
			user.AddRateContribution(rate)
		}

		if asset.Price > 0 {
			if err := s.store.Debit(txCtx, user, asset.Price, entity.ReasonPurchase, asset.Name); err != nil {
				return err
			}
		} else {
			if err := userRepo.Update(txCtx, user); err != nil {
				return err
			}
		}

		s.logger.Info("Asset purchased", map[string]any{
			"user_id":    userID,
			"asset_name": asset.Name,
			"asset_type": string(asset.Type),
			"price":      entity.FormatCoins(asset.Price),
		})

		result = &usecase.PurchaseResult{
			Holding:    holding,
			Balance:    user.FormattedBalance(),
			MiningRate: entity.FormatCoins(user.MiningRate),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// retirePreviousWorker expires the currently equipped worker holding, if any,
// and returns its rate contribution. A user has at most one active worker.
func (s *Service) retirePreviousWorker(txCtx context.Context, userID uint64, holdingRepo persistence.HoldingRepository) (int64, error) {
	previous, err := holdingRepo.ActiveWorkerByUser(txCtx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if err := previous.MarkExpired(s.timeProvider.Now()); err != nil {
		return 0, err
	}
	if err := holdingRepo.Update(txCtx, previous); err != nil {
		return 0, err
	}
	return previous.HourlyReturn, nil
}

// CreateAsset adds a new asset definition to the catalog
func (s *Service) CreateAsset(ctx context.Context, input usecase.AssetInput) (*entity.Asset, error) {
	asset, err := s.assetFromInput(input)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	if err := s.uow.GetAssetRepository(ctx).Create(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("Asset created", map[string]any{
		"asset_name": asset.Name,
		"asset_type": string(asset.Type),
	})
	return asset, nil
}

// UpdateAsset modifies an existing asset definition. Units already sold are
// preserved; holdings keep the terms they were bought under.
func (s *Service) UpdateAsset(ctx context.Context, assetID uint64, input usecase.AssetInput) (*entity.Asset, error) {
	repo := s.uow.GetAssetRepository(ctx)
	existing, err := repo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	updated, err := s.assetFromInput(input)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.UnitsSold = existing.UnitsSold
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.timeProvider.Now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAsset removes an asset from the catalog
func (s *Service) DeleteAsset(ctx context.Context, assetID uint64) error {
	return s.uow.GetAssetRepository(ctx).Delete(ctx, assetID)
}

func (s *Service) assetFromInput(input usecase.AssetInput) (*entity.Asset, error) {
	price, err := entity.ParseCoinAmount(input.Price)
	if err != nil {
		return nil, err
	}

	asset := &entity.Asset{
		Name:          input.Name,
		Type:          entity.AssetType(input.Type),
		Price:         price,
		StockLimit:    input.StockLimit,
		LifecycleDays: input.LifecycleDays,
		Icon:          input.Icon,
	}

	if input.Rate != "" {
		if asset.Rate, err = entity.ParseCoinAmount(input.Rate); err != nil {
			return nil, err
		}
	}
	if input.MonthlyProfit != "" {
		if asset.MonthlyProfit, err = entity.ParseCoinAmount(input.MonthlyProfit); err != nil {
			return nil, err
		}
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return asset, nil
}
