package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// modelToEntity converts a user model to an entity
func modelToUserEntity(userModel *model.User) *entity.User {
	return entity.UserFromRecord(entity.UserRecord{
		ID:            userModel.ID,
		Email:         userModel.Email,
		Status:        userModel.Status,
		Badge:         userModel.Badge,
		Balance:       userModel.Balance,
		MiningRate:    userModel.MiningRate,
		WorkerLevel:   userModel.WorkerLevel,
		ReferralCode:  userModel.ReferralCode,
		ReferrerID:    userModel.ReferrerID,
		ReferralCount: userModel.ReferralCount,
		LastAccrualAt: userModel.LastAccrualAt,
		AccrualCarry:  userModel.AccrualCarry,
		CreatedAt:     userModel.CreatedAt,
		UpdatedAt:     userModel.UpdatedAt,
	})
}

// entityToModel converts a user entity to its database model
func userEntityToModel(user *entity.User) *model.User {
	return &model.User{
		ID:            user.ID,
		Email:         user.Email,
		Status:        string(user.Status),
		Badge:         string(user.Badge),
		Balance:       user.Balance(),
		MiningRate:    user.MiningRate,
		WorkerLevel:   user.WorkerLevel,
		ReferralCode:  user.ReferralCode,
		ReferrerID:    user.ReferrerID,
		ReferralCount: user.ReferralCount,
		LastAccrualAt: user.LastAccrualAt,
		AccrualCarry:  user.AccrualCarry,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Debug("User not found", map[string]any{
			"user_id": userID,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if isDuplicateKey(err) {
		return errs.ErrDuplicateUser
	}

	if isLockConflict(err) {
		return errs.ErrUserLocked
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}
	return modelToUserEntity(&userModel), nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by email", result.Error, 0)
	}
	return modelToUserEntity(&userModel), nil
}

// GetByReferralCode retrieves a user by their referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by referral code", result.Error, 0)
	}
	return modelToUserEntity(&userModel), nil
}

// GetForUpdate retrieves a user with a FOR UPDATE row lock.
// Must run inside a transaction; outside one the lock is meaningless.
func (r *UserRepository) GetForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking user", result.Error, id)
	}
	return modelToUserEntity(&userModel), nil
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := userEntityToModel(user)
	result := r.db.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error, user.ID)
	}

	// Propagate the generated ID back to the entity
	user.ID = userModel.ID

	r.logger.Debug("User created", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// Update persists changes to an existing user
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := userEntityToModel(user)
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":           userModel.Email,
			"status":          userModel.Status,
			"badge":           userModel.Badge,
			"balance":         userModel.Balance,
			"mining_rate":     userModel.MiningRate,
			"worker_level":    userModel.WorkerLevel,
			"referrer_id":     userModel.ReferrerID,
			"referral_count":  userModel.ReferralCount,
			"last_accrual_at": userModel.LastAccrualAt,
			"accrual_carry":   userModel.AccrualCarry,
			"updated_at":      userModel.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error, user.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// Delete removes a user account
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("deleting user", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// List returns all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	var models []model.User
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing users", result.Error, 0)
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, modelToUserEntity(&models[i]))
	}
	return users, nil
}
