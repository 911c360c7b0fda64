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

// DepositRepository implements persistence.DepositRepository using GORM
type DepositRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewDepositRepository creates a new DepositRepository instance
func NewDepositRepository(db *gorm.DB, logger coreport.Logger) *DepositRepository {
	return &DepositRepository{
		db:     db,
		logger: logger,
	}
}

func modelToDepositEntity(m *model.DepositRequest) *entity.DepositRequest {
	return &entity.DepositRequest{
		ID:            m.ID,
		UserID:        m.UserID,
		AmountBDT:     m.AmountBDT,
		Amount:        m.Amount,
		Method:        entity.PaymentMethod(m.Method),
		SenderNumber:  m.SenderNumber,
		TransactionID: m.TransactionID,
		Status:        entity.RequestStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		ResolvedAt:    m.ResolvedAt,
	}
}

func depositEntityToModel(r *entity.DepositRequest) *model.DepositRequest {
	return &model.DepositRequest{
		ID:            r.ID,
		UserID:        r.UserID,
		AmountBDT:     r.AmountBDT,
		Amount:        r.Amount,
		Method:        string(r.Method),
		SenderNumber:  r.SenderNumber,
		TransactionID: r.TransactionID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		ResolvedAt:    r.ResolvedAt,
	}
}

func (r *DepositRepository) handleDatabaseError(operation string, err error, trxID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrRequestNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"transaction_id": trxID,
		"error":          err.Error(),
	})

	if isDuplicateKey(err) {
		return errs.ErrDuplicateTransaction
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create persists a new deposit request. The unique index on the
// transaction id turns a replay race into ErrDuplicateTransaction.
func (r *DepositRepository) Create(ctx context.Context, request *entity.DepositRequest) error {
	m := depositEntityToModel(request)
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return r.handleDatabaseError("creating deposit request", result.Error, request.TransactionID)
	}
	request.ID = m.ID
	return nil
}

// GetByID retrieves a deposit request by ID
func (r *DepositRepository) GetByID(ctx context.Context, id uint64) (*entity.DepositRequest, error) {
	var m model.DepositRequest
	if result := r.db.WithContext(ctx).First(&m, id); result.Error != nil {
		return nil, r.handleDatabaseError("getting deposit request", result.Error, "")
	}
	return modelToDepositEntity(&m), nil
}

// GetForUpdate retrieves a deposit request with a FOR UPDATE row lock
func (r *DepositRepository) GetForUpdate(ctx context.Context, id uint64) (*entity.DepositRequest, error) {
	var m model.DepositRequest
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking deposit request", result.Error, "")
	}
	return modelToDepositEntity(&m), nil
}

// TransactionIDExists reports whether a transaction id was already used
func (r *DepositRepository) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.DepositRequest{}).
		Where("transaction_id = ?", transactionID).
		Count(&count)
	if result.Error != nil {
		return false, r.handleDatabaseError("checking transaction id", result.Error, transactionID)
	}
	return count > 0, nil
}

// Update persists a status change
func (r *DepositRepository) Update(ctx context.Context, request *entity.DepositRequest) error {
	result := r.db.WithContext(ctx).Model(&model.DepositRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]any{
			"status":      string(request.Status),
			"resolved_at": request.ResolvedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating deposit request", result.Error, request.TransactionID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRequestNotFound
	}
	return nil
}

// ListByUser returns a user's deposit requests, newest first
func (r *DepositRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	var models []model.DepositRequest
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing deposit requests", result.Error, "")
	}
	return modelsToDepositEntities(models), nil
}

// ListByStatus returns all deposit requests in a status, oldest first
func (r *DepositRepository) ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.DepositRequest, error) {
	var models []model.DepositRequest
	result := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing deposit requests by status", result.Error, "")
	}
	return modelsToDepositEntities(models), nil
}

func modelsToDepositEntities(models []model.DepositRequest) []*entity.DepositRequest {
	requests := make([]*entity.DepositRequest, 0, len(models))
	for i := range models {
		requests = append(requests, modelToDepositEntity(&models[i]))
	}
	return requests
}

// WithdrawalRepository implements persistence.WithdrawalRepository using GORM
type WithdrawalRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewWithdrawalRepository creates a new WithdrawalRepository instance
func NewWithdrawalRepository(db *gorm.DB, logger coreport.Logger) *WithdrawalRepository {
	return &WithdrawalRepository{
		db:     db,
		logger: logger,
	}
}

func modelToWithdrawalEntity(m *model.WithdrawalRequest) *entity.WithdrawalRequest {
	return &entity.WithdrawalRequest{
		ID:           m.ID,
		UserID:       m.UserID,
		Amount:       m.Amount,
		AmountBDT:    m.AmountBDT,
		Method:       entity.PaymentMethod(m.Method),
		PayoutNumber: m.PayoutNumber,
		Status:       entity.RequestStatus(m.Status),
		Refunded:     m.Refunded,
		CreatedAt:    m.CreatedAt,
		ResolvedAt:   m.ResolvedAt,
	}
}

func withdrawalEntityToModel(r *entity.WithdrawalRequest) *model.WithdrawalRequest {
	return &model.WithdrawalRequest{
		ID:           r.ID,
		UserID:       r.UserID,
		Amount:       r.Amount,
		AmountBDT:    r.AmountBDT,
		Method:       string(r.Method),
		PayoutNumber: r.PayoutNumber,
		Status:       string(r.Status),
		Refunded:     r.Refunded,
		CreatedAt:    r.CreatedAt,
		ResolvedAt:   r.ResolvedAt,
	}
}

func (r *WithdrawalRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrRequestNotFound
	}
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create persists a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	m := withdrawalEntityToModel(request)
	if result := r.db.WithContext(ctx).Create(m); result.Error != nil {
		return r.handleDatabaseError("creating withdrawal request", result.Error)
	}
	request.ID = m.ID
	return nil
}

// GetByID retrieves a withdrawal request by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error) {
	var m model.WithdrawalRequest
	if result := r.db.WithContext(ctx).First(&m, id); result.Error != nil {
		return nil, r.handleDatabaseError("getting withdrawal request", result.Error)
	}
	return modelToWithdrawalEntity(&m), nil
}

// GetForUpdate retrieves a withdrawal request with a FOR UPDATE row lock
func (r *WithdrawalRepository) GetForUpdate(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error) {
	var m model.WithdrawalRequest
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking withdrawal request", result.Error)
	}
	return modelToWithdrawalEntity(&m), nil
}

// Update persists a status change
func (r *WithdrawalRepository) Update(ctx context.Context, request *entity.WithdrawalRequest) error {
	result := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]any{
			"status":      string(request.Status),
			"refunded":    request.Refunded,
			"resolved_at": request.ResolvedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating withdrawal request", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRequestNotFound
	}
	return nil
}

// ListByUser returns a user's withdrawal requests, newest first
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error) {
	var models []model.WithdrawalRequest
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing withdrawal requests", result.Error)
	}
	return modelsToWithdrawalEntities(models), nil
}

// ListByStatus returns all withdrawal requests in a status, oldest first
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.WithdrawalRequest, error) {
	var models []model.WithdrawalRequest
	result := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing withdrawal requests by status", result.Error)
	}
	return modelsToWithdrawalEntities(models), nil
}

func modelsToWithdrawalEntities(models []model.WithdrawalRequest) []*entity.WithdrawalRequest {
	requests := make([]*entity.WithdrawalRequest, 0, len(models))
	for i := range models {
		requests = append(requests, modelToWithdrawalEntity(&models[i]))
	}
	return requests
}
