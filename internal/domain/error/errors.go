package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount          = 4001
	CodeInsufficientBalance    = 4002
	CodeSoldOut                = 4003
	CodeDuplicateTransaction   = 4004
	CodeBelowMinimum           = 4005
	CodeInvalidStateTransition = 4006
	CodeInvalidUserID          = 4007
	CodeConstraintViolation    = 4008
	CodeUserBanned             = 4030
	CodeUnauthorized           = 4031
	CodeNotFound               = 4040
	CodeUserLocked             = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidAmount is returned when an amount is zero, negative or malformed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance is returned when a debit would drive the balance below zero
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSoldOut is returned when an asset has no remaining stock
	ErrSoldOut = errors.New("asset is sold out")

	// ErrDuplicateTransaction is returned when a deposit reuses a known transaction id
	ErrDuplicateTransaction = errors.New("transaction id already used")

	// ErrBelowMinimum is returned when a request amount is below the configured minimum
	ErrBelowMinimum = errors.New("amount below configured minimum")

	// ErrInvalidStateTransition is returned when a terminal request is resolved again
	ErrInvalidStateTransition = errors.New("request already resolved")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when a non-admin caller invokes an admin operation
	ErrUnauthorized = errors.New("operation requires admin privileges")

	// ErrUserBanned is returned when a banned account attempts a mutating operation
	ErrUserBanned = errors.New("user account is banned")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrAssetNotFound is returned when the requested asset doesn't exist
	ErrAssetNotFound = errors.New("asset not found")

	// ErrRequestNotFound is returned when the requested deposit/withdrawal doesn't exist
	ErrRequestNotFound = errors.New("request not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateAsset is returned when an asset name collides with an existing one
	ErrDuplicateAsset = errors.New("asset already exists")

	// ErrUserLocked is returned when a user row is locked by another operation
	ErrUserLocked = errors.New("user is locked by another operation")

	// ErrSettingsConflict is returned when a settings write lost a version race
	ErrSettingsConflict = errors.New("settings were modified concurrently")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrServiceShutdown is returned when an operation arrives after shutdown began
	ErrServiceShutdown = errors.New("service is shutting down")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrSoldOut):
		return CodeSoldOut
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrBelowMinimum):
		return CodeBelowMinimum
	case errors.Is(err, ErrInvalidStateTransition):
		return CodeInvalidStateTransition
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrUserBanned):
		return CodeUserBanned
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case IsNotFoundError(err):
		return CodeNotFound
	case errors.Is(err, ErrUserLocked):
		return CodeUserLocked
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	default:
		return CodeInternalServer
	}
}

// BalanceError carries context about a failed balance mutation
type BalanceError struct {
	UserID         uint64
	Amount         string
	CurrentBalance string
	Reason         string
	Err            error
}

// Error implements the error interface for BalanceError
func (e *BalanceError) Error() string {
	return fmt.Sprintf("balance operation failed for user %d (current balance: %s, amount: %s, reason: %s): %v",
		e.UserID, e.CurrentBalance, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *BalanceError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "balance_error",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrentBalance,
		"reason":          e.Reason,
		"error":           e.Err.Error(),
		"error_code":      ErrorCode(e.Err),
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID      uint64
	Amount      string
	CurrBalance string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %d: required %s, available %s",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, amount, currentBalance string) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// StateTransitionError reports an attempt to re-resolve a terminal request
type StateTransitionError struct {
	RequestID uint64
	Kind      string
	From      string
	To        string
}

// Error implements the error interface
func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("invalid %s request transition for id %d: %s -> %s",
		e.Kind, e.RequestID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidStateTransition
func (e *StateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// LogFields returns a map of fields for structured logging
func (e *StateTransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_state_transition",
		"request_id": e.RequestID,
		"kind":       e.Kind,
		"from":       e.From,
		"to":         e.To,
		"error_code": CodeInvalidStateTransition,
	}
}

// NewStateTransitionError creates a detailed state transition error
func NewStateTransitionError(kind string, requestID uint64, from, to string) error {
	return &StateTransitionError{
		RequestID: requestID,
		Kind:      kind,
		From:      from,
		To:        to,
	}
}

// DuplicateTransactionError provides detail about a replayed deposit proof
type DuplicateTransactionError struct {
	TransactionID string
	UserID        uint64
}

// Error implements the error interface
func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("duplicate transaction id %s submitted by user %d", e.TransactionID, e.UserID)
}

// Is checks if the target error is an ErrDuplicateTransaction
func (e *DuplicateTransactionError) Is(target error) bool {
	return target == ErrDuplicateTransaction
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateTransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "duplicate_transaction",
		"transaction_id": e.TransactionID,
		"user_id":        e.UserID,
		"error_code":     CodeDuplicateTransaction,
	}
}

// NewDuplicateTransactionError creates a new detailed duplicate transaction error
func NewDuplicateTransactionError(transactionID string, userID uint64) error {
	return &DuplicateTransactionError{
		TransactionID: transactionID,
		UserID:        userID,
	}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsStateTransitionError checks if the error is an invalid state transition
func IsStateTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidStateTransition)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsUserLockedError checks if the error is related to a locked user
func IsUserLockedError(err error) bool {
	return errors.Is(err, ErrUserLocked)
}
