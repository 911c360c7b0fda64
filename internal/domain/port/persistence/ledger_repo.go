package persistence

import (
	"context"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// LedgerRepository defines persistence operations for the append-only ledger
type LedgerRepository interface {
	// Append records a balance change. Entries are never updated or deleted.
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// ListByUser returns a page of a user's entries, newest first
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.LedgerEntry, error)

	// CountByUser returns the total number of entries for a user
	CountByUser(ctx context.Context, userID uint64) (int64, error)
}
