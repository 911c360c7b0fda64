package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/litepremium/coin-engine/internal/domain/entity"
	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/litepremium/coin-engine/internal/domain/port/persistence"
)

// MemoryUnitOfWork is an in-memory implementation of the persistence layer
// for use-case tests. Transactions are serialized: Begin takes a snapshot of
// all state, Rollback restores it and Commit discards it. Entities are stored
// and returned by value so callers can't mutate stored state without going
// through Update, mirroring how a real database behaves.
type MemoryUnitOfWork struct {
	mu   sync.Mutex // guards all maps
	txMu sync.Mutex // one open transaction at a time

	users       map[uint64]entity.User
	assets      map[uint64]entity.Asset
	holdings    map[uint64]entity.Holding
	deposits    map[uint64]entity.DepositRequest
	withdrawals map[uint64]entity.WithdrawalRequest
	entries     []entity.LedgerEntry
	settings    *entity.Settings

	nextUserID       uint64
	nextAssetID      uint64
	nextHoldingID    uint64
	nextDepositID    uint64
	nextWithdrawalID uint64

	snapshot *memorySnapshot
}

type memorySnapshot struct {
	users       map[uint64]entity.User
	assets      map[uint64]entity.Asset
	holdings    map[uint64]entity.Holding
	deposits    map[uint64]entity.DepositRequest
	withdrawals map[uint64]entity.WithdrawalRequest
	entries     []entity.LedgerEntry
	settings    *entity.Settings

	nextUserID       uint64
	nextAssetID      uint64
	nextHoldingID    uint64
	nextDepositID    uint64
	nextWithdrawalID uint64
}

// NewMemoryUnitOfWork creates an empty in-memory persistence layer
func NewMemoryUnitOfWork() *MemoryUnitOfWork {
	return &MemoryUnitOfWork{
		users:       make(map[uint64]entity.User),
		assets:      make(map[uint64]entity.Asset),
		holdings:    make(map[uint64]entity.Holding),
		deposits:    make(map[uint64]entity.DepositRequest),
		withdrawals: make(map[uint64]entity.WithdrawalRequest),
	}
}

// Begin opens a transaction by locking out other transactions and taking a
// snapshot for rollback
func (m *MemoryUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	m.txMu.Lock()
	m.mu.Lock()
	m.snapshot = m.takeSnapshot()
	m.mu.Unlock()
	return ctx, nil
}

// Commit discards the snapshot and releases the transaction lock
func (m *MemoryUnitOfWork) Commit(ctx context.Context) error {
	m.mu.Lock()
	m.snapshot = nil
	m.mu.Unlock()
	m.txMu.Unlock()
	return nil
}

// Rollback restores the snapshot and releases the transaction lock
func (m *MemoryUnitOfWork) Rollback(ctx context.Context) error {
	m.mu.Lock()
	if s := m.snapshot; s != nil {
		m.users = s.users
		m.assets = s.assets
		m.holdings = s.holdings
		m.deposits = s.deposits
		m.withdrawals = s.withdrawals
		m.entries = s.entries
		m.settings = s.settings
		m.nextUserID = s.nextUserID
		m.nextAssetID = s.nextAssetID
		m.nextHoldingID = s.nextHoldingID
		m.nextDepositID = s.nextDepositID
		m.nextWithdrawalID = s.nextWithdrawalID
		m.snapshot = nil
	}
	m.mu.Unlock()
	m.txMu.Unlock()
	return nil
}

func (m *MemoryUnitOfWork) takeSnapshot() *memorySnapshot {
	s := &memorySnapshot{
		users:            make(map[uint64]entity.User, len(m.users)),
		assets:           make(map[uint64]entity.Asset, len(m.assets)),
		holdings:         make(map[uint64]entity.Holding, len(m.holdings)),
		deposits:         make(map[uint64]entity.DepositRequest, len(m.deposits)),
		withdrawals:      make(map[uint64]entity.WithdrawalRequest, len(m.withdrawals)),
		entries:          append([]entity.LedgerEntry(nil), m.entries...),
		nextUserID:       m.nextUserID,
		nextAssetID:      m.nextAssetID,
		nextHoldingID:    m.nextHoldingID,
		nextDepositID:    m.nextDepositID,
		nextWithdrawalID: m.nextWithdrawalID,
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.assets {
		s.assets[k] = v
	}
	for k, v := range m.holdings {
		s.holdings[k] = v
	}
	for k, v := range m.deposits {
		s.deposits[k] = v
	}
	for k, v := range m.withdrawals {
		s.withdrawals[k] = v
	}
	if m.settings != nil {
		cp := *m.settings
		s.settings = &cp
	}
	return s
}

// GetUserRepository returns the in-memory user repository
func (m *MemoryUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return (*memoryUserRepo)(m)
}

// GetAssetRepository returns the in-memory asset repository
func (m *MemoryUnitOfWork) GetAssetRepository(ctx context.Context) persistence.AssetRepository {
	return (*memoryAssetRepo)(m)
}

// GetHoldingRepository returns the in-memory holding repository
func (m *MemoryUnitOfWork) GetHoldingRepository(ctx context.Context) persistence.HoldingRepository {
	return (*memoryHoldingRepo)(m)
}

// GetDepositRepository returns the in-memory deposit repository
func (m *MemoryUnitOfWork) GetDepositRepository(ctx context.Context) persistence.DepositRepository {
	return (*memoryDepositRepo)(m)
}

// GetWithdrawalRepository returns the in-memory withdrawal repository
func (m *MemoryUnitOfWork) GetWithdrawalRepository(ctx context.Context) persistence.WithdrawalRepository {
	return (*memoryWithdrawalRepo)(m)
}

// GetLedgerRepository returns the in-memory ledger repository
func (m *MemoryUnitOfWork) GetLedgerRepository(ctx context.Context) persistence.LedgerRepository {
	return (*memoryLedgerRepo)(m)
}

// GetSettingsRepository returns the in-memory settings repository
func (m *MemoryUnitOfWork) GetSettingsRepository(ctx context.Context) persistence.SettingsRepository {
	return (*memorySettingsRepo)(m)
}

// SeedUser inserts a user directly, bypassing the repository contract.
// Returns the assigned ID.
func (m *MemoryUnitOfWork) SeedUser(user *entity.User) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.ID] = *user
	return user.ID
}

// SeedAsset inserts an asset directly. Returns the assigned ID.
func (m *MemoryUnitOfWork) SeedAsset(asset *entity.Asset) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAssetID++
	asset.ID = m.nextAssetID
	m.assets[asset.ID] = *asset
	return asset.ID
}

// SeedSettings installs a settings singleton
func (m *MemoryUnitOfWork) SeedSettings(settings *entity.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	if cp.ID == 0 {
		cp.ID = 1
	}
	m.settings = &cp
}

// User repository

type memoryUserRepo MemoryUnitOfWork

func (r *memoryUserRepo) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *memoryUserRepo) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ReferralCode == code {
			cp := u
			return &cp, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *memoryUserRepo) GetForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.ReferralCode == user.ReferralCode {
			return errs.ErrDuplicateUser
		}
	}
	r.nextUserID++
	user.ID = r.nextUserID
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errs.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return errs.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Asset repository

type memoryAssetRepo MemoryUnitOfWork

func (r *memoryAssetRepo) GetByID(ctx context.Context, id uint64) (*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, errs.ErrAssetNotFound
	}
	return &a, nil
}

func (r *memoryAssetRepo) GetByName(ctx context.Context, name string) (*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.Name == name {
			cp := a
			return &cp, nil
		}
	}
	return nil, errs.ErrAssetNotFound
}

func (r *memoryAssetRepo) List(ctx context.Context) ([]*entity.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		cp := a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r *memoryAssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assets {
		if a.Name == asset.Name {
			return errs.ErrDuplicateAsset
		}
	}
	r.nextAssetID++
	asset.ID = r.nextAssetID
	r.assets[asset.ID] = *asset
	return nil
}

func (r *memoryAssetRepo) Update(ctx context.Context, asset *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[asset.ID]; !ok {
		return errs.ErrAssetNotFound
	}
	r.assets[asset.ID] = *asset
	return nil
}

func (r *memoryAssetRepo) Delete(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return errs.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

func (r *memoryAssetRepo) ReserveUnit(ctx context.Context, assetID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[assetID]
	if !ok {
		return errs.ErrAssetNotFound
	}
	if a.StockLimit != 0 && a.UnitsSold >= a.StockLimit {
		return errs.ErrSoldOut
	}
	a.UnitsSold++
	r.assets[assetID] = a
	return nil
}

// Holding repository

type memoryHoldingRepo MemoryUnitOfWork

func (r *memoryHoldingRepo) Create(ctx context.Context, holding *entity.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextHoldingID++
	holding.ID = r.nextHoldingID
	r.holdings[holding.ID] = *holding
	return nil
}

func (r *memoryHoldingRepo) Update(ctx context.Context, holding *entity.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[holding.ID]; !ok {
		return errs.ErrNotFound
	}
	r.holdings[holding.ID] = *holding
	return nil
}

func (r *memoryHoldingRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Holding, 0)
	for _, h := range r.holdings {
		if h.UserID == userID {
			cp := h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryHoldingRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]*entity.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Holding, 0)
	for _, h := range r.holdings {
		if h.UserID == userID && h.Status == entity.HoldingActive {
			cp := h
			out = append(out, &cp)
		}
	}
	// Expiring holdings first, soonest expiry first; never-expiring last
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ExpiresAt.IsZero() && b.ExpiresAt.IsZero():
			return a.ID < b.ID
		case a.ExpiresAt.IsZero():
			return false
		case b.ExpiresAt.IsZero():
			return true
		default:
			return a.ExpiresAt.Before(b.ExpiresAt)
		}
	})
	return out, nil
}

func (r *memoryHoldingRepo) ActiveWorkerByUser(ctx context.Context, userID uint64) (*entity.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.holdings {
		if h.UserID == userID && h.Status == entity.HoldingActive && h.AssetType == entity.AssetWorker {
			cp := h
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Deposit repository

type memoryDepositRepo MemoryUnitOfWork

func (r *memoryDepositRepo) Create(ctx context.Context, request *entity.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deposits {
		if d.TransactionID == request.TransactionID {
			return errs.ErrDuplicateTransaction
		}
	}
	r.nextDepositID++
	request.ID = r.nextDepositID
	r.deposits[request.ID] = *request
	return nil
}

func (r *memoryDepositRepo) GetByID(ctx context.Context, id uint64) (*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[id]
	if !ok {
		return nil, errs.ErrRequestNotFound
	}
	return &d, nil
}

func (r *memoryDepositRepo) GetForUpdate(ctx context.Context, id uint64) (*entity.DepositRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryDepositRepo) TransactionIDExists(ctx context.Context, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deposits {
		if d.TransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryDepositRepo) Update(ctx context.Context, request *entity.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[request.ID]; !ok {
		return errs.ErrRequestNotFound
	}
	r.deposits[request.ID] = *request
	return nil
}

func (r *memoryDepositRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.DepositRequest, 0)
	for _, d := range r.deposits {
		if d.UserID == userID {
			cp := d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryDepositRepo) ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.DepositRequest, 0)
	for _, d := range r.deposits {
		if d.Status == status {
			cp := d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Withdrawal repository

type memoryWithdrawalRepo MemoryUnitOfWork

func (r *memoryWithdrawalRepo) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextWithdrawalID++
	request.ID = r.nextWithdrawalID
	r.withdrawals[request.ID] = *request
	return nil
}

func (r *memoryWithdrawalRepo) GetByID(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, errs.ErrRequestNotFound
	}
	return &w, nil
}

func (r *memoryWithdrawalRepo) GetForUpdate(ctx context.Context, id uint64) (*entity.WithdrawalRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryWithdrawalRepo) Update(ctx context.Context, request *entity.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.withdrawals[request.ID]; !ok {
		return errs.ErrRequestNotFound
	}
	r.withdrawals[request.ID] = *request
	return nil
}

func (r *memoryWithdrawalRepo) ListByUser(ctx context.Context, userID uint64) ([]*entity.WithdrawalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.WithdrawalRequest, 0)
	for _, w := range r.withdrawals {
		if w.UserID == userID {
			cp := w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryWithdrawalRepo) ListByStatus(ctx context.Context, status entity.RequestStatus) ([]*entity.WithdrawalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.WithdrawalRequest, 0)
	for _, w := range r.withdrawals {
		if w.Status == status {
			cp := w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ledger repository

type memoryLedgerRepo MemoryUnitOfWork

func (r *memoryLedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uint64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryLedgerRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*entity.LedgerEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			cp := r.entries[i]
			matched = append(matched, &cp)
		}
	}
	if offset >= len(matched) {
		return []*entity.LedgerEntry{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryLedgerRepo) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Settings repository

type memorySettingsRepo MemoryUnitOfWork

func (r *memorySettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, errs.ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *memorySettingsRepo) Save(ctx context.Context, settings *entity.Settings, expectedVersion uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil || r.settings.Version != expectedVersion {
		return errs.ErrSettingsConflict
	}
	cp := *settings
	r.settings = &cp
	return nil
}

func (r *memorySettingsRepo) Seed(ctx context.Context, settings *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		cp := *settings
		if cp.ID == 0 {
			cp.ID = 1
		}
		r.settings = &cp
	}
	return nil
}
