package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
)

// Settings field names accepted by UpdateField
const (
	SettingExchangeRate  = "exchange_rate"
	SettingMinWithdrawal = "min_withdrawal"
	SettingMinDeposit    = "min_deposit"
	SettingReferralBonus = "referral_bonus"
	SettingSignupBonus   = "signup_bonus"
	SettingCashInNumber  = "cash_in_number"
)

// Settings is the versioned singleton of operator-tunable constants.
// All monetary fields are cents; ExchangeRate is cents per BDT unit.
// Version increments on every write so concurrent admin edits are detected.
type Settings struct {
	ID            uint64
	ExchangeRate  int64 // coin cents per 1 BDT
	MinWithdrawal int64 // coin cents
	MinDeposit    int64 // BDT cents
	ReferralBonus int64 // cents
	SignupBonus   int64 // cents
	CashInNumber  string
	Version       uint64
	UpdatedAt     time.Time
}

// DefaultSettings returns the seed configuration
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		ExchangeRate:  100,    // 1 coin = 1 BDT
		MinWithdrawal: 720000, // 7200 coins
		MinDeposit:    10000,  // 100 BDT
		ReferralBonus: 72000,  // 720 coins
		SignupBonus:   1000,   // 10 coins
		CashInNumber:  "01700000000",
		Version:       1,
		UpdatedAt:     now,
	}
}

// CoinsForBDT converts a BDT amount in cents to coin cents at the current rate
func (s *Settings) CoinsForBDT(bdtCents int64) int64 {
	return bdtCents * s.ExchangeRate / 100
}

// BDTForCoins converts coin cents to a BDT amount in cents at the current rate
func (s *Settings) BDTForCoins(coinCents int64) int64 {
	if s.ExchangeRate == 0 {
		return 0
	}
	return coinCents * 100 / s.ExchangeRate
}

// UpdateField applies a single named change and bumps the version.
// Monetary fields take decimal strings, cash_in_number takes the raw value.
func (s *Settings) UpdateField(field, value string, now time.Time) error {
	field = strings.ToLower(strings.TrimSpace(field))

	if field == SettingCashInNumber {
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("%w: cash in number is required", errs.ErrInvalidRequest)
		}
		s.CashInNumber = value
		s.Version++
		s.UpdatedAt = now
		return nil
	}

	cents, err := ParseCoinAmount(value)
	if err != nil {
		return err
	}

	switch field {
	case SettingExchangeRate:
		if cents == 0 {
			return fmt.Errorf("%w: exchange rate must be positive", errs.ErrInvalidAmount)
		}
		s.ExchangeRate = cents
	case SettingMinWithdrawal:
		s.MinWithdrawal = cents
	case SettingMinDeposit:
		s.MinDeposit = cents
	case SettingReferralBonus:
		s.ReferralBonus = cents
	case SettingSignupBonus:
		s.SignupBonus = cents
	default:
		return fmt.Errorf("%w: unknown settings field %q", errs.ErrInvalidRequest, field)
	}

	s.Version++
	s.UpdatedAt = now
	return nil
}
