package dto

import (
	"time"

	"github.com/litepremium/coin-engine/internal/domain/entity"
)

// SettingsResponse represents the operator settings in API responses
type SettingsResponse struct {
	ExchangeRate  string    `json:"exchangeRate"`
	MinWithdrawal string    `json:"minWithdrawal"`
	MinDeposit    string    `json:"minDeposit"`
	ReferralBonus string    `json:"referralBonus"`
	SignupBonus   string    `json:"signupBonus"`
	CashInNumber  string    `json:"cashInNumber"`
	Version       uint64    `json:"version"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewSettingsResponse maps the settings entity to its API representation
func NewSettingsResponse(settings *entity.Settings) SettingsResponse {
	return SettingsResponse{
		ExchangeRate:  entity.FormatCoins(settings.ExchangeRate),
		MinWithdrawal: entity.FormatCoins(settings.MinWithdrawal),
		MinDeposit:    entity.FormatCoins(settings.MinDeposit),
		ReferralBonus: entity.FormatCoins(settings.ReferralBonus),
		SignupBonus:   entity.FormatCoins(settings.SignupBonus),
		CashInNumber:  settings.CashInNumber,
		Version:       settings.Version,
		UpdatedAt:     settings.UpdatedAt,
	}
}

// UpdateSettingPayload represents a single settings field change
type UpdateSettingPayload struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}
