package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
)

// Coin amounts are handled as int64 cents throughout the engine to avoid
// floating point drift; the API boundary speaks decimal strings.

// MaxDecimalPlaces defines the maximum number of decimal places allowed for coin amounts
const MaxDecimalPlaces = 2

// ParseCoinAmount validates a decimal string and converts it to cents.
// String-based so "10", "10.5" and "10.50" all map to exact cent values:
// - no decimal point: append "00"
// - one digit after the point: append "0"
// - two digits: strip the point
// Negative and malformed values are rejected.
func ParseCoinAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, fmt.Errorf("%w: negative value", errs.ErrInvalidAmount)
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string
	if len(parts) == 1 {
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			integerValue = parts[0] + "00"
		case 1:
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// FormatCoins converts cents to a decimal string with two places.
// 1015 becomes "10.15", -50 becomes "-0.50".
func FormatCoins(cents int64) string {
	isNegative := cents < 0
	if isNegative {
		cents = -cents
	}

	amountStr := strconv.FormatInt(cents, 10)
	for len(amountStr) < 3 {
		amountStr = "0" + amountStr
	}

	decimalPos := len(amountStr) - 2
	wholePart := amountStr[:decimalPos]
	decimalPart := amountStr[decimalPos:]

	if isNegative {
		return "-" + wholePart + "." + decimalPart
	}
	return wholePart + "." + decimalPart
}
