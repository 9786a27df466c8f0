// Package money holds the pure conversion and rounding arithmetic the
// ledger and transfer layers share.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are stored with 2 decimal places, scores with 3.
const (
	amountPlaces = 2
	scorePlaces  = 3
)

// Convert translates an amount between two rate bases:
// (amount / fromRate) * toRate, rounded to 2 decimal places half away
// from zero. Rates come from the trusted rate table, so a non-positive
// fromRate is a programming error and panics.
func Convert(amount, fromRate, toRate decimal.Decimal) decimal.Decimal {
	if fromRate.Sign() <= 0 {
		panic(fmt.Sprintf("money: non-positive fromRate %s", fromRate))
	}
	return amount.Div(fromRate).Mul(toRate).Round(amountPlaces)
}

// RoundAmount normalizes a monetary amount to 2 decimal places.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(amountPlaces)
}

// ScoreForDuration returns the score earned for a stretch of session
// activity: one point per 20 minutes, rounded to 3 decimal places.
func ScoreForDuration(secondsActive int64) decimal.Decimal {
	return decimal.NewFromInt(secondsActive).
		Div(decimal.NewFromInt(60 * 20)).
		Round(scorePlaces)
}
