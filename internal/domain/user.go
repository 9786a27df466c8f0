package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency describes the unit a user's balance and transactions are kept in.
// Rate is the currency's value relative to the common reference unit (USD).
type Currency struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// User represents a registered account and its financial state.
//
// Balance and Currency are nil until the user completes initial balance
// entry; every balance-affecting operation requires both to be set, and
// the two always share the same unit.
type User struct {
	ID           uuid.UUID        `json:"id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	PasswordHash string           `json:"-"` // Never expose password hash in JSON
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	Currency     *Currency        `json:"currency,omitempty"`
	Score        decimal.Decimal  `json:"score"`
	Premium      bool             `json:"premium"`
	DeviceToken  string           `json:"-"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Initialized reports whether the user has completed initial balance entry.
func (u *User) Initialized() bool {
	return u.Balance != nil && u.Currency != nil
}
