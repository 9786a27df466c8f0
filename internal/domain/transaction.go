package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction constants
const (
	DirectionExpense = "EXPENSE"
	DirectionIncome  = "INCOME"
)

// Expense category constants
const (
	CategoryFood          = "FOOD"
	CategoryTransport     = "TRANSPORT"
	CategoryShopping      = "SHOPPING"
	CategoryBills         = "BILLS"
	CategoryEntertainment = "ENTERTAINMENT"
	CategoryHealth        = "HEALTH"
	CategoryOtherExpense  = "OTHER"
)

// Income category constants
const (
	CategorySalary      = "SALARY"
	CategoryGift        = "GIFT"
	CategoryInvestment  = "INVESTMENT"
	CategoryOtherIncome = "OTHER"
)

// CategoryTransfer marks both sides of a peer-to-peer transfer:
// an income transaction on the recipient and an expense on the sender.
const CategoryTransfer = "TRANSFER"

var expenseCategories = map[string]bool{
	CategoryFood:          true,
	CategoryTransport:     true,
	CategoryShopping:      true,
	CategoryBills:         true,
	CategoryEntertainment: true,
	CategoryHealth:        true,
	CategoryOtherExpense:  true,
	CategoryTransfer:      true,
}

var incomeCategories = map[string]bool{
	CategorySalary:      true,
	CategoryGift:        true,
	CategoryInvestment:  true,
	CategoryOtherIncome: true,
	CategoryTransfer:    true,
}

// ValidCategory reports whether category belongs to the closed set for
// the given direction.
func ValidCategory(direction, category string) bool {
	switch direction {
	case DirectionExpense:
		return expenseCategories[category]
	case DirectionIncome:
		return incomeCategories[category]
	default:
		return false
	}
}

// Transaction is a single settled income or expense entry. Immutable
// once created, except for the amount rewrite applied by a currency
// change.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Direction  string          `json:"direction"`
	OccurredAt time.Time       `json:"occurred_at"`
}
