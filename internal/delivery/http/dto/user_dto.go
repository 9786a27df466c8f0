package dto

// CurrencyOutput represents a currency in API responses
type CurrencyOutput struct {
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol"`
	Rate   string `json:"rate"`
}

// UserOutput represents user details in API responses
type UserOutput struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Balance   *string         `json:"balance,omitempty"`
	Currency  *CurrencyOutput `json:"currency,omitempty"`
	Score     string          `json:"score"`
	Premium   bool            `json:"premium"`
}

// SetBalanceRequest represents the initial balance entry payload
type SetBalanceRequest struct {
	Amount       string `json:"amount" validate:"required"`
	CurrencyCode string `json:"currency_code" validate:"required"`
}

// RecordTransactionRequest represents the transaction entry payload
type RecordTransactionRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Direction string `json:"direction" validate:"required"`
}

// TransactionOutput represents a transaction in API responses
type TransactionOutput struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Category  string `json:"category"`
	Direction string `json:"direction"`
	Date      string `json:"date"`
}

// ChangeCurrencyRequest represents the currency change payload
type ChangeCurrencyRequest struct {
	CurrencyCode string `json:"currency_code" validate:"required"`
}

// ActivityRequest represents the score accrual payload
type ActivityRequest struct {
	SecondsActive int64 `json:"seconds_active" validate:"required"`
}

// ActivityResponse represents the score accrual result
type ActivityResponse struct {
	Score string `json:"score"`
}

// AddReminderRequest represents the reminder creation payload
type AddReminderRequest struct {
	Direction   string `json:"direction" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ReminderOutput represents a reminder in API responses
type ReminderOutput struct {
	ID          string `json:"id"`
	Direction   string `json:"direction"`
	Description string `json:"description"`
	Date        string `json:"date"`
}
