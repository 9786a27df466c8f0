package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountRewrite carries a transaction's recomputed amount for a
// currency change.
type AmountRewrite struct {
	TransactionID uuid.UUID
	Amount        decimal.Decimal
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email (login path)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SearchByEmail retrieves every user matching the email. Transfers
	// use this to distinguish a missing recipient from an ambiguous one.
	SearchByEmail(ctx context.Context, email string) ([]*User, error)

	// SetInitialBalance sets balance and currency for a user
	SetInitialBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency Currency) error

	// UpdateScore updates a user's accumulated score
	UpdateScore(ctx context.Context, userID uuid.UUID, score decimal.Decimal) error

	// SetPremium sets the premium entitlement flag
	SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error

	// SetDeviceToken stores the push notification destination for a user
	SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error

	// ChangeCurrency swaps the user's currency and rewrites the balance
	// and every historical transaction amount in a single database
	// transaction, so no reader observes a half-converted history.
	ChangeCurrency(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency Currency, rewrites []AmountRewrite) error
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// Apply inserts the transaction and writes the adjusted balance as
	// one atomic database write.
	Apply(ctx context.Context, tx *Transaction, newBalance decimal.Decimal) error

	// GetByUserID retrieves all transactions for a user, newest first
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
}

// ReminderRepository defines the interface for reminder data operations
type ReminderRepository interface {
	// Save creates a new reminder
	Save(ctx context.Context, reminder *Reminder) error

	// GetByUserID retrieves all reminders for a user, newest first
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Reminder, error)

	// Delete removes a reminder owned by the user. Returns
	// ErrReminderNotFound when the id does not exist for that user.
	Delete(ctx context.Context, userID, reminderID uuid.UUID) error
}
