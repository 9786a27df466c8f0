package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain"
	"fintrack/internal/money"
)

// LedgerService owns every balance-affecting mutation for a single
// user: initial balance entry, transaction recording, currency changes,
// score accrual, premium and reminders. All monetary amounts are kept
// rounded to 2 decimal places, scores to 3.
type LedgerService struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
	reminders    domain.ReminderRepository
	rates        *RateService
	feed         *LedgerFeed
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	users domain.UserRepository,
	transactions domain.TransactionRepository,
	reminders domain.ReminderRepository,
	rates *RateService,
	feed *LedgerFeed,
) *LedgerService {
	return &LedgerService{
		users:        users,
		transactions: transactions,
		reminders:    reminders,
		rates:        rates,
		feed:         feed,
	}
}

// SetInitialBalance sets balance and currency once, completing
// onboarding. A second call fails with ErrAlreadyInitialized.
func (s *LedgerService) SetInitialBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currencyCode string) (*domain.User, error) {
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: initial balance must not be negative", domain.ErrInvalidInput)
	}

	currency, ok := s.rates.Currency(currencyCode)
	if !ok {
		return nil, domain.ErrUnknownCurrency
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user.Initialized() {
		return nil, domain.ErrAlreadyInitialized
	}

	balance := money.RoundAmount(amount)
	if err := s.users.SetInitialBalance(ctx, userID, balance, currency); err != nil {
		return nil, storeErr(err)
	}

	user.Balance = &balance
	user.Currency = &currency
	s.publish(ctx, userID)

	slog.Info("Initial balance set", "user_id", userID, "currency", currency.Code)
	return user, nil
}

// RecordTransaction appends a transaction and adjusts the balance:
// minus the amount for an expense, plus for an income. Fails with
// ErrUninitialized before onboarding completes.
func (s *LedgerService) RecordTransaction(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, category, direction string) (*domain.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if !domain.ValidCategory(direction, category) {
		return nil, fmt.Errorf("%w: unknown category %q for direction %q", domain.ErrInvalidInput, category, direction)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !user.Initialized() {
		return nil, domain.ErrUninitialized
	}

	rounded := money.RoundAmount(amount)
	var newBalance decimal.Decimal
	if direction == domain.DirectionExpense {
		newBalance = user.Balance.Sub(rounded)
	} else {
		newBalance = user.Balance.Add(rounded)
	}

	transaction := &domain.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     rounded,
		Category:   category,
		Direction:  direction,
		OccurredAt: time.Now(),
	}

	if err := s.transactions.Apply(ctx, transaction, newBalance); err != nil {
		return nil, storeErr(err)
	}

	s.publish(ctx, userID)
	return transaction, nil
}

// ChangeCurrency converts the balance and every historical transaction
// amount from the old rate to the new one, then swaps the currency.
// The rewrite is applied as a single atomic store write so no reader
// observes a half-converted history.
func (s *LedgerService) ChangeCurrency(ctx context.Context, userID uuid.UUID, currencyCode string) (*domain.User, error) {
	newCurrency, ok := s.rates.Currency(currencyCode)
	if !ok {
		return nil, domain.ErrUnknownCurrency
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !user.Initialized() {
		return nil, domain.ErrUninitialized
	}

	oldRate := user.Currency.Rate
	oldCode := user.Currency.Code
	newBalance := money.Convert(*user.Balance, oldRate, newCurrency.Rate)

	history, err := s.transactions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	rewrites := make([]domain.AmountRewrite, 0, len(history))
	for _, transaction := range history {
		rewrites = append(rewrites, domain.AmountRewrite{
			TransactionID: transaction.ID,
			Amount:        money.Convert(transaction.Amount, oldRate, newCurrency.Rate),
		})
	}

	if err := s.users.ChangeCurrency(ctx, userID, newBalance, newCurrency, rewrites); err != nil {
		return nil, storeErr(err)
	}

	user.Balance = &newBalance
	user.Currency = &newCurrency
	s.publish(ctx, userID)

	slog.Info("Currency changed",
		"user_id", userID,
		"from", oldCode,
		"to", newCurrency.Code,
		"transactions_rewritten", len(rewrites),
	)
	return user, nil
}

// AccrueScore adds one score point per 20 minutes of session activity,
// rounded to 3 decimal places. Score never decreases.
func (s *LedgerService) AccrueScore(ctx context.Context, userID uuid.UUID, secondsActive int64) (decimal.Decimal, error) {
	if secondsActive < 0 {
		return decimal.Zero, fmt.Errorf("%w: seconds active must not be negative", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, storeErr(err)
	}

	newScore := user.Score.Add(money.ScoreForDuration(secondsActive))
	if err := s.users.UpdateScore(ctx, userID, newScore); err != nil {
		return decimal.Zero, storeErr(err)
	}

	s.publish(ctx, userID)
	return newScore, nil
}

// GrantPremium sets the premium entitlement. Idempotent.
func (s *LedgerService) GrantPremium(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeErr(err)
	}
	if user.Premium {
		return nil
	}

	if err := s.users.SetPremium(ctx, userID, true); err != nil {
		return storeErr(err)
	}

	s.publish(ctx, userID)
	slog.Info("Premium granted", "user_id", userID)
	return nil
}

// AddReminder records a pending send/request note for the user.
func (s *LedgerService) AddReminder(ctx context.Context, userID uuid.UUID, direction, description string) (*domain.Reminder, error) {
	if direction != domain.ReminderSend && direction != domain.ReminderRequest {
		return nil, fmt.Errorf("%w: unknown reminder direction %q", domain.ErrInvalidInput, direction)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: reminder description must not be empty", domain.ErrInvalidInput)
	}

	reminder := &domain.Reminder{
		ID:          uuid.New(),
		UserID:      userID,
		Direction:   direction,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.reminders.Save(ctx, reminder); err != nil {
		return nil, storeErr(err)
	}

	return reminder, nil
}

// RemoveReminder deletes one reminder. Removing an id the user does not
// have fails with ErrReminderNotFound.
func (s *LedgerService) RemoveReminder(ctx context.Context, userID, reminderID uuid.UUID) error {
	if err := s.reminders.Delete(ctx, userID, reminderID); err != nil {
		if errors.Is(err, domain.ErrReminderNotFound) {
			return err
		}
		return storeErr(err)
	}
	return nil
}

// Reminders lists the user's pending reminders, newest first.
func (s *LedgerService) Reminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	reminders, err := s.reminders.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return reminders, nil
}

// Transactions lists the user's transaction history, newest first.
func (s *LedgerService) Transactions(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	transactions, err := s.transactions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return transactions, nil
}

// SetDeviceToken stores the user's push notification destination.
func (s *LedgerService) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.users.SetDeviceToken(ctx, userID, token); err != nil {
		return storeErr(err)
	}
	return nil
}

// publish loads the fresh snapshot and fans it out to feed subscribers.
// Best effort: a failed load only costs subscribers one update.
func (s *LedgerService) publish(ctx context.Context, userID uuid.UUID) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		slog.Warn("Failed to load snapshot for feed", "user_id", userID, "error", err)
		return
	}
	s.feed.Publish(user)
}

// storeErr maps a store failure to the error taxonomy: deadline
// overruns surface as ErrTimeout, everything else passes through.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
