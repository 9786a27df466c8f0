package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
)

// memStore is an in-memory implementation of the three store interfaces
// used by the ledger. Setting err makes every call fail with it.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	transactions map[uuid.UUID][]*domain.Transaction
	reminders    map[uuid.UUID][]*domain.Reminder
	err          error
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*domain.User),
		transactions: make(map[uuid.UUID][]*domain.Transaction),
		reminders:    make(map[uuid.UUID][]*domain.Reminder),
	}
}

func (m *memStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) SearchByEmail(ctx context.Context, email string) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var matches []*domain.User
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (m *memStore) SetInitialBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency domain.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Balance = &balance
	user.Currency = &currency
	return nil
}

func (m *memStore) UpdateScore(ctx context.Context, userID uuid.UUID, score decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Score = score
	return nil
}

func (m *memStore) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Premium = premium
	return nil
}

func (m *memStore) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.DeviceToken = token
	return nil
}

func (m *memStore) ChangeCurrency(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency domain.Currency, rewrites []domain.AmountRewrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Balance = &balance
	user.Currency = &currency
	for _, rewrite := range rewrites {
		for _, transaction := range m.transactions[userID] {
			if transaction.ID == rewrite.TransactionID {
				transaction.Amount = rewrite.Amount
			}
		}
	}
	return nil
}

func (m *memStore) Apply(ctx context.Context, tx *domain.Transaction, newBalance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user, ok := m.users[tx.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Balance = &newBalance
	m.transactions[tx.UserID] = append([]*domain.Transaction{tx}, m.transactions[tx.UserID]...)
	return nil
}

func (m *memStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Transaction, len(m.transactions[userID]))
	copy(out, m.transactions[userID])
	return out, nil
}

func (m *memStore) Save(ctx context.Context, reminder *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reminders[reminder.UserID] = append([]*domain.Reminder{reminder}, m.reminders[reminder.UserID]...)
	return nil
}

func (m *memStore) remindersByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Reminder, len(m.reminders[userID]))
	copy(out, m.reminders[userID])
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, userID, reminderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, reminder := range m.reminders[userID] {
		if reminder.ID == reminderID {
			m.reminders[userID] = append(m.reminders[userID][:i], m.reminders[userID][i+1:]...)
			return nil
		}
	}
	return domain.ErrReminderNotFound
}

// reminderStore adapts memStore to the reminder interface, whose
// GetByUserID collides with the transaction interface's method.
type reminderStore struct{ *memStore }

func (r reminderStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	return r.remindersByUser(ctx, userID)
}

type staticRateSource struct {
	currencies []domain.Currency
	err        error
}

func (s staticRateSource) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.currencies, nil
}

func testCurrencies() []domain.Currency {
	return []domain.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: decimal.NewFromFloat(1.0)},
		{Code: "EUR", Name: "Euro", Symbol: "€", Rate: decimal.NewFromFloat(0.9)},
		{Code: "GBP", Name: "British Pound", Symbol: "£", Rate: decimal.NewFromFloat(0.8)},
	}
}

func newTestRates(t *testing.T) *RateService {
	t.Helper()
	rates := NewRateService(staticRateSource{currencies: testCurrencies()})
	require.NoError(t, rates.Refresh(context.Background()))
	return rates
}

func newTestLedger(t *testing.T) (*LedgerService, *memStore) {
	t.Helper()
	store := newMemStore()
	ledger := NewLedgerService(store, store, reminderStore{store}, newTestRates(t), NewLedgerFeed())
	return ledger, store
}

func seedUser(t *testing.T, store *memStore, initialized bool) uuid.UUID {
	t.Helper()
	user := &domain.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: time.Now(),
	}
	if initialized {
		balance := decimal.NewFromFloat(100.00)
		user.Balance = &balance
		user.Currency = &domain.Currency{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: decimal.NewFromFloat(1.0)}
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user.ID
}

func TestSetInitialBalance(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, false)

	user, err := ledger.SetInitialBalance(ctx, userID, decimal.NewFromFloat(250.555), "EUR")
	require.NoError(t, err)
	require.Equal(t, "250.56", user.Balance.StringFixed(2))
	require.Equal(t, "EUR", user.Currency.Code)

	_, err = ledger.SetInitialBalance(ctx, userID, decimal.NewFromFloat(10), "EUR")
	require.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestSetInitialBalanceRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, false)

	_, err := ledger.SetInitialBalance(ctx, userID, decimal.NewFromFloat(-1), "USD")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.SetInitialBalance(ctx, userID, decimal.NewFromFloat(10), "XXX")
	require.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestRecordTransactionAdjustsBalance(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(30.00), domain.CategoryFood, domain.DirectionExpense)
	require.NoError(t, err)

	user, err := store.GetByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "70.00", user.Balance.StringFixed(2))

	_, err = ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(15.50), domain.CategorySalary, domain.DirectionIncome)
	require.NoError(t, err)

	user, err = store.GetByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "85.50", user.Balance.StringFixed(2))

	history, err := ledger.Transactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.DirectionIncome, history[0].Direction)
}

func TestRecordTransactionRequiresInitializedUser(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, false)

	_, err := ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(10), domain.CategoryFood, domain.DirectionExpense)
	require.ErrorIs(t, err, domain.ErrUninitialized)
}

func TestRecordTransactionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.RecordTransaction(ctx, userID, decimal.Zero, domain.CategoryFood, domain.DirectionExpense)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Income-only category on an expense
	_, err = ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(10), domain.CategorySalary, domain.DirectionExpense)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(10), "YACHTS", domain.DirectionExpense)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeCurrencyRewritesBalanceAndHistory(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(20.00), domain.CategoryFood, domain.DirectionExpense)
	require.NoError(t, err)

	user, err := ledger.ChangeCurrency(ctx, userID, "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", user.Currency.Code)
	require.Equal(t, "72.00", user.Balance.StringFixed(2))

	history, err := ledger.Transactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "18.00", history[0].Amount.StringFixed(2))
}

func TestChangeCurrencyRoundTripStaysWithinOneCent(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(33.33), domain.CategoryFood, domain.DirectionExpense)
	require.NoError(t, err)

	_, err = ledger.ChangeCurrency(ctx, userID, "EUR")
	require.NoError(t, err)
	user, err := ledger.ChangeCurrency(ctx, userID, "USD")
	require.NoError(t, err)

	diff := user.Balance.Sub(decimal.NewFromFloat(66.67)).Abs()
	require.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"round-trip drift %s exceeds one cent", diff)
}

func TestChangeCurrencyUnknownCode(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.ChangeCurrency(ctx, userID, "XXX")
	require.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestAccrueScore(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	score, err := ledger.AccrueScore(ctx, userID, 1200)
	require.NoError(t, err)
	require.Equal(t, "1.000", score.StringFixed(3))

	score, err = ledger.AccrueScore(ctx, userID, 600)
	require.NoError(t, err)
	require.Equal(t, "1.500", score.StringFixed(3))

	_, err = ledger.AccrueScore(ctx, userID, -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGrantPremiumIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	require.NoError(t, ledger.GrantPremium(ctx, userID))
	require.NoError(t, ledger.GrantPremium(ctx, userID))

	user, err := store.GetByID(ctx, userID)
	require.NoError(t, err)
	require.True(t, user.Premium)
}

func TestReminders(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	reminder, err := ledger.AddReminder(ctx, userID, domain.ReminderSend, "Pay back lunch")
	require.NoError(t, err)

	reminders, err := ledger.Reminders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)

	require.NoError(t, ledger.RemoveReminder(ctx, userID, reminder.ID))
	require.ErrorIs(t, ledger.RemoveReminder(ctx, userID, reminder.ID), domain.ErrReminderNotFound)
}

func TestAddReminderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	_, err := ledger.AddReminder(ctx, userID, "SOMEDAY", "desc")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.AddReminder(ctx, userID, domain.ReminderSend, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStoreTimeoutSurfacesAsErrTimeout(t *testing.T) {
	ctx := context.Background()
	ledger, store := newTestLedger(t)
	userID := seedUser(t, store, true)

	store.err = context.DeadlineExceeded

	_, err := ledger.Transactions(ctx, userID)
	require.ErrorIs(t, err, domain.ErrTimeout)

	_, err = ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(10), domain.CategoryFood, domain.DirectionExpense)
	require.ErrorIs(t, err, domain.ErrTimeout)
}

func TestLedgerMutationsPublishSnapshots(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	feed := NewLedgerFeed()
	ledger := NewLedgerService(store, store, reminderStore{store}, newTestRates(t), feed)
	userID := seedUser(t, store, true)

	var got []*domain.User
	feed.Subscribe(userID, func(user *domain.User) {
		got = append(got, user)
	})

	_, err := ledger.RecordTransaction(ctx, userID, decimal.NewFromFloat(5.00), domain.CategoryFood, domain.DirectionExpense)
	require.NoError(t, err)

	require.Len(t, got, 1)
	require.Equal(t, "95.00", got[0].Balance.StringFixed(2))
}
