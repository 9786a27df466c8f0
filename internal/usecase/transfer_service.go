package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain"
	"fintrack/internal/infra"
	"fintrack/internal/money"
)

// Ledger is the slice of the ledger service the coordinator needs to
// apply the two sides of a transfer.
type Ledger interface {
	RecordTransaction(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, category, direction string) (*domain.Transaction, error)
	AddReminder(ctx context.Context, userID uuid.UUID, direction, description string) (*domain.Reminder, error)
}

// TransferService orchestrates a two-party money movement as a staged
// pipeline: Validating, ResolvingRecipient, Converting, ApplyingCredit,
// ApplyingDebit, Notifying, Completed. The recipient is credited before
// the sender is debited; a credit failure aborts before any sender-side
// mutation. A debit failure after a successful credit leaves the two
// ledgers inconsistent and is logged as requiring reconciliation.
//
// Transfers are serialized per user: both parties' locks are taken in
// UUID order before any balance is touched, so two concurrent transfers
// cannot double-spend the same balance snapshot.
type TransferService struct {
	users    domain.UserRepository
	ledger   Ledger
	notifier domain.NotificationSender
	timeout  time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewTransferService creates a new TransferService
func NewTransferService(
	users domain.UserRepository,
	ledger Ledger,
	notifier domain.NotificationSender,
	timeout time.Duration,
) *TransferService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TransferService{
		users:    users,
		ledger:   ledger,
		notifier: notifier,
		timeout:  timeout,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// InitiateTransfer runs the full transfer pipeline and returns the
// recipient's public snapshot on completion. For the request direction
// no balance moves: a reminder is recorded on the requester's side and
// the counterpart is notified.
func (ts *TransferService) InitiateTransfer(ctx context.Context, input domain.TransferInput) (*domain.TransferOutcome, error) {
	start := time.Now()
	outcome, err := ts.run(ctx, input)

	status := "completed"
	if err != nil {
		status = "failed"
	}
	infra.TransfersTotal.WithLabelValues(input.Direction, status).Inc()
	infra.TransferDuration.Observe(time.Since(start).Seconds())

	return outcome, err
}

func (ts *TransferService) run(ctx context.Context, input domain.TransferInput) (*domain.TransferOutcome, error) {
	// Validating
	if err := validateInput(input); err != nil {
		return nil, &domain.TransferError{Stage: domain.StageValidating, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, ts.timeout)
	defer cancel()

	// ResolvingRecipient: exactly one user may match the email.
	matches, err := ts.users.SearchByEmail(ctx, input.RecipientEmail)
	if err != nil {
		return nil, &domain.TransferError{Stage: domain.StageResolvingRecipient, Err: timeoutErr(err)}
	}
	switch {
	case len(matches) == 0:
		return nil, &domain.TransferError{Stage: domain.StageResolvingRecipient, Err: domain.ErrRecipientNotFound}
	case len(matches) > 1:
		return nil, &domain.TransferError{Stage: domain.StageResolvingRecipient, Err: domain.ErrAmbiguousRecipient}
	}
	recipient := matches[0]

	sender, err := ts.users.GetByID(ctx, input.SenderID)
	if err != nil {
		return nil, &domain.TransferError{Stage: domain.StageResolvingRecipient, Err: timeoutErr(err)}
	}

	if input.Direction == domain.TransferRequest {
		return ts.runRequest(ctx, sender, recipient, input.Amount)
	}
	return ts.runSend(ctx, sender, recipient, input.Amount)
}

func (ts *TransferService) runSend(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal) (*domain.TransferOutcome, error) {
	unlock := ts.lockPair(sender.ID, recipient.ID)
	defer unlock()

	// Converting: both parties need a pinned currency before money moves.
	if !sender.Initialized() || !recipient.Initialized() {
		return nil, &domain.TransferError{Stage: domain.StageConverting, Err: domain.ErrUninitialized}
	}
	converted := money.Convert(amount, sender.Currency.Rate, recipient.Currency.Rate)

	// ApplyingCredit: income transaction on the recipient first.
	if _, err := ts.ledger.RecordTransaction(ctx, recipient.ID, converted, domain.CategoryTransfer, domain.DirectionIncome); err != nil {
		return nil, &domain.TransferError{Stage: domain.StageApplyingCredit, Err: timeoutErr(err)}
	}

	// ApplyingDebit: expense on the sender, only after the credit stuck.
	// A failure here leaves the recipient credited with nothing debited.
	if _, err := ts.ledger.RecordTransaction(ctx, sender.ID, money.RoundAmount(amount), domain.CategoryTransfer, domain.DirectionExpense); err != nil {
		slog.Error("reconciliation_required: credit applied without matching debit",
			"sender_id", sender.ID,
			"recipient_id", recipient.ID,
			"amount", amount.StringFixed(2),
			"converted_amount", converted.StringFixed(2),
			"error", err,
		)
		return nil, &domain.TransferError{Stage: domain.StageApplyingDebit, Err: timeoutErr(err)}
	}

	description := fmt.Sprintf("Sent %s %s to %s", amount.StringFixed(2), sender.Currency.Code, recipient.FullName())
	if _, err := ts.ledger.AddReminder(ctx, sender.ID, domain.ReminderSend, description); err != nil {
		slog.Warn("Failed to record send reminder", "sender_id", sender.ID, "error", err)
	}

	// Notifying: best effort, never reverts the settled transfer.
	delivered := ts.notify(recipient,
		"Money received",
		fmt.Sprintf("%s sent you %s%s", sender.FullName(), recipient.Currency.Symbol, converted.StringFixed(2)),
		map[string]string{"type": "transfer", "sender": sender.Email},
	)

	slog.Info("Transfer completed",
		"sender_id", sender.ID,
		"recipient_id", recipient.ID,
		"amount", amount.StringFixed(2),
		"converted_amount", converted.StringFixed(2),
	)

	return &domain.TransferOutcome{
		RecipientName:           recipient.FullName(),
		RecipientCurrencySymbol: recipient.Currency.Symbol,
		ConvertedAmount:         converted,
		NotificationDelivered:   delivered,
	}, nil
}

func (ts *TransferService) runRequest(ctx context.Context, requester, counterpart *domain.User, amount decimal.Decimal) (*domain.TransferOutcome, error) {
	// No balances move on a request; money settles only when the
	// counterpart later issues a complementary send.
	code := ""
	if requester.Currency != nil {
		code = requester.Currency.Code
	}
	description := fmt.Sprintf("Requested %s %s from %s", amount.StringFixed(2), code, counterpart.FullName())
	if _, err := ts.ledger.AddReminder(ctx, requester.ID, domain.ReminderRequest, description); err != nil {
		return nil, timeoutErr(err)
	}

	delivered := ts.notify(counterpart,
		"Money requested",
		fmt.Sprintf("%s requested %s %s from you", requester.FullName(), amount.StringFixed(2), code),
		map[string]string{"type": "request", "requester": requester.Email},
	)

	symbol := ""
	if counterpart.Currency != nil {
		symbol = counterpart.Currency.Symbol
	}
	return &domain.TransferOutcome{
		RecipientName:           counterpart.FullName(),
		RecipientCurrencySymbol: symbol,
		ConvertedAmount:         money.RoundAmount(amount),
		NotificationDelivered:   delivered,
	}, nil
}

// notify sends the push and reports delivery; failures are logged only.
func (ts *TransferService) notify(to *domain.User, title, body string, metadata map[string]string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), ts.timeout)
	defer cancel()

	if err := ts.notifier.Send(ctx, to.DeviceToken, title, body, metadata); err != nil {
		slog.Warn("Transfer notification failed", "recipient_id", to.ID, "error", err)
		return false
	}
	return true
}

func validateInput(input domain.TransferInput) error {
	if input.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if input.RecipientEmail == "" {
		return fmt.Errorf("%w: recipient email must not be empty", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(input.RecipientEmail); err != nil {
		return fmt.Errorf("%w: malformed recipient email", domain.ErrInvalidInput)
	}
	if input.Direction != domain.TransferSend && input.Direction != domain.TransferRequest {
		return fmt.Errorf("%w: unknown transfer direction %q", domain.ErrInvalidInput, input.Direction)
	}
	return nil
}

// lockPair acquires both users' transfer locks in UUID order and
// returns the matching unlock. Ordered acquisition prevents two
// opposing transfers from deadlocking.
func (ts *TransferService) lockPair(a, b uuid.UUID) func() {
	if a == b {
		l := ts.userLock(a)
		l.Lock()
		return l.Unlock
	}

	first, second := a, b
	if second.String() < first.String() {
		first, second = second, first
	}

	fl, sl := ts.userLock(first), ts.userLock(second)
	fl.Lock()
	sl.Lock()
	return func() {
		sl.Unlock()
		fl.Unlock()
	}
}

func (ts *TransferService) userLock(id uuid.UUID) *sync.Mutex {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	l, ok := ts.locks[id]
	if !ok {
		l = &sync.Mutex{}
		ts.locks[id] = l
	}
	return l
}

// timeoutErr maps deadline overruns to ErrTimeout.
func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
