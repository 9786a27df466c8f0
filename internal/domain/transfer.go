package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDirection constants
const (
	TransferSend    = "SEND"
	TransferRequest = "REQUEST"
)

// Transfer stages, in execution order. A failure at any stage halts the
// remaining steps.
const (
	StageValidating         = "VALIDATING"
	StageResolvingRecipient = "RESOLVING_RECIPIENT"
	StageConverting         = "CONVERTING"
	StageApplyingCredit     = "APPLYING_CREDIT"
	StageApplyingDebit      = "APPLYING_DEBIT"
	StageNotifying          = "NOTIFYING"
	StageCompleted          = "COMPLETED"
)

// TransferInput describes a requested peer-to-peer money movement.
type TransferInput struct {
	SenderID       uuid.UUID       `json:"sender_id"`
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
}

// TransferOutcome is the recipient's public snapshot returned on
// completion for display. NotificationDelivered reports whether the
// best-effort push reached the gateway; a false value never reverts
// the financial mutation.
type TransferOutcome struct {
	RecipientName           string          `json:"recipient_name"`
	RecipientCurrencySymbol string          `json:"recipient_currency_symbol"`
	ConvertedAmount         decimal.Decimal `json:"converted_amount"`
	NotificationDelivered   bool            `json:"notification_delivered"`
}

// TransferError reports which stage of the transfer pipeline failed.
type TransferError struct {
	Stage string
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed at %s: %v", e.Stage, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
