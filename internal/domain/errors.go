package domain

import "errors"

// Sentinel errors shared across services and handlers.
var (
	// ErrInvalidInput signals a malformed or out-of-range request value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUninitialized signals a balance-affecting operation on a user
	// who has not completed initial balance entry.
	ErrUninitialized = errors.New("balance not initialized")

	// ErrAlreadyInitialized signals a second initial balance entry.
	ErrAlreadyInitialized = errors.New("balance already initialized")

	// ErrUserNotFound signals a lookup for a user id that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken signals a registration with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrRecipientNotFound signals a transfer to an email matching no user.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAmbiguousRecipient signals a transfer to an email matching more
	// than one user.
	ErrAmbiguousRecipient = errors.New("ambiguous recipient")

	// ErrReminderNotFound signals removal of a reminder id the user does
	// not have.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrUnknownCurrency signals a currency code absent from the rate table.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrTimeout signals a store operation that exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")
)
