package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReminderDirection constants
const (
	ReminderSend    = "SEND"
	ReminderRequest = "REQUEST"
)

// Reminder is a pending send/request note shown to the user, distinct
// from a settled Transaction. Created by transfer actions, deleted by
// explicit user action only, never mutated otherwise.
type Reminder struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Direction   string    `json:"direction"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
