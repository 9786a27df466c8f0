package http

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fintrack/internal/delivery/http/dto"
	"fintrack/internal/domain"
	"fintrack/internal/middleware"
	"fintrack/internal/service"
)

// UserHandler handles ledger-related requests for the authenticated user
type UserHandler struct {
	userRepo domain.UserRepository
	ledger   *service.LedgerService
	feed     *service.LedgerFeed
	timeout  time.Duration
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo domain.UserRepository,
	ledger *service.LedgerService,
	feed *service.LedgerFeed,
	timeout time.Duration,
) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		ledger:   ledger,
		feed:     feed,
		timeout:  timeout,
	}
}

// GetMe returns current user details
// GET /api/user/me
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, toUserOutput(user))
}

// SetBalance completes onboarding by setting balance and currency once
// POST /api/user/balance
func (h *UserHandler) SetBalance(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.SetBalanceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BadRequestResponse(c, "Invalid amount")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.ledger.SetInitialBalance(ctx, userID, amount, req.CurrencyCode)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, toUserOutput(user))
}

// GetTransactions lists the user's transaction history
// GET /api/user/transactions
func (h *UserHandler) GetTransactions(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	transactions, err := h.ledger.Transactions(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	outputs := make([]dto.TransactionOutput, 0, len(transactions))
	for _, transaction := range transactions {
		outputs = append(outputs, toTransactionOutput(transaction))
	}

	return SuccessResponse(c, outputs)
}

// RecordTransaction records an income or expense entry
// POST /api/user/transactions
func (h *UserHandler) RecordTransaction(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.RecordTransactionRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BadRequestResponse(c, "Invalid amount")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	transaction, err := h.ledger.RecordTransaction(ctx, userID, amount, req.Category, req.Direction)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, toTransactionOutput(transaction))
}

// ChangeCurrency converts balance and history to a new currency
// POST /api/user/currency
func (h *UserHandler) ChangeCurrency(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.ChangeCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.ledger.ChangeCurrency(ctx, userID, req.CurrencyCode)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, toUserOutput(user))
}

// Activity accrues score for a stretch of session activity
// POST /api/user/activity
func (h *UserHandler) Activity(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.ActivityRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	score, err := h.ledger.AccrueScore(ctx, userID, req.SecondsActive)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.ActivityResponse{Score: score.StringFixed(3)})
}

// Premium grants the premium entitlement
// POST /api/user/premium
func (h *UserHandler) Premium(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ledger.GrantPremium(ctx, userID); err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessMessageResponse(c, "Premium enabled", nil)
}

// GetReminders lists the user's pending reminders
// GET /api/user/reminders
func (h *UserHandler) GetReminders(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reminders, err := h.ledger.Reminders(ctx, userID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	outputs := make([]dto.ReminderOutput, 0, len(reminders))
	for _, reminder := range reminders {
		outputs = append(outputs, toReminderOutput(reminder))
	}

	return SuccessResponse(c, outputs)
}

// AddReminder records a pending send/request note
// POST /api/user/reminders
func (h *UserHandler) AddReminder(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.AddReminderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reminder, err := h.ledger.AddReminder(ctx, userID, req.Direction, req.Description)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, toReminderOutput(reminder))
}

// RemoveReminder deletes one reminder
// DELETE /api/user/reminders/:id
func (h *UserHandler) RemoveReminder(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	reminderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid reminder id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ledger.RemoveReminder(ctx, userID, reminderID); err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessMessageResponse(c, "Reminder removed", nil)
}

// Feed streams whole-user snapshots as server-sent events. Each ledger
// mutation pushes the fresh state; clients replace their cache
// wholesale on every event.
// GET /api/user/feed
func (h *UserHandler) Feed(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(200)

	snapshots := make(chan *domain.User, 8)
	handle := h.feed.Subscribe(userID, func(user *domain.User) {
		select {
		case snapshots <- user:
		default:
			// Slow consumer: drop this update, the next one supersedes it
		}
	})
	defer h.feed.Unsubscribe(userID, handle)

	// Initial snapshot so the client starts from authoritative state
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	user, err := h.userRepo.GetByID(ctx, userID)
	cancel()
	if err == nil {
		if err := writeEvent(w, user); err != nil {
			return nil
		}
	}

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case user := <-snapshots:
			if err := writeEvent(w, user); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, user *domain.User) error {
	payload, err := json.Marshal(toUserOutput(user))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
