package http

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fintrack/internal/delivery/http/dto"
	"fintrack/internal/domain"
	"fintrack/internal/middleware"
	"fintrack/internal/usecase"
)

// TransferHandler handles peer-to-peer transfer requests
type TransferHandler struct {
	transfers *usecase.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *usecase.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// InitiateTransfer starts a send or request transfer
// POST /api/transfers
func (h *TransferHandler) InitiateTransfer(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BadRequestResponse(c, "Invalid amount")
	}

	outcome, err := h.transfers.InitiateTransfer(c.Request().Context(), domain.TransferInput{
		SenderID:       userID,
		RecipientEmail: req.RecipientEmail,
		Amount:         amount,
		Direction:      req.Direction,
	})
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.TransferOutcomeOutput{
		RecipientName:           outcome.RecipientName,
		RecipientCurrencySymbol: outcome.RecipientCurrencySymbol,
		ConvertedAmount:         outcome.ConvertedAmount.StringFixed(2),
		NotificationDelivered:   outcome.NotificationDelivered,
	})
}
