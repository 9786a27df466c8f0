package dto

// TransferRequest represents the transfer initiation payload
type TransferRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Amount         string `json:"amount" validate:"required"`
	Direction      string `json:"direction" validate:"required"` // SEND or REQUEST
}

// TransferOutcomeOutput represents a completed transfer in API responses
type TransferOutcomeOutput struct {
	RecipientName           string `json:"recipient_name"`
	RecipientCurrencySymbol string `json:"recipient_currency_symbol"`
	ConvertedAmount         string `json:"converted_amount"`
	NotificationDelivered   bool   `json:"notification_delivered"`
}
