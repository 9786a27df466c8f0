package http

import (
	"fintrack/internal/delivery/http/dto"
	"fintrack/internal/domain"
	"fintrack/internal/utils"
)

func toUserOutput(user *domain.User) *dto.UserOutput {
	out := &dto.UserOutput{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Score:     user.Score.StringFixed(3),
		Premium:   user.Premium,
	}
	if user.Balance != nil {
		balance := user.Balance.StringFixed(2)
		out.Balance = &balance
	}
	if user.Currency != nil {
		currency := toCurrencyOutput(*user.Currency)
		out.Currency = &currency
	}
	return out
}

func toCurrencyOutput(currency domain.Currency) dto.CurrencyOutput {
	return dto.CurrencyOutput{
		Code:   currency.Code,
		Name:   currency.Name,
		Symbol: currency.Symbol,
		Rate:   currency.Rate.String(),
	}
}

func toTransactionOutput(transaction *domain.Transaction) dto.TransactionOutput {
	return dto.TransactionOutput{
		ID:        transaction.ID.String(),
		Amount:    transaction.Amount.StringFixed(2),
		Category:  transaction.Category,
		Direction: transaction.Direction,
		Date:      utils.FormatTimestamp(transaction.OccurredAt),
	}
}

func toReminderOutput(reminder *domain.Reminder) dto.ReminderOutput {
	return dto.ReminderOutput{
		ID:          reminder.ID.String(),
		Direction:   reminder.Direction,
		Description: reminder.Description,
		Date:        utils.FormatTimestamp(reminder.CreatedAt),
	}
}
