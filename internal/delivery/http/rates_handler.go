package http

import (
	"github.com/labstack/echo/v4"

	"fintrack/internal/delivery/http/dto"
	"fintrack/internal/service"
)

// RatesHandler serves the merged currency rate table
type RatesHandler struct {
	rates *service.RateService
}

// NewRatesHandler creates a new RatesHandler
func NewRatesHandler(rates *service.RateService) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// GetRates returns the cached currency table
// GET /api/rates
func (h *RatesHandler) GetRates(c echo.Context) error {
	currencies := h.rates.Currencies()

	outputs := make([]dto.CurrencyOutput, 0, len(currencies))
	for _, currency := range currencies {
		outputs = append(outputs, toCurrencyOutput(currency))
	}

	return SuccessResponse(c, outputs)
}
