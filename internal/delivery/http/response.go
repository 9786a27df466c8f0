package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message, nil)
}

// ConflictResponse sends a 409 Conflict response
func ConflictResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusConflict, message, nil)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return ErrorResponse(c, http.StatusInternalServerError, message, errMsg)
}

// DomainErrorResponse maps an error from the core to a human-readable
// title/message pair with the right status code.
func DomainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return BadRequestResponse(c, "Invalid input: "+err.Error())
	case errors.Is(err, domain.ErrUninitialized):
		return BadRequestResponse(c, "Please set your initial balance first")
	case errors.Is(err, domain.ErrAlreadyInitialized):
		return ConflictResponse(c, "Initial balance has already been set")
	case errors.Is(err, domain.ErrUnknownCurrency):
		return BadRequestResponse(c, "Unknown currency code")
	case errors.Is(err, domain.ErrEmailTaken):
		return ConflictResponse(c, "Email is already registered")
	case errors.Is(err, domain.ErrUserNotFound):
		return NotFoundResponse(c, "User not found")
	case errors.Is(err, domain.ErrRecipientNotFound):
		return NotFoundResponse(c, "No user found with that email")
	case errors.Is(err, domain.ErrAmbiguousRecipient):
		return ConflictResponse(c, "More than one user matches that email")
	case errors.Is(err, domain.ErrReminderNotFound):
		return NotFoundResponse(c, "Reminder not found")
	case errors.Is(err, domain.ErrTimeout):
		return ErrorResponse(c, http.StatusGatewayTimeout, "The operation timed out, please try again", nil)
	default:
		return InternalServerErrorResponse(c, "Something went wrong", err)
	}
}
