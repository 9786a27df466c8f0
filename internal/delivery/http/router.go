package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "fintrack/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	RatesHandler    *RatesHandler
	TransferHandler *TransferHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// The feed endpoint holds long-lived connections; logging
			// every poll just adds noise
			return c.Request().URL.Path == "/api/user/feed"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	// User routes (protected with AuthMiddleware)
	user := api.Group("/user", custommiddleware.AuthMiddleware)
	{
		user.GET("/me", config.UserHandler.GetMe)
		user.POST("/balance", config.UserHandler.SetBalance)
		user.GET("/transactions", config.UserHandler.GetTransactions)
		user.POST("/transactions", config.UserHandler.RecordTransaction)
		user.POST("/currency", config.UserHandler.ChangeCurrency)
		user.POST("/activity", config.UserHandler.Activity)
		user.POST("/premium", config.UserHandler.Premium)
		user.GET("/reminders", config.UserHandler.GetReminders)
		user.POST("/reminders", config.UserHandler.AddReminder)
		user.DELETE("/reminders/:id", config.UserHandler.RemoveReminder)
		user.GET("/feed", config.UserHandler.Feed)
	}

	// Rate table (protected)
	api.GET("/rates", config.RatesHandler.GetRates, custommiddleware.AuthMiddleware)

	// Transfers (protected)
	api.POST("/transfers", config.TransferHandler.InitiateTransfer, custommiddleware.AuthMiddleware)
}
