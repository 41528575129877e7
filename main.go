package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Davsooonowy/TripWhizz/config"
	"github.com/Davsooonowy/TripWhizz/database"
	"github.com/Davsooonowy/TripWhizz/handlers"
	"github.com/Davsooonowy/TripWhizz/middleware"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Wire the ledger service
	handlers.Init()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// TRIP & LEDGER ROUTES (authenticated)
	// ==========================================
	api := r.Group("/")
	api.Use(middleware.AuthRequired())
	{
		// Trips
		api.POST("/trip/", handlers.CreateTrip)
		api.GET("/trip/", handlers.GetTrips)
		api.GET("/trip/:id/", handlers.GetTrip)
		api.POST("/trip/:id/participants/", handlers.AddParticipant)

		// Expenses
		api.GET("/trip/:id/expenses/", handlers.ListExpenses)
		api.POST("/trip/:id/expenses/", handlers.CreateExpense)
		api.GET("/trip/:id/expenses/:expense_id/", handlers.GetExpense)
		api.PUT("/trip/:id/expenses/:expense_id/", handlers.UpdateExpense)
		api.DELETE("/trip/:id/expenses/:expense_id/", handlers.DeleteExpense)

		// Balances
		api.GET("/trip/:id/balances/", handlers.GetTripBalances)

		// Settlements
		api.GET("/trip/:id/settlements/", handlers.ListSettlements)
		api.POST("/trip/:id/settlements/", handlers.CreateSettlement)
		api.GET("/trip/:id/settlements/:settlement_id/", handlers.GetSettlement)
	}

	port := config.AppConfig.Port
	log.Info().Str("port", port).Msgf("%s server starting", config.AppConfig.AppName)

	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
