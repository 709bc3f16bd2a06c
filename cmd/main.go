package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/DevelDoe/moms-journal-api/config"
	"github.com/DevelDoe/moms-journal-api/internal/handlers"
	"github.com/DevelDoe/moms-journal-api/internal/services"
)

func main() {
	// Load environment variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize MongoDB
	config.ConnectDB()
	defer config.DisconnectDB()

	// Initialize services
	authService := services.NewAuthService()
	brokerService := services.NewBrokerService()
	userService := services.NewUserService(brokerService)
	orderService := services.NewOrderService()
	tradeService := services.NewTradeService()

	// Create Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, userService)
	orderHandler := handlers.NewOrderHandler(orderService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	brokerHandler := handlers.NewBrokerHandler(brokerService)

	authMiddleware := authHandler.AuthMiddleware()
	adminOnly := authHandler.AdminOnly()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "OK",
			"message": "Moms Journal API is running",
		})
	})

	// Auth routes
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/auth/me", authMiddleware, authHandler.GetCurrentUser)

	// User profile and accounts
	router.GET("/api/user/profile", authMiddleware, userHandler.GetProfile)
	router.PUT("/api/user/profile", authMiddleware, userHandler.UpdateProfile)
	router.GET("/api/user/accounts", authMiddleware, userHandler.GetAccounts)
	router.POST("/api/user/accounts", authMiddleware, userHandler.AddAccount)
	router.DELETE("/api/user/accounts/:accountId", authMiddleware, userHandler.RemoveAccount)

	// Order import and retrieval
	router.POST("/api/orders", authMiddleware, orderHandler.ImportOrders)
	router.GET("/api/orders", authMiddleware, orderHandler.GetOrders)
	router.GET("/api/orders/historical", authMiddleware, orderHandler.GetHistoricalOrders)

	// Trades and daily summaries
	router.GET("/api/trades", authMiddleware, tradeHandler.GetTrades)
	router.GET("/api/trades/historical", authMiddleware, tradeHandler.GetHistoricalTrades)
	router.GET("/api/trades/summaries", authMiddleware, tradeHandler.GetSummaries)
	router.GET("/api/trades/summaries/filter", authMiddleware, tradeHandler.FilterSummaries)
	router.DELETE("/api/trades/user/:userId", authMiddleware, adminOnly, tradeHandler.PurgeUserData)

	// Broker directory
	router.GET("/api/brokers", brokerHandler.GetBrokers)
	router.GET("/api/brokers/:id", brokerHandler.GetBroker)
	router.POST("/api/brokers", authMiddleware, adminOnly, brokerHandler.CreateBroker)
	router.PUT("/api/brokers/:id", authMiddleware, adminOnly, brokerHandler.UpdateBroker)
	router.DELETE("/api/brokers/:id", authMiddleware, adminOnly, brokerHandler.DeleteBroker)
	router.GET("/api/brokers/account/:accountType", brokerHandler.GetBrokerByAccountType)
	router.GET("/api/brokers/accounts/:accountId", brokerHandler.GetAccountType)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("🚀 Moms Journal API running on port %s\n", port)
	fmt.Printf("📒 API available at http://localhost:%s/api\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
