package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"ledgerbook/internal/config"
	"ledgerbook/internal/handlers"
	"ledgerbook/internal/logger"
	"ledgerbook/internal/middleware"
	"ledgerbook/internal/seed"
	"ledgerbook/internal/services"
	"ledgerbook/internal/store"
	"ledgerbook/internal/store/docstore"
	"ledgerbook/internal/store/sqlstore"
	"ledgerbook/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the configured persistence backend
	s, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warnf("store close error: %v", err)
		}
	}()

	// Seed reference data (account types, type mappings)
	if err := seed.Apply(context.Background(), s); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	businessService := services.NewBusinessService(s)
	accountService := services.NewAccountService(s)
	transactionService := services.NewTransactionService(s)
	importService := services.NewImportService(s, accountService, transactionService)
	reportService := services.NewReportService(s)

	// Initialize handlers
	businessHandler := handlers.NewBusinessHandler(businessService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	importHandler := handlers.NewImportHandler(importService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": appConfig.Backend})
	})

	// API v1 group, all routes require a valid token
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	// Reference data
	v1.GET("/account-types", businessHandler.ListAccountTypes)
	mappings := v1.Group("/type-mappings")
	mappings.GET("", businessHandler.ListTypeMappings)
	mappings.POST("", businessHandler.CreateTypeMapping)
	mappings.PUT("/:id", businessHandler.UpdateTypeMapping)
	mappings.DELETE("/:id", businessHandler.DeleteTypeMapping)

	// Cross-business reports
	v1.GET("/reports/combined-profit-loss", reportHandler.CombinedProfitLoss)

	// Business routes
	businesses := v1.Group("/businesses")
	businesses.POST("", businessHandler.CreateBusiness)
	businesses.GET("", businessHandler.ListBusinesses)
	businesses.GET("/:businessID", businessHandler.GetBusiness)
	businesses.PUT("/:businessID", businessHandler.UpdateBusiness)

	// Subsidiary accounts
	businesses.POST("/:businessID/subsidiaries", businessHandler.CreateSubsidiary)
	businesses.GET("/:businessID/subsidiaries", businessHandler.ListSubsidiaries)
	businesses.POST("/:businessID/subsidiaries/:id/import", importHandler.ImportStatement)

	// Chart of accounts
	businesses.POST("/:businessID/accounts", accountHandler.CreateAccount)
	businesses.GET("/:businessID/accounts", accountHandler.ListAccounts)
	businesses.GET("/:businessID/accounts/:id", accountHandler.GetAccount)
	businesses.PUT("/:businessID/accounts/:id", accountHandler.UpdateAccount)
	businesses.DELETE("/:businessID/accounts/:id", accountHandler.DeleteAccount)

	// Ledger transactions
	businesses.POST("/:businessID/transactions", transactionHandler.CreateTransaction)
	businesses.GET("/:businessID/transactions", transactionHandler.ListTransactions)
	businesses.POST("/:businessID/transactions/bulk-reassign", transactionHandler.BulkReassignAccount)
	businesses.GET("/:businessID/transactions/:id", transactionHandler.GetTransaction)
	businesses.PUT("/:businessID/transactions/:id", transactionHandler.UpdateTransaction)
	businesses.DELETE("/:businessID/transactions/:id", transactionHandler.DeleteTransaction)

	// Reports
	businesses.GET("/:businessID/reports/profit-loss", reportHandler.ProfitLoss)
	businesses.GET("/:businessID/reports/balance-sheet", reportHandler.BalanceSheet)

	log.Infof("Starting Ledgerbook backend server on port %s (backend: %s)", appConfig.Port, appConfig.Backend)
	return router.Run(":" + appConfig.Port)
}

// openStore connects the persistence backend named in the configuration.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendDoc:
		client, err := docstore.NewRedisClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect document store: %w", err)
		}
		return docstore.New(client), nil
	default:
		manager, err := sqlstore.NewManager(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if err := manager.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return manager.Store(), nil
	}
}
