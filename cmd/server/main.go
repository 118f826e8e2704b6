package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/service"
	"github.com/MadhavDodiya/expense-management/internal/config"
	"github.com/MadhavDodiya/expense-management/internal/infrastructure/external/currency"
	httpapi "github.com/MadhavDodiya/expense-management/internal/interfaces/http"
	"github.com/MadhavDodiya/expense-management/internal/report"
	"github.com/MadhavDodiya/expense-management/internal/repository"
	"github.com/MadhavDodiya/expense-management/internal/workflow"
	"github.com/MadhavDodiya/expense-management/pkg/database"
	"github.com/MadhavDodiya/expense-management/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Expense Management Service",
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	policyRepo := repository.NewPolicyRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	directory := repository.NewSQLDirectory(userRepo, logger)

	// Initialize the workflow engine
	selector := workflow.NewPolicySelector(policyRepo, logger)
	builder := workflow.NewChainBuilder(directory, logger)
	controller := workflow.NewController(selector, builder, policyRepo, logger)

	// Initialize external collaborators
	converter := currency.NewClient(currency.Config{
		BaseURL:    cfg.Currency.BaseURL,
		Timeout:    cfg.Currency.Timeout,
		MaxRetries: cfg.Currency.MaxRetries,
	}, logger)

	reportGenerator := report.NewGenerator(cfg.Report.OutputDir, logger)

	// Initialize application services
	expenseService := service.NewExpenseService(expenseRepo, controller, converter, cfg.Currency.BaseCurrency, logger)
	approvalService := service.NewApprovalService(expenseRepo, controller, logger)
	reportService := service.NewReportService(expenseRepo, reportGenerator, logger)

	// Initialize HTTP server
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
	}, expenseService, approvalService, reportService, logger)

	// Shut down on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
