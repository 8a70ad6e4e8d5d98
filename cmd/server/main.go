package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/dealdesk/dealdesk/internal/adapter/delivery"
	apihttp "github.com/dealdesk/dealdesk/internal/adapter/http"
	"github.com/dealdesk/dealdesk/internal/adapter/persistence"
	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/config"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
	"github.com/dealdesk/dealdesk/internal/service/ratelimit"
	"github.com/dealdesk/dealdesk/internal/service/rulecache"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "dealdesk",
	})
	appLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Server.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	appLogger.Info(ctx, "database connection established", map[string]interface{}{
		"host": cfg.Database.Host,
		"name": cfg.Database.DBName,
	})

	// Connect to redis, used by the rate limiter and the rule cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warn(ctx, "redis unavailable, rate limiting and rule cache degraded", map[string]interface{}{
			"addr":  cfg.GetRedisAddr(),
			"error": err.Error(),
		})
	}

	// Repositories
	transactionRepo := persistence.NewPostgresTransactionRepository(db)
	taskRepo := persistence.NewPostgresTaskRepository(db)
	documentRepo := persistence.NewPostgresDocumentRepository(db)
	templateRepo := persistence.NewPostgresTemplateRepository(db)
	executionRepo := persistence.NewPostgresExecutionRepository(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)
	notificationRepo := persistence.NewPostgresNotificationRepository(db)

	var ruleRepo ports.RuleRepository = persistence.NewPostgresRuleRepository(db)
	if cfg.Scheduler.RuleCacheTTL > 0 {
		ruleRepo = rulecache.New(ruleRepo, redisClient, cfg.Scheduler.RuleCacheTTL, appLogger)
	}

	// Outbound delivery
	providerConfig := delivery.ProviderConfig{
		BaseURL:   cfg.Delivery.BaseURL,
		APIKey:    cfg.Delivery.APIKey,
		FromEmail: cfg.Delivery.FromEmail,
		FromPhone: cfg.Delivery.FromPhone,
		TimeoutMs: cfg.Delivery.TimeoutMs,
	}
	dispatcher := delivery.NewSenderDispatcher(appLogger,
		delivery.NewEmailSender(providerConfig),
		delivery.NewSMSSender(providerConfig),
	)
	notifier := delivery.NewAgentNotifier(notificationRepo, dispatcher, appLogger)

	// Automation engine
	workflowUseCase := usecase.NewWorkflowUseCase(templateRepo, taskRepo, appLogger)
	executor := automation.NewExecutor(transactionRepo, ruleRepo, executionRepo, auditRepo, workflowUseCase, notifier, appLogger)
	matcher := automation.NewMatcher(ruleRepo, automation.NewEvaluator(), appLogger)
	automationService := usecase.NewAutomationService(matcher, executor, appLogger)

	// Calendar provider, optional
	var calendar ports.CalendarService
	if cfg.Calendar.BaseURL != "" {
		calendar = delivery.NewCalendarClient(delivery.ProviderConfig{
			BaseURL:   cfg.Calendar.BaseURL,
			APIKey:    cfg.Calendar.APIKey,
			TimeoutMs: cfg.Calendar.TimeoutMs,
		})
	}

	// Use cases
	transactionUseCase := usecase.NewTransactionUseCase(transactionRepo, automationService, calendar, appLogger)
	taskUseCase := usecase.NewTaskUseCase(taskRepo, transactionRepo, automationService)
	documentUseCase := usecase.NewDocumentUseCase(documentRepo, transactionRepo, automationService)
	ruleUseCase := usecase.NewRuleUseCase(ruleRepo, templateRepo)
	executionUseCase := usecase.NewExecutionUseCase(executionRepo, auditRepo, executor)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)

	// Rate limiter
	limiter := ratelimit.New(ratelimit.Config{
		Enabled:  cfg.Security.RateLimitEnabled,
		Requests: cfg.Security.RateLimitRequests,
		Window:   cfg.Security.RateLimitWindow,
	}, redisClient, appLogger)

	// In-process sweep scheduler
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.Scheduler.Enabled {
		scheduler := automation.NewScheduler(transactionRepo, ruleRepo, executionRepo, executor, appLogger)
		go scheduler.Run(schedulerCtx, cfg.Scheduler.Interval)
	}

	server := apihttp.NewServer(apihttp.ServerConfig{
		Port:                cfg.Server.Port,
		ReadTimeout:         cfg.Server.ReadTimeout,
		WriteTimeout:        cfg.Server.WriteTimeout,
		IdleTimeout:         cfg.Server.IdleTimeout,
		JWTSecret:           cfg.Security.JWTSecret,
		CORSOrigins:         cfg.Security.CORSOrigins,
		CORSCredentials:     true,
		CorrelationIDHeader: cfg.Logging.CorrelationIDHeader,
	}, apihttp.Handlers{
		Transactions:  transactionUseCase,
		Tasks:         taskUseCase,
		Documents:     documentUseCase,
		Rules:         ruleUseCase,
		Workflows:     workflowUseCase,
		Executions:    executionUseCase,
		Notifications: notificationUseCase,
	}, limiter, appLogger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info(ctx, "shutting down", nil)
	stopScheduler()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(ctx, "server forced to shutdown", err, nil)
	}
	appLogger.Info(ctx, "server exited", nil)
}
