package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/dealdesk/dealdesk/internal/adapter/delivery"
	"github.com/dealdesk/dealdesk/internal/adapter/persistence"
	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/config"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
	"github.com/dealdesk/dealdesk/internal/service/rulecache"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

// Standalone sweep runner for deployments that keep the API and the
// scheduler in separate processes. Run at most one instance: the same-day
// duplicate guard is a read-then-write check, so concurrent sweeps can
// double-fire a rule.
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
		ServiceName: "dealdesk-scheduler",
	})

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	transactionRepo := persistence.NewPostgresTransactionRepository(db)
	taskRepo := persistence.NewPostgresTaskRepository(db)
	templateRepo := persistence.NewPostgresTemplateRepository(db)
	executionRepo := persistence.NewPostgresExecutionRepository(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)
	notificationRepo := persistence.NewPostgresNotificationRepository(db)

	var ruleRepo ports.RuleRepository = persistence.NewPostgresRuleRepository(db)
	if cfg.Scheduler.RuleCacheTTL > 0 {
		ruleRepo = rulecache.New(ruleRepo, redisClient, cfg.Scheduler.RuleCacheTTL, appLogger)
	}

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

	workflowUseCase := usecase.NewWorkflowUseCase(templateRepo, taskRepo, appLogger)
	executor := automation.NewExecutor(transactionRepo, ruleRepo, executionRepo, auditRepo, workflowUseCase, notifier, appLogger)
	scheduler := automation.NewScheduler(transactionRepo, ruleRepo, executionRepo, executor, appLogger)

	runCtx, stop := context.WithCancel(ctx)
	go scheduler.Run(runCtx, cfg.Scheduler.Interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info(ctx, "scheduler shutting down", nil)
	stop()
}
