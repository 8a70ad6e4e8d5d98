package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/service/ratelimit"
	"github.com/dealdesk/dealdesk/internal/usecase"
)

// Server represents the HTTP server
type Server struct {
	addr   string
	log    logger.Logger
	server *http.Server
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	JWTSecret           string
	CORSOrigins         []string
	CORSCredentials     bool
	CorrelationIDHeader string
}

// Handlers groups the use cases exposed over HTTP
type Handlers struct {
	Transactions  *usecase.TransactionUseCase
	Tasks         *usecase.TaskUseCase
	Documents     *usecase.DocumentUseCase
	Rules         *usecase.RuleUseCase
	Workflows     *usecase.WorkflowUseCase
	Executions    *usecase.ExecutionUseCase
	Notifications *usecase.NotificationUseCase
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, handlers Handlers, limiter ratelimit.Limiter, log logger.Logger) *Server {
	auth := NewAuthMiddleware(config.JWTSecret)

	router := mux.NewRouter()

	NewTransactionHandler(handlers.Transactions, handlers.Tasks, handlers.Documents, handlers.Executions).RegisterRoutes(router, auth)
	NewRuleHandler(handlers.Rules).RegisterRoutes(router, auth)
	NewTemplateHandler(handlers.Workflows).RegisterRoutes(router, auth)
	NewExecutionHandler(handlers.Executions).RegisterRoutes(router, auth)
	NewNotificationHandler(handlers.Notifications).RegisterRoutes(router, auth)

	router.Use(loggingMiddleware(log, config.CorrelationIDHeader))
	router.Use(corsMiddleware(config.CORSOrigins, config.CORSCredentials))
	router.Use(recoveryMiddleware(log))
	if limiter != nil {
		router.Use(rateLimitMiddleware(limiter, log))
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return &Server{
		addr: ":" + config.Port,
		log:  log,
		server: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info(context.Background(), "starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
