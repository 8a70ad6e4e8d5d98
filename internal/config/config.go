package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Logging   LoggingConfig   `json:"logging"`
	Security  SecurityConfig  `json:"security"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Delivery  DeliveryConfig  `json:"delivery"`
	Calendar  CalendarConfig  `json:"calendar"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"dbname"`
	SSLMode        string        `json:"sslmode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleTime    time.Duration `json:"max_idle_time"`
	MigrationsPath string        `json:"migrations_path"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level               string `json:"level"`
	Format              string `json:"format"` // json, text
	CorrelationIDHeader string `json:"correlation_id_header"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	JWTSecret         string        `json:"jwt_secret"`
	CORSOrigins       []string      `json:"cors_origins"`
	RateLimitEnabled  bool          `json:"rate_limit_enabled"`
	RateLimitRequests int           `json:"rate_limit_requests"`
	RateLimitWindow   time.Duration `json:"rate_limit_window"`
}

// SchedulerConfig represents the automation sweep configuration
type SchedulerConfig struct {
	Enabled      bool          `json:"enabled"`
	Interval     time.Duration `json:"interval"`
	RuleCacheTTL time.Duration `json:"rule_cache_ttl"`
}

// DeliveryConfig represents the outbound message provider configuration
type DeliveryConfig struct {
	BaseURL   string `json:"base_url"`
	APIKey    string `json:"-"`
	FromEmail string `json:"from_email"`
	FromPhone string `json:"from_phone"`
	TimeoutMs int    `json:"timeout_ms"`
}

// CalendarConfig represents the calendar provider configuration
type CalendarConfig struct {
	BaseURL   string `json:"base_url"`
	APIKey    string `json:"-"`
	TimeoutMs int    `json:"timeout_ms"`
}

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			DBName:         getEnv("DB_NAME", "dealdesk"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_MAX_CONNECTIONS", 20),
			MaxIdleTime:    getEnvDuration("DB_MAX_IDLE_TIME", 30*time.Minute),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "./migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Logging: LoggingConfig{
			Level:               getEnv("LOG_LEVEL", "info"),
			Format:              getEnv("LOG_FORMAT", "json"),
			CorrelationIDHeader: getEnv("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		},
		Security: SecurityConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			CORSOrigins:       getEnvSlice("CORS_ORIGINS", []string{"*"}),
			RateLimitEnabled:  getEnvBool("RATE_LIMIT_ENABLED", false),
			RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
			RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getEnvBool("SCHEDULER_ENABLED", true),
			Interval:     getEnvDuration("SCHEDULER_INTERVAL", time.Hour),
			RuleCacheTTL: getEnvDuration("RULE_CACHE_TTL", 30*time.Second),
		},
		Delivery: DeliveryConfig{
			BaseURL:   getEnv("DELIVERY_BASE_URL", ""),
			APIKey:    getEnv("DELIVERY_API_KEY", ""),
			FromEmail: getEnv("DELIVERY_FROM_EMAIL", "noreply@dealdesk.io"),
			FromPhone: getEnv("DELIVERY_FROM_PHONE", ""),
			TimeoutMs: getEnvInt("DELIVERY_TIMEOUT_MS", 5000),
		},
		Calendar: CalendarConfig{
			BaseURL:   getEnv("CALENDAR_BASE_URL", ""),
			APIKey:    getEnv("CALENDAR_API_KEY", ""),
			TimeoutMs: getEnvInt("CALENDAR_TIMEOUT_MS", 5000),
		},
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Security.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}

	return nil
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis host:port address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		res := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				res = append(res, trimmed)
			}
		}
		if len(res) > 0 {
			return res
		}
	}
	return defaultValue
}
