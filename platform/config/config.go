// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// DirectoryConfig provides settings for the external lead directory client.
type DirectoryConfig interface {
	GetDirectoryBaseURL() string
	GetDirectoryAPIKey() string
	GetDirectoryRequestsPerSecond() float64
}

// EmailConfig provides settings for escalation email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetEscalationRecipients() []string
}

// EngineConfig provides settings for the accountability engine.
type EngineConfig interface {
	GetStaticPoolID() string
	GetDetectInterval() time.Duration
	GetResolveInterval() time.Duration
	GetDefaultTimerMinutes() int
	GetEscalationMode() string
	GetEscalationTag() string
	GetReturnPoolID() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// EscalationMode values accepted by ESCALATION_MODE.
const (
	EscalationModeTag      = "tag"
	EscalationModeReassign = "reassign"
)

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	DatabaseURL                string
	JWTAccessSecret            string
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	RedisURL                   string
	RedisTLSInsecure           bool
	AsynqQueueName             string
	AsynqConcurrency           int
	DirectoryBaseURL           string
	DirectoryAPIKey            string
	DirectoryRequestsPerSecond float64
	EmailEnabled               bool
	SMTPHost                   string
	SMTPPort                   int
	SMTPUsername               string
	SMTPPassword               string
	EmailFromName              string
	EmailFromAddress           string
	EscalationRecipients       []string
	StaticPoolID               string
	DetectInterval             time.Duration
	ResolveInterval            time.Duration
	DefaultTimerMinutes        int
	EscalationMode             string
	EscalationTag              string
	ReturnPoolID               string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// DirectoryConfig implementation
func (c *Config) GetDirectoryBaseURL() string            { return c.DirectoryBaseURL }
func (c *Config) GetDirectoryAPIKey() string             { return c.DirectoryAPIKey }
func (c *Config) GetDirectoryRequestsPerSecond() float64 { return c.DirectoryRequestsPerSecond }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool             { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string               { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                  { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string           { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string           { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string          { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string       { return c.EmailFromAddress }
func (c *Config) GetEscalationRecipients() []string { return c.EscalationRecipients }

// EngineConfig implementation
func (c *Config) GetStaticPoolID() string           { return c.StaticPoolID }
func (c *Config) GetDetectInterval() time.Duration  { return c.DetectInterval }
func (c *Config) GetResolveInterval() time.Duration { return c.ResolveInterval }
func (c *Config) GetDefaultTimerMinutes() int       { return c.DefaultTimerMinutes }
func (c *Config) GetEscalationMode() string         { return c.EscalationMode }
func (c *Config) GetEscalationTag() string          { return c.EscalationTag }
func (c *Config) GetReturnPoolID() string           { return c.ReturnPoolID }

// =============================================================================
// Loading
// =============================================================================

// Load reads configuration from the environment, optionally seeded from a
// .env file in the working directory.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                os.Getenv("DATABASE_URL"),
		JWTAccessSecret:            os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowAll:               getBoolEnv("CORS_ALLOW_ALL", false),
		CORSOrigins:                splitCSV(os.Getenv("CORS_ORIGINS")),
		CORSAllowCreds:             getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		RedisURL:                   getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisTLSInsecure:           getBoolEnv("REDIS_TLS_INSECURE", false),
		AsynqQueueName:             getEnv("ASYNQ_QUEUE", "leadwatch"),
		AsynqConcurrency:           getIntEnv("ASYNQ_CONCURRENCY", 10),
		DirectoryBaseURL:           os.Getenv("DIRECTORY_BASE_URL"),
		DirectoryAPIKey:            os.Getenv("DIRECTORY_API_KEY"),
		DirectoryRequestsPerSecond: getFloatEnv("DIRECTORY_REQUESTS_PER_SECOND", 5),
		EmailEnabled:               getBoolEnv("EMAIL_ENABLED", false),
		SMTPHost:                   os.Getenv("SMTP_HOST"),
		SMTPPort:                   getIntEnv("SMTP_PORT", 587),
		SMTPUsername:               os.Getenv("SMTP_USERNAME"),
		SMTPPassword:               os.Getenv("SMTP_PASSWORD"),
		EmailFromName:              getEnv("EMAIL_FROM_NAME", "Leadwatch"),
		EmailFromAddress:           os.Getenv("EMAIL_FROM_ADDRESS"),
		EscalationRecipients:       splitCSV(os.Getenv("ESCALATION_RECIPIENTS")),
		StaticPoolID:               os.Getenv("STATIC_POOL_ID"),
		DetectInterval:             getDurationEnv("DETECT_INTERVAL", time.Minute),
		ResolveInterval:            getDurationEnv("RESOLVE_INTERVAL", time.Minute),
		DefaultTimerMinutes:        getIntEnv("DEFAULT_TIMER_MINUTES", 30),
		EscalationMode:             getEnv("ESCALATION_MODE", EscalationModeTag),
		EscalationTag:              getEnv("ESCALATION_TAG", "response-overdue"),
		ReturnPoolID:               os.Getenv("RETURN_POOL_ID"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.EscalationMode {
	case EscalationModeTag, EscalationModeReassign:
	default:
		return nil, fmt.Errorf("ESCALATION_MODE must be %q or %q, got %q",
			EscalationModeTag, EscalationModeReassign, cfg.EscalationMode)
	}

	if cfg.EscalationMode == EscalationModeReassign && cfg.ReturnPoolID == "" {
		return nil, fmt.Errorf("RETURN_POOL_ID is required when ESCALATION_MODE=reassign")
	}

	if cfg.DefaultTimerMinutes < 1 || cfg.DefaultTimerMinutes > 120 {
		return nil, fmt.Errorf("DEFAULT_TIMER_MINUTES must be within [1,120], got %d", cfg.DefaultTimerMinutes)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
