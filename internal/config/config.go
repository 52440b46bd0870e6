package config

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Agent session modes
const (
	// SessionModeSingle shares one conversation between all callers and
	// serializes agent invocations.
	SessionModeSingle = "single"
	// SessionModeKeyed keeps one conversation per X-Session-ID.
	SessionModeKeyed = "keyed"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string

	// Data store
	DatabaseDriver string
	DatabaseURL    string
	DBMaxConns     int

	// Reasoning service (OpenAI-compatible chat completions)
	AIProvider string
	AIAPIKey   string
	AIBaseURL  string
	AIModel    string
	AITimeout  time.Duration

	// Agent loop and memory
	AgentMaxRounds     int
	MemoryMaxTurns     int
	MemoryNoteMaxTurns int
	SessionMode        string
	SessionTTL         time.Duration

	// Logging
	LogDir      string
	LogMaxFiles int

	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", "staffdesk.db"),
		DBMaxConns:     getEnvInt("DB_MAX_CONNS", 10),

		AIProvider: getEnv("AI_PROVIDER", "deepseek"),
		AIAPIKey:   getEnv("AI_API_KEY", ""),
		AIBaseURL:  getEnv("AI_BASE_URL", "https://api.deepseek.com/v1"),
		AIModel:    getEnv("AI_MODEL", "deepseek-chat"),
		AITimeout:  getEnvDuration("AI_TIMEOUT", 60*time.Second),

		AgentMaxRounds:     getEnvInt("AGENT_MAX_ROUNDS", DefaultAgentMaxRounds),
		MemoryMaxTurns:     getEnvInt("MEMORY_MAX_TURNS", DefaultMemoryMaxTurns),
		MemoryNoteMaxTurns: getEnvInt("MEMORY_NOTE_MAX_TURNS", DefaultMemoryNoteMaxTurns),
		SessionMode:        getEnv("AGENT_SESSION_MODE", SessionModeSingle),
		SessionTTL:         getEnvDuration("AGENT_SESSION_TTL", 30*time.Minute),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		// Default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks that the configuration can run a server
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DatabaseDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.DBMaxConns, validation.Min(1)),
		validation.Field(&c.AIAPIKey, validation.Required),
		validation.Field(&c.AIBaseURL, validation.Required),
		validation.Field(&c.AIModel, validation.Required),
		validation.Field(&c.AITimeout, validation.Min(time.Second)),
		validation.Field(&c.AgentMaxRounds, validation.Min(1)),
		validation.Field(&c.MemoryMaxTurns, validation.Min(MinMemoryTurns)),
		validation.Field(&c.MemoryNoteMaxTurns, validation.Min(MinMemoryTurns), validation.Max(c.MemoryMaxTurns)),
		validation.Field(&c.SessionMode, validation.In(SessionModeSingle, SessionModeKeyed)),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
