package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Defaults applied when a knob is missing or out of range
const (
	DefaultPort                = 8000
	DefaultConfidenceThreshold = 70
	DefaultSentimentMaxLength  = 512
)

// Sentiment provider names
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderNone        = "none"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Classifier ClassifierConfig
	Sentiment  SentimentConfig
	OpenAI     OpenAIConfig
	PostgreSQL PostgreSQLConfig
	Review     ReviewConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	StaticDir      string
}

// ClassifierConfig holds the classification policy knobs
type ClassifierConfig struct {
	UseModel            bool
	ConfidenceThreshold int
}

// SentimentConfig holds the pretrained sentiment backend configuration
type SentimentConfig struct {
	Provider  string
	APIBase   string
	APIKey    string
	Model     string
	MaxLength int
	Timeout   int // seconds
}

// OpenAIConfig holds OpenAI-compatible API configuration for the LLM sentiment backend
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	Timeout         int
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	Enabled            bool
	DSN                string // full connection string, preferred over the individual fields
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ReviewConfig holds escalation queue paging limits
type ReviewConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	dsn := getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", "")))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", DefaultPort)),
			Host:           getEnv("SERVER_HOST", getEnv("HOST", "0.0.0.0")),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			StaticDir:      getEnv("STATIC_DIR", "./cmd/server/web/demo"),
		},
		Classifier: ClassifierConfig{
			UseModel:            getEnvAsBool("USE_AI_MODEL", true),
			ConfidenceThreshold: getEnvAsInt("CONFIDENCE_THRESHOLD", DefaultConfidenceThreshold),
		},
		Sentiment: SentimentConfig{
			Provider:  strings.ToLower(getEnv("SENTIMENT_PROVIDER", ProviderHuggingFace)),
			APIBase:   strings.TrimRight(getEnv("SENTIMENT_API_BASE", "https://api-inference.huggingface.co"), "/"),
			APIKey:    getEnv("SENTIMENT_API_KEY", getEnv("HF_API_TOKEN", "")),
			Model:     getEnv("SENTIMENT_MODEL", "distilbert-base-uncased-finetuned-sst-2-english"),
			MaxLength: getEnvAsInt("SENTIMENT_MAX_LENGTH", DefaultSentimentMaxLength),
			Timeout:   getEnvAsInt("SENTIMENT_TIMEOUT", 10),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
		},
		PostgreSQL: PostgreSQLConfig{
			Enabled:            getEnvAsBool("PG_ENABLED", dsn != ""),
			DSN:                dsn,
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "intent_triage"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Review: ReviewConfig{
			DefaultLimit: getEnvAsInt("REVIEW_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvAsInt("REVIEW_MAX_LIMIT", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cfg.validate()

	return cfg, nil
}

// validate corrects out-of-range values to safe defaults. It never fails.
func (c *Config) validate() {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		log.Warn().Int("port", c.Server.Port).Int("default", DefaultPort).Msg("Invalid port, using default")
		c.Server.Port = DefaultPort
	}

	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 100 {
		log.Warn().
			Int("threshold", c.Classifier.ConfidenceThreshold).
			Int("default", DefaultConfidenceThreshold).
			Msg("Invalid CONFIDENCE_THRESHOLD, using default")
		c.Classifier.ConfidenceThreshold = DefaultConfidenceThreshold
	}

	switch c.Sentiment.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderNone:
	default:
		log.Warn().Str("provider", c.Sentiment.Provider).Msg("Unknown SENTIMENT_PROVIDER, using huggingface")
		c.Sentiment.Provider = ProviderHuggingFace
	}

	if c.Sentiment.MaxLength <= 0 {
		log.Warn().Int("max_length", c.Sentiment.MaxLength).Msg("Invalid SENTIMENT_MAX_LENGTH, using default")
		c.Sentiment.MaxLength = DefaultSentimentMaxLength
	}
	if c.Sentiment.Timeout <= 0 {
		c.Sentiment.Timeout = 10
	}

	if c.Review.DefaultLimit <= 0 {
		c.Review.DefaultLimit = 20
	}
	if c.Review.MaxLimit < c.Review.DefaultLimit {
		c.Review.MaxLimit = c.Review.DefaultLimit
	}
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		log.Warn().Str("key", key).Float64("default", defaultValue).Msg("Invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("Invalid boolean value, using default")
		return defaultValue
	}
	return value
}
