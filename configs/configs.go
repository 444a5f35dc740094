// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// APIKeyEnv holds the Alpha Vantage secret. It is the only required variable.
	APIKeyEnv = "ALPHA_VANTAGE_API_KEY"

	DefaultBaseURL = "https://www.alphavantage.co"
	DefaultSymbol  = "AAPL"
	DefaultDataset = "analise_acoes"
	DefaultTable   = "historico_acoes_aapl"
)

// ErrMissingAPIKey is returned by PipelineLoad when the API key is not configured.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

// AppConfig holds process-level settings of the trigger server.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// ServerPort is the HTTP port the trigger listens on.
	ServerPort string

	// DebugMode switches gin to debug mode when "True".
	DebugMode string

	// LogLevel is a logrus level name ("debug", "info", ...).
	LogLevel string

	// TriggerPerMinute caps how many pipeline runs may start per minute.
	// Alpha Vantage's free tier allows 5 requests per minute.
	TriggerPerMinute int

	// Dataset and Table name the destination table served by the read API.
	Dataset string
	Table   string

	// ArchiveDir, when set, receives a Parquet snapshot of every run's rows.
	ArchiveDir string

	// Kafka contains the optional run event settings. Empty Broker disables publishing.
	Kafka KafkaConfig

	// ClickHouse contains the warehouse connection settings.
	ClickHouse ClickHouseConfig
}

// KafkaConfig holds Kafka connection settings for run events.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic for run events.
	Topic string
}

// ClickHouseConfig holds the warehouse connection parts.
type ClickHouseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// DSN renders the ClickHouse connection string for the given database.
func (c ClickHouseConfig) DSN(database string) string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		c.User, c.Password, c.Host, c.Port, database,
	)
}

// PipelineConfig is the per-invocation configuration of one ETL run.
// It is read fresh from the environment for every run and never mutated.
type PipelineConfig struct {
	// APIKey is the Alpha Vantage secret.
	APIKey string

	// BaseURL is the provider root, e.g. "https://www.alphavantage.co".
	BaseURL string

	// Symbol is the stock ticker to extract.
	Symbol string

	// Dataset is the warehouse database holding the destination table.
	Dataset string

	// Table is the destination table name.
	Table string

	// ClickHouse contains the warehouse connection settings.
	ClickHouse ClickHouseConfig
}

// DSN returns the ClickHouse connection string for the run's dataset.
func (p *PipelineConfig) DSN() string {
	return p.ClickHouse.DSN(p.Dataset)
}

// AppLoad loads process configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	triggerPerMinute := getEnvInt("TRIGGER_PER_MINUTE", 5)
	if triggerPerMinute <= 0 {
		triggerPerMinute = 5
	}

	return &AppConfig{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DebugMode:        getEnv("DEBUGMODE", "False"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TriggerPerMinute: triggerPerMinute,
		Dataset:          getEnv("STOCK_DATASET", DefaultDataset),
		Table:            getEnv("STOCK_TABLE", DefaultTable),
		ArchiveDir:       getEnv("ARCHIVE_DIR", ""),
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_RUN_TOPIC", "stock_etl_runs"),
		},
		ClickHouse: getClickHouseConfig(),
	}
}

// PipelineLoad reads the configuration of a single run.
// It returns ErrMissingAPIKey when the API key is absent or empty.
func PipelineLoad() (*PipelineConfig, error) {
	apiKey := getEnv(APIKeyEnv, "")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &PipelineConfig{
		APIKey:     apiKey,
		BaseURL:    getEnv("ALPHA_VANTAGE_BASE_URL", DefaultBaseURL),
		Symbol:     getEnv("STOCK_SYMBOL", DefaultSymbol),
		Dataset:    getEnv("STOCK_DATASET", DefaultDataset),
		Table:      getEnv("STOCK_TABLE", DefaultTable),
		ClickHouse: getClickHouseConfig(),
	}, nil
}

// getClickHouseConfig loads warehouse connection settings from environment.
func getClickHouseConfig() ClickHouseConfig {
	return ClickHouseConfig{
		User:     getEnv("CLICKHOUSE_USER", "default"),
		Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
		Port:     getEnv("CLICKHOUSE_TCP_PORT", "9000"),
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
