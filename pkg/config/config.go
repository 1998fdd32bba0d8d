package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Ethereum
	EthRPCURL      string
	DXContractAddr string

	// Tokens
	TokensFile string
	TokenPairs []string // "SELL-BUY" symbol pairs, e.g. "WETH-RDN"

	// Monitor
	PollInterval  time.Duration
	PriceCacheTTL time.Duration

	// Cache
	CacheNumCounters int64
	CacheMaxCost     int64

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Ethereum
		EthRPCURL:      getEnvOrDefault("ETH_RPC_URL", "https://rpc.mainnet.eth"),
		DXContractAddr: getEnvOrDefault("DX_CONTRACT_ADDRESS", "0xb9812E2fA995EC53B5b6DF34d21f9304762C5497"),

		// Tokens
		TokensFile: getEnvOrDefault("TOKENS_FILE", "tokens.json"),
		TokenPairs: getListOrDefault("TOKEN_PAIRS", []string{"WETH-RDN"}),

		// Monitor defaults
		PollInterval:  getDurationOrDefault("POLL_INTERVAL", 15*time.Second),
		PriceCacheTTL: getDurationOrDefault("PRICE_CACHE_TTL", 5*time.Minute),

		// Cache defaults
		CacheNumCounters: getInt64OrDefault("CACHE_NUM_COUNTERS", 10000),
		CacheMaxCost:     getInt64OrDefault("CACHE_MAX_COST", 1000),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "dutchx"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "dutchx123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "dutchx_monitor"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.EthRPCURL == "" {
		return fmt.Errorf("ETH_RPC_URL cannot be empty")
	}

	if c.DXContractAddr == "" {
		return fmt.Errorf("DX_CONTRACT_ADDRESS cannot be empty")
	}

	if len(c.TokenPairs) == 0 {
		return fmt.Errorf("TOKEN_PAIRS cannot be empty")
	}

	for _, pair := range c.TokenPairs {
		parts := strings.Split(pair, "-")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("TOKEN_PAIRS entry must be SELL-BUY, got %q", pair)
		}
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %v", c.PollInterval)
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return defaultValue
	}

	return out
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
