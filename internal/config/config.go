package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Etherscan EtherscanConfig `yaml:"etherscan"`
	Scan      ScanConfig      `yaml:"scan"`
	Balance   BalanceConfig   `yaml:"balance"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// EtherscanConfig holds the configuration for the ledger query client.
// The API key is taken from the ETHERSCAN_API_KEY environment variable when
// not set here; free-tier keys are limited to 5 requests per second, which
// the defaults below respect.
type EtherscanConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   int    `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int    `yaml:"rateLimitBurst"`
}

// ScanConfig holds defaults for the transfer queries.
type ScanConfig struct {
	EndBlock uint64 `yaml:"endBlock"`
}

// BalanceConfig holds configuration for the balance-by-date service.
type BalanceConfig struct {
	CacheTTLMinutes          int `yaml:"cacheTTLMinutes"`
	CacheCleanupEveryMinutes int `yaml:"cacheCleanupEveryMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Etherscan.BaseURL == "" {
		cfg.Etherscan.BaseURL = "https://api.etherscan.io/api"
		logrus.Infof("Etherscan.BaseURL not set, defaulting to %s", cfg.Etherscan.BaseURL)
	}
	if cfg.Etherscan.APIKey == "" {
		cfg.Etherscan.APIKey = os.Getenv("ETHERSCAN_API_KEY")
	}
	if cfg.Etherscan.RequestTimeoutMillis == 0 {
		cfg.Etherscan.RequestTimeoutMillis = 10000
		logrus.Infof("Etherscan.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Etherscan.RequestTimeoutMillis)
	}
	if cfg.Etherscan.RateLimitPerSecond == 0 {
		cfg.Etherscan.RateLimitPerSecond = 5 // free tier limit
	}
	if cfg.Etherscan.RateLimitBurst == 0 {
		cfg.Etherscan.RateLimitBurst = cfg.Etherscan.RateLimitPerSecond
	}
	if cfg.Scan.EndBlock == 0 {
		cfg.Scan.EndBlock = 99999999
	}
	if cfg.Balance.CacheTTLMinutes == 0 {
		cfg.Balance.CacheTTLMinutes = 60
		logrus.Infof("Balance.CacheTTLMinutes not set, defaulting to %d minutes", cfg.Balance.CacheTTLMinutes)
	}
	if cfg.Balance.CacheCleanupEveryMinutes == 0 {
		cfg.Balance.CacheCleanupEveryMinutes = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
