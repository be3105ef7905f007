package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Mongo       MongoConfig               `json:"mongo"`
	Email       EmailConfig               `json:"email"`
	S3          S3Config                  `json:"s3"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type EmailConfig struct {
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	Sender    string `json:"sender"`
	Password  string `json:"password"`
	Recipient string `json:"recipient"`
}

type S3Config struct {
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

type BasicConfig struct {
	ServerAddress         string  `json:"server_address"`
	DefaultProvider       string  `json:"default_provider"`
	PhotoLimit            int     `json:"photo_limit"`
	SessionTimeoutMinutes int     `json:"session_timeout_minutes"`
	SweepProbability      float64 `json:"sweep_probability"`
	SweepIntervalMinutes  int     `json:"sweep_interval_minutes"`
	RateLimitPerMinute    int     `json:"rate_limit_per_minute"`
	HashSalt              string  `json:"hash_salt"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.BasicConfig.DefaultProvider == "" {
		return nil, fmt.Errorf("default_provider must be configured")
	}
	if _, ok := cfg.Providers[cfg.BasicConfig.DefaultProvider]; !ok {
		return nil, fmt.Errorf("provider %s not configured", cfg.BasicConfig.DefaultProvider)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BasicConfig.ServerAddress == "" {
		cfg.BasicConfig.ServerAddress = ":8090"
	}
	if cfg.BasicConfig.PhotoLimit <= 0 {
		cfg.BasicConfig.PhotoLimit = 3
	}
	if cfg.BasicConfig.SessionTimeoutMinutes <= 0 {
		cfg.BasicConfig.SessionTimeoutMinutes = 10
	}
	if cfg.BasicConfig.SweepProbability <= 0 {
		cfg.BasicConfig.SweepProbability = 0.05
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = "us-east-1"
	}
}

// Secrets may come from the environment instead of the config file.
func applyEnvOverrides(cfg *Config) {
	envKeys := map[string]string{
		"claude": "ANTHROPIC_API_KEY",
		"openai": "OPENAI_API_KEY",
		"gemini": "GEMINI_API_KEY",
	}
	for name, envKey := range envKeys {
		prov, ok := cfg.Providers[name]
		if !ok || prov.APIKey != "" {
			continue
		}
		if v := os.Getenv(envKey); v != "" {
			prov.APIKey = v
			cfg.Providers[name] = prov
		}
	}
	if cfg.Email.Sender == "" {
		cfg.Email.Sender = os.Getenv("EMAIL_SENDER")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if cfg.S3.Bucket == "" {
		cfg.S3.Bucket = os.Getenv("AWS_S3_BUCKET")
	}
	if cfg.BasicConfig.HashSalt == "" {
		cfg.BasicConfig.HashSalt = os.Getenv("HASH_SALT")
	}
}
