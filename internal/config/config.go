package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
		APIToken   string `yaml:"api_token"`
	} `yaml:"http"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Confidence struct {
		RefreshDebounce time.Duration `yaml:"refresh_debounce"`
		NightlyCron     string        `yaml:"nightly_cron"`
	} `yaml:"confidence"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HTTP_LISTEN_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.HTTP.APIToken = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REFRESH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Confidence.RefreshDebounce = d
		}
	}
	if v := os.Getenv("NIGHTLY_CRON"); v != "" {
		cfg.Confidence.NightlyCron = v
	}

	// Defaults
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":8080"
	}
	if cfg.HTTP.APIToken == "" {
		cfg.HTTP.APIToken = "dev-token"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = "postgres"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "fundsight"
	}
	if cfg.Confidence.RefreshDebounce == 0 {
		cfg.Confidence.RefreshDebounce = 3 * time.Second
	}
	if cfg.Confidence.NightlyCron == "" {
		cfg.Confidence.NightlyCron = "0 0 4 * * *"
	}

	return cfg, nil
}

// ConnString builds the lib/pq connection string.
func (c *Config) ConnString() string {
	if v := os.Getenv("DB_CONN_STR"); v != "" {
		return v
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.HTTP.APIToken == "" {
		return fmt.Errorf("http.api_token is required")
	}
	if c.Confidence.RefreshDebounce <= 0 {
		return fmt.Errorf("confidence.refresh_debounce must be positive")
	}
	return nil
}
