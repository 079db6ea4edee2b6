// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// StoreBackend selects the transaction store: "jsonfile" or "postgres".
	// Environment variable: BUDGETMAIL_STORE
	StoreBackend string `koanf:"BUDGETMAIL_STORE"`

	// MaildirPath is the spool directory watched for incoming .eml files.
	// Environment variable: BUDGETMAIL_MAILDIR
	MaildirPath string `koanf:"BUDGETMAIL_MAILDIR"`

	// PollIntervalSeconds is how often the spool directory is scanned.
	// Environment variable: BUDGETMAIL_POLL_INTERVAL
	PollIntervalSeconds int `koanf:"BUDGETMAIL_POLL_INTERVAL"`

	// JSONFilePath is the transaction file used by the jsonfile store.
	// Environment variable: BUDGETMAIL_JSON_FILE
	JSONFilePath string `koanf:"BUDGETMAIL_JSON_FILE"`

	// Postgres configuration (used when StoreBackend is "postgres").
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string `koanf:"POSTGRES_HOST"`
	Port     int    `koanf:"POSTGRES_PORT"`
	Database string `koanf:"POSTGRES_DB"`
	User     string `koanf:"POSTGRES_USER"`
	Password string `koanf:"POSTGRES_PASSWORD"`
	SSLMode  string `koanf:"POSTGRES_SSLMODE"`
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "jsonfile"
	}
	if cfg.MaildirPath == "" {
		cfg.MaildirPath = "data/spool"
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 30
	}
	if cfg.JSONFilePath == "" {
		cfg.JSONFilePath = "data/transactions.json"
	}

	return &cfg, nil
}
