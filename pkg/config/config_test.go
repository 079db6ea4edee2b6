package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "jsonfile", cfg.StoreBackend)
	assert.Equal(t, "data/spool", cfg.MaildirPath)
	assert.Equal(t, 30, cfg.PollIntervalSeconds)
	assert.Equal(t, "data/transactions.json", cfg.JSONFilePath)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BUDGETMAIL_STORE", "postgres")
	t.Setenv("BUDGETMAIL_MAILDIR", "/var/spool/budgetmail")
	t.Setenv("BUDGETMAIL_POLL_INTERVAL", "5")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "budgetmail")
	t.Setenv("POSTGRES_USER", "ingest")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "/var/spool/budgetmail", cfg.MaildirPath)
	assert.Equal(t, 5, cfg.PollIntervalSeconds)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "budgetmail", cfg.Postgres.Database)
	assert.Equal(t, "ingest", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
}

func TestLoad_InvalidPollIntervalFallsBack(t *testing.T) {
	t.Setenv("BUDGETMAIL_POLL_INTERVAL", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.PollIntervalSeconds)
}
