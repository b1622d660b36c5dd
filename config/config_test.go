package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "fahrschule", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/fahrschule?sslmode=disable", c.DSN())

	c.URL = "postgres://localhost:5432/other?sslmode=disable"
	assert.Equal(t, c.URL, c.DSN())
}

func TestDatabaseEnabled(t *testing.T) {
	assert.False(t, DatabaseConfig{}.Enabled())
	assert.True(t, DatabaseConfig{URL: "postgres://x"}.Enabled())
	assert.True(t, DatabaseConfig{Host: "db"}.Enabled())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.NotEmpty(t, cfg.Mail.OperatorEmail)
	assert.NotEmpty(t, cfg.Mail.InternalEmail)
}

func TestLoadSMTPPortOverride(t *testing.T) {
	t.Setenv("SMTP_PORT", "587")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTP.Port)
}
