package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/garage/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "garage_inventory", cfg.DB.Name)
	assert.Equal(t, time.Hour, cfg.Debt.SweepInterval)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, "postgres://postgres:@localhost:5432/garage_inventory?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DEBT_SWEEP_INTERVAL", "15m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Debt.SweepInterval)
	assert.Equal(t, "postgres://postgres:secret@db:5432/garage_inventory?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_WithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateAuth())
}

func TestLoad_SweepInterval(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Zero", value: "0s"},
		{name: "Negative", value: "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEBT_SWEEP_INTERVAL", tt.value)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DEBT_SWEEP_INTERVAL")
		})
	}
}

func TestConfig_ValidateAuth(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     string
		wantErr bool
	}{
		{name: "Valid", secret: strings.Repeat("s", 32), ttl: "1h"},
		{name: "ShortSecret", secret: "short", ttl: "1h", wantErr: true},
		{name: "ZeroTTL", secret: strings.Repeat("s", 32), ttl: "0s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("AUTH_TOKEN_TTL", tt.ttl)

			cfg, err := config.Load()
			require.NoError(t, err)

			if tt.wantErr {
				assert.Error(t, cfg.ValidateAuth())
				return
			}

			assert.NoError(t, cfg.ValidateAuth())
		})
	}
}
