package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Garage"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"garage_inventory"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Debt struct {
		SweepInterval time.Duration `envconfig:"DEBT_SWEEP_INTERVAL" default:"1h"`
	}

	Auth struct {
		JWTSecret     string        `envconfig:"JWT_SECRET" default:""`
		TokenTTL      time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
		AdminUsername string        `envconfig:"ADMIN_USERNAME" default:"admin"`
		AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:""`
		LoginRate     string        `envconfig:"AUTH_LOGIN_RATE" default:"10-M"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Load reads the environment. Settings only the API server needs are checked
// separately by ValidateAuth.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Debt.SweepInterval <= 0 {
		return nil, fmt.Errorf("DEBT_SWEEP_INTERVAL must be positive, got %s", cfg.Debt.SweepInterval)
	}

	return &cfg, nil
}

func (c *Config) ValidateAuth() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}

	return nil
}
