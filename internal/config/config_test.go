package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                "3500",
		DBDriver:            "postgres",
		DBPassword:          "secure-password",
		DBSSLMode:           "require",
		AccessTokenSecret:   "access-secret-at-least-32-characters",
		RefreshTokenSecret:  "refresh-secret-at-least-32-characters",
		AccessTokenTTLSecs:  3000,
		RefreshTokenTTLSecs: 86400,
		CacheTTLSecs:        20,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		mutate      func(*Config)
		expectError bool
	}{
		{"Production valid", "production", func(*Config) {}, false},
		{"Production default access secret", "production", func(c *Config) { c.AccessTokenSecret = defaultAccessSecret }, true},
		{"Production short secret", "prod", func(c *Config) { c.RefreshTokenSecret = "short" }, true},
		{"Production identical secrets", "production", func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }, true},
		{"Production ssl disabled", "production", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"Production sqlite skips db checks", "production", func(c *Config) { c.DBDriver = "sqlite"; c.DBSSLMode = "" }, false},
		{"Development weak secrets", "development", func(c *Config) { c.AccessTokenSecret = "dev"; c.RefreshTokenSecret = "dev" }, false},
		{"Missing port", "development", func(c *Config) { c.Port = "" }, true},
		{"Zero cache ttl", "test", func(c *Config) { c.CacheTTLSecs = 0 }, true},
		{"Unknown driver", "test", func(c *Config) { c.DBDriver = "mongo" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("CACHE_TTL_SECONDS", "20")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 20*time.Second, c.CacheTTL())
	assert.Equal(t, 3000*time.Second, c.AccessTokenTTL())
	assert.Equal(t, 24*time.Hour, c.RefreshTokenTTL())
	assert.False(t, c.IsProduction())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "60")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, time.Minute, c.AccessTokenTTL())
}
