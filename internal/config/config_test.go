package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		cfg := &Config{
			Port:      "8080",
			Env:       "development",
			JWTSecret: "dev-secret",
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := &Config{JWTSecret: "dev-secret"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := &Config{Port: "8080"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default secret", func(t *testing.T) {
		cfg := &Config{
			Port:       "8080",
			Env:        "production",
			JWTSecret:  "your-secret-key-change-in-production",
			DBPassword: "something-strong",
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		cfg := &Config{
			Port:       "8080",
			Env:        "production",
			JWTSecret:  "short",
			DBPassword: "something-strong",
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects weak db password", func(t *testing.T) {
		cfg := &Config{
			Port:       "8080",
			Env:        "production",
			JWTSecret:  "a-very-long-secret-key-for-production-use",
			DBPassword: "password",
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid production config", func(t *testing.T) {
		cfg := &Config{
			Port:       "8080",
			Env:        "production",
			JWTSecret:  "a-very-long-secret-key-for-production-use",
			DBPassword: "something-strong",
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.False(t, (&Config{Env: "development"}).IsProduction())
	assert.False(t, (&Config{Env: ""}).IsProduction())
}
