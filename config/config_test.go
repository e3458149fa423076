package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "go-blog-platform", cfg.AppName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "blogtest")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "blogtest", cfg.DBName)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.MailSendEnabled)
	// Malformed values fall back to the default.
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "blog",
		DBPassword: "pw",
		DBHost:     "db",
		DBPort:     "5433",
		DBName:     "blogdb",
		DBSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://blog:pw@db:5433/blogdb?sslmode=disable", cfg.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.test, http://b.test ,,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())

	cfg = &Config{}
	assert.Empty(t, cfg.CORSOrigins())
}
