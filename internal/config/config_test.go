package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brianyyz/ShareRidesV2Server/internal/config"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"JWT_SECRET", "AMQP_URL", "PUSH_EXCHANGE", "INFORM_ADMIN",
		"RIDE_ALERT_EXPIRY", "SHARE_ALERT_EXPIRY", "RIDE_MIN_SEATS", "RIDE_MAX_SEATS",
		"DEFAULT_TIMEZONE", "PORT", "CORS_ORIGINS",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := config.Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "sharerides_db", cfg.DBName)
	assert.Equal(t, "push.notifications", cfg.PushExchange)
	assert.True(t, cfg.InformAdmin)
	assert.Equal(t, time.Hour, cfg.RideAlertExpiry)
	assert.Equal(t, 5*time.Minute, cfg.ShareAlertExpiry)
	assert.Equal(t, 1, cfg.MinSeats)
	assert.Equal(t, 5, cfg.MaxSeats)
	assert.Equal(t, "Europe/London", cfg.DefaultTimeZone)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("RIDE_MAX_SEATS", "7")
	t.Setenv("INFORM_ADMIN", "false")
	t.Setenv("RIDE_ALERT_EXPIRY", "30m")

	cfg := config.Load()

	assert.Equal(t, 7, cfg.MaxSeats)
	assert.False(t, cfg.InformAdmin)
	assert.Equal(t, 30*time.Minute, cfg.RideAlertExpiry)
}

func TestDSN(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "rides")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "rides_db")

	dsn := config.Load().DSN()

	assert.Equal(t, "host=db.internal user=rides password=secret dbname=rides_db port=5432 sslmode=disable TimeZone=UTC", dsn)
}
