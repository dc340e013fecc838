package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (tokens are issued by the identity provider; we only verify)
	JWTSecret string

	// Push delivery
	AMQPURL      string
	PushExchange string
	InformAdmin  bool

	// ride push notifications expire after one hour,
	// request push notifications after five minutes
	RideAlertExpiry  time.Duration
	ShareAlertExpiry time.Duration

	// Ride validation bounds
	MinSeats int
	MaxSeats int

	// Timezone used when a ride carries no usable zone name
	DefaultTimeZone string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sharerides_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		PushExchange: getEnv("PUSH_EXCHANGE", "push.notifications"),
		InformAdmin:  getEnvBool("INFORM_ADMIN", true),

		RideAlertExpiry:  parseDuration(getEnv("RIDE_ALERT_EXPIRY", "1h")),
		ShareAlertExpiry: parseDuration(getEnv("SHARE_ALERT_EXPIRY", "5m")),

		MinSeats: getEnvInt("RIDE_MIN_SEATS", 1),
		MaxSeats: getEnvInt("RIDE_MAX_SEATS", 5),

		DefaultTimeZone: getEnv("DEFAULT_TIMEZONE", "Europe/London"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}
