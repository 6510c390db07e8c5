package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Seating  SeatingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// BookingConfig controls the reservation lifecycle knobs.
type BookingConfig struct {
	HoldTTL        time.Duration
	IdemTTL        time.Duration
	RateLimit      int
	RateWindow     time.Duration
	CacheTTL       time.Duration
	SearchCacheTTL time.Duration
}

// SeatingConfig controls the generated cabin layout. Rows 1 through
// FirstThroughRow are first class, rows through BusinessThroughRow are
// business, the rest economy.
type SeatingConfig struct {
	FirstThroughRow    int
	BusinessThroughRow int
	FirstExtraCents    int64
	BusinessExtraCents int64
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	holdTTL, err := durationEnv("BOOKING_HOLD_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idemTTL, err := durationEnv("BOOKING_IDEM_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimit, err := intEnv("BOOKING_RATE_LIMIT", 20)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateWindow, err := durationEnv("BOOKING_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheTTL, err := durationEnv("BOOKING_CACHE_TTL", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	searchCacheTTL, err := durationEnv("BOOKING_SEARCH_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	firstRow, err := intEnv("SEATING_FIRST_THROUGH_ROW", 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	businessRow, err := intEnv("SEATING_BUSINESS_THROUGH_ROW", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	firstExtra, err := intEnv("SEATING_FIRST_EXTRA_CENTS", 10000)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	businessExtra, err := intEnv("SEATING_BUSINESS_EXTRA_CENTS", 5000)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Postgres: PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     postgresHost,
			Port:     postgresPort,
			SSLMode:  postgresSSLMode,
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Booking: BookingConfig{
			HoldTTL:        holdTTL,
			IdemTTL:        idemTTL,
			RateLimit:      rateLimit,
			RateWindow:     rateWindow,
			CacheTTL:       cacheTTL,
			SearchCacheTTL: searchCacheTTL,
		},
		Seating: SeatingConfig{
			FirstThroughRow:    firstRow,
			BusinessThroughRow: businessRow,
			FirstExtraCents:    int64(firstExtra),
			BusinessExtraCents: int64(businessExtra),
		},
	}, nil
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}
