package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidTokenSecret = errors.New("TOKEN_SECRET must be at least 32 bytes")
)

type Config struct {
	Env            string
	HTTPPort       string
	DatabaseURL    string
	TokenSecret    string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	LogDir         string
	LogLevel       string
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load builds the configuration from the environment. In production the
// store connection comes from DATABASE_URL with SSL required; otherwise it
// is assembled from the discrete DB_* variables.
func Load() (Config, error) {
	secret, err := mustEnv("TOKEN_SECRET")
	if err != nil {
		return Config{}, err
	}
	if len(secret) < 32 {
		return Config{}, fmt.Errorf("%w: got %d bytes", ErrInvalidTokenSecret, len(secret))
	}

	env := getEnv("APP_ENV", EnvDevelopment)

	databaseURL, err := databaseURLFor(env)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env:            env,
		HTTPPort:       getEnv("PORT", "3000"),
		DatabaseURL:    databaseURL,
		TokenSecret:    secret,
		SessionTTL:     getDurationEnv("SESSION_TTL", time.Hour),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		LogDir:         os.Getenv("LOG_DIR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}, nil
}

func databaseURLFor(env string) (string, error) {
	if env == EnvProduction {
		raw, err := mustEnv("DATABASE_URL")
		if err != nil {
			return "", err
		}
		return withSSLRequired(raw), nil
	}

	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		return raw, nil
	}

	host, err := mustEnv("DB_HOST")
	if err != nil {
		return "", err
	}
	user, err := mustEnv("DB_USER")
	if err != nil {
		return "", err
	}
	name, err := mustEnv("DB_NAME")
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, os.Getenv("DB_PASSWORD")),
		Host:   host + ":" + getEnv("DB_PORT", "5432"),
		Path:   "/" + name,
	}
	return u.String(), nil
}

func withSSLRequired(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "require")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
