package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultJWTAccessTTL    = "24h"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultEvidenceBaseDir = "./evidence"
	defaultEvidenceURLBase = "/static/evidence"
	defaultMeetingURLBase  = "https://meet.tutorhub.app"
)

type Config struct {
	AppEnv               string
	HTTPAddr             string
	DatabaseURL          string
	JWTSecret            string
	JWTAccessTTL         time.Duration
	EvidenceBaseDir      string
	EvidenceURLBase      string
	GatewayCallbackToken string
	PaymentGatewaySecret string
	MeetingURLBase       string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.EvidenceBaseDir = getEnv("EVIDENCE_BASE_DIR", defaultEvidenceBaseDir)
	cfg.EvidenceURLBase = getEnv("EVIDENCE_URL_BASE", defaultEvidenceURLBase)
	cfg.GatewayCallbackToken = strings.TrimSpace(os.Getenv("GATEWAY_CALLBACK_TOKEN"))
	cfg.PaymentGatewaySecret = strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_SECRET"))
	cfg.MeetingURLBase = getEnv("MEETING_URL_BASE", defaultMeetingURLBase)

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.GatewayCallbackToken == "" {
			return fmt.Errorf("in prod/release GATEWAY_CALLBACK_TOKEN must be set")
		}
		if cfg.PaymentGatewaySecret == "" {
			return fmt.Errorf("in prod/release PAYMENT_GATEWAY_SECRET must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	return d, nil
}
