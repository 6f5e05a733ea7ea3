package config

import (
	"fmt"
	"time"
)

// JWTConfig configures verification of access tokens issued by the hosted auth backend.
//
// Tokens are accepted when signed with HS256 using Secret, or with RS256 using a key published
// at JWKSURL. At least one of the two must be configured.
type JWTConfig struct {
	Issuer   string
	Audience string

	Secret []byte

	JWKSURL                string
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration
	HTTPTimeout            time.Duration

	ClockSkew time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	issuer := getenv("JWT_ISSUER", "")
	secret := getenv("JWT_SECRET", "")
	jwksURL := getenv("JWT_JWKS_URL", "")
	if issuer == "" {
		return JWTConfig{}, fmt.Errorf("missing required env var: JWT_ISSUER")
	}
	if secret == "" && jwksURL == "" {
		return JWTConfig{}, fmt.Errorf("one of JWT_SECRET or JWT_JWKS_URL must be set")
	}

	cfg := JWTConfig{
		Issuer:   issuer,
		Audience: getenv("JWT_AUDIENCE", "authenticated"),
		JWKSURL:  jwksURL,

		ClockSkew:              30 * time.Second,
		JWKSRefreshInterval:    5 * time.Minute,
		JWKSMinRefreshInterval: 10 * time.Second,
		HTTPTimeout:            5 * time.Second,
	}
	if secret != "" {
		cfg.Secret = []byte(secret)
	}

	var err error
	if cfg.ClockSkew, err = durationEnv("JWT_CLOCK_SKEW", cfg.ClockSkew); err != nil {
		return JWTConfig{}, err
	}
	if cfg.JWKSRefreshInterval, err = durationEnv("JWT_JWKS_REFRESH_INTERVAL", cfg.JWKSRefreshInterval); err != nil {
		return JWTConfig{}, err
	}
	if cfg.JWKSMinRefreshInterval, err = durationEnv("JWT_JWKS_MIN_REFRESH_INTERVAL", cfg.JWKSMinRefreshInterval); err != nil {
		return JWTConfig{}, err
	}
	if cfg.HTTPTimeout, err = durationEnv("JWT_HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return JWTConfig{}, err
	}
	return cfg, nil
}
