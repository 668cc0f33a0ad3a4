package jwt

import (
	"errors"
	"fmt"
)

var (
	errNoKey       = errors.New("jwt: either a secret key or a public key is required")
	errShortSecret = fmt.Errorf("jwt: secret key must be at least %d characters long", MinSecretKeyLen)
)

func validateConfig(cfg Config) error {
	if len(cfg.PublicKeyPEM) > 0 {
		return nil
	}
	if cfg.SecretKey == "" {
		return errNoKey
	}
	if len(cfg.SecretKey) < MinSecretKeyLen {
		return errShortSecret
	}
	return nil
}

func withDefaults(cfg Config) Config {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	return cfg
}
