package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var ErrMissing = errors.New("missing required env")

// Validate checks everything the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("%w DATABASE_URL", ErrMissing))
	} else if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		if _, err := pq.ParseURL(c.DatabaseURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid DATABASE_URL: %w", err))
		}
	}

	errs = append(errs, NonEmpty(c.Auth.URL, "AUTH_URL"), NonEmpty(c.Auth.AnonKey, "AUTH_ANON_KEY"))

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort))
	}

	return errors.Join(errs...)
}

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("%w %s", ErrMissing, envName)
	}
	return nil
}

// SigningConfigured reports whether playback URLs can be signed.
func (s StreamConfig) SigningConfigured() bool {
	return s.SigningKeyID != "" && s.SigningKeyPEM != ""
}

// APIConfigured reports whether the Stream management API can be called.
func (s StreamConfig) APIConfigured() bool {
	return s.AccountID != "" && s.APIToken != ""
}
