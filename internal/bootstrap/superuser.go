// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shipshop/shipshop/internal/domain"
)

// SuperuserConfig contains configuration for the initial superuser.
type SuperuserConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Username  string
}

// Validate checks that the superuser configuration is valid.
func (c *SuperuserConfig) Validate() error {
	if c.Email == "" {
		return errors.New("superuser email is required")
	}
	if c.Password == "" {
		return errors.New("superuser password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("superuser password must be at least 12 characters")
	}
	return nil
}

// EnsureSuperuser creates the initial superuser if it doesn't exist.
// Idempotent - safe to call on every startup.
//
// If the superuser already exists (by email), it returns without error.
// If cfg is nil or has empty Email/Password, it logs a warning and skips.
func EnsureSuperuser(
	ctx context.Context,
	accounts domain.AccountService,
	store domain.AccountStore,
	cfg *SuperuserConfig,
	logger *slog.Logger,
) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping superuser creation - SHIPSHOP_ADMIN_EMAIL or SHIPSHOP_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create a superuser on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid superuser configuration: %w", err)
	}

	existing, err := store.GetByEmail(ctx, cfg.Email)
	if err == nil && existing != nil {
		logger.Info("bootstrap: superuser already exists",
			"email", cfg.Email,
		)
		return nil
	}
	if err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
		return fmt.Errorf("failed to check for existing superuser: %w", err)
	}

	firstName := cfg.FirstName
	if firstName == "" {
		firstName = "Admin"
	}
	lastName := cfg.LastName
	if lastName == "" {
		lastName = "User"
	}
	username := cfg.Username
	if username == "" {
		username = "admin"
	}

	account, err := accounts.CreateSuperuser(ctx, domain.CreateAccountParams{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     cfg.Email,
		Password:  cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	logger.Info("bootstrap: created superuser",
		"email", account.Email,
		"username", account.Username,
	)

	return nil
}
