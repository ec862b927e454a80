package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shipshop/shipshop/internal/auth"
	"github.com/shipshop/shipshop/internal/domain"
)

// accountService implements domain.AccountService over the account store.
type accountService struct {
	store domain.AccountStore
}

var _ domain.AccountService = (*accountService)(nil)

// NewAccountService creates a new AccountService instance.
func NewAccountService(store domain.AccountStore) domain.AccountService {
	return &accountService{store: store}
}

// NormalizeEmail canonicalizes an email address: surrounding whitespace
// is trimmed and the domain part is lowercased. The local part is kept
// as entered.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// CreateUser registers a regular account. Email and username are
// required. New accounts are inactive with no staff or admin rights
// until explicitly granted.
func (s *accountService) CreateUser(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	const op = "account.create"

	email := NormalizeEmail(params.Email)
	username := strings.TrimSpace(params.Username)

	var verr error
	if email == "" {
		verr = domain.AddFieldError(verr, "email", "email is required")
	}
	if username == "" {
		verr = domain.AddFieldError(verr, "username", "username is required")
	}
	if verr != nil {
		return nil, verr
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	if _, err := s.store.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.NewValidationError(op, "password", err.Error())
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	account := &domain.Account{
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Username:     username,
		Email:        email,
		PhoneNumber:  strings.TrimSpace(params.PhoneNumber),
		PasswordHash: hash,
	}

	return s.store.Create(ctx, account)
}

// CreateSuperuser registers an account and grants it every flag.
func (s *accountService) CreateSuperuser(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	account, err := s.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateFlags(ctx, account.ID, true, true, true, true); err != nil {
		return nil, err
	}

	account.IsAdmin = true
	account.IsStaff = true
	account.IsActive = true
	account.IsSuperadmin = true

	return account, nil
}

// Authenticate verifies the email/password pair.
func (s *accountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	const op = "account.authenticate"

	account, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Unauthorized(op, "Invalid email or password")
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.Unauthorized(op, "Invalid email or password")
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	if !account.IsActive {
		return nil, domain.Forbidden(op, "Account is not active")
	}

	if err := s.store.TouchLastLogin(ctx, account.ID); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return s.store.GetByID(ctx, id)
}

// HasPermission implements the coarse authorization model: admins hold
// every permission, everyone else holds none.
func (s *accountService) HasPermission(account *domain.Account, permission string) bool {
	if account == nil {
		return false
	}
	return account.IsAdmin
}
