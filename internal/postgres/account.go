package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipshop/shipshop/internal/domain"
)

const accountColumns = `id, first_name, last_name, username, email, phone_number,
	password_hash, date_joined, last_login, is_admin, is_staff, is_active, is_superadmin`

// AccountStore implements domain.AccountStore using PostgreSQL.
type AccountStore struct {
	db *pgxpool.Pool
}

var _ domain.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates a new PostgreSQL-backed account store.
func NewAccountStore(db *pgxpool.Pool) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(row pgx.Row, a *domain.Account) error {
	return row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email, &a.PhoneNumber,
		&a.PasswordHash, &a.DateJoined, &a.LastLogin,
		&a.IsAdmin, &a.IsStaff, &a.IsActive, &a.IsSuperadmin,
	)
}

// Create inserts the account. The service checks for duplicates first;
// the unique indexes are the backstop for the race it cannot close.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const query = `
		INSERT INTO accounts (first_name, last_name, username, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns

	var created domain.Account
	err := scanAccount(s.db.QueryRow(ctx, query,
		account.FirstName, account.LastName, account.Username,
		account.Email, account.PhoneNumber, account.PasswordHash,
	), &created)
	if err != nil {
		if isUniqueViolation(err, "accounts_email_key") {
			return nil, domain.ErrEmailTaken
		}
		if isUniqueViolation(err, "accounts_username_key") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, domain.Internal(err, "account.create", "failed to create account")
	}

	return &created, nil
}

// GetByEmail returns the account registered under the email address.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	var account domain.Account
	if err := scanAccount(s.db.QueryRow(ctx, query, email), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, domain.Internal(err, "account.get_by_email", "failed to get account")
	}

	return &account, nil
}

// GetByUsername returns the account holding the username.
func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	var account domain.Account
	if err := scanAccount(s.db.QueryRow(ctx, query, username), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, domain.Internal(err, "account.get_by_username", "failed to get account")
	}

	return &account, nil
}

// GetByID returns the account with the given ID.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account domain.Account
	if err := scanAccount(s.db.QueryRow(ctx, query, id), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("account.get", "account", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, "account.get", "failed to get account")
	}

	return &account, nil
}

// UpdateFlags persists the four permission flags.
func (s *AccountStore) UpdateFlags(ctx context.Context, id int64, isAdmin, isStaff, isActive, isSuperadmin bool) error {
	const query = `
		UPDATE accounts
		SET is_admin = $2, is_staff = $3, is_active = $4, is_superadmin = $5
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, isAdmin, isStaff, isActive, isSuperadmin)
	if err != nil {
		return domain.Internal(err, "account.update_flags", "failed to update account flags")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// TouchLastLogin records a successful sign-in.
func (s *AccountStore) TouchLastLogin(ctx context.Context, id int64) error {
	const query = `UPDATE accounts SET last_login = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return domain.Internal(err, "account.touch_last_login", "failed to update last login")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
