package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrAccountNotFound = &Error{Code: ENOTFOUND, Message: "Account not found"}
	ErrEmailTaken      = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrUsernameTaken   = &Error{Code: ECONFLICT, Message: "This username is already taken"}
)

// Account is a registered user. Email is the primary sign-in identifier;
// the username is a separate unique handle. PasswordHash only ever holds
// a one-way bcrypt hash.
type Account struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	DateJoined   pgtype.Timestamptz
	LastLogin    pgtype.Timestamptz
	IsAdmin      bool
	IsStaff      bool
	IsActive     bool
	IsSuperadmin bool
}

// FullName returns the account's display name.
func (a *Account) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.LastName
	}
}

// CreateAccountParams carries the fields collected at registration.
type CreateAccountParams struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	PhoneNumber string
	Password    string
}

// AccountService provides account creation and authentication.
type AccountService interface {
	// CreateUser registers a regular account. Email and username are
	// required; the email address is normalized before storage. New
	// accounts are inactive with no staff or admin rights.
	CreateUser(ctx context.Context, params CreateAccountParams) (*Account, error)

	// CreateSuperuser registers an account and grants it every flag:
	// admin, staff, active and superadmin.
	CreateSuperuser(ctx context.Context, params CreateAccountParams) (*Account, error)

	// Authenticate verifies the email/password pair. Inactive accounts
	// fail with EFORBIDDEN, bad credentials with EUNAUTHORIZED.
	Authenticate(ctx context.Context, email, password string) (*Account, error)

	// GetByID returns ErrAccountNotFound when absent.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// HasPermission reports whether the account holds the permission.
	// Authorization is all-or-nothing: admins hold every permission.
	HasPermission(account *Account, permission string) bool
}

// AccountStore provides persistence for accounts.
type AccountStore interface {
	// Create inserts the account and returns it with ID and timestamps
	// populated. Duplicate email or username surfaces as ErrEmailTaken
	// or ErrUsernameTaken.
	Create(ctx context.Context, account *Account) (*Account, error)

	// GetByEmail returns ErrAccountNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByUsername returns ErrAccountNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// GetByID returns ErrAccountNotFound when absent.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// UpdateFlags persists the four permission flags.
	UpdateFlags(ctx context.Context, id int64, isAdmin, isStaff, isActive, isSuperadmin bool) error

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(ctx context.Context, id int64) error
}
