package storefront

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shipshop/shipshop/internal/domain"
	"github.com/shipshop/shipshop/internal/handler"
	"github.com/shipshop/shipshop/internal/session"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	accounts domain.AccountService
	sessions domain.SessionStore
	resolver *session.Resolver
	renderer *handler.Renderer
	base     *BaseData
	validate *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts domain.AccountService, sessions domain.SessionStore, resolver *session.Resolver, renderer *handler.Renderer, base *BaseData) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		resolver: resolver,
		renderer: renderer,
		base:     base,
		validate: validator.New(),
	}
}

type registerForm struct {
	FirstName       string `validate:"required,max=50"`
	LastName        string `validate:"required,max=50"`
	Email           string `validate:"required,email,max=100"`
	PhoneNumber     string `validate:"omitempty,max=50"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// registerFieldErrors maps validator failures to user-facing messages
// keyed by form field name.
func registerFieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		fields["form"] = "Invalid form submission"
		return fields
	}

	for _, fe := range invalid {
		switch fe.Field() {
		case "FirstName":
			fields["first_name"] = "First name is required"
		case "LastName":
			fields["last_name"] = "Last name is required"
		case "Email":
			if fe.Tag() == "email" {
				fields["email"] = "Enter a valid email address"
			} else {
				fields["email"] = "Email is required"
			}
		case "PhoneNumber":
			fields["phone_number"] = "Phone number is too long"
		case "Password":
			if fe.Tag() == "min" {
				fields["password"] = "Password must be at least 8 characters"
			} else {
				fields["password"] = "Password is required"
			}
		case "ConfirmPassword":
			fields["confirm_password"] = "Passwords do not match"
		}
	}

	return fields
}

// RegisterForm handles GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, nil, nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("auth.register", "invalid form data"))
		return
	}

	form := registerForm{
		FirstName:       strings.TrimSpace(r.FormValue("first_name")),
		LastName:        strings.TrimSpace(r.FormValue("last_name")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		PhoneNumber:     strings.TrimSpace(r.FormValue("phone_number")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	if err := h.validate.Struct(form); err != nil {
		h.renderRegister(w, r, &form, registerFieldErrors(err))
		return
	}

	// The username is the local part of the email address.
	username := form.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}

	_, err := h.accounts.CreateUser(r.Context(), domain.CreateAccountParams{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Username:    username,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Password:    form.Password,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			h.renderRegister(w, r, &form, domain.GetValidationFields(err))
			return
		}
		if domain.ErrorCode(err) == domain.ECONFLICT {
			h.renderRegister(w, r, &form, map[string]string{
				"email": "An account with this email or username already exists",
			})
			return
		}
		handler.InternalErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, "")
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("auth.login", "invalid form data"))
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	account, err := h.accounts.Authenticate(r.Context(), email, password)
	if err != nil {
		switch domain.ErrorCode(err) {
		case domain.EUNAUTHORIZED:
			h.renderLogin(w, r, "Invalid email or password")
		case domain.EFORBIDDEN:
			h.renderLogin(w, r, "Your account is not active")
		default:
			handler.InternalErrorResponse(w, r, err)
		}
		return
	}

	token, r, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	if err := h.sessions.SetAccount(r.Context(), token, account.ID); err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	returnTo := r.FormValue("return_to")
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Logout handles POST /logout. The session stays alive so the anonymous
// cart survives; only the account binding is dropped.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.resolver.Peek(r); token != "" {
		if err := h.sessions.ClearAccount(r.Context(), token); err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
			handler.InternalErrorResponse(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, form *registerForm, fieldErrors map[string]string) {
	data := h.base.For(r)
	if form != nil {
		data["Form"] = form
	}
	if len(fieldErrors) > 0 {
		data["Errors"] = fieldErrors
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "register", data)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, message string) {
	data := h.base.For(r)
	if message != "" {
		data["Message"] = message
	}
	data["ReturnTo"] = r.URL.Query().Get("return_to")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "login", data)
}
