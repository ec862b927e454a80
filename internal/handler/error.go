package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shipshop/shipshop/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorResponse writes a domain error as JSON or plain text depending on
// what the client accepts. Internal error details never reach the client;
// domain.ErrorMessage substitutes the generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	if acceptsJSON(r) {
		writeJSONError(w, status, errorBody{Code: code, Message: message})
		return
	}

	http.Error(w, message, status)
}

// ValidationErrorResponse writes a field-level validation error. Falls back
// to ErrorResponse when err is not a ValidationError.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) {
		ErrorResponse(w, r, err)
		return
	}

	fields := domain.GetValidationFields(err)

	if acceptsJSON(r) {
		writeJSONError(w, http.StatusBadRequest, errorBody{
			Code:    domain.EINVALID,
			Message: "Validation failed",
			Fields:  fields,
		})
		return
	}

	var b strings.Builder
	b.WriteString("Validation failed:")
	for field, msg := range fields {
		b.WriteString("\n" + field + ": " + msg)
	}
	http.Error(w, b.String(), http.StatusBadRequest)
}

// NotFoundResponse writes a generic 404
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.NotFound("http.not_found", "resource", r.URL.Path))
}

// UnauthorizedResponse writes a generic 401
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Unauthorized("http.unauthorized", "Authentication required"))
}

// ForbiddenResponse writes a generic 403
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Forbidden("http.forbidden", "You do not have access to this resource"))
}

// InternalErrorResponse writes a generic 500
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "http.internal", "unexpected error"))
}

func writeJSONError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: body})
}

// acceptsJSON reports whether the client wants a JSON response
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}
