package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to clients alongside the HTTP status.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	TextCodeAccountLocked      = "ACCOUNT_LOCKED"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodePhoneTaken         = "PHONE_TAKEN"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeWeakPassword       = "WEAK_PASSWORD"
	TextCodeForbidden          = "FORBIDDEN"
)

// ErrInvalidCredentials is returned for an unknown identifier and for a
// wrong password alike, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountDeactivated rejects logins against a deactivated account.
var ErrAccountDeactivated = errors.New("account is deactivated", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDeactivated).
	WithCode(errors.CodeUnauthorized)

// ErrAccountLocked rejects logins once the attempt counter reaches the
// lockout threshold, regardless of password correctness.
var ErrAccountLocked = errors.New("account locked due to multiple failed attempts", errors.CategoryAuth).
	WithTextCode(TextCodeAccountLocked).
	WithCode(errors.CodeForbidden)

// ErrEmailTaken signals a registration against an existing email.
var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrPhoneTaken signals a registration against an existing phone number.
var ErrPhoneTaken = errors.New("phone number already registered", errors.CategoryConflict).
	WithTextCode(TextCodePhoneTaken).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned for lookups by an unknown user id.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is returned when a token fails validation on expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed or its
// signature does not verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrWeakPassword rejects passwords that fail the strength policy.
var ErrWeakPassword = errors.New("password must contain at least 8 characters with uppercase, lowercase, digit and special character", errors.CategoryValidation).
	WithTextCode(TextCodeWeakPassword).
	WithCode(errors.CodeBadRequest)

// ErrForbidden rejects requests whose role claim lacks the capability.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ValidationError wraps a field-keyed validation failure (ozzo errors
// stringify as "field: message, ...") into the shared taxonomy.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}
	return errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithCode(errors.CodeBadRequest)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
