package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// MiddlewareConfig configures the bearer token middleware
type MiddlewareConfig struct {
	// Validator checks the token and produces claims
	Validator TokenValidator
	// AuthScheme is the expected Authorization prefix, "Bearer" by default
	AuthScheme string
	// ContextKey is the locals key claims are stored under, "user" by default
	ContextKey string
	// ErrorHandler renders middleware failures, JSON envelope by default
	ErrorHandler func(router.Context, error) error
	Logger       Logger
}

func (cfg *MiddlewareConfig) setDefaults() {
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = NewErrorWriter(cfg.Logger).WriteJSONError
	}
}

// RequireAuth returns middleware that rejects requests without a valid
// bearer token. Valid claims are stored in the request locals under the
// context key, where handlers read them back through GetRouterClaims.
// The credential store is not consulted: a token stays valid until its
// natural expiry even if the account was deactivated after issuance.
func RequireAuth(cfg MiddlewareConfig) router.MiddlewareFunc {
	cfg.setDefaults()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			token, err := extractBearerToken(c.Header("Authorization"), cfg.AuthScheme)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			claims, err := cfg.Validator.Validate(token)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}

			c.Locals(cfg.ContextKey, claims)

			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects authenticated requests
// whose claims lack the given role. It must run after RequireAuth.
func RequireRole(role UserRole, cfg MiddlewareConfig) router.MiddlewareFunc {
	cfg.setDefaults()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			claims, ok := GetRouterClaims(c, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(c, ErrTokenMalformed)
			}

			if !claims.HasRole(string(role)) {
				cfg.Logger.Warn("role check failed", "required", role, "actual", claims.Role(), "user_id", claims.UserID())
				return cfg.ErrorHandler(c, ErrForbidden)
			}

			return next(c)
		}
	}
}

// RequireAdmin guards the administrative routes
func RequireAdmin(cfg MiddlewareConfig) router.MiddlewareFunc {
	return RequireRole(RoleAdmin, cfg)
}

func extractBearerToken(header, scheme string) (string, error) {
	if header == "" {
		return "", errors.New("missing or malformed JWT", errors.CategoryAuth).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errors.New("missing or malformed JWT", errors.CategoryAuth).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errors.New("missing or malformed JWT", errors.CategoryAuth).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	return token, nil
}
