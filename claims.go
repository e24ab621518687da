package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims is the validated view of a bearer token
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	Email() string
	HasRole(role string) bool
	IsAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	UserRole  string `json:"role,omitempty"`
	UserEmail string `json:"email,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the global role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Email returns the email the token was issued for
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// HasRole checks if the token carries the given role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAdmin checks the role claim against the admin capability
func (c *JWTClaims) IsAdmin() bool {
	return CanManageUsers(UserRole(c.UserRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
