package identity

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface this package needs
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// Config holds the token and middleware options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
	GetContextKey() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService signs and validates bearer tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	ExpiresIn() int64
	Validate(tokenString string) (AuthClaims, error)
}

// AuthService is the inbound surface of the authentication core
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	CurrentUser(ctx context.Context, userID string) (*UserProfile, error)
	Logout(ctx context.Context, token string) error
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
	IsPhoneAvailable(ctx context.Context, phone string) (bool, error)
}

// UserService is the inbound surface of the lifecycle manager
type UserService interface {
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)
	GetUserByEmailOrPhone(ctx context.Context, identifier string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*UserProfile, error)
	ActivateUser(ctx context.Context, userID string) error
	DeactivateUser(ctx context.Context, userID string) error
	GetAllUsers(ctx context.Context) ([]*UserProfile, error)
	GetTotalActiveUsers(ctx context.Context) (int, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
