package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// KycStatus tracks the user's KYC verification progress. The value is
// defaulted at registration and mutated by the KYC subsystem, not here.
type KycStatus = string

const (
	// KycPending is the status every new account starts in
	KycPending KycStatus = "pending"
	// KycVerified means the KYC subsystem approved the account
	KycVerified KycStatus = "verified"
	// KycRejected means the KYC subsystem rejected the account
	KycRejected KycStatus = "rejected"
)

// User is the persisted account record
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone,notnull,unique" json:"phone,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	KycStatus     KycStatus  `bun:"kyc_status,notnull" json:"kyc_status,omitempty"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	EmailVerified bool       `bun:"email_verified" json:"email_verified"`
	PhoneVerified bool       `bun:"phone_verified" json:"phone_verified"`
	LoginAttempts int        `bun:"login_attempts" json:"-"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile returns the externally safe projection of the record. It never
// carries the password hash or the login attempt counter.
func (u *User) Profile() *UserProfile {
	if u == nil {
		return nil
	}
	return &UserProfile{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		KycStatus:     u.KycStatus,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// Identity adapts the record to the Identity interface consumed by the
// token service.
func (u *User) Identity() Identity {
	return userIdentity{
		id:    u.ID.String(),
		email: u.Email,
		role:  string(u.Role),
	}
}

type userIdentity struct {
	id    string
	email string
	role  string
}

func (i userIdentity) ID() string    { return i.id }
func (i userIdentity) Email() string { return i.email }
func (i userIdentity) Role() string  { return i.role }

var _ Identity = userIdentity{}

// UserProfile is the response projection for a User
type UserProfile struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Role          UserRole   `json:"role"`
	KycStatus     KycStatus  `json:"kyc_status"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *UserProfile `json:"user"`
}
