package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	identity "github.com/payflow/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaimsAccessors(t *testing.T) {
	now := time.Now()

	claims := &identity.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:       "user-id",
		UserRole:  identity.RoleUser,
		UserEmail: "user@example.com",
	}

	assert.Equal(t, "subject-id", claims.Subject())
	assert.Equal(t, "user-id", claims.UserID())
	assert.Equal(t, identity.RoleUser, claims.Role())
	assert.Equal(t, "user@example.com", claims.Email())
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
	assert.WithinDuration(t, now.Add(time.Hour), claims.Expires(), time.Second)
}

func TestJWTClaimsUserIDFallsBackToSubject(t *testing.T) {
	claims := &identity.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
	}

	assert.Equal(t, "subject-id", claims.UserID())
}

func TestJWTClaimsRoles(t *testing.T) {
	user := &identity.JWTClaims{UserRole: identity.RoleUser}
	admin := &identity.JWTClaims{UserRole: identity.RoleAdmin}

	assert.True(t, user.HasRole(identity.RoleUser))
	assert.False(t, user.HasRole(identity.RoleAdmin))
	assert.False(t, user.IsAdmin())

	assert.True(t, admin.HasRole(identity.RoleAdmin))
	assert.True(t, admin.IsAdmin())
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &identity.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, identity.IsValidRole(identity.RoleUser))
	assert.True(t, identity.IsValidRole(identity.RoleAdmin))
	assert.False(t, identity.IsValidRole("superuser"))

	assert.True(t, identity.CanManageUsers(identity.RoleAdmin))
	assert.False(t, identity.CanManageUsers(identity.RoleUser))

	role, ok := identity.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, identity.RoleAdmin, role)

	_, ok = identity.ParseRole("root")
	assert.False(t, ok)
}
