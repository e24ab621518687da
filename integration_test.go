package identity_test

import (
	"context"
	"database/sql"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	identity "github.com/payflow/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	migrationsFS, err := fs.Sub(identity.GetMigrationsFS(), "data/sql/migrations")
	require.NoError(t, err)

	files, err := fs.Glob(migrationsFS, "*.up.sql")
	require.NoError(t, err)
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, file)
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(content), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			_, err := db.ExecContext(context.Background(), stmt)
			require.NoError(t, err)
		}
	}

	return db
}

func TestUsersRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	manager := identity.NewRepositoryManager(db)
	require.NoError(t, manager.Validate())
	repo := manager.Users()

	user, err := repo.Register(ctx, &identity.User{
		Email:        "Integration.User@Example.COM",
		Phone:        "+91 98765 43210",
		FirstName:    "Integration",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	// defaults and normalization applied on the way in
	assert.Equal(t, identity.RoleUser, user.Role)
	assert.Equal(t, identity.KycPending, user.KycStatus)
	assert.Equal(t, "integration.user@example.com", user.Email)
	assert.Equal(t, "9876543210", user.Phone)

	// both sides of the identifier lookup resolve to the same row
	byEmail, err := repo.GetByEmailOrPhone(ctx, "INTEGRATION.USER@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := repo.GetByEmailOrPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = repo.GetByEmailOrPhone(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))

	taken, err := repo.ExistsByEmail(ctx, "integration.user@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.ExistsByPhone(ctx, "1234567890")
	require.NoError(t, err)
	assert.False(t, free)

	// failed logins accumulate in the stored counter
	require.NoError(t, repo.TrackAttemptedLogin(ctx, user))
	require.NoError(t, repo.TrackAttemptedLogin(ctx, user))

	stored, err := repo.GetByUUID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LoginAttempts)
	assert.Nil(t, stored.LastLoginAt)

	// a successful login resets the counter and stamps last_login_at,
	// which are both zero-value writes the raw update must not skip
	require.NoError(t, repo.TrackSuccessfulLogin(ctx, stored))

	stored, err = repo.GetByUUID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LoginAttempts)
	require.NotNil(t, stored.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *stored.LastLoginAt, 5*time.Second)

	// deactivation clears a boolean, again through the raw update path
	require.NoError(t, repo.SetActive(ctx, user.ID, false))

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.SetActive(ctx, user.ID, true))

	count, err = repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// operator unlock clears the counter without touching last_login_at
	require.NoError(t, repo.TrackAttemptedLogin(ctx, stored))
	lastLogin := *stored.LastLoginAt

	require.NoError(t, repo.ResetAttempts(ctx, user.ID))

	stored, err = repo.GetByUUID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LoginAttempts)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, lastLogin.UTC().Truncate(time.Second), stored.LastLoginAt.UTC().Truncate(time.Second))

	byRole, err := repo.ListByRole(ctx, identity.RoleUser)
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, user.ID, byRole[0].ID)

	_, err = repo.GetByUUID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}
