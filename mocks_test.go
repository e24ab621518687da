package identity_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	identity "github.com/payflow/go-identity"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// mockUsers embeds the interface so only the methods a test exercises
// need an expectation; anything else panics loudly.
type mockUsers struct {
	identity.Users
	mock.Mock
}

func (m *mockUsers) GetByUUID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUsers) GetByPhone(ctx context.Context, phone string) (*identity.User, error) {
	args := m.Called(ctx, phone)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUsers) GetByEmailOrPhone(ctx context.Context, identifier string) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *mockUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

// Register echoes the record back when no explicit return is set,
// assigning an id the way the real store does.
func (m *mockUsers) Register(ctx context.Context, user *identity.User) (*identity.User, error) {
	args := m.Called(ctx, user)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if created, ok := args.Get(0).(*identity.User); ok && created != nil {
		return created, nil
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return user, nil
}

func (m *mockUsers) Save(ctx context.Context, user *identity.User) (*identity.User, error) {
	args := m.Called(ctx, user)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if saved, ok := args.Get(0).(*identity.User); ok && saved != nil {
		return saved, nil
	}
	return user, nil
}

func (m *mockUsers) ListActive(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*identity.User)
	return users, args.Error(1)
}

func (m *mockUsers) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUsers) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockUsers) TrackAttemptedLogin(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.LoginAttempts++
	}
	return args.Error(0)
}

func (m *mockUsers) TrackSuccessfulLogin(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.LoginAttempts = 0
		now := time.Now()
		user.LastLoginAt = &now
	}
	return args.Error(0)
}

func (m *mockUsers) ResetAttempts(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockRepoManager serves the mocked store to the services under test
type mockRepoManager struct {
	users identity.Users
}

func (m mockRepoManager) Users() identity.Users { return m.users }
func (m mockRepoManager) Validate() error       { return nil }
func (m mockRepoManager) MustValidate()         {}

func (m mockRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

var _ identity.RepositoryManager = mockRepoManager{}

// mockTracker is the minimal store slice the lockout policy needs
type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) TrackAttemptedLogin(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.LoginAttempts++
	}
	return args.Error(0)
}

func (m *mockTracker) TrackSuccessfulLogin(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.LoginAttempts = 0
	}
	return args.Error(0)
}
