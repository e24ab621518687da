package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserManager implements UserService: profile updates, activation state,
// and the administrative listings.
type UserManager struct {
	repo   RepositoryManager
	logger Logger
}

// UserManagerOption customizes manager construction
type UserManagerOption func(*UserManager)

// WithUserLogger overrides the manager logger
func WithUserLogger(logger Logger) UserManagerOption {
	return func(m *UserManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewUserManager wires the lifecycle manager
func NewUserManager(repo RepositoryManager, opts ...UserManagerOption) *UserManager {
	m := &UserManager{
		repo:   repo,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// GetUserByID fetches a record by its id
func (m *UserManager) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return m.getUser(ctx, userID)
}

// GetUserByEmail fetches a record by its unique email
func (m *UserManager) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := m.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}
	return user, nil
}

// GetUserByPhone fetches a record by its unique phone number
func (m *UserManager) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	user, err := m.repo.Users().GetByPhone(ctx, phone)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}
	return user, nil
}

// GetUserByEmailOrPhone resolves the identifier against either unique
// column, the same lookup the login path uses.
func (m *UserManager) GetUserByEmailOrPhone(ctx context.Context, identifier string) (*User, error) {
	user, err := m.repo.Users().GetByEmailOrPhone(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}
	return user, nil
}

// UpdateProfile applies the provided name fields and leaves the rest of
// the record untouched. Email, phone, role, and activation state are not
// reachable from here.
func (m *UserManager) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*UserProfile, error) {
	if err := input.Validate(); err != nil {
		return nil, ValidationError(err)
	}

	user, err := m.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.FirstName != nil {
		user.FirstName = SanitizeInput(*input.FirstName)
		changed = true
	}
	if input.LastName != nil {
		user.LastName = SanitizeInput(*input.LastName)
		changed = true
	}

	if !changed {
		return user.Profile(), nil
	}

	user, err = m.repo.Users().Save(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to update profile")
	}

	m.logger.Info("profile updated", "user_id", user.ID.String())

	return user.Profile(), nil
}

// ActivateUser flips the account to active. Activating an already active
// account succeeds without touching the record.
func (m *UserManager) ActivateUser(ctx context.Context, userID string) error {
	return m.setActive(ctx, userID, true)
}

// DeactivateUser flips the account to inactive, which blocks future
// logins. Tokens issued before deactivation stay valid until expiry.
func (m *UserManager) DeactivateUser(ctx context.Context, userID string) error {
	return m.setActive(ctx, userID, false)
}

// GetAllUsers lists the active accounts as profiles
func (m *UserManager) GetAllUsers(ctx context.Context) ([]*UserProfile, error) {
	users, err := m.repo.Users().ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "user listing failed")
	}

	profiles := make([]*UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}

	return profiles, nil
}

// GetTotalActiveUsers counts the active accounts
func (m *UserManager) GetTotalActiveUsers(ctx context.Context) (int, error) {
	count, err := m.repo.Users().CountActive(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryOperation, "user count failed")
	}
	return count, nil
}

func (m *UserManager) setActive(ctx context.Context, userID string, active bool) error {
	user, err := m.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsActive == active {
		return nil
	}

	if err := m.repo.Users().SetActive(ctx, user.ID, active); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to update activation state")
	}

	if active {
		m.logger.Info("user activated", "user_id", user.ID.String())
	} else {
		m.logger.Info("user deactivated", "user_id", user.ID.String())
	}

	return nil
}

func (m *UserManager) getUser(ctx context.Context, userID string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := m.repo.Users().GetByUUID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}

	return user, nil
}

var _ UserService = (*UserManager)(nil)
