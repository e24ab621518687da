package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Authenticator implements AuthService on top of the credential store,
// the token service, and the lockout policy.
type Authenticator struct {
	repo    RepositoryManager
	tokens  TokenService
	lockout *LockoutPolicy
	logger  Logger
}

// AuthenticatorOption customizes authenticator construction
type AuthenticatorOption func(*Authenticator)

// WithAuthLogger overrides the authenticator logger
func WithAuthLogger(logger Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLockoutPolicy overrides the default lockout policy
func WithLockoutPolicy(policy *LockoutPolicy) AuthenticatorOption {
	return func(a *Authenticator) {
		if policy != nil {
			a.lockout = policy
		}
	}
}

// NewAuthenticator wires the authentication core
func NewAuthenticator(repo RepositoryManager, tokens TokenService, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.lockout == nil {
		a.lockout = NewLockoutPolicy(repo.Users(), WithLockoutLogger(a.logger))
	}

	return a
}

// Register validates and sanitizes the payload, rejects duplicate email
// or phone, and creates the account with its defaults. A fresh account is
// active, unverified, KYC pending, and holds the user role regardless of
// what the payload claims. On success a token is issued immediately.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, ValidationError(err)
	}

	email := NormalizeEmail(input.Email)
	phone := NormalizePhone(input.Phone)

	if taken, err := a.repo.Users().ExistsByEmail(ctx, email); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "email lookup failed")
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := a.repo.Users().ExistsByPhone(ctx, phone); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "phone lookup failed")
	} else if taken {
		return nil, ErrPhoneTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		Phone:        phone,
		FirstName:    SanitizeInput(input.FirstName),
		LastName:     SanitizeInput(input.LastName),
		PasswordHash: hash,
		Role:         RoleUser,
		KycStatus:    KycPending,
		IsActive:     true,
	}

	user, err = a.repo.Users().Register(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create user")
	}

	a.logger.Info("user registered", "user_id", user.ID.String())

	return a.issueResponse(user)
}

// Login authenticates an identifier/password pair. The checks run in a
// fixed order: unknown identifier, deactivated account, locked account,
// then the password itself. A locked account never reaches the password
// comparison. Failed comparisons increment the persisted attempt counter
// before the error surfaces; a success resets it and stamps the login
// time.
func (a *Authenticator) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, ValidationError(err)
	}

	user, err := a.repo.Users().GetByEmailOrPhone(ctx, input.EmailOrPhone)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if a.lockout.IsLocked(user) {
		return nil, ErrAccountLocked
	}

	if err := ComparePasswordAndHash(input.Password, user.PasswordHash); err != nil {
		if _, terr := a.lockout.RecordFailure(ctx, user); terr != nil {
			a.logger.Error("failed to persist login attempt", "user_id", user.ID.String(), "error", terr)
		}
		return nil, ErrInvalidCredentials
	}

	if err := a.lockout.RecordSuccess(ctx, user); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to record login")
	}

	a.logger.Info("user logged in", "user_id", user.ID.String())

	return a.issueResponse(user)
}

// CurrentUser resolves the profile behind a token subject
func (a *Authenticator) CurrentUser(ctx context.Context, userID string) (*UserProfile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := a.repo.Users().GetByUUID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
	}

	return user.Profile(), nil
}

// Logout is a no-op: tokens are stateless and remain valid until their
// natural expiry. The hook exists so transports can expose the endpoint
// and a future revocation list has a place to plug in.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	a.logger.Debug("logout requested, token discarded client side")
	return nil
}

// IsEmailAvailable reports whether no account holds the email
func (a *Authenticator) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := a.repo.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "email lookup failed")
	}
	return !taken, nil
}

// IsPhoneAvailable reports whether no account holds the phone number
func (a *Authenticator) IsPhoneAvailable(ctx context.Context, phone string) (bool, error) {
	taken, err := a.repo.Users().ExistsByPhone(ctx, phone)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "phone lookup failed")
	}
	return !taken, nil
}

func (a *Authenticator) issueResponse(user *User) (*AuthResponse, error) {
	token, err := a.tokens.Generate(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return &AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: a.tokens.ExpiresIn(),
		User:      user.Profile(),
	}, nil
}

var _ AuthService = (*Authenticator)(nil)
