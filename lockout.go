package identity

import (
	"context"
)

// LockState is the lockout state derived from the attempt counter
type LockState string

const (
	// StateUnlocked accepts login attempts
	StateUnlocked LockState = "unlocked"
	// StateLocked rejects login attempts before the password is checked
	StateLocked LockState = "locked"
)

// MaxLoginAttempts is the number of failed attempts after which an
// account locks.
var MaxLoginAttempts = 5

// LoginTracker is the slice of the credential store the policy drives.
type LoginTracker interface {
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// LockoutPolicy is the per-user state machine over the persisted login
// attempt counter. Attempts only reset on a successful login, so an
// account that reaches the threshold stays locked until an operator
// clears the counter through Users.ResetAttempts.
type LockoutPolicy struct {
	store     LoginTracker
	threshold int
	logger    Logger
}

// LockoutOption customizes policy construction
type LockoutOption func(*LockoutPolicy)

// WithLockoutThreshold overrides the default attempt threshold
func WithLockoutThreshold(n int) LockoutOption {
	return func(p *LockoutPolicy) {
		if n > 0 {
			p.threshold = n
		}
	}
}

// WithLockoutLogger overrides the policy logger
func WithLockoutLogger(logger Logger) LockoutOption {
	return func(p *LockoutPolicy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewLockoutPolicy returns a policy backed by the given store
func NewLockoutPolicy(store LoginTracker, opts ...LockoutOption) *LockoutPolicy {
	p := &LockoutPolicy{
		store:     store,
		threshold: MaxLoginAttempts,
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Threshold returns the configured attempt threshold
func (p *LockoutPolicy) Threshold() int {
	return p.threshold
}

// CurrentState derives the lock state from the attempt counter
func (p *LockoutPolicy) CurrentState(user *User) LockState {
	if user == nil {
		return StateUnlocked
	}
	if user.LoginAttempts >= p.threshold {
		return StateLocked
	}
	return StateUnlocked
}

// IsLocked reports whether the account rejects logins outright
func (p *LockoutPolicy) IsLocked(user *User) bool {
	return p.CurrentState(user) == StateLocked
}

// RecordFailure increments the persisted counter and returns the
// resulting state. The persistence is a required side effect of a failed
// login: it must land even though the caller then surfaces an error.
func (p *LockoutPolicy) RecordFailure(ctx context.Context, user *User) (LockState, error) {
	if err := p.store.TrackAttemptedLogin(ctx, user); err != nil {
		return p.CurrentState(user), err
	}

	state := p.CurrentState(user)
	if state == StateLocked {
		p.logger.Warn("account locked after failed attempts", "user_id", user.ID.String(), "attempts", user.LoginAttempts)
	}

	return state, nil
}

// RecordSuccess resets the counter and stamps the login time
func (p *LockoutPolicy) RecordSuccess(ctx context.Context, user *User) error {
	return p.store.TrackSuccessfulLogin(ctx, user)
}
