package identity

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetLoginAttemptsSQL = `UPDATE "users" AS "usr"
SET
	"login_attempts" = 0,
	"last_login_at" = ?
WHERE
	("usr"."id" = ?);`

// Users is the credential store: user records keyed by unique email and
// unique phone, plus the login bookkeeping the authenticator relies on.
type Users interface {
	repository.Repository[*User]

	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByEmailOrPhone(ctx context.Context, identifier string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)

	ListActive(ctx context.Context) ([]*User, error)
	CountActive(ctx context.Context) (int, error)
	ListByRole(ctx context.Context, role UserRole) ([]*User, error)
	ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*User, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	ResetAttempts(ctx context.Context, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository builds the bun-backed credential store
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByUUID looks a user up by primary key. The embedded repository's
// GetByID takes string identifiers, so the typed lookup gets its own name.
func (a *users) GetByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getByColumn(ctx, "id", id)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByColumn(ctx, "email", NormalizeEmail(email))
}

func (a *users) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return a.getByColumn(ctx, "phone", NormalizePhone(phone))
}

// GetByEmailOrPhone matches the identifier against either unique column.
// The email side is case-normalized before the lookup.
func (a *users) GetByEmailOrPhone(ctx context.Context, identifier string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(identifier)).
		WhereOr("?TableAlias.phone = ?", NormalizePhone(identifier)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"identifier": identifier})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return a.existsByColumn(ctx, "email", NormalizeEmail(email))
}

func (a *users) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return a.existsByColumn(ctx, "phone", NormalizePhone(phone))
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

// Save performs an insert-or-update on the primary key
func (a *users) Save(ctx context.Context, user *User) (*User, error) {
	if user != nil && user.ID != uuid.Nil {
		record, err := a.Repository.GetByIdentifierTx(ctx, a.db, user.ID.String())
		if err == nil {
			user.ID = record.ID
			return a.Repository.UpdateTx(ctx, a.db, user, repository.UpdateByID(user.ID.String()))
		}
		if !repository.IsRecordNotFound(err) {
			return nil, err
		}
	}
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) ListActive(ctx context.Context) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true).
		Scan(ctx)
	return records, err
}

func (a *users) CountActive(ctx context.Context) (int, error) {
	return a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.is_active = ?", true).
		Count(ctx)
}

func (a *users) ListByRole(ctx context.Context, role UserRole) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_role = ?", role).
		Scan(ctx)
	return records, err
}

func (a *users) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.created_at BETWEEN ? AND ?", start, end).
		Scan(ctx)
	return records, err
}

// SetActive flips the activation flag. Clearing a boolean is a
// zero-value update the ORM would skip, so this goes through raw SQL.
func (a *users) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := a.db.NewRaw(`UPDATE "users" AS "usr"
SET "is_active" = ?
WHERE ("usr"."id" = ?);`, active, id).Exec(ctx)
	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	record := &User{}
	record.ID = user.ID
	record.LoginAttempts = user.LoginAttempts + 1

	_, err := a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(user.ID.String()))
	if err == nil {
		user.LoginAttempts = record.LoginAttempts
	}

	return err
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	// NOTE: the ORM update skips zero values, so resetting the counter
	// goes through raw SQL.
	lastLogin := time.Now()
	_, err := tx.NewRaw(resetLoginAttemptsSQL, lastLogin, user.ID).Exec(ctx)
	if err == nil {
		user.LoginAttempts = 0
		user.LastLoginAt = &lastLogin
	}

	return err
}

// ResetAttempts clears the counter without touching last_login_at. This
// is the operator path for unlocking an account; it is not routed.
func (a *users) ResetAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.NewRaw(`UPDATE "users" AS "usr"
SET "login_attempts" = 0
WHERE ("usr"."id" = ?);`, id).Exec(ctx)
	return err
}

func (a *users) getByColumn(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) existsByColumn(ctx context.Context, column string, value any) (bool, error) {
	return a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias."+column+" = ?", value).
		Exists(ctx)
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.KycStatus == "" {
		record.KycStatus = KycPending
	}

	record.Email = NormalizeEmail(record.Email)
	record.Phone = NormalizePhone(record.Phone)
}
