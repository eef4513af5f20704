package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/password"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "users"
	colID           = "id"
	colEmail        = "email"
	colName         = "name"
	colImage        = "image"
	colRole         = "role"
	colPasswordHash = "password_hash"
	colCreatedAt    = "created_at"

	uniqueViolation = "23505"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL,
	name          TEXT NOT NULL,
	image         TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email);
`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{colID, colEmail, colName, colImage, colRole, colPasswordHash, colCreatedAt}

type dummyVerifier interface {
	VerifyDummy(password string)
}

// Store is a directory.Directory backed by PostgreSQL. Email uniqueness is
// enforced by a unique index; emails are stored normalized.
type Store struct {
	dbc    *pgxpool.Pool
	hasher password.Hasher
	now    func() time.Time
}

// NewStore wraps an open pool. A nil hasher selects password.Default().
func NewStore(dbc *pgxpool.Pool, hasher password.Hasher) *Store {
	if hasher == nil {
		hasher = password.Default()
	}
	return &Store{dbc: dbc, hasher: hasher, now: time.Now}
}

// Migrate creates the users table and its unique email index.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.dbc.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// FindUserByID selects one user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (*directory.User, error) {
	sqlStr, args, err := selectByIDQuery(id).ToSql()
	if err != nil {
		return nil, err
	}
	return s.scanUser(ctx, sqlStr, args)
}

// FindUserByEmailAndPassword selects by normalized email and verifies the password.
func (s *Store) FindUserByEmailAndPassword(ctx context.Context, email, pw string) (*directory.User, error) {
	sqlStr, args, err := selectByEmailQuery(directory.NormalizeEmail(email)).ToSql()
	if err != nil {
		return nil, err
	}

	u, err := s.scanUser(ctx, sqlStr, args)
	if errors.Is(err, directory.ErrUserNotFound) {
		if dv, ok := s.hasher.(dummyVerifier); ok {
			dv.VerifyDummy(pw)
		}
		return nil, directory.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	match, err := s.hasher.Verify(pw, u.PasswordHash)
	if err != nil || !match {
		return nil, directory.ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser inserts a new user; a unique violation maps to ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, in directory.CreateUserInput) (*directory.User, error) {
	in, err := directory.Prepare(in)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &directory.User{
		ID:           directory.NewUserID(),
		Email:        in.Email,
		Name:         in.Name,
		Image:        in.Image,
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}

	sqlStr, args, err := insertQuery(u).ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := s.dbc.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, directory.ErrEmailExists
		}
		return nil, fmt.Errorf("postgres: insert user: %w", err)
	}
	return u, nil
}

// IsEmailExists checks for a row with the normalized email.
func (s *Store) IsEmailExists(ctx context.Context, email string) (bool, error) {
	sqlStr, args, err := existsByEmailQuery(directory.NormalizeEmail(email)).ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := s.dbc.QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: email exists: %w", err)
	}
	return exists, nil
}

// Delete removes the user with id. Idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := psql.Delete(table).Where(sq.Eq{colID: id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.dbc.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("postgres: delete user: %w", err)
	}
	return nil
}

func (s *Store) scanUser(ctx context.Context, sqlStr string, args []any) (*directory.User, error) {
	var (
		u    directory.User
		role string
	)
	err := s.dbc.QueryRow(ctx, sqlStr, args...).Scan(
		&u.ID, &u.Email, &u.Name, &u.Image, &role, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, directory.ErrUserNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		// invalid_text_representation: the id is not a UUID, so no such row.
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return nil, directory.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres: select user: %w", err)
	}
	u.Role = directory.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func selectByIDQuery(id string) sq.SelectBuilder {
	return psql.Select(userColumns...).From(table).Where(sq.Eq{colID: id})
}

func selectByEmailQuery(email string) sq.SelectBuilder {
	return psql.Select(userColumns...).From(table).Where(sq.Eq{colEmail: email})
}

func existsByEmailQuery(email string) sq.SelectBuilder {
	inner := psql.Select("1").From(table).Where(sq.Eq{colEmail: email})
	return psql.Select().Column(sq.Expr("EXISTS (?)", inner))
}

func insertQuery(u *directory.User) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.Image, string(u.Role), u.PasswordHash, u.CreatedAt)
}

var _ directory.Directory = (*Store)(nil)
