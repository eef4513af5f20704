package redisdir

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/password"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "gosession"

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// KEYS[1] user hash, KEYS[2] email index; ARGV[1] id, ARGV[2..] fields.
const createUserScript = `
if redis.call("SETNX", KEYS[2], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1],
  "id", ARGV[1],
  "email", ARGV[2],
  "name", ARGV[3],
  "image", ARGV[4],
  "role", ARGV[5],
  "password_hash", ARGV[6],
  "created_at", ARGV[7])
return 1
`

// KEYS[1] user hash; ARGV[1] email key prefix, ARGV[2] id.
const deleteUserScript = `
local email = redis.call("HGET", KEYS[1], "email")
if not email then
  return 0
end
redis.call("DEL", KEYS[1])
local emailKey = ARGV[1] .. email
if redis.call("GET", emailKey) == ARGV[2] then
  redis.call("DEL", emailKey)
end
return 1
`

var (
	createUserLua = redis.NewScript(createUserScript)
	deleteUserLua = redis.NewScript(deleteUserScript)
)

type dummyVerifier interface {
	VerifyDummy(password string)
}

// Store is a directory.Directory backed by Redis.
//
// Users live in a hash at <prefix>:user:<id>; the email index at
// <prefix>:email:<email> is claimed with SETNX inside the create script, so
// two concurrent registrations for one email cannot both succeed.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	hasher password.Hasher
	now    func() time.Time
}

// NewStore returns a store using prefix (DefaultPrefix when empty) and
// hasher (password.Default() when nil).
func NewStore(client redis.UniversalClient, prefix string, hasher password.Hasher) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if hasher == nil {
		hasher = password.Default()
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		hasher: hasher,
		now:    time.Now,
	}
}

func (s *Store) userKey(id string) string {
	return s.prefix + ":user:" + id
}

func (s *Store) emailKeyPrefix() string {
	return s.prefix + ":email:"
}

func (s *Store) emailKey(email string) string {
	return s.emailKeyPrefix() + email
}

// FindUserByID loads the user hash for id.
func (s *Store) FindUserByID(ctx context.Context, id string) (*directory.User, error) {
	if id == "" {
		return nil, directory.ErrUserNotFound
	}
	fields, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, directory.ErrUserNotFound
	}
	return decodeUser(fields)
}

// FindUserByEmailAndPassword resolves the email index then verifies the password.
func (s *Store) FindUserByEmailAndPassword(ctx context.Context, email, pw string) (*directory.User, error) {
	id, err := s.redis.Get(ctx, s.emailKey(directory.NormalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		s.burn(pw)
		return nil, directory.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}

	u, err := s.FindUserByID(ctx, id)
	if errors.Is(err, directory.ErrUserNotFound) {
		s.burn(pw)
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

// CreateUser validates, hashes and atomically stores a new user.
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
		CreatedAt:    time.UnixMilli(s.now().UnixMilli()).UTC(),
	}

	created, err := createUserLua.Run(ctx, s.redis,
		[]string{s.userKey(u.ID), s.emailKey(u.Email)},
		u.ID, u.Email, u.Name, u.Image, string(u.Role), u.PasswordHash,
		strconv.FormatInt(u.CreatedAt.UnixMilli(), 10),
	).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if created == 0 {
		return nil, directory.ErrEmailExists
	}
	return u, nil
}

// IsEmailExists checks the email index.
func (s *Store) IsEmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.emailKey(directory.NormalizeEmail(email))).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Delete removes the user and releases its email. Idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := deleteUserLua.Run(ctx, s.redis, []string{s.userKey(id)}, s.emailKeyPrefix(), id).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	return nil
}

// SetRole changes the role of an existing user.
func (s *Store) SetRole(ctx context.Context, id string, role directory.Role) error {
	if !role.Valid() {
		return directory.ErrInvalidUser
	}
	n, err := s.redis.Exists(ctx, s.userKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	if n == 0 {
		return directory.ErrUserNotFound
	}
	if err := s.redis.HSet(ctx, s.userKey(id), "role", string(role)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) burn(pw string) {
	if dv, ok := s.hasher.(dummyVerifier); ok {
		dv.VerifyDummy(pw)
	}
}

func decodeUser(fields map[string]string) (*directory.User, error) {
	createdMS, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redisdir: corrupt created_at for user %q", fields["id"])
	}
	role := directory.Role(fields["role"])
	if !role.Valid() {
		return nil, fmt.Errorf("redisdir: corrupt role for user %q", fields["id"])
	}
	return &directory.User{
		ID:           fields["id"],
		Email:        fields["email"],
		Name:         fields["name"],
		Image:        fields["image"],
		Role:         role,
		PasswordHash: fields["password_hash"],
		CreatedAt:    time.UnixMilli(createdMS).UTC(),
	}, nil
}

var _ directory.Directory = (*Store)(nil)
