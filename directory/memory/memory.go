package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/password"
)

type dummyVerifier interface {
	VerifyDummy(password string)
}

// Directory is an in-process directory.Directory guarded by a RWMutex.
type Directory struct {
	hasher password.Hasher
	now    func() time.Time

	mu      sync.RWMutex
	byID    map[string]*directory.User
	byEmail map[string]string
}

// New returns an empty directory. A nil hasher selects password.Default().
func New(hasher password.Hasher) *Directory {
	if hasher == nil {
		hasher = password.Default()
	}
	return &Directory{
		hasher:  hasher,
		now:     time.Now,
		byID:    make(map[string]*directory.User),
		byEmail: make(map[string]string),
	}
}

// FindUserByID returns a copy of the user with id.
func (d *Directory) FindUserByID(_ context.Context, id string) (*directory.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindUserByEmailAndPassword authenticates a user by email and password.
func (d *Directory) FindUserByEmailAndPassword(_ context.Context, email, pw string) (*directory.User, error) {
	d.mu.RLock()
	id, ok := d.byEmail[directory.NormalizeEmail(email)]
	var u *directory.User
	if ok {
		u = d.byID[id].Clone()
	}
	d.mu.RUnlock()

	if u == nil {
		if dv, ok := d.hasher.(dummyVerifier); ok {
			dv.VerifyDummy(pw)
		}
		return nil, directory.ErrInvalidCredentials
	}

	match, err := d.hasher.Verify(pw, u.PasswordHash)
	if err != nil || !match {
		return nil, directory.ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser hashes the password and stores a new user.
func (d *Directory) CreateUser(_ context.Context, in directory.CreateUserInput) (*directory.User, error) {
	in, err := directory.Prepare(in)
	if err != nil {
		return nil, err
	}
	hash, err := d.hasher.Hash(in.Password)
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
		CreatedAt:    d.now().UTC(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, taken := d.byEmail[u.Email]; taken {
		return nil, directory.ErrEmailExists
	}
	d.byID[u.ID] = u
	d.byEmail[u.Email] = u.ID
	return u.Clone(), nil
}

// IsEmailExists reports whether email is registered.
func (d *Directory) IsEmailExists(_ context.Context, email string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.byEmail[directory.NormalizeEmail(email)]
	return ok, nil
}

// Delete removes the user with id. Deleting an unknown id is a no-op.
func (d *Directory) Delete(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	if !ok {
		return
	}
	delete(d.byEmail, u.Email)
	delete(d.byID, id)
}

// SetRole changes the role of an existing user.
func (d *Directory) SetRole(id string, role directory.Role) error {
	if !role.Valid() {
		return directory.ErrInvalidUser
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	if !ok {
		return directory.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// Seed inserts u as-is, replacing any user with the same id. Missing ids are
// generated, and an email taken by another user yields ErrEmailExists.
func (d *Directory) Seed(u directory.User) (*directory.User, error) {
	u.Email = directory.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = directory.NewUserID()
	}
	if u.Role == "" {
		u.Role = directory.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = d.now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if owner, taken := d.byEmail[u.Email]; taken && owner != u.ID {
		return nil, directory.ErrEmailExists
	}
	if prev, ok := d.byID[u.ID]; ok {
		delete(d.byEmail, prev.Email)
	}
	stored := u
	d.byID[u.ID] = &stored
	d.byEmail[u.Email] = u.ID
	return stored.Clone(), nil
}

// Len returns the number of stored users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

var _ directory.Directory = (*Directory)(nil)
