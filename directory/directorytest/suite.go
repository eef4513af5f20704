// Package directorytest holds the behavioural suite every directory.Directory
// adapter must pass.
package directorytest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/password"
	"github.com/stretchr/testify/require"
)

// Factory builds a fresh, empty adapter for one subtest.
type Factory func(t *testing.T) directory.Directory

// FastHasher returns the cheapest accepted Argon2id hasher.
func FastHasher(t testing.TB) *password.Argon2 {
	t.Helper()
	h, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	return h
}

// Run executes the suite against adapters produced by newDir.
func Run(t *testing.T, newDir Factory) {
	t.Run("CreateAndFindByID", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()

		u, err := d.CreateUser(ctx, directory.CreateUserInput{
			Email:    " Ada@Example.com ",
			Password: "analytical-engine",
			Name:     "Ada",
			Image:    "https://img.example.com/ada.png",
		})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, "ada@example.com", u.Email)
		require.Equal(t, directory.RoleUser, u.Role)
		require.NotEqual(t, "analytical-engine", u.PasswordHash)
		require.False(t, u.CreatedAt.IsZero())

		got, err := d.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.Name, got.Name)
		require.Equal(t, u.Image, got.Image)
		require.Equal(t, u.Role, got.Role)
	})

	t.Run("FindByIDUnknown", func(t *testing.T) {
		d := newDir(t)
		_, err := d.FindUserByID(context.Background(), directory.NewUserID())
		require.True(t, errors.Is(err, directory.ErrUserNotFound), "got %v", err)
	})

	t.Run("AdminRolePersists", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()

		u, err := d.CreateUser(ctx, directory.CreateUserInput{
			Email: "root@example.com", Password: "pw-admin", Name: "Root", Role: directory.RoleAdmin,
		})
		require.NoError(t, err)

		got, err := d.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, directory.RoleAdmin, got.Role)
	})

	t.Run("Credentials", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()

		u, err := d.CreateUser(ctx, directory.CreateUserInput{
			Email: "grace@example.com", Password: "cobol-rocks", Name: "Grace",
		})
		require.NoError(t, err)

		got, err := d.FindUserByEmailAndPassword(ctx, "GRACE@example.com", "cobol-rocks")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		_, err = d.FindUserByEmailAndPassword(ctx, "grace@example.com", "wrong")
		require.True(t, errors.Is(err, directory.ErrInvalidCredentials), "got %v", err)

		_, err = d.FindUserByEmailAndPassword(ctx, "nobody@example.com", "cobol-rocks")
		require.True(t, errors.Is(err, directory.ErrInvalidCredentials), "got %v", err)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()

		_, err := d.CreateUser(ctx, directory.CreateUserInput{
			Email: "dup@example.com", Password: "pw-one", Name: "One",
		})
		require.NoError(t, err)

		exists, err := d.IsEmailExists(ctx, " DUP@example.com")
		require.NoError(t, err)
		require.True(t, exists)

		_, err = d.CreateUser(ctx, directory.CreateUserInput{
			Email: "Dup@Example.com", Password: "pw-two", Name: "Two",
		})
		require.True(t, errors.Is(err, directory.ErrEmailExists), "got %v", err)

		exists, err = d.IsEmailExists(ctx, "other@example.com")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		d := newDir(t)
		_, err := d.CreateUser(context.Background(), directory.CreateUserInput{
			Email: "not-an-email", Password: "pw", Name: "X",
		})
		require.True(t, errors.Is(err, directory.ErrInvalidUser), "got %v", err)
	})

	t.Run("ConcurrentCreateSameEmail", func(t *testing.T) {
		d := newDir(t)
		ctx := context.Background()

		const workers = 8
		var (
			wg      sync.WaitGroup
			created atomic.Int32
			dupes   atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := d.CreateUser(ctx, directory.CreateUserInput{
					Email: "race@example.com", Password: "pw-race", Name: fmt.Sprintf("racer-%d", i),
				})
				switch {
				case err == nil:
					created.Add(1)
				case errors.Is(err, directory.ErrEmailExists):
					dupes.Add(1)
				}
			}(i)
		}
		wg.Wait()

		require.Equal(t, int32(1), created.Load())
		require.Equal(t, int32(workers-1), dupes.Load())
	})
}
