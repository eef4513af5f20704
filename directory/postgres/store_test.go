package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/directory/directorytest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestSelectByIDQuery(t *testing.T) {
	sqlStr, args, err := selectByIDQuery("abc").ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"SELECT id, email, name, image, role, password_hash, created_at FROM users WHERE id = $1",
		sqlStr)
	require.Equal(t, []any{"abc"}, args)
}

func TestExistsByEmailQuery(t *testing.T) {
	sqlStr, args, err := existsByEmailQuery("a@example.com").ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", sqlStr)
	require.Equal(t, []any{"a@example.com"}, args)
}

func TestInsertQuery(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sqlStr, args, err := insertQuery(&directory.User{
		ID: "id-1", Email: "a@example.com", Name: "A", Role: directory.RoleAdmin,
		PasswordHash: "$argon2id$...", CreatedAt: created,
	}).ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"INSERT INTO users (id,email,name,image,role,password_hash,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)",
		sqlStr)
	require.Equal(t, []any{"id-1", "a@example.com", "A", "", "admin", "$argon2id$...", created}, args)
}

func TestPostgresDirectorySuite(t *testing.T) {
	dsn := os.Getenv("GOSESSION_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GOSESSION_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	directorytest.Run(t, func(t *testing.T) directory.Directory {
		store := NewStore(pool, directorytest.FastHasher(t))
		require.NoError(t, store.Migrate(ctx))
		_, err := pool.Exec(ctx, "TRUNCATE users")
		require.NoError(t, err)
		return store
	})

	t.Run("NonUUIDIsNotFound", func(t *testing.T) {
		store := NewStore(pool, directorytest.FastHasher(t))
		_, err := store.FindUserByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, directory.ErrUserNotFound)
	})
}
