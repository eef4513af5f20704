package directory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPrepareNormalizesAndDefaults(t *testing.T) {
	in, err := Prepare(CreateUserInput{
		Email:    "  Ada@Example.COM ",
		Password: "correct horse",
		Name:     " Ada ",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", in.Email)
	require.Equal(t, "Ada", in.Name)
	require.Equal(t, RoleUser, in.Role)
}

func TestPrepareRejectsInvalidInput(t *testing.T) {
	base := CreateUserInput{Email: "a@example.com", Password: "pw", Name: "A"}

	tests := []struct {
		name   string
		mutate func(in *CreateUserInput)
	}{
		{name: "empty email", mutate: func(in *CreateUserInput) { in.Email = "" }},
		{name: "not an address", mutate: func(in *CreateUserInput) { in.Email = "nope" }},
		{name: "display name form", mutate: func(in *CreateUserInput) { in.Email = "Ada <a@example.com>" }},
		{name: "empty name", mutate: func(in *CreateUserInput) { in.Name = "  " }},
		{name: "empty password", mutate: func(in *CreateUserInput) { in.Password = "" }},
		{name: "unknown role", mutate: func(in *CreateUserInput) { in.Role = "root" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := Prepare(in)
			require.True(t, errors.Is(err, ErrInvalidUser), "got %v", err)
		})
	}
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleUser.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("").Valid())
	require.False(t, Role("ADMIN").Valid())
}

func TestNewUserIDIsUUIDv4(t *testing.T) {
	id, err := uuid.Parse(NewUserID())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), id.Version())
}

func TestCloneIsIndependent(t *testing.T) {
	u := &User{ID: "1", Name: "a"}
	c := u.Clone()
	c.Name = "b"
	require.Equal(t, "a", u.Name)
	require.Nil(t, (*User)(nil).Clone())
}
