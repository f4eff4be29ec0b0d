package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"atelier/internal/models"
)

func TestUserRegisterAndLogin(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := models.User{Username: "mihai", Email: "mihai@example.com", Role: "TECHNICIAN"}
	require.NoError(t, s.users.Register(ctx, &u, "parola123"))
	require.NotEqual(t, "parola123", u.Password)

	logged, err := s.users.Login(ctx, "mihai", "parola123")
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)

	_, err = s.users.Login(ctx, "mihai", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = s.users.Login(ctx, "ghost", "parola123")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUserUniqueness(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := models.User{Username: "mihai", Email: "mihai@example.com", Role: "TECHNICIAN"}
	require.NoError(t, s.users.Register(ctx, &u, "parola123"))

	sameName := models.User{Username: "mihai", Email: "other@example.com", Role: "TECHNICIAN"}
	require.ErrorIs(t, s.users.Register(ctx, &sameName, "parola123"), ErrConflict)

	sameMail := models.User{Username: "other", Email: "mihai@example.com", Role: "TECHNICIAN"}
	require.ErrorIs(t, s.users.Register(ctx, &sameMail, "parola123"), ErrConflict)
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := models.User{Username: "mihai", Email: "mihai@example.com", Role: "TECHNICIAN"}
	require.NoError(t, s.users.Register(ctx, &u, "parola123"))

	next := "parola456"
	_, err := s.users.Update(ctx, u.ID, models.UserPatch{Password: &next})
	require.NoError(t, err)

	_, err = s.users.Login(ctx, "mihai", "parola123")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.users.Login(ctx, "mihai", "parola456")
	require.NoError(t, err)
}

func TestEnsureAdminBootstrap(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.users.EnsureAdmin(ctx, "admin", "bootstrap-pass", "admin@example.com"))
	admins, err := s.users.ByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	// A second run with an admin present must not create another one.
	require.NoError(t, s.users.EnsureAdmin(ctx, "admin2", "other-pass", "admin2@example.com"))
	admins, err = s.users.ByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	require.Equal(t, "admin", admins[0].Username)
}
