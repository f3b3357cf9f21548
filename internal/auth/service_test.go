package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnbox/burnbox/internal/auth"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/tests/testutil"
)

const testPassword = "correct-horse-battery"

func newService(t *testing.T) *auth.Service {
	t.Helper()
	return auth.New(testutil.NewTestStore(t), zerolog.Nop())
}

func TestFirstUserBecomesAdmin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	first, err := s.SignUp(ctx, "One@Burnbox.Test", testPassword, "One")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.Role)
	assert.Equal(t, "one@burnbox.test", first.Email)

	second, err := s.SignUp(ctx, "two@burnbox.test", testPassword, "Two")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, second.Role)
}

func TestSignUpValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "not-an-email", testPassword, "")
	require.Error(t, err)

	_, err = s.SignUp(ctx, "ok@burnbox.test", "short", "")
	require.Error(t, err)

	_, err = s.SignUp(ctx, "dup@burnbox.test", testPassword, "")
	require.NoError(t, err)
	_, err = s.SignUp(ctx, "dup@burnbox.test", testPassword, "")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestSignInAndOut(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "admin@burnbox.test", testPassword, "")
	require.NoError(t, err)
	s.SignOut()
	require.Nil(t, s.CurrentUser())
	assert.False(t, s.IsAdmin())

	_, err = s.SignIn(ctx, "admin@burnbox.test", "wrong-password-entirely")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Nil(t, s.CurrentUser())

	user, err := s.SignIn(ctx, "admin@burnbox.test", testPassword)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
	assert.Equal(t, user.ID, s.CurrentUser().ID)
}

func TestSignInUnknownUser(t *testing.T) {
	s := newService(t)
	_, err := s.SignIn(context.Background(), "ghost@burnbox.test", testPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "admin@burnbox.test", testPassword, "")
	require.NoError(t, err)

	require.Error(t, s.ChangePassword(ctx, "wrong-password-oops", "another-long-password"))
	require.NoError(t, s.ChangePassword(ctx, testPassword, "another-long-password"))

	s.SignOut()
	_, err = s.SignIn(ctx, "admin@burnbox.test", testPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = s.SignIn(ctx, "admin@burnbox.test", "another-long-password")
	assert.NoError(t, err)
}
