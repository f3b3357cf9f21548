package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/tests/testutil"
)

func TestSiteSettingsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Unsaved settings resolve to the defaults.
	settings, err := s.GetSiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Burnbox", settings.SiteName)

	settings.SiteName = "Ashes"
	settings.AdsEnabled = true
	require.NoError(t, s.SaveSiteSettings(ctx, settings))

	got, err := s.GetSiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ashes", got.SiteName)
	assert.True(t, got.AdsEnabled)
}

func TestSMTPSettingsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	settings, err := s.GetSMTPSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 587, settings.Port)
	assert.Equal(t, "starttls", settings.Encryption)

	settings.Enabled = true
	settings.Host = "smtp.relay.test"
	require.NoError(t, s.SaveSMTPSettings(ctx, settings))

	got, err := s.GetSMTPSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.Equal(t, "smtp.relay.test", got.Host)
}

func TestAPIKeyLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateAPIKey(ctx, "ci")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.Key, "bb_")

	keys, err := s.GetAPIKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Nil(t, keys[0].LastUsed)

	require.NoError(t, s.DeleteAPIKey(ctx, created.ID))
	keys, err = s.GetAPIKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestUserLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	u := model.User{
		Email:        "admin@burnbox.test",
		DisplayName:  "Admin",
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
		PasswordHash: "hash",
		PasswordSalt: "salt",
	}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByEmail(ctx, "admin@burnbox.test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())
	assert.Nil(t, got.LastLogin)

	require.NoError(t, s.UpdateUserLastLogin(ctx, got.ID))
	got, err = s.GetUserByEmail(ctx, "admin@burnbox.test")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)

	missing, err := s.GetUserByEmail(ctx, "nobody@burnbox.test")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNotificationHistory(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedNotifications(t, s, 2)

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, "newEmail", unread[0].Key)

	require.NoError(t, s.MarkAllNotificationsRead(ctx))
	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Marking read is idempotent when nothing is unread.
	require.NoError(t, s.MarkAllNotificationsRead(ctx))
}
