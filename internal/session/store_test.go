package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnbox/burnbox/internal/model"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func encodePayload(payload []byte, expires int64) string {
	return base64.RawURLEncoding.EncodeToString(payload) + "|" + strconv.FormatInt(expires, 10)
}

func newTestStore(t *testing.T, timeout time.Duration) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session")
	s := NewStore(path, timeout, testSecret, zerolog.Nop())
	t.Cleanup(s.Close)
	return s
}

func testAccount() model.Account {
	return model.Account{
		EmailAddress: "abc123@temp.test",
		SessionToken: "tok1",
		IssuedAt:     1700000000,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	acct, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, testAccount(), *acct)
}

func TestLoadNoSession(t *testing.T) {
	s := newTestStore(t, time.Hour)
	acct, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestSaveRejectsInvalidAccount(t *testing.T) {
	s := newTestStore(t, time.Hour)
	err := s.Save(model.Account{EmailAddress: "x@y.test"})
	require.Error(t, err)
}

func TestLoadSelfHealsTamperedFile(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	raw[0] ^= 0xff
	require.NoError(t, os.WriteFile(s.path, raw, 0o600))

	acct, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, acct)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "tampered session file should be deleted")
}

func TestLoadSelfHealsMissingToken(t *testing.T) {
	s := newTestStore(t, time.Hour)

	// Correctly signed payload that lacks a session token.
	payload, _ := json.Marshal(model.Account{EmailAddress: "x@y.test"})
	body := encodePayload(payload, time.Now().Add(time.Hour).Unix())
	signed := body + "|" + s.sign(body)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte(signed), 0o600))

	acct, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, acct)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "half-valid session file should be deleted")
}

func TestLoadExpiredSession(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	// Jump the clock past the expiry embedded in the file.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	acct, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestClearBroadcastsEvent(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	events, cancel := s.Subscribe()
	defer cancel()

	s.Clear()

	select {
	case ev := <-events:
		assert.Equal(t, EventCleared, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no cleared event received")
	}

	acct, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, acct)
}

func TestExpiryTimerBroadcastsEvent(t *testing.T) {
	s := newTestStore(t, 20*time.Millisecond)

	events, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Save(testAccount()))

	select {
	case ev := <-events:
		assert.Equal(t, EventExpired, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no expired event received")
	}

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "expired session file should be deleted")
}

func TestRefreshExtendsExpiry(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	before, err := os.ReadFile(s.path)
	require.NoError(t, err)

	// Later wall clock produces a later embedded expiry.
	s.now = func() time.Time { return time.Now().Add(30 * time.Minute) }
	require.NoError(t, s.Refresh())

	after, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(after))

	acct, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "tok1", acct.SessionToken)
}

func TestRefreshWithoutSessionIsNoop(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Refresh())
}

func TestSaveSupersedesPriorAccount(t *testing.T) {
	s := newTestStore(t, time.Hour)
	require.NoError(t, s.Save(testAccount()))

	second := model.Account{EmailAddress: "other@temp.test", SessionToken: "tok2"}
	require.NoError(t, s.Save(second))

	acct, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, "tok2", acct.SessionToken)
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	s := newTestStore(t, time.Hour)
	events, cancel := s.Subscribe()
	cancel()

	_, open := <-events
	assert.False(t, open)
}
