// Package session persists the active mailbox account across runs and
// owns its lifetime. The account snapshot is written to a single signed
// file; the signing key lives in the system keyring so a tampered or
// truncated file is indistinguishable from no session at all.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/burnbox/burnbox/internal/model"
)

// DefaultTimeout is how long a saved session stays valid unless
// configured otherwise.
const DefaultTimeout = 2 * time.Hour

// EventType identifies a session lifecycle broadcast.
type EventType int

const (
	// EventExpired fires when the timeout elapses and the store deletes
	// the session on its own.
	EventExpired EventType = iota

	// EventCleared fires when the session is removed deliberately.
	EventCleared
)

// Event carries no payload; consumers must re-read state from the store
// rather than trust event data.
type Event struct {
	Type EventType
}

// Store persists at most one account at a time. Saving a new account
// supersedes any prior one. Subscribers are notified in-process when the
// session expires or is cleared.
type Store struct {
	path    string
	timeout time.Duration
	secret  []byte
	log     zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	subs    map[int]chan Event
	nextSub int

	// now is replaceable in tests.
	now func() time.Time
}

// NewStore creates a session store writing to path, signing with secret.
// A non-positive timeout falls back to DefaultTimeout.
func NewStore(path string, timeout time.Duration, secret []byte, log zerolog.Logger) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		path:    path,
		timeout: timeout,
		secret:  secret,
		log:     log.With().Str("module", "session").Logger(),
		subs:    make(map[int]chan Event),
		now:     time.Now,
	}
}

// Subscribe registers a listener for session lifecycle events. The
// returned cancel func removes the subscription and closes the channel.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 4)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Save serializes the account into the session file and arms a one-shot
// expiry timer for the configured timeout. Invalid accounts are refused:
// an account without a token must never be persisted.
func (s *Store) Save(acct model.Account) error {
	if !acct.Valid() {
		return errors.New("refusing to persist account without address and token")
	}

	payload, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}

	expires := s.now().Add(s.timeout).Unix()
	body := base64.RawURLEncoding.EncodeToString(payload) + "|" + strconv.FormatInt(expires, 10)
	signed := body + "|" + s.sign(body)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(signed), 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	s.armTimer()
	s.log.Debug().Str("address", acct.EmailAddress).Msg("session saved")
	return nil
}

// Load reads and validates the persisted account. A missing file means
// no session. A malformed, tampered, or expired file is deleted before
// reporting no session, so a half-valid account can never surface.
func (s *Store) Load() (*model.Account, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	acct, ok := s.parse(string(raw))
	if !ok {
		s.log.Warn().Msg("discarding invalid session file")
		s.removeFile()
		return nil, nil
	}
	return acct, nil
}

// Clear deletes the session and broadcasts EventCleared.
func (s *Store) Clear() {
	s.stopTimer()
	s.removeFile()
	s.broadcast(Event{Type: EventCleared})
	s.log.Debug().Msg("session cleared")
}

// Refresh re-saves the currently persisted account, resetting the expiry
// timer. Used to extend a still-valid session without issuing a new
// mailbox. A no-op when no session exists.
func (s *Store) Refresh() error {
	acct, err := s.Load()
	if err != nil {
		return err
	}
	if acct == nil {
		return nil
	}
	return s.Save(*acct)
}

// Close stops the expiry timer and drops all subscriptions.
func (s *Store) Close() {
	s.stopTimer()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// expire removes the session after the timeout and broadcasts
// EventExpired.
func (s *Store) expire() {
	s.removeFile()
	s.broadcast(Event{Type: EventExpired})
	s.log.Info().Msg("session expired")
}

// parse validates signature, expiry, and required fields.
func (s *Store) parse(raw string) (*model.Account, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 3 {
		return nil, false
	}

	body := parts[0] + "|" + parts[1]
	if !hmac.Equal([]byte(s.sign(body)), []byte(parts[2])) {
		return nil, false
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || s.now().Unix() >= expires {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, false
	}

	var acct model.Account
	if err := json.Unmarshal(payload, &acct); err != nil {
		return nil, false
	}
	if !acct.Valid() {
		return nil, false
	}
	return &acct, true
}

func (s *Store) sign(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// armTimer replaces any pending expiry timer with a fresh one.
func (s *Store) armTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.timeout, s.expire)
}

func (s *Store) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) removeFile() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error().Err(err).Msg("removing session file")
	}
}

// broadcast delivers an event to all subscribers without blocking; a
// subscriber that is not draining its channel misses the event.
func (s *Store) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
