package mailbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnbox/burnbox/internal/mailbox"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/notify"
	"github.com/burnbox/burnbox/internal/session"
)

type fakeProvider struct {
	mu          sync.Mutex
	nextAccount model.Account
	createErr   error
	listings    map[string][]model.Message
	listErr     error
	listErrs    map[string]error
	details     map[string]model.MessageDetail
	fetchErr    error
	renameErr   error
	createCalls int
	forgotten   []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		nextAccount: model.Account{EmailAddress: "fresh@burnbox.test", SessionToken: "tok-fresh"},
		listings:    map[string][]model.Message{},
		listErrs:    map[string]error{},
		details:     map[string]model.MessageDetail{},
	}
}

func (p *fakeProvider) CreateMailbox(ctx context.Context) (model.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	if p.createErr != nil {
		return model.Account{}, p.createErr
	}
	return p.nextAccount, nil
}

func (p *fakeProvider) ListMessages(ctx context.Context, token string) ([]model.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listErr != nil {
		return nil, p.listErr
	}
	if err := p.listErrs[token]; err != nil {
		return nil, err
	}
	return p.listings[token], nil
}

func (p *fakeProvider) FetchMessage(ctx context.Context, token, id string) (model.MessageDetail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return model.MessageDetail{}, p.fetchErr
	}
	return p.details[id], nil
}

func (p *fakeProvider) RenameMailbox(ctx context.Context, token, localPart string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renameErr
}

func (p *fakeProvider) ForgetMailbox(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forgotten = append(p.forgotten, token)
	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	saved   *model.Account
	events  chan session.Event
	cleared int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{events: make(chan session.Event, 4)}
}

func (s *fakeSessions) Save(acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &acct
	return nil
}

func (s *fakeSessions) Load() (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return nil, nil
	}
	acct := *s.saved
	return &acct, nil
}

func (s *fakeSessions) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = nil
	s.cleared++
}

func (s *fakeSessions) Refresh() error { return nil }

func (s *fakeSessions) Subscribe() (<-chan session.Event, func()) {
	return s.events, func() {}
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []notify.Toast
}

func (n *fakeNotifier) Notify(key, message string, opts notify.Options) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, notify.Toast{Key: key, Message: message})
}

func (n *fakeNotifier) byKey(key string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, toast := range n.toasts {
		if toast.Key == key {
			out = append(out, toast.Message)
		}
	}
	return out
}

type fixture struct {
	c *mailbox.Coordinator
	p *fakeProvider
	s *fakeSessions
	n *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := newFakeProvider()
	s := newFakeSessions()
	n := &fakeNotifier{}
	return &fixture{
		c: mailbox.New(p, s, n, time.Minute, true, zerolog.Nop()),
		p: p,
		s: s,
		n: n,
	}
}

// run executes a command and folds its message into the coordinator.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	f.c.Apply(msg)
	return msg
}

func messagesOf(n int) []model.Message {
	out := make([]model.Message, n)
	for i := range out {
		out[i] = model.Message{ID: string(rune('a' + i)), Subject: "hello"}
	}
	return out
}

func TestInitCreatesMailboxWhenNoSession(t *testing.T) {
	f := newFixture(t)

	msg := f.run(t, f.c.Init())
	ready, ok := msg.(mailbox.ReadyMsg)
	require.True(t, ok)
	require.NoError(t, ready.Err)
	assert.False(t, ready.Restored)

	snap := f.c.Snapshot()
	require.NotNil(t, snap.Account)
	assert.Equal(t, "fresh@burnbox.test", snap.Account.EmailAddress)
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.Loading)

	require.NotNil(t, f.s.saved)
	assert.Equal(t, "tok-fresh", f.s.saved.SessionToken)
	assert.Equal(t, []string{"New email address generated!"}, f.n.byKey(notify.KeyAccount))
}

func TestInitRestoresSavedSession(t *testing.T) {
	f := newFixture(t)
	f.s.saved = &model.Account{EmailAddress: "kept@burnbox.test", SessionToken: "tok-kept"}
	f.p.listings["tok-kept"] = messagesOf(2)

	msg := f.run(t, f.c.Init())
	ready := msg.(mailbox.ReadyMsg)
	assert.True(t, ready.Restored)

	snap := f.c.Snapshot()
	assert.Equal(t, "kept@burnbox.test", snap.Account.EmailAddress)
	assert.Len(t, snap.Messages, 2)
	assert.Equal(t, 2, snap.Count)
	assert.Zero(t, f.p.createCalls)
	// Restoring is silent; only fresh addresses are announced.
	assert.Empty(t, f.n.byKey(notify.KeyAccount))
}

func TestInitRunsOnlyOnce(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())
	assert.Nil(t, f.c.Init())
	assert.Equal(t, 1, f.p.createCalls)
}

func TestInitFallsBackToCreateWhenRestoreFails(t *testing.T) {
	f := newFixture(t)
	f.s.saved = &model.Account{EmailAddress: "dead@burnbox.test", SessionToken: "tok-dead"}
	f.p.listErrs["tok-dead"] = errors.New("session rejected")

	msg := f.run(t, f.c.Init())
	ready := msg.(mailbox.ReadyMsg)
	require.NoError(t, ready.Err)
	assert.False(t, ready.Restored)

	snap := f.c.Snapshot()
	assert.Equal(t, "fresh@burnbox.test", snap.Account.EmailAddress)
	assert.Equal(t, 1, f.p.createCalls)
}

func TestCreateNewClearsStateBeforeResolving(t *testing.T) {
	f := newFixture(t)
	f.s.saved = &model.Account{EmailAddress: "old@burnbox.test", SessionToken: "tok-old"}
	f.p.listings["tok-old"] = messagesOf(3)
	f.run(t, f.c.Init())

	cmd := f.c.CreateNew()

	// The old identity is gone before the provider call resolves.
	snap := f.c.Snapshot()
	assert.Nil(t, snap.Account)
	assert.Empty(t, snap.Messages)
	assert.Zero(t, snap.Count)
	assert.Nil(t, snap.Selected)
	assert.True(t, snap.Loading)

	f.c.Apply(cmd())
	snap = f.c.Snapshot()
	require.NotNil(t, snap.Account)
	assert.Equal(t, "fresh@burnbox.test", snap.Account.EmailAddress)
	assert.False(t, snap.Loading)
}

func TestCreateNewFailureClearsSession(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())
	f.p.createErr = errors.New("provider down")

	f.run(t, f.c.CreateNew())

	snap := f.c.Snapshot()
	assert.Nil(t, snap.Account)
	assert.Equal(t, 1, f.s.cleared)
	assert.NotEmpty(t, f.n.byKey(notify.KeyError))
}

func TestStaleRefreshIsDropped(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	applied := f.c.Apply(mailbox.RefreshedMsg{Token: "tok-old", Messages: messagesOf(5)})
	assert.False(t, applied)

	snap := f.c.Snapshot()
	assert.Empty(t, snap.Messages)
	assert.Zero(t, snap.Count)
}

func TestRefreshErrorDisablesAutoRefresh(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	applied := f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Err: errors.New("timeout")})
	assert.True(t, applied)

	snap := f.c.Snapshot()
	assert.False(t, snap.AutoRefresh)
	assert.Equal(t, []string{"Failed to fetch emails"}, f.n.byKey(notify.KeyError))
}

func TestNewEmailNotifications(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Messages: messagesOf(1)})
	f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Messages: messagesOf(4)})
	// An unchanged listing stays quiet.
	f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Messages: messagesOf(4)})

	assert.Equal(t, []string{
		"1 new email received!",
		"3 new emails received!",
	}, f.n.byKey(notify.KeyNewEmail))

	snap := f.c.Snapshot()
	assert.Equal(t, 4, snap.Count)
}

func TestSelectFetchesDetail(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())
	f.p.details["42"] = model.MessageDetail{
		Message: model.Message{ID: "42", Subject: "verify"},
		Body:    "<p>code</p>",
	}

	f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Messages: []model.Message{
		{ID: "42", Subject: "verify"},
	}})

	f.run(t, f.c.Select("42"))

	snap := f.c.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "verify", snap.Selected.Subject)
	require.Len(t, snap.Messages, 1)
	assert.True(t, snap.Messages[0].Read)
}

func TestStaleSelectIsDropped(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	applied := f.c.Apply(mailbox.SelectedMsg{
		Token:  "tok-old",
		ID:     "9",
		Detail: model.MessageDetail{Message: model.Message{ID: "9"}},
	})
	assert.False(t, applied)
	assert.Nil(t, f.c.Snapshot().Selected)
}

func TestSelectErrorKeepsPreviousDetail(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())
	f.p.details["1"] = model.MessageDetail{Message: model.Message{ID: "1"}, Body: "kept"}
	f.run(t, f.c.Select("1"))

	f.c.Apply(mailbox.SelectedMsg{Token: "tok-fresh", ID: "2", Err: errors.New("gone")})

	snap := f.c.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "kept", snap.Selected.Body)
	assert.NotEmpty(t, f.n.byKey(notify.KeyError))
}

func TestSessionExpiryResetsEverything(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())
	f.c.Apply(mailbox.RefreshedMsg{Token: "tok-fresh", Messages: messagesOf(2)})

	f.c.Apply(mailbox.SessionEventMsg{Type: session.EventExpired})

	snap := f.c.Snapshot()
	assert.Nil(t, snap.Account)
	assert.Empty(t, snap.Messages)
	assert.Zero(t, snap.Count)
	assert.Nil(t, snap.Selected)
	assert.NotEmpty(t, f.n.byKey(notify.KeyError))
}

func TestSessionClearedResetsSilently(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	f.c.Apply(mailbox.SessionEventMsg{Type: session.EventCleared})

	assert.Nil(t, f.c.Snapshot().Account)
	assert.Empty(t, f.n.byKey(notify.KeyError))
}

func TestAutoRefreshDisabledByConfig(t *testing.T) {
	p := newFakeProvider()
	s := newFakeSessions()
	n := &fakeNotifier{}
	c := mailbox.New(p, s, n, time.Minute, false, zerolog.Nop())

	c.Apply(c.Init()())

	assert.False(t, c.Snapshot().AutoRefresh)

	// The user can still turn polling on at runtime.
	assert.True(t, c.ToggleAutoRefresh())
}

func TestAutoRefreshDisabledByConfigSkipsPolling(t *testing.T) {
	p := newFakeProvider()
	s := newFakeSessions()
	c := mailbox.New(p, s, &fakeNotifier{}, 5*time.Millisecond, false, zerolog.Nop())
	defer c.Stop()

	c.Apply(c.Init()())
	c.Start()

	done := make(chan tea.Msg, 1)
	go func() { done <- c.WaitForNext()() }()

	select {
	case msg := <-done:
		t.Fatalf("unexpected message while disabled: %#v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestToggleAutoRefresh(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.c.ToggleAutoRefresh())
	assert.True(t, f.c.ToggleAutoRefresh())
	assert.Len(t, f.n.byKey(notify.KeyAutoRefresh), 2)
}

func TestRenameUpdatesAddressAndSession(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	f.run(t, f.c.Rename("phoenix"))

	snap := f.c.Snapshot()
	assert.Equal(t, "phoenix@burnbox.test", snap.Account.EmailAddress)
	assert.Equal(t, "phoenix@burnbox.test", f.s.saved.EmailAddress)
	assert.Contains(t, f.n.byKey(notify.KeyAccount), "Email address updated!")
}

func TestForgetDropsMailboxAndSession(t *testing.T) {
	f := newFixture(t)
	f.run(t, f.c.Init())

	f.run(t, f.c.Forget())

	assert.Equal(t, []string{"tok-fresh"}, f.p.forgotten)
	assert.Equal(t, 1, f.s.cleared)
}

func TestPollingEmitsRefreshes(t *testing.T) {
	p := newFakeProvider()
	s := newFakeSessions()
	n := &fakeNotifier{}
	c := mailbox.New(p, s, n, 10*time.Millisecond, true, zerolog.Nop())
	defer c.Stop()

	msg := c.Init()()
	c.Apply(msg)
	p.mu.Lock()
	p.listings["tok-fresh"] = messagesOf(1)
	p.mu.Unlock()

	wait := c.Start()
	require.NotNil(t, wait)

	got := wait()
	refreshed, ok := got.(mailbox.RefreshedMsg)
	require.True(t, ok)
	assert.Equal(t, "tok-fresh", refreshed.Token)
	require.NoError(t, refreshed.Err)
	assert.Len(t, refreshed.Messages, 1)
}

func TestPollingForwardsSessionEvents(t *testing.T) {
	p := newFakeProvider()
	s := newFakeSessions()
	c := mailbox.New(p, s, &fakeNotifier{}, time.Minute, true, zerolog.Nop())
	defer c.Stop()

	wait := c.Start()
	s.events <- session.Event{Type: session.EventExpired}

	got := wait()
	ev, ok := got.(mailbox.SessionEventMsg)
	require.True(t, ok)
	assert.Equal(t, session.EventExpired, ev.Type)
}

func TestPollingSkipsWhileAutoRefreshOff(t *testing.T) {
	p := newFakeProvider()
	s := newFakeSessions()
	c := mailbox.New(p, s, &fakeNotifier{}, 5*time.Millisecond, true, zerolog.Nop())
	defer c.Stop()

	c.Apply(c.Init()())
	c.ToggleAutoRefresh() // off
	c.Start()

	done := make(chan tea.Msg, 1)
	go func() { done <- c.WaitForNext()() }()

	select {
	case msg := <-done:
		t.Fatalf("unexpected message while paused: %#v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
