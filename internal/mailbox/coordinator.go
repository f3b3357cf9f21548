// Package mailbox owns the temporary-mailbox lifecycle: restoring or
// creating the account, polling for messages, reconciling state with
// provider responses, and reacting to session-store events.
package mailbox

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/notify"
	"github.com/burnbox/burnbox/internal/session"
)

// opTimeout bounds a single provider operation from the coordinator's
// side, over and above the HTTP client's own timeout.
const opTimeout = 20 * time.Second

// DefaultRefreshInterval is the hard auto-refresh cadence.
const DefaultRefreshInterval = 30 * time.Second

// Provider is the subset of the mail API the coordinator drives.
type Provider interface {
	CreateMailbox(ctx context.Context) (model.Account, error)
	ListMessages(ctx context.Context, token string) ([]model.Message, error)
	FetchMessage(ctx context.Context, token, id string) (model.MessageDetail, error)
	RenameMailbox(ctx context.Context, token, localPart string) error
	ForgetMailbox(ctx context.Context, token string) error
}

// SessionStore is the persistence contract the coordinator relies on.
type SessionStore interface {
	Save(acct model.Account) error
	Load() (*model.Account, error)
	Clear()
	Refresh() error
	Subscribe() (<-chan session.Event, func())
}

// Notifier surfaces transient user-facing notifications.
type Notifier interface {
	Notify(key, message string, opts notify.Options)
}

// ReadyMsg is the result of the restore-or-create startup sequence.
type ReadyMsg struct {
	Account  *model.Account
	Messages []model.Message
	Restored bool
	Err      error
}

// RefreshedMsg carries a mailbox listing. Token records which session
// the listing was fetched for; responses whose token no longer matches
// the current account are discarded.
type RefreshedMsg struct {
	Token    string
	Messages []model.Message
	Err      error
}

// CreatedMsg is the result of a user-initiated mailbox replacement.
type CreatedMsg struct {
	Account model.Account
	Err     error
}

// SelectedMsg carries a lazily fetched message detail.
type SelectedMsg struct {
	Token  string
	ID     string
	Detail model.MessageDetail
	Err    error
}

// RenamedMsg is the result of changing the address local part.
type RenamedMsg struct {
	Token     string
	LocalPart string
	Err       error
}

// ForgottenMsg is the result of asking the provider to drop the mailbox.
type ForgottenMsg struct {
	Err error
}

// SessionEventMsg wraps a session-store broadcast. It carries no session
// data; the coordinator resets state rather than trusting a payload.
type SessionEventMsg struct {
	Type session.EventType
}

// Snapshot is a consistent copy of the coordinator's state for
// rendering. Count always equals len(Messages).
type Snapshot struct {
	Account     *model.Account
	Messages    []model.Message
	Count       int
	Selected    *model.MessageDetail
	Loading     bool
	AutoRefresh bool
}

// Coordinator is the session/polling state machine. All state mutations
// happen in Apply on the Bubble Tea update goroutine; the polling
// goroutine only reads the account under the lock and emits messages.
type Coordinator struct {
	provider Provider
	sessions SessionStore
	notifier Notifier
	interval time.Duration
	log      zerolog.Logger

	mu          gosync.Mutex
	account     *model.Account
	messages    []model.Message
	count       int
	selected    *model.MessageDetail
	loading     bool
	autoRefresh bool
	initialized bool
	running     bool

	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	cancelSub func()
}

// New creates a coordinator. A non-positive interval falls back to the
// 30 second default. autoRefresh is the starting polling state; the
// user can still toggle it at runtime.
func New(p Provider, s SessionStore, n Notifier, interval time.Duration, autoRefresh bool, log zerolog.Logger) *Coordinator {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Coordinator{
		provider:    p,
		sessions:    s,
		notifier:    n,
		interval:    interval,
		log:         log.With().Str("module", "mailbox").Logger(),
		autoRefresh: autoRefresh,
		resultCh:    make(chan tea.Msg, 16),
		triggerCh:   make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
	}
}

// Init returns the startup command. It runs the restore-or-create
// sequence exactly once per coordinator lifetime; later calls are no-ops
// so remounts cannot double-create mailboxes.
func (c *Coordinator) Init() tea.Cmd {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	c.loading = true
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if saved, err := c.sessions.Load(); err == nil && saved != nil {
			messages, listErr := c.provider.ListMessages(ctx, saved.SessionToken)
			if listErr == nil {
				return ReadyMsg{Account: saved, Messages: messages, Restored: true}
			}
			// The persisted session no longer works upstream; discard
			// it and fall through to creating a fresh mailbox.
			c.log.Warn().Err(listErr).Msg("restore fetch failed, creating new mailbox")
		}

		acct, err := c.provider.CreateMailbox(ctx)
		if err != nil {
			return ReadyMsg{Err: err}
		}
		if saveErr := c.sessions.Save(acct); saveErr != nil {
			c.log.Error().Err(saveErr).Msg("persisting new session")
		}
		return ReadyMsg{Account: &acct}
	}
}

// Start launches the hard-refresh polling goroutine and the session
// event bridge, and returns the command that waits for the first
// coordinator message.
func (c *Coordinator) Start() tea.Cmd {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	events, cancel := c.sessions.Subscribe()
	c.cancelSub = cancel

	go c.forwardSessionEvents(events)
	go c.pollLoop()

	return c.WaitForNext()
}

// Stop halts the polling goroutine and drops the session subscription.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.stopCh)
	c.running = false
	if c.cancelSub != nil {
		c.cancelSub()
		c.cancelSub = nil
	}
}

// WaitForNext returns a command that waits for the next coordinator
// message. Call it again after each message to keep listening.
func (c *Coordinator) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}

// Refresh returns a command that fetches the current listing. The
// command is a no-op when no account is active.
func (c *Coordinator) Refresh() tea.Cmd {
	c.mu.Lock()
	if c.account == nil {
		c.mu.Unlock()
		return nil
	}
	token := c.account.SessionToken
	c.loading = true
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		messages, err := c.provider.ListMessages(ctx, token)
		return RefreshedMsg{Token: token, Messages: messages, Err: err}
	}
}

// CreateNew replaces the mailbox after the user confirmed the intent.
// The prior account, listing, selection, and count are cleared before
// the creation call resolves, never after.
func (c *Coordinator) CreateNew() tea.Cmd {
	c.mu.Lock()
	c.account = nil
	c.messages = nil
	c.count = 0
	c.selected = nil
	c.loading = true
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		acct, err := c.provider.CreateMailbox(ctx)
		if err != nil {
			c.sessions.Clear()
			return CreatedMsg{Err: err}
		}
		if saveErr := c.sessions.Save(acct); saveErr != nil {
			c.log.Error().Err(saveErr).Msg("persisting new session")
		}
		return CreatedMsg{Account: acct}
	}
}

// Select returns a command that lazily fetches one message's content.
func (c *Coordinator) Select(id string) tea.Cmd {
	c.mu.Lock()
	if c.account == nil {
		c.mu.Unlock()
		return nil
	}
	token := c.account.SessionToken
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		detail, err := c.provider.FetchMessage(ctx, token, id)
		return SelectedMsg{Token: token, ID: id, Detail: detail, Err: err}
	}
}

// Rename asks the provider to change the address local part.
// Best-effort and outside the refresh loop.
func (c *Coordinator) Rename(localPart string) tea.Cmd {
	c.mu.Lock()
	if c.account == nil {
		c.mu.Unlock()
		return nil
	}
	token := c.account.SessionToken
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := c.provider.RenameMailbox(ctx, token, localPart)
		return RenamedMsg{Token: token, LocalPart: localPart, Err: err}
	}
}

// Forget asks the provider to drop the mailbox and clears the session.
// State reset happens through the session store's cleared event.
func (c *Coordinator) Forget() tea.Cmd {
	c.mu.Lock()
	if c.account == nil {
		c.mu.Unlock()
		return nil
	}
	token := c.account.SessionToken
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := c.provider.ForgetMailbox(ctx, token)
		c.sessions.Clear()
		return ForgottenMsg{Err: err}
	}
}

// ExtendSession re-saves the persisted session, resetting its expiry.
func (c *Coordinator) ExtendSession() {
	if err := c.sessions.Refresh(); err != nil {
		c.log.Warn().Err(err).Msg("extending session")
	}
}

// ToggleAutoRefresh flips background polling and reports the new state.
func (c *Coordinator) ToggleAutoRefresh() bool {
	c.mu.Lock()
	c.autoRefresh = !c.autoRefresh
	enabled := c.autoRefresh
	c.mu.Unlock()

	if enabled {
		c.notifier.Notify(notify.KeyAutoRefresh, "Auto-refresh enabled", notify.Options{
			Icon: "▶", Duration: 2 * time.Second,
		})
	} else {
		c.notifier.Notify(notify.KeyAutoRefresh, "Auto-refresh disabled", notify.Options{
			Icon: "⏸", Duration: 2 * time.Second,
		})
	}
	return enabled
}

// Snapshot returns a copy of the coordinator's state for rendering.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Count:       c.count,
		Loading:     c.loading,
		AutoRefresh: c.autoRefresh,
	}
	if c.account != nil {
		acct := *c.account
		snap.Account = &acct
	}
	if c.selected != nil {
		sel := *c.selected
		snap.Selected = &sel
	}
	snap.Messages = make([]model.Message, len(c.messages))
	copy(snap.Messages, c.messages)
	return snap
}

// Apply folds a coordinator message into state. It reports whether the
// message was accepted; stale responses for superseded accounts are
// dropped and return false.
func (c *Coordinator) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ReadyMsg:
		return c.applyReady(msg)
	case RefreshedMsg:
		return c.applyRefreshed(msg)
	case CreatedMsg:
		return c.applyCreated(msg)
	case SelectedMsg:
		return c.applySelected(msg)
	case RenamedMsg:
		return c.applyRenamed(msg)
	case ForgottenMsg:
		if msg.Err != nil {
			c.log.Warn().Err(msg.Err).Msg("provider forget failed")
		}
		return true
	case SessionEventMsg:
		c.applySessionEvent(msg)
		return true
	}
	return false
}

func (c *Coordinator) applyReady(msg ReadyMsg) bool {
	c.mu.Lock()
	c.loading = false
	if msg.Err != nil {
		c.account = nil
		c.messages = nil
		c.count = 0
		c.selected = nil
		c.mu.Unlock()
		c.notifier.Notify(notify.KeyError, "Failed to create email address. Please try again.", notify.Options{
			Icon: "✗", Duration: 4 * time.Second,
		})
		return true
	}

	c.account = msg.Account
	c.messages = msg.Messages
	c.count = len(msg.Messages)
	c.selected = nil
	c.mu.Unlock()

	if !msg.Restored {
		c.notifier.Notify(notify.KeyAccount, "New email address generated!", notify.Options{
			Icon: "✦", Duration: 3 * time.Second,
		})
	}
	return true
}

func (c *Coordinator) applyRefreshed(msg RefreshedMsg) bool {
	c.mu.Lock()
	if c.account == nil || c.account.SessionToken != msg.Token {
		// Listing for a superseded account; expected race, not a fault.
		c.mu.Unlock()
		c.log.Debug().Msg("dropping stale refresh response")
		return false
	}

	if msg.Err != nil {
		c.loading = false
		c.autoRefresh = false
		c.mu.Unlock()
		c.notifier.Notify(notify.KeyError, "Failed to fetch emails", notify.Options{
			Icon: "⚠", Duration: 4 * time.Second,
		})
		return true
	}

	newCount := len(msg.Messages) - c.count
	c.messages = msg.Messages
	c.count = len(msg.Messages)
	c.loading = false
	c.mu.Unlock()

	if newCount > 0 {
		plural := ""
		if newCount > 1 {
			plural = "s"
		}
		c.notifier.Notify(notify.KeyNewEmail,
			fmt.Sprintf("%d new email%s received!", newCount, plural),
			notify.Options{Icon: "✉", Duration: 3 * time.Second},
		)
	}
	return true
}

func (c *Coordinator) applyCreated(msg CreatedMsg) bool {
	c.mu.Lock()
	c.loading = false
	if msg.Err != nil {
		c.account = nil
		c.mu.Unlock()
		c.notifier.Notify(notify.KeyError, "Failed to create email address. Please try again.", notify.Options{
			Icon: "✗", Duration: 4 * time.Second,
		})
		return true
	}

	acct := msg.Account
	c.account = &acct
	c.messages = nil
	c.count = 0
	c.selected = nil
	c.mu.Unlock()

	c.notifier.Notify(notify.KeyAccount, "New email address generated!", notify.Options{
		Icon: "✦", Duration: 3 * time.Second,
	})
	return true
}

func (c *Coordinator) applySelected(msg SelectedMsg) bool {
	c.mu.Lock()
	if c.account == nil || c.account.SessionToken != msg.Token {
		c.mu.Unlock()
		c.log.Debug().Str("id", msg.ID).Msg("dropping stale fetch response")
		return false
	}

	if msg.Err != nil {
		// Leave the previous detail and the listing untouched.
		c.mu.Unlock()
		c.notifier.Notify(notify.KeyError, "Failed to fetch email details", notify.Options{
			Icon: "⚠", Duration: 3 * time.Second,
		})
		return true
	}

	detail := msg.Detail
	c.selected = &detail
	// The provider marks fetched mail read server-side; reflect that
	// locally without waiting for the next listing.
	for i := range c.messages {
		if c.messages[i].ID == msg.ID {
			c.messages[i].Read = true
			break
		}
	}
	c.mu.Unlock()
	return true
}

func (c *Coordinator) applyRenamed(msg RenamedMsg) bool {
	c.mu.Lock()
	if c.account == nil || c.account.SessionToken != msg.Token {
		c.mu.Unlock()
		return false
	}

	if msg.Err != nil {
		c.mu.Unlock()
		c.notifier.Notify(notify.KeyError, "Failed to update email address", notify.Options{
			Icon: "⚠", Duration: 3 * time.Second,
		})
		return true
	}

	// The provider keeps the domain; only the local part changes.
	if at := strings.LastIndex(c.account.EmailAddress, "@"); at >= 0 {
		c.account.EmailAddress = msg.LocalPart + c.account.EmailAddress[at:]
	}
	acct := *c.account
	c.mu.Unlock()

	if err := c.sessions.Save(acct); err != nil {
		c.log.Error().Err(err).Msg("persisting renamed session")
	}
	c.notifier.Notify(notify.KeyAccount, "Email address updated!", notify.Options{
		Icon: "✦", Duration: 3 * time.Second,
	})
	return true
}

// applySessionEvent empties everything. This is the only path by which
// state resets without a user action, and it must hold no matter which
// component removed the underlying session.
func (c *Coordinator) applySessionEvent(msg SessionEventMsg) {
	c.mu.Lock()
	c.account = nil
	c.messages = nil
	c.count = 0
	c.selected = nil
	c.loading = false
	c.mu.Unlock()

	if msg.Type == session.EventExpired {
		c.notifier.Notify(notify.KeyError, "Session expired. Please generate a new email address.", notify.Options{
			Icon: "⚠", Duration: 4 * time.Second,
		})
	}
}

// TriggerRefresh nudges the polling goroutine to refresh now.
func (c *Coordinator) TriggerRefresh() {
	select {
	case c.triggerCh <- struct{}{}:
	default:
	}
}

// pollLoop is the hard 30-second refresh, independent of the UI's
// cosmetic countdown so polling cannot be starved by countdown jumps.
func (c *Coordinator) pollLoop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.hardRefresh()
		case <-c.triggerCh:
			c.hardRefresh()
		}
	}
}

// hardRefresh lists messages for the current account and emits the
// result. Skipped while auto-refresh is off or no account is active.
func (c *Coordinator) hardRefresh() {
	c.mu.Lock()
	if c.account == nil || !c.autoRefresh {
		c.mu.Unlock()
		return
	}
	token := c.account.SessionToken
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	messages, err := c.provider.ListMessages(ctx, token)
	c.send(RefreshedMsg{Token: token, Messages: messages, Err: err})
}

// forwardSessionEvents bridges session-store broadcasts into the
// coordinator's message stream.
func (c *Coordinator) forwardSessionEvents(events <-chan session.Event) {
	for {
		select {
		case <-c.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.send(SessionEventMsg{Type: ev.Type})
		}
	}
}

// send emits a message without blocking the polling goroutine.
func (c *Coordinator) send(msg tea.Msg) {
	select {
	case c.resultCh <- msg:
	default:
		c.log.Warn().Msg("dropping coordinator message, channel full")
	}
}
