// Package notify coalesces bursty user-facing notifications. Refresh,
// error, and copy events can fire in rapid succession; without a
// debounce the toast area would flood.
package notify

import (
	"sync"
	"time"
)

// DebounceDelay is how long a notification is held back so a newer one
// under the same key can replace it.
const DebounceDelay = 100 * time.Millisecond

// Well-known notification keys. At most one toast per key is visible
// per debounce window; ordering across keys is not guaranteed.
const (
	KeyAccount     = "account"
	KeyError       = "error"
	KeyNewEmail    = "newEmail"
	KeyCopy        = "copy"
	KeyAutoRefresh = "autoRefresh"
)

// Options controls how a toast is displayed.
type Options struct {
	// Icon is an optional glyph rendered before the message.
	Icon string

	// Duration is how long the toast stays visible. Zero means the
	// presenter default of 3 seconds.
	Duration time.Duration
}

// Toast is one notification ready for display.
type Toast struct {
	Key      string
	Message  string
	Icon     string
	Duration time.Duration
}

// Presenter defers each notification by a short fixed delay and cancels
// any pending notification under the same key, guaranteeing at most one
// visible toast per key per debounce window.
type Presenter struct {
	delay time.Duration
	out   chan Toast

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New creates a presenter with the standard debounce delay.
func New() *Presenter {
	return NewWithDelay(DebounceDelay)
}

// NewWithDelay creates a presenter with a custom debounce delay.
func NewWithDelay(delay time.Duration) *Presenter {
	return &Presenter{
		delay:   delay,
		out:     make(chan Toast, 16),
		pending: make(map[string]*time.Timer),
	}
}

// Notify schedules a toast under key, replacing any toast already
// pending under the same key.
func (p *Presenter) Notify(key, message string, opts Options) {
	if opts.Duration <= 0 {
		opts.Duration = 3 * time.Second
	}
	toast := Toast{
		Key:      key,
		Message:  message,
		Icon:     opts.Icon,
		Duration: opts.Duration,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if t, ok := p.pending[key]; ok {
		t.Stop()
	}
	p.pending[key] = time.AfterFunc(p.delay, func() {
		p.deliver(key, toast)
	})
}

// Toasts returns the channel on which ready notifications are delivered.
func (p *Presenter) Toasts() <-chan Toast {
	return p.out
}

// Close cancels all pending notifications and closes the output channel.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for key, t := range p.pending {
		t.Stop()
		delete(p.pending, key)
	}
	close(p.out)
}

// deliver moves a toast from pending to the output channel. Delivery is
// non-blocking; if the consumer is not draining, the toast is dropped
// rather than stalling a timer goroutine.
func (p *Presenter) deliver(key string, toast Toast) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	delete(p.pending, key)
	p.mu.Unlock()

	select {
	case p.out <- toast:
	default:
	}
}
