package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, p *Presenter, wait time.Duration) []Toast {
	t.Helper()
	deadline := time.After(wait)
	var got []Toast
	for {
		select {
		case toast, ok := <-p.Toasts():
			if !ok {
				return got
			}
			got = append(got, toast)
		case <-deadline:
			return got
		}
	}
}

func TestNotifyDelivers(t *testing.T) {
	p := NewWithDelay(5 * time.Millisecond)
	defer p.Close()

	p.Notify(KeyCopy, "Email address copied to clipboard!", Options{})

	got := collect(t, p, 200*time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, KeyCopy, got[0].Key)
	assert.Equal(t, 3*time.Second, got[0].Duration, "zero duration falls back to default")
}

func TestBurstUnderSameKeyCoalesces(t *testing.T) {
	p := NewWithDelay(20 * time.Millisecond)
	defer p.Close()

	p.Notify(KeyNewEmail, "1 new email received!", Options{})
	p.Notify(KeyNewEmail, "2 new emails received!", Options{})
	p.Notify(KeyNewEmail, "3 new emails received!", Options{})

	got := collect(t, p, 300*time.Millisecond)
	require.Len(t, got, 1, "rapid-fire toasts under one key must coalesce")
	assert.Equal(t, "3 new emails received!", got[0].Message, "last write wins")
}

func TestDistinctKeysBothDeliver(t *testing.T) {
	p := NewWithDelay(5 * time.Millisecond)
	defer p.Close()

	p.Notify(KeyAccount, "New email address generated!", Options{})
	p.Notify(KeyError, "Failed to fetch emails", Options{})

	got := collect(t, p, 300*time.Millisecond)
	require.Len(t, got, 2)

	keys := map[string]bool{}
	for _, toast := range got {
		keys[toast.Key] = true
	}
	assert.True(t, keys[KeyAccount])
	assert.True(t, keys[KeyError])
}

func TestSeparatedNotificationsBothDeliver(t *testing.T) {
	p := NewWithDelay(5 * time.Millisecond)
	defer p.Close()

	p.Notify(KeyNewEmail, "first", Options{})
	time.Sleep(50 * time.Millisecond)
	p.Notify(KeyNewEmail, "second", Options{})

	got := collect(t, p, 300*time.Millisecond)
	require.Len(t, got, 2, "toasts outside the debounce window are independent")
}

func TestNotifyAfterCloseIsNoop(t *testing.T) {
	p := NewWithDelay(5 * time.Millisecond)
	p.Close()
	p.Notify(KeyCopy, "late", Options{})

	_, open := <-p.Toasts()
	assert.False(t, open)
}
