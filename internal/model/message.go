package model

import "time"

// Message is one entry in the mailbox listing. Many messages belong to
// exactly one Account, scoped server-side by the session token; the client
// only ever holds the current mailbox's list, replaced wholesale on every
// successful refresh.
type Message struct {
	// ID is the provider's identifier, unique within the mailbox.
	ID string `json:"id"`

	// From is the sender address as reported by the provider.
	From string `json:"from"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Excerpt is a short provider-generated preview of the body.
	Excerpt string `json:"excerpt"`

	// ReceivedAt is the delivery time in epoch seconds.
	ReceivedAt int64 `json:"received_at"`

	// Read indicates whether the provider considers the message read.
	Read bool `json:"read"`
}

// ReceivedTime returns the delivery time as a time.Time.
func (m Message) ReceivedTime() time.Time {
	return time.Unix(m.ReceivedAt, 0)
}

// MessageDetail is the full content for one message, fetched lazily on
// selection. Body holds raw provider markup and must be sanitized before
// rendering.
type MessageDetail struct {
	Message

	// Body is the raw HTML body as returned by the provider.
	Body string `json:"body"`
}
