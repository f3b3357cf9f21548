package model

import "time"

// Notification is one persisted record of a toast surfaced to the user,
// kept so the history view can show what happened while the terminal was
// in another view.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Key is the logical event category used to coalesce bursts
	// ("account", "error", "newEmail", "copy", "autoRefresh").
	Key string `json:"key"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
