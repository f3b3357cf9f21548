package model

import "time"

// Account represents the active temporary mailbox identity issued by the
// mail provider. An Account is only meaningful together with a non-empty
// SessionToken; every provider call after creation is scoped by it.
type Account struct {
	// EmailAddress is the provider-assigned address. No format beyond
	// "non-empty string" is guaranteed.
	EmailAddress string `json:"email_address"`

	// SessionToken is the opaque credential required by all subsequent
	// provider calls for this mailbox.
	SessionToken string `json:"session_token"`

	// IssuedAt is the provider-reported creation time of the mailbox,
	// in epoch seconds.
	IssuedAt int64 `json:"issued_at"`
}

// Valid reports whether the account carries the fields required to talk
// to the provider. Accounts failing this check must never be persisted.
func (a Account) Valid() bool {
	return a.EmailAddress != "" && a.SessionToken != ""
}

// Age returns how long ago the account was issued relative to now.
func (a Account) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(a.IssuedAt, 0))
}
