package store

import (
	"context"

	"github.com/burnbox/burnbox/internal/model"
)

// Store defines the persistence interface for site settings, API keys,
// registered users, and notification history. Each settings section has
// its own typed load/save pair; there is deliberately no generic
// path-based mutator.
type Store interface {
	// === Settings sections ===

	GetSiteSettings(ctx context.Context) (model.SiteSettings, error)
	SaveSiteSettings(ctx context.Context, s model.SiteSettings) error

	GetSMTPSettings(ctx context.Context) (model.SMTPSettings, error)
	SaveSMTPSettings(ctx context.Context, s model.SMTPSettings) error

	GetAPISettings(ctx context.Context) (model.APISettings, error)
	SaveAPISettings(ctx context.Context, s model.APISettings) error

	// === API keys ===

	CreateAPIKey(ctx context.Context, name string) (model.APIKey, error)
	GetAPIKeys(ctx context.Context) ([]model.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error

	// === Users ===

	CreateUser(ctx context.Context, u model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, hash, salt string) error
	UpdateUserLastLogin(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error
}
