package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/burnbox/burnbox/internal/model"
)

// Settings section names.
const (
	sectionSite = "site"
	sectionSMTP = "smtp"
	sectionAPI  = "api"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// getSection loads one settings section into target, reporting whether a
// saved value existed.
func (s *SQLiteStore) getSection(ctx context.Context, section string, target interface{}) (bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE section = ?", section)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying settings section %s: %w", section, err)
	}

	if err := json.Unmarshal([]byte(value), target); err != nil {
		return false, fmt.Errorf("unmarshaling settings section %s: %w", section, err)
	}
	return true, nil
}

// saveSection serializes one settings section, replacing any prior value.
func (s *SQLiteStore) saveSection(ctx context.Context, section string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling settings section %s: %w", section, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (section, value, updated_at)
		VALUES (?, ?, ?)`,
		section, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving settings section %s: %w", section, err)
	}
	return nil
}

// GetSiteSettings returns the saved site settings, or the defaults when
// nothing has been saved yet.
func (s *SQLiteStore) GetSiteSettings(ctx context.Context) (model.SiteSettings, error) {
	settings := model.DefaultSiteSettings()
	if _, err := s.getSection(ctx, sectionSite, &settings); err != nil {
		return model.SiteSettings{}, err
	}
	return settings, nil
}

// SaveSiteSettings persists the site settings section.
func (s *SQLiteStore) SaveSiteSettings(ctx context.Context, settings model.SiteSettings) error {
	return s.saveSection(ctx, sectionSite, settings)
}

// GetSMTPSettings returns the saved SMTP settings or the defaults.
func (s *SQLiteStore) GetSMTPSettings(ctx context.Context) (model.SMTPSettings, error) {
	settings := model.DefaultSMTPSettings()
	if _, err := s.getSection(ctx, sectionSMTP, &settings); err != nil {
		return model.SMTPSettings{}, err
	}
	return settings, nil
}

// SaveSMTPSettings persists the SMTP settings section.
func (s *SQLiteStore) SaveSMTPSettings(ctx context.Context, settings model.SMTPSettings) error {
	return s.saveSection(ctx, sectionSMTP, settings)
}

// GetAPISettings returns the saved API settings or the defaults.
func (s *SQLiteStore) GetAPISettings(ctx context.Context) (model.APISettings, error) {
	settings := model.DefaultAPISettings()
	if _, err := s.getSection(ctx, sectionAPI, &settings); err != nil {
		return model.APISettings{}, err
	}
	return settings, nil
}

// SaveAPISettings persists the API settings section.
func (s *SQLiteStore) SaveAPISettings(ctx context.Context, settings model.APISettings) error {
	return s.saveSection(ctx, sectionAPI, settings)
}

// CreateAPIKey generates and stores a new API key under the given name.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, name string) (model.APIKey, error) {
	key := model.APIKey{
		ID:        uuid.New().String(),
		Name:      name,
		Key:       "bb_" + uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, name, key, created_at)
		VALUES (?, ?, ?, ?)`,
		key.ID, key.Name, key.Key, key.CreatedAt,
	)
	if err != nil {
		return model.APIKey{}, fmt.Errorf("creating api key: %w", err)
	}
	return key, nil
}

// GetAPIKeys returns all issued API keys, newest first.
func (s *SQLiteStore) GetAPIKeys(ctx context.Context) ([]model.APIKey, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, key, created_at, last_used FROM api_keys ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying api keys: %w", err)
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var (
			k        model.APIKey
			lastUsed sql.NullTime
		)
		if err := rows.Scan(&k.ID, &k.Name, &k.Key, &k.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		if lastUsed.Valid {
			t := lastUsed.Time
			k.LastUsed = &t
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteAPIKey removes an API key by ID.
func (s *SQLiteStore) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM api_keys WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting api key %s: %w", id, err)
	}
	return nil
}

// CreateUser inserts a new user record.
func (s *SQLiteStore) CreateUser(ctx context.Context, u model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, role, status, password_hash, password_salt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.DisplayName, u.Role, u.Status,
		u.PasswordHash, u.PasswordSalt, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", u.Email, err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email. Returns nil when no user
// with that email exists.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, email, display_name, role, status, password_hash, password_salt, last_login, created_at
		FROM users WHERE email = ?`, email,
	)

	var (
		u         model.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status,
		&u.PasswordHash, &u.PasswordSalt, &lastLogin, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", email, err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// UpdateUserPassword replaces a user's password hash and salt.
func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, id, hash, salt string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, password_salt = ? WHERE id = ?", hash, salt, id,
	)
	if err != nil {
		return fmt.Errorf("updating password for user %s: %w", id, err)
	}
	return nil
}

// UpdateUserLastLogin stamps the user's last successful sign-in.
func (s *SQLiteStore) UpdateUserLastLogin(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login = ? WHERE id = ?", time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating last login for user %s: %w", id, err)
	}
	return nil
}

// CountUsers returns the total number of registered users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, key, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Key, n.Message, boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetUnreadNotifications retrieves all notifications that have not been
// read, ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, key, message, read, created_at FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n       model.Notification
			readInt int
		)
		if err := rows.Scan(&n.ID, &n.Key, &n.Message, &readInt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAllNotificationsRead marks every notification as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
