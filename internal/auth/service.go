// Package auth is the local account service: sign-up, sign-in, and the
// admin gate for the settings and admin views. It has no bearing on the
// temporary mailbox itself, which needs no user account.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/store"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 12

var (
	// ErrInvalidCredentials is returned on any sign-in failure; it does
	// not reveal whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up an existing address.
	ErrEmailTaken = errors.New("an account with this email already exists")
)

// Service manages registered users and the current signed-in session.
type Service struct {
	store store.Store
	log   zerolog.Logger

	mu      sync.Mutex
	current *model.User
}

// New creates an auth service backed by the given store.
func New(s store.Store, log zerolog.Logger) *Service {
	return &Service{
		store: s,
		log:   log.With().Str("module", "auth").Logger(),
	}
}

// SignUp registers a new user. The first registered user becomes the
// admin; everyone after that is a regular user.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	salt, err := newSalt()
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		Status:       model.UserStatusActive,
		PasswordHash: hashPassword(password, salt),
		PasswordSalt: salt,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = created
	s.mu.Unlock()

	s.log.Info().Str("email", email).Str("role", role).Msg("user signed up")
	return created, nil
}

// SignIn verifies credentials and makes the user current.
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != model.UserStatusActive {
		return nil, ErrInvalidCredentials
	}

	expected := hashPassword(password, user.PasswordSalt)
	if !hmac.Equal([]byte(expected), []byte(user.PasswordHash)) {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.UpdateUserLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Msg("recording last login")
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	s.log.Info().Str("email", email).Msg("user signed in")
	return user, nil
}

// SignOut clears the current user.
func (s *Service) SignOut() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAdmin reports whether the current user may open admin views.
func (s *Service) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsAdmin()
}

// ChangePassword verifies the old password and replaces it.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	user := s.CurrentUser()
	if user == nil {
		return errors.New("not signed in")
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	expected := hashPassword(oldPassword, user.PasswordSalt)
	if !hmac.Equal([]byte(expected), []byte(user.PasswordHash)) {
		return ErrInvalidCredentials
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	hash := hashPassword(newPassword, salt)
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash, salt); err != nil {
		return err
	}

	s.mu.Lock()
	s.current.PasswordHash = hash
	s.current.PasswordSalt = salt
	s.mu.Unlock()
	return nil
}

// normalizeEmail lowercases and validates an address.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" {
		return "", errors.New("email is required")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", errors.New("email must be valid")
	}
	return strings.ToLower(addr.Address), nil
}

// newSalt returns a fresh random salt.
func newSalt() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// hashPassword derives the stored hash from a password and salt.
func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + "|" + password))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
