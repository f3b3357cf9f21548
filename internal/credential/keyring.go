package credential

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "burnbox"

// SessionSecretKey names the keyring entry holding the HMAC key that
// signs the persisted mailbox session.
const SessionSecretKey = "session-signing-key"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/burnbox/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("burnbox-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// SessionSecret returns the session signing key, generating and storing
// a fresh random key on first use.
func SessionSecret() ([]byte, error) {
	if existing, err := Get(SessionSecretKey); err == nil && existing != "" {
		return base64.RawURLEncoding.DecodeString(existing)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating session secret: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(secret)
	if err := Set(SessionSecretKey, encoded); err != nil {
		return nil, err
	}

	return secret, nil
}
