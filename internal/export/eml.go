// Package export writes a viewed message to disk as an RFC 5322 .eml
// file so it survives the mailbox being burned.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message"

	"github.com/burnbox/burnbox/internal/model"
)

// EML renders a fetched message as a single-part HTML .eml document
// addressed to the given mailbox address.
func EML(detail model.MessageDetail, to string) ([]byte, error) {
	var h message.Header
	h.Set("From", detail.From)
	h.Set("To", to)
	h.Set("Subject", detail.Subject)
	h.Set("Date", detail.ReceivedTime().UTC().Format(time.RFC1123Z))
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := message.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := w.Write([]byte(detail.Body)); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing message: %w", err)
	}

	return buf.Bytes(), nil
}

// Save writes the message to dir, deriving the filename from the message
// id and subject. Returns the full path of the written file.
func Save(dir string, detail model.MessageDetail, to string) (string, error) {
	data, err := EML(detail, to)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName(detail))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// fileName builds a filesystem-safe name like "42-account-verification.eml".
func fileName(detail model.MessageDetail) string {
	slug := strings.ToLower(detail.Subject)
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		name = "message"
	}
	return fmt.Sprintf("%s-%s.eml", detail.ID, name)
}
