// Package smtpcheck verifies admin-entered SMTP relay settings with a
// live handshake before they are saved.
package smtpcheck

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"

	"github.com/emersion/go-smtp"

	"github.com/burnbox/burnbox/internal/model"
)

// Probe dials the configured relay, completes the greeting for the
// configured encryption mode, and disconnects cleanly. It does not
// authenticate or send mail.
func Probe(cfg model.SMTPSettings) error {
	if cfg.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("smtp port %d out of range", cfg.Port)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{ServerName: cfg.Host}

	var (
		c   *smtp.Client
		err error
	)
	switch cfg.Encryption {
	case "tls":
		c, err = smtp.DialTLS(addr, tlsConfig)
	case "starttls":
		c, err = smtp.DialStartTLS(addr, tlsConfig)
	case "", "none":
		c, err = smtp.Dial(addr)
	default:
		return fmt.Errorf("unknown encryption mode %q", cfg.Encryption)
	}
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer c.Close()

	if err := c.Noop(); err != nil {
		return fmt.Errorf("smtp handshake with %s: %w", addr, err)
	}
	return c.Quit()
}
