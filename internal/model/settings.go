package model

import "time"

// ThemeColors is one named palette of UI colors, editable from the admin
// color settings view. Values are hex strings like "#6366f1".
type ThemeColors struct {
	Background   string `json:"background"`
	Surface      string `json:"surface"`
	TextPrimary  string `json:"text_primary"`
	TextMuted    string `json:"text_muted"`
	Accent       string `json:"accent"`
	AccentHover  string `json:"accent_hover"`
	Border       string `json:"border"`
	Danger       string `json:"danger"`
	DangerHover  string `json:"danger_hover"`
}

// SiteSettings holds the site-wide display configuration consumed read-only
// by the shell around the mailbox views.
type SiteSettings struct {
	SiteName        string `json:"site_name"`
	SiteURL         string `json:"site_url"`
	SiteDescription string `json:"site_description"`
	AdsEnabled      bool   `json:"ads_enabled"`
	ShowLoginButton bool   `json:"show_login_button"`

	// Light and Dark are the two selectable palettes.
	Light ThemeColors `json:"light"`
	Dark  ThemeColors `json:"dark"`
}

// DefaultSiteSettings returns the settings used before an admin has saved
// any customization.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:        "Burnbox",
		SiteDescription: "Secure, temporary email for your privacy needs.",
		AdsEnabled:      false,
		ShowLoginButton: true,
		Light: ThemeColors{
			Background:  "#f8f9ff",
			Surface:     "#ffffff",
			TextPrimary: "#1a1b1e",
			TextMuted:   "#4a5568",
			Accent:      "#6366f1",
			AccentHover: "#4f46e5",
			Border:      "#e2e8f0",
			Danger:      "#ef4444",
			DangerHover: "#dc2626",
		},
		Dark: ThemeColors{
			Background:  "#111827",
			Surface:     "#1f2937",
			TextPrimary: "#f3f4f6",
			TextMuted:   "#d1d5db",
			Accent:      "#818cf8",
			AccentHover: "#6366f1",
			Border:      "#374151",
			Danger:      "#ef4444",
			DangerHover: "#f87171",
		},
	}
}

// SMTPSettings configures the outbound SMTP relay used for account emails
// (password resets, contact form). Stored by the admin settings view and
// verified with a connectivity probe before saving.
type SMTPSettings struct {
	Enabled    bool   `json:"enabled"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FromName   string `json:"from_name"`
	FromEmail  string `json:"from_email"`
	Encryption string `json:"encryption"` // "none", "tls", or "starttls"
}

// DefaultSMTPSettings returns a disabled relay on the submission port.
func DefaultSMTPSettings() SMTPSettings {
	return SMTPSettings{
		Port:       587,
		Encryption: "starttls",
		FromName:   "Burnbox",
	}
}

// APISettings controls the optional local HTTP API surface.
type APISettings struct {
	Enabled           bool `json:"enabled"`
	RequireAPIKey     bool `json:"require_api_key"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstLimit        int  `json:"burst_limit"`
}

// DefaultAPISettings returns the API disabled with conservative limits.
func DefaultAPISettings() APISettings {
	return APISettings{
		RequireAPIKey:     true,
		RequestsPerMinute: 60,
		BurstLimit:        10,
	}
}

// APIKey is one issued API credential, managed from the admin view.
type APIKey struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}
