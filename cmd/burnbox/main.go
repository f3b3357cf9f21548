package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/burnbox/burnbox/internal/app"
	"github.com/burnbox/burnbox/internal/auth"
	"github.com/burnbox/burnbox/internal/credential"
	"github.com/burnbox/burnbox/internal/mailbox"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/notify"
	"github.com/burnbox/burnbox/internal/provider"
	"github.com/burnbox/burnbox/internal/session"
	"github.com/burnbox/burnbox/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "burnbox: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(model.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	log, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("config", configPath).Msg("starting")

	db, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	secret, err := credential.SessionSecret()
	if err != nil {
		return fmt.Errorf("loading session secret: %w", err)
	}

	sessions := session.NewStore(
		filepath.Join(model.ConfigDir(), "session"),
		time.Duration(cfg.Session.TimeoutHours)*time.Hour,
		secret,
		log,
	)
	defer sessions.Close()

	client := provider.NewClient(
		cfg.Provider.BaseURL,
		time.Duration(cfg.Provider.TimeoutSec)*time.Second,
	)

	presenter := notify.New()
	coordinator := mailbox.New(
		client,
		sessions,
		presenter,
		time.Duration(cfg.Display.RefreshIntervalSec)*time.Second,
		cfg.Display.AutoRefresh,
		log,
	)
	authSvc := auth.New(db, log)

	exportDir, err := os.UserHomeDir()
	if err != nil {
		exportDir = "."
	}

	root := app.New(coordinator, presenter, db, authSvc, *cfg, exportDir, log)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}

	log.Info().Msg("exiting")
	return nil
}

// openLogger sets up file-backed structured logging. Logging to stderr
// would corrupt the terminal UI.
func openLogger(cfg model.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}
