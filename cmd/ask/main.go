package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/tgienger/ask/internal/config"
	"github.com/tgienger/ask/internal/db"
	"github.com/tgienger/ask/internal/logger"
	"github.com/tgienger/ask/internal/remote"
	"github.com/tgienger/ask/internal/report"
	"github.com/tgienger/ask/internal/ui"
	"github.com/tgienger/ask/internal/ui/styles"
	"github.com/tgienger/ask/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("ask %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	configPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	backend := flag.String("backend", "", "override backend.mode (local or remote)")
	endpoint := flag.String("endpoint", "", "override backend.endpoint of the posting service")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	// a missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Backend.Mode = *backend
	}
	if *endpoint != "" {
		cfg.Backend.Endpoint = *endpoint
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, !*noAltScreen); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, altScreen bool) error {
	logPath := cfg.Logging.File
	if logPath == "" {
		dir, err := db.DataDir()
		if err != nil {
			return err
		}
		logPath = filepath.Join(dir, "ask.log")
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logger.New(cfg.Logging.Level, logFile)
	config.SetLogger(log)
	log.Info().Str("version", version).Str("backend", cfg.Backend.Mode).Msg("starting")

	if err := styles.Use(cfg.UI.Theme); err != nil {
		log.Warn().Err(err).Msg("Falling back to the default theme")
	}

	reporter, flush := report.New(log, cfg.Reporting.SentryDSN, cfg.Reporting.Environment, version)
	defer flush()

	// Settings and the session always live in the local database
	database, err := db.New(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	deps := ui.Deps{
		Catalog:     database,
		Submitter:   database,
		Feed:        database,
		Profiles:    database,
		Session:     database,
		Settings:    database,
		Reporter:    reporter,
		Logger:      log,
		FeedLimit:   cfg.UI.FeedLimit,
		ShowProfile: cfg.UI.ShowProfile,
	}

	if cfg.Backend.Mode == config.BackendRemote {
		client, err := remote.New(cfg.Backend.Endpoint, cfg.RequestTimeout(), log)
		if err != nil {
			return err
		}
		deps.Catalog = client
		deps.Submitter = client
		deps.Feed = client
		deps.Profiles = client
	}
	views.RequestTimeout = cfg.RequestTimeout()

	// Create and run the application
	app := ui.NewApp(deps)

	opts := []tea.ProgramOption{}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)
	app.SetSend(p.Send)

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		return err
	}
	log.Info().Msg("bye")
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ask.yaml"
	}
	return filepath.Join(dir, "ask", "ask.yaml")
}
