package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/codelens/internal/analyzer"
	"github.com/five82/codelens/internal/config"
	"github.com/five82/codelens/internal/prefs"
	"github.com/five82/codelens/internal/ui"
	"github.com/five82/codelens/internal/workflow"
)

// Options configure the codelens TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/codelens/prefs.toml
	ThemeName  string // overrides the saved theme
	Image      string // selected on startup
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	client, err := NewClient(cfg)
	if err != nil {
		return fmt.Errorf("init analyzer client: %w", err)
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Printf("codelens starting, service %s", client.BaseURL())

	theme := opts.ThemeName
	if theme == "" {
		theme = userPrefs.Theme
	}

	return ui.Run(ui.Options{
		Context:      ctx,
		Service:      client,
		Workflow:     workflow.New(),
		Config:       &cfg,
		ThemeName:    theme,
		PrefsPath:    prefsPath,
		LastDir:      userPrefs.LastDir,
		InitialImage: opts.Image,
	})
}

// NewClient builds the analysis service client described by cfg.
func NewClient(cfg config.Config) (*analyzer.Client, error) {
	return analyzer.NewClient(cfg.APIURL,
		analyzer.WithTimeout(cfg.RequestTimeout),
		analyzer.WithPaths(cfg.ExtractPath, cfg.AnalyzePath),
	)
}

// setupLogging sends the standard logger to path. The terminal belongs to
// the TUI, so an empty path discards log output instead.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "codelens")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { _ = f.Close() }, nil
}
