package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lineup/internal/config"
	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/prefs"
	"github.com/five82/lineup/internal/preview"
	"github.com/five82/lineup/internal/state"
	"github.com/five82/lineup/internal/ui"
)

// Options configure the lineup application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/lineup/prefs.toml
	FeedURL    string // overrides feed_url from the config file
}

// Run boots the lineup TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.FeedURL != "" {
		cfg.FeedURL = opts.FeedURL
	}

	logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := feed.NewClient(cfg.FeedURL, &http.Client{Timeout: cfg.FeedTimeout})
	if err != nil {
		return fmt.Errorf("init feed client: %w", err)
	}

	fetcher := imagecache.NewHTTPFetcher(&http.Client{Timeout: cfg.ImageTimeout}, cfg.MaxImageBytes)
	cache := imagecache.New(fetcher, imagecache.Options{
		Concurrency: cfg.PreloadConcurrency,
		Timeout:     cfg.ImageTimeout,
		Logger:      log.Default(),
	})
	store := &state.Store{}

	log.Printf("loading feed %s", client.URL())
	StartLoader(ctx, store, client, cache)

	uiOpts := ui.Options{
		Context:      ctx,
		Store:        store,
		Cache:        cache,
		Config:       &cfg,
		Renderer:     preview.NewRenderer(),
		ThemeName:    userPrefs.Theme,
		HidePreviews: userPrefs.HidePreviews,
		PrefsPath:    opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// setupLogging sends the standard logger to path, since the terminal belongs
// to the TUI. An empty path discards log output.
func setupLogging(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(path, "lineup")
}
