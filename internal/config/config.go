package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings lineup reads from its TOML file.
type Config struct {
	FeedURL            string
	FeedTimeout        time.Duration
	ImageTimeout       time.Duration
	PreloadConcurrency int
	MaxImageBytes      int64
	ChartHeight        int
	LogFile            string
}

const (
	defaultConfigPath = "~/.config/lineup/config.toml"
	defaultLogFile    = "~/.local/state/lineup/lineup.log"

	// DefaultFeedURL is the published spreadsheet the board was built around.
	DefaultFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSTUrVA_ilFUgKBcUBRoEd2qshCNtOxW_WWhdggIsNGYWauvwhkkuK916imGfPVWJqmbuCnCPFR83DR/pub?output=csv"

	defaultFeedTimeout        = 15 * time.Second
	defaultImageTimeout       = 10 * time.Second
	defaultPreloadConcurrency = 6
	defaultMaxImageBytes      = 5 * 1024 * 1024
	defaultChartHeight        = 16
	minChartHeight            = 4
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		FeedURL:            DefaultFeedURL,
		FeedTimeout:        defaultFeedTimeout,
		ImageTimeout:       defaultImageTimeout,
		PreloadConcurrency: defaultPreloadConcurrency,
		MaxImageBytes:      defaultMaxImageBytes,
		ChartHeight:        defaultChartHeight,
		LogFile:            mustExpand(defaultLogFile),
	}
}

// Load locates and parses the lineup config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		FeedURL            string `toml:"feed_url"`
		FeedTimeout        int    `toml:"feed_timeout"`
		ImageTimeout       int    `toml:"image_timeout"`
		PreloadConcurrency int    `toml:"preload_concurrency"`
		MaxImageBytes      int64  `toml:"max_image_bytes"`
		ChartHeight        int    `toml:"chart_height"`
		LogFile            string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if feedURL := strings.TrimSpace(raw.FeedURL); feedURL != "" {
		cfg.FeedURL = feedURL
	}
	if raw.FeedTimeout > 0 {
		cfg.FeedTimeout = time.Duration(raw.FeedTimeout) * time.Second
	}
	if raw.ImageTimeout > 0 {
		cfg.ImageTimeout = time.Duration(raw.ImageTimeout) * time.Second
	}
	if raw.PreloadConcurrency > 0 {
		cfg.PreloadConcurrency = raw.PreloadConcurrency
	}
	if raw.MaxImageBytes > 0 {
		cfg.MaxImageBytes = raw.MaxImageBytes
	}
	if raw.ChartHeight > 0 {
		cfg.ChartHeight = max(raw.ChartHeight, minChartHeight)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
