// Package preview turns loaded images into terminal text.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/five82/lineup/internal/imagecache"
)

// ErrUnavailable means chafa is not installed.
var ErrUnavailable = errors.New("chafa is not installed")

const minWidth = 8

// Renderer converts image bytes to symbol art via chafa.
type Renderer struct {
	path string
}

// NewRenderer locates chafa on PATH. The renderer is still usable when chafa
// is missing; Render then returns ErrUnavailable.
func NewRenderer() *Renderer {
	path, err := exec.LookPath("chafa")
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{path: path}
}

// Available reports whether chafa was found.
func (r *Renderer) Available() bool {
	return r != nil && r.path != ""
}

// Render draws img into a width x rows block of terminal cells.
func (r *Renderer) Render(ctx context.Context, img *imagecache.Image, width, rows int) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("no image data")
	}
	width = max(width, minWidth)
	rows = max(rows, 1)

	size := fmt.Sprintf("%dx%d", width, rows)
	cmd := exec.CommandContext(ctx, r.path,
		"--size", size,
		"--view-size", size,
		"--align", "top,left",
		"--format", "symbols",
		"--animate", "off",
		"-",
	)
	cmd.Stdin = bytes.NewReader(img.Data)
	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimRight(string(output), "\r\n ")
	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, strings.TrimSpace(trimmed))
	}
	if strings.TrimSpace(trimmed) == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

// Describe returns a one-line summary such as "png 640×480 · 12 kB".
func Describe(img *imagecache.Image) string {
	if img == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if img.Format != "" {
		parts = append(parts, img.Format)
	}
	if img.Width > 0 && img.Height > 0 {
		parts = append(parts, fmt.Sprintf("%d×%d", img.Width, img.Height))
	}
	if img.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(img.Size)))
	}
	return strings.Join(parts, " · ")
}
