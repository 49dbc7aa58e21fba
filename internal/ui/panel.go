package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/preview"
	"github.com/five82/lineup/internal/queue"
)

const (
	placeholderID   = "ID: N/A"
	placeholderName = "N/A"
)

// cacheView is the read side of the image cache the panel depends on.
type cacheView interface {
	Ready() bool
	Lookup(id string) (imagecache.Entry, bool)
}

// panelState is what the Next-Item Panel shows for one queue state.
type panelState struct {
	ID      string
	Name    string
	Item    feed.Item
	HasItem bool
	Images  []*imagecache.Image
	Waiting bool // the head item's images have not all settled
}

// nextItemPanel decides the panel contents. Images stay hidden until the cache
// reports ready. The dual variant shows both images or none.
func nextItemPanel(q queue.Queue, cache cacheView, variant feed.Variant) panelState {
	head, ok := q.PeekFirst()
	if !ok {
		return panelState{ID: placeholderID, Name: placeholderName}
	}
	ps := panelState{
		ID:      "ID: " + head.ID,
		Name:    head.Name,
		Item:    head,
		HasItem: true,
	}
	if cache == nil || !cache.Ready() {
		return ps
	}

	entry, found := cache.Lookup(head.ID)
	ps.Waiting = !found || !entry.Settled()
	if !found {
		return ps
	}

	switch variant {
	case feed.VariantDual:
		if entry.Slots >= 2 && entry.Loaded() {
			ps.Images = []*imagecache.Image{entry.Primary.Image, entry.Secondary.Image}
		}
	default:
		if entry.Primary.State == imagecache.SlotLoaded && entry.Primary.Image != nil {
			ps.Images = []*imagecache.Image{entry.Primary.Image}
		}
	}
	return ps
}

// panel evaluates the panel against the model's current snapshot and cache.
func (m Model) panel() panelState {
	var cache cacheView
	if m.cache != nil {
		cache = m.cache
	}
	return nextItemPanel(m.snapshot.Queue, cache, m.snapshot.Variant)
}

// previewState holds rendered image blocks for one item at one width.
type previewState struct {
	key    string
	blocks []string
}

func previewKey(id string, width int) string {
	return fmt.Sprintf("%s@%d", id, width)
}

// previewWidth splits the available width between n images.
func (m Model) previewWidth(n int) int {
	if n <= 0 {
		return 0
	}
	w := (m.width - 4 - 2*(n-1)) / n
	return max(min(w, PreviewMaxWidth), 0)
}

// refreshPanel re-evaluates the panel and starts whatever async work it
// needs: a wait on the head item's images and a preview render.
func (m *Model) refreshPanel() tea.Cmd {
	ps := m.panel()
	var cmds []tea.Cmd

	if ps.Waiting && m.cache != nil && m.waitingFor != ps.Item.ID && !m.cache.Evicted(ps.Item.ID) {
		m.waitingFor = ps.Item.ID
		cmds = append(cmds, waitImagesCmd(m.ctx, m.cache, ps.Item))
	}

	if len(ps.Images) > 0 && m.showPreviews() {
		width := m.previewWidth(len(ps.Images))
		key := previewKey(ps.Item.ID, width)
		if m.preview.key != key && m.previewPending != key {
			m.previewPending = key
			cmds = append(cmds, renderPreviewCmd(m.ctx, m.renderer, key, ps.Images, width))
		}
	}

	return tea.Batch(cmds...)
}

func (m Model) showPreviews() bool {
	return !m.hidePreviews && m.renderer.Available()
}

// renderInfoBar renders the Next-Item Panel. The whole bar is the dismiss
// click target.
func (m Model) renderInfoBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	ps := m.panel()
	inner := max(m.width-2, 1)

	lines := []string{
		bg.Render(truncate(ps.ID, inner), styles.AccentText.Bold(true)),
		bg.Render(truncate(ps.Name, inner), styles.Text.Bold(true)),
	}
	if ps.HasItem {
		if dates := formatDates(ps.Item); dates != "" {
			lines = append(lines, bg.Render(dates, styles.MutedText))
		}
	}

	switch {
	case len(ps.Images) > 0:
		lines = append(lines, m.renderImages(ps, styles, bg))
	case ps.HasItem && m.cache != nil && !m.cache.Ready():
		lines = append(lines, bg.Render("preloading images...", styles.FaintText))
	case ps.Waiting:
		lines = append(lines, bg.Render("waiting for images...", styles.FaintText))
	}

	return styles.InfoBar.Width(m.width).Render(strings.Join(lines, "\n"))
}

// renderImages shows chafa previews side by side when available, otherwise
// one description line per image.
func (m Model) renderImages(ps panelState, styles Styles, bg BgStyle) string {
	width := m.previewWidth(len(ps.Images))
	if m.showPreviews() && m.preview.key == previewKey(ps.Item.ID, width) && len(m.preview.blocks) == len(ps.Images) {
		blocks := make([]string, 0, len(m.preview.blocks)*2)
		for i, block := range m.preview.blocks {
			if i > 0 {
				blocks = append(blocks, bg.Spaces(2))
			}
			blocks = append(blocks, block)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
	}

	labels := []string{"image", "location"}
	if len(ps.Images) == 1 {
		labels = []string{"image"}
	}
	lines := make([]string, 0, len(ps.Images))
	for i, img := range ps.Images {
		lines = append(lines,
			bg.Render(padRight(labels[i], 9), styles.FaintText)+
				bg.Render(preview.Describe(img), styles.InfoText))
	}
	return strings.Join(lines, "\n")
}

func formatDates(item feed.Item) string {
	const layout = "Jan 2, 2006"
	var parts []string
	if !item.Start.IsZero() {
		parts = append(parts, item.Start.Format(layout))
	}
	if !item.End.IsZero() {
		parts = append(parts, item.End.Format(layout))
	}
	return strings.Join(parts, " to ")
}

// Messages

type imagesSettledMsg struct {
	id  string
	err error
}

type previewMsg struct {
	key    string
	blocks []string
	err    error
}

// Commands

func waitImagesCmd(ctx context.Context, cache *imagecache.Cache, item feed.Item) tea.Cmd {
	return func() tea.Msg {
		_, err := cache.Wait(ctx, item)
		return imagesSettledMsg{id: item.ID, err: err}
	}
}

func renderPreviewCmd(ctx context.Context, r *preview.Renderer, key string, images []*imagecache.Image, width int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, PreviewTimeout)
		defer cancel()
		blocks := make([]string, 0, len(images))
		for _, img := range images {
			out, err := r.Render(ctx, img, width, PreviewRows)
			if err != nil {
				return previewMsg{key: key, err: err}
			}
			blocks = append(blocks, out)
		}
		return previewMsg{key: key, blocks: blocks}
	}
}
