package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.Loaded {
		return styles.Header.Width(m.width).Render(m.loadingContent(styles, bg))
	}

	compact := m.width < 100
	snap := m.snapshot
	parts := []string{
		bg.Render("lineup", styles.Logo),
		bg.Render("Remaining:", styles.MutedText) + bg.Spaces(1) +
			bg.Render(fmt.Sprintf("%d/%d", snap.Remaining(), snap.Total), styles.Text),
		bg.Render("Dismissed:", styles.MutedText) + bg.Spaces(1) +
			bg.Render(fmt.Sprintf("%d", snap.Dismissed), styles.Text),
	}

	if m.cache != nil {
		parts = append(parts, m.cacheStatus(styles, bg, compact))
	}

	if !compact {
		parts = append(parts, bg.Render(snap.Variant.String(), styles.FaintText))
	}

	if n := len(snap.Duplicates); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d duplicate ids dropped", n), styles.WarningText))
	}

	if m.hidePreviews {
		parts = append(parts, bg.Render("previews off", styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// loadingContent shows the spinner while the feed loads, or the load error.
func (m Model) loadingContent(styles Styles, bg BgStyle) string {
	logo := bg.Render("lineup", styles.Logo)
	if err := m.snapshot.LastError; err != nil {
		errText := truncate(err.Error(), max(m.width-40, 20))
		return bg.Join([]string{
			logo,
			bg.Render("FEED "+classifyFeedError(err.Error()), styles.DangerText),
			bg.Render(errText, styles.MutedText),
		}, "  ")
	}
	return bg.Join([]string{
		logo,
		m.spinner.View() + bg.Spaces(1) +
			bg.Render("Loading feed...", styles.WarningText.Bold(true)),
	}, "  ")
}

// cacheStatus summarizes preloading progress.
func (m Model) cacheStatus(styles Styles, bg BgStyle, compact bool) string {
	st := m.cache.Stats()
	label := "Images:"
	if compact {
		label = "Img:"
	}
	out := bg.Render(label, styles.MutedText) + bg.Spaces(1) +
		bg.Render(fmt.Sprintf("%d ok", st.Loaded), styles.SuccessText)
	if st.Failed > 0 {
		out += bg.Spaces(1) + bg.Render(fmt.Sprintf("%d failed", st.Failed), styles.DangerText)
	}
	if st.Pending > 0 {
		out += bg.Spaces(1) + bg.Render(fmt.Sprintf("%d pending", st.Pending), styles.WarningText)
	}
	if !compact && st.Bytes > 0 {
		out += bg.Spaces(1) + bg.Render(humanize.Bytes(uint64(st.Bytes)), styles.InfoText)
	}
	if !m.cache.Ready() {
		out += bg.Spaces(1) + m.spinner.View()
	}
	return out
}

// classifyFeedError turns common transport failures into a short label.
func classifyFeedError(msg string) string {
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status"):
		return "HTTP ERROR"
	default:
		return "ERROR"
	}
}
