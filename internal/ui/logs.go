package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lineup/internal/logtail"
)

// logState tracks the log overlay.
type logState struct {
	open     bool
	path     string
	lines    []logtail.Line
	err      error
	viewport viewport.Model
}

type logLinesMsg struct {
	lines []logtail.Line
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{lines: logtail.ParseAll(raw)}
	}
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

// openLogs shows the overlay and starts reading the log file.
func (m *Model) openLogs() tea.Cmd {
	m.logs.open = true
	m.logs.path = m.logPath()
	m.resizeLogViewport()
	if m.logs.path == "" {
		m.logs.err = fmt.Errorf("logging is disabled")
		m.updateLogViewport()
		return nil
	}
	return loadLogsCmd(m.logs.path)
}

func (m *Model) resizeLogViewport() {
	w := max(m.width-4, 10)
	h := max(m.height-4, 3)
	if m.logs.viewport.Width == 0 {
		m.logs.viewport = viewport.New(w, h)
		return
	}
	m.logs.viewport.Width = w
	m.logs.viewport.Height = h
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.lines = msg.lines
	}
	m.updateLogViewport()
	m.logs.viewport.GotoBottom()
}

func (m *Model) updateLogViewport() {
	styles := m.theme.Styles()
	width := m.logs.viewport.Width

	var b strings.Builder
	switch {
	case m.logs.err != nil:
		b.WriteString(styles.DangerText.Render(m.logs.err.Error()))
	case len(m.logs.lines) == 0:
		b.WriteString(styles.FaintText.Render("No log lines yet."))
	default:
		for i, line := range m.logs.lines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(formatLogLine(line, styles, width))
		}
	}
	m.logs.viewport.SetContent(b.String())
}

func formatLogLine(line logtail.Line, styles Styles, width int) string {
	msgStyle := styles.Text
	switch line.Level {
	case logtail.LevelWarn:
		msgStyle = styles.WarningText
	case logtail.LevelError:
		msgStyle = styles.DangerText
	}
	if line.Time.IsZero() {
		return msgStyle.Render(truncate(line.Message, width))
	}
	stamp := line.Time.Format("15:04:05")
	return styles.FaintText.Render(stamp) + " " + msgStyle.Render(truncate(line.Message, width-len(stamp)-1))
}

// handleLogsKey processes keyboard input while the overlay is open.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewLogs):
		m.logs.open = false
		return m, nil
	case key.Matches(msg, m.keys.ReloadLogs):
		return m, loadLogsCmd(m.logs.path)
	case key.Matches(msg, m.keys.Up):
		m.logs.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logs.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logs.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logs.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.Top):
		m.logs.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
	}
	return m, nil
}

// renderLogs renders the log overlay in a bordered box.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + " " +
		styles.FaintText.Render(truncate(m.logs.path, max(m.width-12, 10)))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(m.width-2, 10))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		box.Render(m.logs.viewport.View()),
	)
}
