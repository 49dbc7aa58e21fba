package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lineup/internal/config"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/prefs"
	"github.com/five82/lineup/internal/preview"
	"github.com/five82/lineup/internal/state"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Cache        *imagecache.Cache
	Config       *config.Config
	Renderer     *preview.Renderer
	PollTick     time.Duration
	ThemeName    string
	HidePreviews bool
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	cache     *imagecache.Cache
	config    *config.Config
	renderer  *preview.Renderer
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool

	// Data state
	snapshot state.Snapshot

	// Next-item panel state
	hidePreviews   bool
	waitingFor     string
	preview        previewState
	previewPending string

	// Overlays
	showHelp bool
	logs     logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:          ctx,
		store:        opts.Store,
		cache:        opts.Cache,
		config:       opts.Config,
		renderer:     opts.Renderer,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		hidePreviews: opts.HidePreviews,
	}
	m.applyTheme(GetTheme(themeName))
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.cache != nil {
		cmds = append(cmds, listenCacheCmd(m.ctx, m.cache))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		if m.logs.open {
			m.resizeLogViewport()
			m.updateLogViewport()
		}
		return m, m.refreshPanel()

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		// A snapshot read before a dismiss can arrive after it.
		if msg.Version < m.snapshot.Version {
			return m, nil
		}
		m.snapshot = state.Snapshot(msg)
		return m, m.refreshPanel()

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cacheChangedMsg:
		return m, tea.Batch(listenCacheCmd(m.ctx, m.cache), m.refreshPanel())

	case imagesSettledMsg:
		if msg.id == m.waitingFor {
			m.waitingFor = ""
		}
		if m.ctx.Err() != nil {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, imagecache.ErrEvicted) {
			log.Printf("wait for images of %s: %v", msg.id, msg.err)
		}
		return m, m.refreshPanel()

	case previewMsg:
		if msg.key == m.previewPending {
			m.previewPending = ""
		}
		if msg.err != nil {
			log.Printf("render preview %s: %v", msg.key, msg.err)
		}
		m.preview = previewState{key: msg.key, blocks: msg.blocks}
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.logs.open {
		return m.renderLogs()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.logs.open {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreviews):
		m.hidePreviews = !m.hidePreviews
		m.savePrefs()
		return m, m.refreshPanel()

	case key.Matches(msg, m.keys.ViewLogs):
		return m, m.openLogs()

	case key.Matches(msg, m.keys.Dismiss):
		return m, m.dismiss()
	}

	return m, nil
}

// handleMouse dismisses the next item on a left click inside the info bar.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.logs.open {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	top, height := m.infoBarBounds()
	if msg.Y < top || msg.Y >= top+height {
		return m, nil
	}
	return m, m.dismiss()
}

// dismiss removes the head item, drops its images and re-evaluates the panel.
// The chart follows on the next View.
func (m *Model) dismiss() tea.Cmd {
	if m.store == nil {
		return nil
	}
	head, ok := m.store.Dismiss()
	if !ok {
		return nil
	}
	if m.cache != nil {
		m.cache.Delete(head.ID)
	}
	log.Printf("dismissed %s (%s)", head.ID, head.Name)
	m.snapshot = m.store.Snapshot()
	return m.refreshPanel()
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// busy reports whether anything is still loading.
func (m Model) busy() bool {
	if !m.snapshot.Loaded {
		return m.snapshot.LastError == nil
	}
	return m.cache != nil && !m.cache.Ready()
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
	if m.logs.open {
		m.updateLogViewport()
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HidePreviews: m.hidePreviews}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// renderMain stacks header, chart, info bar and footer.
func (m Model) renderMain() string {
	body := strings.Join([]string{
		m.renderHeader(),
		m.renderChart(),
		"",
		m.renderInfoBar(),
	}, "\n")
	if m.height > 1 {
		body = lipgloss.NewStyle().Height(m.height - 1).MaxHeight(m.height - 1).Render(body)
	}
	return body + "\n" + m.renderFooter()
}

// infoBarBounds returns the first screen row of the info bar and its height,
// matching the layout of renderMain.
func (m Model) infoBarBounds() (top, height int) {
	top = lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderChart()) + 1
	return top, lipgloss.Height(m.renderInfoBar())
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type cacheChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func listenCacheCmd(ctx context.Context, cache *imagecache.Cache) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-cache.Changes():
			return cacheChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
