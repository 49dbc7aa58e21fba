package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/lineup/internal/config"
	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/prefs"
	"github.com/five82/lineup/internal/state"
)

func newTestModel(t *testing.T, f *feed.Feed, cache *imagecache.Cache) Model {
	t.Helper()
	store := &state.Store{}
	if f != nil {
		store.Update(f, nil)
	}
	cfg := config.Default()
	cfg.ChartHeight = 8
	cfg.LogFile = filepath.Join(t.TempDir(), "lineup.log")
	m := New(Options{
		Store:     store,
		Cache:     cache,
		Config:    &cfg,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func leftClick(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 3, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestClickingInfoBarDrainsQueue(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)

	wantNames := []string{"A", "B", "C", "N/A"}
	for i, want := range wantNames {
		ps := m.panel()
		if ps.Name != want {
			t.Fatalf("step %d: panel name = %q, want %q", i, ps.Name, want)
		}
		if got, wantCells := len(m.chartLayout().Cells), 3-i; got != wantCells {
			t.Fatalf("step %d: chart cells = %d, want %d", i, got, wantCells)
		}
		top, height := m.infoBarBounds()
		if height < 2 {
			t.Fatalf("step %d: info bar height = %d", i, height)
		}
		m = update(t, m, leftClick(top+height-1))
	}

	ps := m.panel()
	if ps.ID != "ID: N/A" || ps.Name != "N/A" || len(ps.Images) != 0 {
		t.Fatalf("drained panel = %+v", ps)
	}
	if m.snapshot.Dismissed != 3 {
		t.Fatalf("dismissed = %d, want 3", m.snapshot.Dismissed)
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "ID: N/A") {
		t.Fatalf("view missing placeholder:\n%s", view)
	}
}

func TestClickOutsideInfoBarIsIgnored(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)

	top, height := m.infoBarBounds()
	for _, y := range []int{0, top - 1, top + height} {
		m = update(t, m, leftClick(y))
	}
	m = update(t, m, tea.MouseMsg{X: 3, Y: top, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 3, Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})

	if got := m.snapshot.Remaining(); got != 3 {
		t.Fatalf("remaining = %d, want 3", got)
	}
}

func TestDismissKeys(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.panel().Name; got != "B" {
		t.Fatalf("after enter panel = %q, want B", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if got := m.panel().Name; got != "C" {
		t.Fatalf("after n panel = %q, want C", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.snapshot.Dismissed; got != 3 {
		t.Fatalf("dismissed = %d, want 3 (extra presses are no-ops)", got)
	}
}

func TestDismissDeletesCacheEntry(t *testing.T) {
	cache := newTestCache(&gatedFetcher{})
	f := feed.Feed{Items: threeItems(), Variant: feed.VariantSingle}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cache.Prime(ctx, f)
	waitFor(t, "all loaded", func() bool {
		for _, item := range f.Items {
			if e, ok := cache.Lookup(item.ID); !ok || !e.Loaded() {
				return false
			}
		}
		return true
	})

	m := newTestModel(t, &f, cache)
	if got := len(m.panel().Images); got != 1 {
		t.Fatalf("images before dismiss = %d, want 1", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cache.Lookup("E1"); ok {
		t.Fatalf("E1 still cached after dismiss")
	}
	ps := m.panel()
	if ps.Name != "B" || len(ps.Images) != 1 || ps.Images[0].URL != "b1.png" {
		t.Fatalf("panel after dismiss = %+v", ps)
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "png") {
		t.Fatalf("view missing image description:\n%s", view)
	}
}

func TestDualWaitsForHeadImages(t *testing.T) {
	gf := &gatedFetcher{}
	release := gf.hold("a2.png")
	cache := newTestCache(gf)
	f := feed.Feed{Items: threeItems()[:1], Variant: feed.VariantDual}

	m := newTestModel(t, &f, cache)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cache.Prime(ctx, f)
	waitFor(t, "primary settled", func() bool {
		e, ok := cache.Lookup("E1")
		return ok && e.Primary.Settled()
	})

	if got := len(m.panel().Images); got != 0 {
		t.Fatalf("dual panel showed %d images with one slot pending", got)
	}

	close(release)
	waitFor(t, "ready", cache.Ready)
	m.refreshPanel()
	ps := m.panel()
	if len(ps.Images) != 2 {
		t.Fatalf("dual panel images = %d, want 2", len(ps.Images))
	}
	if ps.Waiting {
		t.Fatalf("panel still waiting after both settled")
	}
}

func TestRefreshPanelIssuesOneWaitPerItem(t *testing.T) {
	gf := &gatedFetcher{}
	gf.hold("a1.png")
	cache := newTestCache(gf)
	f := feed.Feed{Items: threeItems(), Variant: feed.VariantDual}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := newTestModel(t, &f, cache)
	m.ctx = ctx
	cache.Prime(ctx, feed.Feed{Variant: feed.VariantDual})
	waitFor(t, "ready", cache.Ready)

	if cmd := m.refreshPanel(); cmd == nil {
		t.Fatalf("expected a wait command for the pending head item")
	}
	if m.waitingFor != "E1" {
		t.Fatalf("waitingFor = %q, want E1", m.waitingFor)
	}
	if cmd := m.refreshPanel(); cmd != nil {
		t.Fatalf("second refresh issued another command")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.waitingFor != "E2" {
		t.Fatalf("waitingFor after dismiss = %q, want E2", m.waitingFor)
	}

	// The evicted wait for E1 reports back late and must not reset E2's.
	m = update(t, m, imagesSettledMsg{id: "E1", err: imagecache.ErrEvicted})
	if m.waitingFor != "E2" {
		t.Fatalf("waitingFor after stale settle = %q, want E2", m.waitingFor)
	}
}

func TestHeaderShowsLoadStates(t *testing.T) {
	m := newTestModel(t, nil, nil)
	if view := ansi.Strip(m.renderHeader()); !strings.Contains(view, "Loading feed") {
		t.Fatalf("header while loading = %q", view)
	}

	m.store.Update(nil, errors.New("feed returned status 404: nope"))
	m = update(t, m, snapshotMsg(m.store.Snapshot()))
	view := ansi.Strip(m.renderHeader())
	if !strings.Contains(view, "FEED HTTP ERROR") {
		t.Fatalf("header after error = %q", view)
	}

	m.store.Update(&feed.Feed{Items: threeItems(), Duplicates: []string{"E1"}}, nil)
	m = update(t, m, snapshotMsg(m.store.Snapshot()))
	view = ansi.Strip(m.renderHeader())
	for _, want := range []string{"Remaining: 3/3", "Dismissed: 0", "1 duplicate ids dropped"} {
		if !strings.Contains(view, want) {
			t.Fatalf("header %q missing %q", view, want)
		}
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)
	start := m.theme.Name

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	if m.theme.Name == start {
		t.Fatalf("theme did not change from %q", start)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Theme != m.theme.Name || !p.HidePreviews {
		t.Fatalf("saved prefs = %+v, want theme %q and previews hidden", p, m.theme.Name)
	}
}

func TestOverlaysSwallowDismiss(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.showHelp || m.snapshot.Dismissed != 0 {
		t.Fatalf("enter should only close help: help=%v dismissed=%d", m.showHelp, m.snapshot.Dismissed)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	if !m.logs.open {
		t.Fatalf("log overlay not open")
	}
	top, _ := m.infoBarBounds()
	m = update(t, m, leftClick(top))
	if m.snapshot.Dismissed != 0 {
		t.Fatalf("click behind log overlay dismissed an item")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.logs.open {
		t.Fatalf("esc did not close log overlay")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)
	if a, b := m.View(), m.View(); a != b {
		t.Fatalf("View differs between calls")
	}
}

func TestStaleSnapshotDoesNotUndoDismiss(t *testing.T) {
	m := newTestModel(t, &feed.Feed{Items: threeItems()}, nil)

	// Read by a tick just before the click, delivered just after it.
	inFlight := fetchSnapshotCmd(m.store)()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.panel().Name; got != "B" {
		t.Fatalf("after dismiss panel = %q, want B", got)
	}

	m = update(t, m, inFlight)
	if got := m.panel().Name; got != "B" {
		t.Fatalf("after late snapshot panel = %q, want B", got)
	}
	if got := len(m.chartLayout().Cells); got != 2 {
		t.Fatalf("after late snapshot chart cells = %d, want 2", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.panel().Name; got != "C" {
		t.Fatalf("second dismiss panel = %q, want C", got)
	}
	if head, _ := m.store.Snapshot().Queue.PeekFirst(); head.ID != "E3" {
		t.Fatalf("store head = %q, want E3", head.ID)
	}

	// A fresh snapshot at the same version is still accepted.
	m = update(t, m, fetchSnapshotCmd(m.store)())
	if got := m.panel().Name; got != "C" {
		t.Fatalf("after current snapshot panel = %q, want C", got)
	}
}

func TestRefreshPanelSkipsEvictedHead(t *testing.T) {
	cache := newTestCache(&gatedFetcher{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := newTestModel(t, &feed.Feed{Items: threeItems(), Variant: feed.VariantDual}, cache)
	m.ctx = ctx
	cache.Prime(ctx, feed.Feed{Variant: feed.VariantDual})
	waitFor(t, "ready", cache.Ready)

	cache.Delete("E1")
	if cmd := m.refreshPanel(); cmd != nil {
		t.Fatalf("refresh issued a command for an evicted head")
	}
	if m.waitingFor != "" {
		t.Fatalf("waitingFor = %q, want empty", m.waitingFor)
	}

	m = update(t, m, imagesSettledMsg{id: "E1", err: imagecache.ErrEvicted})
	if m.waitingFor != "" {
		t.Fatalf("settle for evicted head started a new wait for %q", m.waitingFor)
	}
}
