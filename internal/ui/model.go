// Package ui is the terminal reader: a daily verse home screen, a tabbed
// book > chapter > verse browser with breadcrumbs, and the favorites list.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"verse-tui/internal/api"
	"verse-tui/internal/favorites"
	"verse-tui/internal/navigation"
	"verse-tui/internal/orchestrator"
	"verse-tui/internal/settings"
	"verse-tui/internal/storage"
	"verse-tui/internal/theme"
)

type screen int

const (
	screenHome screen = iota
	screenReader
	screenFavorites
	screenJump
)

// Config holds start-up choices made outside the reader.
type Config struct {
	// Context bounds every API call the reader makes. Cancelling it
	// abandons requests still in flight.
	Context        context.Context
	DefaultVersion string
	// Theme overrides the saved theme when set.
	Theme  string
	Logger *slog.Logger
}

type Model struct {
	ctx    context.Context
	orch   *orchestrator.Orchestrator
	kv     storage.Store
	logger *slog.Logger

	screen   screen
	previous screen

	defaultVersion string
	savedVersion   string
	tabs           []api.Translation
	tab            int

	cursor   map[string]int
	inflight map[string]int
	retry    map[string]pending

	daily     *orchestrator.DailyView
	favs      []favorites.Favorite
	favCursor int

	viewport viewport.Model
	spinner  spinner.Model
	input    textinput.Model

	palette theme.Palette
	styles  theme.Styles
	status  string

	width  int
	height int
	ready  bool
}

func New(orch *orchestrator.Orchestrator, kv storage.Store, cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	saved, err := settings.Load(kv)
	if err != nil {
		logger.Warn("loading settings", "error", err)
	}

	themeName := saved.Theme
	if cfg.Theme != "" {
		themeName = cfg.Theme
	}
	palette, _ := theme.Lookup(themeName)

	defaultVersion := cfg.DefaultVersion
	if defaultVersion == "" {
		defaultVersion = api.KJV
	}

	ti := textinput.New()
	ti.Placeholder = "John 3:16, Gen 1, PSA.23"
	ti.CharLimit = 40
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:            ctx,
		orch:           orch,
		kv:             kv,
		logger:         logger,
		screen:         screenHome,
		defaultVersion: defaultVersion,
		savedVersion:   saved.SelectedVersion,
		cursor:         make(map[string]int),
		inflight:       make(map[string]int),
		retry:          make(map[string]pending),
		input:          ti,
		spinner:        sp,
		palette:        palette,
		styles:         theme.Build(palette),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadTranslations(m.ctx, m.orch),
		loadDaily(m.ctx, m.orch, m.defaultVersion),
	)
}

// version is the id of the selected tab.
func (m Model) version() string {
	if m.tab < len(m.tabs) {
		return m.tabs[m.tab].ID
	}
	return m.defaultVersion
}

func (m Model) versionLabel(id string) string {
	for _, t := range m.tabs {
		if t.ID == id {
			return t.Label()
		}
	}
	if id == api.KJV {
		return "KJV"
	}
	return id
}

func (m Model) loading() bool {
	return m.inflight[m.version()] > 0
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.bodyHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.bodyHeight()
		}
		m.refreshDetail()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case translationsLoadedMsg:
		m.applyTranslations(msg)
		if m.screen == screenReader {
			return m, m.ensureLoaded()
		}

	case dailyLoadedMsg:
		d := msg.daily
		m.daily = &d

	case viewLoadedMsg:
		return m.applyView(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenJump:
		m.input, cmd = m.input.Update(msg)
	case screenReader:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) applyTranslations(msg translationsLoadedMsg) {
	if msg.err != nil || len(msg.translations) == 0 {
		m.tabs = []api.Translation{{ID: m.defaultVersion, Abbreviation: m.versionLabel(m.defaultVersion)}}
		m.tab = 0
		if msg.err != nil {
			m.status = orchestrator.Message(orchestrator.Classify(msg.err), orchestrator.ViewTranslations)
		}
		return
	}

	m.tabs = msg.translations
	m.tab = 0
	for i, t := range m.tabs {
		if t.ID == m.savedVersion {
			m.tab = i
			break
		}
	}
}

func (m Model) applyView(msg viewLoadedMsg) (tea.Model, tea.Cmd) {
	if m.inflight[msg.versionID] > 0 {
		m.inflight[msg.versionID]--
	}
	if errors.Is(msg.err, orchestrator.ErrStale) {
		return m, nil
	}
	if msg.err != nil {
		m.status = msg.err.Error()
		return m, nil
	}

	m.cursor[msg.versionID] = 0
	v := msg.view
	if msg.follow != "" && !v.Failed() {
		for i, item := range v.Verses {
			if item.ID == msg.follow {
				m.cursor[msg.versionID] = i
				break
			}
		}
		follow := msg.follow
		versionID := msg.versionID
		return m, m.start(versionID, pending{newTask: func() orchestrator.Task {
			return m.orch.LoadVerseDetail(versionID, follow)
		}})
	}
	if v.Kind == orchestrator.ViewVerseDetail && msg.versionID == m.version() {
		m.refreshDetail()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenJump:
		return m.handleJumpKey(msg)
	case screenFavorites:
		return m.handleFavoritesKey(msg)
	case screenHome:
		return m.handleHomeKey(msg)
	default:
		return m.handleReaderKey(msg)
	}
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "r":
		m.screen = screenReader
		return m, m.ensureLoaded()
	case "c":
		if m.daily != nil {
			return m, m.openDaily(*m.daily)
		}
	case "s":
		if m.daily != nil {
			on, err := m.orch.ToggleDailyFavorite(*m.daily)
			if err != nil {
				m.status = orchestrator.Message(orchestrator.Classify(err), orchestrator.ViewVerseDetail)
				return m, nil
			}
			m.daily.Favorite = on
			m.status = favoriteStatus(on)
		}
	case "f":
		m.openFavorites()
	case "g", "/":
		m.openJump()
	case "t":
		m.cycleTheme()
	}
	return m, nil
}

func (m Model) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	versionID := m.version()
	view, hasView := m.orch.CurrentView(versionID)

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "d":
		m.screen = screenHome
		return m, nil
	case "f":
		m.openFavorites()
		return m, nil
	case "g", "/":
		m.openJump()
		return m, nil
	case "t":
		m.cycleTheme()
		return m, nil
	case "tab", "]":
		return m.switchTab(1)
	case "shift+tab", "[":
		return m.switchTab(-1)
	case "r":
		if p, ok := m.retry[versionID]; ok {
			m.status = ""
			return m, m.start(versionID, p)
		}
		return m, m.ensureLoaded()
	case "esc", "backspace", "left", "h":
		return m, m.goUp(view, hasView)
	case "1", "2", "3", "4":
		idx, _ := strconv.Atoi(key)
		crumbs := m.orch.Breadcrumbs(versionID, m.versionLabel(versionID))
		if idx <= len(crumbs) && crumbs[idx-1].Navigable() {
			level := crumbs[idx-1].Level
			return m, m.start(versionID, pending{newTask: func() orchestrator.Task {
				return m.orch.NavigateTo(versionID, level)
			}})
		}
		return m, nil
	case "s":
		if hasView && view.Kind == orchestrator.ViewVerseDetail && !view.Failed() {
			on, err := m.orch.ToggleFavorite(versionID)
			if err != nil {
				m.status = orchestrator.Message(orchestrator.Classify(err), orchestrator.ViewVerseDetail)
			} else {
				m.status = favoriteStatus(on)
			}
			m.refreshDetail()
		}
		return m, nil
	}

	if !hasView {
		return m, nil
	}
	if view.Kind == orchestrator.ViewVerseDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	n := itemCount(view)
	c := m.cursor[versionID]
	switch msg.String() {
	case "up", "k":
		if c > 0 {
			m.cursor[versionID] = c - 1
		}
	case "down", "j":
		if c < n-1 {
			m.cursor[versionID] = c + 1
		}
	case "pgup":
		m.cursor[versionID] = max(0, c-m.listHeight())
	case "pgdown":
		m.cursor[versionID] = max(0, min(n-1, c+m.listHeight()))
	case "home":
		m.cursor[versionID] = 0
	case "end":
		m.cursor[versionID] = max(0, n-1)
	case "enter", "right", "l":
		return m, m.selectItem(view, c)
	}
	return m, nil
}

func (m *Model) selectItem(view orchestrator.View, c int) tea.Cmd {
	versionID := m.version()
	if view.Failed() {
		if p, ok := m.retry[versionID]; ok {
			return m.start(versionID, p)
		}
		return nil
	}

	var newTask func() orchestrator.Task
	switch view.Kind {
	case orchestrator.ViewBooks:
		if c >= len(view.Books) {
			return nil
		}
		b := view.Books[c]
		newTask = func() orchestrator.Task { return m.orch.LoadChapters(versionID, b.ID, b.Name) }
	case orchestrator.ViewChapters:
		if c >= len(view.Chapters) {
			return nil
		}
		ch := view.Chapters[c]
		newTask = func() orchestrator.Task { return m.orch.LoadVerses(versionID, ch.ID) }
	case orchestrator.ViewVerses:
		if c >= len(view.Verses) {
			return nil
		}
		v := view.Verses[c]
		newTask = func() orchestrator.Task { return m.orch.LoadVerseDetail(versionID, v.ID) }
	default:
		return nil
	}
	m.status = ""
	return m.start(versionID, pending{newTask: newTask})
}

// goUp returns to the list one level above the current view.
func (m *Model) goUp(view orchestrator.View, hasView bool) tea.Cmd {
	if !hasView {
		return nil
	}

	var level navigation.Level
	switch view.Kind {
	case orchestrator.ViewVerseDetail:
		level = navigation.LevelChapter
	case orchestrator.ViewVerses:
		level = navigation.LevelBook
	case orchestrator.ViewChapters:
		level = navigation.LevelVersion
	default:
		return nil
	}

	versionID := m.version()
	if current := m.orch.State(versionID).Level(); level > current {
		level = current
	}
	m.status = ""
	return m.start(versionID, pending{newTask: func() orchestrator.Task {
		return m.orch.NavigateTo(versionID, level)
	}})
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	if len(m.tabs) < 2 {
		return m, nil
	}
	m.tab = (m.tab + delta + len(m.tabs)) % len(m.tabs)
	m.status = ""
	m.saveSettings()
	m.refreshDetail()
	return m, m.ensureLoaded()
}

// ensureLoaded starts the book list for the selected tab if it has never
// shown anything.
func (m *Model) ensureLoaded() tea.Cmd {
	versionID := m.version()
	if _, ok := m.orch.CurrentView(versionID); ok || m.inflight[versionID] > 0 {
		return nil
	}
	return m.start(versionID, pending{newTask: func() orchestrator.Task {
		return m.orch.LoadBooks(versionID)
	}})
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.screen = m.previous
		return m, nil
	case "enter":
		ref, err := navigation.ParseReference(m.input.Value())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.input.Blur()
		m.input.SetValue("")
		m.screen = screenReader
		m.status = ""
		return m, m.jumpTo(m.version(), ref)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) jumpTo(versionID string, ref navigation.Reference) tea.Cmd {
	return m.start(versionID, pending{
		newTask: func() orchestrator.Task { return m.orch.JumpTo(versionID, ref) },
		follow:  ref.VerseID(),
	})
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "f":
		m.screen = m.previous
	case "up", "k":
		if m.favCursor > 0 {
			m.favCursor--
		}
	case "down", "j":
		if m.favCursor < len(m.favs)-1 {
			m.favCursor++
		}
	case "x", "delete":
		if m.favCursor < len(m.favs) {
			if _, err := m.orch.RemoveFavorite(m.favs[m.favCursor].ID); err != nil {
				m.status = orchestrator.Message(orchestrator.Classify(err), orchestrator.ViewVerseDetail)
			} else {
				m.status = favoriteStatus(false)
			}
			m.reloadFavorites()
			m.refreshDetail()
		}
	case "enter":
		if m.favCursor < len(m.favs) {
			return m, m.openFavorite(m.favs[m.favCursor])
		}
	}
	return m, nil
}

func (m *Model) openFavorite(f favorites.Favorite) tea.Cmd {
	chapter, err1 := strconv.Atoi(f.Chapter)
	verse, err2 := strconv.Atoi(f.Verse)
	if err1 != nil || err2 != nil {
		m.status = "Cannot open " + f.Reference()
		return nil
	}

	for i, t := range m.tabs {
		if t.ID == f.VersionID {
			m.tab = i
			m.saveSettings()
			break
		}
	}
	m.screen = screenReader
	m.status = ""
	return m.jumpTo(m.version(), navigation.Reference{BookID: f.BookID, Chapter: chapter, Verse: verse})
}

// openDaily reads the chapter of the daily verse in the active translation,
// with the verse itself opened.
func (m *Model) openDaily(d orchestrator.DailyView) tea.Cmd {
	chapter, err1 := strconv.Atoi(d.Verse.Chapter)
	verse, err2 := strconv.Atoi(d.Verse.Verse)
	if err1 != nil || err2 != nil {
		m.status = "Cannot open " + d.Verse.Book + " " + d.Verse.Chapter + ":" + d.Verse.Verse
		return nil
	}
	m.screen = screenReader
	m.status = ""
	return m.jumpTo(m.version(), navigation.Reference{BookID: d.Verse.BookID, Chapter: chapter, Verse: verse})
}

func (m *Model) openFavorites() {
	m.previous = m.screen
	m.screen = screenFavorites
	m.status = ""
	m.reloadFavorites()
}

func (m *Model) reloadFavorites() {
	m.favs = m.orch.Favorites()
	if m.favCursor >= len(m.favs) {
		m.favCursor = max(0, len(m.favs)-1)
	}
	if m.daily != nil {
		m.daily.Favorite = m.orch.IsFavorite(m.daily.Key())
	}
}

func (m *Model) openJump() {
	m.previous = m.screen
	m.screen = screenJump
	m.status = ""
	m.input.Focus()
}

func (m *Model) cycleTheme() {
	m.palette = theme.Next(m.palette)
	m.styles = theme.Build(m.palette)
	m.status = "Theme: " + m.palette.Name
	m.saveSettings()
	m.refreshDetail()
}

func (m *Model) saveSettings() {
	s := settings.Settings{SelectedVersion: m.version(), Theme: m.palette.Name}
	if err := settings.Save(m.kv, s); err != nil {
		m.logger.Warn("saving settings", "error", err)
	}
}

// refreshDetail renders the current verse into the viewport.
func (m *Model) refreshDetail() {
	if !m.ready {
		return
	}
	view, ok := m.orch.CurrentView(m.version())
	if !ok || view.Detail == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderDetail(view.Detail))
	m.viewport.GotoTop()
}

func itemCount(v orchestrator.View) int {
	switch v.Kind {
	case orchestrator.ViewBooks:
		return len(v.Books)
	case orchestrator.ViewChapters:
		return len(v.Chapters)
	case orchestrator.ViewVerses:
		return len(v.Verses)
	}
	return 0
}

func favoriteStatus(on bool) string {
	if on {
		return "Saved to favorites"
	}
	return "Removed from favorites"
}
