package tui

import (
	"fmt"
	"strconv"
	"strings"

	"folio/internal/model"
	"folio/internal/portfolio"
	"folio/internal/publish"
	"folio/internal/store"
	"folio/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
)

const looseHeader = "(no category)"

// row is one rendered line of the listing: a group header or an entry.
type row struct {
	header string
	entry  *portfolio.Entry
}

type changeMsg watch.Change

type appModel struct {
	catalogs []portfolio.Catalog
	kindIdx  int

	listing portfolio.Listing
	rows    []row
	// selectable holds the indexes into rows that carry an entry.
	selectable []int
	cursor     int

	width  int
	height int

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	detail   bool

	status    string
	statusErr bool

	changes <-chan watch.Change
	log     *zap.Logger
}

func newAppModel(catalogs []portfolio.Catalog, kind model.Kind, changes <-chan watch.Change, log *zap.Logger) appModel {
	if log == nil {
		log = zap.NewNop()
	}
	m := appModel{
		catalogs: catalogs,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
		changes:  changes,
		log:      log,
	}
	for i, c := range catalogs {
		if c.Kind() == kind {
			m.kindIdx = i
		}
	}
	m.reload(0)
	return m
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan watch.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m *appModel) catalog() portfolio.Catalog {
	return m.catalogs[m.kindIdx]
}

// reload rebuilds rows from the admin listing and puts the cursor back on keepID when present.
func (m *appModel) reload(keepID int) {
	if len(m.catalogs) == 0 {
		return
	}
	m.listing = m.catalog().Listing(true)
	m.rows = m.rows[:0]
	m.selectable = m.selectable[:0]

	add := func(header string, entries []portfolio.Entry) {
		m.rows = append(m.rows, row{header: header})
		for i := range entries {
			e := entries[i]
			m.selectable = append(m.selectable, len(m.rows))
			m.rows = append(m.rows, row{entry: &e})
		}
	}
	for _, g := range m.listing.Groups {
		add(g.Category, g.Entries)
	}
	if len(m.listing.Loose) > 0 {
		add(looseHeader, m.listing.Loose)
	}

	if keepID > 0 {
		for i, ri := range m.selectable {
			if m.rows[ri].entry.ID == keepID {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.selectable) {
		m.cursor = len(m.selectable) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) selected() (portfolio.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.selectable) {
		return portfolio.Entry{}, false
	}
	return *m.rows[m.selectable[m.cursor]].entry, true
}

func (m *appModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()
		if m.detail {
			m.openDetail()
		}
		return m, nil

	case changeMsg:
		if msg.Role == store.RoleSettings || msg.Kind == m.catalog().Kind() {
			keep := 0
			if e, ok := m.selected(); ok {
				keep = e.ID
			}
			m.reload(keep)
			m.log.Debug("reloaded after change", zap.String("file", msg.File))
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open):
		m.detail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.selectable)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.move(model.Previous)
	case key.Matches(msg, m.keys.MoveDown):
		m.move(model.Next)
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
	case key.Matches(msg, m.keys.NextKind):
		m.switchKind(1)
	case key.Matches(msg, m.keys.PrevKind):
		m.switchKind(-1)
	case key.Matches(msg, m.keys.Reload):
		keep := 0
		if e, ok := m.selected(); ok {
			keep = e.ID
		}
		m.reload(keep)
		m.setStatus("reloaded", false)
	case key.Matches(msg, m.keys.Open):
		if _, ok := m.selected(); ok {
			m.detail = true
			m.openDetail()
		}
	}
	return m, nil
}

func (m *appModel) move(dir model.Direction) {
	e, ok := m.selected()
	if !ok {
		return
	}
	moved, err := m.catalog().Move(e.ID, dir)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if !moved {
		m.setStatus(fmt.Sprintf("#%d has no %s neighbour in %q", e.ID, dir, e.Category), false)
		return
	}
	m.reload(e.ID)
	m.setStatus(fmt.Sprintf("moved #%d %s", e.ID, dir), false)
}

func (m *appModel) cycleSort() {
	_, admin := m.catalog().SortModes()
	modes := model.SortModes()
	next := modes[0]
	for i, mode := range modes {
		if mode == admin {
			next = modes[(i+1)%len(modes)]
		}
	}
	if err := m.catalog().SetSort("", string(next)); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	keep := 0
	if e, ok := m.selected(); ok {
		keep = e.ID
	}
	m.reload(keep)
	m.setStatus("admin sort: "+string(next), false)
}

func (m *appModel) switchKind(delta int) {
	n := len(m.catalogs)
	if n == 0 {
		return
	}
	m.kindIdx = ((m.kindIdx+delta)%n + n) % n
	m.cursor = 0
	m.reload(0)
	m.setStatus("", false)
}

func (m *appModel) openDetail() {
	e, ok := m.selected()
	if !ok {
		m.detail = false
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()
	m.viewport.SetContent(renderMarkdown(publish.RecordMarkdown(e), m.width))
	m.viewport.GotoTop()
}

// bodyHeight is the space left between the tab bar and the footer.
func (m appModel) bodyHeight() int {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) View() string {
	if len(m.catalogs) == 0 {
		return "nothing to show\n"
	}
	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n")
	if m.detail {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.listView())
	}
	b.WriteString("\n")
	if m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = styleError()
		}
		b.WriteString(st.Render(ansi.Truncate(m.status, m.width, "…")))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) tabs() string {
	parts := make([]string, 0, len(m.catalogs)+1)
	for i, c := range m.catalogs {
		parts = append(parts, styleTab(i == m.kindIdx).Render(publish.KindTitle(c.Kind())))
	}
	parts = append(parts, styleMuted().Render(fmt.Sprintf(" sort: %s  total: %d", m.listing.SortBy, m.listing.Total)))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// listView renders the rows window that keeps the cursor visible.
func (m appModel) listView() string {
	if len(m.rows) == 0 {
		return styleMuted().Render("no " + string(m.catalog().Kind()) + " yet")
	}
	selRow := -1
	if m.cursor >= 0 && m.cursor < len(m.selectable) {
		selRow = m.selectable[m.cursor]
	}

	height := m.bodyHeight()
	start := 0
	if selRow >= height {
		start = selRow - height + 1
	}
	end := start + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.rows[i]
		if r.entry == nil {
			lines = append(lines, styleHeader().Render(ansi.Truncate(r.header, m.width, "…")))
			continue
		}
		line := ansi.Truncate(entryLine(*r.entry), m.width, "…")
		if i == selRow {
			line = styleSelected().Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func entryLine(e portfolio.Entry) string {
	label := strings.TrimSpace(e.Label)
	if label == "" {
		label = "(untitled)"
	}
	line := "  #" + strconv.Itoa(e.ID) + "  " + label
	if e.Date != "" {
		line += "  " + e.Date
	}
	return line
}
