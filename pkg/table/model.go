package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// Row is one table row, cells in column order. Missing cells render empty;
// extra cells are dropped.
type Row []string

// KeyMap holds the widget's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	FocusLeft  key.Binding
	FocusRight key.Binding
	Shrink     key.Binding
	Grow       key.Binding
}

// DefaultKeyMap returns the standard bindings: vim-style row movement plus
// column focus and resize on the bracket keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		FocusLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		FocusRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Shrink:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrow column")),
		Grow:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "widen column")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Shrink, k.Grow}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.FocusLeft, k.FocusRight, k.Shrink, k.Grow},
	}
}

// Styles configures the widget's lipgloss styles.
type Styles struct {
	Header        lipgloss.Style
	HeaderFocused lipgloss.Style
	Divider       lipgloss.Style
	Cell          lipgloss.Style
	CursorRow     lipgloss.Style
	Status        lipgloss.Style
}

// DefaultStyles returns a muted monochrome look that works on light and
// dark terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:        lipgloss.NewStyle().Bold(true),
		HeaderFocused: lipgloss.NewStyle().Bold(true).Underline(true),
		Divider:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Cell:          lipgloss.NewStyle(),
		CursorRow:     lipgloss.NewStyle().Reverse(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// Option configures a Model.
type Option func(*Model)

// WithRows sets the initial rows.
func WithRows(rows []Row) Option {
	return func(m *Model) { m.rows = rows }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithStyles replaces the default styles.
func WithStyles(st Styles) Option {
	return func(m *Model) { m.styles = st }
}

// WithZones enables mouse support through the given bubblezone manager:
// click to move the cursor, wheel to scroll, drag a header divider to
// resize the column to its left. The hosting program must scan its final
// frame with the same manager.
func WithZones(z *zone.Manager) Option {
	return func(m *Model) {
		m.zones = z
		m.zonePrefix = z.NewPrefix()
	}
}

// WithOnResize registers a callback invoked after every applied column
// resize with the column key and its new width.
func WithOnResize(fn func(key string, width int)) Option {
	return func(m *Model) { m.onResize = fn }
}

// Model is a windowed table widget over a ResizeState. It renders a header
// and a scrolling window of rows, keeps the cursor visible, and supports
// keyboard and mouse column resizing.
type Model struct {
	state  *ResizeState
	rows   []Row
	keys   KeyMap
	styles Styles

	cursor   int
	offset   int
	focusCol int
	width    int
	height   int
	focused  bool

	zones      *zone.Manager
	zonePrefix string
	dragX      int
	onResize   func(string, int)
}

// NewModel builds a table widget over state.
func NewModel(state *ResizeState, opts ...Option) Model {
	m := Model{
		state:  state,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		width:  80,
		height: 10,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// SetSize sets the widget's outer dimensions in cells.
func (m *Model) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 3 {
		height = 3
	}
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// SetRows replaces the rows, clamping cursor and scroll.
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// Rows returns the current rows.
func (m Model) Rows() []Row { return m.rows }

// Cursor returns the cursor row index.
func (m Model) Cursor() int { return m.cursor }

// SelectedRow returns the row under the cursor.
func (m Model) SelectedRow() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursor], true
}

// FocusedColumn returns the key of the column current resize keys act on.
func (m Model) FocusedColumn() string {
	cols := m.state.cols
	if len(cols) == 0 {
		return ""
	}
	return cols[m.focusCol].Key
}

// State exposes the underlying resize state.
func (m Model) State() *ResizeState { return m.state }

// Focus directs key input to the table.
func (m *Model) Focus() { m.focused = true }

// Blur stops the table from handling key input.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the table handles key input.
func (m Model) Focused() bool { return m.focused }

// Update handles bubbletea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focused {
			m.handleKey(msg)
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.visibleRows())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.FocusLeft):
		if m.focusCol > 0 {
			m.focusCol--
		}
	case key.Matches(msg, m.keys.FocusRight):
		if m.focusCol < len(m.state.cols)-1 {
			m.focusCol++
		}
	case key.Matches(msg, m.keys.Shrink):
		m.resizeFocused(-1)
	case key.Matches(msg, m.keys.Grow):
		m.resizeFocused(1)
	}
}

func (m *Model) resizeFocused(delta int) {
	keyName := m.FocusedColumn()
	if keyName == "" || !m.state.StartResize(keyName) {
		return
	}
	w := m.state.ResizeBy(delta)
	m.state.EndResize()
	if m.onResize != nil {
		m.onResize(keyName, w)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.zones == nil {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		case tea.MouseButtonLeft:
			for _, c := range m.state.cols {
				if m.zones.Get(m.dividerZone(c.Key)).InBounds(msg) {
					if m.state.StartResize(c.Key) {
						m.dragX = msg.X
					}
					return
				}
			}
			for i := range m.rows {
				if m.zones.Get(m.rowZone(i)).InBounds(msg) {
					m.cursor = i
					m.ensureCursorVisible()
					return
				}
			}
		}
	case tea.MouseActionMotion:
		if keyName, ok := m.state.Resizing(); ok {
			delta := msg.X - m.dragX
			m.dragX = msg.X
			if delta != 0 {
				w := m.state.ResizeBy(delta)
				if m.onResize != nil {
					m.onResize(keyName, w)
				}
			}
		}
	case tea.MouseActionRelease:
		if _, ok := m.state.Resizing(); ok {
			m.state.EndResize()
		}
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m Model) visibleRows() int {
	// Header, header rule, and a status line when rows overflow.
	v := m.height - 2
	if len(m.rows) > v {
		v--
	}
	if v < 1 {
		v = 1
	}
	return v
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	maxOffset := len(m.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) dividerZone(key string) string {
	return m.zonePrefix + "divider:" + key
}

func (m Model) rowZone(i int) string {
	return m.zonePrefix + "row:" + strconv.Itoa(i)
}

// View renders the table.
func (m Model) View() string {
	cols := m.state.cols
	if len(cols) == 0 {
		return ""
	}
	sepCount := len(cols) - 1
	widths := m.state.Widths(m.width - sepCount)

	var b strings.Builder

	// Header.
	for i, c := range cols {
		style := m.styles.Header
		if m.focused && i == m.focusCol {
			style = m.styles.HeaderFocused
		}
		b.WriteString(style.Render(pad(c.Title, widths[i])))
		if i < sepCount {
			div := m.styles.Divider.Render("│")
			if m.zones != nil {
				div = m.zones.Mark(m.dividerZone(c.Key), div)
			}
			b.WriteString(div)
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Divider.Render(rule(widths)))
	b.WriteString("\n")

	// Row window.
	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for ri := m.offset; ri < end; ri++ {
		line := m.renderRow(m.rows[ri], widths)
		if ri == m.cursor && m.focused {
			line = m.styles.CursorRow.Render(line)
		}
		if m.zones != nil {
			line = m.zones.Mark(m.rowZone(ri), line)
		}
		b.WriteString(line)
		if ri < end-1 {
			b.WriteString("\n")
		}
	}

	if len(m.rows) > visible {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(
			fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(m.rows))))
	}
	return b.String()
}

func (m Model) renderRow(row Row, widths []int) string {
	var b strings.Builder
	for i := range m.state.cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		b.WriteString(m.styles.Cell.Render(pad(cell, widths[i])))
		if i < len(m.state.cols)-1 {
			b.WriteString(m.styles.Divider.Render("│"))
		}
	}
	return b.String()
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if width < 1 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

func rule(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return strings.Join(parts, "┼")
}
