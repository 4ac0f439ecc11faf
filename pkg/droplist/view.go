package droplist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/dnd"
)

// Styles holds the lipgloss styles for every part of the list.
type Styles struct {
	Title        lipgloss.Style
	TitleFocused lipgloss.Style
	Item         lipgloss.Style
	Cursor       lipgloss.Style
	Selected     lipgloss.Style
	Dragged      lipgloss.Style
	DropOn       lipgloss.Style
	Indicator    lipgloss.Style
	Tail         lipgloss.Style
	Empty        lipgloss.Style
	Status       lipgloss.Style
}

// DefaultStyles returns the stock look.
func DefaultStyles() Styles {
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("243")),
		TitleFocused: lipgloss.NewStyle().Bold(true),
		Item:         lipgloss.NewStyle(),
		Cursor:       lipgloss.NewStyle().Reverse(true),
		Selected:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dragged:      lipgloss.NewStyle().Faint(true),
		DropOn:       lipgloss.NewStyle().Bold(true).Underline(true),
		Indicator:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Tail:         lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Empty:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

// View renders the list. The frame height is constant for a given mode:
// title, optional filter line, the item window, a drop-zone line while a
// gesture targets this list, and a status line.
func (m Model) View() string {
	var lines []string

	title := fmt.Sprintf("%s (%d)", m.title, m.col.Len())
	titleStyle := m.styles.Title
	if m.focused {
		titleStyle = m.styles.TitleFocused
	}
	lines = append(lines, titleStyle.Render(pad(title, m.width)))

	if m.filterVisible() {
		lines = append(lines, pad(m.filter.View(), m.width))
	}

	keys := m.visibleKeys()
	visible := m.listHeight()
	end := m.offset + visible
	if end > len(keys) {
		end = len(keys)
	}

	var items []string
	if len(keys) == 0 {
		empty := "(empty)"
		if m.filterVisible() {
			empty = "(no matches)"
		}
		items = append(items, m.styles.Empty.Render(pad("  "+empty, m.width)))
	}
	for i := m.offset; i < end; i++ {
		items = append(items, m.renderItem(keys[i], i))
	}
	for len(items) < visible {
		items = append(items, strings.Repeat(" ", m.width))
	}

	if m.session != nil {
		// Blank filler under the items belongs to the tail zone, so
		// pointing anywhere below the last item lands at the end.
		rendered := end - m.offset
		tailLines := make([]string, 0, len(items)-rendered+1)
		tailLines = append(tailLines, items[rendered:]...)
		tailLines = append(tailLines, m.renderTail())
		block := strings.Join(tailLines, "\n")
		if m.zones != nil {
			block = m.zones.Mark(m.zone("tail"), block)
		}
		items = append(items[:rendered:rendered], block)
	}
	lines = append(lines, items...)

	lines = append(lines, m.styles.Status.Render(pad(m.statusText(), m.width)))

	view := strings.Join(lines, "\n")
	if m.zones != nil {
		view = m.zones.Mark(m.zone("all"), view)
	}
	return view
}

func (m Model) renderItem(k collection.Key, row int) string {
	title := string(k)
	if it, ok := m.col.Item(k); ok {
		if t, ok := it.(Item); ok {
			title = t.Title()
		}
	}

	target := m.drop.Target()
	marker := "  "
	switch {
	case target.IsItem() && target.Key == k && target.Position == dnd.PositionOn:
		marker = m.styles.Indicator.Render("●") + " "
	case target.IsItem() && target.Key == k && target.Position == dnd.PositionBefore:
		marker = m.styles.Indicator.Render("▲") + " "
	case target.IsItem() && target.Key == k && target.Position == dnd.PositionAfter:
		marker = m.styles.Indicator.Render("▼") + " "
	case row == m.cursor && m.focused:
		marker = "❯ "
	case m.sel.IsSelected(k):
		marker = m.styles.Selected.Render("•") + " "
	}

	style := m.styles.Item
	switch {
	case m.src.Dragging(k):
		style = m.styles.Dragged
	case target.IsItem() && target.Key == k && target.Position == dnd.PositionOn:
		style = m.styles.DropOn
	case row == m.cursor && m.focused && m.session == nil:
		style = m.styles.Cursor
	case m.sel.IsSelected(k):
		style = m.styles.Selected
	}

	line := marker + style.Render(pad(title, m.width-2))
	if m.zones != nil {
		line = m.zones.Mark(m.itemZone(k), line)
	}
	return line
}

func (m Model) renderTail() string {
	target := m.drop.Target()
	if target.IsRoot() {
		return m.styles.Tail.Render(pad(fmt.Sprintf("⤷ drop into %s", m.title), m.width))
	}
	return m.styles.Empty.Render(pad("⤷ drop at end", m.width))
}

func (m Model) statusText() string {
	if note := m.Announcement(); note != "" {
		return note
	}
	if n := m.sel.Count(); n > 0 {
		return fmt.Sprintf("%d selected", n)
	}
	return ""
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
