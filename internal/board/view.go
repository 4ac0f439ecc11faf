package board

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

const helpSource = `# dropkit

Drag tasks between lists with the keyboard or the mouse. Everything is
saved to sqlite as you go.

## Lists

* ` + "`space`" + ` select, ` + "`shift+↑/↓`" + ` extend, ` + "`a`" + ` select all
* ` + "`d`" + ` pick up the selection, ` + "`↑/↓`" + ` aim, ` + "`←/→`" + ` switch lists
* ` + "`enter`" + ` drop, ` + "`esc`" + ` cancel
* ` + "`/`" + ` filter, ` + "`enter`" + ` open the task under the cursor

## Table

* ` + "`h/l`" + ` choose a column, ` + "`[`" + ` and ` + "`]`" + ` resize it
* drag a header divider with the mouse

## Board

* ` + "`tab`" + ` cycle panes, ` + "`n`" + ` new task, ` + "`q`" + ` quit
* ` + "`y`" + ` copy the selected tasks as a markdown checklist
`

// layout divides the window: lists on top, table below, one line of chrome
// above and below.
func (m *Model) layout() {
	w, h := m.width, m.height
	if w < 40 {
		w = 40
	}
	if h < 12 {
		h = 12
	}
	body := h - 2
	listH := body * 3 / 5
	if listH < 6 {
		listH = 6
	}
	tableH := body - listH
	if tableH < 4 {
		tableH = 4
	}
	gaps := len(m.lists) - 1
	listW := (w - gaps) / len(m.lists)
	for i := range m.lists {
		m.lists[i].SetSize(listW, listH)
	}
	m.table.SetSize(w, tableH)
	if m.help {
		m.helpText = renderHelp(w)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	var body string
	switch {
	case m.help:
		body = m.helpText
	case m.form != nil:
		body = lipgloss.Place(m.width, m.height-2,
			lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		views := make([]string, 0, len(m.lists)*2-1)
		for i := range m.lists {
			if i > 0 {
				views = append(views, " ")
			}
			views = append(views, m.lists[i].View())
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, views...) +
			"\n" + m.table.View()
	}
	frame := titleStyle.Render(" dropkit ") + "\n" + body + "\n" + m.footer()
	return m.zones.Scan(frame)
}

func (m Model) footer() string {
	hints := "tab panes • n new • d drag • / filter • ? help • q quit"
	if m.recipientIndex() >= 0 {
		hints = "↑/↓ aim • ←/→ switch list • enter drop • esc cancel"
	}
	line := hintStyle.Render(hints)
	if m.notes.text != "" {
		line += noteStyle.Render("  " + m.notes.text)
	}
	return line
}

// renderHelp renders the help markdown for the current width. Glamour
// failures fall back to the raw source.
func renderHelp(width int) string {
	wrap := width - 4
	if wrap < 30 {
		wrap = 30
	}
	if wrap > 78 {
		wrap = 78
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpSource
	}
	out, err := r.Render(helpSource)
	if err != nil {
		return helpSource
	}
	return out
}
