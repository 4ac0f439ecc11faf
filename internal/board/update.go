package board

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/dropkit/pkg/dnd"
	"github.com/marcus/dropkit/pkg/droplist"
)

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		cmd := m.routeMouse(msg)
		return m, cmd

	case droplist.DragStartedMsg:
		m.session = msg.Session
		m.origin = msg.ListID
		return m, nil

	case droplist.DroppedMsg:
		// A drop that landed in another list leaves the origin's source
		// side unsettled; finish it there and persist the removal.
		if m.origin != "" && m.origin != msg.ListID && !msg.Internal {
			if i := m.listIndex(m.origin); i >= 0 {
				m.lists[i].FinishDrag(msg.Operation, msg.Internal)
				m.persistList(m.origin)
			}
		}
		m.session = nil
		m.origin = ""
		return m, nil

	case droplist.DragCancelledMsg:
		if m.origin != "" && m.origin != msg.ListID {
			if i := m.listIndex(m.origin); i >= 0 {
				m.lists[i].FinishDrag(dnd.OperationCancel, false)
			}
		}
		m.session = nil
		m.origin = ""
		return m, nil

	case droplist.ChangedMsg:
		m.persistList(msg.ListID)
		m.refreshTable()
		return m, nil

	case droplist.ActivatedMsg:
		m.showTask(msg.Key)
		return m, nil
	}

	// Everything else, blink ticks and the like, goes to the open form.
	if m.form != nil {
		cmd := m.updateForm(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.form != nil {
		if msg.Type == tea.KeyEscape {
			m.form = nil
			return m, nil
		}
		cmd := m.updateForm(msg)
		return m, cmd
	}

	if m.help {
		switch {
		case msg.Type == tea.KeyEscape,
			key.Matches(msg, m.keys.Help),
			key.Matches(msg, m.keys.Quit):
			m.help = false
		}
		return m, nil
	}

	// An active gesture owns the keyboard: movement goes to the recipient
	// list, left/right carries the drag across lists.
	if r := m.recipientIndex(); r >= 0 {
		if m.throttled() {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.DragLeft):
			m.moveDrag(r, -1)
			return m, nil
		case key.Matches(msg, m.keys.DragRight):
			m.moveDrag(r, 1)
			return m, nil
		}
		var cmd tea.Cmd
		m.lists[r], cmd = m.lists[r].Update(msg)
		return m, cmd
	}

	// A list capturing filter text gets every key.
	if i := m.focusedList(); i >= 0 && m.lists[i].Filtering() {
		var cmd tea.Cmd
		m.lists[i], cmd = m.lists[i].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help = true
		m.helpText = renderHelp(m.width)
		return m, nil
	case key.Matches(msg, m.keys.NewTask):
		cmd := m.openForm()
		return m, cmd
	case key.Matches(msg, m.keys.Yank):
		m.yankSelection()
		return m, nil
	case key.Matches(msg, m.keys.NextPane):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.cycleFocus(-1)
		return m, nil
	}

	if i := m.focusedList(); i >= 0 {
		var cmd tea.Cmd
		m.lists[i], cmd = m.lists[i].Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// throttled drops drag keys arriving faster than the configured repeat
// interval, taming terminals with aggressive key repeat.
func (m *Model) throttled() bool {
	repeat := time.Duration(m.cfg.UI.Repeat) * time.Millisecond
	if repeat <= 0 {
		return false
	}
	now := timeNow()
	if now.Sub(m.lastDragKey) < repeat {
		return true
	}
	m.lastDragKey = now
	return false
}

// moveDrag carries the active session from list r toward its neighbor. A
// neighbor that rejects the session bounces it back.
func (m *Model) moveDrag(r, dir int) {
	t := r + dir
	if t < 0 || t >= len(m.lists) || m.session == nil {
		return
	}
	m.lists[r].LeaveDrag()
	if !m.lists[t].EnterDrag(m.session) {
		m.lists[r].EnterDrag(m.session)
	}
}

func (m *Model) cycleFocus(dir int) {
	panes := len(m.lists) + 1
	for i := range m.lists {
		m.lists[i].Blur()
	}
	m.table.Blur()
	m.focus = (m.focus + dir + panes) % panes
	if m.focus < len(m.lists) {
		m.lists[m.focus].Focus()
	} else {
		m.table.Focus()
	}
}

// routeMouse hands the event to the widget under the pointer. While a
// gesture is active the recipient follows the pointer across lists.
func (m *Model) routeMouse(msg tea.MouseMsg) tea.Cmd {
	if m.form != nil || m.help {
		return nil
	}
	if r := m.recipientIndex(); r >= 0 {
		if msg.Action == tea.MouseActionMotion {
			for i := range m.lists {
				if i != r && m.lists[i].InBounds(msg) {
					m.moveDrag(r, i-r)
					r = m.recipientIndex()
					break
				}
			}
		}
		if r < 0 {
			return nil
		}
		var cmd tea.Cmd
		m.lists[r], cmd = m.lists[r].Update(msg)
		return cmd
	}
	for i := range m.lists {
		if m.lists[i].InBounds(msg) {
			var cmd tea.Cmd
			m.lists[i], cmd = m.lists[i].Update(msg)
			return cmd
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}
