package board

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// openForm builds the new-task form. The focused list sorts first so it is
// the preselected destination.
func (m *Model) openForm() tea.Cmd {
	focused := m.focusedList()
	if focused < 0 {
		focused = 0
	}
	opts := make([]huh.Option[string], 0, len(m.lists))
	for off := 0; off < len(m.lists); off++ {
		l := m.lists[(focused+off)%len(m.lists)]
		opts = append(opts, huh.NewOption(l.Title(), l.ID()))
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("name").
			Title("Task").
			Placeholder("what needs doing").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("every task needs a name")
				}
				return nil
			}),
		huh.NewText().
			Key("notes").
			Title("Notes").
			Lines(3),
		huh.NewSelect[string]().
			Key("list").
			Title("List").
			Options(opts...),
	)).WithWidth(formWidth(m.width))
	return m.form.Init()
}

// formWidth sizes the form against the window, within sane bounds.
func formWidth(w int) int {
	fw := w * 60 / 100
	if fw < 40 {
		fw = 40
	}
	if fw > 72 {
		fw = 72
	}
	return fw
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		name := strings.TrimSpace(m.form.GetString("name"))
		notes := strings.TrimSpace(m.form.GetString("notes"))
		list := m.form.GetString("list")
		m.form = nil
		if name != "" && m.listIndex(list) >= 0 {
			m.createTask(list, name, notes)
		}
	case huh.StateAborted:
		m.form = nil
	}
	return cmd
}
