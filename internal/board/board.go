// Package board is the interactive demo: task lists wired for drag and
// drop side by side, a resizable table of every task underneath, and a
// sqlite store keeping it all across runs.
package board

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/dropkit/internal/config"
	"github.com/marcus/dropkit/internal/store"
	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/dnd"
	"github.com/marcus/dropkit/pkg/droplist"
	"github.com/marcus/dropkit/pkg/table"
)

// taskMediaType carries task ids between lists so in-app moves keep the
// original row instead of minting a copy.
const taskMediaType = "application/x-dropkit-task"

var defaultLists = []struct{ id, title string }{
	{"backlog", "Backlog"},
	{"today", "Today"},
}

// timeNow is swapped out by tests that exercise key throttling.
var timeNow = time.Now

// KeyMap holds the board-level bindings; the widgets carry their own.
type KeyMap struct {
	NextPane  key.Binding
	PrevPane  key.Binding
	NewTask   key.Binding
	Yank      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	DragLeft  key.Binding
	DragRight key.Binding
}

// DefaultKeyMap returns the standard board bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		NewTask:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Yank:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy tasks")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		DragLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "drag left")),
		DragRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "drag right")),
	}
}

// note is shared with widget callbacks so status text survives bubbletea's
// value copies.
type note struct {
	text string
}

// Model is the root bubbletea model.
type Model struct {
	store *store.Store
	cfg   config.Config
	keys  KeyMap
	zones *zone.Manager
	notes *note

	lists []droplist.Model
	table table.Model

	// focus indexes lists; len(lists) means the table.
	focus int

	// session and origin track the gesture currently routed between lists.
	session *dnd.Session
	origin  string

	form     *huh.Form
	help     bool
	helpText string

	lastDragKey time.Time

	width  int
	height int
}

// New loads the saved lists from st and builds the board. cfg decides
// payload types, allowed operations, and input behavior.
func New(st *store.Store, cfg config.Config) (Model, error) {
	infos, err := ensureLists(st)
	if err != nil {
		return Model{}, err
	}

	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	tasks, err := st.LoadBoard(ids...)
	if err != nil {
		return Model{}, err
	}

	cols := make(map[string]*collection.List, len(infos))
	for _, info := range infos {
		col := collection.NewList()
		for _, task := range tasks[info.ID] {
			col.Append(task)
		}
		cols[info.ID] = col
	}

	m := Model{
		store: st,
		cfg:   cfg,
		keys:  DefaultKeyMap(),
		zones: zone.New(),
		notes: &note{},
	}

	for _, info := range infos {
		col := cols[info.ID]
		m.lists = append(m.lists, droplist.New(info.ID, col,
			droplist.WithTitle(info.Title),
			droplist.WithAcceptedTypes(cfg.Drag.TypeSet()),
			droplist.WithAllowedOperations(cfg.Drag.DropOperations()...),
			droplist.WithZones(m.zones),
			droplist.WithPayload(taskPayload(col)),
			droplist.WithItemFactory(taskFactory(st, info.ID, cols)),
		))
	}
	m.lists[0].Focus()

	notes := m.notes
	m.table = table.NewModel(taskColumns(),
		table.WithZones(m.zones),
		table.WithOnResize(func(key string, width int) {
			notes.text = fmt.Sprintf("%s column is now %d wide", key, width)
		}),
	)
	m.refreshTable()
	return m, nil
}

// ensureLists returns the stored lists, seeding the defaults into an empty
// store first.
func ensureLists(st *store.Store) ([]store.ListInfo, error) {
	infos, err := st.Lists()
	if err != nil {
		return nil, err
	}
	if len(infos) > 0 {
		return infos, nil
	}
	for i, l := range defaultLists {
		if err := st.EnsureList(l.id, l.title, i); err != nil {
			return nil, err
		}
	}
	return st.Lists()
}

func taskColumns() *table.ResizeState {
	return table.New([]table.Column{
		{Key: "task", Title: "Task", Flex: 2, MinWidth: 8},
		{Key: "list", Title: "List", DefaultWidth: 10, MinWidth: 6, MaxWidth: 20},
		{Key: "notes", Title: "Notes", Flex: 3, MinWidth: 6},
		{Key: "created", Title: "Created", Width: 10},
	})
}

// taskPayload serializes dragged keys: the task name under text/plain for
// foreign receivers, the id under taskMediaType for our own lists.
func taskPayload(col *collection.List) func([]collection.Key) []dnd.PayloadItem {
	return func(keys []collection.Key) []dnd.PayloadItem {
		items := make([]dnd.PayloadItem, 0, len(keys))
		for _, k := range keys {
			it, ok := col.Item(k)
			if !ok {
				continue
			}
			task, ok := it.(store.Task)
			if !ok {
				continue
			}
			items = append(items, dnd.PayloadItem{
				"text/plain":  task.Name,
				taskMediaType: task.ID,
			})
		}
		return items
	}
}

// taskFactory materializes a dropped payload item for listID. A payload
// carrying one of our task ids resolves to the existing task so moves keep
// the row; plain text mints a new task in the store.
func taskFactory(st *store.Store, listID string, cols map[string]*collection.List) func(dnd.PayloadItem) (droplist.Item, bool) {
	return func(p dnd.PayloadItem) (droplist.Item, bool) {
		if id, ok := p[taskMediaType]; ok && id != "" {
			for _, col := range cols {
				if it, found := col.Item(collection.Key(id)); found {
					if task, isTask := it.(store.Task); isTask {
						return task, true
					}
				}
			}
		}
		name := strings.TrimSpace(p["text/plain"])
		if name == "" {
			return nil, false
		}
		task, err := st.CreateTask(listID, name, "")
		if err != nil {
			return nil, false
		}
		return task, true
	}
}

func (m *Model) refreshTable() {
	tasks, err := m.store.AllTasks()
	if err != nil {
		slog.Error("load tasks", "err", err)
		m.notes.text = "load tasks: " + err.Error()
		return
	}
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{
			t.Name,
			t.List,
			firstLine(t.Notes),
			t.CreatedAt.Format("2006-01-02"),
		})
	}
	m.table.SetRows(rows)
}

// persistList writes the list's current key order back to the store.
func (m *Model) persistList(listID string) {
	i := m.listIndex(listID)
	if i < 0 {
		return
	}
	keys := m.lists[i].Collection().Keys()
	ids := make([]string, len(keys))
	for j, k := range keys {
		ids[j] = string(k)
	}
	if err := m.store.SetList(listID, ids); err != nil {
		slog.Error("save list", "list", listID, "err", err)
		m.notes.text = "save " + listID + ": " + err.Error()
	}
}

func (m *Model) createTask(listID, name, notes string) {
	task, err := m.store.CreateTask(listID, name, notes)
	if err != nil {
		slog.Error("create task", "list", listID, "err", err)
		m.notes.text = "create task: " + err.Error()
		return
	}
	if i := m.listIndex(listID); i >= 0 {
		m.lists[i].Collection().Append(task)
	}
	m.notes.text = fmt.Sprintf("added %q to %s", task.Name, listID)
	m.refreshTable()
}

func (m *Model) showTask(k collection.Key) {
	task, err := m.store.Task(string(k))
	if err != nil {
		m.notes.text = err.Error()
		return
	}
	if line := firstLine(task.Notes); line != "" {
		m.notes.text = task.Name + ": " + line
	} else {
		m.notes.text = task.Name + ": no notes"
	}
}

// Lists returns the list widgets, in pane order.
func (m Model) Lists() []droplist.Model { return m.lists }

// Table returns the table widget.
func (m Model) Table() table.Model { return m.table }

func (m Model) listIndex(id string) int {
	for i := range m.lists {
		if m.lists[i].ID() == id {
			return i
		}
	}
	return -1
}

// recipientIndex returns the list currently targeted by a gesture, or -1.
func (m Model) recipientIndex() int {
	for i := range m.lists {
		if m.lists[i].IsRecipient() {
			return i
		}
	}
	return -1
}

// focusedList returns the focused list index, or -1 when the table has
// focus.
func (m Model) focusedList() int {
	if m.focus < len(m.lists) {
		return m.focus
	}
	return -1
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
