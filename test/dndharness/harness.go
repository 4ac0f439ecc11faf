// Package dndharness drives a full board with scripted gestures over a real
// on-disk store, then verifies that what the widgets show matches what
// sqlite holds. The verification connection uses a different driver than
// the store so a driver quirk cannot hide a divergence.
package dndharness

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"github.com/marcus/dropkit/internal/board"
	"github.com/marcus/dropkit/internal/config"
	"github.com/marcus/dropkit/internal/store"
	"github.com/marcus/dropkit/pkg/droplist"
)

// Harness owns one board, its store, and an independent read connection.
type Harness struct {
	t      *testing.T
	Store  *store.Store
	Board  board.Model
	verify *sql.DB
}

// New builds a harness with the default backlog and today lists, sized and
// focused like a freshly opened board.
func New(t *testing.T) *Harness {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.db")
	st, err := store.Initialize(path)
	if err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	for i, l := range []struct{ id, title string }{
		{"backlog", "Backlog"},
		{"today", "Today"},
	} {
		if err := st.EnsureList(l.id, l.title, i); err != nil {
			t.Fatalf("ensure list %s: %v", l.id, err)
		}
	}

	verify, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open verify db: %v", err)
	}
	t.Cleanup(func() { verify.Close() })

	h := &Harness{t: t, Store: st, verify: verify}
	return h
}

// Seed adds a task directly to the store. Call before Open.
func (h *Harness) Seed(list, name, notes string) store.Task {
	h.t.Helper()
	task, err := h.Store.CreateTask(list, name, notes)
	if err != nil {
		h.t.Fatalf("seed task %q: %v", name, err)
	}
	return task
}

// Open builds the board over the seeded store.
func (h *Harness) Open() {
	h.t.Helper()

	var cfg config.Config
	cfg.Drag.Types = []string{"text/plain", "application/x-dropkit-task"}
	cfg.Drag.Operations = []string{"move"}

	m, err := board.New(h.Store, cfg)
	if err != nil {
		h.t.Fatalf("build board: %v", err)
	}
	h.Board = m
	h.apply(tea.WindowSizeMsg{Width: 100, Height: 30})
}

// Press plays a key script against the board, delivering every produced
// message the way the bubbletea runtime would.
func (h *Harness) Press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.apply(keyMsg(k))
	}
}

func (h *Harness) apply(msg tea.Msg) {
	model, cmd := h.Board.Update(msg)
	h.Board = model.(board.Model)
	for _, out := range drain(cmd) {
		h.apply(out)
	}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// storedTasks reads a list's tasks through the verification connection.
func (h *Harness) storedTasks(list string) (ids, names []string) {
	h.t.Helper()
	rows, err := h.verify.Query(
		`SELECT id, name FROM tasks WHERE list = ? ORDER BY position, created_at`, list)
	if err != nil {
		h.t.Fatalf("query tasks for %s: %v", list, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			h.t.Fatalf("scan task: %v", err)
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		h.t.Fatalf("iterate tasks: %v", err)
	}
	return ids, names
}

// Names returns a list's stored task names in position order.
func (h *Harness) Names(list string) string {
	h.t.Helper()
	_, names := h.storedTasks(list)
	return strings.Join(names, " ")
}

// List returns the widget for a list id.
func (h *Harness) List(id string) droplist.Model {
	h.t.Helper()
	for _, l := range h.Board.Lists() {
		if l.ID() == id {
			return l
		}
	}
	h.t.Fatalf("no list %q on the board", id)
	return droplist.Model{}
}

// AssertConverged checks every list widget against the database: same ids,
// same order, no gesture left open.
func (h *Harness) AssertConverged() {
	h.t.Helper()

	total := 0
	for _, l := range h.Board.Lists() {
		if l.IsRecipient() {
			h.t.Errorf("list %s still has an open gesture", l.ID())
		}
		storedIDs, _ := h.storedTasks(l.ID())
		total += len(storedIDs)

		keys := l.Collection().Keys()
		widgetIDs := make([]string, len(keys))
		for i, k := range keys {
			widgetIDs[i] = string(k)
		}
		if got, want := strings.Join(widgetIDs, ","), strings.Join(storedIDs, ","); got != want {
			h.t.Errorf("list %s diverged:\n  widget: %s\n  stored: %s", l.ID(), got, want)
		}
	}

	if rows := h.Board.Table().Rows(); len(rows) != total {
		h.t.Errorf("table shows %d rows, store holds %d tasks", len(rows), total)
	}
}

// Describe returns a one-line summary of the board's lists, for failure
// messages.
func (h *Harness) Describe() string {
	parts := make([]string, 0, 2)
	for _, l := range h.Board.Lists() {
		parts = append(parts, fmt.Sprintf("%s=[%s]", l.ID(), h.Names(l.ID())))
	}
	return strings.Join(parts, " ")
}
