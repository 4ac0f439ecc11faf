package droplist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/dnd"
)

type task struct {
	id    string
	title string
}

func (t task) Key() collection.Key { return collection.Key(t.id) }
func (t task) Title() string       { return t.title }

func testList(id string, titles ...string) Model {
	items := make([]collection.Item, len(titles))
	for i, title := range titles {
		items[i] = task{id: title, title: title}
	}
	m := New(id, collection.NewList(items...))
	m.SetSize(30, 10)
	m.Focus()
	return m
}

// testSink is a list that accepts foreign payloads by minting new tasks
// from the text/plain value.
func testSink(id string, titles ...string) Model {
	items := make([]collection.Item, len(titles))
	for i, title := range titles {
		items[i] = task{id: title, title: title}
	}
	m := New(id, collection.NewList(items...),
		WithItemFactory(func(p dnd.PayloadItem) (Item, bool) {
			title := p["text/plain"]
			if title == "" {
				return nil, false
			}
			return task{id: "new-" + title, title: title}, true
		}),
	)
	m.SetSize(30, 10)
	m.Focus()
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
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

// collect runs a command tree and flattens the produced messages.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func orderOf(m Model) string {
	keys := m.Collection().Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, " ")
}

func targetOf(m Model) string {
	return m.DropState().Target().String()
}

func TestKeyboardReorder(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")

	// Start a drag on the cursor item.
	m, cmd := m.Update(keyMsg("d"))
	msgs := collect(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message on drag start, got %d", len(msgs))
	}
	started, ok := msgs[0].(DragStartedMsg)
	if !ok {
		t.Fatalf("expected DragStartedMsg, got %T", msgs[0])
	}
	if started.ListID != "backlog" || started.Session == nil {
		t.Fatalf("unexpected drag start: %+v", started)
	}
	if !m.IsRecipient() {
		t.Fatal("the source list should start as its own drop recipient")
	}
	// The drag-start announcement is immediately superseded by the first
	// target announcement.
	if got, want := m.Announcement(), "over before beta"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}

	// The first stop is the boundary just past the dragged item.
	if got, want := targetOf(m), "before beta"; got != want {
		t.Fatalf("initial target = %q, want %q", got, want)
	}

	// Moving down skips on-targets because no item-drop handler is set.
	m, _ = m.Update(keyMsg("down"))
	if got, want := targetOf(m), "before gamma"; got != want {
		t.Fatalf("target after down = %q, want %q", got, want)
	}

	m, cmd = m.Update(keyMsg("enter"))
	msgs = collect(t, cmd)
	var dropped *DroppedMsg
	var changed bool
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case DroppedMsg:
			dropped = &msg
		case ChangedMsg:
			changed = true
		}
	}
	if dropped == nil || !changed {
		t.Fatalf("expected DroppedMsg and ChangedMsg, got %#v", msgs)
	}
	if dropped.Operation != dnd.OperationMove || !dropped.Internal {
		t.Fatalf("unexpected drop result: %+v", dropped)
	}

	if got, want := orderOf(m), "beta alpha gamma"; got != want {
		t.Fatalf("order after reorder = %q, want %q", got, want)
	}
	if m.IsRecipient() || m.Session() != nil {
		t.Fatal("gesture state should be fully cleared after the drop")
	}
	if got, want := m.Announcement(), "moved 1 item before gamma"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}
}

func TestKeyboardDragCancel(t *testing.T) {
	m := testList("backlog", "alpha", "beta")

	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("esc"))
	msgs := collect(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message on cancel, got %d", len(msgs))
	}
	if _, ok := msgs[0].(DragCancelledMsg); !ok {
		t.Fatalf("expected DragCancelledMsg, got %T", msgs[0])
	}
	if got, want := orderOf(m), "alpha beta"; got != want {
		t.Fatalf("cancel must not reorder: got %q", got)
	}
	if m.IsRecipient() || m.Session() != nil || m.DropState().Target() != nil {
		t.Fatal("cancel should clear the session and target")
	}
	if got, want := m.Announcement(), "drag cancelled"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}
}

func TestDragCarriesSelection(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")

	// Select alpha, extend to beta, then drag from inside the selection.
	m, _ = m.Update(keyMsg("space"))
	m, _ = m.Update(keyMsg("shift+down"))
	m, _ = m.Update(keyMsg("d"))

	sess := m.Session()
	if sess == nil {
		t.Fatal("drag did not start")
	}
	keys := sess.Keys()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Fatalf("dragged keys = %v, want [alpha beta]", keys)
	}

	// Land both items after gamma.
	m, _ = m.Update(keyMsg("down"))
	if got, want := targetOf(m), "after gamma"; got != want {
		t.Fatalf("target = %q, want %q", got, want)
	}
	m, _ = m.Update(keyMsg("enter"))
	if got, want := orderOf(m), "gamma alpha beta"; got != want {
		t.Fatalf("order = %q, want %q", got, want)
	}
	if got, want := m.Announcement(), "moved 2 items after gamma"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}
}

func TestCrossListMove(t *testing.T) {
	src := testList("backlog", "alpha", "beta")
	dst := testSink("today", "omega")

	// Pick up alpha in the source list.
	src, _ = src.Update(keyMsg("d"))
	sess := src.Session()
	if sess == nil {
		t.Fatal("drag did not start")
	}

	// The host hands the session across.
	src.LeaveDrag()
	if src.IsRecipient() {
		t.Fatal("source should no longer be the recipient")
	}
	if !dst.EnterDrag(sess) {
		t.Fatal("today should accept a text/plain drag")
	}
	if got := dst.DropState().Target(); !got.IsRoot() {
		t.Fatalf("first external target = %v, want root", got)
	}

	// Step to the boundary before omega and drop.
	dst, _ = dst.Update(keyMsg("down"))
	if got, want := targetOf(dst), "before omega"; got != want {
		t.Fatalf("target = %q, want %q", got, want)
	}
	dst, cmd := dst.Update(keyMsg("enter"))
	var dropped *DroppedMsg
	for _, msg := range collect(t, cmd) {
		if d, ok := msg.(DroppedMsg); ok {
			dropped = &d
		}
	}
	if dropped == nil {
		t.Fatal("expected a DroppedMsg")
	}
	if dropped.ListID != "today" || dropped.Operation != dnd.OperationMove || dropped.Internal {
		t.Fatalf("unexpected drop result: %+v", dropped)
	}
	if got, want := orderOf(dst), "new-alpha omega"; got != want {
		t.Fatalf("destination order = %q, want %q", got, want)
	}

	// The host settles the source: a move that landed elsewhere removes
	// the dragged items.
	src.FinishDrag(dropped.Operation, dropped.Internal)
	if got, want := orderOf(src), "beta"; got != want {
		t.Fatalf("source order = %q, want %q", got, want)
	}
	if got, want := src.Announcement(), "moved 1 item out of backlog"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}
}

func TestExternalDropAtRoot(t *testing.T) {
	dst := testSink("inbox", "existing")

	sess := dnd.ExternalSession(
		[]dnd.PayloadItem{{"text/plain": "note"}},
		[]dnd.DropOperation{dnd.OperationCopy},
	)
	if !dst.EnterDrag(sess) {
		t.Fatal("inbox should accept the payload")
	}
	dst, cmd := dst.Update(keyMsg("enter"))
	var dropped *DroppedMsg
	for _, msg := range collect(t, cmd) {
		if d, ok := msg.(DroppedMsg); ok {
			dropped = &d
		}
	}
	if dropped == nil || dropped.Operation != dnd.OperationCopy || dropped.Internal {
		t.Fatalf("unexpected drop result: %+v", dropped)
	}
	if got, want := orderOf(dst), "existing new-note"; got != want {
		t.Fatalf("order = %q, want %q", got, want)
	}
	if got, want := dst.Announcement(), "added 1 item"; got != want {
		t.Fatalf("announcement = %q, want %q", got, want)
	}
}

func TestEnterDragRejectsUnacceptedTypes(t *testing.T) {
	dst := New("files", collection.NewList(task{id: "x", title: "x"}),
		WithAcceptedTypes(dnd.NewTypeSet("application/x-file")),
		WithItemFactory(func(p dnd.PayloadItem) (Item, bool) {
			return task{id: p["application/x-file"], title: p["application/x-file"]}, true
		}),
	)
	sess := dnd.ExternalSession(
		[]dnd.PayloadItem{{"text/plain": "note"}},
		[]dnd.DropOperation{dnd.OperationCopy},
	)
	if dst.EnterDrag(sess) {
		t.Fatal("a text/plain drag must not enter a files-only list")
	}
	if dst.IsRecipient() || dst.DropState().Target() != nil {
		t.Fatal("a rejected enter should leave the list idle")
	}
}

func TestFilterNarrowsAndClears(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "ga" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := m.visibleKeys(); len(got) != 1 || got[0] != "gamma" {
		t.Fatalf("visible = %v, want [gamma]", got)
	}

	// Enter keeps the query but leaves typing mode.
	m, _ = m.Update(keyMsg("enter"))
	if m.filtering {
		t.Fatal("enter should leave filter typing mode")
	}
	if got := m.visibleKeys(); len(got) != 1 {
		t.Fatalf("query should persist after enter, visible = %v", got)
	}

	// Re-entering the filter and pressing esc clears it.
	m, _ = m.Update(keyMsg("/"))
	m, _ = m.Update(keyMsg("esc"))
	if got := m.visibleKeys(); len(got) != 3 {
		t.Fatalf("visible after clear = %v, want all three", got)
	}
	if m.filter.Value() != "" {
		t.Fatalf("filter query should be empty, got %q", m.filter.Value())
	}
}

func TestDragClearsActiveFilter(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "be" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(keyMsg("enter"))
	if got := m.visibleKeys(); len(got) != 1 || got[0] != "beta" {
		t.Fatalf("visible = %v, want [beta]", got)
	}

	// Reordering a filtered view would mislead, so the drag clears it.
	m, _ = m.Update(keyMsg("d"))
	if got := m.visibleKeys(); len(got) != 3 {
		t.Fatalf("drag should clear the filter, visible = %v", got)
	}
	if sess := m.Session(); sess == nil || len(sess.Keys()) != 1 || sess.Keys()[0] != "beta" {
		t.Fatal("drag should still pick up the item under the cursor")
	}
}

func TestSelectionKeys(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")

	m, _ = m.Update(keyMsg("space"))
	if !m.Selection().IsSelected("alpha") {
		t.Fatal("space should toggle the cursor item")
	}

	m, _ = m.Update(keyMsg("shift+down"))
	keys := m.Selection().SelectedKeys()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Fatalf("selection = %v, want [alpha beta]", keys)
	}

	m, _ = m.Update(keyMsg("a"))
	if got := m.Selection().Count(); got != 3 {
		t.Fatalf("select all = %d items, want 3", got)
	}

	m, _ = m.Update(keyMsg("esc"))
	if !m.Selection().IsEmpty() {
		t.Fatal("esc should clear the selection")
	}
}

func TestActivateEmitsMsg(t *testing.T) {
	m := testList("backlog", "alpha", "beta")

	m, _ = m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))
	msgs := collect(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	activated, ok := msgs[0].(ActivatedMsg)
	if !ok {
		t.Fatalf("expected ActivatedMsg, got %T", msgs[0])
	}
	if activated.ListID != "backlog" || activated.Key != "beta" {
		t.Fatalf("unexpected activation: %+v", activated)
	}
}

func TestBlurredIgnoresKeys(t *testing.T) {
	m := testList("backlog", "alpha", "beta")
	m.Blur()

	m, cmd := m.Update(keyMsg("d"))
	if cmd != nil || m.Session() != nil {
		t.Fatal("a blurred list must ignore key input")
	}
}

func TestMouseIgnoredWithoutZones(t *testing.T) {
	m := testList("backlog", "alpha")

	_, cmd := m.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Fatal("mouse input without a zone manager should be a no-op")
	}
	if m.InBounds(tea.MouseMsg{X: 1, Y: 1}) {
		t.Fatal("InBounds without zones must be false")
	}
}

func TestViewLayout(t *testing.T) {
	m := testList("backlog", "alpha", "beta", "gamma")
	m.SetSize(24, 7)

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 7 {
		t.Fatalf("view has %d lines, want 7\n%s", len(lines), view)
	}
	if !strings.Contains(lines[0], "backlog (3)") {
		t.Fatalf("title line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "❯ alpha") {
		t.Fatalf("cursor line = %q", lines[1])
	}

	// The status line reports the selection.
	m, _ = m.Update(keyMsg("space"))
	view = m.View()
	lines = strings.Split(view, "\n")
	if !strings.Contains(lines[len(lines)-1], "1 selected") {
		t.Fatalf("status line = %q", lines[len(lines)-1])
	}

	// During a drag the frame keeps its height and shows the insertion
	// marker plus the trailing drop zone.
	m, _ = m.Update(keyMsg("d"))
	view = m.View()
	lines = strings.Split(view, "\n")
	if len(lines) != 7 {
		t.Fatalf("drag view has %d lines, want 7\n%s", len(lines), view)
	}
	if !strings.Contains(view, "▲ beta") {
		t.Fatalf("expected insertion marker before beta:\n%s", view)
	}
	if !strings.Contains(view, "drop at end") {
		t.Fatalf("expected the trailing drop zone:\n%s", view)
	}
}
