package droplist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/dnd"
)

// itemSource adapts collection items to fuzzy matching over their titles.
type itemSource []collection.Item

func (s itemSource) String(i int) string {
	if it, ok := s[i].(Item); ok {
		return it.Title()
	}
	return string(s[i].Key())
}

func (s itemSource) Len() int { return len(s) }

// visibleKeys returns the keys shown right now: collection order, or fuzzy
// match rank while a filter query is set.
func (m Model) visibleKeys() []collection.Key {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		return m.col.Keys()
	}
	items := m.col.Items()
	matches := fuzzy.FindFrom(query, itemSource(items))
	out := make([]collection.Key, 0, len(matches))
	for _, match := range matches {
		out = append(out, items[match.Index].Key())
	}
	return out
}

func (m Model) cursorKey() (collection.Key, bool) {
	keys := m.visibleKeys()
	if m.cursor < 0 || m.cursor >= len(keys) {
		return "", false
	}
	return keys[m.cursor], true
}

// Update handles bubbletea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.filtering {
			cmd := m.updateFilter(msg)
			return m, cmd
		}
		if m.session != nil {
			cmd := m.handleDragKey(msg)
			return m, cmd
		}
		cmd := m.handleKey(msg)
		return m, cmd
	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.clearFilter()
		return nil
	case key.Matches(msg, m.keys.Accept):
		m.filtering = false
		m.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.offset = 0
	return cmd
}

func (m *Model) clearFilter() {
	m.filter.SetValue("")
	m.filter.Blur()
	m.filtering = false
	m.cursor = 0
	m.offset = 0
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visibleKeys()) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Select):
		if k, ok := m.cursorKey(); ok {
			m.sel.Toggle(k)
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.sel.SelectAll()
	case key.Matches(msg, m.keys.ExtendUp):
		m.moveCursor(-1)
		if k, ok := m.cursorKey(); ok {
			m.sel.Extend(k)
		}
	case key.Matches(msg, m.keys.ExtendDn):
		m.moveCursor(1)
		if k, ok := m.cursorKey(); ok {
			m.sel.Extend(k)
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m.filter.Focus()
	case key.Matches(msg, m.keys.Drag):
		if k, ok := m.cursorKey(); ok {
			return m.startDragFrom(k)
		}
	case key.Matches(msg, m.keys.Accept):
		if k, ok := m.cursorKey(); ok {
			id := m.id
			return func() tea.Msg { return ActivatedMsg{ListID: id, Key: k} }
		}
	case key.Matches(msg, m.keys.Cancel):
		if !m.sel.IsEmpty() {
			m.sel.Clear()
		}
	}
	return nil
}

func (m *Model) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.retarget(false)
	case key.Matches(msg, m.keys.Down):
		m.retarget(true)
	case key.Matches(msg, m.keys.Accept):
		return m.completeDrop()
	case key.Matches(msg, m.keys.Cancel):
		return m.cancelDrag()
	}
	return nil
}

func (m *Model) retarget(forward bool) {
	var t *dnd.DropTarget
	if forward {
		t = m.drop.NextTarget(m.session, m.drop.Target())
	} else {
		t = m.drop.PrevTarget(m.session, m.drop.Target())
	}
	if t != nil {
		m.drop.SetTarget(t)
		m.ensureTargetVisible()
	}
}

func (m *Model) moveCursor(delta int) {
	keys := m.visibleKeys()
	m.cursor += delta
	if m.cursor >= len(keys) {
		m.cursor = len(keys) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// listHeight is the number of item rows in the current frame: total height
// minus title, status, the filter line when shown, and the drop-zone line
// while a gesture targets this list.
func (m Model) listHeight() int {
	h := m.height - 2
	if m.filterVisible() {
		h--
	}
	if m.session != nil {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) filterVisible() bool {
	return m.filtering || m.filter.Value() != ""
}

func (m *Model) ensureCursorVisible() {
	m.scrollTo(m.cursor)
}

func (m *Model) ensureTargetVisible() {
	t := m.drop.Target()
	if t == nil || t.Type != dnd.TargetItem {
		return
	}
	for i, k := range m.visibleKeys() {
		if k == t.Key {
			m.scrollTo(i)
			return
		}
	}
}

func (m *Model) scrollTo(row int) {
	visible := m.listHeight()
	if row < m.offset {
		m.offset = row
	} else if row >= m.offset+visible {
		m.offset = row - visible + 1
	}
	maxOffset := len(m.visibleKeys()) - visible
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

// startDragFrom begins a gesture at k. An active filter is cleared first;
// reordering a partial view would be misleading.
func (m *Model) startDragFrom(k collection.Key) tea.Cmd {
	if m.filterVisible() {
		m.clearFilter()
	}
	sess := m.src.Start(k)
	m.session = sess
	t := m.drop.NextTarget(sess, dnd.ItemTarget(k, dnd.PositionOn))
	m.drop.SetTarget(t)
	m.ensureTargetVisible()
	id := m.id
	return func() tea.Msg { return DragStartedMsg{ListID: id, Session: sess} }
}

// EnterDrag makes this list the recipient of an active session, targeting
// the first position that accepts it. Returns false (and stays idle) when
// nothing in this list accepts the session.
func (m *Model) EnterDrag(sess *dnd.Session) bool {
	t := m.drop.NextTarget(sess, nil)
	if t == nil {
		return false
	}
	m.session = sess
	m.drop.SetTarget(t)
	m.ensureTargetVisible()
	return true
}

// LeaveDrag stops targeting this list without finishing the gesture. The
// session stays alive; the host is moving it to another list.
func (m *Model) LeaveDrag() {
	m.drop.SetTarget(nil)
	m.session = nil
}

// FinishDrag settles the source side of a gesture that completed in
// another list.
func (m *Model) FinishDrag(op dnd.DropOperation, internal bool) {
	m.src.End(op, internal)
	m.afterMutation()
}

func (m *Model) completeDrop() tea.Cmd {
	sess := m.session
	if sess == nil {
		return nil
	}
	op := m.drop.CompleteDrop(sess)
	internal := sess.InternalTo(m.col)
	if m.src.Session() == sess {
		m.src.End(op, internal)
	}
	m.session = nil
	m.afterMutation()

	id := m.id
	if op == dnd.OperationCancel {
		return func() tea.Msg { return DragCancelledMsg{ListID: id} }
	}
	return tea.Batch(
		func() tea.Msg { return DroppedMsg{ListID: id, Operation: op, Internal: internal} },
		func() tea.Msg { return ChangedMsg{ListID: id} },
	)
}

func (m *Model) cancelDrag() tea.Cmd {
	sess := m.session
	m.drop.SetTarget(nil)
	m.session = nil
	if sess != nil && m.src.Session() == sess {
		m.src.Cancel()
	}
	m.afterMutation()
	id := m.id
	return func() tea.Msg { return DragCancelledMsg{ListID: id} }
}

// afterMutation reconciles dependent state with the collection: selection
// and drop targets drop stale keys, the cursor clamps back into range.
func (m *Model) afterMutation() {
	m.sel.CollectionChanged()
	m.drop.CollectionChanged()
	if n := len(m.visibleKeys()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m Model) zone(suffix string) string {
	return m.zonePrefix + suffix
}

func (m Model) itemZone(k collection.Key) string {
	return m.zonePrefix + "item:" + string(k)
}

// InBounds reports whether the pointer event falls inside this widget's
// last rendered frame. Hosts use it to route cross-list pointer drags.
func (m Model) InBounds(msg tea.MouseMsg) bool {
	return m.zones != nil && m.zones.Get(m.zone("all")).InBounds(msg)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.zones == nil {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if !m.InBounds(msg) {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
		case tea.MouseButtonLeft:
			for i, k := range m.visibleKeys() {
				if m.zones.Get(m.itemZone(k)).InBounds(msg) {
					m.cursor = i
					m.ensureCursorVisible()
					m.pressed = true
					m.pressedKey = k
					return nil
				}
			}
		}
	case tea.MouseActionMotion:
		if m.pressed && m.session == nil {
			m.pressed = false
			cmd := m.startDragFrom(m.pressedKey)
			m.PointerOver(msg)
			return cmd
		}
		if m.session != nil {
			m.PointerOver(msg)
		}
	case tea.MouseActionRelease:
		wasPressed := m.pressed
		m.pressed = false
		if m.session != nil {
			return m.completeDrop()
		}
		if wasPressed {
			if k, ok := m.cursorKey(); ok {
				switch {
				case msg.Ctrl:
					m.sel.Toggle(k)
				case msg.Shift:
					m.sel.Extend(k)
				default:
					m.sel.Select(k)
				}
			}
		}
	}
	return nil
}

// PointerOver retargets an active gesture from a pointer position: the
// hovered item is tried as an on-target first, then as its upper boundary;
// the area below the items maps to the trailing boundary, then the root.
func (m *Model) PointerOver(msg tea.MouseMsg) {
	if m.zones == nil || m.session == nil {
		return
	}
	for _, k := range m.visibleKeys() {
		if m.zones.Get(m.itemZone(k)).InBounds(msg) {
			m.setFirstValid(
				dnd.ItemTarget(k, dnd.PositionOn),
				dnd.ItemTarget(k, dnd.PositionBefore),
			)
			return
		}
	}
	if m.zones.Get(m.zone("tail")).InBounds(msg) {
		var cands []*dnd.DropTarget
		if last, ok := m.col.LastKey(); ok {
			cands = append(cands, dnd.ItemTarget(last, dnd.PositionAfter))
		}
		cands = append(cands, dnd.RootTarget())
		m.setFirstValid(cands...)
	}
}

func (m *Model) setFirstValid(cands ...*dnd.DropTarget) {
	for _, t := range cands {
		if m.drop.DropOperationFor(m.session, t) != dnd.OperationCancel {
			m.drop.SetTarget(t)
			return
		}
	}
	m.drop.SetTarget(nil)
}

func (m *Model) scrollBy(delta int) {
	m.offset += delta
	maxOffset := len(m.visibleKeys()) - m.listHeight()
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
