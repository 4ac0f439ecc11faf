// Package droplist provides a reorderable, droppable list widget for
// bubbletea programs. It wires an ordered collection, its selection
// manager, and drag-and-drop state into one component: items can be
// reordered in place, dragged out to other lists, and external payloads can
// be dropped in. Gestures are keyboard-first; mouse support is available
// through bubblezone.
//
// Cross-list gestures are routed by the hosting program: the widget emits
// DragStartedMsg, DroppedMsg, and DragCancelledMsg, and the host moves the
// active session between lists with EnterDrag/LeaveDrag and settles the
// source side with FinishDrag.
package droplist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	zone "github.com/lrstanley/bubblezone"

	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/dnd"
	"github.com/marcus/dropkit/pkg/selection"
)

// Item is a list entry: a collection item with display text.
type Item interface {
	collection.Item
	Title() string
}

// DragStartedMsg announces that this list began a drag gesture. The host
// routes the session to other lists as the user moves focus.
type DragStartedMsg struct {
	ListID  string
	Session *dnd.Session
}

// DroppedMsg announces a completed drop. Internal reports that the gesture
// started and ended in the same list; otherwise the host must settle the
// origin list with FinishDrag.
type DroppedMsg struct {
	ListID    string
	Operation dnd.DropOperation
	Internal  bool
}

// DragCancelledMsg announces an abandoned gesture.
type DragCancelledMsg struct {
	ListID string
}

// ChangedMsg announces that the list's collection mutated (drop applied,
// dragged items moved out). Hosts persist on it.
type ChangedMsg struct {
	ListID string
}

// ActivatedMsg announces enter on an item outside any gesture.
type ActivatedMsg struct {
	ListID string
	Key    collection.Key
}

// status is shared between the widget value and the dnd callbacks so
// announcements survive bubbletea's value copies.
type status struct {
	text string
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header text. Defaults to the list id.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithSelectionMode sets the selection behavior. Defaults to
// selection.ModeMultiple.
func WithSelectionMode(mode selection.Mode) Option {
	return func(m *Model) { m.selMode = mode }
}

// WithAcceptedTypes restricts which drag payloads this list accepts. The
// default (nil) accepts everything.
func WithAcceptedTypes(types dnd.TypeSet) Option {
	return func(m *Model) { m.accepted = types }
}

// WithAllowedOperations sets the operations drags from this list permit,
// most preferred first. Defaults to move only.
func WithAllowedOperations(ops ...dnd.DropOperation) Option {
	return func(m *Model) { m.allowedOps = ops }
}

// WithPayload sets the serializer for dragged keys. The default writes
// each item's title under "text/plain".
func WithPayload(fn func(keys []collection.Key) []dnd.PayloadItem) Option {
	return func(m *Model) { m.payload = fn }
}

// WithItemFactory enables external drops: fn materializes a list item from
// one payload item, or reports false to skip it. Without a factory the
// list only accepts its own reorders.
func WithItemFactory(fn func(dnd.PayloadItem) (Item, bool)) Option {
	return func(m *Model) { m.factory = fn }
}

// WithOnItemDrop enables drops onto items ("on" position) and handles them.
func WithOnItemDrop(fn func(dnd.ItemDropEvent)) Option {
	return func(m *Model) { m.onItemDrop = fn }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithStyles replaces the default styles.
func WithStyles(st Styles) Option {
	return func(m *Model) { m.styles = st }
}

// WithZones enables mouse support through the given bubblezone manager.
// The hosting program must scan its final frame with the same manager.
func WithZones(z *zone.Manager) Option {
	return func(m *Model) {
		m.zones = z
		m.zonePrefix = z.NewPrefix()
	}
}

// Model is the droplist widget. Hold it by value in the parent model;
// methods with pointer receivers are for the host's routing calls and
// mutate in place.
type Model struct {
	id    string
	title string

	col  *collection.List
	sel  *selection.Manager
	src  *dnd.SourceState
	drop *dnd.CollectionState

	keys   KeyMap
	styles Styles
	notes  *status

	selMode    selection.Mode
	accepted   dnd.TypeSet
	allowedOps []dnd.DropOperation
	payload    func([]collection.Key) []dnd.PayloadItem
	factory    func(dnd.PayloadItem) (Item, bool)
	onItemDrop func(dnd.ItemDropEvent)

	filter    textinput.Model
	filtering bool

	zones      *zone.Manager
	zonePrefix string
	pressed    bool
	pressedKey collection.Key

	// session is non-nil while this list is the recipient of a gesture;
	// the session may have originated in another list.
	session *dnd.Session

	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// New builds a droplist over col. The id names the list in messages and
// announcements and must be unique within the program.
func New(id string, col *collection.List, opts ...Option) Model {
	m := Model{
		id:      id,
		title:   id,
		col:     col,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		notes:   &status{},
		selMode: selection.ModeMultiple,
		width:   30,
		height:  12,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.sel = selection.NewManager(col, m.selMode)
	m.filter = textinput.New()
	m.filter.Prompt = "/"
	m.filter.Placeholder = "filter"

	if m.payload == nil {
		m.payload = m.defaultPayload
	}
	if len(m.allowedOps) == 0 {
		m.allowedOps = []dnd.DropOperation{dnd.OperationMove}
	}

	notes := m.notes
	m.src = dnd.NewSourceState(col, m.sel, dnd.SourceOptions{
		Payload:           m.payload,
		AllowedOperations: m.allowedOps,
		OnDragStart: func(e dnd.DragStartEvent) {
			notes.text = fmt.Sprintf("dragging %s", countNoun(len(e.Keys)))
		},
		OnDragEnd: sourceEndHandler(id, col, notes),
	})

	dropOpts := dnd.CollectionOptions{
		AcceptedTypes: m.accepted,
		OnReorder:     reorderHandler(col, notes),
		OnDropEnter: func(e dnd.TargetEvent) {
			notes.text = fmt.Sprintf("over %s", e.Target)
		},
	}
	if m.factory != nil {
		dropOpts.OnInsert = insertHandler(col, m.factory, notes)
		dropOpts.OnRootDrop = rootDropHandler(col, m.factory, notes)
	}
	if m.onItemDrop != nil {
		onItem := m.onItemDrop
		dropOpts.OnItemDrop = func(e dnd.ItemDropEvent) {
			onItem(e)
			notes.text = fmt.Sprintf("dropped %s on %s", countNoun(len(e.Items)), e.Target.Key)
		}
	}
	m.drop = dnd.NewCollectionState(col, m.sel, dropOpts)
	return m
}

func (m Model) defaultPayload(keys []collection.Key) []dnd.PayloadItem {
	items := make([]dnd.PayloadItem, 0, len(keys))
	for _, k := range keys {
		title := string(k)
		if it, ok := m.col.Item(k); ok {
			if li, ok := it.(Item); ok {
				title = li.Title()
			}
		}
		items = append(items, dnd.PayloadItem{"text/plain": title})
	}
	return items
}

// reorderHandler moves this list's own items around the target boundary.
func reorderHandler(col *collection.List, notes *status) func(dnd.ReorderEvent) {
	return func(e dnd.ReorderEvent) {
		if e.Target.Position == dnd.PositionBefore {
			col.MoveBefore(e.Target.Key, e.Keys)
		} else {
			col.MoveAfter(e.Target.Key, e.Keys)
		}
		notes.text = fmt.Sprintf("moved %s %s", countNoun(len(e.Keys)), e.Target)
	}
}

// insertHandler materializes external payloads next to the target item.
func insertHandler(col *collection.List, factory func(dnd.PayloadItem) (Item, bool), notes *status) func(dnd.InsertEvent) {
	return func(e dnd.InsertEvent) {
		items := materialize(e.Items, factory)
		if len(items) == 0 {
			return
		}
		if e.Target.Position == dnd.PositionBefore {
			col.InsertBefore(e.Target.Key, items...)
		} else {
			col.InsertAfter(e.Target.Key, items...)
		}
		notes.text = fmt.Sprintf("inserted %s %s", countNoun(len(items)), e.Target)
	}
}

// rootDropHandler appends external payloads at the end of the list.
func rootDropHandler(col *collection.List, factory func(dnd.PayloadItem) (Item, bool), notes *status) func(dnd.RootDropEvent) {
	return func(e dnd.RootDropEvent) {
		items := materialize(e.Items, factory)
		if len(items) == 0 {
			return
		}
		col.Append(items...)
		notes.text = fmt.Sprintf("added %s", countNoun(len(items)))
	}
}

// sourceEndHandler settles the source side of a finished gesture: a move
// that landed elsewhere removes the dragged items here.
func sourceEndHandler(id string, col *collection.List, notes *status) func(dnd.DragEndEvent) {
	return func(e dnd.DragEndEvent) {
		switch {
		case e.Operation == dnd.OperationCancel:
			notes.text = "drag cancelled"
		case e.Operation == dnd.OperationMove && !e.Internal:
			col.Remove(e.Keys...)
			notes.text = fmt.Sprintf("moved %s out of %s", countNoun(len(e.Keys)), id)
		}
	}
}

func materialize(payload []dnd.PayloadItem, factory func(dnd.PayloadItem) (Item, bool)) []collection.Item {
	items := make([]collection.Item, 0, len(payload))
	for _, p := range payload {
		if it, ok := factory(p); ok {
			items = append(items, it)
		}
	}
	return items
}

func countNoun(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// ID returns the list's identifier.
func (m Model) ID() string { return m.id }

// Title returns the header text.
func (m Model) Title() string { return m.title }

// Collection exposes the backing list.
func (m Model) Collection() *collection.List { return m.col }

// Selection exposes the selection manager.
func (m Model) Selection() *selection.Manager { return m.sel }

// DropState exposes the drop-target state machine.
func (m Model) DropState() *dnd.CollectionState { return m.drop }

// Session returns the drag session this list originated, if any.
func (m Model) Session() *dnd.Session { return m.src.Session() }

// IsRecipient reports whether an active gesture is currently targeting
// this list.
func (m Model) IsRecipient() bool { return m.session != nil }

// Announcement returns the latest gesture status line, the terminal analog
// of a screen-reader live region.
func (m Model) Announcement() string { return m.notes.text }

// Filtering reports whether the filter input is capturing keystrokes. Hosts
// route keys straight to the list while it is.
func (m Model) Filtering() bool { return m.filtering }

// CursorKey returns the key under the cursor.
func (m Model) CursorKey() (collection.Key, bool) { return m.cursorKey() }

// Focus directs key input to this list.
func (m *Model) Focus() { m.focused = true }

// Blur stops this list from handling key input.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the list handles key input.
func (m Model) Focused() bool { return m.focused }

// SetSize sets the widget's outer dimensions in cells.
func (m *Model) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}
