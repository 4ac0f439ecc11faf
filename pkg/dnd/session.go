package dnd

import (
	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/selection"
)

// Session is the context of one drag gesture. It is created when the
// gesture starts, threaded through every resolution and completion call,
// and discarded when the gesture ends. There is no process-wide drag state:
// two collections dragging at once cannot observe each other's sessions.
//
// A session remembers which collection it started from. Droppable state
// over the same collection value sees the drag as internal; everything else
// sees it as external. Collections are compared by identity, so the source
// and droppable sides must share the same collection value (a *List
// pointer, in practice).
type Session struct {
	source  collection.Ordered
	keys    []collection.Key
	keySet  map[collection.Key]bool
	items   []PayloadItem
	types   TypeSet
	allowed []DropOperation
}

// NewSession creates the session for a gesture starting in source. keys are
// the dragged item keys in display order; items carry the serialized
// payload (one entry per dragged item, by convention); allowed lists the
// operations the source permits, most preferred first.
func NewSession(source collection.Ordered, keys []collection.Key, items []PayloadItem, allowed []DropOperation) *Session {
	s := &Session{
		source:  source,
		keys:    append([]collection.Key(nil), keys...),
		keySet:  make(map[collection.Key]bool, len(keys)),
		items:   append([]PayloadItem(nil), items...),
		allowed: append([]DropOperation(nil), allowed...),
		types:   make(TypeSet),
	}
	for _, k := range s.keys {
		s.keySet[k] = true
	}
	for _, it := range items {
		for t := range it {
			s.types[t] = true
		}
	}
	return s
}

// ExternalSession creates a session for content dragged in from outside any
// collection: no dragged keys, internal nowhere.
func ExternalSession(items []PayloadItem, allowed []DropOperation) *Session {
	return NewSession(nil, nil, items, allowed)
}

// Keys returns the dragged keys in display order. Empty for external drags.
func (s *Session) Keys() []collection.Key {
	return append([]collection.Key(nil), s.keys...)
}

// Dragging reports whether k is one of the dragged keys.
func (s *Session) Dragging(k collection.Key) bool { return s.keySet[k] }

// Items returns the payload items.
func (s *Session) Items() []PayloadItem {
	return append([]PayloadItem(nil), s.items...)
}

// Types returns the union of the payload items' type tags.
func (s *Session) Types() TypeSet { return s.types }

// AllowedOperations returns the source-permitted operations, most preferred
// first.
func (s *Session) AllowedOperations() []DropOperation {
	return append([]DropOperation(nil), s.allowed...)
}

// InternalTo reports whether the gesture started in col.
func (s *Session) InternalTo(col collection.Ordered) bool {
	return s.source != nil && col != nil && s.source == col
}

// DragStartEvent notifies that a gesture started.
type DragStartEvent struct {
	Keys []collection.Key
}

// DragEndEvent notifies that a gesture finished, with the operation that
// was performed (OperationCancel when it was abandoned). Internal reports
// whether the drop landed in the source's own collection: a move elsewhere
// means the source should remove the dragged items, while an internal move
// already reordered them in place.
type DragEndEvent struct {
	Keys      []collection.Key
	Operation DropOperation
	Internal  bool
}

// SourceOptions configures a SourceState.
type SourceOptions struct {
	// Payload serializes the dragged keys into transferable items. Sessions
	// built without it carry no type tags and are only accepted by hosts
	// whose AcceptedTypes is nil (accept all).
	Payload func(keys []collection.Key) []PayloadItem

	// AllowedOperations lists the operations this source permits, most
	// preferred first. Defaults to move only.
	AllowedOperations []DropOperation

	OnDragStart func(DragStartEvent)
	OnDragEnd   func(DragEndEvent)
}

// SourceState owns drag-session lifecycle for one collection view: the side
// a gesture starts from. Not safe for concurrent use.
type SourceState struct {
	col     collection.Ordered
	sel     selection.Reader
	opts    SourceOptions
	session *Session
}

// NewSourceState creates the drag-source state for col. sel may be nil for
// collections without selection; when present and the pressed key is
// selected, the whole selection is dragged.
func NewSourceState(col collection.Ordered, sel selection.Reader, opts SourceOptions) *SourceState {
	return &SourceState{col: col, sel: sel, opts: opts}
}

// Start begins a gesture from the pressed key and returns its session.
// Dragging a selected key picks up the entire selection (in display order);
// dragging an unselected key picks up just that key. While a gesture is
// already active Start returns the existing session unchanged.
func (st *SourceState) Start(pressed collection.Key) *Session {
	if st.session != nil {
		return st.session
	}
	keys := []collection.Key{pressed}
	if st.sel != nil && st.sel.IsSelected(pressed) {
		keys = st.sel.SelectedKeys()
	}
	var items []PayloadItem
	if st.opts.Payload != nil {
		items = st.opts.Payload(keys)
	}
	allowed := st.opts.AllowedOperations
	if len(allowed) == 0 {
		allowed = []DropOperation{OperationMove}
	}
	st.session = NewSession(st.col, keys, items, allowed)
	if st.opts.OnDragStart != nil {
		st.opts.OnDragStart(DragStartEvent{Keys: st.session.Keys()})
	}
	return st.session
}

// Session returns the active session, or nil between gestures.
func (st *SourceState) Session() *Session { return st.session }

// IsDragging reports whether a gesture is active.
func (st *SourceState) IsDragging() bool { return st.session != nil }

// Dragging reports whether k is part of the active gesture.
func (st *SourceState) Dragging(k collection.Key) bool {
	return st.session != nil && st.session.Dragging(k)
}

// End finishes the active gesture, reporting the operation the drop side
// performed and whether the drop landed back in this source's collection.
// No-op when no gesture is active.
func (st *SourceState) End(op DropOperation, internal bool) {
	if st.session == nil {
		return
	}
	keys := st.session.Keys()
	st.session = nil
	if st.opts.OnDragEnd != nil {
		st.opts.OnDragEnd(DragEndEvent{Keys: keys, Operation: op, Internal: internal})
	}
}

// Cancel abandons the active gesture.
func (st *SourceState) Cancel() { st.End(OperationCancel, false) }
