package dnd

import (
	"github.com/marcus/dropkit/pkg/collection"
	"github.com/marcus/dropkit/pkg/selection"
)

// CollectionOptions configures a CollectionState. All fields are optional;
// a zero CollectionOptions accepts every drag type but validates no target,
// so every resolution yields OperationCancel.
type CollectionOptions struct {
	// AcceptedTypes gates all drops by payload type. nil accepts every
	// type. A non-nil set rejects any session whose types do not
	// intersect it, including sessions with no types at all.
	AcceptedTypes TypeSet

	// OnInsert handles external content dropped between items.
	OnInsert func(InsertEvent)

	// OnReorder handles the collection's own items dropped between items.
	OnReorder func(ReorderEvent)

	// OnRootDrop handles external content dropped on the collection
	// itself. Internal drops on the root are always rejected: dropping
	// items onto their own collection's background means nothing.
	OnRootDrop func(RootDropEvent)

	// OnItemDrop handles content dropped on an item. An item is never a
	// valid target for itself.
	OnItemDrop func(ItemDropEvent)

	// OnDrop is the catch-all handler. When set, every target that passes
	// the type gate is acceptable even if none of the four specific
	// handlers validates it.
	OnDrop func(DropEvent)

	// ShouldAcceptItemDrop vetoes individual on-item targets that
	// OnItemDrop would otherwise accept.
	ShouldAcceptItemDrop func(target *DropTarget, types TypeSet) bool

	// GetDropOperation overrides the final operation choice. Its result is
	// returned verbatim, OperationCancel included. When nil the first
	// source-allowed operation wins.
	GetDropOperation func(target *DropTarget, types TypeSet, allowed []DropOperation) DropOperation

	// OnDropEnter and OnDropExit observe target changes. They must not
	// call back into SetTarget on the same state; see the package
	// documentation.
	OnDropEnter func(TargetEvent)
	OnDropExit  func(TargetEvent)
}

// CollectionState is the drop-target state machine for one collection view.
// It owns a single piece of state, the current drop target, and three
// responsibilities: normalizing logically-equal targets so pointer jitter
// across an item boundary does not thrash enter/exit notifications,
// sequencing those notifications, and resolving which drop operation a
// target permits.
//
// Not safe for concurrent use. All methods are synchronous and expected to
// be called from a single event loop.
type CollectionState struct {
	col  collection.Ordered
	sel  selection.Reader
	opts CollectionOptions

	// target is the authoritative current target. Target() reads it
	// synchronously; hosts that mirror it into their own view state must
	// treat this field as the source of truth.
	target *DropTarget
}

// NewCollectionState creates drop state over col. sel may be nil for
// collections without selection.
func NewCollectionState(col collection.Ordered, sel selection.Reader, opts CollectionOptions) *CollectionState {
	return &CollectionState{col: col, sel: sel, opts: opts}
}

// Target returns the current drop target, nil when no gesture is over the
// collection. The returned value is immediately consistent with the most
// recent SetTarget call.
func (s *CollectionState) Target() *DropTarget { return s.target }

// OppositeTarget returns the equivalent target expressed relative to the
// neighboring item: "before K" is the same boundary as "after the item
// preceding K", and "after K" the same as "before the item following K".
// Returns nil when no such neighbor exists (K is first or last) or when t
// is not a before/after item target.
func (s *CollectionState) OppositeTarget(t *DropTarget) *DropTarget {
	if t == nil || t.Type != TargetItem {
		return nil
	}
	switch t.Position {
	case PositionBefore:
		if prev, ok := s.col.KeyBefore(t.Key); ok {
			return ItemTarget(prev, PositionAfter)
		}
	case PositionAfter:
		if next, ok := s.col.KeyAfter(t.Key); ok {
			return ItemTarget(next, PositionBefore)
		}
	}
	return nil
}

// IsDropTarget reports whether t denotes the same logical drop location as
// the current target. Beyond direct equality, two before/after targets with
// different keys match when one is the other's opposite: continuous pointer
// tracking reports the boundary between two items relative to whichever
// item is nearer, flipping representation as the pointer crosses the line.
func (s *CollectionState) IsDropTarget(t *DropTarget) bool {
	if EqualTargets(t, s.target) {
		return true
	}
	if t != nil && s.target != nil &&
		t.Type == TargetItem && s.target.Type == TargetItem &&
		t.Key != s.target.Key &&
		t.Position != s.target.Position &&
		t.Position != PositionOn && s.target.Position != PositionOn {
		return EqualTargets(s.OppositeTarget(t), s.target) ||
			EqualTargets(t, s.OppositeTarget(s.target))
	}
	return false
}

// SetTarget moves the current target to t. When t is logically equal to the
// current target (per IsDropTarget) nothing happens: no state change, no
// notifications. Otherwise the exit notification fires for the outgoing
// target, then the enter notification for the incoming one, then t is
// committed. Passing nil clears the target, firing only the exit side; the
// drag controller does this when the gesture ends or leaves the collection.
func (s *CollectionState) SetTarget(t *DropTarget) {
	if s.IsDropTarget(t) {
		return
	}
	if s.target != nil && s.opts.OnDropExit != nil {
		s.opts.OnDropExit(TargetEvent{Type: EventDropExit, Target: s.target})
	}
	if t != nil && s.opts.OnDropEnter != nil {
		s.opts.OnDropEnter(TargetEvent{Type: EventDropEnter, Target: t})
	}
	s.target = t
}

// DropOperationFor resolves the operation a drop on target would perform
// for sess, or OperationCancel when the drop is not acceptable there. It is
// a pure function of its inputs and the configured options: it is invoked
// on every pointer move to drive feedback, and again at completion, and
// must answer identically both times.
func (s *CollectionState) DropOperationFor(sess *Session, target *DropTarget) DropOperation {
	if sess == nil || target == nil {
		return OperationCancel
	}
	if s.opts.AcceptedTypes != nil && !s.opts.AcceptedTypes.Intersects(sess.Types()) {
		return OperationCancel
	}

	internal := sess.InternalTo(s.col)
	between := target.Type == TargetItem &&
		(target.Position == PositionBefore || target.Position == PositionAfter)

	validInsert := s.opts.OnInsert != nil && between && !internal
	validReorder := s.opts.OnReorder != nil && between && internal
	validRootDrop := s.opts.OnRootDrop != nil && target.Type == TargetRoot && !internal
	validItemDrop := s.opts.OnItemDrop != nil &&
		target.Type == TargetItem && target.Position == PositionOn &&
		!(internal && sess.Dragging(target.Key)) &&
		(s.opts.ShouldAcceptItemDrop == nil || s.opts.ShouldAcceptItemDrop(target, sess.Types()))

	if s.opts.OnDrop == nil && !validInsert && !validReorder && !validRootDrop && !validItemDrop {
		return OperationCancel
	}
	if s.opts.GetDropOperation != nil {
		return s.opts.GetDropOperation(target, sess.Types(), sess.AllowedOperations())
	}
	allowed := sess.AllowedOperations()
	if len(allowed) == 0 {
		return OperationCancel
	}
	return allowed[0]
}

// CompleteDrop finishes the gesture at the current target. It re-resolves
// the operation, routes the drop to the handlers that validated it, clears
// the target (firing the exit notification), and returns the operation
// performed. A resolution of OperationCancel clears the target and fires no
// drop handlers.
//
// The catch-all OnDrop fires first, then the one specific handler matching
// the target shape, mirroring how resolution validated it: root targets go
// to OnRootDrop, on-item targets to OnItemDrop, between-item targets to
// OnReorder for internal drags and OnInsert for external ones.
func (s *CollectionState) CompleteDrop(sess *Session) DropOperation {
	target := s.target
	op := s.DropOperationFor(sess, target)
	if op == OperationCancel {
		s.SetTarget(nil)
		return OperationCancel
	}

	if s.opts.OnDrop != nil {
		s.opts.OnDrop(DropEvent{Target: target, Items: sess.Items(), Operation: op})
	}

	internal := sess.InternalTo(s.col)
	switch {
	case target.Type == TargetRoot:
		if s.opts.OnRootDrop != nil && !internal {
			s.opts.OnRootDrop(RootDropEvent{Items: sess.Items(), Operation: op})
		}
	case target.Position == PositionOn:
		if s.opts.OnItemDrop != nil && !(internal && sess.Dragging(target.Key)) {
			s.opts.OnItemDrop(ItemDropEvent{
				Target:    target,
				Items:     sess.Items(),
				Operation: op,
				Internal:  internal,
			})
		}
	default:
		if internal {
			if s.opts.OnReorder != nil {
				s.opts.OnReorder(ReorderEvent{Target: target, Keys: sess.Keys(), Operation: op})
			}
		} else if s.opts.OnInsert != nil {
			s.opts.OnInsert(InsertEvent{Target: target, Items: sess.Items(), Operation: op})
		}
	}

	s.SetTarget(nil)
	return op
}

// CollectionChanged tells the state that the collection's contents changed.
// A current target referencing a key that no longer exists is cleared (with
// the usual exit notification) so later equality and opposite-target checks
// never run against a removed key.
func (s *CollectionState) CollectionChanged() {
	if s.target != nil && s.target.Type == TargetItem && !s.col.Contains(s.target.Key) {
		s.SetTarget(nil)
	}
}
