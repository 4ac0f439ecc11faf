package dnd

import (
	"fmt"
	"sort"

	"github.com/marcus/dropkit/pkg/collection"
)

// TargetType distinguishes the two kinds of drop target.
type TargetType string

const (
	// TargetRoot is the collection as a whole, not a specific item.
	TargetRoot TargetType = "root"
	// TargetItem is a position relative to one item.
	TargetItem TargetType = "item"
)

// DropPosition locates an item target relative to its item.
type DropPosition string

const (
	PositionBefore DropPosition = "before"
	PositionOn     DropPosition = "on"
	PositionAfter  DropPosition = "after"
)

// DropOperation is the effect of completing a drop. OperationCancel is the
// ordinary "no drop permitted here" result, not an error.
type DropOperation string

const (
	OperationMove   DropOperation = "move"
	OperationCopy   DropOperation = "copy"
	OperationLink   DropOperation = "link"
	OperationCancel DropOperation = "cancel"
)

// DropTarget is the logical location a dragged payload would land if
// released now. A nil *DropTarget means "no target". Root targets carry no
// key or position; item targets carry both.
type DropTarget struct {
	Type     TargetType
	Key      collection.Key
	Position DropPosition
}

// RootTarget returns a target for the collection as a whole.
func RootTarget() *DropTarget {
	return &DropTarget{Type: TargetRoot}
}

// ItemTarget returns a target relative to the item with key k.
func ItemTarget(k collection.Key, pos DropPosition) *DropTarget {
	return &DropTarget{Type: TargetItem, Key: k, Position: pos}
}

// IsRoot reports whether t is a non-nil root target.
func (t *DropTarget) IsRoot() bool {
	return t != nil && t.Type == TargetRoot
}

// IsItem reports whether t is a non-nil item target.
func (t *DropTarget) IsItem() bool {
	return t != nil && t.Type == TargetItem
}

// String renders the target for logs and announcements, e.g. "before b".
func (t *DropTarget) String() string {
	switch {
	case t == nil:
		return "none"
	case t.Type == TargetRoot:
		return "root"
	default:
		return fmt.Sprintf("%s %s", t.Position, t.Key)
	}
}

// EqualTargets reports whether a and b denote the same target by direct
// comparison: both nil, both root, or both item with the same key and
// position. It does not collapse equivalent boundary spellings; that is
// CollectionState.IsDropTarget's job, since it needs neighbor traversal.
func EqualTargets(a, b *DropTarget) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type != b.Type {
		return false
	}
	if a.Type == TargetRoot {
		return true
	}
	return a.Key == b.Key && a.Position == b.Position
}

// TypeSet is a set of drag type tags (e.g. "text/plain",
// "application/x-task"). The zero value (nil) is distinct from an empty
// set: a nil AcceptedTypes option accepts every payload, while an empty
// non-nil set rejects all of them.
type TypeSet map[string]bool

// NewTypeSet builds a non-nil TypeSet from the given tags.
func NewTypeSet(types ...string) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// Contains reports whether tag is in the set.
func (s TypeSet) Contains(tag string) bool { return s[tag] }

// Intersects reports whether s and other share at least one tag.
func (s TypeSet) Intersects(other TypeSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for t := range small {
		if large[t] {
			return true
		}
	}
	return false
}

// Values returns the tags in sorted order.
func (s TypeSet) Values() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// PayloadItem is one unit of transferable content: a map from drag type tag
// to that tag's serialized representation.
type PayloadItem map[string]string

// Types returns the tags this item can be read as.
func (p PayloadItem) Types() TypeSet {
	s := make(TypeSet, len(p))
	for t := range p {
		s[t] = true
	}
	return s
}

// EventType labels target-change notifications.
type EventType string

const (
	EventDropEnter EventType = "dropenter"
	EventDropExit  EventType = "dropexit"
)

// TargetEvent notifies that the current drop target was entered or exited.
// X and Y are reserved for pointer coordinates; the state machine never
// learns pointer positions, so they are always zero today.
type TargetEvent struct {
	Type   EventType
	X, Y   int
	Target *DropTarget
}

// DropEvent is passed to the catch-all OnDrop handler for every completed
// drop, before the specific handler for the target shape runs.
type DropEvent struct {
	Target    *DropTarget
	Items     []PayloadItem
	Operation DropOperation
}

// InsertEvent is passed to OnInsert when external content lands between
// two items (or at either end).
type InsertEvent struct {
	Target    *DropTarget
	Items     []PayloadItem
	Operation DropOperation
}

// ReorderEvent is passed to OnReorder when items of this collection land
// between two of its items. Keys preserves the dragged display order.
type ReorderEvent struct {
	Target    *DropTarget
	Keys      []collection.Key
	Operation DropOperation
}

// RootDropEvent is passed to OnRootDrop when external content lands on the
// collection as a whole.
type RootDropEvent struct {
	Items     []PayloadItem
	Operation DropOperation
}

// ItemDropEvent is passed to OnItemDrop when the payload lands on an item.
// Internal reports whether the payload came from this same collection.
type ItemDropEvent struct {
	Target    *DropTarget
	Items     []PayloadItem
	Operation DropOperation
	Internal  bool
}
