// Package collection defines the ordered, keyed collection contract consumed
// by the dnd state machine and the collection widgets, plus a slice-backed
// List implementation suitable for most hosts.
//
// Keys must be unique within a collection and stable for the lifetime of the
// item they identify; the dnd package relies on key identity to recognize
// targets across renders.
package collection

// Key identifies an item within a collection.
type Key string

// Item is an element addressable by a unique key. Hosts typically embed
// their own data alongside the key (see the board demo's Task).
type Item interface {
	Key() Key
}

// Ordered is the read-side view of an ordered keyed collection. The dnd
// state machine uses it for neighbor traversal when collapsing equivalent
// boundary targets; widgets use it to walk items in display order.
type Ordered interface {
	// Len returns the number of items.
	Len() int

	// Contains reports whether a key currently exists in the collection.
	Contains(k Key) bool

	// Keys returns the keys in display order. The returned slice is a
	// snapshot; mutating it does not affect the collection.
	Keys() []Key

	// FirstKey returns the first key in order, or false when empty.
	FirstKey() (Key, bool)

	// LastKey returns the last key in order, or false when empty.
	LastKey() (Key, bool)

	// KeyBefore returns the key immediately preceding k, or false when k is
	// first, or not present at all.
	KeyBefore(k Key) (Key, bool)

	// KeyAfter returns the key immediately following k, or false when k is
	// last, or not present at all.
	KeyAfter(k Key) (Key, bool)
}
