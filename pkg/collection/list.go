package collection

// List is a slice-backed ordered collection with an index map for O(1) key
// lookups. It implements Ordered and adds the mutation operations the drop
// handlers need (insert relative to a key, remove, reorder moves).
//
// List is not safe for concurrent use; like the dnd state machine it is
// meant to be owned by a single event loop.
type List struct {
	items []Item
	index map[Key]int
}

// NewList creates a List containing the given items in order. Items with
// duplicate keys are dropped, keeping the first occurrence.
func NewList(items ...Item) *List {
	l := &List{index: make(map[Key]int, len(items))}
	l.Append(items...)
	return l
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// Contains reports whether k exists in the list.
func (l *List) Contains(k Key) bool {
	_, ok := l.index[k]
	return ok
}

// Keys returns a snapshot of the keys in display order.
func (l *List) Keys() []Key {
	keys := make([]Key, len(l.items))
	for i, it := range l.items {
		keys[i] = it.Key()
	}
	return keys
}

// Items returns a snapshot of the items in display order.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the item stored under k.
func (l *List) Item(k Key) (Item, bool) {
	i, ok := l.index[k]
	if !ok {
		return nil, false
	}
	return l.items[i], true
}

// IndexOf returns the position of k in display order.
func (l *List) IndexOf(k Key) (int, bool) {
	i, ok := l.index[k]
	return i, ok
}

// FirstKey returns the first key, or false when the list is empty.
func (l *List) FirstKey() (Key, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	return l.items[0].Key(), true
}

// LastKey returns the last key, or false when the list is empty.
func (l *List) LastKey() (Key, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	return l.items[len(l.items)-1].Key(), true
}

// KeyBefore returns the key immediately preceding k.
func (l *List) KeyBefore(k Key) (Key, bool) {
	i, ok := l.index[k]
	if !ok || i == 0 {
		return "", false
	}
	return l.items[i-1].Key(), true
}

// KeyAfter returns the key immediately following k.
func (l *List) KeyAfter(k Key) (Key, bool) {
	i, ok := l.index[k]
	if !ok || i == len(l.items)-1 {
		return "", false
	}
	return l.items[i+1].Key(), true
}

// Append adds items to the end of the list, skipping duplicate keys.
func (l *List) Append(items ...Item) {
	for _, it := range items {
		if _, dup := l.index[it.Key()]; dup {
			continue
		}
		l.index[it.Key()] = len(l.items)
		l.items = append(l.items, it)
	}
}

// InsertAt inserts items at position i (clamped to [0, Len]), skipping
// duplicate keys. Returns the number of items actually inserted.
func (l *List) InsertAt(i int, items ...Item) int {
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	fresh := items[:0:0]
	for _, it := range items {
		if _, dup := l.index[it.Key()]; dup {
			continue
		}
		fresh = append(fresh, it)
	}
	if len(fresh) == 0 {
		return 0
	}
	l.items = append(l.items[:i], append(fresh, l.items[i:]...)...)
	l.reindex(i)
	return len(fresh)
}

// InsertBefore inserts items immediately before the item with key k.
// Returns false when k is not present.
func (l *List) InsertBefore(k Key, items ...Item) bool {
	i, ok := l.index[k]
	if !ok {
		return false
	}
	l.InsertAt(i, items...)
	return true
}

// InsertAfter inserts items immediately after the item with key k.
// Returns false when k is not present.
func (l *List) InsertAfter(k Key, items ...Item) bool {
	i, ok := l.index[k]
	if !ok {
		return false
	}
	l.InsertAt(i+1, items...)
	return true
}

// Remove deletes the given keys and returns how many were present.
func (l *List) Remove(keys ...Key) int {
	if len(keys) == 0 {
		return 0
	}
	drop := make(map[Key]bool, len(keys))
	removed := 0
	for _, k := range keys {
		if _, ok := l.index[k]; ok && !drop[k] {
			drop[k] = true
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	kept := l.items[:0]
	for _, it := range l.items {
		if drop[it.Key()] {
			delete(l.index, it.Key())
			continue
		}
		kept = append(kept, it)
	}
	l.items = kept
	l.reindex(0)
	return removed
}

// MoveBefore moves the items identified by keys, preserving their current
// relative order, to immediately before the item with key k. The anchor key
// must not itself be one of the moved keys. Returns false when k is missing,
// is part of keys, or none of keys are present.
func (l *List) MoveBefore(k Key, keys []Key) bool {
	return l.move(k, keys, false)
}

// MoveAfter is MoveBefore with the insertion point after the anchor item.
func (l *List) MoveAfter(k Key, keys []Key) bool {
	return l.move(k, keys, true)
}

func (l *List) move(anchor Key, keys []Key, after bool) bool {
	if _, ok := l.index[anchor]; !ok {
		return false
	}
	moving := make(map[Key]bool, len(keys))
	for _, k := range keys {
		if k == anchor {
			return false
		}
		if _, ok := l.index[k]; ok {
			moving[k] = true
		}
	}
	if len(moving) == 0 {
		return false
	}

	// Pull the moved items out in their current display order so a
	// multi-item drag keeps its shape at the destination.
	pulled := make([]Item, 0, len(moving))
	kept := make([]Item, 0, len(l.items)-len(moving))
	for _, it := range l.items {
		if moving[it.Key()] {
			pulled = append(pulled, it)
		} else {
			kept = append(kept, it)
		}
	}

	at := 0
	for i, it := range kept {
		if it.Key() == anchor {
			at = i
			break
		}
	}
	if after {
		at++
	}

	l.items = append(kept[:at:at], append(pulled, kept[at:]...)...)
	l.reindex(0)
	return true
}

func (l *List) reindex(from int) {
	for i := from; i < len(l.items); i++ {
		l.index[l.items[i].Key()] = i
	}
}
