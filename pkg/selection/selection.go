// Package selection tracks which keys of an ordered collection are selected
// and which one has keyboard focus. The dnd layer consumes the read-only
// Reader view to decide which keys a drag gesture picks up.
package selection

import (
	"github.com/marcus/dropkit/pkg/collection"
)

// Mode controls how many items may be selected at once.
type Mode string

const (
	// ModeNone disables selection entirely.
	ModeNone Mode = "none"
	// ModeSingle allows at most one selected key.
	ModeSingle Mode = "single"
	// ModeMultiple allows any number of selected keys.
	ModeMultiple Mode = "multiple"
)

// Reader is the read-only selection view consumed by the dnd state machine
// and by widgets that only render selection.
type Reader interface {
	Mode() Mode
	IsSelected(k collection.Key) bool
	// SelectedKeys returns the selected keys in collection display order.
	SelectedKeys() []collection.Key
	IsEmpty() bool
}

// Manager is the default Reader implementation plus the mutation surface
// widgets drive from key events. Not safe for concurrent use.
type Manager struct {
	mode     Mode
	col      collection.Ordered
	selected map[collection.Key]bool
	focused  collection.Key
	anchor   collection.Key
}

// NewManager creates a selection manager over col. A nil col is treated as
// an always-empty collection.
func NewManager(col collection.Ordered, mode Mode) *Manager {
	return &Manager{
		mode:     mode,
		col:      col,
		selected: make(map[collection.Key]bool),
	}
}

// Mode returns the selection mode.
func (m *Manager) Mode() Mode { return m.mode }

// IsSelected reports whether k is selected.
func (m *Manager) IsSelected(k collection.Key) bool { return m.selected[k] }

// IsEmpty reports whether nothing is selected.
func (m *Manager) IsEmpty() bool { return len(m.selected) == 0 }

// Count returns the number of selected keys.
func (m *Manager) Count() int { return len(m.selected) }

// SelectedKeys returns the selected keys in collection display order.
// Selected keys that have left the collection are omitted.
func (m *Manager) SelectedKeys() []collection.Key {
	if m.col == nil || len(m.selected) == 0 {
		return nil
	}
	var keys []collection.Key
	for _, k := range m.col.Keys() {
		if m.selected[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Focused returns the key with keyboard focus, or false when none.
func (m *Manager) Focused() (collection.Key, bool) {
	if m.focused == "" {
		return "", false
	}
	return m.focused, true
}

// SetFocused moves keyboard focus to k without changing the selection.
func (m *Manager) SetFocused(k collection.Key) {
	m.focused = k
}

// Select replaces the selection with k and anchors future Extend calls at k.
func (m *Manager) Select(k collection.Key) {
	if m.mode == ModeNone {
		return
	}
	clear(m.selected)
	m.selected[k] = true
	m.anchor = k
	m.focused = k
}

// Toggle flips k's membership. In single mode a toggle-on replaces the
// previous selection.
func (m *Manager) Toggle(k collection.Key) {
	if m.mode == ModeNone {
		return
	}
	if m.selected[k] {
		delete(m.selected, k)
		m.focused = k
		return
	}
	if m.mode == ModeSingle {
		clear(m.selected)
	}
	m.selected[k] = true
	m.anchor = k
	m.focused = k
}

// Extend selects the contiguous range between the anchor (the last plain
// Select/Toggle) and k. In single mode it behaves like Select.
func (m *Manager) Extend(k collection.Key) {
	if m.mode != ModeMultiple || m.col == nil {
		m.Select(k)
		return
	}
	if m.anchor == "" {
		m.Select(k)
		return
	}
	lo, hi := -1, -1
	for i, key := range m.col.Keys() {
		if key == m.anchor || key == k {
			if lo == -1 {
				lo = i
			}
			hi = i
		}
	}
	if lo == -1 {
		m.Select(k)
		return
	}
	clear(m.selected)
	for i, key := range m.col.Keys() {
		if i >= lo && i <= hi {
			m.selected[key] = true
		}
	}
	m.focused = k
}

// SelectAll selects every key. No-op outside multiple mode.
func (m *Manager) SelectAll() {
	if m.mode != ModeMultiple || m.col == nil {
		return
	}
	for _, k := range m.col.Keys() {
		m.selected[k] = true
	}
}

// Clear empties the selection, keeping focus where it is.
func (m *Manager) Clear() {
	clear(m.selected)
	m.anchor = ""
}

// CollectionChanged prunes selected/focused/anchor keys that no longer exist
// in the collection. Hosts call it after mutating the collection, alongside
// dnd.CollectionState.CollectionChanged.
func (m *Manager) CollectionChanged() {
	if m.col == nil {
		clear(m.selected)
		m.focused = ""
		m.anchor = ""
		return
	}
	for k := range m.selected {
		if !m.col.Contains(k) {
			delete(m.selected, k)
		}
	}
	if m.focused != "" && !m.col.Contains(m.focused) {
		m.focused = ""
	}
	if m.anchor != "" && !m.col.Contains(m.anchor) {
		m.anchor = ""
	}
}
