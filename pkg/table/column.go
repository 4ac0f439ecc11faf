// Package table provides resizable column state and a windowed bubbletea
// table widget. Column configuration is validated at construction and
// panics on programmer error; everything after that is clamped, never
// fails.
package table

import "fmt"

// Column describes one table column. Exactly one width mode applies:
//
//   - Width: fixed. The column always renders at this width and cannot be
//     resized interactively.
//   - DefaultWidth: initial width. The user may resize it; the new width
//     sticks.
//   - Neither: flex. Leftover space is shared by Flex weight (weight 1 when
//     Flex is zero). Resizing a flex column converts it to an explicit
//     width and the remaining flex columns reflow.
//
// Setting both Width and DefaultWidth is a configuration conflict and
// panics in New.
type Column struct {
	Key          string
	Title        string
	Width        int
	DefaultWidth int
	MinWidth     int
	MaxWidth     int
	Flex         int
}

func (c Column) fixed() bool { return c.Width > 0 }

func (c Column) flexWeight() int {
	if c.Flex > 0 {
		return c.Flex
	}
	return 1
}

// minWidth is the effective lower bound; columns never collapse to zero
// cells.
func (c Column) minWidth() int {
	if c.MinWidth > 1 {
		return c.MinWidth
	}
	return 1
}

func (c Column) clamp(w int) int {
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	if min := c.minWidth(); w < min {
		w = min
	}
	return w
}

// ResizeState tracks per-column widths for one table: explicit widths for
// fixed and resized columns, flex solving for the rest. Not safe for
// concurrent use.
type ResizeState struct {
	cols  []Column
	index map[string]int

	// explicit holds widths pinned by DefaultWidth seeding or by a resize.
	explicit map[string]int
	// solved remembers the last Widths result so a resize gesture on a
	// flex column has a base width to start from.
	solved map[string]int

	resizing string
}

// New validates cols and builds their resize state. It panics on
// configuration a programmer got wrong: empty or duplicate keys, a column
// with both Width and DefaultWidth, MinWidth above MaxWidth, or an explicit
// width outside its own min/max bounds.
func New(cols []Column) *ResizeState {
	s := &ResizeState{
		cols:     append([]Column(nil), cols...),
		index:    make(map[string]int, len(cols)),
		explicit: make(map[string]int, len(cols)),
		solved:   make(map[string]int, len(cols)),
	}
	for i, c := range s.cols {
		if c.Key == "" {
			panic(fmt.Sprintf("column %d has an empty key", i))
		}
		if _, dup := s.index[c.Key]; dup {
			panic(fmt.Sprintf("duplicate column key %q", c.Key))
		}
		s.index[c.Key] = i
		if c.Width > 0 && c.DefaultWidth > 0 {
			panic(fmt.Sprintf("column %q sets both Width and DefaultWidth; a column is fixed or resizable, not both", c.Key))
		}
		if c.MaxWidth > 0 && c.MinWidth > c.MaxWidth {
			panic(fmt.Sprintf("column %q has MinWidth %d above MaxWidth %d", c.Key, c.MinWidth, c.MaxWidth))
		}
		for _, w := range []int{c.Width, c.DefaultWidth} {
			if w > 0 && c.clamp(w) != w {
				panic(fmt.Sprintf("column %q width %d is outside its min/max bounds", c.Key, w))
			}
		}
		if c.DefaultWidth > 0 {
			s.explicit[c.Key] = c.DefaultWidth
		}
	}
	return s
}

// Columns returns the column specs in display order.
func (s *ResizeState) Columns() []Column {
	return append([]Column(nil), s.cols...)
}

// Column returns the spec for key.
func (s *ResizeState) Column(key string) (Column, bool) {
	i, ok := s.index[key]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

func (s *ResizeState) widthFor(c Column) (int, bool) {
	if c.fixed() {
		return c.clamp(c.Width), true
	}
	if w, ok := s.explicit[c.Key]; ok {
		return c.clamp(w), true
	}
	return 0, false
}

// Widths distributes total cells across the columns in display order:
// fixed and resized columns take their clamped widths, flex columns share
// what is left proportionally to their weights. Per-column clamping may
// leave the sum above or below total; callers truncate or pad the slack.
func (s *ResizeState) Widths(total int) []int {
	out := make([]int, len(s.cols))
	avail := total
	weight := 0
	for i, c := range s.cols {
		if w, ok := s.widthFor(c); ok {
			out[i] = w
			avail -= w
		} else {
			out[i] = -1
			weight += c.flexWeight()
		}
	}
	if avail < 0 {
		avail = 0
	}
	for i, c := range s.cols {
		if out[i] != -1 {
			continue
		}
		f := c.flexWeight()
		w := 0
		if weight > 0 {
			w = avail * f / weight
		}
		w = c.clamp(w)
		out[i] = w
		avail -= w
		if avail < 0 {
			avail = 0
		}
		weight -= f
	}
	for i, c := range s.cols {
		s.solved[c.Key] = out[i]
	}
	return out
}

// StartResize begins a resize gesture on key. Fixed-width and unknown
// columns are not resizable; those return false and no gesture starts.
func (s *ResizeState) StartResize(key string) bool {
	i, ok := s.index[key]
	if !ok || s.cols[i].fixed() {
		return false
	}
	s.resizing = key
	return true
}

// Resizing returns the key of the column currently being resized.
func (s *ResizeState) Resizing() (string, bool) {
	return s.resizing, s.resizing != ""
}

// ResizeBy grows or shrinks the resizing column by delta cells, clamped to
// its bounds, and returns the new width. Without an active gesture it
// returns 0.
func (s *ResizeState) ResizeBy(delta int) int {
	if s.resizing == "" {
		return 0
	}
	return s.SetWidth(s.resizing, s.baseWidth(s.resizing)+delta)
}

// SetWidth pins key to w cells, clamped to the column's bounds, and returns
// the width actually applied. Fixed columns are left alone; their
// configured width comes back unchanged.
func (s *ResizeState) SetWidth(key string, w int) int {
	i, ok := s.index[key]
	if !ok {
		return 0
	}
	c := s.cols[i]
	if c.fixed() {
		return c.clamp(c.Width)
	}
	w = c.clamp(w)
	s.explicit[key] = w
	return w
}

// EndResize finishes the active gesture. The resized width stays pinned.
func (s *ResizeState) EndResize() {
	s.resizing = ""
}

func (s *ResizeState) baseWidth(key string) int {
	c := s.cols[s.index[key]]
	if w, ok := s.explicit[key]; ok {
		return c.clamp(w)
	}
	if w, ok := s.solved[key]; ok {
		return w
	}
	return c.minWidth()
}
