package dnd

// Keyboard traversal visits drop targets in a canonical order: the root
// target, then before/on for each item in display order, then after the
// last item. "after K" for a non-final K is the same boundary as "before
// the next item", so only the before form appears in the order.

func (s *CollectionState) candidateTargets() []*DropTarget {
	keys := s.col.Keys()
	out := make([]*DropTarget, 0, 2*len(keys)+2)
	out = append(out, RootTarget())
	for _, k := range keys {
		out = append(out, ItemTarget(k, PositionBefore), ItemTarget(k, PositionOn))
	}
	if last, ok := s.col.LastKey(); ok {
		out = append(out, ItemTarget(last, PositionAfter))
	}
	return out
}

// canonicalTarget folds "after K" into "before the following item" when one
// exists, so a target arrived at by pointer compares cleanly against the
// visit order.
func (s *CollectionState) canonicalTarget(t *DropTarget) *DropTarget {
	if t != nil && t.Type == TargetItem && t.Position == PositionAfter {
		if next, ok := s.col.KeyAfter(t.Key); ok {
			return ItemTarget(next, PositionBefore)
		}
	}
	return t
}

// NextTarget returns the next visitable drop target after current in visit
// order, skipping targets where sess resolves to OperationCancel and
// wrapping past the end. A nil (or stale) current starts from the
// beginning. Returns nil when no target accepts the session at all.
func (s *CollectionState) NextTarget(sess *Session, current *DropTarget) *DropTarget {
	return s.seek(sess, current, 1)
}

// PrevTarget is NextTarget in reverse: visit order backwards, wrapping past
// the start. A nil (or stale) current starts from the end.
func (s *CollectionState) PrevTarget(sess *Session, current *DropTarget) *DropTarget {
	return s.seek(sess, current, -1)
}

func (s *CollectionState) seek(sess *Session, current *DropTarget, dir int) *DropTarget {
	cands := s.candidateTargets()
	n := len(cands)
	start := -1
	cur := s.canonicalTarget(current)
	for i, c := range cands {
		if EqualTargets(c, cur) {
			start = i
			break
		}
	}
	if start == -1 {
		// Enter the cycle so the first step lands on an end of the order.
		if dir > 0 {
			start = n - 1
		} else {
			start = 0
		}
	}
	for step := 1; step <= n; step++ {
		i := ((start+dir*step)%n + n) % n
		if s.DropOperationFor(sess, cands[i]) != OperationCancel {
			return cands[i]
		}
	}
	return nil
}
