package store

import "github.com/igoryan-dao/coqd/internal/textrange"

// RewindTarget selects the frontmost operation whose end is strictly
// before (line, col); its state id is the rewind target. If none
// qualifies, the target is the root state id.
func (s *Store) RewindTarget(pos textrange.Position) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.ops {
		if op.Range.End.Less(pos) {
			return op.StateId
		}
	}
	return RootStateId
}

// Previous reports the state id to rewind to for a "previous" command:
// the operation second from the tip, or the root state id if there is
// at most one operation.
func (s *Store) Previous() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.ops) < 2 {
		return RootStateId
	}
	return s.ops[1].StateId
}

// PopUntilStateId pops operations from the tip until the tip's state id
// equals target (or the store is empty), returning the popped
// operations in most-recent-first order.
func (s *Store) PopUntilStateId(target int) []Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var popped []Operation
	for len(s.ops) > 0 && s.ops[0].StateId != target {
		popped = append(popped, s.ops[0])
		s.ops = s.ops[1:]
	}
	return popped
}
