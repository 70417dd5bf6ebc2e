package combat

// cleanup removes every unit that has finished lingering in DIE, deleting
// it from both the lookup map and the order slice and recording its id in
// result.Removed so callers can drop it from broadcast state too.
func (s *Simulator) cleanup(result *Result) {
	kept := s.order[:0]
	for _, id := range s.order {
		u := s.units[id]
		if u == nil {
			continue
		}
		if u.State == StateDie && u.StateTimerMs >= DeathLingerMs {
			delete(s.units, id)
			result.Removed = append(result.Removed, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
