package room

import "github.com/iancoleman/orderedmap"

// playerSet is an insertion-ordered, capacity-checked collection of
// Players keyed by session id, backed by an insertion-ordered map —
// giving "first joiner is player1" for free instead of a parallel
// slice+map (spec §3's Room.players invariant).
type playerSet struct {
	order *orderedmap.OrderedMap
}

func newPlayerSet() *playerSet {
	return &playerSet{order: orderedmap.New()}
}

func (s *playerSet) len() int {
	return len(s.order.Keys())
}

func (s *playerSet) add(p *Player) {
	s.order.Set(p.SessionID, p)
}

func (s *playerSet) get(sessionID string) (*Player, bool) {
	v, ok := s.order.Get(sessionID)
	if !ok {
		return nil, false
	}
	player, ok := v.(*Player)
	return player, ok
}

func (s *playerSet) remove(sessionID string) {
	s.order.Delete(sessionID)
}

// all returns every player in join order.
func (s *playerSet) all() []*Player {
	keys := s.order.Keys()
	out := make([]*Player, 0, len(keys))
	for _, k := range keys {
		if p, ok := s.get(k); ok {
			out = append(out, p)
		}
	}
	return out
}

// first returns the first-joined player (player1), if any.
func (s *playerSet) first() (*Player, bool) {
	keys := s.order.Keys()
	if len(keys) == 0 {
		return nil, false
	}
	return s.get(keys[0])
}

// opponent returns the player other than sessionID, if two have joined.
func (s *playerSet) opponent(sessionID string) (*Player, bool) {
	for _, p := range s.all() {
		if p.SessionID != sessionID {
			return p, true
		}
	}
	return nil, false
}
