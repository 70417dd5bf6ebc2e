package combat

// resolveCollisions pushes apart every overlapping same-side pair of live
// units. Pairs are visited in insertion order so repeated ticks resolve
// deterministically; each unit is displaced by a quarter of the overlap,
// then clamped back into the side's valid lane bounds.
func (s *Simulator) resolveCollisions() {
	for i := 0; i < len(s.order); i++ {
		a := s.units[s.order[i]]
		if a == nil || a.State == StateDie {
			continue
		}
		for j := i + 1; j < len(s.order); j++ {
			b := s.units[s.order[j]]
			if b == nil || b.State == StateDie || b.Side != a.Side {
				continue
			}

			minDistance := (a.Width+b.Width)/2*CollisionOverlapFactor + MinSameSideGap
			distance := a.X - b.X
			if distance < 0 {
				distance = -distance
			}
			if distance >= minDistance || distance <= 0 {
				continue
			}

			overlap := minDistance - distance
			push := overlap / 4
			if a.X < b.X {
				a.X -= push
				b.X += push
			} else {
				a.X += push
				b.X -= push
			}
			a.X = clampCollision(a.Side, a.X, s.stageLength)
			b.X = clampCollision(b.Side, b.X, s.stageLength)
		}
	}
}
