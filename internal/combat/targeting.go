package combat

// assignTargets refreshes every live unit's TargetID: a still-valid target
// is kept, otherwise the unit re-scans enemies within attackRange+20 edge
// distance and prefers the nearest enemy strictly ahead of it, falling
// back to the nearest enemy in any direction. Iteration follows insertion
// order, so ties are broken deterministically.
func (s *Simulator) assignTargets() {
	for _, id := range s.order {
		u := s.units[id]
		if u == nil || u.State == StateDie {
			continue
		}

		if t := s.liveTarget(u); t != nil && isInRange(u.X, u.halfWidth(), t.X, t.halfWidth(), u.def.AttackRange) {
			continue
		}

		u.TargetID = s.findTarget(u)
	}
}

func (s *Simulator) findTarget(u *Unit) string {
	searchRange := u.def.AttackRange + TargetingRangePad

	var bestFront string
	bestFrontDist := searchRange + 1

	var bestAny string
	bestAnyDist := searchRange + 1

	for _, id := range s.order {
		other := s.units[id]
		if other == nil || other == u || other.State == StateDie || other.Side == u.Side {
			continue
		}
		dist := edgeDistance(u.X, u.halfWidth(), other.X, other.halfWidth())
		if dist > searchRange {
			continue
		}
		if dist < bestAnyDist {
			bestAnyDist = dist
			bestAny = other.InstanceID
		}
		inFront := (u.Side == SidePlayer1 && other.X > u.X) || (u.Side == SidePlayer2 && other.X < u.X)
		if inFront && dist < bestFrontDist {
			bestFrontDist = dist
			bestFront = other.InstanceID
		}
	}

	if bestFront != "" {
		return bestFront
	}
	return bestAny
}
