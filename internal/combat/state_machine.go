package combat

// stepUnit dispatches a single unit's per-tick state transition. u's
// StateTimerMs has already been advanced by dtMs by the caller.
func (s *Simulator) stepUnit(u *Unit, dtMs float64, result *Result) {
	switch u.State {
	case StateSpawn:
		if u.StateTimerMs >= SpawnToWalkMs {
			s.enterState(u, StateWalk)
		}

	case StateWalk:
		target := s.liveTarget(u)
		switch {
		case target != nil && isInRange(u.X, u.halfWidth(), target.X, target.halfWidth(), u.def.AttackRange):
			s.enterState(u, StateAttackWindup)
		case s.inCastleRange(u):
			s.enterState(u, StateAttackWindup)
		case s.isBlockedByEnemy(u):
			// hold position; still allowed to re-evaluate attack next tick.
		default:
			dir := u.Side.Direction()
			u.X += u.def.Speed * dtMs / 1000 * dir
			u.X = clampWalk(u.Side, u.X, s.stageLength)
		}

	case StateAttackWindup:
		if u.StateTimerMs >= u.def.AttackWindupMs {
			s.resolveDamage(u, result)
			s.enterState(u, StateAttackCooldown)
		}

	case StateAttackCooldown:
		if u.StateTimerMs >= u.def.AttackCooldownMs {
			target := s.liveTarget(u)
			switch {
			case target != nil && isInRange(u.X, u.halfWidth(), target.X, target.halfWidth(), u.def.AttackRange):
				s.enterState(u, StateAttackWindup)
			case s.inCastleRange(u):
				s.enterState(u, StateAttackWindup)
			default:
				u.TargetID = ""
				s.enterState(u, StateWalk)
			}
		}

	case StateHitstun:
		if u.StateTimerMs >= HitstunMs {
			s.enterState(u, StateWalk)
		}

	case StateDie:
		// handled by cleanup

	}
}

// enterState transitions u to next and resets its state timer.
func (s *Simulator) enterState(u *Unit, next UnitState) {
	u.State = next
	u.StateTimerMs = 0
}

// liveTarget resolves u's current TargetID to a live *Unit, or nil.
func (s *Simulator) liveTarget(u *Unit) *Unit {
	if u.TargetID == "" {
		return nil
	}
	t, ok := s.units[u.TargetID]
	if !ok || !t.isAlive() {
		return nil
	}
	return t
}

// inCastleRange reports whether u's nearer edge is within its attack range
// of the enemy castle.
func (s *Simulator) inCastleRange(u *Unit) bool {
	enemyX := CastleX(u.Side.Opposite(), s.stageLength)
	var edge float64
	if u.Side == SidePlayer1 {
		edge = u.X + u.halfWidth()
	} else {
		edge = u.X - u.halfWidth()
	}
	dist := enemyX - edge
	if dist < 0 {
		dist = -dist
	}
	return dist <= u.def.AttackRange
}

// isBlockedByEnemy reports whether a WALK unit is blocked from advancing
// by an enemy unit directly ahead of it.
func (s *Simulator) isBlockedByEnemy(u *Unit) bool {
	for _, id := range s.order {
		other := s.units[id]
		if other == nil || other == u || other.State == StateDie {
			continue
		}
		if other.Side == u.Side {
			continue
		}
		inFront := (u.Side == SidePlayer1 && other.X > u.X) || (u.Side == SidePlayer2 && other.X < u.X)
		if !inFront {
			continue
		}
		limit := (u.Width+other.Width)/2*BlockRangeFactor + BlockRangePad
		if edgeDistance(u.X, u.halfWidth(), other.X, other.halfWidth()) < limit {
			return true
		}
	}
	return false
}
