package combat

// resolveDamage is called when an attacker's windup completes. Per spec
// §4.C: damage the live target if one exists, else damage the castle if
// in range, else no-op. A target that died between windup start and
// completion (e.g. killed by another attacker this same tick) does not
// count as "has a live targetId" — the attacker falls through to the
// castle-range check instead of dealing zero-and-also-castle damage (spec
// §8 boundary #10).
func (s *Simulator) resolveDamage(attacker *Unit, result *Result) {
	target := s.liveTarget(attacker)
	if target != nil {
		s.damageUnit(attacker, target, result)
		return
	}

	if s.inCastleRange(attacker) {
		enemySide := attacker.Side.Opposite()
		ref, ok := s.castles[enemySide]
		if ok && ref.Damage != nil {
			ref.Damage(attacker.def.AttackDamage)
		}
		result.Damages = append(result.Damages, DamageEvent{
			AttackerInstanceID: attacker.InstanceID,
			AttackerSide:       attacker.Side,
			Amount:             attacker.def.AttackDamage,
			CastleHit:          true,
			CastleSide:         enemySide,
		})
	}
}

func (s *Simulator) damageUnit(attacker, target *Unit, result *Result) {
	target.HP -= attacker.def.AttackDamage
	target.DamageAccumulated += attacker.def.AttackDamage

	killed := false
	if target.HP <= 0 {
		target.HP = 0
		s.enterState(target, StateDie)
		killed = true
	}

	result.Damages = append(result.Damages, DamageEvent{
		AttackerInstanceID: attacker.InstanceID,
		AttackerSide:       attacker.Side,
		TargetInstanceID:   target.InstanceID,
		Amount:             attacker.def.AttackDamage,
		TargetHP:           target.HP,
		Killed:             killed,
	})

	if killed {
		return
	}

	s.maybeKnockback(target, result)
}

// maybeKnockback displaces target and enters HITSTUN if its cumulative
// damage since the last reset has crossed 15% of maxHp, unless target is
// a boss.
func (s *Simulator) maybeKnockback(target *Unit, result *Result) {
	if target.def.IsBoss {
		return
	}
	if target.DamageAccumulated < target.MaxHP*KnockbackThresholdPct {
		return
	}

	target.DamageAccumulated = 0
	dir := -1.0
	if target.Side == SidePlayer2 {
		dir = 1.0
	}
	target.X = clampLaneBounds(target.X+dir*target.def.Knockback, s.stageLength)
	s.enterState(target, StateHitstun)

	result.Knockbacks = append(result.Knockbacks, KnockbackEvent{
		InstanceID: target.InstanceID,
		NewX:       target.X,
	})
}
