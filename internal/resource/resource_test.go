package resource

import "testing"

func TestInitialize(t *testing.T) {
	var s State
	s.Initialize()
	if s.Cost() != 200 {
		t.Errorf("cost = %d, want 200", s.Cost())
	}
	if s.MaxCost() != 1000 {
		t.Errorf("maxCost = %d, want 1000", s.MaxCost())
	}
	if s.Level() != 1 {
		t.Errorf("level = %d, want 1", s.Level())
	}
}

func TestUpdateZeroDeltaIsNoOp(t *testing.T) {
	var s State
	s.Initialize()
	before := s.Cost()
	s.Update(0)
	if s.Cost() != before {
		t.Errorf("cost changed on zero delta: %d -> %d", before, s.Cost())
	}
}

func TestUpdateRegenAndClamp(t *testing.T) {
	var s State
	s.Initialize()
	s.Update(4000) // 4s at 100/s == 400
	if got := s.Cost(); got != 600 {
		t.Errorf("cost after 4s regen = %d, want 600", got)
	}
	s.Update(100000) // far more than enough to hit the cap
	if got := s.Cost(); got != s.MaxCost() {
		t.Errorf("cost = %d, want clamped to maxCost %d", got, s.MaxCost())
	}
}

func TestCanAffordAndSpend(t *testing.T) {
	var s State
	s.Initialize()
	if !s.CanAfford(200) {
		t.Fatalf("expected to afford 200")
	}
	if s.CanAfford(201) {
		t.Fatalf("did not expect to afford 201")
	}
	if !s.Spend(150) {
		t.Fatalf("spend 150 should succeed")
	}
	if s.Cost() != 50 {
		t.Errorf("cost after spend = %d, want 50", s.Cost())
	}
	if s.Spend(100) {
		t.Fatalf("spend 100 should fail and leave state untouched")
	}
	if s.Cost() != 50 {
		t.Errorf("cost mutated by failed spend: %d", s.Cost())
	}
}

func TestRefundRevertsASpend(t *testing.T) {
	var s State
	s.Initialize()
	s.Spend(200)
	s.Refund(200)
	if s.Cost() != 200 {
		t.Errorf("cost after refund = %d, want 200", s.Cost())
	}
}

func TestUpgradeProgression(t *testing.T) {
	var s State
	s.Initialize()
	s.Update(4000) // cost -> 600, >= upgradeCosts[0]=500
	if !s.CanUpgrade() {
		t.Fatalf("expected to be able to upgrade at cost=600")
	}
	if !s.Upgrade() {
		t.Fatalf("upgrade should succeed")
	}
	if s.Level() != 2 {
		t.Errorf("level = %d, want 2", s.Level())
	}
	if s.Cost() != 100 {
		t.Errorf("cost after upgrade = %d, want 100 (600-500)", s.Cost())
	}
	if s.MaxCost() != 2500 {
		t.Errorf("maxCost after upgrade = %d, want 2500", s.MaxCost())
	}
	// Subsequent regen should use the level-2 rate (150/s).
	s.Update(1000)
	if s.Cost() != 250 {
		t.Errorf("cost after 1s at level 2 = %d, want 250", s.Cost())
	}
}

func TestCannotUpgradePastLevelEight(t *testing.T) {
	var s State
	s.Initialize()
	for s.Level() < MaxLevel {
		s.Update(100000)
		if !s.Upgrade() {
			t.Fatalf("expected upgrade to succeed while below level cap (at level %d)", s.Level())
		}
	}
	if s.CanUpgrade() {
		t.Fatalf("should not be able to upgrade past level %d", MaxLevel)
	}
	if s.Upgrade() {
		t.Fatalf("upgrade at level cap should be a no-op returning false")
	}
}
