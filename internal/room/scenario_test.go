package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"castlerush/internal/catalog"
	"castlerush/internal/combat"
)

// testSender is a fake Sender that records every message handed to it, the
// way a fake websocket connection would in a transport-level test. Scenario
// tests drive a Room entirely through its public Join/Ready/Summon/
// UpgradeCost/Leave surface and observe outcomes by inspecting what a real
// client would have received.
type testSender struct {
	mu       sync.Mutex
	messages []any
}

func (s *testSender) Send(message any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *testSender) sawPhase(phase Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if pc, ok := m.(phaseChangeMessage); ok && pc.Phase == phase {
			return true
		}
	}
	return false
}

func (s *testSender) latestPhaseChange() (phaseChangeMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found phaseChangeMessage
	ok := false
	for _, m := range s.messages {
		if pc, is := m.(phaseChangeMessage); is {
			found, ok = pc, true
		}
	}
	return found, ok
}

func (s *testSender) countdownValues() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, m := range s.messages {
		if cu, ok := m.(countdownUpdateMessage); ok {
			out = append(out, cu.Countdown)
		}
	}
	return out
}

func (s *testSender) latestPlayerSync(sessionID string) (playerSyncView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found playerSyncView
	ok := false
	for _, m := range s.messages {
		if ps, is := m.(playersSyncMessage); is {
			for _, p := range ps.Players {
				if p.SessionID == sessionID {
					found, ok = p, true
				}
			}
		}
	}
	return found, ok
}

func (s *testSender) latestUnitsSync() ([]unitView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []unitView
	ok := false
	for _, m := range s.messages {
		if us, is := m.(unitsSyncMessage); is {
			found, ok = us.Units, true
		}
	}
	return found, ok
}

func (s *testSender) unitSpawnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if _, ok := m.(unitSpawnedMessage); ok {
			n++
		}
	}
	return n
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func assertCommandErrorCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	cmdErr, ok := err.(*CommandError)
	if !ok {
		t.Fatalf("expected *CommandError, got %T (%v)", err, err)
	}
	if cmdErr.Code != want {
		t.Fatalf("code = %s, want %s", cmdErr.Code, want)
	}
}

// glassCannonCatalog models the scenario S1/S3/S4 unit: a one-hit-kills,
// one-hit-dies unit alongside a second, deliberately-not-in-everyone's-deck
// unit used to exercise the UNIT_NOT_IN_DECK path.
func glassCannonCatalog() *catalog.Catalog {
	return catalog.FromDefinitions([]catalog.UnitDefinition{
		{
			ID:               "unitA",
			Rarity:           catalog.RarityN,
			Cost:             100,
			MaxHP:            100,
			Speed:            200,
			AttackDamage:     5000,
			AttackRange:      50,
			AttackCooldownMs: 500,
			AttackWindupMs:   100,
		},
		{
			ID:               "unitB",
			Rarity:           catalog.RarityN,
			Cost:             50,
			MaxHP:            50,
			Speed:            40,
			AttackDamage:     10,
			AttackRange:      20,
			AttackCooldownMs: 1000,
			AttackWindupMs:   200,
		},
	})
}

func newTestRoom(catalogRef *catalog.Catalog) (*Room, context.CancelFunc) {
	r := New(catalogRef, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	return r, cancel
}

// S1 — Normal match, decisive castle destruction (undefended side): one
// player summons the lone unit from the spec's literal decklist while the
// other never summons, so the unit walks unopposed and lands a lethal hit
// on a 5000 HP castle in one strike.
func TestScenarioS1_UndefendedCastleDestroyed(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	senderB := &testSender{}

	viewA, err := room.Join(ctx, "sessionA", "extA", "Alice", []string{"unitA"}, senderA)
	if err != nil {
		t.Fatalf("join A: %v", err)
	}
	if viewA.Side != combat.SidePlayer1 {
		t.Fatalf("first joiner side = %v, want player1", viewA.Side)
	}
	if viewA.CastleHP != 5000 || viewA.MaxCastleHP != 5000 {
		t.Fatalf("castleHp = %v/%v, want 5000/5000", viewA.CastleHP, viewA.MaxCastleHP)
	}
	if _, err := room.Join(ctx, "sessionB", "extB", "Bob", []string{"unitA"}, senderB); err != nil {
		t.Fatalf("join B: %v", err)
	}

	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}

	waitUntil(t, 6*time.Second, func() bool { return senderA.sawPhase(PhasePlaying) })

	if err := room.Summon(ctx, "sessionA", "unitA"); err != nil {
		t.Fatalf("summon: %v", err)
	}

	waitUntil(t, 15*time.Second, func() bool { return senderA.sawPhase(PhaseFinished) })

	pc, ok := senderA.latestPhaseChange()
	if !ok || pc.Phase != PhaseFinished {
		t.Fatalf("expected finished phase_change, got %+v ok=%v", pc, ok)
	}
	if pc.WinnerID != "sessionA" {
		t.Fatalf("winnerId = %q, want sessionA", pc.WinnerID)
	}
	if pc.WinReason != "castle_destroyed" {
		t.Fatalf("winReason = %q, want castle_destroyed", pc.WinReason)
	}
}

// S2 — Disconnect mid-countdown: the disconnecting side loses immediately
// and the room never reaches playing.
func TestScenarioS2_DisconnectDuringCountdown(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	senderB := &testSender{}
	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, senderA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitA"}, senderB); err != nil {
		t.Fatalf("join B: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}

	waitUntil(t, 3*time.Second, func() bool {
		for _, v := range senderB.countdownValues() {
			if v == 2 {
				return true
			}
		}
		return false
	})

	room.Leave("sessionA")

	waitUntil(t, 2*time.Second, func() bool { return senderB.sawPhase(PhaseFinished) })

	if senderB.sawPhase(PhasePlaying) {
		t.Fatalf("playing phase must never be entered after a countdown disconnect")
	}

	pc, ok := senderB.latestPhaseChange()
	if !ok || pc.Phase != PhaseFinished {
		t.Fatalf("expected finished phase_change, got %+v ok=%v", pc, ok)
	}
	if pc.WinnerID != "sessionB" {
		t.Fatalf("winnerId = %q, want sessionB", pc.WinnerID)
	}
	if pc.WinReason != "opponent_disconnected" {
		t.Fatalf("winReason = %q, want opponent_disconnected", pc.WinReason)
	}
}

// S3 — Invalid summons: unknown unit, valid-but-not-in-deck unit, and a
// same-unit rapid-succession cooldown violation each fail with their own
// error code and leave the unit set exactly as it was before the attempt.
func TestScenarioS3_InvalidSummonsRejectedWithoutSideEffects(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	senderB := &testSender{}
	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, senderA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitB"}, senderB); err != nil {
		t.Fatalf("join B: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}
	waitUntil(t, 6*time.Second, func() bool { return senderA.sawPhase(PhasePlaying) })

	assertCommandErrorCode(t, room.Summon(ctx, "sessionA", "ghost"), CodeInvalidUnit)
	if n := senderA.unitSpawnedCount(); n != 0 {
		t.Fatalf("unit count after unknown-unit attempt = %d, want 0", n)
	}

	assertCommandErrorCode(t, room.Summon(ctx, "sessionA", "unitB"), CodeUnitNotInDeck)
	if n := senderA.unitSpawnedCount(); n != 0 {
		t.Fatalf("unit count after not-in-deck attempt = %d, want 0", n)
	}

	if err := room.Summon(ctx, "sessionA", "unitA"); err != nil {
		t.Fatalf("first summon of a deck unit should succeed, got: %v", err)
	}
	if n := senderA.unitSpawnedCount(); n != 1 {
		t.Fatalf("unit count after first summon = %d, want 1", n)
	}

	assertCommandErrorCode(t, room.Summon(ctx, "sessionA", "unitA"), CodeCooldown)
	if n := senderA.unitSpawnedCount(); n != 1 {
		t.Fatalf("unit count after cooldown-rejected attempt = %d, want still 1", n)
	}
}

// S4 — Cost upgrade progression: after regenerating from the starting 200
// for at least four seconds at the level-1 rate of 100/s, the player can
// afford and perform the level-1→2 upgrade, after which the level-2 rate
// governs further regen.
func TestScenarioS4_CostUpgradeProgression(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	senderB := &testSender{}
	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, senderA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitA"}, senderB); err != nil {
		t.Fatalf("join B: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}
	waitUntil(t, 6*time.Second, func() bool { return senderA.sawPhase(PhasePlaying) })

	waitUntil(t, 8*time.Second, func() bool {
		sync, ok := senderA.latestPlayerSync("sessionA")
		return ok && sync.Cost >= 600
	})

	if err := room.UpgradeCost(ctx, "sessionA"); err != nil {
		t.Fatalf("upgrade_cost: %v", err)
	}

	waitUntil(t, 2*time.Second, func() bool {
		sync, ok := senderA.latestPlayerSync("sessionA")
		return ok && sync.CostLevel == 2
	})

	sync, _ := senderA.latestPlayerSync("sessionA")
	if sync.MaxCost != 2500 {
		t.Fatalf("maxCost after upgrade = %d, want 2500", sync.MaxCost)
	}
	if sync.Cost < 0 || sync.Cost > 150 {
		t.Fatalf("cost right after upgrade = %d, want close to 600-500=100", sync.Cost)
	}

	before := sync.Cost
	waitUntil(t, 2*time.Second, func() bool {
		latest, ok := senderA.latestPlayerSync("sessionA")
		return ok && latest.Cost > before
	})
}

// S6 — Same-side crowding: three instances of a slow unit summoned within
// under a second all start stacked at the same spawn point; same-side
// collision resolution must push them apart to the spec's minimum gap and
// keep every one of them within lane bounds.
func TestScenarioS6_SameSideCrowding(t *testing.T) {
	cat := catalog.FromDefinitions([]catalog.UnitDefinition{
		{
			ID:               "unitA",
			Rarity:           catalog.RarityN,
			Cost:             100,
			MaxHP:            100,
			Speed:            200,
			AttackDamage:     5000,
			AttackRange:      50,
			AttackCooldownMs: 500,
			AttackWindupMs:   100,
		},
		{
			ID:               "crowder",
			Rarity:           catalog.RarityN,
			Cost:             10,
			MaxHP:            50,
			Speed:            20,
			AttackDamage:     10,
			AttackRange:      20,
			AttackCooldownMs: 500,
			AttackWindupMs:   100,
			SpawnCooldownMs:  100,
		},
	})
	room, cancel := newTestRoom(cat)
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	senderB := &testSender{}
	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"crowder"}, senderA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitA"}, senderB); err != nil {
		t.Fatalf("join B: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}
	waitUntil(t, 6*time.Second, func() bool { return senderA.sawPhase(PhasePlaying) })

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := room.Summon(ctx, "sessionA", "crowder"); err != nil {
			t.Fatalf("summon crowder #%d: %v", i+1, err)
		}
		time.Sleep(120 * time.Millisecond)
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Fatalf("summons took %s, want under 1s", elapsed)
	}

	time.Sleep(500 * time.Millisecond)

	units, ok := senderA.latestUnitsSync()
	if !ok {
		t.Fatalf("expected a units_sync broadcast")
	}
	var p1 []unitView
	for _, u := range units {
		if u.Side == combat.SidePlayer1 {
			p1 = append(p1, u)
		}
	}
	if len(p1) != 3 {
		t.Fatalf("player1 unit count = %d, want 3", len(p1))
	}

	const width = 60.0
	minGap := (width+width)*0.3 + 30
	for i := range p1 {
		if p1[i].X < 80 || p1[i].X > combat.DefaultStageLength-30 {
			t.Fatalf("unit %s out of lane bounds: x=%v", p1[i].InstanceID, p1[i].X)
		}
		for j := i + 1; j < len(p1); j++ {
			gap := p1[i].X - p1[j].X
			if gap < 0 {
				gap = -gap
			}
			if gap < minGap {
				t.Fatalf("units %s and %s too close: gap=%v, want >= %v", p1[i].InstanceID, p1[j].InstanceID, gap, minGap)
			}
		}
	}
}
