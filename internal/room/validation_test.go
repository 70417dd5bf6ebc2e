package room

import (
	"context"
	"testing"
	"time"
)

// TestJoinRejectsThirdPlayer covers the ROOM_FULL path from spec §4.D's
// join guard ("room not full (≤ 2)").
func TestJoinRejectsThirdPlayer(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join B: %v", err)
	}

	_, err := room.Join(ctx, "sessionC", "", "Carol", []string{"unitA"}, &testSender{})
	assertCommandErrorCode(t, err, CodeRoomFull)
}

// TestReadyUnknownSession covers the UNKNOWN_SESSION path for a command
// issued before the caller ever joined.
func TestReadyUnknownSession(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()

	assertCommandErrorCode(t, room.Ready(context.Background(), "nobody"), CodeUnknownSession)
}

// TestReadyIsIdempotent covers invariant 9: two successive ready commands
// from the same player count once and do not error while the room is still
// waiting for the second player.
func TestReadyIsIdempotent(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("first ready: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("second ready: %v", err)
	}
}

// TestSummonWrongPhaseBeforeCountdown covers GAME_NOT_PLAYING for a summon
// attempted before the match has started.
func TestSummonWrongPhaseBeforeCountdown(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join A: %v", err)
	}

	assertCommandErrorCode(t, room.Summon(ctx, "sessionA", "unitA"), CodeWrongPhase)
}

// TestUpgradeCannotUpgrade covers CANNOT_UPGRADE for a player whose cost has
// not yet reached the level-1 upgrade threshold (500), true immediately
// after join since the starting cost is 200.
func TestUpgradeCannotUpgrade(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join A: %v", err)
	}

	assertCommandErrorCode(t, room.UpgradeCost(ctx, "sessionA"), CodeCannotUpgrade)
}

// TestSummonUnknownSessionDuringPlay covers UNKNOWN_SESSION for a summon
// issued by a session id that was never joined, once the room has actually
// reached the playing phase (so the phase guard doesn't shadow it).
func TestSummonUnknownSessionDuringPlay(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	senderA := &testSender{}
	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, senderA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := room.Join(ctx, "sessionB", "", "Bob", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join B: %v", err)
	}
	if err := room.Ready(ctx, "sessionA"); err != nil {
		t.Fatalf("ready A: %v", err)
	}
	if err := room.Ready(ctx, "sessionB"); err != nil {
		t.Fatalf("ready B: %v", err)
	}
	waitUntil(t, 6*time.Second, func() bool { return senderA.sawPhase(PhasePlaying) })

	assertCommandErrorCode(t, room.Summon(ctx, "ghost-session", "unitA"), CodeUnknownSession)
}

// TestJoinTruncatesOversizedDeck covers spec §4.D's "cap at 7" join rule:
// an oversized deck is silently truncated, never rejected.
func TestJoinTruncatesOversizedDeck(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	oversized := []string{"unitA", "unitA", "unitA", "unitA", "unitA", "unitA", "unitA", "unitA", "unitA"}
	view, err := room.Join(ctx, "sessionA", "", "Alice", oversized, &testSender{})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(view.Deck) != maxDeckSize {
		t.Fatalf("deck length = %d, want %d", len(view.Deck), maxDeckSize)
	}
}

// TestVoteSpeedRejectsInvalidValue covers the optional game-speed
// extension's input validation (§9 open question 3): only 1 or 2 are
// accepted.
func TestVoteSpeedRejectsInvalidValue(t *testing.T) {
	room, cancel := newTestRoom(glassCannonCatalog())
	defer cancel()
	ctx := context.Background()

	if _, err := room.Join(ctx, "sessionA", "", "Alice", []string{"unitA"}, &testSender{}); err != nil {
		t.Fatalf("join A: %v", err)
	}

	if err := room.VoteSpeed(ctx, "sessionA", 3); err == nil {
		t.Fatalf("expected an error for an invalid speed vote")
	}
	if err := room.VoteSpeed(ctx, "sessionA", 2); err != nil {
		t.Fatalf("vote_speed(2): %v", err)
	}
}
