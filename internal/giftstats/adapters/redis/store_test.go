package redis

import (
	"testing"

	"gift-playback-service/internal/giftstats/core/domain"
)

// ------------------------------------------------------------
// LEADERBOARD ASSEMBLY
// ------------------------------------------------------------

func TestOrderedSenders_FirstAppearanceOrder(t *testing.T) {
	rows := orderedSenders(
		[]string{"alice", "bob", "carol"},
		map[string]int64{"alice": 10, "bob": 30, "carol": 20},
	)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if rows[i].Sender != want {
			t.Errorf("row %d: expected %s, got %s", i, want, rows[i].Sender)
		}
	}
	if top := domain.TopOf(rows); top != "bob" {
		t.Errorf("expected top sender bob, got %s", top)
	}
}

func TestOrderedSenders_UnlistedSenderStillOnBoard(t *testing.T) {
	// "whale" accrued value but is missing from the order list; the
	// snapshot must still surface it, totals and top sender included
	rows := orderedSenders(
		[]string{"alice"},
		map[string]int64{"alice": 10, "whale": 90000},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Sender != "alice" || rows[1].Sender != "whale" {
		t.Fatalf("expected listed senders first, got %+v", rows)
	}
	if rows[1].Value != 90000 {
		t.Errorf("expected whale total 90000, got %d", rows[1].Value)
	}
	if top := domain.TopOf(rows); top != "whale" {
		t.Errorf("expected top sender whale, got %s", top)
	}
}

func TestOrderedSenders_DuplicateOrderEntriesCollapse(t *testing.T) {
	rows := orderedSenders(
		[]string{"alice", "alice", "bob"},
		map[string]int64{"alice": 10, "bob": 20},
	)

	if len(rows) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 rows, got %+v", rows)
	}
}

func TestOrderedSenders_Empty(t *testing.T) {
	if rows := orderedSenders(nil, map[string]int64{}); len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}
