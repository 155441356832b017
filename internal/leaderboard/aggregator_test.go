package leaderboard

import (
	"testing"
	"time"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

var rankBase = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func attempt(userID string, elapsedSec int, score int) *models.AttemptRecord {
	return &models.AttemptRecord{
		ID:             userID + "-attempt",
		UserID:         userID,
		TestID:         "test-1",
		Score:          score,
		TotalQuestions: 10,
		StartedAt:      rankBase,
		SubmittedAt:    rankBase.Add(time.Duration(elapsedSec) * time.Second),
	}
}

func TestTopAttemptsOrdering(t *testing.T) {
	attempts := []*models.AttemptRecord{
		attempt("A", 50, 8),
		attempt("B", 40, 6),
		attempt("C", 40, 9),
	}

	top := TopAttempts(attempts, 3)

	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	got := []string{top[0].UserID, top[1].UserID, top[2].UserID}
	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestTopAttemptsExcludesNegativeElapsed(t *testing.T) {
	backwards := attempt("A", 30, 10)
	backwards.SubmittedAt = backwards.StartedAt.Add(-5 * time.Second)

	top := TopAttempts([]*models.AttemptRecord{
		backwards,
		attempt("B", 45, 4),
	}, 3)

	if len(top) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(top))
	}
	if top[0].UserID != "B" {
		t.Errorf("expected only B, got %s", top[0].UserID)
	}
}

func TestTopAttemptsExcludesMissingTimestamps(t *testing.T) {
	incomplete := attempt("A", 30, 10)
	incomplete.SubmittedAt = time.Time{}

	top := TopAttempts([]*models.AttemptRecord{incomplete}, 3)
	if len(top) != 0 {
		t.Fatalf("expected no entries, got %d", len(top))
	}
}

func TestTopAttemptsPicksBestPerUser(t *testing.T) {
	attempts := []*models.AttemptRecord{
		attempt("A", 60, 3),
		attempt("A", 35, 2), // faster wins regardless of lower score
		attempt("B", 35, 5),
		attempt("B", 35, 7), // same time, higher score wins
	}

	top := TopAttempts(attempts, 3)

	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].UserID != "B" || top[0].Score != 7 {
		t.Errorf("expected B's 7-score attempt first, got %s score %d", top[0].UserID, top[0].Score)
	}
	if top[1].UserID != "A" || top[1].Score != 2 {
		t.Errorf("expected A's 35s attempt, got %s score %d", top[1].UserID, top[1].Score)
	}
}

func TestTopAttemptsKeepsEarliestOnFullTie(t *testing.T) {
	first := attempt("A", 40, 5)
	second := attempt("A", 40, 5)
	second.ID = "A-later"

	top := TopAttempts([]*models.AttemptRecord{first, second}, 3)

	if len(top) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(top))
	}
	if top[0].ID != first.ID {
		t.Errorf("expected earliest-folded record kept, got %s", top[0].ID)
	}
}

func TestTopAttemptsTruncates(t *testing.T) {
	attempts := []*models.AttemptRecord{
		attempt("A", 10, 1),
		attempt("B", 20, 2),
		attempt("C", 30, 3),
		attempt("D", 40, 4),
		attempt("E", 50, 5),
	}

	top := TopAttempts(attempts, 3)

	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].UserID != "A" || top[2].UserID != "C" {
		t.Errorf("unexpected truncation order: %s..%s", top[0].UserID, top[2].UserID)
	}
}
