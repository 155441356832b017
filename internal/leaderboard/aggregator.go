package leaderboard

import (
	"sort"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

// betterAttempt reports whether a strictly outranks b. Elapsed time is the
// dominant signal; score only breaks an exact time tie.
func betterAttempt(a, b *models.AttemptRecord) bool {
	if a.Elapsed() != b.Elapsed() {
		return a.Elapsed() < b.Elapsed()
	}
	return a.Score > b.Score
}

// eligible excludes records whose elapsed time is negative or cannot be
// derived. Elapsed time is mandatory for ranking.
func eligible(a *models.AttemptRecord) bool {
	if a.StartedAt.IsZero() || a.SubmittedAt.IsZero() {
		return false
	}
	return a.Elapsed() >= 0
}

// TopAttempts folds the full attempt history down to one representative
// record per user, orders them fastest-first (higher score on a time tie),
// and truncates to n. The fold keeps the earliest-seen record when two are
// fully tied.
func TopAttempts(attempts []*models.AttemptRecord, n int) []*models.AttemptRecord {
	best := make(map[string]*models.AttemptRecord)
	var order []string

	for _, a := range attempts {
		if !eligible(a) {
			continue
		}
		current, ok := best[a.UserID]
		if !ok {
			best[a.UserID] = a
			order = append(order, a.UserID)
			continue
		}
		if betterAttempt(a, current) {
			best[a.UserID] = a
		}
	}

	top := make([]*models.AttemptRecord, 0, len(order))
	for _, userID := range order {
		top = append(top, best[userID])
	}

	sort.SliceStable(top, func(i, j int) bool {
		return betterAttempt(top[i], top[j])
	})

	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}
