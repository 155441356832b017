package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/constants"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

type fakeAttemptSource struct {
	attempts []*models.AttemptRecord
	err      error
}

func (f *fakeAttemptSource) GetAllAttempts(_ context.Context, _ string) ([]*models.AttemptRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.attempts, nil
}

type fakeProfileSource struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileSource) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return p, nil
}

type fakeTestSource struct {
	tests map[string]*models.Test
}

func (f *fakeTestSource) GetTestByID(_ context.Context, testID string) (*models.Test, error) {
	t, ok := f.tests[testID]
	if !ok {
		return nil, errors.New("test not found")
	}
	return t, nil
}

type fakeAvatarResolver struct {
	calls int
}

func (f *fakeAvatarResolver) AvatarURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	f.calls++
	return "https://cdn.example.com/" + objectName, nil
}

type fakeBroadcaster struct {
	broadcasts [][]models.LeaderboardEntry
}

func (f *fakeBroadcaster) BroadcastLeaderboard(entries []models.LeaderboardEntry) {
	f.broadcasts = append(f.broadcasts, entries)
}

func newTestService(attempts *fakeAttemptSource, profiles *fakeProfileSource, broadcaster Broadcaster) *Service {
	tests := &fakeTestSource{tests: map[string]*models.Test{
		"test-1": {ID: "test-1", Title: "Algebra basics"},
	}}
	return NewService(attempts, profiles, tests, nil, nil, broadcaster, 3)
}

func TestComputeJoinsProfiles(t *testing.T) {
	attempts := &fakeAttemptSource{attempts: []*models.AttemptRecord{
		attempt("A", 50, 8),
		attempt("B", 40, 6),
	}}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{
		"A": {UserID: "A", Name: "Ayesha", ClassName: "8", AvatarRef: "a.png"},
		"B": {UserID: "B", Name: "Babul", ClassName: "7"},
	}}

	service := newTestService(attempts, profiles, nil)
	entries := service.Compute(context.Background())

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Babul" || entries[0].Rank != 1 {
		t.Errorf("expected Babul ranked 1, got %s rank %d", entries[0].Name, entries[0].Rank)
	}
	if entries[1].Name != "Ayesha" || entries[1].Rank != 2 {
		t.Errorf("expected Ayesha ranked 2, got %s rank %d", entries[1].Name, entries[1].Rank)
	}
	if entries[0].TestTitle != "Algebra basics" {
		t.Errorf("expected joined test title, got %q", entries[0].TestTitle)
	}
	if entries[1].ElapsedSeconds != 50 {
		t.Errorf("expected 50 elapsed seconds, got %d", entries[1].ElapsedSeconds)
	}
}

func TestComputeMissingProfileDegradesToPlaceholder(t *testing.T) {
	attempts := &fakeAttemptSource{attempts: []*models.AttemptRecord{
		attempt("ghost", 40, 6),
	}}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{}}

	service := newTestService(attempts, profiles, nil)
	entries := service.Compute(context.Background())

	if len(entries) != 1 {
		t.Fatalf("expected entry to survive missing profile, got %d entries", len(entries))
	}
	if entries[0].Name != constants.UnknownProfileName {
		t.Errorf("expected placeholder name, got %q", entries[0].Name)
	}
}

func TestComputeStoreFailureDegradesToEmptyList(t *testing.T) {
	attempts := &fakeAttemptSource{err: errors.New("store down")}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{}}

	service := newTestService(attempts, profiles, nil)
	entries := service.Compute(context.Background())

	if entries == nil {
		t.Fatal("expected empty list, got nil")
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(entries))
	}
}

func TestComputeResolvesAvatars(t *testing.T) {
	attempts := &fakeAttemptSource{attempts: []*models.AttemptRecord{
		attempt("A", 40, 6),
	}}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{
		"A": {UserID: "A", Name: "Ayesha", AvatarRef: "a.png"},
	}}
	tests := &fakeTestSource{tests: map[string]*models.Test{
		"test-1": {ID: "test-1", Title: "Algebra basics"},
	}}
	avatars := &fakeAvatarResolver{}

	service := NewService(attempts, profiles, tests, avatars, nil, nil, 3)
	entries := service.Compute(context.Background())

	if avatars.calls != 1 {
		t.Fatalf("expected one avatar resolution, got %d", avatars.calls)
	}
	if entries[0].AvatarURL != "https://cdn.example.com/a.png" {
		t.Errorf("unexpected avatar URL %q", entries[0].AvatarURL)
	}
}

func TestRecomputeBroadcasts(t *testing.T) {
	attempts := &fakeAttemptSource{attempts: []*models.AttemptRecord{
		attempt("A", 40, 6),
	}}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{}}
	broadcaster := &fakeBroadcaster{}

	service := newTestService(attempts, profiles, broadcaster)
	service.Recompute(context.Background())

	if len(broadcaster.broadcasts) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(broadcaster.broadcasts))
	}
	if len(broadcaster.broadcasts[0]) != 1 {
		t.Errorf("expected broadcast of 1 entry, got %d", len(broadcaster.broadcasts[0]))
	}
}

func TestRecomputeStoreFailureSkipsBroadcast(t *testing.T) {
	attempts := &fakeAttemptSource{err: errors.New("store down")}
	profiles := &fakeProfileSource{profiles: map[string]*models.Profile{}}
	broadcaster := &fakeBroadcaster{}

	service := newTestService(attempts, profiles, broadcaster)
	entries := service.Recompute(context.Background())

	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty list on store failure, got %v", entries)
	}
	if len(broadcaster.broadcasts) != 0 {
		t.Fatalf("expected no broadcast of a degraded board, got %d", len(broadcaster.broadcasts))
	}
}
