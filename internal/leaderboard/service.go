package leaderboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/constants"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/pkg/cache"
)

const (
	cacheKey = "leaderboard:top"

	// Recomputes are event-driven; the TTL only bounds staleness when the
	// broker is down and no events arrive.
	cacheTTL = 30 * time.Second

	avatarURLExpiry = 1 * time.Hour
)

type AttemptSource interface {
	GetAllAttempts(ctx context.Context, testID string) ([]*models.AttemptRecord, error)
}

type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type TestSource interface {
	GetTestByID(ctx context.Context, testID string) (*models.Test, error)
}

// AvatarResolver turns a stored avatar reference into a downloadable URL.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Broadcaster pushes a freshly computed ranking to live observers.
type Broadcaster interface {
	BroadcastLeaderboard(entries []models.LeaderboardEntry)
}

// Service recomputes the top-N ranking over the full attempt history. It
// keeps no state of its own: every trigger is a complete re-aggregation,
// cached in Redis between triggers.
type Service struct {
	attempts AttemptSource
	profiles ProfileSource
	tests    TestSource

	avatars     AvatarResolver
	redisClient *cache.RedisClient
	broadcaster Broadcaster

	size int
}

func NewService(
	attempts AttemptSource,
	profiles ProfileSource,
	tests TestSource,
	avatars AvatarResolver,
	redisClient *cache.RedisClient,
	broadcaster Broadcaster,
	size int,
) *Service {
	return &Service{
		attempts:    attempts,
		profiles:    profiles,
		tests:       tests,
		avatars:     avatars,
		redisClient: redisClient,
		broadcaster: broadcaster,
		size:        size,
	}
}

// Compute aggregates the full history into ranked entries. Store failures
// degrade to an empty list; a missing profile degrades that entry to a
// placeholder instead of excluding it.
func (s *Service) Compute(ctx context.Context) []models.LeaderboardEntry {
	entries, err := s.compute(ctx)
	if err != nil {
		return []models.LeaderboardEntry{}
	}
	return entries
}

func (s *Service) compute(ctx context.Context) ([]models.LeaderboardEntry, error) {
	attempts, err := s.attempts.GetAllAttempts(ctx, "")
	if err != nil {
		log.Printf("Failed to fetch attempts for leaderboard: %v", err)
		return nil, err
	}

	top := TopAttempts(attempts, s.size)

	titles := make(map[string]string)
	entries := make([]models.LeaderboardEntry, 0, len(top))
	for i, attempt := range top {
		entry := models.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         attempt.UserID,
			Name:           constants.UnknownProfileName,
			Score:          attempt.Score,
			ElapsedSeconds: int64(attempt.Elapsed() / time.Second),
			SubmittedAt:    attempt.SubmittedAt,
		}

		if profile, err := s.profiles.GetProfile(ctx, attempt.UserID); err == nil {
			if profile.Name != "" {
				entry.Name = profile.Name
			}
			entry.ClassName = profile.ClassName
			entry.AvatarURL = s.resolveAvatar(ctx, profile.AvatarRef)
		}

		title, ok := titles[attempt.TestID]
		if !ok {
			if test, err := s.tests.GetTestByID(ctx, attempt.TestID); err == nil {
				title = test.Title
			}
			titles[attempt.TestID] = title
		}
		entry.TestTitle = title

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Service) resolveAvatar(ctx context.Context, avatarRef string) string {
	if avatarRef == "" {
		return ""
	}
	if s.avatars == nil {
		return avatarRef
	}
	url, err := s.avatars.AvatarURL(ctx, avatarRef, avatarURLExpiry)
	if err != nil {
		log.Printf("Failed to resolve avatar %s: %v", avatarRef, err)
		return avatarRef
	}
	return url
}

// Top serves the cached snapshot when one exists and recomputes otherwise.
func (s *Service) Top(ctx context.Context) []models.LeaderboardEntry {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey); err == nil {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries
			}
		}
	}
	return s.Recompute(ctx)
}

// Recompute re-runs the aggregation, refreshes the cache, and notifies live
// observers. A failed aggregation drops the cached snapshot instead of
// replacing it with an empty board, and observers are left untouched.
func (s *Service) Recompute(ctx context.Context) []models.LeaderboardEntry {
	entries, err := s.compute(ctx)
	if err != nil {
		if s.redisClient != nil {
			if err := s.redisClient.Delete(ctx, cacheKey); err != nil {
				log.Printf("Failed to drop cached leaderboard: %v", err)
			}
		}
		return []models.LeaderboardEntry{}
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, string(data), cacheTTL); err != nil {
				log.Printf("Failed to cache leaderboard: %v", err)
			}
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeaderboard(entries)
	}

	return entries
}

// RunConsumer recomputes on every attempt-recorded event until deliveries
// stop. A new attempt in the store invalidates the previous ranking.
func (s *Service) RunConsumer(deliveries <-chan amqp.Delivery) {
	for delivery := range deliveries {
		log.Printf("Leaderboard recompute triggered by %s", constants.QueueAttemptRecorded)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		s.Recompute(ctx)
		cancel()

		if err := delivery.Ack(false); err != nil {
			log.Printf("Failed to ack attempt_recorded delivery: %v", err)
		}
	}
}
