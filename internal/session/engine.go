package session

import (
	"sync"
	"time"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

// Engine owns the active sessions, one per user. Starting a test while a
// prior session is still running discards that session entirely; there is no
// merge and no resumption.
type Engine struct {
	mu     sync.Mutex
	active map[string]*Session

	store     AttemptStore
	publisher Publisher
	scheduler Scheduler
	now       func() time.Time
}

func NewEngine(store AttemptStore, publisher Publisher, scheduler Scheduler) *Engine {
	return &Engine{
		active:    make(map[string]*Session),
		store:     store,
		publisher: publisher,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Start creates and runs a fresh session. The question list must be the
// stable ordered list fetched for this test; an empty list refuses to start.
func (e *Engine) Start(userID string, test *models.Test, questions []*models.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.active[userID]; ok {
		prev.dispose()
	}

	s := &Session{
		userID:     userID,
		test:       test,
		questions:  questions,
		answers:    make(map[string]string),
		remaining:  test.DurationMinutes * 60,
		startedAt:  e.now(),
		started:    true,
		submitDone: make(chan struct{}),
		store:      e.store,
		publisher:  e.publisher,
		now:        e.now,
	}
	s.cancelTick = e.scheduler.Every(time.Second, s.tick)

	e.active[userID] = s
	return s, nil
}

// Get returns the user's current session, finished or not.
func (e *Engine) Get(userID string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.active[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Discard drops the user's session without submitting, as when the student
// navigates away mid-test.
func (e *Engine) Discard(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s, ok := e.active[userID]; ok {
		s.dispose()
		delete(e.active, userID)
	}
}
