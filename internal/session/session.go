package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/constants"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

// AttemptStore is the persistence collaborator for finished attempts.
type AttemptStore interface {
	InsertAttempt(ctx context.Context, attempt *models.AttemptRecord) error
}

// Publisher emits events about persisted attempts. A nil publisher disables
// event emission.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// Session drives one timed attempt for one user. All state transitions are
// serialized by the session mutex; the transition into finished happens
// exactly once, whichever of the final advance or the expiry tick gets there
// first.
type Session struct {
	mu sync.Mutex

	userID    string
	test      *models.Test
	questions []*models.Question

	index     int
	answers   map[string]string
	score     int
	remaining int
	startedAt time.Time

	started  bool
	finished bool

	record     *models.AttemptRecord
	submitErr  error
	submitDone chan struct{}
	cancelTick func()

	store     AttemptStore
	publisher Publisher
	now       func() time.Time
}

// SessionView is the read-only snapshot handed to the HTTP surface.
type SessionView struct {
	Status          string            `json:"status"`
	TestID          string            `json:"test_id"`
	TestTitle       string            `json:"test_title"`
	QuestionIndex   int               `json:"question_index"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentQuestion *models.Question  `json:"current_question,omitempty"`
	Answers         map[string]string `json:"answers"`
	RemainingSec    int               `json:"remaining_seconds"`
	Score           int               `json:"score"`
	ResultVisible   bool              `json:"result_visible"`
	SubmitFailed    bool              `json:"submit_failed"`
}

// SelectAnswer records or overwrites the chosen option for the current
// question. It never advances the index and never touches the score.
func (s *Session) SelectAnswer(questionID, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished {
		return ErrSessionNotActive
	}
	if !constants.ValidOption(option) {
		return ErrInvalidOption
	}
	if s.questions[s.index].ID != questionID {
		return ErrWrongQuestion
	}

	s.answers[questionID] = option
	return nil
}

// Advance evaluates the current question and either moves to the next one or
// finishes the session. A non-final question must be answered first; the
// final question may always be advanced so the forced-submission path stays
// open.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished {
		return ErrSessionNotActive
	}

	q := s.questions[s.index]
	answer, answered := s.answers[q.ID]
	last := s.index == len(s.questions)-1

	if !answered && !last {
		return ErrAnswerRequired
	}
	if answered && answer == q.CorrectOption {
		s.score++
	}

	if last {
		s.finishLocked()
		return nil
	}

	s.index++
	return nil
}

// tick runs once per second while the session is live.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.finished {
		return
	}

	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		// Expiry submits whatever score has accumulated; questions past the
		// current index are not evaluated.
		s.finishLocked()
	}
}

// finishLocked is the single legal transition into the finished state. The
// caller holds the session mutex; the finished flag is the latch that keeps
// the advance path and the expiry path from both submitting.
func (s *Session) finishLocked() {
	if s.finished {
		return
	}
	s.finished = true

	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}

	s.record = &models.AttemptRecord{
		ID:             uuid.New().String(),
		UserID:         s.userID,
		TestID:         s.test.ID,
		Score:          s.score,
		TotalQuestions: len(s.questions),
		StartedAt:      s.startedAt,
		SubmittedAt:    s.now(),
	}

	go s.submit(s.record)
}

// submit writes the attempt record and publishes the recorded event. It runs
// off the caller's goroutine so neither the API nor the countdown ever waits
// on the store. A failed write is reported, not retried; the in-memory score
// and result stay visible either way.
func (s *Session) submit(record *models.AttemptRecord) {
	defer close(s.submitDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.store.InsertAttempt(ctx, record); err != nil {
		log.Printf("Failed to persist attempt for user %s: %v", s.userID, err)
		s.mu.Lock()
		s.submitErr = err
		s.mu.Unlock()
		return
	}

	s.publishAttemptRecorded(ctx, record)
}

func (s *Session) publishAttemptRecorded(ctx context.Context, record *models.AttemptRecord) {
	if s.publisher == nil {
		return
	}

	type AttemptRecordedEvent struct {
		AttemptID string `json:"attempt_id"`
		UserID    string `json:"user_id"`
		TestID    string `json:"test_id"`
		Score     int    `json:"score"`
	}

	event := AttemptRecordedEvent{
		AttemptID: record.ID,
		UserID:    record.UserID,
		TestID:    record.TestID,
		Score:     record.Score,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal attempt_recorded event: %v", err)
		return
	}

	if err := s.publisher.Publish(ctx, constants.QueueAttemptRecorded, eventJSON); err != nil {
		log.Printf("Failed to publish attempt_recorded event: %v", err)
	}
}

// dispose cancels the periodic tick without submitting. An abandoned session
// produces no attempt record.
func (s *Session) dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
	s.started = false
}

// SubmitDone is closed once the asynchronous submission has run its course,
// success or failure.
func (s *Session) SubmitDone() <-chan struct{} {
	return s.submitDone
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		Status:         constants.SessionStatusRunning,
		TestID:         s.test.ID,
		TestTitle:      s.test.Title,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions),
		RemainingSec:   s.remaining,
		Answers:        make(map[string]string, len(s.answers)),
	}
	for id, option := range s.answers {
		view.Answers[id] = option
	}

	if s.finished {
		view.Status = constants.SessionStatusFinished
		view.Score = s.score
		view.ResultVisible = true
		view.SubmitFailed = s.submitErr != nil
		return view
	}

	view.CurrentQuestion = s.questions[s.index]
	return view
}
