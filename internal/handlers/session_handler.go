package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/dto"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/repository"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/session"
)

// TestStore is the question-store collaborator: everything the session
// surface needs to know about tests lives behind it.
type TestStore interface {
	GetTests(ctx context.Context) ([]*models.Test, error)
	GetTestByID(ctx context.Context, testID string) (*models.Test, error)
	GetQuestionsByTestID(ctx context.Context, testID string) ([]*models.Question, error)
}

type SessionHandler struct {
	engine *session.Engine
	tests  TestStore
}

func NewSessionHandler(engine *session.Engine, tests TestStore) *SessionHandler {
	return &SessionHandler{
		engine: engine,
		tests:  tests,
	}
}

// ListTests backs the selection screen. A store failure leaves the screen
// retryable, it never takes the portal down.
func (h *SessionHandler) ListTests(c *gin.Context) {
	tests, err := h.tests.GetTests(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list tests: %v", err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to load tests, please retry")
		return
	}
	if tests == nil {
		tests = []*models.Test{}
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	testID := c.Param("id")
	test, err := h.tests.GetTestByID(c.Request.Context(), testID)
	if err != nil {
		if errors.Is(err, repository.ErrTestNotFound) {
			dto.JsonError(c, http.StatusNotFound, "Test not found")
			return
		}
		log.Printf("Failed to get test %s: %v", testID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to load test, please retry")
		return
	}

	questions, err := h.tests.GetQuestionsByTestID(c.Request.Context(), testID)
	if err != nil {
		log.Printf("Failed to get questions for test %s: %v", testID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to load questions, please retry")
		return
	}

	s, err := h.engine.Start(userID, test, questions)
	if err != nil {
		if errors.Is(err, session.ErrNoQuestions) {
			dto.JsonError(c, http.StatusNotFound, "Test has no questions")
			return
		}
		dto.JsonError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) SelectAnswer(c *gin.Context) {
	s, ok := h.currentSession(c)
	if !ok {
		return
	}

	var req dto.SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.SelectAnswer(req.QuestionID, req.Option); err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.View())
}

func (h *SessionHandler) Advance(c *gin.Context) {
	s, ok := h.currentSession(c)
	if !ok {
		return
	}

	if err := s.Advance(); err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.View())
}

// DiscardSession drops the in-memory session without producing an attempt
// record, the navigate-away path.
func (h *SessionHandler) DiscardSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	h.engine.Discard(userID)
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

func (h *SessionHandler) currentSession(c *gin.Context) (*session.Session, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return nil, false
	}

	s, err := h.engine.Get(userID)
	if err != nil {
		dto.JsonError(c, http.StatusNotFound, "No active session")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotActive):
		dto.JsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrAnswerRequired),
		errors.Is(err, session.ErrInvalidOption),
		errors.Is(err, session.ErrWrongQuestion):
		dto.JsonError(c, http.StatusBadRequest, err.Error())
	default:
		dto.JsonError(c, http.StatusInternalServerError, err.Error())
	}
}
