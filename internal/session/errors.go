package session

import "errors"

var (
	// ErrNoQuestions means the selected test has no questions. Starting a
	// session is refused outright; this is not recoverable mid-session.
	ErrNoQuestions = errors.New("test has no questions")

	// ErrSessionNotActive marks a contract violation: answering or advancing
	// without a running session.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrAnswerRequired is returned when advancing a non-final question that
	// has no recorded answer.
	ErrAnswerRequired = errors.New("answer required before advancing")

	ErrInvalidOption = errors.New("invalid option label")
	ErrWrongQuestion = errors.New("question is not the current question")
	ErrNoSession     = errors.New("no session for user")
)
