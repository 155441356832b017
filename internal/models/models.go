package models

import (
	"time"
)

type Test struct {
	ID              string `json:"id"`
	ClassName       string `json:"class_name"`
	Subject         string `json:"subject"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

type Question struct {
	ID            string `json:"id"`
	TestID        string `json:"test_id"`
	Text          string `json:"text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"-"` // "A", "B", "C" or "D"; never sent to clients
	OrderIndex    int    `json:"order_index"`
}

type AttemptRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TestID         string    `json:"test_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	StartedAt      time.Time `json:"started_at"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Elapsed is the attempt duration used for ranking. A negative value marks
// the record as ineligible.
func (a *AttemptRecord) Elapsed() time.Duration {
	return a.SubmittedAt.Sub(a.StartedAt)
}

type Profile struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	AvatarRef string `json:"avatar_ref"`
}

type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	ClassName      string    `json:"class_name"`
	AvatarURL      string    `json:"avatar_url"`
	Score          int       `json:"score"`
	TestTitle      string    `json:"test_title"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
