package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

type AttemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// InsertAttempt persists one finished attempt. Attempts are immutable; each
// submission is a single isolated insert, never an update.
func (r *AttemptRepository) InsertAttempt(ctx context.Context, attempt *models.AttemptRecord) error {
	query := `
		INSERT INTO attempts (id, user_id, test_id, score, total_questions, started_at, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.TestID,
		attempt.Score,
		attempt.TotalQuestions,
		attempt.StartedAt,
		attempt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

// GetAllAttempts returns the full attempt history, optionally filtered to one
// test. The leaderboard recomputes over the whole history every time.
func (r *AttemptRepository) GetAllAttempts(ctx context.Context, testID string) ([]*models.AttemptRecord, error) {
	query := `
		SELECT id, user_id, test_id, score, total_questions, started_at, submitted_at
		FROM attempts
	`
	var args []interface{}
	if testID != "" {
		query += ` WHERE test_id = $1`
		args = append(args, testID)
	}
	query += ` ORDER BY submitted_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.AttemptRecord
	for rows.Next() {
		a := &models.AttemptRecord{}
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.TestID,
			&a.Score,
			&a.TotalQuestions,
			&a.StartedAt,
			&a.SubmittedAt,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
