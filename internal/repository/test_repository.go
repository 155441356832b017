package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

var ErrTestNotFound = fmt.Errorf("test not found")

type TestRepository struct {
	db *sql.DB
}

func NewTestRepository(db *sql.DB) *TestRepository {
	return &TestRepository{db: db}
}

func (r *TestRepository) GetTestByID(ctx context.Context, testID string) (*models.Test, error) {
	query := `
		SELECT id, class_name, subject, title, description, duration_minutes
		FROM tests
		WHERE id = $1
	`
	test := &models.Test{}
	err := r.db.QueryRowContext(ctx, query, testID).Scan(
		&test.ID,
		&test.ClassName,
		&test.Subject,
		&test.Title,
		&test.Description,
		&test.DurationMinutes,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return test, nil
}

func (r *TestRepository) GetTests(ctx context.Context) ([]*models.Test, error) {
	query := `
		SELECT id, class_name, subject, title, description, duration_minutes
		FROM tests
		ORDER BY class_name, subject, title
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	defer rows.Close()

	var tests []*models.Test
	for rows.Next() {
		test := &models.Test{}
		err := rows.Scan(
			&test.ID,
			&test.ClassName,
			&test.Subject,
			&test.Title,
			&test.Description,
			&test.DurationMinutes,
		)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

// GetQuestionsByTestID returns the test's questions in their stable authoring
// order. A session fetches this list once at start and never re-fetches.
func (r *TestRepository) GetQuestionsByTestID(ctx context.Context, testID string) ([]*models.Question, error) {
	query := `
		SELECT id, test_id, text, option_a, option_b, option_c, option_d, correct_option, order_index
		FROM questions
		WHERE test_id = $1
		ORDER BY order_index, id
	`
	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q := &models.Question{}
		err := rows.Scan(
			&q.ID,
			&q.TestID,
			&q.Text,
			&q.OptionA,
			&q.OptionB,
			&q.OptionC,
			&q.OptionD,
			&q.CorrectOption,
			&q.OrderIndex,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
