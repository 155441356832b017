package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
)

var ErrUserNotFound = fmt.Errorf("user not found")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, name, class_name, avatar_ref
		FROM users
		WHERE id = $1
	`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.ClassName,
		&profile.AvatarRef,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO users (id, name, class_name, avatar_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			class_name = EXCLUDED.class_name,
			avatar_ref = EXCLUDED.avatar_ref
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Name,
		profile.ClassName,
		profile.AvatarRef,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
