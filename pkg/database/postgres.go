package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createTables := `
		CREATE TABLE IF NOT EXISTS tests (
			id VARCHAR(255) PRIMARY KEY,
			class_name VARCHAR(100) NOT NULL,
			subject VARCHAR(100) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS questions (
			id VARCHAR(255) PRIMARY KEY,
			test_id VARCHAR(255) NOT NULL REFERENCES tests(id),
			text TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_option VARCHAR(1) NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_questions_test_id ON questions(test_id);
		CREATE TABLE IF NOT EXISTS attempts (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			test_id VARCHAR(255) NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			submitted_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_user_id ON attempts(user_id);
		CREATE INDEX IF NOT EXISTS idx_attempts_test_id ON attempts(test_id);
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			class_name VARCHAR(100) NOT NULL DEFAULT '',
			avatar_ref VARCHAR(500) NOT NULL DEFAULT ''
		);
	`

	if _, err := c.db.ExecContext(ctx, createTables); err != nil {
		return fmt.Errorf("failed to create portal tables: %w", err)
	}

	return nil
}
