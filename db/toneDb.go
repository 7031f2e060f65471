package db

import (
	"database/sql"
	"fmt"

	"campusgpt/models"

	_ "github.com/lib/pq"
)

type ToneRepository interface {
	ListRecentTones(userID string, n int) ([]models.ToneTag, error)
	RecordTone(userID string, tag models.ToneTag) error
}

type PostgresToneRepository struct {
	db *sql.DB
}

func NewPostgresToneRepository(databaseURL string) (*PostgresToneRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresToneRepository{db: db}, nil
}

// ListRecentTones returns up to n tags, most recent first.
func (r *PostgresToneRepository) ListRecentTones(userID string, n int) ([]models.ToneTag, error) {
	query := `
		SELECT tone
		FROM tone_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tones: %w", err)
	}
	defer rows.Close()

	var tags []models.ToneTag
	for rows.Next() {
		var tag models.ToneTag
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tone row: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tone rows: %w", err)
	}

	return tags, nil
}

func (r *PostgresToneRepository) RecordTone(userID string, tag models.ToneTag) error {
	query := `INSERT INTO tone_history (user_id, tone) VALUES ($1, $2)`

	if _, err := r.db.Exec(query, userID, string(tag)); err != nil {
		return fmt.Errorf("failed to record tone: %w", err)
	}

	return nil
}

func (r *PostgresToneRepository) Close() error {
	return r.db.Close()
}
