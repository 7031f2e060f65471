package db

import (
	"database/sql"
	"fmt"

	"campusgpt/models"

	_ "github.com/lib/pq"
)

type MemoryRepository interface {
	ListMemories(userID string) ([]*models.MemoryRecord, error)
	ListMemoriesByType(userID, memoryType string) ([]*models.MemoryRecord, error)
	InsertMemory(record *models.MemoryRecord) error
	DeleteMemory(userID, id string) error
}

type PostgresMemoryRepository struct {
	db *sql.DB
}

func NewPostgresMemoryRepository(databaseURL string) (*PostgresMemoryRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMemoryRepository{db: db}, nil
}

func (r *PostgresMemoryRepository) ListMemories(userID string) ([]*models.MemoryRecord, error) {
	query := `
		SELECT id, user_id, memory_type, content, created_at
		FROM student_memories
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

func (r *PostgresMemoryRepository) ListMemoriesByType(userID, memoryType string) ([]*models.MemoryRecord, error) {
	query := `
		SELECT id, user_id, memory_type, content, created_at
		FROM student_memories
		WHERE user_id = $1 AND memory_type = $2
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID, memoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories by type: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

func (r *PostgresMemoryRepository) InsertMemory(record *models.MemoryRecord) error {
	query := `
		INSERT INTO student_memories (id, user_id, memory_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(query, record.ID, record.UserID, record.MemoryType, record.Content).
		Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	return nil
}

func (r *PostgresMemoryRepository) DeleteMemory(userID, id string) error {
	query := `DELETE FROM student_memories WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("memory record not found")
	}

	return nil
}

func (r *PostgresMemoryRepository) Close() error {
	return r.db.Close()
}

func scanMemories(rows *sql.Rows) ([]*models.MemoryRecord, error) {
	var records []*models.MemoryRecord
	for rows.Next() {
		record := &models.MemoryRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.MemoryType, &record.Content, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memory rows: %w", err)
	}

	return records, nil
}
