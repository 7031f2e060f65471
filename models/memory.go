package models

import "time"

const (
	MemoryTypePreference = "preference"
	MemoryTypeWeakness   = "weakness"
	MemoryTypeGoal       = "goal"
	MemoryTypeBehavior   = "behavior"
	MemoryTypeContext    = "context"
)

// MemoryCategories is the fixed ordering used everywhere memories are
// grouped or rendered.
var MemoryCategories = []string{
	MemoryTypePreference,
	MemoryTypeWeakness,
	MemoryTypeGoal,
	MemoryTypeBehavior,
	MemoryTypeContext,
}

type MemoryRecord struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	MemoryType string    `json:"memory_type" db:"memory_type"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func IsValidMemoryType(t string) bool {
	for _, known := range MemoryCategories {
		if t == known {
			return true
		}
	}
	return false
}
