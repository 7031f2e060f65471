package memory

import (
	"fmt"
	"log"
	"strings"

	"campusgpt/db"
	"campusgpt/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Service serves the memory viewer surface: listing, deleting and searching
// a user's extracted records. Records are created only by the extractor.
type Service struct {
	repo db.MemoryRepository
}

func NewService(repo db.MemoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListMemories(userID string) ([]*models.MemoryRecord, error) {
	log.Printf("[INFO] Starting list memories for user %s", userID)

	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	records, err := s.repo.ListMemories(userID)
	if err != nil {
		log.Printf("[ERROR] Failed to list memories for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}

	log.Printf("[INFO] Successfully listed %d memories for user %s", len(records), userID)
	return records, nil
}

func (s *Service) DeleteMemory(userID, id string) error {
	log.Printf("[INFO] Starting delete memory %s for user %s", id, userID)

	if userID == "" || id == "" {
		return fmt.Errorf("user ID and memory ID are required")
	}

	if err := s.repo.DeleteMemory(userID, id); err != nil {
		log.Printf("[ERROR] Failed to delete memory %s: %v", id, err)
		return err
	}

	log.Printf("[INFO] Successfully deleted memory %s", id)
	return nil
}

func (s *Service) SearchMemories(userID string, searchTerms []string) ([]*models.MemoryRecord, error) {
	log.Printf("[INFO] Starting memory search with %d search terms", len(searchTerms))

	records, err := s.ListMemories(userID)
	if err != nil {
		return nil, err
	}

	if len(searchTerms) == 0 {
		log.Printf("[INFO] No search terms provided, returning all %d memories", len(records))
		return records, nil
	}

	var matching []*models.MemoryRecord
	for _, record := range records {
		if s.recordMatchesSearch(record, searchTerms) {
			matching = append(matching, record)
		}
	}

	log.Printf("[INFO] Found %d memories matching search criteria", len(matching))
	return matching, nil
}

// Matching is word-level on purpose: a subsequence match over the full
// content lets short terms collect letters across word boundaries and
// return almost everything.
func (s *Service) recordMatchesSearch(record *models.MemoryRecord, searchTerms []string) bool {
	words := strings.Fields(record.Content)

	cleanWords := make([]string, 0, len(words))
	for _, word := range words {
		cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
		if len(cleanWord) > 0 {
			cleanWords = append(cleanWords, cleanWord)
		}
	}

	for _, term := range searchTerms {
		if len(fuzzy.FindFold(term, cleanWords)) > 0 {
			return true
		}
	}

	return false
}
