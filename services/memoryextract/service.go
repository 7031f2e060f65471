package memoryextract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"campusgpt/db"
	"campusgpt/models"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

// MinWindowTurns is the smallest conversation window worth extracting from;
// shorter windows carry no reliable long-term signal.
const MinWindowTurns = 4

// dedupPrefixLength is how many leading characters of a candidate are
// matched against existing records. Intentionally cheap: near-duplicates
// without prefix overlap are accepted as a known limitation.
const dedupPrefixLength = 30

const extractionPromptTemplate = `You are a memory extraction system for an academic AI assistant. Analyze the following conversation and extract ONLY long-term academic memories that would be useful for future conversations.

Extract memories in these categories:
- preference: Learning style preferences (e.g., "Prefers step-by-step explanations", "Likes visual examples")
- weakness: Academic weak areas (e.g., "Struggles with recursion concepts", "Weak in calculus integration")
- goal: Academic goals (e.g., "Preparing for GATE exam", "Focusing on placements")
- behavior: Study behaviors (e.g., "Studies late at night", "Prefers short study sessions")
- context: Important context (e.g., "Has project deadline next week", "Taking 6 subjects this semester")

Rules:
1. ONLY extract academically relevant information
2. Each memory must be 1-2 lines maximum
3. Do not extract temporary information or specific question content
4. Do not extract emotional states (those are handled separately)
5. Return ONLY a JSON array with objects having "type" and "content" fields
6. If no memories worth storing, return empty array []

Conversation:
%s

Return ONLY valid JSON array, no other text:`

type Service struct {
	llm  llms.Model
	repo db.MemoryRepository
}

func NewService(llm llms.Model, repo db.MemoryRepository) *Service {
	return &Service{llm: llm, repo: repo}
}

type candidate struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Extract turns the recent conversation window into zero or more stored
// memory records and returns the records actually inserted. Windows below
// MinWindowTurns produce no model call and no store writes. Unparseable
// model output yields an empty result, never an error.
func (s *Service) Extract(ctx context.Context, window []models.ChatMessage, userID string) ([]*models.MemoryRecord, error) {
	if len(window) < MinWindowTurns {
		log.Printf("[INFO] Skipping memory extraction: window has %d turns, need %d", len(window), MinWindowTurns)
		return nil, nil
	}

	log.Printf("[INFO] Starting memory extraction for user %s over %d turns", userID, len(window))

	extractionPrompt := fmt.Sprintf(extractionPromptTemplate, formatConversation(window))
	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, extractionPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate extraction response: %w", err)
	}

	candidates := parseCandidates(completion)

	var stored []*models.MemoryRecord
	for _, c := range candidates {
		if c.Type == "" || c.Content == "" {
			continue
		}
		if !models.IsValidMemoryType(c.Type) {
			log.Printf("[INFO] Dropping extracted memory with unknown type %q", c.Type)
			continue
		}

		// Re-read at write time: overlapping passes can at worst produce a
		// surplus near-duplicate, never corruption.
		duplicate, err := s.isDuplicate(userID, c)
		if err != nil {
			log.Printf("[ERROR] Duplicate check failed for user %s: %v", userID, err)
			continue
		}
		if duplicate {
			log.Printf("[INFO] Suppressing near-duplicate %s memory for user %s", c.Type, userID)
			continue
		}

		record := &models.MemoryRecord{
			ID:         uuid.NewString(),
			UserID:     userID,
			MemoryType: c.Type,
			Content:    c.Content,
		}
		if err := s.repo.InsertMemory(record); err != nil {
			log.Printf("[ERROR] Failed to insert memory for user %s: %v", userID, err)
			continue
		}
		stored = append(stored, record)
	}

	log.Printf("[INFO] Memory extraction stored %d of %d candidates for user %s", len(stored), len(candidates), userID)
	return stored, nil
}

func (s *Service) isDuplicate(userID string, c candidate) (bool, error) {
	existing, err := s.repo.ListMemoriesByType(userID, c.Type)
	if err != nil {
		return false, fmt.Errorf("failed to list existing memories: %w", err)
	}

	prefix := strings.ToLower(contentPrefix(c.Content))
	for _, record := range existing {
		if strings.Contains(strings.ToLower(record.Content), prefix) {
			return true, nil
		}
	}
	return false, nil
}

func contentPrefix(content string) string {
	runes := []rune(content)
	if len(runes) > dedupPrefixLength {
		return string(runes[:dedupPrefixLength])
	}
	return content
}

// parseCandidates defensively unwraps the raw model output. Markdown code
// fences are stripped before parsing; anything that still fails to parse
// yields an empty slice.
func parseCandidates(raw string) []candidate {
	cleaned := stripCodeFences(raw)

	var candidates []candidate
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		log.Printf("[ERROR] Failed to parse extracted memories: %v", err)
		return nil
	}
	return candidates
}

func stripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func formatConversation(window []models.ChatMessage) string {
	var b strings.Builder
	for _, message := range window {
		fmt.Fprintf(&b, "%s: %s\n", message.Role, message.Content)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
