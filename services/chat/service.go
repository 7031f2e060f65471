package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"campusgpt/db"
	"campusgpt/models"
	"campusgpt/services/prompt"
	"campusgpt/services/tone"
)

const (
	// A memory-extraction pass runs after every extractionInterval-th
	// completed user exchange, over the last extractionWindow turns.
	extractionInterval = 5
	extractionWindow   = 10

	extractionTimeout = 60 * time.Second

	// DemoUserID gets no persisted tones or memories.
	DemoUserID = "demo-user"
)

// MemoryExtractor turns a conversation window into stored memory records.
type MemoryExtractor interface {
	Extract(ctx context.Context, window []models.ChatMessage, userID string) ([]*models.MemoryRecord, error)
}

type Service struct {
	gateway    ChatStreamer
	memoryRepo db.MemoryRepository
	toneRepo   db.ToneRepository
	extractor  MemoryExtractor
}

func NewService(gateway ChatStreamer, memoryRepo db.MemoryRepository, toneRepo db.ToneRepository, extractor MemoryExtractor) *Service {
	return &Service{
		gateway:    gateway,
		memoryRepo: memoryRepo,
		toneRepo:   toneRepo,
		extractor:  extractor,
	}
}

// PreparedTurn holds everything computed synchronously before the gateway
// call is issued.
type PreparedTurn struct {
	service      *Service
	state        *models.SessionState
	Tone         models.ToneTag
	ExamActive   bool
	SystemPrompt string
}

// BeginTurn runs the synchronous half of a turn: tone classification,
// history and memory reads, and prompt assembly, in that order. Store
// failures degrade to empty inputs, never an error.
func (s *Service) BeginTurn(state *models.SessionState) *PreparedTurn {
	log.Printf("[INFO] Starting turn preparation with %d messages", len(state.Messages))

	currentTone := tone.Classify(latestUserMessage(state.Messages))
	examActive := state.ExamMode.Active && state.ExamMode.Context != nil

	var toneHistory []models.ToneTag
	var memories []*models.MemoryRecord
	if personalized(state.UserID) && !examActive {
		var err error
		toneHistory, err = s.toneRepo.ListRecentTones(state.UserID, tone.HistorySize)
		if err != nil {
			log.Printf("[ERROR] Failed to fetch tone history: %v", err)
			toneHistory = nil
		}

		memories, err = s.memoryRepo.ListMemories(state.UserID)
		if err != nil {
			log.Printf("[ERROR] Failed to fetch memories: %v", err)
			memories = nil
		}
	}

	systemPrompt := prompt.Assemble(state.ExamMode, state.UserContext, state.CustomInstructions, memories, currentTone, toneHistory)

	log.Printf("[INFO] Prepared turn: tone=%s examMode=%t promptChars=%d", currentTone, examActive, len(systemPrompt))
	return &PreparedTurn{
		service:      s,
		state:        state,
		Tone:         currentTone,
		ExamActive:   examActive,
		SystemPrompt: systemPrompt,
	}
}

// Stream issues the chat-completion call and delivers fragments to the
// callback as they arrive. After a completed turn it records the detected
// tone and, on every Nth exchange, launches a memory-extraction pass; both
// are fire-and-forget and never run for a cancelled or failed turn.
func (t *PreparedTurn) Stream(ctx context.Context, onFragment func(string)) (string, error) {
	var reply strings.Builder
	err := t.service.gateway.StreamChat(ctx, t.SystemPrompt, t.state.Messages, func(fragment string) {
		reply.WriteString(fragment)
		onFragment(fragment)
	})
	if err != nil {
		log.Printf("[ERROR] Chat completion stream failed: %v", err)
		return reply.String(), err
	}

	log.Printf("[INFO] Chat completion stream finished with %d characters", reply.Len())
	t.service.afterTurn(t, reply.String())
	return reply.String(), nil
}

func (s *Service) afterTurn(t *PreparedTurn, reply string) {
	if !personalized(t.state.UserID) {
		return
	}

	userID := t.state.UserID
	detected := t.Tone
	go func() {
		if err := s.toneRepo.RecordTone(userID, detected); err != nil {
			log.Printf("[ERROR] Failed to record tone for user %s: %v", userID, err)
		}
	}()

	if t.ExamActive || s.extractor == nil {
		return
	}

	if countUserTurns(t.state.Messages)%extractionInterval != 0 {
		return
	}

	window := append(append([]models.ChatMessage{}, t.state.Messages...), models.ChatMessage{
		Role:    "assistant",
		Content: reply,
	})
	if len(window) > extractionWindow {
		window = window[len(window)-extractionWindow:]
	}

	// Detached from the request context so the next turn is never blocked
	// and navigation away cannot abort a pass already earned.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
		defer cancel()

		records, err := s.extractor.Extract(ctx, window, userID)
		if err != nil {
			log.Printf("[ERROR] Memory extraction failed for user %s: %v", userID, err)
			return
		}
		log.Printf("[INFO] Memory extraction stored %d records for user %s", len(records), userID)
	}()
}

func latestUserMessage(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func countUserTurns(messages []models.ChatMessage) int {
	count := 0
	for _, m := range messages {
		if m.Role == "user" {
			count++
		}
	}
	return count
}

func personalized(userID string) bool {
	return userID != "" && userID != DemoUserID
}
