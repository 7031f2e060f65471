package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"campusgpt/models"
)

type fakeStreamer struct {
	fragments []string
	err       error

	lastSystemPrompt string
}

func (f *fakeStreamer) StreamChat(ctx context.Context, systemPrompt string, messages []models.ChatMessage, onFragment func(string)) error {
	f.lastSystemPrompt = systemPrompt
	if f.err != nil {
		return f.err
	}
	for _, fragment := range f.fragments {
		onFragment(fragment)
	}
	return nil
}

type fakeMemoryRepo struct {
	mu      sync.Mutex
	records []*models.MemoryRecord
	listErr error
}

func (f *fakeMemoryRepo) ListMemories(userID string) ([]*models.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*models.MemoryRecord{}, f.records...), nil
}

func (f *fakeMemoryRepo) ListMemoriesByType(userID, memoryType string) ([]*models.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matching []*models.MemoryRecord
	for _, record := range f.records {
		if record.MemoryType == memoryType {
			matching = append(matching, record)
		}
	}
	return matching, nil
}

func (f *fakeMemoryRepo) InsertMemory(record *models.MemoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeMemoryRepo) DeleteMemory(userID, id string) error {
	return nil
}

type fakeToneRepo struct {
	mu       sync.Mutex
	history  []models.ToneTag
	recorded []models.ToneTag
	listErr  error
}

func (f *fakeToneRepo) ListRecentTones(userID string, n int) ([]models.ToneTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.ToneTag{}, f.history...), nil
}

func (f *fakeToneRepo) RecordTone(userID string, tag models.ToneTag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, tag)
	return nil
}

type fakeExtractor struct {
	calls chan []models.ChatMessage
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{calls: make(chan []models.ChatMessage, 1)}
}

func (f *fakeExtractor) Extract(ctx context.Context, window []models.ChatMessage, userID string) ([]*models.MemoryRecord, error) {
	f.calls <- window
	return nil, nil
}

func userMessages(n int) []models.ChatMessage {
	var messages []models.ChatMessage
	for i := 0; i < n; i++ {
		messages = append(messages, models.ChatMessage{Role: "user", Content: "question"})
		if i < n-1 {
			messages = append(messages, models.ChatMessage{Role: "assistant", Content: "answer"})
		}
	}
	return messages
}

func TestBeginTurnNormalMode(t *testing.T) {
	memoryRepo := &fakeMemoryRepo{records: []*models.MemoryRecord{
		{MemoryType: models.MemoryTypeGoal, Content: "Preparing for GATE exam"},
	}}
	toneRepo := &fakeToneRepo{history: []models.ToneTag{models.ToneNeutral}}
	service := NewService(&fakeStreamer{}, memoryRepo, toneRepo, nil)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "I'm confused about paging"}},
	})

	if turn.Tone != models.ToneConfused {
		t.Errorf("expected confused tone, got %q", turn.Tone)
	}
	if turn.ExamActive {
		t.Errorf("expected normal mode")
	}
	if !strings.Contains(turn.SystemPrompt, "Preparing for GATE exam") {
		t.Errorf("expected memories in normal mode prompt")
	}
}

func TestBeginTurnExamModeExcludesPersonalization(t *testing.T) {
	memoryRepo := &fakeMemoryRepo{records: []*models.MemoryRecord{
		{MemoryType: models.MemoryTypeGoal, Content: "Preparing for GATE exam"},
	}}
	service := NewService(&fakeStreamer{}, memoryRepo, &fakeToneRepo{}, nil)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "Define a process"}},
		CustomInstructions: &models.CustomInstructions{
			AboutMe: "I love long answers",
		},
		ExamMode: models.ExamMode{
			Active:  true,
			Context: &models.ExamContext{ExamType: "viva", SubjectName: "Operating Systems"},
		},
	})

	if !turn.ExamActive {
		t.Fatalf("expected exam mode to be active")
	}
	if strings.Contains(turn.SystemPrompt, "Preparing for GATE exam") {
		t.Errorf("exam prompt must not contain memories")
	}
	if strings.Contains(turn.SystemPrompt, "I love long answers") {
		t.Errorf("exam prompt must not contain custom instructions")
	}
}

func TestBeginTurnDegradesOnStoreFailure(t *testing.T) {
	memoryRepo := &fakeMemoryRepo{listErr: errors.New("db down")}
	toneRepo := &fakeToneRepo{listErr: errors.New("db down")}
	service := NewService(&fakeStreamer{}, memoryRepo, toneRepo, nil)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "hello"}},
	})

	if !strings.Contains(turn.SystemPrompt, "You are CampusGPT") {
		t.Errorf("store failure must still produce a usable prompt")
	}
}

func TestStreamTriggersExtractionOnFifthExchange(t *testing.T) {
	extractor := newFakeExtractor()
	service := NewService(&fakeStreamer{fragments: []string{"ok"}}, &fakeMemoryRepo{}, &fakeToneRepo{}, extractor)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: userMessages(5),
	})

	reply, err := turn.Stream(context.Background(), func(string) {})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if reply != "ok" {
		t.Errorf("expected accumulated reply, got %q", reply)
	}

	select {
	case window := <-extractor.calls:
		// The window includes the new assistant reply.
		if last := window[len(window)-1]; last.Role != "assistant" || last.Content != "ok" {
			t.Errorf("extraction window missing assistant reply, last = %+v", last)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an extraction pass on the fifth exchange")
	}
}

func TestStreamSkipsExtractionBetweenIntervals(t *testing.T) {
	extractor := newFakeExtractor()
	service := NewService(&fakeStreamer{fragments: []string{"ok"}}, &fakeMemoryRepo{}, &fakeToneRepo{}, extractor)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: userMessages(3),
	})

	if _, err := turn.Stream(context.Background(), func(string) {}); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	select {
	case <-extractor.calls:
		t.Fatal("extraction must not run between intervals")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStreamFailureSkipsExtractionAndToneWrite(t *testing.T) {
	extractor := newFakeExtractor()
	toneRepo := &fakeToneRepo{}
	streamer := &fakeStreamer{err: context.Canceled}
	service := NewService(streamer, &fakeMemoryRepo{}, toneRepo, extractor)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   "user-1",
		Messages: userMessages(5),
	})

	if _, err := turn.Stream(context.Background(), func(string) {}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}

	select {
	case <-extractor.calls:
		t.Fatal("cancelled turn must not trigger extraction")
	case <-time.After(100 * time.Millisecond):
	}

	toneRepo.mu.Lock()
	recorded := len(toneRepo.recorded)
	toneRepo.mu.Unlock()
	if recorded != 0 {
		t.Errorf("cancelled turn must not record a tone")
	}
}

func TestStreamSkipsPersistenceForDemoUser(t *testing.T) {
	extractor := newFakeExtractor()
	toneRepo := &fakeToneRepo{}
	service := NewService(&fakeStreamer{fragments: []string{"ok"}}, &fakeMemoryRepo{}, toneRepo, extractor)

	turn := service.BeginTurn(&models.SessionState{
		UserID:   DemoUserID,
		Messages: userMessages(5),
	})

	if _, err := turn.Stream(context.Background(), func(string) {}); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	select {
	case <-extractor.calls:
		t.Fatal("demo user must not trigger extraction")
	case <-time.After(100 * time.Millisecond):
	}
}
