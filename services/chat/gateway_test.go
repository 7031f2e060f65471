package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusgpt/models"
)

func TestGatewayStreamChat(t *testing.T) {
	var receivedRequest chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &receivedRequest); err != nil {
			t.Errorf("failed to decode gateway request: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"Hel", "lo"} {
			io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\""+chunk+"\"}}]}\n\n")
			flusher.Flush()
		}
		io.WriteString(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "test-key", "test-model")

	var fragments []string
	err := gateway.StreamChat(context.Background(), "system prompt", []models.ChatMessage{{Role: "user", Content: "hi"}}, func(fragment string) {
		fragments = append(fragments, fragment)
	})
	if err != nil {
		t.Fatalf("StreamChat returned error: %v", err)
	}

	if strings.Join(fragments, "") != "Hello" {
		t.Errorf("expected fragments to reconstruct Hello, got %v", fragments)
	}

	if !receivedRequest.Stream {
		t.Errorf("expected stream:true in gateway request")
	}
	if len(receivedRequest.Messages) != 2 || receivedRequest.Messages[0].Role != "system" {
		t.Errorf("expected system message prepended, got %+v", receivedRequest.Messages)
	}
	if receivedRequest.Model != "test-model" {
		t.Errorf("expected configured model, got %q", receivedRequest.Model)
	}
}

func TestGatewayStreamChatErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"quota exhausted", http.StatusPaymentRequired, ErrQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			gateway := NewGateway(server.URL, "test-key", "test-model")
			err := gateway.StreamChat(context.Background(), "", nil, func(string) {})
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestGatewayStreamChatGenericFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "test-key", "test-model")
	err := gateway.StreamChat(context.Background(), "", nil, func(string) {})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("generic failure should not match a specific kind: %v", err)
	}
}

func TestGatewayStreamChatTruncatedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		// Connection closes without a [DONE] sentinel.
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "test-key", "test-model")

	var fragments []string
	err := gateway.StreamChat(context.Background(), "", nil, func(fragment string) {
		fragments = append(fragments, fragment)
	})
	if err != nil {
		t.Fatalf("truncated stream should terminate cleanly, got %v", err)
	}
	if strings.Join(fragments, "") != "partial" {
		t.Errorf("expected fragments emitted before truncation, got %v", fragments)
	}
}
