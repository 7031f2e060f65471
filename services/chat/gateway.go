package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"campusgpt/models"
)

// Distinguishable gateway failure kinds. The caller decides how to render
// them; this core never retries.
var (
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrQuotaExhausted = errors.New("ai credits depleted")
)

// ChatStreamer issues one streaming chat-completion call and delivers
// reconstructed text fragments, in order, to the callback.
type ChatStreamer interface {
	StreamChat(ctx context.Context, systemPrompt string, messages []models.ChatMessage, onFragment func(string)) error
}

// Gateway talks to an OpenAI-compatible chat-completion endpoint.
type Gateway struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGateway(baseURL, apiKey, model string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

// StreamChat sends the assembled messages with streaming enabled and feeds
// the response bytes through a StreamDecoder. Cancelling ctx stops byte
// consumption promptly and surfaces the context error.
func (g *Gateway) StreamChat(ctx context.Context, systemPrompt string, messages []models.ChatMessage, onFragment func(string)) error {
	payload := chatCompletionRequest{
		Model:    g.model,
		Messages: append([]models.ChatMessage{{Role: "system", Content: systemPrompt}}, messages...),
		Stream:   true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build chat completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call ai gateway: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrQuotaExhausted
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[ERROR] AI gateway error: %d %s", resp.StatusCode, errorText)
		return fmt.Errorf("ai gateway returned status %d", resp.StatusCode)
	}

	decoder := &StreamDecoder{}
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			for _, fragment := range decoder.Feed(buf[:n]) {
				onFragment(fragment)
			}
		}
		if decoder.Done() {
			return nil
		}
		if err == io.EOF {
			// Stream ended before the sentinel; every fragment emitted so
			// far has already been delivered.
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read ai gateway stream: %w", err)
		}
	}
}
