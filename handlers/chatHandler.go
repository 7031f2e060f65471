package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"campusgpt/models"
	"campusgpt/services/chat"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	service *chat.Service
}

func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/campus-gpt", h.Chat).Methods("POST")
}

// sseChunk mirrors the delta framing the UI's stream reader expects.
type sseChunk struct {
	Choices []sseChoice `json:"choices"`
}

type sseChoice struct {
	Delta sseDelta `json:"delta"`
}

type sseDelta struct {
	Content string `json:"content"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received chat request")

	var state models.SessionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(state.Messages) == 0 {
		log.Printf("[ERROR] No messages provided in chat request")
		h.writeErrorResponse(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	turn := h.service.BeginTurn(&state)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Printf("[ERROR] Response writer does not support streaming")
		h.writeErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Detected-Tone", string(turn.Tone))
	w.Header().Set("X-Exam-Mode", fmt.Sprintf("%t", turn.ExamActive))

	started := false
	_, err := turn.Stream(r.Context(), func(fragment string) {
		started = true
		payload, marshalErr := json.Marshal(sseChunk{Choices: []sseChoice{{Delta: sseDelta{Content: fragment}}}})
		if marshalErr != nil {
			log.Printf("[ERROR] Failed to marshal stream chunk: %v", marshalErr)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		if started {
			// Headers and fragments are already on the wire; nothing left
			// to signal beyond ending the stream.
			log.Printf("[ERROR] Chat stream aborted after partial response: %v", err)
			return
		}
		h.writeStreamError(w, err)
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
	log.Printf("[INFO] Chat request completed successfully")
}

func (h *ChatHandler) writeStreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrRateLimited):
		h.writeErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	case errors.Is(err, chat.ErrQuotaExhausted):
		h.writeErrorResponse(w, http.StatusPaymentRequired, "AI credits depleted.")
	default:
		h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to get response")
	}
}

func (h *ChatHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
