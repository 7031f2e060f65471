package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"campusgpt/services/memory"

	"github.com/gorilla/mux"
)

type MemoryHandler struct {
	service *memory.Service
}

func NewMemoryHandler(service *memory.Service) *MemoryHandler {
	return &MemoryHandler{service: service}
}

func (h *MemoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/memories", h.ListMemories).Methods("GET")
	router.HandleFunc("/memories/search", h.SearchMemories).Methods("GET")
	router.HandleFunc("/memories/{id}", h.DeleteMemory).Methods("DELETE")
}

func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received list memories request")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	records, err := h.service.ListMemories(userID)
	if err != nil {
		log.Printf("[ERROR] List memories failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]any{"memories": records})
}

func (h *MemoryHandler) SearchMemories(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received memory search request")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	searchTerms := strings.Fields(r.URL.Query().Get("q"))

	records, err := h.service.SearchMemories(userID, searchTerms)
	if err != nil {
		log.Printf("[ERROR] Memory search failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]any{"memories": records})
}

func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received delete memory request")

	userID := r.URL.Query().Get("userId")
	id := mux.Vars(r)["id"]
	if userID == "" || id == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "userId and memory id are required")
		return
	}

	if err := h.service.DeleteMemory(userID, id); err != nil {
		log.Printf("[ERROR] Delete memory failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *MemoryHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *MemoryHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
