package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"campusgpt/models"
	"campusgpt/services/examgen"

	"github.com/gorilla/mux"
)

type ExamHandler struct {
	service *examgen.Service
}

func NewExamHandler(service *examgen.Service) *ExamHandler {
	return &ExamHandler{service: service}
}

func (h *ExamHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/generate-exam", h.GenerateExam).Methods("POST")
}

type GenerateExamRequest struct {
	SubjectName string `json:"subjectName"`
	ExamType    string `json:"examType"`
}

type GenerateExamResponse struct {
	Questions []models.ExamQuestion `json:"questions"`
	Error     string                `json:"error,omitempty"`
}

func (h *ExamHandler) GenerateExam(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received exam generation request")

	var req GenerateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode exam request JSON: %v", err)
		h.writeJSONResponse(w, http.StatusBadRequest, GenerateExamResponse{Questions: []models.ExamQuestion{}, Error: "Invalid JSON payload"})
		return
	}

	if req.SubjectName == "" {
		h.writeJSONResponse(w, http.StatusBadRequest, GenerateExamResponse{Questions: []models.ExamQuestion{}, Error: "subjectName is required"})
		return
	}

	questions, err := h.service.Generate(r.Context(), req.SubjectName, req.ExamType)
	if err != nil {
		log.Printf("[ERROR] Exam generation failed: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError, GenerateExamResponse{Questions: []models.ExamQuestion{}, Error: err.Error()})
		return
	}

	log.Printf("[INFO] Exam generation completed with %d questions", len(questions))
	h.writeJSONResponse(w, http.StatusOK, GenerateExamResponse{Questions: questions})
}

func (h *ExamHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
