package models

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type UserProfile struct {
	FullName string `json:"full_name"`
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
}

type CustomInstructions struct {
	UserID        string `json:"user_id,omitempty"`
	ResponseStyle string `json:"response_style"`
	AboutMe       string `json:"about_me"`
}

type ExamContext struct {
	ExamType    string   `json:"exam_type"`
	SubjectName string   `json:"subject_name"`
	Units       []string `json:"units"`
	MarksStyle  string   `json:"marks_style"`
	Semester    string   `json:"semester"`
}

type ExamMode struct {
	Active  bool         `json:"active"`
	Context *ExamContext `json:"context"`
}

// SessionState is everything the UI collaborator supplies for one turn.
type SessionState struct {
	Messages           []ChatMessage       `json:"messages"`
	UserID             string              `json:"userId"`
	UserContext        *UserProfile        `json:"userContext"`
	CustomInstructions *CustomInstructions `json:"customInstructions"`
	ExamMode           ExamMode            `json:"examMode"`
}
