package examgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"campusgpt/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/invopop/jsonschema"
)

const generatorSystemPrompt = `You are an exam question generator for college students. Only produce well-formed multiple choice questions and submit them with the submit_questions tool.`

const generationPromptTemplate = `Generate %d multiple choice questions for a %s exam on %s.
Each question should have 4 options with only one correct answer.
Topics should cover fundamental concepts that would be in a college curriculum.

Each question must have this structure:
{
  "id": "q1",
  "question": "What is the question?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correctAnswer": 0,
  "type": "mcq"
}

The correctAnswer is the index (0-3) of the correct option.
Make questions progressively harder. Include a mix of conceptual and application questions.`

type Service struct {
	client *anthropic.Client
}

func NewService(anthropicAPIKey string) *Service {
	client := anthropic.NewClient(option.WithAPIKey(anthropicAPIKey))
	return &Service{client: &client}
}

type submitQuestionsInput struct {
	Questions []models.ExamQuestion `json:"questions" jsonschema_description:"The generated multiple choice questions"`
}

// Generate produces a set of mock exam questions for a subject. On any
// failure it returns an empty slice alongside the error so callers can
// always render a questions array.
func (s *Service) Generate(ctx context.Context, subjectName, examType string) ([]models.ExamQuestion, error) {
	count := questionCount(examType)
	log.Printf("[INFO] Starting exam generation: subject=%q type=%q count=%d", subjectName, examType, count)

	generationPrompt := fmt.Sprintf(generationPromptTemplate, count, examTypeLabel(examType), subjectName)

	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude4Sonnet20250514,
		MaxTokens: 4096,
		System:    []anthropic.TextBlockParam{{Text: generatorSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(generationPrompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        "submit_questions",
					Description: anthropic.String("Submit the generated exam questions"),
					InputSchema: generateAnthropicSchema[submitQuestionsInput](),
				},
			},
		},
	})
	if err != nil {
		log.Printf("[ERROR] Failed to call Anthropic API for exam generation: %v", err)
		return []models.ExamQuestion{}, fmt.Errorf("failed to generate questions: %w", err)
	}

	textContent := ""
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			inputJSON, _ := json.Marshal(block.Input)
			var input submitQuestionsInput
			if err := json.Unmarshal(inputJSON, &input); err != nil {
				log.Printf("[ERROR] Failed to parse submit_questions input: %v", err)
				continue
			}
			if len(input.Questions) > 0 {
				log.Printf("[INFO] Successfully generated %d exam questions via tool", len(input.Questions))
				return input.Questions, nil
			}
		case anthropic.TextBlock:
			textContent += block.Text
		}
	}

	// The model sometimes answers with plain text instead of the tool; fall
	// back to pulling the first JSON array out of it.
	questions := parseQuestionsFromText(textContent)
	log.Printf("[INFO] Exam generation produced %d questions from text fallback", len(questions))
	return questions, nil
}

func questionCount(examType string) int {
	switch examType {
	case "mock_test":
		return 20
	case "mcq":
		return 10
	default:
		return 5
	}
}

func examTypeLabel(examType string) string {
	switch examType {
	case "mock_test":
		return "mock test"
	case "mcq":
		return "multiple choice"
	default:
		return "practice"
	}
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

func parseQuestionsFromText(text string) []models.ExamQuestion {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	match := jsonArrayPattern.FindString(cleaned)
	if match == "" {
		return []models.ExamQuestion{}
	}

	var questions []models.ExamQuestion
	if err := json.Unmarshal([]byte(match), &questions); err != nil {
		log.Printf("[ERROR] Failed to parse exam questions from text: %v", err)
		return []models.ExamQuestion{}
	}
	return questions
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}
