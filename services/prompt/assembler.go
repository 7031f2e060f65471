package prompt

import (
	"fmt"
	"strings"

	"campusgpt/models"
	"campusgpt/services/tone"

	"github.com/samber/lo"
)

// Assemble builds the full system instruction for one model call. Pure given
// its inputs: no network or storage access, and no error conditions - absent
// inputs degrade to omitted sections.
//
// Exam Mode requires both the active flag and a non-nil context; any other
// combination falls back to Normal Mode.
func Assemble(
	examMode models.ExamMode,
	profile *models.UserProfile,
	instructions *models.CustomInstructions,
	memories []*models.MemoryRecord,
	currentTone models.ToneTag,
	toneHistory []models.ToneTag,
) string {
	if examMode.Active && examMode.Context != nil {
		return assembleExamPrompt(examMode.Context, profile)
	}
	return assembleNormalPrompt(profile, instructions, memories, currentTone, toneHistory)
}

func assembleExamPrompt(examContext *models.ExamContext, profile *models.UserProfile) string {
	examType := examContext.ExamType
	if label, ok := examTypeLabels[examType]; ok {
		examType = label
	}

	var b strings.Builder
	b.WriteString("## EXAM MODE ACTIVE - STRICT ACADEMIC RESPONSE PROTOCOL\n\n")
	fmt.Fprintf(&b, "You are now in EXAM MODE for a college student preparing for their %s.\n\n", examType)

	b.WriteString("### Exam Context:\n")
	fmt.Fprintf(&b, "- **Subject**: %s\n", examContext.SubjectName)
	fmt.Fprintf(&b, "- **Semester**: %s\n", orDefault(examContext.Semester, "Not specified"))
	fmt.Fprintf(&b, "- **Exam Type**: %s\n", examType)
	fmt.Fprintf(&b, "- **Marks Style**: %s\n", orDefault(examContext.MarksStyle, "Not specified"))
	if len(examContext.Units) > 0 {
		fmt.Fprintf(&b, "- **Syllabus Scope**: %s\n", strings.Join(examContext.Units, ", "))
	} else {
		b.WriteString("- **Scope**: Complete syllabus\n")
	}

	b.WriteString("\n### CRITICAL RULES (MUST FOLLOW):\n\n")
	fmt.Fprintf(&b, `1. **SYLLABUS BOUNDARIES**: ONLY answer questions within the selected subject and units. If a question is outside the exam syllabus, respond EXACTLY with:
   "This topic is outside your selected exam syllabus for %s. Please ask questions related to your exam scope."

`, examContext.SubjectName)

	b.WriteString(`2. **ANSWER STRUCTURE** (Follow this format for every response):
   - **Definition**: Clear, concise definition (1-2 sentences)
   - **Key Points**: Bullet points covering essential concepts
   - **Diagram Suggestion**: If applicable, describe what diagram would help
   - **Conclusion**: Brief summary for exam writing

3. **TONE REQUIREMENTS**:
   - Formal and academic language ONLY
   - NO emojis, NO casual expressions
   - NO motivational or encouraging statements
   - NO phrases like "Great question!" or "Happy to help!"
   - Respond like a strict faculty member

4. **CONTENT RESTRICTIONS**:
   - Use ONLY syllabus content and faculty-provided material
   - NO external knowledge or web-sourced information
   - NO over-explanation - keep answers exam-focused
   - Prioritize marks-oriented answers

5. **FORMAT FOR MARKS**:
`)
	b.WriteString(marksFormatGuidance(examContext.MarksStyle))

	b.WriteString(`
6. **PROHIBITED BEHAVIORS**:
   - Do NOT hallucinate or make up information
   - Do NOT provide answers for unrelated subjects
   - Do NOT engage in casual conversation
   - Do NOT offer study tips or motivation
   - Do NOT use external examples outside syllabus

Remember: You are a strict exam preparation assistant. Your goal is to help the student write perfect exam answers, nothing more.`)

	// Only minimal identity in exam mode. Memory, custom instructions and
	// tone guidance must not influence exam answers.
	if profile != nil {
		b.WriteString("\n\n## Student Info:\n")
		fmt.Fprintf(&b, "- Name: %s\n", orDefault(profile.FullName, "Student"))
		fmt.Fprintf(&b, "- Branch: %s\n", orDefault(profile.Branch, "Not specified"))
		fmt.Fprintf(&b, "- Semester: %s", orDefault(profile.Semester, "Not specified"))
	}

	return b.String()
}

func marksFormatGuidance(marksStyle string) string {
	switch marksStyle {
	case "2 marks":
		return `   - Keep answers to 2-3 sentences with key terms
   - Focus on definitions and core concepts
`
	case "5 marks":
		return `   - Provide structured answers with 4-5 key points
   - Include one example or application
`
	case "10 marks":
		return `   - Comprehensive answers with introduction, body, conclusion
   - Include diagrams suggestion, examples, and applications
   - Cover all aspects of the topic
`
	default:
		return `   - Adapt answer length based on question complexity
   - For definition-type: 2-3 sentences
   - For explanation-type: 4-5 key points with examples
   - For essay-type: Full structured response
`
	}
}

func assembleNormalPrompt(
	profile *models.UserProfile,
	instructions *models.CustomInstructions,
	memories []*models.MemoryRecord,
	currentTone models.ToneTag,
	toneHistory []models.ToneTag,
) string {
	var b strings.Builder
	b.WriteString(NormalSystemPrompt)

	if profile != nil && (profile.Branch != "" || profile.Semester != "") {
		b.WriteString("\n\n## Current Student Context\n")
		fmt.Fprintf(&b, "- Student Name: %s\n", orDefault(profile.FullName, "Student"))
		fmt.Fprintf(&b, "- Branch/Course: %s\n", orDefault(profile.Branch, "Not set"))
		fmt.Fprintf(&b, "- Semester: %s\n", orDefault(profile.Semester, "Not set"))
		b.WriteString("\nUse this context to provide personalized responses. Prioritize content relevant to their branch and semester.")
	}

	if instructions != nil {
		if instructions.AboutMe != "" {
			b.WriteString("\n\n## What the student wants you to know about them:\n")
			b.WriteString(instructions.AboutMe)
		}
		if instructions.ResponseStyle != "" {
			b.WriteString("\n\n## How the student wants you to respond:\n")
			b.WriteString(instructions.ResponseStyle)
		}
	}

	if len(memories) > 0 {
		b.WriteString("\n\n## Student's Academic Profile (from memory):")

		for _, category := range models.MemoryCategories {
			records := lo.Filter(memories, func(m *models.MemoryRecord, _ int) bool {
				return m.MemoryType == category
			})
			if len(records) == 0 {
				continue
			}

			fmt.Fprintf(&b, "\n\n### %s:", categoryHeadings[category])
			for _, record := range records {
				fmt.Fprintf(&b, "\n- %s", record.Content)
			}
		}

		b.WriteString("\n\nUse these memories to personalize your responses. Reference relevant memories when appropriate.")
	}

	if guidance := tone.Guidance(currentTone, toneHistory); guidance != "" {
		b.WriteString("\n\n## Emotional Guidance:\n")
		b.WriteString(guidance)
	}

	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
