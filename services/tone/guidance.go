package tone

import (
	"campusgpt/models"

	"github.com/samber/lo"
)

// HistorySize is how many prior tags the escalation rules look at.
const HistorySize = 5

const (
	maxPatienceGuidance = `The student seems frustrated. Be extra patient, break things down into very small steps, and offer encouragement. Use phrases like "Let's take this slowly" or "You're making progress".`

	simplifyGuidance = `The student seems confused. Provide slower, simpler explanations. Use more examples. Be reassuring and patient. Start with the basics before advancing.`

	supportiveGuidance = `The student seems frustrated. Acknowledge their effort, simplify your explanation, and offer a different approach. Be supportive without being condescending.`

	conciseGuidance = `The student seems confident. You can be more concise and provide more advanced information. Skip basic explanations unless asked.`
)

// Guidance produces the tonal adjustment to inject into the prompt, or ""
// when none applies. History is the rolling window of prior tags; repeated
// frustration or confusion there escalates regardless of the current tag.
// Side-effect free; callers own persisting tone history.
func Guidance(current models.ToneTag, history []models.ToneTag) string {
	if len(history) > HistorySize {
		history = history[:HistorySize]
	}

	frustratedCount := lo.Count(history, models.ToneFrustrated)
	confusedCount := lo.Count(history, models.ToneConfused)

	if frustratedCount >= 2 {
		return maxPatienceGuidance
	}

	if current == models.ToneConfused || confusedCount >= 2 {
		return simplifyGuidance
	}

	if current == models.ToneFrustrated {
		return supportiveGuidance
	}

	if current == models.ToneConfident {
		return conciseGuidance
	}

	return ""
}
