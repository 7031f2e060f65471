package tone

import (
	"testing"

	"campusgpt/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		expected  models.ToneTag
	}{
		{
			name:      "empty string",
			utterance: "",
			expected:  models.ToneNeutral,
		},
		{
			name:      "cue-free statement",
			utterance: "The photosynthesis chapter covers light reactions.",
			expected:  models.ToneNeutral,
		},
		{
			name:      "frustration cue",
			utterance: "I still don't get recursion at all",
			expected:  models.ToneFrustrated,
		},
		{
			name:      "give up",
			utterance: "honestly I give up on this subject",
			expected:  models.ToneFrustrated,
		},
		{
			name:      "confusion cue",
			utterance: "Can you explain normalization again?",
			expected:  models.ToneConfused,
		},
		{
			name:      "repeated question marks",
			utterance: "why is the output 7??",
			expected:  models.ToneConfused,
		},
		{
			name:      "confidence cue",
			utterance: "oh that makes sense now",
			expected:  models.ToneConfident,
		},
		{
			name:      "case insensitive",
			utterance: "THIS IS HARD",
			expected:  models.ToneFrustrated,
		},
		{
			name:      "frustration beats confidence",
			utterance: "it makes sense on paper but I give up in practice",
			expected:  models.ToneFrustrated,
		},
		{
			name:      "frustration beats confusion",
			utterance: "I'm confused and this makes no sense",
			expected:  models.ToneFrustrated,
		},
		{
			name:      "confusion beats confidence",
			utterance: "I know the formula but what does the second term mean",
			expected:  models.ToneConfused,
		},
		{
			name:      "contraction with apostrophe",
			utterance: "I can't understand this proof",
			expected:  models.ToneFrustrated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.utterance); got != tt.expected {
				t.Errorf("Classify(%q) = %q, expected %q", tt.utterance, got, tt.expected)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	utterance := "this is hard but makes sense??"
	first := Classify(utterance)
	for i := 0; i < 10; i++ {
		if got := Classify(utterance); got != first {
			t.Fatalf("Classify returned %q after returning %q for the same input", got, first)
		}
	}
}
