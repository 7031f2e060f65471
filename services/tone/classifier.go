package tone

import (
	"regexp"

	"campusgpt/models"
)

// cueSet pairs a tone with the regex cues that signal it. Sets are evaluated
// in slice order and the first set with any matching cue wins, so frustration
// cues always take priority over confusion and confidence cues.
type cueSet struct {
	tag  models.ToneTag
	cues []*regexp.Regexp
}

var cueSets = []cueSet{
	{
		tag: models.ToneFrustrated,
		cues: compileCues(
			`still don'?t get`,
			`this is hard`,
			`i give up`,
			`too difficult`,
			`can'?t understand`,
			`makes no sense`,
			`ugh`,
			`frustrated`,
			`impossible`,
		),
	},
	{
		tag: models.ToneConfused,
		cues: compileCues(
			`i don'?t understand`,
			`what does .+ mean`,
			`can you explain`,
			`i'?m confused`,
			`what is`,
			`how does`,
			`\?{2,}`,
			`please help`,
			`not sure`,
			`lost`,
		),
	},
	{
		tag: models.ToneConfident,
		cues: compileCues(
			`i understand`,
			`i know`,
			`i got it`,
			`makes sense`,
			`easy`,
			`simple`,
			`i can do`,
			`no problem`,
		),
	},
}

func compileCues(patterns ...string) []*regexp.Regexp {
	cues := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		cues[i] = regexp.MustCompile(`(?i)` + pattern)
	}
	return cues
}

// Classify maps one user utterance to a tone tag. Pure and total: any string,
// including the empty string, yields a tag.
func Classify(utterance string) models.ToneTag {
	for _, set := range cueSets {
		for _, cue := range set.cues {
			if cue.MatchString(utterance) {
				return set.tag
			}
		}
	}
	return models.ToneNeutral
}
