package models

type ToneTag string

const (
	ToneNeutral    ToneTag = "neutral"
	ToneConfused   ToneTag = "confused"
	ToneFrustrated ToneTag = "frustrated"
	ToneConfident  ToneTag = "confident"
)
