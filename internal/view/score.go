package view

import "strconv"

// Tone is the color class of a score badge.
type Tone string

const (
	ToneGreen   Tone = "green"
	ToneYellow  Tone = "yellow"
	ToneNeutral Tone = "neutral"
)

// ScoreBadge is a critic score with its color class.
type ScoreBadge struct {
	Score int
	Tone  Tone
}

// NewScoreBadge classifies score: above 75 is green, above 60 yellow.
func NewScoreBadge(score int) ScoreBadge {
	tone := ToneNeutral
	switch {
	case score > 75:
		tone = ToneGreen
	case score > 60:
		tone = ToneYellow
	}
	return ScoreBadge{Score: score, Tone: tone}
}

func (b ScoreBadge) String() string {
	return strconv.Itoa(b.Score)
}
