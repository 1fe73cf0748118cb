package signal

import "strings"

// Outcome is how a tutor reply judged the student's previous message.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeNeutral Outcome = "neutral"
)

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeWrong, OutcomeNeutral:
		return true
	}
	return false
}

// DetectOutcome classifies a tutor reply by keyword.
//
// The correct vocabulary is checked first, so a reply matching both lists
// ("not quite correct") classifies as correct. That precedence is kept as-is
// until the product side decides otherwise.
func DetectOutcome(reply string) Outcome {
	lower := strings.ToLower(reply)
	if containsAny(lower, CorrectPhrases) {
		return OutcomeCorrect
	}
	if containsAny(lower, WrongPhrases) {
		return OutcomeWrong
	}
	return OutcomeNeutral
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
