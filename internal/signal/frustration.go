package signal

import "strings"

// FrustrationType is the kind of negative signal found in a student message.
type FrustrationType string

const (
	ExplicitFrustration FrustrationType = "explicit_frustration"
	Disengagement       FrustrationType = "disengagement"
)

// Valid reports whether t is a known frustration type.
func (t FrustrationType) Valid() bool {
	return t == ExplicitFrustration || t == Disengagement
}

// Frustration is the classification of a single student message.
type Frustration struct {
	Type    FrustrationType `json:"type"`
	Signals []string        `json:"signals"`
}

// DetectFrustration classifies a student message. It returns nil when the
// message carries no frustration or disengagement signal.
//
// Phrase matches win over the disengagement rule, so "ugh" is explicit
// frustration even though it is also short.
func DetectFrustration(text string) *Frustration {
	lower := strings.ToLower(text)

	var matched []string
	for _, p := range FrustrationPhrases {
		if strings.Contains(lower, p) {
			matched = append(matched, p)
		}
	}
	if len(matched) > 0 {
		return &Frustration{Type: ExplicitFrustration, Signals: matched}
	}

	trimmed := strings.TrimSpace(text)
	if jsLength(trimmed) >= disengagementMaxLen {
		return nil
	}
	word := strings.TrimSpace(lower)
	for _, w := range DisengagementWords {
		if word == w {
			return &Frustration{Type: Disengagement, Signals: []string{trimmed}}
		}
	}
	return nil
}
