package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFrustration_Explicit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"hate any case", "I HATE fractions", []string{"hate"}},
		{"multi-word phrases", "I don't get it, this is too hard", []string{"don't get", "hard", "too hard"}},
		{"short phrase beats disengagement", "ugh", []string{"ugh"}},
		{"question marks", "???", []string{"???"}},
		{"help", "can you help me", []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFrustration(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, ExplicitFrustration, got.Type)
			assert.Equal(t, tt.want, got.Signals)
		})
	}
}

func TestDetectFrustration_HateAlwaysMatches(t *testing.T) {
	for _, text := range []string{"hate", "Hate this", "i hAtE it so much", "whaHATEver"} {
		got := DetectFrustration(text)
		require.NotNil(t, got, text)
		assert.Equal(t, ExplicitFrustration, got.Type, text)
		assert.Contains(t, got.Signals, "hate", text)
	}
}

func TestDetectFrustration_Disengagement(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"ok", "ok"},
		{"  OK  ", "OK"},
		{"k", "k"},
		{"huh", "huh"},
		{"What", "What"},
		{"...", "..."},
	}

	for _, tt := range tests {
		got := DetectFrustration(tt.text)
		require.NotNil(t, got, tt.text)
		assert.Equal(t, Disengagement, got.Type, tt.text)
		assert.Equal(t, []string{tt.want}, got.Signals, tt.text)
	}
}

func TestDetectFrustration_None(t *testing.T) {
	for _, text := range []string{
		"okay, I understand now after that explanation",
		"4",
		"the answer is 12",
		"",
		"okay so",
	} {
		assert.Nil(t, DetectFrustration(text), text)
	}
}

func TestDetectOutcome(t *testing.T) {
	tests := []struct {
		reply string
		want  Outcome
	}{
		{"🎉 Yes! Great job", OutcomeCorrect},
		{"You nailed it!", OutcomeCorrect},
		{"EXACTLY right", OutcomeCorrect},
		{"Almost! Think about the tens place.", OutcomeWrong},
		{"Not quite. Try again?", OutcomeWrong},
		{"Oops, count once more", OutcomeWrong},
		{"Let's look at this step.", OutcomeNeutral},
		{"", OutcomeNeutral},
	}

	for _, tt := range tests {
		if got := DetectOutcome(tt.reply); got != tt.want {
			t.Errorf("DetectOutcome(%q) = %q, want %q", tt.reply, got, tt.want)
		}
	}
}

// Replies matching both vocabularies resolve to correct because the correct
// list is checked first.
func TestDetectOutcome_BothVocabulariesPreferCorrect(t *testing.T) {
	assert.Equal(t, OutcomeCorrect, DetectOutcome("Not quite correct"))
	assert.Equal(t, OutcomeCorrect, DetectOutcome("Incorrect, try again"))
}

func TestOutcomeValid(t *testing.T) {
	assert.True(t, OutcomeCorrect.Valid())
	assert.True(t, OutcomeWrong.Valid())
	assert.True(t, OutcomeNeutral.Valid())
	assert.False(t, Outcome("maybe").Valid())
}

func TestExtractQuestion(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		want   string
		wantOK bool
	}{
		{"second line", "Hi!\nWhat is 2 + 2 when you add them up?", "What is 2 + 2 when you add them up?", true},
		{"trimmed", "🍕 Pizza time\n   How many slices are left over now?   \nGo!", "How many slices are left over now?", true},
		{"first qualifying line wins", "Which number is bigger, 7 or 9?\nAnd what about 3 or 4?", "Which number is bigger, 7 or 9?", true},
		{"short lines only", "Hi!\nWhat is 2 + 2?", "", false},
		{"long line without question mark", "This line is definitely longer than twenty characters.", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractQuestion(tt.reply)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSLengthCountsAstralRunesTwice(t *testing.T) {
	assert.Equal(t, 3, jsLength("abc"))
	assert.Equal(t, 2, jsLength("🎉"))
	assert.Equal(t, 1, jsLength("é"))
}
