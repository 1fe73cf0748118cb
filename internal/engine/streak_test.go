package engine

import (
	"math/rand"
	"testing"

	"github.com/abhisek/skillora/internal/signal"
	"github.com/stretchr/testify/assert"
)

func TestStreakTransitions(t *testing.T) {
	tests := []struct {
		name     string
		prior    int
		outcome  signal.Outcome
		wantFrom StreakState
		wantTo   StreakState
		wantBrk  bool
		wantN    int
	}{
		{"cold wrong stays cold", 0, signal.OutcomeWrong, StreakCold, StreakCold, false, 1},
		{"second wrong primes", 1, signal.OutcomeWrong, StreakCold, StreakPrimed, false, 2},
		{"primed wrong stays primed", 2, signal.OutcomeWrong, StreakPrimed, StreakPrimed, false, 3},
		{"cold correct resets", 1, signal.OutcomeCorrect, StreakCold, StreakCold, false, 0},
		{"primed correct breaks through", 3, signal.OutcomeCorrect, StreakPrimed, StreakCold, true, 0},
		{"neutral leaves cold alone", 1, signal.OutcomeNeutral, StreakCold, StreakCold, false, 1},
		{"neutral leaves primed alone", 2, signal.OutcomeNeutral, StreakPrimed, StreakPrimed, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Streak{wrong: tt.prior}
			tr := s.Apply(tt.outcome, "")
			assert.Equal(t, tt.wantFrom, tr.From)
			assert.Equal(t, tt.wantTo, tr.To)
			assert.Equal(t, tt.wantBrk, tr.Breakthrough)
			assert.Equal(t, tt.wantN, s.Count())
			if tt.outcome == signal.OutcomeCorrect {
				assert.Equal(t, tt.prior, tr.Broken)
			} else {
				assert.Zero(t, tr.Broken)
			}
		})
	}
}

func TestStreakLatchesFirstQuestion(t *testing.T) {
	var s Streak

	s.Apply(signal.OutcomeWrong, "")
	assert.Equal(t, "", s.Question(), "no question yet")

	s.Apply(signal.OutcomeWrong, "What is seven times eight, friend?")
	s.Apply(signal.OutcomeWrong, "Can you try seven times eight again?")
	assert.Equal(t, "What is seven times eight, friend?", s.Question())

	s.Apply(signal.OutcomeNeutral, "Another question entirely, right?")
	assert.Equal(t, "What is seven times eight, friend?", s.Question())

	tr := s.Apply(signal.OutcomeCorrect, "Ready for the next one, superstar?")
	assert.Equal(t, "What is seven times eight, friend?", tr.Question)
	assert.Equal(t, "", s.Question(), "correct clears the question")
}

func TestStreakPromptsReasoningOnEvenCounts(t *testing.T) {
	var s Streak
	var got []bool
	for range 6 {
		s.Apply(signal.OutcomeWrong, "")
		got = append(got, s.PromptsReasoning())
	}
	assert.Equal(t, []bool{false, true, false, true, false, true}, got)
}

// The count always equals the number of wrong outcomes since the last
// correct one, with neutral outcomes ignored.
func TestStreakCountMatchesTrailingWrongs(t *testing.T) {
	outcomes := []signal.Outcome{signal.OutcomeCorrect, signal.OutcomeWrong, signal.OutcomeNeutral}
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		var s Streak
		var seq []signal.Outcome
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			o := outcomes[rng.Intn(len(outcomes))]
			seq = append(seq, o)
			s.Apply(o, "")
		}

		want := 0
		for i := len(seq) - 1; i >= 0 && seq[i] != signal.OutcomeCorrect; i-- {
			if seq[i] == signal.OutcomeWrong {
				want++
			}
		}
		assert.Equal(t, want, s.Count(), "sequence %v", seq)
	}
}
