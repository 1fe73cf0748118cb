package engine

import "github.com/abhisek/skillora/internal/signal"

// StreakState is the wrong-answer streak's position relative to the
// breakthrough threshold.
type StreakState string

const (
	// StreakCold means fewer than two consecutive wrong answers.
	StreakCold StreakState = "cold"
	// StreakPrimed means two or more; the next correct answer is a breakthrough.
	StreakPrimed StreakState = "primed"
)

// BreakthroughThreshold is the streak length a correct answer must end to
// count as a breakthrough.
const BreakthroughThreshold = 2

// Streak counts consecutive wrong outcomes and remembers the question the
// streak started on. The zero value is an empty streak.
type Streak struct {
	wrong    int
	question string
}

// Transition records the effect of one outcome on the streak.
type Transition struct {
	From StreakState
	To   StreakState
	// Broken is the streak length a correct outcome reset. Zero otherwise.
	Broken int
	// Question is the question text the broken streak was attached to.
	Question string
	// Breakthrough is set when Broken reached BreakthroughThreshold.
	Breakthrough bool
}

// Count returns the number of consecutive wrong outcomes.
func (s *Streak) Count() int { return s.wrong }

// Question returns the first question extracted during the current streak.
func (s *Streak) Question() string { return s.question }

// State returns the streak's current state.
func (s *Streak) State() StreakState {
	if s.wrong >= BreakthroughThreshold {
		return StreakPrimed
	}
	return StreakCold
}

// Apply feeds one classified outcome into the streak. question is the text
// extracted from the same tutor reply, or "" when there was none.
//
// Wrong increments the count and latches the first non-empty question.
// Correct resets the count and the question. Neutral changes nothing.
func (s *Streak) Apply(outcome signal.Outcome, question string) Transition {
	t := Transition{From: s.State()}

	switch outcome {
	case signal.OutcomeWrong:
		s.wrong++
		if s.question == "" {
			s.question = question
		}
	case signal.OutcomeCorrect:
		t.Broken = s.wrong
		t.Question = s.question
		t.Breakthrough = s.wrong >= BreakthroughThreshold
		s.wrong = 0
		s.question = ""
	}

	t.To = s.State()
	return t
}

// PromptsReasoning reports whether the streak is at a length where the
// student should be asked to explain their thinking: every even count from
// BreakthroughThreshold on.
func (s *Streak) PromptsReasoning() bool {
	return s.wrong >= BreakthroughThreshold && s.wrong%2 == 0
}
