// Package record defines the persisted analytics records produced by a
// tutoring session and the key scheme they are stored under.
//
// Every record kind is a distinct Go type. Values cross the storage boundary
// as JSON and are validated against a per-kind JSON Schema on the way back in.
package record

import (
	"time"

	"github.com/abhisek/skillora/internal/signal"
)

// Subject is the curriculum area of a session.
type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectReading Subject = "reading"
)

// Valid reports whether s is a supported subject.
func (s Subject) Valid() bool {
	return s == SubjectMath || s == SubjectReading
}

// Record is implemented by every persisted record type.
type Record interface {
	RecordKind() Kind
	RecordID() string
	// OccurredAt is the time used to order records of the same kind.
	OccurredAt() time.Time
}

// Exchange is one student message and the tutor reply that followed it.
// It is never modified after being appended to a session.
type Exchange struct {
	ID                        string              `json:"id"`
	Timestamp                 time.Time           `json:"timestamp"`
	StudentMessage            string              `json:"studentMessage"`
	TutorResponse             string              `json:"tutorResponse"`
	TimeToRespondMs           int64               `json:"timeToRespondMs"`
	StudentThinkMs            int64               `json:"studentThinkMs"`
	Outcome                   signal.Outcome      `json:"outcome"`
	Frustration               *signal.Frustration `json:"frustration"`
	QuestionText              string              `json:"questionText"`
	AttemptNumber             int                 `json:"attemptNumber"`
	HintsUsed                 int                 `json:"hintsUsed"`
	IsBreakthrough            bool                `json:"isBreakthrough"`
	BreakthroughAfterAttempts int                 `json:"breakthroughAfterAttempts"`
}

// ExchangeText is the bare text of an exchange.
type ExchangeText struct {
	StudentMessage string `json:"studentMessage"`
	TutorResponse  string `json:"tutorResponse"`
}

// Breakthrough is a correct answer that ended a streak of two or more wrong
// answers.
type Breakthrough struct {
	ID                string       `json:"id"`
	SessionID         string       `json:"sessionId"`
	Grade             int          `json:"grade"`
	Subject           Subject      `json:"subject"`
	Topic             string       `json:"topic"`
	Timestamp         time.Time    `json:"timestamp"`
	WrongAttempts     int          `json:"wrongAttempts"`
	QuestionText      string       `json:"questionText"`
	BreakingExchange  ExchangeText `json:"breakingExchange"`
	PreviousExchanges []Exchange   `json:"previousExchanges"`
}

func (b Breakthrough) RecordKind() Kind      { return KindBreakthrough }
func (b Breakthrough) RecordID() string      { return b.ID }
func (b Breakthrough) OccurredAt() time.Time { return b.Timestamp }

// Misconception is a student's own account of the reasoning behind a wrong
// answer.
type Misconception struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"sessionId"`
	Grade            int       `json:"grade"`
	Subject          Subject   `json:"subject"`
	Topic            string    `json:"topic"`
	Timestamp        time.Time `json:"timestamp"`
	WrongAnswer      string    `json:"wrongAnswer"`
	StudentThinking  string    `json:"studentThinking"`
	TutorExplanation string    `json:"tutorExplanation"`
}

func (m Misconception) RecordKind() Kind      { return KindMisconception }
func (m Misconception) RecordID() string      { return m.ID }
func (m Misconception) OccurredAt() time.Time { return m.Timestamp }

// FrustrationSignal is a student message flagged as frustrated or disengaged.
type FrustrationSignal struct {
	ID             string                 `json:"id"`
	SessionID      string                 `json:"sessionId"`
	Grade          int                    `json:"grade"`
	Topic          string                 `json:"topic"`
	Timestamp      time.Time              `json:"timestamp"`
	Type           signal.FrustrationType `json:"type"`
	Signals        []string               `json:"signals"`
	StudentMessage string                 `json:"studentMessage"`
	PriorContext   []string               `json:"priorContext"`
}

func (f FrustrationSignal) RecordKind() Kind      { return KindFrustration }
func (f FrustrationSignal) RecordID() string      { return f.ID }
func (f FrustrationSignal) OccurredAt() time.Time { return f.Timestamp }

// Session is one tutoring conversation with everything derived from it.
// The counters are caches of the sequences; Recount rebuilds them.
type Session struct {
	ID                 string              `json:"id"`
	StudentID          string              `json:"studentId"`
	StudentName        string              `json:"studentName"`
	Grade              int                 `json:"grade"`
	Subject            Subject             `json:"subject"`
	Topic              string              `json:"topic"`
	StartTime          time.Time           `json:"startTime"`
	EndTime            time.Time           `json:"endTime"`
	DurationMs         int64               `json:"durationMs"`
	TotalExchanges     int                 `json:"totalExchanges"`
	CorrectAnswers     int                 `json:"correctAnswers"`
	WrongAnswers       int                 `json:"wrongAnswers"`
	BreakthroughCount  int                 `json:"breakthroughCount"`
	FrustrationCount   int                 `json:"frustrationCount"`
	Exchanges          []Exchange          `json:"exchanges"`
	Breakthroughs      []Breakthrough      `json:"breakthroughs"`
	Misconceptions     []Misconception     `json:"misconceptions"`
	FrustrationSignals []FrustrationSignal `json:"frustrationSignals"`
}

func (s Session) RecordKind() Kind      { return KindSession }
func (s Session) RecordID() string      { return s.ID }
func (s Session) OccurredAt() time.Time { return s.StartTime }

// Recount recomputes the denormalized counters from the record sequences.
func (s *Session) Recount() {
	s.TotalExchanges = len(s.Exchanges)
	s.CorrectAnswers = 0
	s.WrongAnswers = 0
	for _, ex := range s.Exchanges {
		switch ex.Outcome {
		case signal.OutcomeCorrect:
			s.CorrectAnswers++
		case signal.OutcomeWrong:
			s.WrongAnswers++
		}
	}
	s.BreakthroughCount = len(s.Breakthroughs)
	s.FrustrationCount = len(s.FrustrationSignals)
	if !s.EndTime.IsZero() {
		s.DurationMs = s.EndTime.Sub(s.StartTime).Milliseconds()
	}
}

// LLMRequest records one call to the chat-completion provider.
type LLMRequest struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	SessionID    string    `json:"sessionId"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage"`
	RequestBody  string    `json:"requestBody"`
	ResponseBody string    `json:"responseBody"`
}

func (r LLMRequest) RecordKind() Kind      { return KindLLMRequest }
func (r LLMRequest) RecordID() string      { return r.ID }
func (r LLMRequest) OccurredAt() time.Time { return r.Timestamp }
