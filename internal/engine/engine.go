// Package engine turns the stream of student/tutor exchanges in one tutoring
// session into analytics records.
//
// An Engine owns its session exclusively. Exchanges are logged one at a time;
// each call runs the signal detectors, advances the wrong-answer streak and
// persists any derived breakthrough or frustration record before returning.
// Persistence is best effort: a failed write is logged and the in-memory
// session carries on.
package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/signal"
)

// priorContextSize is how many earlier student messages accompany a
// frustration signal.
const priorContextSize = 2

// Sink receives every record the engine derives.
type Sink interface {
	Put(ctx context.Context, rec record.Record) error
}

// Student identifies who the session is for and what it covers.
type Student struct {
	ID      string
	Name    string
	Grade   int
	Subject record.Subject
	Topic   string
}

// ExchangeMeta carries per-exchange details known only to the caller.
type ExchangeMeta struct {
	// AttemptNumber defaults to 1.
	AttemptNumber int
	HintsUsed     int
	// SentAt is when the student's message went to the tutor. Zero means the
	// time of the last ResetTimer (or the previous exchange).
	SentAt time.Time
	// ReceivedAt is when the tutor's reply arrived. Zero means now.
	ReceivedAt time.Time
}

// Engine is the per-session state machine.
type Engine struct {
	mu sync.Mutex

	student Student
	session record.Session
	streak  Streak

	// timerEpoch is the fallback SentAt; lastReceived anchors studentThinkMs.
	timerEpoch   time.Time
	lastReceived time.Time

	sink Sink
	now  func() time.Time
	log  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSessionID uses id instead of a generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.session.ID = id }
}

// New starts a session for student. sink may be nil, in which case nothing
// is persisted.
func New(student Student, sink Sink, opts ...Option) *Engine {
	e := &Engine{
		student: student,
		sink:    sink,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session.ID == "" {
		e.session.ID = record.NewID(record.KindSession)
	}

	start := e.clock()
	e.session.StudentID = student.ID
	e.session.StudentName = student.Name
	e.session.Grade = student.Grade
	e.session.Subject = student.Subject
	e.session.Topic = student.Topic
	e.session.StartTime = start
	e.timerEpoch = start
	e.lastReceived = start
	return e
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

// ID returns the session id.
func (e *Engine) ID() string {
	return e.session.ID
}

// Student returns the profile the session was started with.
func (e *Engine) Student() Student {
	return e.student
}

// LogExchange records one student message and the tutor reply to it and
// returns the annotated exchange.
//
// A breakthrough record is persisted when a correct reply ends a streak of
// BreakthroughThreshold or more wrong replies. A frustration record is
// persisted when the student message is flagged. Both are written before the
// exchange joins the session, so their context windows exclude it.
func (e *Engine) LogExchange(ctx context.Context, studentMessage, tutorResponse string, meta ExchangeMeta) record.Exchange {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	received := meta.ReceivedAt.UTC()
	if meta.ReceivedAt.IsZero() {
		received = now
	}
	sent := meta.SentAt.UTC()
	if meta.SentAt.IsZero() {
		sent = e.timerEpoch
	}
	attempt := meta.AttemptNumber
	if attempt <= 0 {
		attempt = 1
	}

	frustration := signal.DetectFrustration(studentMessage)
	outcome := signal.DetectOutcome(tutorResponse)
	question, _ := signal.ExtractQuestion(tutorResponse)

	ex := record.Exchange{
		ID:              record.NewExchangeID(),
		Timestamp:       received,
		StudentMessage:  studentMessage,
		TutorResponse:   tutorResponse,
		TimeToRespondMs: nonNegativeMs(received.Sub(sent)),
		StudentThinkMs:  nonNegativeMs(sent.Sub(e.lastReceived)),
		Outcome:         outcome,
		Frustration:     frustration,
		QuestionText:    question,
		AttemptNumber:   attempt,
		HintsUsed:       meta.HintsUsed,
	}

	t := e.streak.Apply(outcome, question)
	if t.Breakthrough {
		bt := record.Breakthrough{
			ID:                record.NewID(record.KindBreakthrough),
			SessionID:         e.session.ID,
			Grade:             e.student.Grade,
			Subject:           e.student.Subject,
			Topic:             e.student.Topic,
			Timestamp:         received,
			WrongAttempts:     t.Broken,
			QuestionText:      t.Question,
			BreakingExchange:  record.ExchangeText{StudentMessage: studentMessage, TutorResponse: tutorResponse},
			PreviousExchanges: lastN(e.session.Exchanges, t.Broken+1),
		}
		e.session.Breakthroughs = append(e.session.Breakthroughs, bt)
		e.persist(ctx, bt)
		ex.IsBreakthrough = true
		ex.BreakthroughAfterAttempts = t.Broken
	}

	if frustration != nil {
		var prior []string
		for _, p := range lastN(e.session.Exchanges, priorContextSize) {
			prior = append(prior, p.StudentMessage)
		}
		fs := record.FrustrationSignal{
			ID:             record.NewID(record.KindFrustration),
			SessionID:      e.session.ID,
			Grade:          e.student.Grade,
			Topic:          e.student.Topic,
			Timestamp:      received,
			Type:           frustration.Type,
			Signals:        slices.Clone(frustration.Signals),
			StudentMessage: studentMessage,
			PriorContext:   prior,
		}
		e.session.FrustrationSignals = append(e.session.FrustrationSignals, fs)
		e.persist(ctx, fs)
	}

	e.session.Exchanges = append(e.session.Exchanges, ex)
	e.timerEpoch = now
	e.lastReceived = received
	return ex
}

// LogMisconception records the student's explanation of a wrong answer.
// Callers decide when to ask; the record is written unconditionally. An empty
// topic falls back to the session topic.
func (e *Engine) LogMisconception(ctx context.Context, wrongAnswer, studentThinking, tutorExplanation, topic string) record.Misconception {
	e.mu.Lock()
	defer e.mu.Unlock()

	if topic == "" {
		topic = e.student.Topic
	}
	mc := record.Misconception{
		ID:               record.NewID(record.KindMisconception),
		SessionID:        e.session.ID,
		Grade:            e.student.Grade,
		Subject:          e.student.Subject,
		Topic:            topic,
		Timestamp:        e.clock(),
		WrongAnswer:      wrongAnswer,
		StudentThinking:  studentThinking,
		TutorExplanation: tutorExplanation,
	}
	e.session.Misconceptions = append(e.session.Misconceptions, mc)
	e.persist(ctx, mc)
	return mc
}

// SaveSession stamps the end time, recomputes the counters and persists the
// whole session, replacing any earlier save. It can be called more than once.
func (e *Engine) SaveSession(ctx context.Context) record.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.EndTime = e.clock()
	e.session.Recount()
	snap := e.snapshot()
	e.persist(ctx, snap)
	return snap
}

// ResetTimer marks now as the moment the next student message is sent. It
// is only consulted when ExchangeMeta.SentAt is zero.
func (e *Engine) ResetTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timerEpoch = e.clock()
}

// ConsecutiveWrong returns the current wrong-answer streak.
func (e *Engine) ConsecutiveWrong() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streak.Count()
}

// StreakState returns whether a correct answer would now be a breakthrough.
func (e *Engine) StreakState() StreakState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streak.State()
}

// ShouldPromptReasoning reports whether the student should be asked to
// explain the wrong answer in ex, which must be the exchange just logged.
// This holds on every even streak length of two or more.
func (e *Engine) ShouldPromptReasoning(ex record.Exchange) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ex.Outcome == signal.OutcomeWrong && e.streak.PromptsReasoning()
}

// Session returns a copy of the session as it stands. Counters are only
// current after SaveSession.
func (e *Engine) Session() record.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() record.Session {
	s := e.session
	s.Exchanges = slices.Clone(e.session.Exchanges)
	s.Breakthroughs = slices.Clone(e.session.Breakthroughs)
	s.Misconceptions = slices.Clone(e.session.Misconceptions)
	s.FrustrationSignals = slices.Clone(e.session.FrustrationSignals)
	return s
}

func (e *Engine) persist(ctx context.Context, rec record.Record) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Put(ctx, rec); err != nil {
		e.log.Warn("persist record failed",
			"key", record.KeyOf(rec),
			"session", e.session.ID,
			"error", err)
	}
}

// lastN returns a copy of the final n elements of s.
func lastN[T any](s []T, n int) []T {
	if n > len(s) {
		n = len(s)
	}
	if n <= 0 {
		return nil
	}
	return slices.Clone(s[len(s)-n:])
}

func nonNegativeMs(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
