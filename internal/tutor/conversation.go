package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillora/internal/engine"
	"github.com/abhisek/skillora/internal/llm"
	"github.com/abhisek/skillora/internal/record"
)

// ErrEmptyMessage is returned by Send for a blank student message.
var ErrEmptyMessage = errors.New("message is empty")

// Turn is the result of one student message.
type Turn struct {
	Reply    string
	Exchange record.Exchange
	// Reasoning is set when the student should be asked what they were
	// thinking. Pass it to Explain with their answer.
	Reasoning *ReasoningPrompt
}

// ReasoningPrompt captures the wrong answer the student is asked about.
type ReasoningPrompt struct {
	WrongAnswer      string
	TutorExplanation string
	Topic            string
}

// Stats are the running counters shown during a session.
type Stats struct {
	Exchanges     int
	Breakthroughs int
	Frustrations  int
}

// Conversation drives one tutoring session: it keeps the chat history,
// asks the provider for replies and feeds every exchange to the engine.
type Conversation struct {
	mu sync.Mutex

	profile Profile
	system  string
	client  *Client
	engine  *engine.Engine
	now     func() time.Time

	history []llm.Message
	intro   string
	stats   Stats

	engineOpts []engine.Option
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithClock replaces time.Now for the conversation and its engine.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		c.now = now
		c.engineOpts = append(c.engineOpts, engine.WithClock(now))
	}
}

// WithEngineOptions passes extra options to the session engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *Conversation) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// Start validates the profile, opens a session and fetches the intro reply.
// Records are written to sink, which may be nil.
func Start(ctx context.Context, p Profile, client *Client, sink engine.Sink, opts ...Option) (*Conversation, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.StudentID == "" {
		p.StudentID = "s_" + uuid.NewString()
	}

	c := &Conversation{
		profile: p,
		system:  BuildSystemPrompt(PersonaFor(p)),
		client:  client,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.engine = engine.New(engine.Student{
		ID:      p.StudentID,
		Name:    p.Name,
		Grade:   p.Grade,
		Subject: p.Subject,
		Topic:   p.Topic,
	}, sink, c.engineOpts...)

	prompt, intro := client.Intro(llm.WithSession(ctx, c.engine.ID()), c.system, p.Name, p.Topic)
	c.intro = intro
	c.history = []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
		{Role: llm.RoleAssistant, Content: intro},
	}
	return c, nil
}

// Intro returns the greeting the session opened with.
func (c *Conversation) Intro() string {
	return c.intro
}

// Profile returns the profile the session was started with.
func (c *Conversation) Profile() Profile {
	return c.profile
}

// SessionID returns the id of the underlying session.
func (c *Conversation) SessionID() string {
	return c.engine.ID()
}

// Engine exposes the session state machine.
func (c *Conversation) Engine() *engine.Engine {
	return c.engine
}

// Send delivers a student message, logs the resulting exchange and returns
// the tutor's reply.
func (c *Conversation) Send(ctx context.Context, text string) (Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(ctx, text)
}

func (c *Conversation) send(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	c.engine.ResetTimer()
	sent := c.now()

	c.history = append(c.history, llm.Message{Role: llm.RoleUser, Content: text})
	reply := c.client.Reply(llm.WithSession(ctx, c.engine.ID()), c.history, c.system, c.client.cfg.ReplyMaxTokens)
	c.history = append(c.history, llm.Message{Role: llm.RoleAssistant, Content: reply})

	ex := c.engine.LogExchange(ctx, text, reply, engine.ExchangeMeta{
		SentAt:     sent,
		ReceivedAt: c.now(),
	})

	c.stats.Exchanges++
	if ex.IsBreakthrough {
		c.stats.Breakthroughs++
	}
	if ex.Frustration != nil {
		c.stats.Frustrations++
	}

	turn := Turn{Reply: reply, Exchange: ex}
	if c.engine.ShouldPromptReasoning(ex) {
		turn.Reasoning = &ReasoningPrompt{
			WrongAnswer:      text,
			TutorExplanation: reply,
			Topic:            c.profile.Topic,
		}
	}
	return turn, nil
}

// Explain answers a reasoning prompt. A blank answer declines it: nothing is
// recorded and the returned turn is nil. Otherwise a misconception is logged
// and the explanation is sent to the tutor as the next message.
func (c *Conversation) Explain(ctx context.Context, prompt ReasoningPrompt, thinking string) (*Turn, error) {
	if strings.TrimSpace(thinking) == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.LogMisconception(ctx, prompt.WrongAnswer, thinking, prompt.TutorExplanation, prompt.Topic)
	turn, err := c.send(ctx, ReasoningPrefix+thinking)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// Stats returns the running counters.
func (c *Conversation) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// History returns a copy of the chat so far, starting with the hidden intro
// prompt.
func (c *Conversation) History() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.Message, len(c.history))
	copy(out, c.history)
	return out
}

// End saves the session and returns the final record. It may be called more
// than once.
func (c *Conversation) End(ctx context.Context) record.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.SaveSession(ctx)
}
