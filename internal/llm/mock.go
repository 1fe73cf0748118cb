package llm

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// script, when set, supplies replies once the queue is empty.
	script []string
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// demoScript walks a student through one wrong-wrong-right cycle so an
// offline session still produces every kind of signal.
var demoScript = []string{
	"👋 Hi! I'm your practice buddy today.\nWant to learn step by step or get quizzed first? 🎯",
	"🧠 Here's one to try: what is 6 x 7?\nTake your time!",
	"Almost! Think of 6 groups of 7.\nWhat is 6 x 5 first?",
	"Not quite! 6 x 5 is 30, then add one more 6 twice.\nWhat do you get?",
	"🎉 Yes! 42 is exactly right.\nReady for a harder one?",
}

// NewDemoProvider returns a MockProvider that cycles through a short
// scripted lesson. It needs no network or API key.
func NewDemoProvider() *MockProvider {
	return &MockProvider{script: demoScript}
}

// Generate returns the next canned response. With the queue empty it falls
// back to the demo script, or fails with ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if len(m.script) == 0 {
			return nil, &ErrProviderUnavailable{Err: nil}
		}
		text := m.script[(len(m.Calls)-1)%len(m.script)]
		return &Response{
			Text:       text,
			Usage:      Usage{OutputTokens: len(strings.Fields(text))},
			Model:      "mock",
			StopReason: "end",
		}, nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or false if none was made.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
