package tutor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/abhisek/skillora/internal/llm"
)

// Purposes tag provider calls in the request log.
const (
	PurposeIntro = "intro"
	PurposeReply = "reply"
)

// Client asks the provider for tutor replies. It never fails: errors and
// empty replies degrade to fixed fallback text.
type Client struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewClient creates a Client.
func NewClient(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, cfg: cfg, logger: slog.Default()}
}

// Reply sends history to the provider under system and returns the reply
// text.
func (c *Client) Reply(ctx context.Context, history []llm.Message, system string, maxTokens int) string {
	return c.reply(llm.WithPurpose(ctx, PurposeReply), history, system, maxTokens)
}

// Intro asks for the two-line greeting that opens a session. It returns the
// hidden prompt alongside the reply so both can join the history.
func (c *Client) Intro(ctx context.Context, system, studentName, topic string) (prompt, reply string) {
	prompt = IntroPrompt(studentName, topic)
	history := []llm.Message{{Role: llm.RoleUser, Content: prompt}}
	return prompt, c.reply(llm.WithPurpose(ctx, PurposeIntro), history, system, c.cfg.IntroMaxTokens)
}

func (c *Client) reply(ctx context.Context, history []llm.Message, system string, maxTokens int) string {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    history,
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		var inv *llm.ErrInvalidResponse
		var maxTok *llm.ErrMaxTokensExceeded
		if errors.As(err, &inv) || errors.As(err, &maxTok) {
			return FallbackEmpty
		}
		c.logger.Warn("tutor reply failed", "model", c.provider.ModelID(), "error", err)
		return FallbackError
	}
	if strings.TrimSpace(resp.Text) == "" {
		return FallbackEmpty
	}
	return resp.Text
}
