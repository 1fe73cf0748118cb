package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/skillora/internal/record"
)

// RequestLog stores one record per LLM call.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, req record.LLMRequest) error
}

// LoggingProvider is a decorator that records every LLM request.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      RequestLog
	logger   *slog.Logger
	now      func() time.Time
}

// WithLogging wraps a Provider so each call is written to log under the
// given provider name. Failures to write are reported through slog only.
func WithLogging(p Provider, provider string, log RequestLog) Provider {
	return &LoggingProvider{
		inner:    p,
		provider: provider,
		log:      log,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()

	resp, err := l.inner.Generate(ctx, req)

	entry := record.LLMRequest{
		ID:          record.NewID(record.KindLLMRequest),
		Timestamp:   start.UTC(),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		SessionID:   SessionFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			entry.Model = resp.Model
		}
		entry.ResponseBody = resp.Text
	}

	if err != nil {
		entry.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed",
			"provider", l.provider,
			"model", entry.Model,
			"purpose", entry.Purpose,
			"error", err)
	}

	// Log the request but don't fail the call if logging fails.
	if logErr := l.log.AppendLLMRequest(context.WithoutCancel(ctx), entry); logErr != nil {
		l.logger.Warn("failed to log LLM request", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.MaxTokens > 0 {
		fmt.Fprintf(&b, "[max_tokens: %d]\n", req.MaxTokens)
	}

	return b.String()
}
