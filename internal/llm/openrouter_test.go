package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "anthropic/claude-3-haiku",
		})
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
		assert.Error(t, err)
	})
}

func TestOpenRouterProvider_SendsAttributionHeaders(t *testing.T) {
	tests := []struct {
		name        string
		cfg         OpenRouterConfig
		wantTitle   string
		wantReferer string
	}{
		{"defaults", OpenRouterConfig{}, "Skillora", ""},
		{"custom", OpenRouterConfig{AppTitle: "Homework Club", Referer: "https://club.example"}, "Homework Club", "https://club.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			reply := openAIReply("🐼 Verbs are doing words!", "stop")
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				reply(w, r)
			}))
			t.Cleanup(server.Close)

			cfg := tt.cfg
			cfg.APIKey = "sk-or-test"
			cfg.Model = "google/gemini-2.0-flash-exp"
			cfg.BaseURL = server.URL + "/v1"
			p, err := NewOpenRouterProvider(cfg)
			require.NoError(t, err)

			resp, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "What is a verb?"}},
				MaxTokens: 220,
			})
			require.NoError(t, err)
			assert.Equal(t, "🐼 Verbs are doing words!", resp.Text)

			assert.Equal(t, tt.wantTitle, got.Get("X-Title"))
			assert.Equal(t, tt.wantReferer, got.Get("HTTP-Referer"))
			assert.Equal(t, "Bearer sk-or-test", got.Get("Authorization"))
		})
	}
}
