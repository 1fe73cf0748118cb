package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-sonnet-4-20250514")
	require.NotNil(t, c)
	assert.Equal(t, 3.0, c.InputPerMTok)
	assert.Equal(t, 15.0, c.OutputPerMTok)

	assert.Nil(t, LookupCost("no-such-model"))
}

func TestLookupCost_StripsVendorPrefix(t *testing.T) {
	c := LookupCost("openai/gpt-4o-mini")
	require.NotNil(t, c)
	assert.Equal(t, 0.15, c.InputPerMTok)

	assert.Nil(t, LookupCost("meta-llama/llama-3-8b"))
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o", 1_000_000, 500_000)
	require.True(t, ok)
	assert.InDelta(t, 7.5, cost, 1e-9)

	cost, ok = EstimateCost("mock", 10, 10)
	assert.False(t, ok)
	assert.Zero(t, cost)
}

func TestFriendlyNamesArePriced(t *testing.T) {
	for _, models := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		for name, id := range models {
			assert.NotNil(t, LookupCost(id), "no price for %s (%s)", name, id)
		}
	}
}
