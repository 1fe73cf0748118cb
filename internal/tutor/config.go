package tutor

import "time"

// Fallback replies used when the provider cannot produce one.
const (
	FallbackError = "Oops, I had a hiccup! Try again 🙏"
	FallbackEmpty = "Hmm, let me try again!"
)

// Config holds reply generation settings.
type Config struct {
	IntroMaxTokens int
	ReplyMaxTokens int
	Temperature    float64
	// Timeout bounds one reply including retries. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig keeps replies short enough for the three-line format.
func DefaultConfig() Config {
	return Config{
		IntroMaxTokens: 120,
		ReplyMaxTokens: 220,
		Timeout:        30 * time.Second,
	}
}
