package signal

import (
	"strings"
	"unicode/utf8"
)

// ExtractQuestion returns the first line of a tutor reply that contains a
// question mark and is longer than 20 characters, trimmed. ok is false when
// no line qualifies.
func ExtractQuestion(reply string) (question string, ok bool) {
	for _, line := range strings.Split(reply, "\n") {
		if strings.Contains(line, "?") && jsLength(line) > questionMinLen {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

// jsLength counts UTF-16 code units, so characters outside the BMP (most
// emoji) count twice. Length thresholds were tuned against that measure.
func jsLength(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}
