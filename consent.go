package fingerprint

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConsentFunc is the consent gate evaluated before collection.
// Returning true permits fingerprinting.
type ConsentFunc func() bool

// DefaultConsentQuestion is the question asked by [PromptConsent].
const DefaultConsentQuestion = "Allow fingerprinting for additional security?"

// AlwaysConsent is a [ConsentFunc] that always permits collection.
func AlwaysConsent() bool { return true }

// PromptConsent returns a [ConsentFunc] that writes question to w and reads one
// line from r. Only "y" or "yes" (any case) grants consent; EOF or a read
// error denies it.
func PromptConsent(r io.Reader, w io.Writer, question string) ConsentFunc {
	if question == "" {
		question = DefaultConsentQuestion
	}

	return func() bool {
		fmt.Fprintf(w, "%s [y/N]: ", question)

		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && line == "" {
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
