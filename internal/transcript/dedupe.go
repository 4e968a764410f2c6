package transcript

import (
	"strings"
)

const (
	// minDedupeTokens is the shortest buffer worth scanning; anything below
	// is too short to contain meaningful repetition.
	minDedupeTokens = 5

	// phraseMinLen and phraseMaxLen bound the repeated-window sizes checked
	// at each token position.
	phraseMinLen = 3
	phraseMaxLen = 7
)

// Deduper suppresses repeated word sequences in a running transcript.
// Speech recognizers that restart mid-utterance tend to re-emit the tail of
// the previous result, so the same 3-7 word phrase shows up twice in the
// joined text. The scan is greedy and order-preserving: it never reorders
// tokens, and its output is always a subsequence of the input tokens.
type Deduper struct{}

// NewDeduper creates a phrase deduper.
func NewDeduper() *Deduper {
	return &Deduper{}
}

// Dedupe removes repeated phrases of 3-7 tokens from fullText. Inputs with
// fewer than 5 whitespace-separated tokens come back unchanged. Tokens at
// suppressed positions are dropped; the rest are re-joined with single
// spaces. Running Dedupe on already-deduplicated text with no remaining 3-7
// token repeats is a no-op, though short residual overlaps can survive a
// single pass.
func (d *Deduper) Dedupe(fullText string) string {
	tokens := strings.Fields(fullText)
	if len(tokens) < minDedupeTokens {
		return fullText
	}

	seen := make(map[string]struct{}, len(tokens)*phraseMaxLen)
	suppressed := make([]bool, len(tokens))

	for i := range tokens {
		for l := phraseMinLen; l <= phraseMaxLen && i+l <= len(tokens); l++ {
			phrase := strings.ToLower(strings.Join(tokens[i:i+l], " "))
			if _, ok := seen[phrase]; ok {
				suppressed[i] = true
				break
			}
			seen[phrase] = struct{}{}
		}
	}

	kept := make([]string, 0, len(tokens))
	for i, token := range tokens {
		if !suppressed[i] {
			kept = append(kept, token)
		}
	}

	return strings.Join(kept, " ")
}
