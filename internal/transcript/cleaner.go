package transcript

import (
	"regexp"
	"strings"
)

// DefaultOverlapThreshold is the fraction of a sentence's words that must
// already appear in an earlier accepted sentence before the sentence is
// discarded as a near-duplicate.
const DefaultOverlapThreshold = 0.8

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Cleaner removes near-duplicate sentences from a finished transcript before
// it is handed to extraction. The deduper catches verbatim phrase repeats as
// text streams in; the cleaner catches the coarser case where the recognizer
// produced the same sentence twice with minor wording drift.
type Cleaner struct {
	overlapThreshold float64
}

// NewCleaner creates a cleaner. A threshold outside (0, 1] falls back to
// DefaultOverlapThreshold.
func NewCleaner(overlapThreshold float64) *Cleaner {
	if overlapThreshold <= 0 || overlapThreshold > 1 {
		overlapThreshold = DefaultOverlapThreshold
	}
	return &Cleaner{overlapThreshold: overlapThreshold}
}

// Clean splits text into sentences at punctuation followed by whitespace,
// drops every sentence whose words mostly appear in an earlier accepted
// sentence, and reassembles the remainder as period-separated sentences with
// collapsed whitespace and a trailing period. Empty input yields an empty
// string. Comparison is lowercase; duplicate detection only looks backwards,
// so the first occurrence of any sentence always survives.
func (c *Cleaner) Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	candidates := sentenceBoundary.Split(text, -1)

	var accepted []string
	var acceptedWordSets []map[string]struct{}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}

		words := strings.Fields(strings.ToLower(candidate))
		if c.isNearDuplicate(words, acceptedWordSets) {
			continue
		}

		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		accepted = append(accepted, candidate)
		acceptedWordSets = append(acceptedWordSets, set)
	}

	out := strings.Join(accepted, ". ")
	out = strings.TrimSpace(whitespaceRun.ReplaceAllString(out, " "))
	if out != "" && !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// isNearDuplicate reports whether more than the threshold fraction of words
// appears in any single earlier accepted sentence. The ratio divides by the
// candidate's own word count, so a short sentence fully contained in a long
// one is discarded while the reverse is kept.
func (c *Cleaner) isNearDuplicate(words []string, acceptedWordSets []map[string]struct{}) bool {
	if len(words) == 0 {
		return false
	}
	for _, set := range acceptedWordSets {
		matches := 0
		for _, w := range words {
			if _, ok := set[w]; ok {
				matches++
			}
		}
		if float64(matches)/float64(len(words)) > c.overlapThreshold {
			return true
		}
	}
	return false
}
