package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduperShortInputUnchanged(t *testing.T) {
	d := NewDeduper()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"one token", "hello"},
		{"four tokens", "one two three four"},
		{"irregular spacing preserved", "  keep   this  spacing "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, d.Dedupe(tt.input))
		})
	}
}

func TestDeduperSuppressesRepeatedPhrases(t *testing.T) {
	d := NewDeduper()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "exact repeat",
			input: "alpha beta gamma alpha beta gamma",
			want:  "alpha beta gamma beta gamma",
		},
		{
			name:  "case insensitive matching keeps original casing",
			input: "Send The Report send the report now",
			want:  "Send The Report the report now",
		},
		{
			name:  "no repeats unchanged",
			input: "every word here is unique nothing repeats at all",
			want:  "every word here is unique nothing repeats at all",
		},
		{
			name:  "long repeated run",
			input: "I think we should review the budget tomorrow I think we should review the budget tomorrow",
			want:  "I think we should review the budget tomorrow budget tomorrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Dedupe(tt.input))
		})
	}
}

func TestDeduperNormalizesWhitespace(t *testing.T) {
	d := NewDeduper()

	got := d.Dedupe("one   two\tthree\nfour five six")
	assert.Equal(t, "one two three four five six", got)
}

func TestDeduperOutputIsSubsequenceOfInput(t *testing.T) {
	d := NewDeduper()

	input := "we agreed to ship on friday we agreed to ship the fix after review and then ship on friday again"
	got := d.Dedupe(input)

	inputTokens := strings.Fields(input)
	outputTokens := strings.Fields(got)
	require.LessOrEqual(t, len(outputTokens), len(inputTokens))

	// Every output token must appear in the input in the same order.
	i := 0
	for _, tok := range outputTokens {
		found := false
		for ; i < len(inputTokens); i++ {
			if inputTokens[i] == tok {
				found = true
				i++
				break
			}
		}
		require.True(t, found, "token %q out of order or missing", tok)
	}
}

func TestDeduperStableOnSecondPass(t *testing.T) {
	d := NewDeduper()

	once := d.Dedupe("alpha beta gamma alpha beta gamma")
	twice := d.Dedupe(once)
	assert.Equal(t, once, twice)
}
