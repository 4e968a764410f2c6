package transcript

import (
	"strings"
	"sync"
)

// Aggregator accumulates the finalized speech fragments of one recording
// session and rebuilds the deduplicated transcript on demand. It is safe for
// concurrent use: fragments arrive from the recognizer callback while HTTP
// handlers read the current transcript.
type Aggregator struct {
	mu        sync.RWMutex
	fragments []string
	deduper   *Deduper
}

// NewAggregator creates an empty transcript aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{deduper: NewDeduper()}
}

// Reset discards all accumulated fragments. This is the only clearing
// operation and must run exactly when a new recording session starts;
// recognizer restarts within a session must not reset, or earlier speech
// would be lost.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fragments = nil
}

// AppendFinal records one finalized recognition fragment. Interim
// (non-final) recognizer output must never be appended. Empty and
// whitespace-only fragments are ignored.
func (a *Aggregator) AppendFinal(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fragments = append(a.fragments, trimmed)
}

// Current rebuilds the full transcript: fragments joined with single spaces,
// then passed through phrase deduplication. Dedup runs on every call rather
// than at append time so that repetition spanning fragment boundaries is
// caught too.
func (a *Aggregator) Current() string {
	a.mu.RLock()
	joined := strings.Join(a.fragments, " ")
	a.mu.RUnlock()
	return a.deduper.Dedupe(joined)
}

// FragmentCount reports how many fragments have been accepted since the last
// reset.
func (a *Aggregator) FragmentCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.fragments)
}
