package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	weekdayPattern    = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	dayOfMonthPattern = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)? of (?:january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	clockTimePattern  = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})? ?(?:am|pm)`)

	withNamePattern  = regexp.MustCompile(`\bwith\s+([A-Z][a-z]+)`)
	andNamePattern   = regexp.MustCompile(`\band\s+([A-Z][a-z]+)`)
	capitalizedName  = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)?\b`)
	tomorrowEventCue = regexp.MustCompile(`(?i)\b(?:meeting|appointment|call)\b.*\btomorrow\b`)

	// Task captures are lazy and end at an explicit terminator: sentence
	// punctuation, a comma, " and ", or end of text. The terminator is
	// consumed, so the scan resumes past "and" and a conjoined cue produces
	// its own match.
	modalTaskPattern = regexp.MustCompile(`(?i)\b((?:need to|have to|must|should)\s+[^,.!?]+?)(?:\s+and\s+|[,.!?]|$)`)
	bringTaskPattern = regexp.MustCompile(`(?i)\b(bring\s+[^,.!?]+?)(?:\s+and\s+|[,.!?]|$)`)
)

// Extractor derives meeting metadata from cleaned transcript text using
// fixed patterns. It is deterministic, never fails, and runs without a
// network: every field it cannot determine keeps its sentinel value. Its
// output both complements and backstops the model extraction path.
type Extractor struct {
	stoplist map[string]struct{}
	now      func() time.Time
}

// NewExtractor creates a heuristic extractor. stoplist is the list of
// capitalized words never treated as participant names; nil or empty keeps
// DefaultStoplist. Matching against the stoplist is case-insensitive.
func NewExtractor(stoplist []string) *Extractor {
	words := stoplist
	if len(words) == 0 {
		words = DefaultStoplist()
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stoplist: set, now: time.Now}
}

// DefaultStoplist returns the capitalized words excluded from participant
// detection: pronouns, articles, weekday and month names, and common
// sentence openers that the capitalized-token scan would otherwise pick up.
func DefaultStoplist() []string {
	return []string{
		"I", "We", "You", "He", "She", "It", "They",
		"My", "Our", "Your", "His", "Her", "Their",
		"The", "A", "An", "This", "That", "These", "Those",
		"And", "But", "So", "Then", "Also", "Okay", "Yes", "No",
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
		"Today", "Tomorrow", "Meeting", "Let",
	}
}

// Extract runs every heuristic pass over text and bundles the results for
// reconciliation.
func (e *Extractor) Extract(text string) Heuristics {
	return Heuristics{
		MeetingDetails: e.MeetingDetails(text),
		CalendarEvents: e.CalendarEvents(text),
		ActionItems:    e.ActionItems(text),
	}
}

// MeetingDetails extracts the meeting date, time and participants from text.
func (e *Extractor) MeetingDetails(text string) MeetingDetails {
	details := DefaultMeetingDetails()
	details.Date = e.extractDate(text)
	details.Time = extractTime(text)
	if participants := e.extractParticipants(text); len(participants) > 0 {
		details.Participants = participants
	}
	return details
}

// extractDate resolves the meeting date with fixed priority: "tomorrow",
// then "today", then a weekday name, then a "14th of March" style phrase.
// Relative dates resolve against the wall clock at extraction time and
// render as M/D/YYYY without leading zeros.
func (e *Extractor) extractDate(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "tomorrow") {
		return shortDate(e.now().AddDate(0, 0, 1))
	}
	if strings.Contains(lower, "today") {
		return shortDate(e.now())
	}
	if m := weekdayPattern.FindString(text); m != "" {
		return capitalize(m)
	}
	if m := dayOfMonthPattern.FindString(text); m != "" {
		return m
	}
	return NotSpecified
}

// shortDate renders t as M/D/YYYY without leading zeros.
func shortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// extractTime returns the first clock time mentioned in text, verbatim as
// spoken ("3pm", "10:30 AM"), or the sentinel.
func extractTime(text string) string {
	if m := clockTimePattern.FindString(text); m != "" {
		return m
	}
	return NotSpecified
}

// extractParticipants collects probable participant names: a capitalized
// name after "with", one after "and", then every remaining capitalized one-
// or two-word token. The stoplist filters all three passes and collection
// order is first-mention, deduplicated case-insensitively. The scan is
// deliberately permissive; capitalized non-names that survive the stoplist
// will be collected.
func (e *Extractor) extractParticipants(text string) []string {
	var participants []string
	seen := make(map[string]struct{})

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		if _, stopped := e.stoplist[key]; stopped {
			return
		}
		seen[key] = struct{}{}
		participants = append(participants, name)
	}

	if m := withNamePattern.FindStringSubmatch(text); m != nil {
		add(m[1])
	}
	if m := andNamePattern.FindStringSubmatch(text); m != nil {
		add(m[1])
	}
	for _, m := range capitalizedName.FindAllString(text, -1) {
		add(m)
	}
	return participants
}

// CalendarEvents derives calendar entries from scheduling cues: a meeting,
// appointment or call mentioned together with "tomorrow", and any weekday
// mention. At most two events are produced and both reuse the first clock
// time found in the text. Reconciliation only consults these when the model
// produced no events of its own.
func (e *Extractor) CalendarEvents(text string) []CalendarEvent {
	var events []CalendarEvent
	eventTime := extractTime(text)

	if tomorrowEventCue.MatchString(text) {
		events = append(events, CalendarEvent{Title: "Meeting", Date: "Tomorrow", Time: eventTime})
	}
	if m := weekdayPattern.FindString(text); m != "" {
		events = append(events, CalendarEvent{Title: "Meeting", Date: capitalize(m), Time: eventTime})
	}
	return events
}

// ActionItems derives tasks from obligation cues: "need to", "have to",
// "must" and "should" phrases, plus "bring" phrases. The task text keeps the
// modal ("need to submit the report", not "submit the report") and stops at
// the first sentence boundary, comma, or " and "; a second cue past that
// boundary yields its own item. Deadlines are never inferred here.
// Reconciliation only consults these when the model produced no items of its
// own.
func (e *Extractor) ActionItems(text string) []ActionItem {
	var items []ActionItem
	for _, m := range modalTaskPattern.FindAllStringSubmatch(text, -1) {
		if task := strings.TrimSpace(m[1]); task != "" {
			items = append(items, ActionItem{Task: task, Deadline: NotSpecified})
		}
	}
	for _, m := range bringTaskPattern.FindAllStringSubmatch(text, -1) {
		if task := strings.TrimSpace(m[1]); task != "" {
			items = append(items, ActionItem{Task: task, Deadline: NotSpecified})
		}
	}
	return items
}

// capitalize uppercases the first letter and lowercases the rest, turning
// "FRIDAY" or "friday" into "Friday".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
