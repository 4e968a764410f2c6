package analysis

import (
	"strings"
)

// Reconciler merges the model extraction result with heuristic fallbacks
// under fixed precedence rules, then enforces the output invariants. The
// model is better at summaries and key points; the heuristics are more
// reliable for concrete scheduling strings, so those win per field.
type Reconciler struct{}

// NewReconciler creates a reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile merges ai with h and returns the final result. ai is mutated in
// place. A nil ai means the model result was unusable; in that case the
// heuristics are not consulted and the fixed default payload is returned,
// so a failed model call always produces the exact same response shape.
func (r *Reconciler) Reconcile(ai *Result, h Heuristics) *Result {
	if ai == nil {
		return DefaultResult()
	}

	// Heuristic calendar events only backstop an empty model list.
	if len(ai.CalendarEvents) == 0 && len(h.CalendarEvents) > 0 {
		ai.CalendarEvents = h.CalendarEvents
	}

	// Meeting details start from the heuristics regardless of what the
	// model said, then resolve remaining sentinels from the first calendar
	// event, then from the model, then from the event once more in case
	// the model merge left a sentinel the event can still fill.
	details := h.MeetingDetails
	fillFromFirstEvent(&details, ai.CalendarEvents)
	details = mergeDetails(details, ai.MeetingDetails)
	fillFromFirstEvent(&details, ai.CalendarEvents)
	ai.MeetingDetails = details

	// Heuristic action items only backstop an empty model list.
	if len(ai.ActionItems) == 0 && len(h.ActionItems) > 0 {
		ai.ActionItems = h.ActionItems
	}

	normalize(ai)
	return ai
}

// fillFromFirstEvent copies the first event's concrete date and time over
// sentinel detail fields.
func fillFromFirstEvent(details *MeetingDetails, events []CalendarEvent) {
	if len(events) == 0 {
		return
	}
	first := events[0]
	if details.Date == NotSpecified && concrete(first.Date) {
		details.Date = first.Date
	}
	if details.Time == NotSpecified && concrete(first.Time) {
		details.Time = first.Time
	}
}

// mergeDetails resolves each field with precedence heuristic over model over
// sentinel.
func mergeDetails(h, ai MeetingDetails) MeetingDetails {
	out := h
	if out.Date == NotSpecified && concrete(ai.Date) {
		out.Date = ai.Date
	}
	if out.Time == NotSpecified && concrete(ai.Time) {
		out.Time = ai.Time
	}
	if sentinelParticipants(out.Participants) && !sentinelParticipants(ai.Participants) {
		out.Participants = ai.Participants
	}
	return out
}

func concrete(v string) bool {
	return v != "" && v != NotSpecified
}

func sentinelParticipants(p []string) bool {
	return len(p) == 0 || (len(p) == 1 && p[0] == UnspecifiedParticipants)
}

// normalize enforces the result invariants: nil slices become empty ones,
// key points and participants are never empty, summary and deadlines are
// never blank.
func normalize(res *Result) {
	if res.ActionItems == nil {
		res.ActionItems = []ActionItem{}
	}
	for i := range res.ActionItems {
		if strings.TrimSpace(res.ActionItems[i].Deadline) == "" {
			res.ActionItems[i].Deadline = NotSpecified
		}
	}
	if res.CalendarEvents == nil {
		res.CalendarEvents = []CalendarEvent{}
	}
	if len(res.KeyPoints) == 0 {
		res.KeyPoints = []string{NoKeyPointsAvailable}
	}
	if strings.TrimSpace(res.Summary) == "" {
		res.Summary = NoSummaryAvailable
	}
	if res.MeetingDetails.Date == "" {
		res.MeetingDetails.Date = NotSpecified
	}
	if res.MeetingDetails.Time == "" {
		res.MeetingDetails.Time = NotSpecified
	}
	if sentinelParticipants(res.MeetingDetails.Participants) {
		res.MeetingDetails.Participants = []string{UnspecifiedParticipants}
	}
}
