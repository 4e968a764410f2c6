package analysis

// Sentinel values for fields that cannot be determined from the transcript.
// Clients render them verbatim, so they are part of the API contract and
// must not change casing or wording.
const (
	NotSpecified            = "Not specified"
	UnspecifiedParticipants = "Unspecified participants"
	NoSummaryAvailable      = "No summary available"
	NoKeyPointsAvailable    = "No key points available"
)

// MeetingDetails holds the scheduling metadata of a meeting. Date and Time
// are transcript-verbatim strings, not parsed timestamps: "Friday", "3pm"
// and "14th of March" are all valid values.
type MeetingDetails struct {
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Participants []string `json:"participants"`
}

// CalendarEvent is a meeting or appointment worth adding to a calendar.
type CalendarEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// ActionItem is a task someone committed to during the meeting.
type ActionItem struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
}

// Result is the structured output of one completed recording session. Its
// field invariants hold after reconciliation: slices are never nil,
// Participants and KeyPoints are never empty, Summary is never blank.
type Result struct {
	Summary        string          `json:"summary"`
	KeyPoints      []string        `json:"keyPoints"`
	ActionItems    []ActionItem    `json:"actionItems"`
	MeetingDetails MeetingDetails  `json:"meetingDetails"`
	CalendarEvents []CalendarEvent `json:"calendarEvents"`
}

// Heuristics bundles the pattern-extracted data fed into reconciliation
// alongside the model result.
type Heuristics struct {
	MeetingDetails MeetingDetails  `json:"meetingDetails"`
	CalendarEvents []CalendarEvent `json:"calendarEvents"`
	ActionItems    []ActionItem    `json:"actionItems"`
}

// DefaultMeetingDetails returns meeting details with every field set to its
// sentinel.
func DefaultMeetingDetails() MeetingDetails {
	return MeetingDetails{
		Date:         NotSpecified,
		Time:         NotSpecified,
		Participants: []string{UnspecifiedParticipants},
	}
}

// DefaultResult returns the fixed fallback payload used when the model
// result is unusable. It is a fresh value on every call so callers can
// mutate it safely.
func DefaultResult() *Result {
	return &Result{
		Summary:        NoSummaryAvailable,
		KeyPoints:      []string{NoKeyPointsAvailable},
		ActionItems:    []ActionItem{},
		MeetingDetails: DefaultMeetingDetails(),
		CalendarEvents: []CalendarEvent{},
	}
}
