package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedExtractor returns an extractor pinned to Friday, March 14 2025 so
// relative dates resolve deterministically.
func fixedExtractor(t *testing.T, stoplist []string) *Extractor {
	t.Helper()
	e := NewExtractor(stoplist)
	e.now = func() time.Time {
		return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	}
	return e
}

func TestExtractorMeetingDetails(t *testing.T) {
	e := fixedExtractor(t, nil)

	details := e.MeetingDetails("I have a meeting tomorrow at 3pm with John")

	assert.Equal(t, "3/15/2025", details.Date)
	assert.Equal(t, "3pm", details.Time)
	assert.Equal(t, []string{"John"}, details.Participants)
}

func TestExtractorDatePriority(t *testing.T) {
	e := fixedExtractor(t, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"tomorrow", "see you tomorrow then", "3/15/2025"},
		{"today", "we meet today at noon", "3/14/2025"},
		{"tomorrow beats weekday", "meet tomorrow or Friday", "3/15/2025"},
		{"today beats weekday", "either today or on Monday", "3/14/2025"},
		{"weekday capitalized", "let us sync friday afternoon", "Friday"},
		{"day of month verbatim", "the review lands on the 14th of March", "14th of March"},
		{"nothing", "no schedule was discussed", NotSpecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.MeetingDetails(tt.text).Date)
		})
	}
}

func TestExtractorTime(t *testing.T) {
	e := fixedExtractor(t, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"compact", "starts at 3pm sharp", "3pm"},
		{"with minutes and space", "doors open at 10:30 am", "10:30 am"},
		{"uppercase verbatim", "kickoff at 9AM", "9AM"},
		{"first of several", "either 9am or 2pm works", "9am"},
		{"bare digit run", "the timer shows 330pm", "30pm"},
		{"none", "sometime next week", NotSpecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.MeetingDetails(tt.text).Time)
		})
	}
}

func TestExtractorParticipants(t *testing.T) {
	e := fixedExtractor(t, nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "with and and captures",
			text: "The design review is with Sarah and Bob today",
			want: []string{"Sarah", "Bob"},
		},
		{
			name: "case insensitive dedup",
			text: "We talk with Alice and Alice about it",
			want: []string{"Alice"},
		},
		{
			name: "two word name",
			text: "We sync with John and his manager John Smith",
			want: []string{"John", "John Smith"},
		},
		{
			name: "stoplist filters weekdays and pronouns",
			text: "We should see them this Friday",
			want: []string{UnspecifiedParticipants},
		},
		{
			name: "no names yields sentinel",
			text: "nothing but lowercase words here",
			want: []string{UnspecifiedParticipants},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.MeetingDetails(tt.text).Participants)
		})
	}
}

func TestExtractorCustomStoplist(t *testing.T) {
	e := fixedExtractor(t, []string{"Zoom"})

	details := e.MeetingDetails("join the call with Zoom running and Dave waiting")
	assert.Equal(t, []string{"Dave"}, details.Participants)
}

func TestExtractorCalendarEvents(t *testing.T) {
	e := fixedExtractor(t, nil)

	t.Run("tomorrow cue and weekday produce two events", func(t *testing.T) {
		events := e.CalendarEvents("schedule a meeting tomorrow at 3pm and we ship on Friday")
		require.Len(t, events, 2)
		assert.Equal(t, CalendarEvent{Title: "Meeting", Date: "Tomorrow", Time: "3pm"}, events[0])
		assert.Equal(t, CalendarEvent{Title: "Meeting", Date: "Friday", Time: "3pm"}, events[1])
	})

	t.Run("call cue without a time", func(t *testing.T) {
		events := e.CalendarEvents("I will call you tomorrow")
		require.Len(t, events, 1)
		assert.Equal(t, CalendarEvent{Title: "Meeting", Date: "Tomorrow", Time: NotSpecified}, events[0])
	})

	t.Run("no cues no events", func(t *testing.T) {
		assert.Empty(t, e.CalendarEvents("just chatting about the weather"))
	})
}

func TestExtractorActionItems(t *testing.T) {
	e := fixedExtractor(t, nil)

	t.Run("modal cue keeps the modal in the task", func(t *testing.T) {
		items := e.ActionItems("We need to submit the report by Friday.")
		require.Len(t, items, 1)
		assert.Contains(t, items[0].Task, "need to submit the report")
		assert.Equal(t, NotSpecified, items[0].Deadline)
	})

	t.Run("task cut at and connector", func(t *testing.T) {
		items := e.ActionItems("You must update the roadmap and notify the team.")
		require.Len(t, items, 1)
		assert.Equal(t, "must update the roadmap", items[0].Task)
	})

	t.Run("conjoined modal cues yield separate tasks", func(t *testing.T) {
		items := e.ActionItems("We must call Alice and should email Bob")
		require.Len(t, items, 2)
		assert.Equal(t, "must call Alice", items[0].Task)
		assert.Equal(t, "should email Bob", items[1].Task)
	})

	t.Run("bring cue is its own item", func(t *testing.T) {
		items := e.ActionItems("Please bring the slides to the review.")
		require.Len(t, items, 1)
		assert.Equal(t, "bring the slides to the review", items[0].Task)
	})

	t.Run("repeated bring cues collected globally", func(t *testing.T) {
		items := e.ActionItems("Please bring the charger and bring the adapter")
		require.Len(t, items, 2)
		assert.Equal(t, "bring the charger", items[0].Task)
		assert.Equal(t, "bring the adapter", items[1].Task)
	})

	t.Run("task stops at comma", func(t *testing.T) {
		items := e.ActionItems("We should review the metrics, then decide.")
		require.Len(t, items, 1)
		assert.Equal(t, "should review the metrics", items[0].Task)
	})

	t.Run("no cues no items", func(t *testing.T) {
		assert.Empty(t, e.ActionItems("great meeting everyone"))
	})
}

func TestExtractorExtractBundlesAllPasses(t *testing.T) {
	e := fixedExtractor(t, nil)

	h := e.Extract("I have a meeting tomorrow at 3pm with John. We need to submit the report.")

	assert.Equal(t, "3/15/2025", h.MeetingDetails.Date)
	assert.Equal(t, "3pm", h.MeetingDetails.Time)
	assert.Equal(t, []string{"John"}, h.MeetingDetails.Participants)
	require.Len(t, h.CalendarEvents, 1)
	assert.Equal(t, "Tomorrow", h.CalendarEvents[0].Date)
	require.Len(t, h.ActionItems, 1)
	assert.Contains(t, h.ActionItems[0].Task, "need to submit the report")
}

func TestExtractorNeverReturnsEmptyFields(t *testing.T) {
	e := fixedExtractor(t, nil)

	details := e.MeetingDetails("")
	assert.Equal(t, NotSpecified, details.Date)
	assert.Equal(t, NotSpecified, details.Time)
	assert.Equal(t, []string{UnspecifiedParticipants}, details.Participants)
}
