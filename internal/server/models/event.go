package models

import (
	"slices"
	"time"
)

// Event is a scheduled event. OwnerName is the creator's display name copied
// at creation time; it is not a reference to the user record.
type Event struct {
	ID          string
	Title       string
	OwnerName   string
	DateTime    time.Time
	Location    string
	Description string
	Attendees   []string
	CreatedAt   time.Time
}

// AttendeeCount is derived from the attendee set.
func (e *Event) AttendeeCount() int {
	return len(e.Attendees)
}

// HasAttendee reports whether userID joined the event.
func (e *Event) HasAttendee(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// EventFilter narrows an event listing. Zero values apply no constraint.
type EventFilter struct {
	// TitleContains is matched case-insensitively as a literal substring.
	TitleContains string
	// OwnerName restricts to events created under that name.
	OwnerName string
	From      time.Time
	To        time.Time
	// Ascending orders by date-time ascending instead of descending.
	Ascending bool
	Limit     int
}
