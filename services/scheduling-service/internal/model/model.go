package model

import "time"

// BusySource identifies which upstream collaborator reported a busy interval.
type BusySource string

const (
	SourceOwnedEvent     BusySource = "owned-event"
	SourceParticipation  BusySource = "participation"
	SourcePendingRequest BusySource = "pending-request"
	SourceExternalEvent  BusySource = "external-event"
)

// BusyInterval is a [Start, End) range during which a user cannot be booked.
// Only the bounds and the source matter to the engine.
type BusyInterval struct {
	Start  time.Time
	End    time.Time
	Source BusySource
}

// WeeklyWindow is one span of a user's recurring weekly availability
// template. StartClock and EndClock are wall-clock "HH:MM" strings with no
// date or zone; they are anchored to a concrete day at slot-generation time.
// Windows for the same weekday are assumed (not enforced) not to overlap.
type WeeklyWindow struct {
	Weekday    time.Weekday
	StartClock string
	EndClock   string
	Enabled    bool
}

// CalendarItem is a single calendar entry as shown to the user. OwnerID and
// Location pass through the engine untouched.
type CalendarItem struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	OwnerID  string
	Location string
}

// ConflictGroup is a maximal chain of mutually overlapping calendar items.
// It always has at least two members; a lone item is rendered unwrapped.
type ConflictGroup struct {
	ID      string
	Start   time.Time
	End     time.Time
	Members []CalendarItem
}

// Renderable item kinds.
const (
	RenderableEvent    = "event"
	RenderableConflict = "conflict"
)

// RenderableItem is a tagged union: exactly one of Event or Group is set,
// according to Kind.
type RenderableItem struct {
	Kind  string
	Event *CalendarItem
	Group *ConflictGroup
}

// UserTimezoneProfile carries a user's IANA timezone and working-hour
// window as fractional hours of the local day (9.5 means 09:30).
type UserTimezoneProfile struct {
	UserID    string
	Timezone  string
	WorkStart float64
	WorkEnd   float64
}

// MeetingRequest is a pending invitation. Until accepted or declined it
// blocks the invitee's time like any confirmed commitment.
type MeetingRequest struct {
	ID          string
	OrganizerID string
	InviteeID   string
	Title       string
	Start       time.Time
	End         time.Time
	Status      string
	CreatedAt   time.Time
}
