package domain

// CalendarEvent is one occurrence returned by the external calendar feed for a day.
type CalendarEvent struct {
	ExternalID  string
	Title       string
	Description string
	Color       string
	TimeSlot    TimeSlot
	// MaterialAvailable is nil when the event carries no material flag.
	MaterialAvailable *bool
	Notes             string
}
