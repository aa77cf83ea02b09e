package domain

// InterventionPayload is the persisted form of an intervention assignment.
type InterventionPayload struct {
	TypeID   int64
	Quantity int
}

// DetailPayload is one row of the full-replace update. ID is zero for rows
// that have never been persisted.
type DetailPayload struct {
	ID                int64
	ExternalEventID   string
	Description       string
	SiteID            *int64
	Resources         []string
	Notes             string
	TimeSlot          TimeSlot
	MaterialAvailable bool
	Interventions     []InterventionPayload
}

// HeaderUpdate is the single atomic update covering header status,
// attribution and the complete detail list.
type HeaderUpdate struct {
	Status     PlanStatus
	Revision   int
	ModifiedBy string
	// Details is nil for status-only updates (reopen), which leave rows untouched.
	Details []DetailPayload
}

// DetailRecord is a persisted detail as returned by the store.
type DetailRecord struct {
	ID                int64
	HeaderID          int64
	Position          int
	ExternalEventID   string
	Description       string
	SiteID            *int64
	Resources         []string
	Notes             string
	TimeSlot          TimeSlot
	MaterialAvailable bool
	Interventions     []InterventionPayload
	CreatedBy         string
	ModifiedBy        string
}
