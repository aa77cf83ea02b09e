package domain

import "strings"

// InterventionAssignment is a typed quantity of work attached to a row.
type InterventionAssignment struct {
	TypeID   int64
	TypeName string
	Quantity int
}

// ClientRef points at a client/site pair.
type ClientRef struct {
	SiteID     int64
	ClientName string
	SiteName   string
}

// ResourceRef points at a field resource (a user that works on site).
type ResourceRef struct {
	Username string
	Name     string
	Initials string
}

// DetailRow is one planned activity in a day. Rows with ExternalEventID set
// come from calendar reconciliation; the external fields are provenance only.
type DetailRow struct {
	// ID is the store identity, zero until first persisted.
	ID int64
	// Key identifies the row within an editing session. It is stable across
	// saves for the lifetime of the session.
	Key string

	ExternalEventID string
	ExternalTitle   string
	ExternalColor   string
	// FeedIndex is the position of the event in the feed at fetch time, -1 for manual rows.
	FeedIndex int

	Description       string
	Client            *ClientRef
	AssignedResources []ResourceRef
	Interventions     []InterventionAssignment
	Notes             string
	TimeSlot          TimeSlot
	MaterialAvailable bool
}

// IsNew reports whether the row has never been persisted.
func (r *DetailRow) IsNew() bool {
	return r.ID == 0
}

// IsExternal reports whether the row is linked to a calendar event.
func (r *DetailRow) IsExternal() bool {
	return r.ExternalEventID != ""
}

// Clone returns a deep copy of the row.
func (r DetailRow) Clone() DetailRow {
	c := r
	if r.Client != nil {
		cl := *r.Client
		c.Client = &cl
	}
	if r.AssignedResources != nil {
		c.AssignedResources = append([]ResourceRef(nil), r.AssignedResources...)
	}
	if r.Interventions != nil {
		c.Interventions = append([]InterventionAssignment(nil), r.Interventions...)
	}
	return c
}

// AddIntervention adds one unit of the given type. An already present type
// has its quantity incremented instead of being duplicated.
func (r *DetailRow) AddIntervention(typeID int64, typeName string) {
	for i := range r.Interventions {
		if r.Interventions[i].TypeID == typeID {
			r.Interventions[i].Quantity++
			return
		}
	}
	r.Interventions = append(r.Interventions, InterventionAssignment{
		TypeID:   typeID,
		TypeName: typeName,
		Quantity: 1,
	})
}

// SetInterventionQuantity sets the quantity for an existing type, clamped to at least 1.
// Returns false when the type is not on the row.
func (r *DetailRow) SetInterventionQuantity(typeID int64, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	for i := range r.Interventions {
		if r.Interventions[i].TypeID == typeID {
			r.Interventions[i].Quantity = qty
			return true
		}
	}
	return false
}

// RemoveIntervention drops the given type from the row.
func (r *DetailRow) RemoveIntervention(typeID int64) bool {
	for i := range r.Interventions {
		if r.Interventions[i].TypeID == typeID {
			r.Interventions = append(r.Interventions[:i], r.Interventions[i+1:]...)
			return true
		}
	}
	return false
}

// SetResources replaces the assigned resources, dropping duplicate usernames.
func (r *DetailRow) SetResources(resources []ResourceRef) {
	seen := make(map[string]bool, len(resources))
	out := make([]ResourceRef, 0, len(resources))
	for _, res := range resources {
		if res.Username == "" || seen[res.Username] {
			continue
		}
		seen[res.Username] = true
		out = append(out, res)
	}
	r.AssignedResources = out
}

// Complete reports whether the row carries everything needed for dispatch.
// requireResources is set for privileged users once the plan has left NEW.
func (r *DetailRow) Complete(requireResources bool) bool {
	if r.Client == nil || len(r.Interventions) == 0 || r.TimeSlot == SlotUnset {
		return false
	}
	if requireResources && len(r.AssignedResources) == 0 {
		return false
	}
	return true
}

// DisplayTitle returns the best human label for the row.
func (r *DetailRow) DisplayTitle() string {
	return CoalesceStr(strings.TrimSpace(r.Description), r.ExternalTitle)
}
