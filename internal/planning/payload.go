package planning

import "github.com/alexanderramin/fieldplan/internal/domain"

// BuildPayload serializes the full row set for the atomic update. Persisted
// rows carry their ID, new rows carry zero. An unset time slot is saved as AM.
func BuildPayload(rows []domain.DetailRow) []domain.DetailPayload {
	out := make([]domain.DetailPayload, 0, len(rows))
	for _, r := range rows {
		p := domain.DetailPayload{
			ID:                r.ID,
			ExternalEventID:   r.ExternalEventID,
			Description:       r.Description,
			Notes:             r.Notes,
			TimeSlot:          r.TimeSlot.OrDefault(),
			MaterialAvailable: r.MaterialAvailable,
			Resources:         make([]string, 0, len(r.AssignedResources)),
			Interventions:     make([]domain.InterventionPayload, 0, len(r.Interventions)),
		}
		if r.Client != nil {
			siteID := r.Client.SiteID
			p.SiteID = &siteID
		}
		for _, res := range r.AssignedResources {
			p.Resources = append(p.Resources, res.Username)
		}
		for _, iv := range r.Interventions {
			p.Interventions = append(p.Interventions, domain.InterventionPayload{
				TypeID:   iv.TypeID,
				Quantity: max(iv.Quantity, 1),
			})
		}
		out = append(out, p)
	}
	return out
}

// RowFromRecord maps a persisted detail back into a working row, resolving
// catalog references. Unknown references degrade to placeholders instead of failing.
func RowFromRecord(rec domain.DetailRecord, cat *domain.Catalogs, key string) domain.DetailRow {
	row := domain.DetailRow{
		ID:                rec.ID,
		Key:               key,
		ExternalEventID:   rec.ExternalEventID,
		FeedIndex:         -1,
		Description:       rec.Description,
		Notes:             rec.Notes,
		TimeSlot:          rec.TimeSlot,
		MaterialAvailable: rec.MaterialAvailable,
	}
	if rec.SiteID != nil {
		if cl, ok := cat.ClientBySite(*rec.SiteID); ok {
			ref := cl.Ref()
			row.Client = &ref
		} else {
			row.Client = &domain.ClientRef{SiteID: *rec.SiteID}
		}
	}
	resources := make([]domain.ResourceRef, 0, len(rec.Resources))
	for _, username := range rec.Resources {
		if res, ok := cat.ResourceByUsername(username); ok {
			resources = append(resources, res.Ref())
			continue
		}
		resources = append(resources, domain.ResourceRef{Username: username, Name: username, Initials: "?"})
	}
	row.SetResources(resources)
	for _, iv := range rec.Interventions {
		name := "Unknown"
		if t, ok := cat.InterventionTypeByID(iv.TypeID); ok {
			name = t.Name()
		}
		row.Interventions = append(row.Interventions, domain.InterventionAssignment{
			TypeID:   iv.TypeID,
			TypeName: name,
			Quantity: max(iv.Quantity, 1),
		})
	}
	return row
}
