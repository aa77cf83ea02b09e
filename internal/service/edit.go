package service

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// Field names an editable column of a detail row.
type Field string

const (
	FieldDescription Field = "description"
	FieldNotes       Field = "notes"
	FieldTimeSlot    Field = "time_slot"
	FieldMaterial    Field = "material"
	FieldClient      Field = "client"
	FieldResources   Field = "resources"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldDescription, FieldClient, FieldTimeSlot, FieldMaterial, FieldNotes, FieldResources}

// ParseField accepts a field name case-insensitively, with "slot" and
// "site" as aliases.
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldDescription, FieldNotes, FieldTimeSlot, FieldMaterial, FieldClient, FieldResources:
		return f, true
	case "slot":
		return FieldTimeSlot, true
	case "site":
		return FieldClient, true
	}
	return "", false
}

// Edit is one field change on the row identified by Key. Value carries the
// textual input; for FieldClient it is the site id ("" clears), for
// FieldMaterial a boolean, for FieldTimeSlot AM, PM or "-". Values carries
// the usernames of FieldResources.
type Edit struct {
	Key    string
	Field  Field
	Value  string
	Values []string
}

func (e Edit) sameTarget(o Edit) bool {
	return e.Key == o.Key && e.Field == o.Field
}

// apply mutates row. It returns false when the input cannot be applied, in
// which case row is untouched.
func (e Edit) apply(row *domain.DetailRow, cat *domain.Catalogs) bool {
	switch e.Field {
	case FieldDescription:
		row.Description = e.Value
	case FieldNotes:
		row.Notes = e.Value
	case FieldTimeSlot:
		slot, ok := domain.ParseTimeSlot(e.Value)
		if !ok {
			return false
		}
		row.TimeSlot = slot
	case FieldMaterial:
		b, err := strconv.ParseBool(strings.TrimSpace(e.Value))
		if err != nil {
			return false
		}
		row.MaterialAvailable = b
	case FieldClient:
		v := strings.TrimSpace(e.Value)
		if v == "" {
			row.Client = nil
			return true
		}
		siteID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false
		}
		cl, ok := cat.ClientBySite(siteID)
		if !ok {
			return false
		}
		ref := cl.Ref()
		row.Client = &ref
	case FieldResources:
		refs := make([]domain.ResourceRef, 0, len(e.Values))
		for _, username := range e.Values {
			res, ok := cat.ResourceByUsername(strings.TrimSpace(username))
			if !ok {
				return false
			}
			refs = append(refs, res.Ref())
		}
		row.SetResources(refs)
	default:
		return false
	}
	return true
}
