package planning

import (
	"testing"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload(t *testing.T) {
	persisted := domain.DetailRow{
		ID:                12,
		Key:               "a",
		ExternalEventID:   "evt",
		Description:       "Install",
		Client:            &domain.ClientRef{SiteID: 4},
		TimeSlot:          domain.SlotPM,
		MaterialAvailable: true,
	}
	persisted.AddIntervention(2, "Setup")
	persisted.AddIntervention(2, "Setup")
	persisted.SetResources([]domain.ResourceRef{{Username: "mrossi"}})

	fresh := domain.DetailRow{Key: "b", Description: "Manual"}

	out := BuildPayload([]domain.DetailRow{persisted, fresh})

	require.Len(t, out, 2)
	assert.Equal(t, int64(12), out[0].ID)
	assert.Equal(t, "evt", out[0].ExternalEventID)
	require.NotNil(t, out[0].SiteID)
	assert.Equal(t, int64(4), *out[0].SiteID)
	assert.Equal(t, []string{"mrossi"}, out[0].Resources)
	assert.Equal(t, []domain.InterventionPayload{{TypeID: 2, Quantity: 2}}, out[0].Interventions)
	assert.Equal(t, domain.SlotPM, out[0].TimeSlot)
	assert.True(t, out[0].MaterialAvailable)

	assert.Zero(t, out[1].ID, "new rows omit the id")
	assert.Nil(t, out[1].SiteID)
	assert.Equal(t, domain.SlotAM, out[1].TimeSlot, "unset slot is persisted as AM")
	assert.Empty(t, out[1].Interventions)
}

func TestRowFromRecord_ResolvesCatalogs(t *testing.T) {
	site := int64(3)
	cat := &domain.Catalogs{
		Clients:           []domain.Client{{SiteID: 3, ClientName: "ACME", SiteName: domain.SameSiteMarker}},
		InterventionTypes: []domain.InterventionType{{ID: 1, Description: "Cablaggio"}},
		Resources:         []domain.Resource{{Username: "mrossi", FirstName: "Mario", LastName: "Rossi"}},
	}
	rec := domain.DetailRecord{
		ID:              8,
		ExternalEventID: "A",
		SiteID:          &site,
		Resources:       []string{"mrossi", "retired"},
		TimeSlot:        domain.SlotPM,
		Interventions:   []domain.InterventionPayload{{TypeID: 1, Quantity: 3}, {TypeID: 42, Quantity: 1}},
	}

	row := RowFromRecord(rec, cat, "k")

	assert.Equal(t, int64(8), row.ID)
	assert.Equal(t, "k", row.Key)
	assert.False(t, row.IsNew())
	require.NotNil(t, row.Client)
	assert.Equal(t, "ACME", row.Client.SiteName)
	require.Len(t, row.AssignedResources, 2)
	assert.Equal(t, "MR", row.AssignedResources[0].Initials)
	assert.Equal(t, "retired", row.AssignedResources[1].Username)
	require.Len(t, row.Interventions, 2)
	assert.Equal(t, "Cablaggio", row.Interventions[0].TypeName)
	assert.Equal(t, 3, row.Interventions[0].Quantity)
	assert.Equal(t, "Unknown", row.Interventions[1].TypeName)
}
