package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanningHeaderValidate(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		header  PlanningHeader
		wantErr bool
	}{
		{"new without revision", PlanningHeader{Day: day, Status: StatusNew}, false},
		{"new with revision", PlanningHeader{Day: day, Status: StatusNew, Revision: 1}, true},
		{"open after reopen", PlanningHeader{Day: day, Status: StatusOpen, Revision: 2}, false},
		{"revised", PlanningHeader{Day: day, Status: StatusRevised, Revision: 1}, false},
		{"missing day", PlanningHeader{Status: StatusNew}, true},
		{"unknown status", PlanningHeader{Day: day, Status: "DRAFT"}, true},
		{"negative revision", PlanningHeader{Day: day, Status: StatusOpen, Revision: -1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.header.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPlanStatusLocked(t *testing.T) {
	assert.False(t, StatusNew.Locked())
	assert.False(t, StatusOpen.Locked())
	assert.True(t, StatusClosed.Locked())
	assert.True(t, StatusRevised.Locked())
}

func TestNormalizeDay_DropsTimeOfDay(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	late := time.Date(2026, 5, 10, 23, 30, 0, 0, rome)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), NormalizeDay(late))

	assert.False(t, DayBefore(late, time.Date(2026, 5, 10, 1, 0, 0, 0, time.UTC)))
	assert.True(t, DayBefore(late, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, DayAfter(late, time.Date(2026, 5, 9, 23, 59, 0, 0, time.UTC)))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("31/01/2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseTimeSlot(t *testing.T) {
	cases := map[string]TimeSlot{"AM": SlotAM, "pm": SlotPM, " am ": SlotAM, "": SlotUnset}
	for in, want := range cases {
		got, ok := ParseTimeSlot(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseTimeSlot("EVENING")
	assert.False(t, ok)
}

func TestTimeSlotOrDefault(t *testing.T) {
	assert.Equal(t, SlotAM, SlotUnset.OrDefault())
	assert.Equal(t, SlotPM, SlotPM.OrDefault())
	assert.Less(t, SlotAM.Rank(), SlotPM.Rank())
	assert.Less(t, SlotPM.Rank(), SlotUnset.Rank())
}

func TestCatalogHelpers(t *testing.T) {
	assert.Equal(t, "ACME", Client{ClientName: "ACME", SiteName: SameSiteMarker}.ShortName())
	assert.Equal(t, "Milano", Client{ClientName: "ACME", SiteName: "Milano"}.ShortName())
	assert.Equal(t, "N/A", InterventionType{ID: 1}.Name())
	assert.Equal(t, "MR", Resource{FirstName: "mario", LastName: "Rossi"}.Initials())
	assert.Equal(t, "?", Resource{Username: "ghost"}.Initials())

	ref := Resource{Username: "mrossi", FirstName: "Mario", LastName: "Rossi"}.Ref()
	assert.Equal(t, "Mario Rossi", ref.Name)
	assert.Equal(t, "MR", ref.Initials)
}
