package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDay(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{"today", today, "Today"},
		{"later today still today", today.Add(20 * time.Hour), "Today"},
		{"tomorrow", today.AddDate(0, 0, 1), "Tomorrow"},
		{"yesterday", today.AddDate(0, 0, -1), "Yesterday"},
		{"next week", today.AddDate(0, 0, 6), "In 6d"},
		{"last week", today.AddDate(0, 0, -4), "4d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDay(tt.day, today))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Manut…", Truncate("Manutenzione", 6))
	assert.Equal(t, "…", Truncate("abc", 1))
	assert.Equal(t, "àèìòù", Truncate("àèìòù", 5))
}

func TestRenderCompletion(t *testing.T) {
	client := &domain.ClientRef{SiteID: 1, ClientName: "Sogesa"}
	complete := domain.DetailRow{
		Client:        client,
		TimeSlot:      domain.SlotAM,
		Interventions: []domain.InterventionAssignment{{TypeID: 1, Quantity: 1}},
	}
	incomplete := domain.DetailRow{Description: "draft"}

	assert.Contains(t, RenderCompletion([]domain.DetailRow{complete, incomplete}, false, 4), "1/2 complete")
	assert.Contains(t, RenderCompletion(nil, false, 4), "0/0 complete")
	assert.Contains(t, RenderCompletion([]domain.DetailRow{complete}, true, 4), "0/1 complete",
		"resources are required for privileged users outside NEW")
}
