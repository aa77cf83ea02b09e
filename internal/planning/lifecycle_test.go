package planning

import (
	"testing"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	privileged = domain.Actor{Attribution: "Anna Verdi", Priority: specialist}
	operator   = domain.Actor{Attribution: "Luca Neri", Priority: warehouse}
)

func TestNewHeader(t *testing.T) {
	h, err := NewHeader(time.Date(2026, 10, 20, 15, 4, 0, 0, time.UTC), operator)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, h.Status)
	assert.Equal(t, 0, h.Revision)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), h.Day)
	assert.Equal(t, "Luca Neri", h.CreatedBy)
	assert.Equal(t, "Luca Neri", h.ModifiedBy)

	_, err = NewHeader(time.Time{}, operator)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNextStatus_DraftNeverMoves(t *testing.T) {
	p := NewPolicy(0)
	for _, st := range []domain.PlanStatus{domain.StatusNew, domain.StatusOpen, domain.StatusClosed, domain.StatusRevised} {
		got, err := p.NextStatus(header(tomorrow, st, 0), false, warehouse)
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
}

func TestNextStatus_Finalize(t *testing.T) {
	p := NewPolicy(0)

	got, err := p.NextStatus(header(tomorrow, domain.StatusNew, 0), true, warehouse)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got, "any role hands NEW over to OPEN")

	got, err = p.NextStatus(header(tomorrow, domain.StatusOpen, 0), true, specialist)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, got)

	got, err = p.NextStatus(header(tomorrow, domain.StatusOpen, 2), true, specialist)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRevised, got)

	_, err = p.NextStatus(header(tomorrow, domain.StatusOpen, 0), true, warehouse)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)

	_, err = p.NextStatus(header(tomorrow, domain.StatusClosed, 0), true, specialist)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReopen(t *testing.T) {
	p := NewPolicy(0)

	out, err := p.Reopen(header(tomorrow, domain.StatusClosed, 0), privileged, today)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, out.Status)
	assert.Equal(t, 1, out.Revision)
	assert.Equal(t, "Anna Verdi", out.ModifiedBy)

	cases := []struct {
		name   string
		header *domain.PlanningHeader
		actor  domain.Actor
		want   error
	}{
		{"today", header(today, domain.StatusClosed, 0), privileged, domain.ErrInvalidTransition},
		{"past", header(yesterday, domain.StatusRevised, 1), privileged, domain.ErrInvalidTransition},
		{"not locked", header(tomorrow, domain.StatusOpen, 0), privileged, domain.ErrInvalidTransition},
		{"non-privileged", header(tomorrow, domain.StatusClosed, 0), operator, domain.ErrNotPermitted},
		{"missing header", nil, privileged, domain.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Reopen(tc.header, tc.actor, today)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, p.CanReopen(tc.header, tc.actor.Priority, today))
		})
	}
}

func TestLifecycle_FullCycle(t *testing.T) {
	p := NewPolicy(0)
	h := header(tomorrow, domain.StatusOpen, 0)

	h, err := p.ApplySave(h, true, privileged)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, h.Status)

	h, err = p.Reopen(h, privileged, today)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, h.Status)
	assert.Equal(t, 1, h.Revision)

	h, err = p.ApplySave(h, false, privileged)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, h.Status, "draft keeps OPEN")

	h, err = p.ApplySave(h, true, privileged)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRevised, h.Status)
	assert.Equal(t, 1, h.Revision)
	require.NoError(t, h.Validate())
}

func TestApplySave_DoesNotMutateInput(t *testing.T) {
	p := NewPolicy(0)
	h := header(tomorrow, domain.StatusNew, 0)
	out, err := p.ApplySave(h, true, operator)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, h.Status)
	assert.Equal(t, domain.StatusOpen, out.Status)
	assert.Equal(t, "Luca Neri", out.ModifiedBy)
}
