package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RollbackKeepsLocalState(t *testing.T) {
	h := newHarness(t)
	h.feed.Set(futureDay, testutil.NewTestEvent("A", "one"), testutil.NewTestEvent("B", "two"))
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	key := sess.Rows()[0].Key
	require.True(t, sess.Edit(Edit{Key: key, Field: FieldNotes, Value: "keep me"}))

	// ExecContext #1 = header insert, #2 = header update, #3 = first row insert
	h.uow.FailOn = 3
	_, err := sess.Save(ctx, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "injected store failure")

	assert.Nil(t, sess.Header())
	assert.True(t, sess.Dirty())
	rows := sess.Rows()
	assert.Equal(t, []int64{0, 0}, rowIDs(rows))
	assert.Equal(t, "keep me", rows[0].Notes)

	_, err = h.headers.GetByDay(ctx, futureDay)
	assert.ErrorIs(t, err, domain.ErrNotFound, "the header insert rolled back")

	h.uow.Disarm()
	saved, err := sess.Save(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, saved.Status)
	assert.Len(t, h.storedRows(t, saved.ID), 2)
	assert.Len(t, h.history(t, saved.ID), 1)
}

func TestSave_RetryAfterFailureDoesNotDuplicate(t *testing.T) {
	h := newHarness(t)
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	_, _ = sess.AddManualRow("first", domain.SlotAM)

	saved, err := sess.Save(ctx, false)
	require.NoError(t, err)
	ids := rowIDs(sess.Rows())

	_, _ = sess.AddManualRow("second", domain.SlotPM)
	// #1 = header update, #2 = existing row update, #3..#4 = its children, #5 = second insert
	h.uow.FailOn = 5
	_, err = sess.Save(ctx, false)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, h.storedRows(t, saved.ID), 1)
	assert.Equal(t, domain.StatusNew, sess.Header().Status)

	h.uow.Disarm()
	_, err = sess.Save(ctx, false)
	require.NoError(t, err)
	_, err = sess.Save(ctx, false)
	require.NoError(t, err)

	stored := h.storedRows(t, saved.ID)
	require.Len(t, stored, 2)
	assert.Equal(t, ids[0], stored[0].ID)
	assert.Equal(t, []int64{stored[0].ID, stored[1].ID}, rowIDs(sess.Rows()))
}

func TestSave_FinalizeFailureLeavesStatus(t *testing.T) {
	h := newHarness(t)
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	_, _ = sess.AddManualRow("row", domain.SlotAM)
	saved, err := sess.Save(ctx, true)
	require.NoError(t, err)

	// #1 = header update
	h.uow.FailOn = 1
	_, err = sess.Save(ctx, true)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, domain.StatusOpen, sess.Header().Status)

	stored, err := h.headers.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, stored.Status)
	assert.False(t, sess.ReadOnly())
}

func TestDeleteRow_FailureRestoresPosition(t *testing.T) {
	h := newHarness(t)
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	for _, d := range []string{"one", "two", "three"} {
		_, ok := sess.AddManualRow(d, domain.SlotAM)
		require.True(t, ok)
	}
	saved, err := sess.Save(ctx, true)
	require.NoError(t, err)
	before := sess.Rows()
	middle := before[1]

	h.uow.FailOn = 1
	err = sess.DeleteRow(ctx, middle.Key)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, rowIDs(before), rowIDs(sess.Rows()), "row restored at its index")
	assert.Len(t, h.storedRows(t, saved.ID), 3)

	h.uow.Disarm()
	require.NoError(t, sess.DeleteRow(ctx, middle.Key))
	after := sess.Rows()
	require.Len(t, after, 2)
	assert.Equal(t, []int64{before[0].ID, before[2].ID}, rowIDs(after))
	assert.Len(t, h.storedRows(t, saved.ID), 2)
	assert.False(t, sess.Dirty(), "a committed delete leaves nothing to save")

	log := h.history(t, saved.ID)
	last := log[len(log)-1]
	assert.Equal(t, domain.OpDeleteRow, last.Operation)
	assert.Contains(t, last.Description, "two")

	_, err = sess.Save(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "OPEN -> OPEN: 0 added, 0 changed, 0 removed", h.history(t, saved.ID)[len(log)].Description)
}

func TestDeleteRow_UnsavedRowIsLocal(t *testing.T) {
	h := newHarness(t)
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	key, _ := sess.AddManualRow("scratch", domain.SlotAM)

	h.uow.FailOn = 1
	require.NoError(t, sess.DeleteRow(ctx, key))
	assert.Empty(t, sess.Rows())
	assert.True(t, sess.Dirty())
	assert.Zero(t, h.uow.Calls.Load(), "no transaction for an unsaved row")

	assert.ErrorIs(t, sess.DeleteRow(ctx, key), domain.ErrNotFound)
}

func TestDeleteRow_AlreadyGoneCountsAsDeleted(t *testing.T) {
	h := newHarness(t)
	sess := h.open(t, futureDay, planner)
	ctx := context.Background()
	_, _ = sess.AddManualRow("row", domain.SlotAM)
	_, err := sess.Save(ctx, true)
	require.NoError(t, err)
	row := sess.Rows()[0]

	require.NoError(t, h.details.Delete(ctx, row.ID))
	require.NoError(t, sess.DeleteRow(ctx, row.Key))
	assert.Empty(t, sess.Rows())
}

func TestReopen_FailureKeepsLock(t *testing.T) {
	h := newHarness(t)
	hdr := h.storeHeader(t, futureDay, testutil.WithStatus(domain.StatusClosed))
	sess, err := h.svc.Open(context.Background(), OpenRequest{HeaderID: hdr.ID, Actor: planner})
	require.NoError(t, err)

	h.uow.FailOn = 2
	require.ErrorIs(t, sess.Reopen(context.Background()), ErrPersistence)
	assert.True(t, sess.ReadOnly())
	assert.Equal(t, domain.StatusClosed, sess.Header().Status)
	assert.Equal(t, 0, sess.Header().Revision)
}
