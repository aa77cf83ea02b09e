package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"github.com/alexanderramin/fieldplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeader(t *testing.T, repo *repository.SQLiteHeaderRepo, day string) int64 {
	t.Helper()
	h := testutil.NewTestHeader(testutil.Day(day))
	require.NoError(t, repo.Create(context.Background(), h))
	return h.ID
}

func TestDetailRepo_ReplaceForHeader_InsertsInOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	headerID := newHeader(t, repository.NewSQLiteHeaderRepo(database), "2026-10-20")
	repo := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	recs, err := repo.ReplaceForHeader(ctx, headerID, []domain.DetailPayload{
		{
			ExternalEventID: "evt-1",
			Description:     "Boiler",
			SiteID:          testutil.SiteID(testutil.SiteSogesa),
			Resources:       []string{"mrossi", "lbianchi", "mrossi"},
			TimeSlot:        domain.SlotPM,
			Interventions: []domain.InterventionPayload{
				{TypeID: testutil.TypePump, Quantity: 2},
				{TypeID: testutil.TypeBoiler, Quantity: 0},
			},
		},
		{Description: "Manual", Notes: "ladder", MaterialAvailable: true},
	}, "mrossi")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.NotZero(t, first.ID)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, "evt-1", first.ExternalEventID)
	require.NotNil(t, first.SiteID)
	assert.Equal(t, testutil.SiteSogesa, *first.SiteID)
	assert.Equal(t, []string{"mrossi", "lbianchi"}, first.Resources)
	assert.Equal(t, domain.SlotPM, first.TimeSlot)
	assert.Equal(t, []domain.InterventionPayload{
		{TypeID: testutil.TypePump, Quantity: 2},
		{TypeID: testutil.TypeBoiler, Quantity: 1},
	}, first.Interventions)
	assert.Equal(t, "mrossi", first.CreatedBy)

	second := recs[1]
	assert.Equal(t, "", second.ExternalEventID)
	assert.Nil(t, second.SiteID)
	assert.Equal(t, domain.SlotAM, second.TimeSlot, "unset slot is stored as AM")
	assert.True(t, second.MaterialAvailable)
	assert.Empty(t, second.Resources)
}

func TestDetailRepo_ReplaceForHeader_UpdatesKeepsIdsAndDeletesSuperseded(t *testing.T) {
	database := testutil.NewTestDB(t)
	headerID := newHeader(t, repository.NewSQLiteHeaderRepo(database), "2026-10-20")
	repo := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	recs, err := repo.ReplaceForHeader(ctx, headerID, []domain.DetailPayload{
		{Description: "keep", Resources: []string{"mrossi"}},
		{Description: "drop"},
	}, "a")
	require.NoError(t, err)
	keepID, dropID := recs[0].ID, recs[1].ID

	recs, err = repo.ReplaceForHeader(ctx, headerID, []domain.DetailPayload{
		{Description: "new first"},
		{ID: keepID, Description: "kept", Resources: []string{"lbianchi"}},
	}, "b")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "new first", recs[0].Description)
	assert.Equal(t, keepID, recs[1].ID)
	assert.Equal(t, "kept", recs[1].Description)
	assert.Equal(t, []string{"lbianchi"}, recs[1].Resources)
	assert.Equal(t, "a", recs[1].CreatedBy)
	assert.Equal(t, "b", recs[1].ModifiedBy)

	assert.ErrorIs(t, repo.Delete(ctx, dropID), domain.ErrNotFound, "superseded row is gone")
}

func TestDetailRepo_ReplaceForHeader_UnknownIDIsInserted(t *testing.T) {
	database := testutil.NewTestDB(t)
	headers := repository.NewSQLiteHeaderRepo(database)
	a := newHeader(t, headers, "2026-10-20")
	b := newHeader(t, headers, "2026-10-21")
	repo := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	other, err := repo.ReplaceForHeader(ctx, b, []domain.DetailPayload{{Description: "other day"}}, "u")
	require.NoError(t, err)

	recs, err := repo.ReplaceForHeader(ctx, a, []domain.DetailPayload{{ID: other[0].ID, Description: "stolen id"}}, "u")
	require.NoError(t, err)
	assert.NotEqual(t, other[0].ID, recs[0].ID)

	still, err := repo.ListByHeader(ctx, b)
	require.NoError(t, err)
	require.Len(t, still, 1)
	assert.Equal(t, "other day", still[0].Description)
}

func TestDetailRepo_ReplaceForHeader_EmptyClearsRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	headerID := newHeader(t, repository.NewSQLiteHeaderRepo(database), "2026-10-20")
	repo := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	_, err := repo.ReplaceForHeader(ctx, headerID, []domain.DetailPayload{{Description: "x"}}, "u")
	require.NoError(t, err)

	recs, err := repo.ReplaceForHeader(ctx, headerID, nil, "u")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDetailRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	headerID := newHeader(t, repository.NewSQLiteHeaderRepo(database), "2026-10-20")
	repo := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	recs, err := repo.ReplaceForHeader(ctx, headerID, []domain.DetailPayload{
		{Description: "a", Resources: []string{"mrossi"}, Interventions: []domain.InterventionPayload{{TypeID: 1, Quantity: 1}}},
		{Description: "b"},
	}, "u")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, recs[0].ID))
	left, err := repo.ListByHeader(ctx, headerID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].Description)

	var orphans int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM detail_resources`).Scan(&orphans))
	assert.Zero(t, orphans, "resources cascade with their row")
}

func TestDetailRepo_AtomicWithinFailingTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	headerID := newHeader(t, repository.NewSQLiteHeaderRepo(database), "2026-10-20")
	ctx := context.Background()

	_, err := repository.NewSQLiteDetailRepo(database).ReplaceForHeader(ctx, headerID,
		[]domain.DetailPayload{{Description: "original"}}, "u")
	require.NoError(t, err)

	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: assert.AnError}
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := repository.NewSQLiteDetailRepo(tx).ReplaceForHeader(ctx, headerID,
			[]domain.DetailPayload{{Description: "one"}, {Description: "two"}}, "u")
		return err
	})
	require.ErrorIs(t, err, assert.AnError)

	recs, err := repository.NewSQLiteDetailRepo(database).ListByHeader(ctx, headerID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "original", recs[0].Description)
}
