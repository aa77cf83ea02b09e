package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"github.com/alexanderramin/fieldplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHeaderRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHeader(testutil.Day("2026-10-20"), testutil.WithAttribution("mrossi"))
	require.NoError(t, repo.Create(ctx, h))
	assert.NotZero(t, h.ID)
	assert.False(t, h.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Day("2026-10-20"), got.Day)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Equal(t, 0, got.Revision)
	assert.Equal(t, "mrossi", got.CreatedBy)

	byDay, err := repo.GetByDay(ctx, testutil.Day("2026-10-20"))
	require.NoError(t, err)
	assert.Equal(t, h.ID, byDay.ID)
}

func TestHeaderRepo_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHeaderRepo(database)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByDay(ctx, testutil.Day("2030-01-01"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Update(ctx, 999, domain.HeaderUpdate{Status: domain.StatusOpen})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHeaderRepo_OnePerDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHeaderRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestHeader(testutil.Day("2026-10-20"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestHeader(testutil.Day("2026-10-20"))))
}

func TestHeaderRepo_CreateRejectsInvalid(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHeaderRepo(database)

	h := testutil.NewTestHeader(testutil.Day("2026-10-20"), testutil.WithRevision(2))
	assert.ErrorIs(t, repo.Create(context.Background(), h), domain.ErrValidation)
}

func TestHeaderRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHeaderRepo(database)
	ctx := context.Background()

	h := testutil.NewTestHeader(testutil.Day("2026-10-20"))
	require.NoError(t, repo.Create(ctx, h))

	require.NoError(t, repo.Update(ctx, h.ID, domain.HeaderUpdate{
		Status: domain.StatusOpen, Revision: 1, ModifiedBy: "lbianchi",
	}))

	got, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
	assert.Equal(t, 1, got.Revision)
	assert.Equal(t, "lbianchi", got.ModifiedBy)
	assert.Equal(t, "test", got.CreatedBy)

	assert.ErrorIs(t, repo.Update(ctx, h.ID, domain.HeaderUpdate{Status: "DRAFT"}), domain.ErrValidation)
}

func TestHeaderRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	headers := repository.NewSQLiteHeaderRepo(database)
	details := repository.NewSQLiteDetailRepo(database)
	ctx := context.Background()

	for _, d := range []string{"2026-10-05", "2026-10-20", "2026-11-02"} {
		require.NoError(t, headers.Create(ctx, testutil.NewTestHeader(testutil.Day(d))))
	}
	oct20, err := headers.GetByDay(ctx, testutil.Day("2026-10-20"))
	require.NoError(t, err)
	require.NoError(t, headers.Update(ctx, oct20.ID, domain.HeaderUpdate{Status: domain.StatusClosed}))
	_, err = details.ReplaceForHeader(ctx, oct20.ID, []domain.DetailPayload{{Description: "a"}, {Description: "b"}}, "u")
	require.NoError(t, err)

	list, err := headers.List(ctx, testutil.Day("2026-10-01"), testutil.Day("2026-10-31"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, testutil.Day("2026-10-05"), list[0].Day)
	assert.False(t, list[0].Locked)
	assert.Equal(t, 0, list[0].RowCount)
	assert.Equal(t, domain.StatusClosed, list[1].Status)
	assert.True(t, list[1].Locked)
	assert.Equal(t, 2, list[1].RowCount)
}
