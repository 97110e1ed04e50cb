package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"how-pretty/internal/domain/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestScoreRepository_SaveAndRecent(t *testing.T) {
	repo := NewScoreRepository(openTestDB(t))
	ctx := context.Background()

	first, err := repo.Save(ctx, 0.25)
	require.NoError(t, err)
	second, err := repo.Save(ctx, 0.73)
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	recent, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, float32(0.73), recent[0].Score)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, first.ID, all[1].ID)
}

func TestConsentRepository_Upsert(t *testing.T) {
	repo := NewConsentRepository(openTestDB(t))
	ctx := context.Background()

	c, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.ConsentUnknown, c)

	require.NoError(t, repo.Save(ctx, entity.ConsentGranted))
	require.NoError(t, repo.Save(ctx, entity.ConsentDenied))

	c, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.ConsentDenied, c)
}

func TestNew_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := New(path)
	require.NoError(t, err)
	_, err = NewScoreRepository(db).Save(context.Background(), 0.5)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	recent, err := NewScoreRepository(db).Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}
