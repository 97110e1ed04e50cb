package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"how-pretty/internal/domain/entity"
)

func TestMemoryScoreRepository_RecentNewestFirst(t *testing.T) {
	repo := NewMemoryScoreRepository()
	ctx := context.Background()

	for _, s := range []float32{0.1, 0.2, 0.3} {
		_, err := repo.Save(ctx, s)
		require.NoError(t, err)
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, float32(0.3), recent[0].Score)
	require.Equal(t, int64(3), recent[0].ID)
	require.Equal(t, float32(0.2), recent[1].Score)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestMemoryConsentRepository(t *testing.T) {
	repo := NewMemoryConsentRepository()
	ctx := context.Background()

	c, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.ConsentUnknown, c)

	require.NoError(t, repo.Save(ctx, entity.ConsentDenied))
	c, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.ConsentDenied, c)
}
