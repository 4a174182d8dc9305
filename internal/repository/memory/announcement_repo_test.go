package memory

import (
	"context"
	"testing"
	"time"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
	"github.com/markjakearzadon/announcements-gobackend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncementRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAnnouncementRepository()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, &models.Announcement{ID: "1", Title: "t", Description: "d", CreatedAt: created}))

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := repo.Insert(ctx, &models.Announcement{ID: "1", Title: "x", Description: "y"})
		assert.Error(t, err)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "t", again.Title)
	})

	t.Run("update keeps creation time", func(t *testing.T) {
		err := repo.Update(ctx, &models.Announcement{ID: "1", Title: "new", Description: "desc", CreatedAt: created.Add(time.Hour)})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Title)
		assert.Equal(t, "desc", got.Description)
		assert.Equal(t, created, got.CreatedAt)
	})

	t.Run("update of missing id", func(t *testing.T) {
		err := repo.Update(ctx, &models.Announcement{ID: "missing", Title: "a", Description: "b"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		deleted, err := repo.Delete(ctx, "1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "1")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetByID(ctx, "1")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("cancelled context reports store unavailable", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.ListAll(cctx)
		assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	})
}
