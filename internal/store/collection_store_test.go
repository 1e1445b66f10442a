package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/store"
	"github.com/vrsandeep/koma-go/internal/testutil"
)

func volumes(v int) *int { return &v }

func TestSavedEntryLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	ctx := context.Background()
	monster := models.Manga{
		ID:      1,
		Title:   "Monster",
		Volumes: volumes(18),
		Genres:  []models.Tag{{ID: "g1", Name: "Mystery"}},
		Authors: []models.Author{{ID: "a1", FirstName: "Naoki", LastName: "Urasawa", Role: "Story & Art"}},
	}

	t.Run("Upsert and get", func(t *testing.T) {
		err := s.UpsertSaved(ctx, models.SavedEntry{Manga: monster})
		require.NoError(t, err)

		entry, ok, err := s.GetSaved(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Monster", entry.Manga.Title)
		assert.Equal(t, 18, *entry.Manga.Volumes)
		assert.Equal(t, "Urasawa", entry.Manga.Authors[0].LastName)
		assert.Equal(t, 0, entry.OwnedCount)
		assert.Equal(t, 0, entry.ReadCount)
		assert.False(t, entry.SavedAt.IsZero())
	})

	t.Run("Count", func(t *testing.T) {
		n, err := s.CountSaved(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		n, err = s.CountSaved(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Update counts", func(t *testing.T) {
		require.NoError(t, s.UpdateCounts(ctx, 1, 5, 3))
		entry, _, err := s.GetSaved(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 5, entry.OwnedCount)
		assert.Equal(t, 3, entry.ReadCount)

		err = s.UpdateCounts(ctx, 42, 1, 0)
		assert.ErrorIs(t, err, models.ErrNotSaved)
	})

	t.Run("Update counts rejected by schema", func(t *testing.T) {
		err := s.UpdateCounts(ctx, 1, 2, 3)
		var pErr *models.PersistenceError
		assert.True(t, errors.As(err, &pErr), "expected a persistence error, got %v", err)
	})

	t.Run("List keeps save order", func(t *testing.T) {
		require.NoError(t, s.UpsertSaved(ctx, models.SavedEntry{Manga: models.Manga{ID: 2, Title: "Berserk"}}))
		entries, err := s.ListSaved(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].Manga.ID)
		assert.Equal(t, 2, entries[1].Manga.ID)
		assert.Nil(t, entries[1].Manga.Volumes)
	})

	t.Run("Delete", func(t *testing.T) {
		deleted, err := s.DeleteSaved(ctx, 1)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeleteSaved(ctx, 1)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, ok, err := s.GetSaved(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreFailuresArePersistenceErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	db.Close()

	_, err := s.ListSaved(context.Background())
	var pErr *models.PersistenceError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "list saved manga", pErr.Op)
}
