package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/store"
	"github.com/vrsandeep/koma-go/internal/testutil"
)

func TestSearchHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	ctx := context.Background()
	base := time.Date(2025, 8, 11, 10, 0, 0, 0, time.UTC)

	older := models.HistoryEntry{ID: "a", Query: "naruto", Genres: []string{"Action"}, LastUsedAt: base}
	newer := models.HistoryEntry{ID: "b", Query: "berserk", Themes: []string{"Gore"}, LastUsedAt: base.Add(time.Minute)}
	require.NoError(t, s.InsertHistory(ctx, older))
	require.NoError(t, s.InsertHistory(ctx, newer))

	entries, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].ID, "most recent first")
	assert.Equal(t, []string{"Gore"}, entries[0].Themes)
	assert.Empty(t, entries[0].Genres)
	assert.True(t, entries[1].LastUsedAt.Equal(base))

	older.Query = " Naruto "
	older.LastUsedAt = base.Add(2 * time.Minute)
	require.NoError(t, s.UpdateHistory(ctx, older))
	entries, err = s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, " Naruto ", entries[0].Query)

	deleted, err := s.DeleteHistory(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteHistory(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, s.DeleteAllHistory(ctx))
	entries, err = s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
