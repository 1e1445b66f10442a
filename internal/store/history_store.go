package store

import (
	"context"

	"github.com/vrsandeep/koma-go/internal/models"
)

// InsertHistory appends a search history entry.
func (s *Store) InsertHistory(ctx context.Context, entry models.HistoryEntry) error {
	genres, themes, demographics, err := encodeTags(entry)
	if err != nil {
		return persistErr("encode search history", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (id, query, genres, themes, demographics, last_used_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, genres, themes, demographics, entry.LastUsedAt.UTC())
	return persistErr("insert search history", err)
}

// UpdateHistory overwrites the text, tags and timestamp of an existing entry.
func (s *Store) UpdateHistory(ctx context.Context, entry models.HistoryEntry) error {
	genres, themes, demographics, err := encodeTags(entry)
	if err != nil {
		return persistErr("encode search history", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE search_history SET query = ?, genres = ?, themes = ?, demographics = ?, last_used_at = ? WHERE id = ?`,
		entry.Query, genres, themes, demographics, entry.LastUsedAt.UTC(), entry.ID)
	return persistErr("update search history", err)
}

// DeleteHistory removes one entry. It reports whether a row was deleted.
func (s *Store) DeleteHistory(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM search_history WHERE id = ?", id)
	if err != nil {
		return false, persistErr("delete search history", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, persistErr("delete search history", err)
	}
	return affected > 0, nil
}

// DeleteAllHistory empties the search history.
func (s *Store) DeleteAllHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM search_history")
	return persistErr("clear search history", err)
}

// ListHistory returns every entry, most recently used first.
func (s *Store) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, genres, themes, demographics, last_used_at FROM search_history ORDER BY last_used_at DESC, id ASC`)
	if err != nil {
		return nil, persistErr("list search history", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var (
			entry                        models.HistoryEntry
			genres, themes, demographics string
		)
		if err := rows.Scan(&entry.ID, &entry.Query, &genres, &themes, &demographics, &entry.LastUsedAt); err != nil {
			return nil, persistErr("list search history", err)
		}
		if entry.Genres, err = decodeStrings(genres); err != nil {
			return nil, persistErr("list search history", err)
		}
		if entry.Themes, err = decodeStrings(themes); err != nil {
			return nil, persistErr("list search history", err)
		}
		if entry.Demographics, err = decodeStrings(demographics); err != nil {
			return nil, persistErr("list search history", err)
		}
		entries = append(entries, entry)
	}
	return entries, persistErr("list search history", rows.Err())
}

func encodeTags(entry models.HistoryEntry) (genres, themes, demographics string, err error) {
	if genres, err = encodeStrings(entry.Genres); err != nil {
		return
	}
	if themes, err = encodeStrings(entry.Themes); err != nil {
		return
	}
	demographics, err = encodeStrings(entry.Demographics)
	return
}
