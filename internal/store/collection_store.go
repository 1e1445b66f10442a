package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/vrsandeep/koma-go/internal/models"
)

const savedColumns = "snapshot, owned_count, read_count, saved_at, updated_at"

// UpsertSaved inserts a saved entry or replaces the snapshot and counters
// of the entry with the same id.
func (s *Store) UpsertSaved(ctx context.Context, entry models.SavedEntry) error {
	snapshot, err := json.Marshal(entry.Manga)
	if err != nil {
		return persistErr("encode saved manga", err)
	}
	now := time.Now().UTC()
	if entry.SavedAt.IsZero() {
		entry.SavedAt = now
	}
	query := `
		INSERT INTO saved_manga (id, title, snapshot, volumes, owned_count, read_count, saved_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			snapshot = excluded.snapshot,
			volumes = excluded.volumes,
			owned_count = excluded.owned_count,
			read_count = excluded.read_count,
			updated_at = excluded.updated_at;
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.Manga.ID, entry.Manga.Title, string(snapshot), entry.Manga.Volumes,
		entry.OwnedCount, entry.ReadCount, entry.SavedAt.UTC(), now)
	return persistErr("save manga", err)
}

// DeleteSaved removes the saved entry with the given id. It reports whether
// a row was deleted.
func (s *Store) DeleteSaved(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM saved_manga WHERE id = ?", id)
	if err != nil {
		return false, persistErr("delete saved manga", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, persistErr("delete saved manga", err)
	}
	return affected > 0, nil
}

// ListSaved returns every saved entry, oldest first.
func (s *Store) ListSaved(ctx context.Context) ([]models.SavedEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+savedColumns+" FROM saved_manga ORDER BY saved_at ASC, id ASC")
	if err != nil {
		return nil, persistErr("list saved manga", err)
	}
	defer rows.Close()

	entries := []models.SavedEntry{}
	for rows.Next() {
		entry, err := scanSaved(rows)
		if err != nil {
			return nil, persistErr("list saved manga", err)
		}
		entries = append(entries, entry)
	}
	return entries, persistErr("list saved manga", rows.Err())
}

// GetSaved loads one saved entry. The boolean is false when the id is not saved.
func (s *Store) GetSaved(ctx context.Context, id int) (models.SavedEntry, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+savedColumns+" FROM saved_manga WHERE id = ?", id)
	entry, err := scanSaved(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedEntry{}, false, nil
	}
	if err != nil {
		return models.SavedEntry{}, false, persistErr("load saved manga", err)
	}
	return entry, true, nil
}

// CountSaved returns how many saved rows carry the given id (0 or 1).
func (s *Store) CountSaved(ctx context.Context, id int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM saved_manga WHERE id = ?", id).Scan(&count)
	if err != nil {
		return 0, persistErr("count saved manga", err)
	}
	return count, nil
}

// UpdateCounts writes both counters of a saved entry in one statement.
// It returns models.ErrNotSaved when the id has no entry.
func (s *Store) UpdateCounts(ctx context.Context, id, owned, read int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE saved_manga SET owned_count = ?, read_count = ?, updated_at = ? WHERE id = ?",
		owned, read, time.Now().UTC(), id)
	if err != nil {
		return persistErr("update counters", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistErr("update counters", err)
	}
	if affected == 0 {
		return models.ErrNotSaved
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaved(row rowScanner) (models.SavedEntry, error) {
	var (
		entry    models.SavedEntry
		snapshot string
	)
	if err := row.Scan(&snapshot, &entry.OwnedCount, &entry.ReadCount, &entry.SavedAt, &entry.UpdatedAt); err != nil {
		return models.SavedEntry{}, err
	}
	if err := json.Unmarshal([]byte(snapshot), &entry.Manga); err != nil {
		return models.SavedEntry{}, err
	}
	return entry, nil
}
