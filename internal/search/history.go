package search

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/vrsandeep/koma-go/internal/models"
)

// recordHistory merges the filter into the history: an equivalent entry takes
// the new text and tags and moves to the top, otherwise a new entry is added
// and the oldest entries beyond the limit are dropped.
func (e *Engine) recordHistory(ctx context.Context, f models.SearchFilter) error {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()

	entries, err := e.store.ListHistory(ctx)
	if err != nil {
		return err
	}

	now := e.now()
	for _, h := range entries {
		if !h.Matches(f) {
			continue
		}
		updated := historyEntry(h.ID, f)
		updated.LastUsedAt = now
		if err := e.store.UpdateHistory(ctx, updated); err != nil {
			return err
		}
		log.Printf("Search history: merged %q into entry %s", f.Title, h.ID)
		return e.reloadHistoryLocked(ctx)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	entry := historyEntry(id.String(), f)
	entry.LastUsedAt = now
	if err := e.store.InsertHistory(ctx, entry); err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > e.limit {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LastUsedAt.After(entries[j].LastUsedAt)
		})
		for _, old := range entries[e.limit:] {
			if _, err := e.store.DeleteHistory(ctx, old.ID); err != nil {
				return err
			}
		}
	}
	return e.reloadHistoryLocked(ctx)
}

func historyEntry(id string, f models.SearchFilter) models.HistoryEntry {
	f = f.Clone()
	return models.HistoryEntry{
		ID:           id,
		Query:        f.Title,
		Genres:       f.Genres,
		Themes:       f.Themes,
		Demographics: f.Demographics,
	}
}

// LoadHistory reads the persisted history into memory.
func (e *Engine) LoadHistory(ctx context.Context) error {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	return e.reloadHistoryLocked(ctx)
}

// History returns the in-memory history, most recently used first.
func (e *Engine) History() []models.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.HistoryEntry{}, e.history...)
}

// HistoryEntry looks up an in-memory entry by id.
func (e *Engine) HistoryEntry(id string) (models.HistoryEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.history {
		if h.ID == id {
			return h, true
		}
	}
	return models.HistoryEntry{}, false
}

// DeleteHistoryEntry removes one entry. Deleting a missing entry does nothing.
func (e *Engine) DeleteHistoryEntry(ctx context.Context, entry models.HistoryEntry) error {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	deleted, err := e.store.DeleteHistory(ctx, entry.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	return e.reloadHistoryLocked(ctx)
}

// ClearHistory removes every history entry.
func (e *Engine) ClearHistory(ctx context.Context) error {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	if err := e.store.DeleteAllHistory(ctx); err != nil {
		return err
	}
	return e.reloadHistoryLocked(ctx)
}

// reloadHistoryLocked must be called with historyMu held.
func (e *Engine) reloadHistoryLocked(ctx context.Context) error {
	entries, err := e.store.ListHistory(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastUsedAt.After(entries[j].LastUsedAt)
	})
	e.mu.Lock()
	e.history = entries
	e.mu.Unlock()
	e.notify("history", "changed", "")
	return nil
}
