package catalog

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/util"
)

// SaveItem adds the item to the collection with both counters at zero. Saving
// an item that is already saved refreshes its snapshot and keeps its
// counters, lowered where the new snapshot reports fewer volumes.
func (e *Engine) SaveItem(ctx context.Context, item models.Manga) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	existing, found, err := e.store.GetSaved(ctx, item.ID)
	if err != nil {
		return err
	}
	entry := models.SavedEntry{Manga: item}
	if found {
		entry.OwnedCount = models.ClampOwned(item, existing.OwnedCount)
		entry.ReadCount = models.ClampRead(entry.OwnedCount, existing.ReadCount)
		entry.SavedAt = existing.SavedAt
	}
	if err := e.store.UpsertSaved(ctx, entry); err != nil {
		log.Printf("Error saving manga %d: %v", item.ID, err)
		return err
	}
	e.afterWrite(ctx, "saved", item.ID)
	return nil
}

// RemoveItem deletes the item and its counters from the collection. Removing
// an item that is not saved does nothing.
func (e *Engine) RemoveItem(ctx context.Context, item models.Manga) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	deleted, err := e.store.DeleteSaved(ctx, item.ID)
	if err != nil {
		log.Printf("Error removing manga %d: %v", item.ID, err)
		return err
	}
	if !deleted {
		return nil
	}
	e.afterWrite(ctx, "removed", item.ID)
	return nil
}

// SetOwnedCount sets the number of owned volumes. The value must lie between
// zero and the saved snapshot's total volumes, when known. The read count is
// lowered to match if it would exceed the new value.
func (e *Engine) SetOwnedCount(ctx context.Context, item models.Manga, value int) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return err
	}
	return e.setOwned(ctx, entry, value)
}

// SetReadCount sets the number of read volumes, which may not exceed the
// owned count.
func (e *Engine) SetReadCount(ctx context.Context, item models.Manga, value int) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return err
	}
	return e.setRead(ctx, entry, value)
}

// setOwned and setRead must be called with writeMu held and an entry read
// under the same hold.
func (e *Engine) setOwned(ctx context.Context, entry models.SavedEntry, value int) error {
	if err := models.ValidateOwnedCount(entry.Manga, value); err != nil {
		return err
	}
	id := entry.Manga.ID
	if err := e.store.UpdateCounts(ctx, id, value, models.ClampRead(value, entry.ReadCount)); err != nil {
		return err
	}
	e.afterWrite(ctx, "owned_changed", id)
	return nil
}

func (e *Engine) setRead(ctx context.Context, entry models.SavedEntry, value int) error {
	if err := models.ValidateReadCount(entry.OwnedCount, value); err != nil {
		return err
	}
	id := entry.Manga.ID
	if err := e.store.UpdateCounts(ctx, id, entry.OwnedCount, value); err != nil {
		return err
	}
	e.afterWrite(ctx, "read_changed", id)
	return nil
}

// TrySetOwnedCount is SetOwnedCount reporting success as a boolean.
func (e *Engine) TrySetOwnedCount(ctx context.Context, item models.Manga, value int) bool {
	return e.SetOwnedCount(ctx, item, value) == nil
}

// TrySetReadCount is SetReadCount reporting success as a boolean.
func (e *Engine) TrySetReadCount(ctx context.Context, item models.Manga, value int) bool {
	return e.SetReadCount(ctx, item, value) == nil
}

// IncrementOwned adds one owned volume. It returns false when the owned
// count already equals the known total.
func (e *Engine) IncrementOwned(ctx context.Context, item models.Manga) (bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return false, err
	}
	if total, ok := entry.Manga.TotalParts(); ok && entry.OwnedCount >= total {
		return false, nil
	}
	return e.step(e.setOwned(ctx, entry, entry.OwnedCount+1))
}

// DecrementOwned removes one owned volume. It returns false at zero.
func (e *Engine) DecrementOwned(ctx context.Context, item models.Manga) (bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return false, err
	}
	if entry.OwnedCount <= 0 {
		return false, nil
	}
	return e.step(e.setOwned(ctx, entry, entry.OwnedCount-1))
}

// IncrementRead marks one more volume read. It returns false when every
// owned volume is already read.
func (e *Engine) IncrementRead(ctx context.Context, item models.Manga) (bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return false, err
	}
	if entry.ReadCount >= entry.OwnedCount {
		return false, nil
	}
	return e.step(e.setRead(ctx, entry, entry.ReadCount+1))
}

// DecrementRead marks one volume fewer read. It returns false at zero.
func (e *Engine) DecrementRead(ctx context.Context, item models.Manga) (bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	entry, err := e.savedEntry(ctx, item)
	if err != nil {
		return false, err
	}
	if entry.ReadCount <= 0 {
		return false, nil
	}
	return e.step(e.setRead(ctx, entry, entry.ReadCount-1))
}

// step turns a setter result into the wrapper result. A count rejected by
// validation is a soft failure.
func (e *Engine) step(err error) (bool, error) {
	if errors.Is(err, models.ErrInvalidCount) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsSaved reports whether the item is in the collection.
func (e *Engine) IsSaved(ctx context.Context, item models.Manga) (bool, error) {
	n, err := e.store.CountSaved(ctx, item.ID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// OwnedCount returns the owned volumes of the item, or 0 when it is not saved.
func (e *Engine) OwnedCount(ctx context.Context, item models.Manga) (int, error) {
	st, err := e.LoadItemState(ctx, item)
	return st.OwnedCount, err
}

// ReadCount returns the read volumes of the item, or 0 when it is not saved.
func (e *Engine) ReadCount(ctx context.Context, item models.Manga) (int, error) {
	st, err := e.LoadItemState(ctx, item)
	return st.ReadCount, err
}

// LoadItemState returns the saved flag and both counters in one query.
func (e *Engine) LoadItemState(ctx context.Context, item models.Manga) (models.ItemState, error) {
	entry, found, err := e.store.GetSaved(ctx, item.ID)
	if err != nil {
		return models.ItemState{}, err
	}
	if !found {
		return models.ItemState{}, nil
	}
	return models.ItemState{Saved: true, OwnedCount: entry.OwnedCount, ReadCount: entry.ReadCount}, nil
}

// SavedItem returns the stored entry for an id, if any.
func (e *Engine) SavedItem(ctx context.Context, id int) (models.SavedEntry, bool, error) {
	return e.store.GetSaved(ctx, id)
}

// Saved returns a snapshot of the saved collection mirror.
func (e *Engine) Saved() []models.SavedEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.SavedEntry{}, e.saved...)
}

// SavedByTitle is Saved ordered by title instead of by save time.
func (e *Engine) SavedByTitle() []models.SavedEntry {
	entries := e.Saved()
	sort.SliceStable(entries, func(i, j int) bool {
		return util.TitleLess(entries[i].Manga.Title, entries[j].Manga.Title)
	})
	return entries
}

// CollectionStats summarises the saved collection mirror.
func (e *Engine) CollectionStats() models.CollectionStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := models.CollectionStats{Entries: len(e.saved)}
	for _, s := range e.saved {
		stats.OwnedVolumes += s.OwnedCount
		stats.ReadVolumes += s.ReadCount
		if total, ok := s.Manga.TotalParts(); ok {
			stats.TotalVolumes += total
		}
	}
	return stats
}

// RefreshSaved reloads the saved collection mirror from the store.
func (e *Engine) RefreshSaved(ctx context.Context) error {
	return e.refreshSaved(ctx)
}

func (e *Engine) refreshSaved(ctx context.Context) error {
	entries, err := e.store.ListSaved(ctx)
	if err != nil {
		log.Printf("Error loading saved collection: %v", err)
		return err
	}
	e.mu.Lock()
	e.saved = entries
	e.mu.Unlock()
	return nil
}

// afterWrite refreshes the mirror once a store write has succeeded.
func (e *Engine) afterWrite(ctx context.Context, kind string, id int) {
	if err := e.refreshSaved(ctx); err != nil {
		e.notify("collection", "failed", id, models.Describe(err))
		return
	}
	e.notify("collection", kind, id, "")
}

func (e *Engine) savedEntry(ctx context.Context, item models.Manga) (models.SavedEntry, error) {
	entry, found, err := e.store.GetSaved(ctx, item.ID)
	if err != nil {
		return models.SavedEntry{}, err
	}
	if !found {
		return models.SavedEntry{}, models.ErrNotSaved
	}
	return entry, nil
}
