// Package catalog keeps the browse feed, the curated list and the saved
// collection in sync with the remote catalog and the local store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vrsandeep/koma-go/internal/feed"
	"github.com/vrsandeep/koma-go/internal/models"
)

const DefaultPrefetchDistance = 5

// CollectionStore is the persistence the engine needs for saved items.
// *store.Store implements it.
type CollectionStore interface {
	UpsertSaved(ctx context.Context, entry models.SavedEntry) error
	DeleteSaved(ctx context.Context, id int) (bool, error)
	ListSaved(ctx context.Context) ([]models.SavedEntry, error)
	GetSaved(ctx context.Context, id int) (models.SavedEntry, bool, error)
	CountSaved(ctx context.Context, id int) (int, error)
	UpdateCounts(ctx context.Context, id, owned, read int) error
}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	PrefetchDistance int
	Notifier         models.Notifier
}

// BrowseState is a snapshot of the browse feed.
type BrowseState struct {
	feed.State[models.Manga]
	Error string `json:"error,omitempty"`
}

// CuratedState is a snapshot of the curated list.
type CuratedState struct {
	Items     []models.Manga `json:"items"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error,omitempty"`
}

// Engine is the catalog synchronization engine. It is safe for concurrent
// use; gateway and store calls run without holding the lock.
type Engine struct {
	gateway  models.Gateway
	store    CollectionStore
	notifier models.Notifier
	browse   *feed.Window[models.Manga]

	// writeMu serializes collection read-validate-write sequences.
	writeMu sync.Mutex

	mu               sync.Mutex
	prefetchDistance int
	loaded           bool
	browseErr        string
	curated          []models.Manga
	curatedLoading   bool
	curatedErr       string
	saved            []models.SavedEntry
}

// New creates an engine. Both the gateway and the store are required.
func New(gw models.Gateway, store CollectionStore, opts Options) (*Engine, error) {
	if gw == nil || store == nil {
		return nil, fmt.Errorf("catalog engine: %w", models.ErrNotInitialized)
	}
	if opts.PrefetchDistance <= 0 {
		opts.PrefetchDistance = DefaultPrefetchDistance
	}
	if opts.Notifier == nil {
		opts.Notifier = models.NopNotifier{}
	}
	e := &Engine{
		gateway:          gw,
		store:            store,
		notifier:         opts.Notifier,
		prefetchDistance: opts.PrefetchDistance,
		curated:          []models.Manga{},
		saved:            []models.SavedEntry{},
	}
	e.browse = feed.New(e.fetchBrowsePage, mangaID)
	return e, nil
}

func mangaID(m models.Manga) int { return m.ID }

func (e *Engine) fetchBrowsePage(ctx context.Context, page int) (feed.Page[models.Manga], error) {
	res, err := e.gateway.FetchAll(ctx, page)
	if err != nil {
		return feed.Page[models.Manga]{}, err
	}
	return feed.Page[models.Manga]{Items: res.Items, Total: res.Metadata.Total}, nil
}

// SetPrefetchDistance changes how close to the end of the browse feed an
// anchor must be to trigger the next page.
func (e *Engine) SetPrefetchDistance(n int) {
	if n <= 0 {
		n = DefaultPrefetchDistance
	}
	e.mu.Lock()
	e.prefetchDistance = n
	e.mu.Unlock()
}

// LoadIfNeeded performs the first load of the browse feed, the curated list
// and the saved collection. Only the first call does anything. The three
// loads are independent: one failing does not prevent the others.
func (e *Engine) LoadIfNeeded(ctx context.Context) error {
	e.mu.Lock()
	if e.loaded {
		e.mu.Unlock()
		return nil
	}
	e.loaded = true
	e.mu.Unlock()

	var (
		wg                               sync.WaitGroup
		browseErr, curatedErr, savedErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		browseErr = e.loadFirstPage(ctx)
	}()
	go func() {
		defer wg.Done()
		curatedErr = e.RefreshCurated(ctx)
	}()
	savedErr = e.refreshSaved(ctx)
	wg.Wait()

	return errors.Join(browseErr, curatedErr, savedErr)
}

// Restart empties the browse feed and loads its first page again. A page
// still in flight from before the restart is never appended.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	e.loaded = true
	e.mu.Unlock()
	loaded, err := e.browse.Reload(ctx)
	e.recordBrowseResult(loaded, err, "loaded")
	return err
}

func (e *Engine) loadFirstPage(ctx context.Context) error {
	loaded, err := e.browse.LoadFirst(ctx)
	e.recordBrowseResult(loaded, err, "loaded")
	return err
}

// LoadMoreIfNeeded fetches the next browse page when the anchor item is
// within the prefetch distance of the end of the feed. An anchor that is no
// longer in the feed is ignored. It reports whether a page was appended.
func (e *Engine) LoadMoreIfNeeded(ctx context.Context, anchorID int) (bool, error) {
	idx := e.browse.IndexOf(anchorID)
	if idx < 0 {
		return false, nil
	}
	e.mu.Lock()
	threshold := e.browse.Len() - e.prefetchDistance
	e.mu.Unlock()
	if idx < threshold || !e.browse.HasMore() {
		return false, nil
	}

	loaded, err := e.browse.LoadNext(ctx)
	e.recordBrowseResult(loaded, err, "appended")
	return loaded, err
}

func (e *Engine) recordBrowseResult(loaded bool, err error, kind string) {
	e.mu.Lock()
	switch {
	case err != nil:
		e.browseErr = models.Describe(err)
	case loaded:
		e.browseErr = ""
	}
	msg := e.browseErr
	e.mu.Unlock()

	if err != nil {
		log.Printf("Error loading catalog page: %v", err)
		e.notify("catalog", "failed", 0, msg)
		return
	}
	if loaded {
		e.notify("catalog", kind, 0, "")
	}
}

// RefreshCurated reloads the curated list. A refresh already in flight makes
// this call a no-op.
func (e *Engine) RefreshCurated(ctx context.Context) error {
	e.mu.Lock()
	if e.curatedLoading {
		e.mu.Unlock()
		return nil
	}
	e.curatedLoading = true
	e.mu.Unlock()

	page, err := e.gateway.FetchCurated(ctx)

	e.mu.Lock()
	e.curatedLoading = false
	if err != nil {
		e.curatedErr = models.Describe(err)
	} else {
		e.curated = page.Items
		e.curatedErr = ""
	}
	msg := e.curatedErr
	e.mu.Unlock()

	if err != nil {
		log.Printf("Error loading curated list: %v", err)
		e.notify("curated", "failed", 0, msg)
		return err
	}
	e.notify("curated", "loaded", 0, "")
	return nil
}

// Browse returns a snapshot of the browse feed.
func (e *Engine) Browse() BrowseState {
	st := e.browse.Snapshot()
	e.mu.Lock()
	defer e.mu.Unlock()
	return BrowseState{State: st, Error: e.browseErr}
}

// Curated returns a snapshot of the curated list.
func (e *Engine) Curated() CuratedState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CuratedState{
		Items:     append([]models.Manga{}, e.curated...),
		IsLoading: e.curatedLoading,
		Error:     e.curatedErr,
	}
}

func (e *Engine) notify(source, kind string, itemID int, msg string) {
	e.notifier.BroadcastJSON(models.StateEvent{
		Source:  source,
		Kind:    kind,
		ItemID:  itemID,
		Message: msg,
		At:      time.Now(),
	})
}
