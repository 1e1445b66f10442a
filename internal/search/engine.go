// Package search runs filtered catalog searches, pages through their
// results and keeps a de-duplicated history of past searches.
package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vrsandeep/koma-go/internal/feed"
	"github.com/vrsandeep/koma-go/internal/models"
)

const DefaultHistoryLimit = 20

// HistoryStore is the persistence the engine needs for search history.
// *store.Store implements it.
type HistoryStore interface {
	InsertHistory(ctx context.Context, entry models.HistoryEntry) error
	UpdateHistory(ctx context.Context, entry models.HistoryEntry) error
	DeleteHistory(ctx context.Context, id string) (bool, error)
	DeleteAllHistory(ctx context.Context) error
	ListHistory(ctx context.Context) ([]models.HistoryEntry, error)
}

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	HistoryLimit int
	// DiscardStale drops results of a search that was superseded by a
	// clear or a newer search before its response arrived.
	DiscardStale bool
	Notifier     models.Notifier
	Now          func() time.Time
}

// State is a snapshot of the search screen.
type State struct {
	Filter      models.SearchFilter      `json:"filter"`
	Results     feed.State[models.Manga] `json:"results"`
	HasSearched bool                     `json:"has_searched"`
	Error       string                   `json:"error,omitempty"`
	History     []models.HistoryEntry    `json:"history"`
	ShowHistory bool                     `json:"show_history"`
	ShowResults bool                     `json:"show_results"`
	ShowEmpty   bool                     `json:"show_empty"`
}

// Engine is the search synchronization engine. It is safe for concurrent use.
type Engine struct {
	gateway  models.Gateway
	store    HistoryStore
	notifier models.Notifier
	now      func() time.Time
	limit    int
	results  *feed.Window[models.Manga]

	mu          sync.Mutex
	filter      models.SearchFilter
	hasSearched bool
	errMsg      string
	history     []models.HistoryEntry

	// historyMu serialises history writes so two searches cannot both
	// insert the same query.
	historyMu sync.Mutex
}

// New creates an engine. Both the gateway and the store are required.
func New(gw models.Gateway, store HistoryStore, opts Options) (*Engine, error) {
	if gw == nil || store == nil {
		return nil, fmt.Errorf("search engine: %w", models.ErrNotInitialized)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Notifier == nil {
		opts.Notifier = models.NopNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Engine{
		gateway:  gw,
		store:    store,
		notifier: opts.Notifier,
		now:      opts.Now,
		limit:    opts.HistoryLimit,
		filter:   models.NewSearchFilter(),
		history:  []models.HistoryEntry{},
	}
	e.results = feed.New(e.fetchPage, func(m models.Manga) int { return m.ID }, feed.DiscardStale(opts.DiscardStale))
	return e, nil
}

// fetchPage always searches with the working filter as it is when the
// request is issued.
func (e *Engine) fetchPage(ctx context.Context, page int) (feed.Page[models.Manga], error) {
	f := e.Filter()
	res, err := e.gateway.Search(ctx, f, page)
	if err != nil {
		return feed.Page[models.Manga]{}, err
	}
	return feed.Page[models.Manga]{Items: res.Items, Total: res.Metadata.Total}, nil
}

// Filter returns a copy of the working filter.
func (e *Engine) Filter() models.SearchFilter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Clone()
}

// SetTitle edits the title of the working filter without searching.
func (e *Engine) SetTitle(title string) {
	e.mu.Lock()
	e.filter.Title = title
	e.mu.Unlock()
}

// SetFilter replaces the working filter without searching.
func (e *Engine) SetFilter(f models.SearchFilter) {
	e.mu.Lock()
	e.filter = f.Clone()
	e.mu.Unlock()
}

// SearchIfNeeded runs a fresh search for the working filter, or clears the
// search when the filter is empty.
func (e *Engine) SearchIfNeeded(ctx context.Context) error {
	if e.Filter().IsEmpty() {
		e.ClearSearch()
		return nil
	}
	return e.PerformSearch(ctx, true)
}

// PerformSearch fetches the first page of results for the working filter
// when reset is true, or the next page otherwise. A successful fresh search
// with a non-empty filter is recorded in the history.
func (e *Engine) PerformSearch(ctx context.Context, reset bool) error {
	_, err := e.performSearch(ctx, reset)
	return err
}

func (e *Engine) performSearch(ctx context.Context, reset bool) (bool, error) {
	e.mu.Lock()
	e.hasSearched = true
	e.errMsg = ""
	filter := e.filter.Clone()
	e.mu.Unlock()

	var (
		loaded bool
		err    error
	)
	if reset {
		loaded, err = e.results.Reload(ctx)
	} else {
		loaded, err = e.results.LoadNext(ctx)
	}

	if err != nil {
		log.Printf("Error searching catalog: %v", err)
		e.mu.Lock()
		e.errMsg = models.Describe(err)
		e.mu.Unlock()
		e.notify("search", "failed", models.Describe(err))
		return false, err
	}
	if !loaded {
		return false, nil
	}
	e.notify("search", "loaded", "")

	if reset && !filter.IsEmpty() {
		if err := e.recordHistory(ctx, filter); err != nil {
			// The results stand even when the history cannot be written.
			log.Printf("Error recording search history: %v", err)
		}
	}
	return true, nil
}

// SearchFromHistory repeats a past search.
func (e *Engine) SearchFromHistory(ctx context.Context, entry models.HistoryEntry) error {
	e.mu.Lock()
	f := entry.Filter()
	f.Contains = e.filter.Contains
	e.filter = f
	e.hasSearched = true
	e.mu.Unlock()
	return e.SearchIfNeeded(ctx)
}

// LoadMoreIfNeeded fetches the next page of results when the anchor is the
// last result shown. It reports whether a page was appended.
func (e *Engine) LoadMoreIfNeeded(ctx context.Context, anchorID int) (bool, error) {
	st := e.results.Snapshot()
	if len(st.Items) == 0 || st.Items[len(st.Items)-1].ID != anchorID {
		return false, nil
	}
	if !st.HasMore() || st.IsInitialLoading || st.IsLoadingMore {
		return false, nil
	}
	return e.performSearch(ctx, false)
}

// FilterOption changes one component of the working filter.
type FilterOption func(*models.SearchFilter)

func WithTitle(title string) FilterOption {
	return func(f *models.SearchFilter) { f.Title = title }
}

func WithGenres(genres ...string) FilterOption {
	return func(f *models.SearchFilter) { f.Genres = append([]string(nil), genres...) }
}

func WithThemes(themes ...string) FilterOption {
	return func(f *models.SearchFilter) { f.Themes = append([]string(nil), themes...) }
}

func WithDemographics(demographics ...string) FilterOption {
	return func(f *models.SearchFilter) { f.Demographics = append([]string(nil), demographics...) }
}

// WithContains selects substring (true) or prefix (false) title matching.
func WithContains(contains bool) FilterOption {
	return func(f *models.SearchFilter) { f.Contains = contains }
}

// UpdateFilters applies the given changes to the working filter and searches
// again. Components without an option keep their value.
func (e *Engine) UpdateFilters(ctx context.Context, opts ...FilterOption) error {
	e.mu.Lock()
	for _, opt := range opts {
		opt(&e.filter)
	}
	e.mu.Unlock()
	return e.SearchIfNeeded(ctx)
}

// ClearSearch empties the results and the working filter. History is kept.
func (e *Engine) ClearSearch() {
	e.results.Reset()
	e.mu.Lock()
	e.hasSearched = false
	e.errMsg = ""
	e.filter = models.NewSearchFilter()
	e.mu.Unlock()
	e.notify("search", "cleared", "")
}

// Snapshot returns the search state with its presentation flags.
func (e *Engine) Snapshot() State {
	results := e.results.Snapshot()
	e.mu.Lock()
	defer e.mu.Unlock()
	loading := results.IsInitialLoading
	return State{
		Filter:      e.filter.Clone(),
		Results:     results,
		HasSearched: e.hasSearched,
		Error:       e.errMsg,
		History:     append([]models.HistoryEntry{}, e.history...),
		ShowHistory: !e.hasSearched && !loading,
		ShowResults: e.hasSearched && !loading && len(results.Items) > 0,
		ShowEmpty:   e.hasSearched && !loading && len(results.Items) == 0,
	}
}

// ShouldShowHistory reports whether the history list is the current view.
func (e *Engine) ShouldShowHistory() bool { return e.Snapshot().ShowHistory }

// ShouldShowResults reports whether results are the current view.
func (e *Engine) ShouldShowResults() bool { return e.Snapshot().ShowResults }

// ShouldShowEmpty reports whether the no-results view is current.
func (e *Engine) ShouldShowEmpty() bool { return e.Snapshot().ShowEmpty }

// IsLoading reports whether a fresh search is in flight.
func (e *Engine) IsLoading() bool { return e.results.IsInitialLoading() }

func (e *Engine) notify(source, kind, msg string) {
	e.notifier.BroadcastJSON(models.StateEvent{
		Source:  source,
		Kind:    kind,
		Message: msg,
		At:      e.now(),
	})
}
