// Package feed implements the page window shared by the browse and search
// lists: an ordered, de-duplicated sequence of items fetched one page at a
// time from a remote source, with the busy flags that keep two requests for
// the same window from running at once.
package feed

import (
	"context"
	"sync"
)

// Page is one page returned by a fetch function, plus the server total.
type Page[T any] struct {
	Items []T
	Total int
}

// FetchFunc loads a 1-based page.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// State is a point-in-time copy of a window.
type State[T any] struct {
	Items            []T  `json:"items"`
	CurrentPage      int  `json:"current_page"`
	TotalCount       int  `json:"total_count"`
	IsInitialLoading bool `json:"is_initial_loading"`
	IsLoadingMore    bool `json:"is_loading_more"`
}

// HasMore reports whether the server holds items the window has not loaded.
func (s State[T]) HasMore() bool {
	return len(s.Items) < s.TotalCount
}

// Option configures a Window.
type Option func(*options)

type options struct {
	discardStale bool
}

// DiscardStale makes the window drop first-page responses to requests
// issued before the most recent reset. Without it the last response to
// arrive wins. Next-page responses from before a reset are always dropped.
func DiscardStale(enabled bool) Option {
	return func(o *options) { o.discardStale = enabled }
}

// Window holds the pagination state of one feed. It is safe for concurrent
// use; the lock is never held while a fetch is running.
type Window[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]
	id    func(T) int
	opts  options

	items          []T
	currentPage    int
	total          int
	initialLoading bool
	loadingMore    bool
	generation     uint64
}

// New returns an empty window that loads pages with fetch and identifies
// items with id.
func New[T any](fetch FetchFunc[T], id func(T) int, opts ...Option) *Window[T] {
	w := &Window[T]{fetch: fetch, id: id}
	for _, opt := range opts {
		opt(&w.opts)
	}
	return w
}

// LoadFirst fetches page 1 and, on success, replaces the window contents.
// It returns false without fetching when either busy flag is already set.
// A failed fetch leaves the loaded items untouched.
func (w *Window[T]) LoadFirst(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if w.initialLoading || w.loadingMore {
		w.mu.Unlock()
		return false, nil
	}
	return w.loadFirstLocked(ctx)
}

// Reload empties the window and fetches page 1 in one step. It always
// issues the request: fetches already in flight are orphaned, so an older
// page never appends to the reloaded window, and an older first page is
// applied only when DiscardStale is off.
func (w *Window[T]) Reload(ctx context.Context) (bool, error) {
	w.mu.Lock()
	w.clear()
	return w.loadFirstLocked(ctx)
}

// loadFirstLocked must be called with w.mu held; it releases the lock for
// the duration of the fetch.
func (w *Window[T]) loadFirstLocked(ctx context.Context) (bool, error) {
	w.initialLoading = true
	gen := w.generation
	w.mu.Unlock()

	page, err := w.fetch(ctx, 1)

	w.mu.Lock()
	defer w.mu.Unlock()
	current := gen == w.generation
	if current {
		w.initialLoading = false
	}
	if !current && (err != nil || w.opts.discardStale) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	w.items = w.items[:0:0]
	w.merge(page)
	w.currentPage = 1
	return true, nil
}

// LoadNext fetches the page after the current one and appends it. It
// returns false without fetching when a load is already in flight or the
// window holds every item the server reported.
func (w *Window[T]) LoadNext(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if w.initialLoading || w.loadingMore || (w.currentPage > 0 && len(w.items) >= w.total) {
		w.mu.Unlock()
		return false, nil
	}
	w.loadingMore = true
	gen := w.generation
	next := w.currentPage + 1
	w.mu.Unlock()

	page, err := w.fetch(ctx, next)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		// The window was reset while the page was in flight.
		return false, nil
	}
	w.loadingMore = false
	if err != nil {
		return false, err
	}
	w.merge(page)
	w.currentPage = next
	return true, nil
}

// merge appends the page items not already present and takes the latest
// total. The window never holds more items than the total.
func (w *Window[T]) merge(page Page[T]) {
	seen := make(map[int]struct{}, len(w.items))
	for _, it := range w.items {
		seen[w.id(it)] = struct{}{}
	}
	for _, it := range page.Items {
		key := w.id(it)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		w.items = append(w.items, it)
	}
	w.total = page.Total
	if w.total < 0 {
		w.total = 0
	}
	if len(w.items) > w.total {
		w.items = w.items[:w.total]
	}
}

// Reset empties the window and clears both busy flags. Requests already in
// flight still complete: a next page is dropped, a first page is applied
// unless DiscardStale is set.
func (w *Window[T]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clear()
}

func (w *Window[T]) clear() {
	w.items = nil
	w.currentPage = 0
	w.total = 0
	w.initialLoading = false
	w.loadingMore = false
	w.generation++
}

// Snapshot returns a copy of the window state.
func (w *Window[T]) Snapshot() State[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State[T]{
		Items:            append([]T(nil), w.items...),
		CurrentPage:      w.currentPage,
		TotalCount:       w.total,
		IsInitialLoading: w.initialLoading,
		IsLoadingMore:    w.loadingMore,
	}
}

// IndexOf returns the position of the item with the given id, or -1.
func (w *Window[T]) IndexOf(id int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, it := range w.items {
		if w.id(it) == id {
			return i
		}
	}
	return -1
}

// Len returns the number of loaded items.
func (w *Window[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// HasMore reports whether more items exist on the server.
func (w *Window[T]) HasMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items) < w.total
}

// IsInitialLoading reports whether a first-page fetch is in flight.
func (w *Window[T]) IsInitialLoading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialLoading
}

// IsLoading reports whether any fetch is in flight.
func (w *Window[T]) IsLoading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initialLoading || w.loadingMore
}
