package feed_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/feed"
)

// pagedSource serves ids 1..total in pages of size per.
type pagedSource struct {
	total int
	per   int
	calls atomic.Int32
	gate  chan struct{} // when non-nil, each fetch waits for a receive
	fail  error
}

func (s *pagedSource) fetch(ctx context.Context, page int) (feed.Page[int], error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.fail != nil {
		return feed.Page[int]{}, s.fail
	}
	var items []int
	for id := (page-1)*s.per + 1; id <= page*s.per && id <= s.total; id++ {
		items = append(items, id)
	}
	return feed.Page[int]{Items: items, Total: s.total}, nil
}

func identity(v int) int { return v }

func TestWindow_FirstPageThenAppend(t *testing.T) {
	src := &pagedSource{total: 45, per: 20}
	w := feed.New(src.fetch, identity)
	ctx := context.Background()

	loaded, err := w.LoadFirst(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)
	st := w.Snapshot()
	assert.Len(t, st.Items, 20)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 45, st.TotalCount)

	prev := st.Items
	for w.HasMore() {
		loaded, err := w.LoadNext(ctx)
		require.NoError(t, err)
		require.True(t, loaded)
		st = w.Snapshot()
		assert.GreaterOrEqual(t, len(st.Items), len(prev))
		assert.LessOrEqual(t, len(st.Items), st.TotalCount)
		prev = st.Items
	}
	assert.Len(t, st.Items, 45)
	assert.Equal(t, 3, st.CurrentPage)

	loaded, err = w.LoadNext(ctx)
	assert.NoError(t, err)
	assert.False(t, loaded, "no fetch once every item is loaded")
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestWindow_FirstPageReplaces(t *testing.T) {
	src := &pagedSource{total: 45, per: 20}
	w := feed.New(src.fetch, identity)
	ctx := context.Background()

	_, _ = w.LoadFirst(ctx)
	_, _ = w.LoadNext(ctx)
	require.Equal(t, 40, w.Len())

	_, err := w.LoadFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, w.Len())
	assert.Equal(t, 1, w.Snapshot().CurrentPage)
}

func TestWindow_FailureKeepsItems(t *testing.T) {
	src := &pagedSource{total: 45, per: 20}
	w := feed.New(src.fetch, identity)
	ctx := context.Background()
	_, _ = w.LoadFirst(ctx)

	src.fail = errors.New("boom")
	loaded, err := w.LoadNext(ctx)
	assert.Error(t, err)
	assert.False(t, loaded)
	st := w.Snapshot()
	assert.Len(t, st.Items, 20)
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.IsLoadingMore)

	_, err = w.LoadFirst(ctx)
	assert.Error(t, err)
	assert.Len(t, w.Snapshot().Items, 20)
}

func TestWindow_NeverExceedsTotal(t *testing.T) {
	// The server claims 3 items but sends 5.
	w := feed.New(func(ctx context.Context, page int) (feed.Page[int], error) {
		return feed.Page[int]{Items: []int{1, 2, 3, 4, 5}, Total: 3}, nil
	}, identity)
	_, err := w.LoadFirst(context.Background())
	require.NoError(t, err)
	st := w.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, st.Items)
}

func TestWindow_SkipsDuplicateIDs(t *testing.T) {
	pages := map[int][]int{1: {1, 2, 3}, 2: {3, 4, 5}}
	w := feed.New(func(ctx context.Context, page int) (feed.Page[int], error) {
		return feed.Page[int]{Items: pages[page], Total: 10}, nil
	}, identity)
	ctx := context.Background()
	_, _ = w.LoadFirst(ctx)
	_, _ = w.LoadNext(ctx)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, w.Snapshot().Items)
}

func TestWindow_ReentrancyGuard(t *testing.T) {
	src := &pagedSource{total: 45, per: 20, gate: make(chan struct{})}
	w := feed.New(src.fetch, identity)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = w.LoadFirst(ctx)
	}()

	// Wait until the first request is in flight.
	require.Eventually(t, w.IsInitialLoading, timeout, tick)

	loaded, err := w.LoadFirst(ctx)
	assert.NoError(t, err)
	assert.False(t, loaded)
	loaded, err = w.LoadNext(ctx)
	assert.NoError(t, err)
	assert.False(t, loaded)
	assert.Empty(t, w.Snapshot().Items)

	st := w.Snapshot()
	assert.True(t, st.IsInitialLoading)
	assert.False(t, st.IsLoadingMore, "busy flags are exclusive")

	close(src.gate)
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Len(t, w.Snapshot().Items, 20)
}

func TestWindow_ResetAndStaleResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("last response wins by default", func(t *testing.T) {
		src := &pagedSource{total: 5, per: 5, gate: make(chan struct{})}
		w := feed.New(src.fetch, identity)
		done := make(chan struct{})
		go func() {
			_, _ = w.LoadFirst(ctx)
			close(done)
		}()
		require.Eventually(t, w.IsInitialLoading, timeout, tick)
		w.Reset()
		src.gate <- struct{}{}
		<-done
		assert.Len(t, w.Snapshot().Items, 5)
	})

	t.Run("discard stale drops the old response", func(t *testing.T) {
		src := &pagedSource{total: 5, per: 5, gate: make(chan struct{})}
		w := feed.New(src.fetch, identity, feed.DiscardStale(true))
		done := make(chan struct{})
		go func() {
			loaded, err := w.LoadFirst(ctx)
			assert.NoError(t, err)
			assert.False(t, loaded)
			close(done)
		}()
		require.Eventually(t, w.IsInitialLoading, timeout, tick)
		w.Reset()
		src.gate <- struct{}{}
		<-done
		st := w.Snapshot()
		assert.Empty(t, st.Items)
		assert.Equal(t, 0, st.CurrentPage)
		assert.False(t, st.IsInitialLoading)
	})
}

func TestWindow_IndexOf(t *testing.T) {
	src := &pagedSource{total: 3, per: 20}
	w := feed.New(src.fetch, identity)
	_, _ = w.LoadFirst(context.Background())
	assert.Equal(t, 0, w.IndexOf(1))
	assert.Equal(t, 2, w.IndexOf(3))
	assert.Equal(t, -1, w.IndexOf(99))
}

func TestWindow_Reload(t *testing.T) {
	ctx := context.Background()
	src := &pagedSource{total: 45, per: 20}
	w := feed.New(src.fetch, identity)
	_, _ = w.LoadFirst(ctx)
	_, _ = w.LoadNext(ctx)
	require.Len(t, w.Snapshot().Items, 40)

	src.total = 8
	loaded, err := w.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, loaded)
	st := w.Snapshot()
	assert.Len(t, st.Items, 8)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 8, st.TotalCount)

	t.Run("reload during load more issues a fresh first page", func(t *testing.T) {
		// The first call answers at once; the old page 2 and the reloaded
		// page 1 each wait for their own release. Reloaded ids start at 101.
		var calls atomic.Int32
		releaseNext, releaseFirst := make(chan struct{}), make(chan struct{})
		fetch := func(ctx context.Context, page int) (feed.Page[int], error) {
			n := calls.Add(1)
			base := 0
			switch n {
			case 2:
				<-releaseNext
			case 3:
				<-releaseFirst
			}
			if n >= 3 {
				base = 100
			}
			var items []int
			for id := (page-1)*20 + 1; id <= page*20; id++ {
				items = append(items, base+id)
			}
			return feed.Page[int]{Items: items, Total: 45}, nil
		}
		w := feed.New(fetch, identity)
		_, err := w.LoadFirst(ctx)
		require.NoError(t, err)

		nextDone := make(chan bool)
		go func() {
			loaded, err := w.LoadNext(ctx)
			assert.NoError(t, err)
			nextDone <- loaded
		}()
		require.Eventually(t, w.IsLoading, timeout, tick)

		reloadDone := make(chan bool)
		go func() {
			loaded, err := w.Reload(ctx)
			assert.NoError(t, err)
			reloadDone <- loaded
		}()
		require.Eventually(t, func() bool { return calls.Load() == 3 }, timeout, tick)

		st := w.Snapshot()
		assert.Empty(t, st.Items)
		assert.True(t, st.IsInitialLoading)
		assert.False(t, st.IsLoadingMore, "busy flags are exclusive")

		// The old page lands first and is not appended to the reloaded window.
		close(releaseNext)
		assert.False(t, <-nextDone)
		st = w.Snapshot()
		assert.Empty(t, st.Items)
		assert.True(t, st.IsInitialLoading)

		close(releaseFirst)
		assert.True(t, <-reloadDone)
		st = w.Snapshot()
		require.Len(t, st.Items, 20)
		assert.Equal(t, 101, st.Items[0])
		assert.Equal(t, 1, st.CurrentPage)
		assert.False(t, st.IsInitialLoading)

		loaded, err := w.LoadNext(ctx)
		require.NoError(t, err)
		assert.True(t, loaded)
		assert.Equal(t, 140, w.Snapshot().Items[39])
	})

	t.Run("reload during a first load is not dropped", func(t *testing.T) {
		gated := &pagedSource{total: 5, per: 5, gate: make(chan struct{})}
		w := feed.New(gated.fetch, identity, feed.DiscardStale(true))
		done := make(chan struct{})
		go func() {
			_, _ = w.LoadFirst(ctx)
			close(done)
		}()
		require.Eventually(t, w.IsInitialLoading, timeout, tick)

		reloaded := make(chan bool)
		go func() {
			loaded, _ := w.Reload(ctx)
			reloaded <- loaded
		}()
		require.Eventually(t, func() bool { return gated.calls.Load() == 2 }, timeout, tick)

		gated.gate <- struct{}{}
		gated.gate <- struct{}{}
		<-done
		assert.True(t, <-reloaded, "only the reload is current")
		assert.Len(t, w.Snapshot().Items, 5)
		assert.False(t, w.IsLoading())
	})
}
