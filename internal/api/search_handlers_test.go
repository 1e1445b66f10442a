package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/search"
	"github.com/vrsandeep/koma-go/internal/testutil"
)

func TestSearchRoutes(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	var st search.State
	rr := doJSON(t, router, "GET", "/api/search", nil, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, st.ShowHistory)

	// "mock series 1" matches 1 and 10..19.
	rr = doJSON(t, router, "POST", "/api/search", map[string]interface{}{"title": "Mock Series 1"}, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, st.HasSearched)
	assert.True(t, st.ShowResults)
	assert.Equal(t, 11, st.Results.TotalCount)
	assert.True(t, st.Filter.Contains, "substring matching is the default")
	require.Len(t, st.History, 1)

	var more struct {
		Loaded bool         `json:"loaded"`
		Search search.State `json:"search"`
	}
	rr = doJSON(t, router, "POST", "/api/search/more?anchor=19", nil, &more)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, more.Loaded, "every result fits on one page")

	rr = doJSON(t, router, "POST", "/api/search", map[string]interface{}{"title": "zzz"}, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, st.ShowEmpty)

	rr = doJSON(t, router, "DELETE", "/api/search", nil, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, st.HasSearched)
	assert.Empty(t, st.Results.Items)

	// An empty filter clears instead of searching.
	rr = doJSON(t, router, "POST", "/api/search", map[string]interface{}{}, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, st.HasSearched)

	var history []models.HistoryEntry
	rr = doJSON(t, router, "GET", "/api/search/history", nil, &history)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, history, 2)
	assert.Equal(t, "zzz", history[0].Query)

	rr = doJSON(t, router, "POST", "/api/search/history/"+history[1].ID, nil, &st)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mock Series 1", st.Filter.Title)
	assert.Equal(t, "Mock Series 1", st.History[0].Query)

	rr = doJSON(t, router, "POST", "/api/search/history/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, "DELETE", "/api/search/history/"+history[0].ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	doJSON(t, router, "GET", "/api/search/history", nil, &history)
	assert.Len(t, history, 1)

	rr = doJSON(t, router, "DELETE", "/api/search/history", nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	history = nil
	doJSON(t, router, "GET", "/api/search/history", nil, &history)
	assert.Empty(t, history)
}
