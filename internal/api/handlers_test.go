package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/testutil"
)

// doJSON sends a request through the router and decodes the JSON response
// into out when out is non-nil.
func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if out != nil && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr
}

func TestHandleGetVersion(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	var resp map[string]interface{}
	rr := doJSON(t, router, "GET", "/api/version", nil, &resp)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0.1.0", resp["version"])
	assert.NotContains(t, resp, "compatible")

	resp = nil
	rr = doJSON(t, router, "GET", "/api/version?min=0.2.0", nil, &resp)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, resp["compatible"])

	for _, bad := range []string{"nope", "1.x.3", "1.2.3.4"} {
		var errResp map[string]string
		rr = doJSON(t, router, "GET", "/api/version?min="+bad, nil, &errResp)
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
		assert.Equal(t, "min must be a semantic version", errResp["error"], bad)
	}

	resp = nil
	rr = doJSON(t, router, "GET", "/api/version?min=v0.1.0", nil, &resp)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, resp["compatible"])
}

func TestHandleHealthAndProviders(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	rr := doJSON(t, router, "GET", "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Active struct {
			ID string `json:"id"`
		} `json:"active"`
	}
	rr = doJSON(t, router, "GET", "/api/providers", nil, &resp)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "mockmanga", resp.Active.ID)
}

func TestJobRoutes(t *testing.T) {
	server, app := testutil.SetupTestServer(t)
	router := server.Router()

	var statuses []map[string]interface{}
	rr := doJSON(t, router, "GET", "/api/jobs", nil, &statuses)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, statuses, 4)

	rr = doJSON(t, router, "POST", "/api/jobs/curated-refresh/run", nil, nil)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Eventually(t, func() bool { return !app.JobManager().IsRunning() }, timeout, tick)
	assert.Len(t, app.Catalog().Curated().Items, 10)

	rr = doJSON(t, router, "POST", "/api/jobs/unknown/run", nil, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
