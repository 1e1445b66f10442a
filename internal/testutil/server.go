// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"testing"

	"github.com/vrsandeep/koma-go/internal/api"
	"github.com/vrsandeep/koma-go/internal/config"
	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/gateway/mockmanga"
	"github.com/vrsandeep/koma-go/internal/models"
)

// SetupTestApp wires a core.App around an in-memory database and the
// offline mock gateway.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	return SetupTestAppWithGateway(t, mockmanga.New())
}

// SetupTestAppWithGateway is SetupTestApp with a caller-supplied gateway.
func SetupTestAppWithGateway(t *testing.T, gw models.Gateway) *core.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.API.Provider = gw.GetInfo().ID
	cfg.Jobs.CuratedRefreshInterval = 0

	app, err := core.Assemble(cfg, SetupTestDB(t), gw, "0.1.0")
	if err != nil {
		t.Fatalf("Failed to assemble app: %v", err)
	}
	go app.WsHub().Run()
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app
}
