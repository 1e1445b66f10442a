package core_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/koma-go/internal/config"
	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/gateway"
	"github.com/vrsandeep/koma-go/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.API.Provider = "mockmanga"
	cfg.Database.Path = filepath.Join(t.TempDir(), "koma.db")
	cfg.Jobs.CuratedRefreshInterval = 0
	return cfg
}

func TestRegisterGatewaysIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	core.RegisterGateways(cfg)
	assert.NotPanics(t, func() { core.RegisterGateways(cfg) })

	for _, id := range []string{"mymanga", "mockmanga"} {
		_, ok := gateway.Get(id)
		assert.True(t, ok, id)
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := testConfig(t)
	core.RegisterGateways(cfg)

	app, err := core.NewWithConfig(cfg, "1.2.3")
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "1.2.3", app.Version)
	assert.Equal(t, "mockmanga", app.Gateway().GetInfo().ID)
	require.NoError(t, app.DB().Ping())

	app.Start(context.Background())
	ctx := context.Background()
	require.NoError(t, app.Catalog().LoadIfNeeded(ctx))
	assert.Len(t, app.Catalog().Browse().Items, 20)

	// The schema is in place: a save round-trips through the store.
	volumes := 3
	require.NoError(t, app.Catalog().SaveItem(ctx, models.Manga{ID: 2, Title: "Mock Series 2", Volumes: &volumes}))
	saved, err := app.Catalog().IsSaved(ctx, models.Manga{ID: 2})
	require.NoError(t, err)
	assert.True(t, saved)

	cfg2 := testConfig(t)
	cfg2.Catalog.PrefetchDistance = 15
	app.ApplyConfig(cfg2)
	loaded, err := app.Catalog().LoadMoreIfNeeded(ctx, 6)
	require.NoError(t, err)
	assert.True(t, loaded, "a wider prefetch distance reaches further back")
}

func TestNewWithConfigUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Provider = "nowhere"

	_, err := core.NewWithConfig(cfg, "1.2.3")
	assert.ErrorContains(t, err, `unknown catalog provider "nowhere"`)
}
