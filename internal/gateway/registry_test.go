package gateway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/koma-go/internal/gateway"
	"github.com/vrsandeep/koma-go/internal/models"
)

type namedGateway struct{ id string }

func (g namedGateway) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{ID: g.id, Name: g.id}
}
func (namedGateway) FetchAll(context.Context, int) (models.MangaPage, error) {
	return models.MangaPage{}, nil
}
func (namedGateway) FetchCurated(context.Context) (models.MangaPage, error) {
	return models.MangaPage{}, nil
}
func (namedGateway) Search(context.Context, models.SearchFilter, int) (models.MangaPage, error) {
	return models.MangaPage{}, nil
}

func TestRegistry(t *testing.T) {
	gateway.UnregisterAll()
	t.Cleanup(gateway.UnregisterAll)

	gateway.Register(namedGateway{id: "b"})
	gateway.Register(namedGateway{id: "a"})

	g, ok := gateway.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a", g.GetInfo().ID)

	_, ok = gateway.Get("missing")
	assert.False(t, ok)

	infos := gateway.GetAll()
	assert.Equal(t, []models.ProviderInfo{{ID: "a", Name: "a"}, {ID: "b", Name: "b"}}, infos)

	assert.Panics(t, func() { gateway.Register(namedGateway{id: "a"}) })
}
