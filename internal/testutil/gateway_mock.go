package testutil

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/vrsandeep/koma-go/internal/models"
)

// MockGateway is a mock implementation of models.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{ID: "mock", Name: "Mock"}
}

// FetchAll mocks the FetchAll method
func (m *MockGateway) FetchAll(ctx context.Context, page int) (models.MangaPage, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(models.MangaPage), args.Error(1)
}

// FetchCurated mocks the FetchCurated method
func (m *MockGateway) FetchCurated(ctx context.Context) (models.MangaPage, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.MangaPage), args.Error(1)
}

// Search mocks the Search method
func (m *MockGateway) Search(ctx context.Context, filter models.SearchFilter, page int) (models.MangaPage, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(models.MangaPage), args.Error(1)
}

// MangaRange builds catalog entries with ids from..to inclusive.
func MangaRange(from, to int) []models.Manga {
	items := make([]models.Manga, 0, to-from+1)
	for id := from; id <= to; id++ {
		items = append(items, models.Manga{ID: id, Title: fmt.Sprintf("Manga %d", id)})
	}
	return items
}

// PageOf wraps items in a MangaPage reporting the given total.
func PageOf(items []models.Manga, page, total int) models.MangaPage {
	return models.MangaPage{Items: items, Metadata: models.Metadata{Per: len(items), Page: page, Total: total}}
}
