// A mock gateway for development and testing purposes. It serves a small,
// deterministic catalog without making network calls.
package mockmanga

import (
	"context"
	"fmt"
	"strings"

	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/util"
)

const (
	DefaultCatalogSize = 45
	DefaultPageSize    = 20
	curatedSize        = 10
)

var (
	genres       = []string{"Action", "Adventure", "Comedy", "Drama", "Mystery"}
	themes       = []string{"School", "Music", "Psychological"}
	demographics = []string{"Shounen", "Seinen", "Shoujo"}
)

type MockMangaProvider struct {
	catalog  []models.Manga
	pageSize int
}

func New() *MockMangaProvider {
	return NewWithSize(DefaultCatalogSize, DefaultPageSize)
}

// NewWithSize builds a catalog of size items served pageSize at a time.
func NewWithSize(size, pageSize int) *MockMangaProvider {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	catalog := make([]models.Manga, 0, size)
	for i := 1; i <= size; i++ {
		catalog = append(catalog, mockManga(i))
	}
	return &MockMangaProvider{catalog: catalog, pageSize: pageSize}
}

func (p *MockMangaProvider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   "mockmanga",
		Name: "MockManga",
	}
}

func (p *MockMangaProvider) FetchAll(ctx context.Context, page int) (models.MangaPage, error) {
	if err := ctx.Err(); err != nil {
		return models.MangaPage{}, &models.GatewayError{Kind: models.GatewayTransport, Err: err}
	}
	return p.paginate(p.catalog, page), nil
}

// FetchCurated returns the highest scored entries.
func (p *MockMangaProvider) FetchCurated(ctx context.Context) (models.MangaPage, error) {
	if err := ctx.Err(); err != nil {
		return models.MangaPage{}, &models.GatewayError{Kind: models.GatewayTransport, Err: err}
	}
	n := curatedSize
	if n > len(p.catalog) {
		n = len(p.catalog)
	}
	items := append([]models.Manga(nil), p.catalog[:n]...)
	return models.MangaPage{Items: items, Metadata: models.Metadata{Per: n, Page: 1, Total: n}}, nil
}

func (p *MockMangaProvider) Search(ctx context.Context, filter models.SearchFilter, page int) (models.MangaPage, error) {
	if err := ctx.Err(); err != nil {
		return models.MangaPage{}, &models.GatewayError{Kind: models.GatewayTransport, Err: err}
	}
	var matches []models.Manga
	for _, m := range p.catalog {
		if matchesFilter(m, filter) {
			matches = append(matches, m)
		}
	}
	return p.paginate(matches, page), nil
}

func (p *MockMangaProvider) paginate(all []models.Manga, page int) models.MangaPage {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * p.pageSize
	end := start + p.pageSize
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return models.MangaPage{
		Items:    append([]models.Manga{}, all[start:end]...),
		Metadata: models.Metadata{Per: p.pageSize, Page: page, Total: len(all)},
	}
}

func matchesFilter(m models.Manga, f models.SearchFilter) bool {
	if f.Title != "" {
		title, query := util.Normalize(m.Title), util.Normalize(f.Title)
		if f.Contains && !strings.Contains(title, query) {
			return false
		}
		if !f.Contains && !strings.HasPrefix(title, query) {
			return false
		}
	}
	return hasAll(m.Genres, f.Genres) && hasAll(m.Themes, f.Themes) && hasAll(m.Demographics, f.Demographics)
}

func hasAll(tags []models.Tag, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, t := range tags {
			if strings.EqualFold(t.Name, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func mockManga(i int) models.Manga {
	volumes := i%12 + 1
	score := 10 - float64(i)/10
	synopsis := fmt.Sprintf("The %d%s adventure of the mocking crew.", i, ordinal(i))
	status := models.StatusFinished
	if i%3 == 0 {
		status = models.StatusCurrentlyPublishing
	}
	return models.Manga{
		ID:       i,
		Title:    fmt.Sprintf("Mock Series %d", i),
		ImageURL: fmt.Sprintf("https://placehold.co/400x600/2a2a2a/f0f0f0?text=Cover+%d", i),
		URL:      fmt.Sprintf("https://example.com/manga/%d", i),
		Status:   string(status),
		Synopsis: &synopsis,
		Score:    &score,
		Volumes:  &volumes,
		Authors:  []models.Author{{ID: "mock-author", FirstName: "Mock", LastName: "Author", Role: "Story & Art"}},
		Genres: []models.Tag{
			{ID: fmt.Sprintf("genre-%d", i%len(genres)), Name: genres[i%len(genres)]},
		},
		Themes: []models.Tag{
			{ID: fmt.Sprintf("theme-%d", i%len(themes)), Name: themes[i%len(themes)]},
		},
		Demographics: []models.Tag{
			{ID: fmt.Sprintf("demographic-%d", i%len(demographics)), Name: demographics[i%len(demographics)]},
		},
	}
}

func ordinal(i int) string {
	if i%100 >= 11 && i%100 <= 13 {
		return "th"
	}
	switch i % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
