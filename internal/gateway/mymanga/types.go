package mymanga

import (
	"strings"
	"time"

	"github.com/vrsandeep/koma-go/internal/models"
)

// --- Response Types ---
type MangaResponse struct {
	Items    []MangaData `json:"items"`
	Metadata Metadata    `json:"metadata"`
}

type Metadata struct {
	Per   int `json:"per"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

type MangaData struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	TitleEnglish  *string           `json:"titleEnglish"`
	TitleJapanese *string           `json:"titleJapanese"`
	MainPicture   string            `json:"mainPicture"`
	URL           string            `json:"url"`
	StartDate     *string           `json:"startDate"`
	EndDate       *string           `json:"endDate"`
	Score         *float64          `json:"score"`
	Status        string            `json:"status"`
	Volumes       *int              `json:"volumes"`
	Chapters      *int              `json:"chapters"`
	Synopsis      *string           `json:"sypnosis"` // spelled this way by the API
	Background    *string           `json:"background"`
	Authors       []AuthorData      `json:"authors"`
	Genres        []GenreData       `json:"genres"`
	Demographics  []DemographicData `json:"demographics"`
	Themes        []ThemeData       `json:"themes"`
}

type AuthorData struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type GenreData struct {
	ID    string `json:"id"`
	Genre string `json:"genre"`
}

type DemographicData struct {
	ID          string `json:"id"`
	Demographic string `json:"demographic"`
}

type ThemeData struct {
	ID    string `json:"id"`
	Theme string `json:"theme"`
}

// --- Search Request ---

// CustomSearch is the body of POST /search/manga. Unused criteria are sent
// as null.
type CustomSearch struct {
	SearchTitle           *string  `json:"searchTitle"`
	SearchAuthorFirstName *string  `json:"searchAuthorFirstName"`
	SearchAuthorLastName  *string  `json:"searchAuthorLastName"`
	SearchGenres          []string `json:"searchGenres"`
	SearchThemes          []string `json:"searchThemes"`
	SearchDemographics    []string `json:"searchDemographics"`
	SearchContains        bool     `json:"searchContains"`
}

func newCustomSearch(f models.SearchFilter) CustomSearch {
	body := CustomSearch{SearchContains: f.Contains}
	if f.Title != "" {
		title := f.Title
		body.SearchTitle = &title
	}
	if len(f.Genres) > 0 {
		body.SearchGenres = f.Genres
	}
	if len(f.Themes) > 0 {
		body.SearchThemes = f.Themes
	}
	if len(f.Demographics) > 0 {
		body.SearchDemographics = f.Demographics
	}
	return body
}

func (r MangaResponse) toPage() models.MangaPage {
	items := make([]models.Manga, 0, len(r.Items))
	for _, d := range r.Items {
		items = append(items, d.toManga())
	}
	return models.MangaPage{
		Items:    items,
		Metadata: models.Metadata{Per: r.Metadata.Per, Page: r.Metadata.Page, Total: r.Metadata.Total},
	}
}

func (d MangaData) toManga() models.Manga {
	m := models.Manga{
		ID:            d.ID,
		Title:         d.Title,
		TitleEnglish:  d.TitleEnglish,
		TitleJapanese: d.TitleJapanese,
		ImageURL:      unquote(d.MainPicture),
		URL:           unquote(d.URL),
		Status:        d.Status,
		Synopsis:      d.Synopsis,
		Background:    d.Background,
		Score:         d.Score,
		Volumes:       d.Volumes,
		Chapters:      d.Chapters,
		StartDate:     parseDate(d.StartDate),
		EndDate:       parseDate(d.EndDate),
		Authors:       make([]models.Author, 0, len(d.Authors)),
		Genres:        make([]models.Tag, 0, len(d.Genres)),
		Demographics:  make([]models.Tag, 0, len(d.Demographics)),
		Themes:        make([]models.Tag, 0, len(d.Themes)),
	}
	for _, a := range d.Authors {
		m.Authors = append(m.Authors, models.Author{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Role: a.Role})
	}
	for _, g := range d.Genres {
		m.Genres = append(m.Genres, models.Tag{ID: g.ID, Name: g.Genre})
	}
	for _, dm := range d.Demographics {
		m.Demographics = append(m.Demographics, models.Tag{ID: dm.ID, Name: dm.Demographic})
	}
	for _, th := range d.Themes {
		m.Themes = append(m.Themes, models.Tag{ID: th.ID, Name: th.Theme})
	}
	return m
}

// The API wraps picture and page URLs in literal double quotes.
func unquote(s string) string {
	return strings.Trim(s, `"`)
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
