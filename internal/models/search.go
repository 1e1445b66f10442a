package models

import (
	"time"

	"github.com/vrsandeep/koma-go/internal/util"
)

// SearchFilter is the query a user builds on the search screen.
type SearchFilter struct {
	Title        string   `json:"title"`
	Genres       []string `json:"genres"`
	Themes       []string `json:"themes"`
	Demographics []string `json:"demographics"`
	// Contains selects substring matching on the title; false means prefix match.
	Contains bool `json:"contains"`
}

// NewSearchFilter returns an empty filter in substring-match mode, which is
// how the search screen starts.
func NewSearchFilter() SearchFilter {
	return SearchFilter{Contains: true}
}

// IsEmpty reports whether the filter has no text and no tags.
func (f SearchFilter) IsEmpty() bool {
	return f.Title == "" && len(f.Genres) == 0 && len(f.Themes) == 0 && len(f.Demographics) == 0
}

// EquivalentTo reports whether two filters describe the same query:
// normalized titles are equal and every tag collection is equal as a set.
func (f SearchFilter) EquivalentTo(other SearchFilter) bool {
	return util.Normalize(f.Title) == util.Normalize(other.Title) &&
		util.SameSet(f.Genres, other.Genres) &&
		util.SameSet(f.Themes, other.Themes) &&
		util.SameSet(f.Demographics, other.Demographics)
}

// Clone returns a copy that shares no slices with f.
func (f SearchFilter) Clone() SearchFilter {
	f.Genres = append([]string(nil), f.Genres...)
	f.Themes = append([]string(nil), f.Themes...)
	f.Demographics = append([]string(nil), f.Demographics...)
	return f
}

// HistoryEntry is a persisted, previously executed search.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"` // stored as typed, not normalized
	Genres       []string  `json:"genres"`
	Themes       []string  `json:"themes"`
	Demographics []string  `json:"demographics"`
	LastUsedAt   time.Time `json:"last_used_at"`
}

// Filter rebuilds the search filter the entry was recorded from.
func (h HistoryEntry) Filter() SearchFilter {
	f := NewSearchFilter()
	f.Title = h.Query
	f.Genres = append([]string(nil), h.Genres...)
	f.Themes = append([]string(nil), h.Themes...)
	f.Demographics = append([]string(nil), h.Demographics...)
	return f
}

// Matches reports whether the entry is equivalent to the given filter.
func (h HistoryEntry) Matches(f SearchFilter) bool {
	return h.Filter().EquivalentTo(f)
}
