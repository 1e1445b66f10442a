// This file defines the core catalog data structures (models) for the
// application. A Manga is an immutable snapshot of one remote catalog entry.

package models

import (
	"strings"
	"time"
)

// Author is a contributor credited on a catalog entry.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// FullName joins the first and last name the way the catalog displays them.
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Tag is a taxonomy entity attached to a catalog entry: a genre (category),
// a demographic (audience) or a theme.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Manga represents a single catalog entry. It is never mutated after
// construction; a re-fetch produces a new value that supersedes the old one.
type Manga struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	TitleEnglish  *string    `json:"title_english,omitempty"`
	TitleJapanese *string    `json:"title_japanese,omitempty"`
	ImageURL      string     `json:"image_url"`
	URL           string     `json:"url"`
	Status        string     `json:"status"`
	Synopsis      *string    `json:"synopsis,omitempty"`
	Background    *string    `json:"background,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	Volumes       *int       `json:"volumes,omitempty"` // total parts, nil when unknown
	Chapters      *int       `json:"chapters,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Authors       []Author   `json:"authors"`
	Genres        []Tag      `json:"genres"`
	Demographics  []Tag      `json:"demographics"`
	Themes        []Tag      `json:"themes"`
}

// SameItem reports whether two snapshots describe the same catalog entry.
// Identity is the id alone.
func (m Manga) SameItem(other Manga) bool {
	return m.ID == other.ID
}

// TotalParts returns the known number of volumes and whether it is known.
func (m Manga) TotalParts() (int, bool) {
	if m.Volumes == nil {
		return 0, false
	}
	return *m.Volumes, true
}

// MangaStatus is the publication status reported by the catalog.
type MangaStatus string

const (
	StatusFinished            MangaStatus = "finished"
	StatusCurrentlyPublishing MangaStatus = "currently_publishing"
	StatusOnHiatus            MangaStatus = "on_hiatus"
	StatusUnknown             MangaStatus = "unknown"
)

// ParseStatus maps a raw status string onto a known status. Anything not
// recognised becomes StatusUnknown.
func ParseStatus(raw string) MangaStatus {
	switch s := MangaStatus(strings.ToLower(raw)); s {
	case StatusFinished, StatusCurrentlyPublishing, StatusOnHiatus:
		return s
	default:
		return StatusUnknown
	}
}

// PublicationStatus returns the typed status of the entry.
func (m Manga) PublicationStatus() MangaStatus {
	return ParseStatus(m.Status)
}

// Metadata carries the paging information of a catalog response.
type Metadata struct {
	Per   int `json:"per"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

// MangaPage is one page of catalog results plus the server total.
type MangaPage struct {
	Items    []Manga  `json:"items"`
	Metadata Metadata `json:"metadata"`
}
