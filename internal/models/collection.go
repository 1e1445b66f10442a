package models

import "time"

// SavedEntry is a catalog item the user keeps in the local collection,
// together with its two progress counters.
type SavedEntry struct {
	Manga      Manga     `json:"manga"`
	OwnedCount int       `json:"owned_count"` // volumes acquired
	ReadCount  int       `json:"read_count"`  // volumes read
	SavedAt    time.Time `json:"saved_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemState is the saved flag and both counters of one item, loaded together.
type ItemState struct {
	Saved      bool `json:"saved"`
	OwnedCount int  `json:"owned_count"`
	ReadCount  int  `json:"read_count"`
}

// CollectionStats summarises the saved collection.
type CollectionStats struct {
	Entries      int `json:"entries"`
	OwnedVolumes int `json:"owned_volumes"`
	TotalVolumes int `json:"total_volumes"` // sum over entries whose volume count is known
	ReadVolumes  int `json:"read_volumes"`
}

// ValidateOwnedCount checks a new owned value against the item's total parts.
// 0 <= owned <= totalParts, with the upper bound only when it is known.
func ValidateOwnedCount(m Manga, owned int) error {
	if owned < 0 {
		return ErrInvalidCount
	}
	if total, ok := m.TotalParts(); ok && owned > total {
		return ErrInvalidCount
	}
	return nil
}

// ValidateReadCount checks a new read value against the current owned value.
func ValidateReadCount(owned, read int) error {
	if read < 0 || read > owned {
		return ErrInvalidCount
	}
	return nil
}

// ClampOwned returns the owned value that keeps owned <= the item's total
// parts, when known.
func ClampOwned(m Manga, owned int) int {
	if total, ok := m.TotalParts(); ok && owned > total {
		return total
	}
	return owned
}

// ClampRead returns the read value that keeps read <= owned after owned
// has changed.
func ClampRead(owned, read int) int {
	if read > owned {
		return owned
	}
	return read
}
