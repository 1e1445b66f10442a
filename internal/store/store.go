// Package store handles all database interactions. This is the data access
// layer behind the local collection and the search history; SQL stays here,
// away from the engines.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vrsandeep/koma-go/internal/models"
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// persistErr wraps a database failure so callers can recognise it with
// errors.As. A nil err stays nil.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &models.PersistenceError{Op: op, Err: err}
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	var values []string
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	return values, nil
}
