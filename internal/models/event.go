package models

import "time"

// StateEvent is pushed to connected observers whenever an engine changes
// state, so views know to re-read a snapshot.
type StateEvent struct {
	Source  string    `json:"source"` // "catalog", "curated", "collection", "search", "history", "job"
	Kind    string    `json:"kind"`   // e.g. "loaded", "appended", "failed", "saved", "removed"
	ItemID  int       `json:"item_id,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier receives state events. The websocket hub implements it.
type Notifier interface {
	BroadcastJSON(v interface{})
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) BroadcastJSON(interface{}) {}
