// Package events streams profile and session changes to connected clients.
package events

import "github.com/mcoot/gccache/internal/model"

// Type names an event on the stream
type Type string

const (
	ProfileCreated Type = "profile-created"
	ProfileRemoved Type = "profile-removed"
	ProfileSynced  Type = "profile-synced"
	SessionChanged Type = "session-changed"
)

// Event is one change notification
type Event struct {
	Type        Type              `json:"type"`
	Fingerprint model.Fingerprint `json:"fingerprint,omitempty"`
	State       model.LaunchState `json:"state,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Publisher accepts events. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

// Discard is a Publisher that drops every event
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
