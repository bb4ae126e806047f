package sse

import "time"

// EventType identifies what a feed event describes.
type EventType string

const (
	// EventHeartbeat keeps idle connections alive.
	EventHeartbeat EventType = "heartbeat"
	// EventChange is one observed filesystem change.
	EventChange EventType = "fs.change"
	// EventTreeUpdated signals that the mirrored tree was re-walked.
	EventTreeUpdated EventType = "tree.updated"
)

// Event is one server-sent event.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChangeData is the payload of an EventChange event.
type ChangeData struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// TreeUpdatedData is the payload of an EventTreeUpdated event.
type TreeUpdatedData struct {
	Root       string `json:"root"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{Type: EventHeartbeat, Timestamp: time.Now()}
}

// NewChangeEvent creates an event for one filesystem change.
func NewChangeEvent(kind, name, path string) Event {
	return Event{
		Type:      EventChange,
		Data:      ChangeData{Kind: kind, Name: name, Path: path},
		Timestamp: time.Now(),
	}
}

// NewTreeUpdatedEvent creates an event announcing a fresh walk.
func NewTreeUpdatedEvent(root, snapshotID string) Event {
	return Event{
		Type:      EventTreeUpdated,
		Data:      TreeUpdatedData{Root: root, SnapshotID: snapshotID},
		Timestamp: time.Now(),
	}
}
