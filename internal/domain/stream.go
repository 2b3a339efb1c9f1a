package domain

import "time"

// Stream names
const (
	StreamMediaCleanup = "stream:media:cleanup"
)

// MediaCleanupEvent - published after an entity is deleted; the cleanup worker
// removes the listed objects from storage and their media rows
type MediaCleanupEvent struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	MediaIDs   []string   `json:"media_ids"`
	FilePaths  []string   `json:"file_paths"`
	DeletedAt  time.Time  `json:"deleted_at"`
}

// IsEmpty - nothing left to clean up
func (e *MediaCleanupEvent) IsEmpty() bool {
	return len(e.MediaIDs) == 0 && len(e.FilePaths) == 0
}

// StreamMessage - raw entry read from a Redis stream
type StreamMessage struct {
	ID   string
	Data string
}
