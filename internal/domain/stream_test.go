package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaCleanupEvent_IsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		event    MediaCleanupEvent
		expected bool
	}{
		{
			name:     "no media",
			event:    MediaCleanupEvent{EntityType: EntityFarm, EntityID: "f-1"},
			expected: true,
		},
		{
			name: "media rows without files",
			event: MediaCleanupEvent{
				EntityType: EntityFarm,
				EntityID:   "f-1",
				MediaIDs:   []string{"m-1"},
			},
			expected: false,
		},
		{
			name: "files to delete",
			event: MediaCleanupEvent{
				EntityType: EntityGrassland,
				EntityID:   "g-1",
				MediaIDs:   []string{"m-1"},
				FilePaths:  []string{"media/g-1/cover.jpg"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.IsEmpty())
		})
	}
}
