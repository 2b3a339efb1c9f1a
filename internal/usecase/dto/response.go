package dto

import "github.com/digital-profile/internal/domain"

// EntityPage - listing envelope as served to clients
type EntityPage = domain.Page[*domain.Row]

// DeleteResponse - result of deleting an entity
type DeleteResponse struct {
	ID            string `json:"id"`
	OrphanedMedia int    `json:"orphanedMedia"`
	CleanupQueued bool   `json:"cleanupQueued"`
}

// WardsResponse - per-ward demographic indicators
type WardsResponse struct {
	Wards []domain.WardDemographics `json:"wards"`
	Total int                       `json:"total"`
}
