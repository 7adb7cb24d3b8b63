package interfaces

import (
	"context"

	"afyalink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FacilityRepository interface {
	// FindActive returns active facilities passing a coarse prefilter of
	// filter. Unlocated facilities are never excluded by the origin/radius
	// part of the filter; exact filtering is the ranker's job.
	FindActive(ctx context.Context, filter models.FacilityFilter) ([]*models.HealthService, error)

	// GetByID returns the facility regardless of its active flag.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthService, error)
	Create(ctx context.Context, facility *models.HealthService) error
	// Update applies the partial update to an active facility.
	Update(ctx context.Context, id primitive.ObjectID, update models.FacilityUpdate) (*models.HealthService, error)
	// Deactivate soft-deletes an active facility.
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}
