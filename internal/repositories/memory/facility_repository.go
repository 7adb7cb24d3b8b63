package memory

import (
	"context"
	"sync"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type facilityRepository struct {
	mu         sync.RWMutex
	facilities map[primitive.ObjectID]*models.HealthService
}

func NewFacilityRepository() interfaces.FacilityRepository {
	return &facilityRepository{
		facilities: make(map[primitive.ObjectID]*models.HealthService),
	}
}

func (r *facilityRepository) FindActive(ctx context.Context, filter models.FacilityFilter) ([]*models.HealthService, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bounds *utils.Bounds
	if filter.Origin != nil && filter.RadiusKm > 0 {
		bounds = utils.BoundingBox(filter.Origin.Point(), filter.RadiusKm)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.HealthService, 0, len(r.facilities))
	for _, facility := range r.facilities {
		if !facility.IsActive {
			continue
		}
		if filter.Type != nil && facility.Type != *filter.Type {
			continue
		}
		if filter.EmergencyOnly && !facility.IsEmergency {
			continue
		}
		if filter.Open24h && !facility.Is24Hours {
			continue
		}
		if bounds != nil && facility.Location != nil && !bounds.Contains(facility.Location.Point()) {
			continue
		}
		result = append(result, cloneFacility(facility))
	}

	return result, nil
}

func (r *facilityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	facility, ok := r.facilities[id]
	if !ok {
		return nil, utils.NewNotFoundError("health service")
	}
	return cloneFacility(facility), nil
}

func (r *facilityRepository) Create(ctx context.Context, facility *models.HealthService) error {
	if facility.ID.IsZero() {
		facility.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if facility.CreatedAt.IsZero() {
		facility.CreatedAt = now
	}
	facility.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.facilities[facility.ID]; exists {
		return interfaces.ErrDuplicateKey
	}
	r.facilities[facility.ID] = cloneFacility(facility)
	return nil
}

func (r *facilityRepository) Update(ctx context.Context, id primitive.ObjectID, update models.FacilityUpdate) (*models.HealthService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	facility, ok := r.facilities[id]
	if !ok || !facility.IsActive {
		return nil, utils.NewNotFoundError("health service")
	}

	update.Apply(facility)
	facility.UpdatedAt = time.Now()
	return cloneFacility(facility), nil
}

func (r *facilityRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	facility, ok := r.facilities[id]
	if !ok || !facility.IsActive {
		return utils.NewNotFoundError("health service")
	}

	facility.IsActive = false
	facility.UpdatedAt = time.Now()
	return nil
}

func cloneFacility(f *models.HealthService) *models.HealthService {
	c := *f
	if f.Location != nil {
		loc := *f.Location
		c.Location = &loc
	}
	c.Services = append([]string(nil), f.Services...)
	if f.OperatingHours != nil {
		c.OperatingHours = make(map[string]string, len(f.OperatingHours))
		for k, v := range f.OperatingHours {
			c.OperatingHours[k] = v
		}
	}
	return &c
}
