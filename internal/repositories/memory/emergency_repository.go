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

type emergencyRepository struct {
	mu     sync.RWMutex
	alerts map[primitive.ObjectID]*models.EmergencyAlert
}

func NewEmergencyRepository() interfaces.EmergencyRepository {
	return &emergencyRepository{
		alerts: make(map[primitive.ObjectID]*models.EmergencyAlert),
	}
}

func (r *emergencyRepository) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *alert
	r.alerts[alert.ID] = &stored
	return nil
}

func (r *emergencyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, utils.NewNotFoundError("emergency alert")
	}
	c := *alert
	return &c, nil
}

func (r *emergencyRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EmergencyStatus, providerMessageID, failureReason *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return utils.NewNotFoundError("emergency alert")
	}
	alert.Status = status
	alert.ProviderMessageID = providerMessageID
	alert.FailureReason = failureReason
	alert.UpdatedAt = at
	return nil
}
