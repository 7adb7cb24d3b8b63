package interfaces

import (
	"context"
	"time"

	"afyalink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyRepository interface {
	Create(ctx context.Context, alert *models.EmergencyAlert) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error)
	// UpdateStatus records the dispatch outcome.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EmergencyStatus, providerMessageID, failureReason *string, at time.Time) error
}
