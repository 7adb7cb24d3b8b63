package mongodb

import (
	"context"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"
	"afyalink/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type emergencyRepository struct {
	collection *mongo.Collection
}

func NewEmergencyRepository(db *database.MongoDB) interfaces.EmergencyRepository {
	return &emergencyRepository{
		collection: db.Collection(database.CollectionEmergencyAlerts),
	}
}

func (r *emergencyRepository) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, alert)
	return translateError(err, "emergency alert", "create emergency alert")
}

func (r *emergencyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		return nil, translateError(err, "emergency alert", "get emergency alert")
	}
	return &alert, nil
}

func (r *emergencyRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EmergencyStatus, providerMessageID, failureReason *string, at time.Time) error {
	set := bson.M{
		"status":     status,
		"updated_at": at,
	}
	if providerMessageID != nil {
		set["provider_message_id"] = *providerMessageID
	}
	if failureReason != nil {
		set["failure_reason"] = *failureReason
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translateError(err, "emergency alert", "update emergency alert")
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("emergency alert")
	}
	return nil
}
