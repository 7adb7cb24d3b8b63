package mongodb

import (
	"context"
	"regexp"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"
	"afyalink/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type facilityRepository struct {
	collection *mongo.Collection
}

func NewFacilityRepository(db *database.MongoDB) interfaces.FacilityRepository {
	return &facilityRepository{
		collection: db.Collection(database.CollectionHealthServices),
	}
}

func (r *facilityRepository) FindActive(ctx context.Context, filter models.FacilityFilter) ([]*models.HealthService, error) {
	cursor, err := r.collection.Find(ctx, buildFacilityFilter(filter))
	if err != nil {
		return nil, translateError(err, "health service", "search health services")
	}
	defer cursor.Close(ctx)

	var facilities []*models.HealthService
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, translateError(err, "health service", "decode health services")
	}
	if facilities == nil {
		facilities = []*models.HealthService{}
	}

	return facilities, nil
}

// buildFacilityFilter is the store-side prefilter. The bounding box keeps
// facilities without a location.
func buildFacilityFilter(filter models.FacilityFilter) bson.D {
	and := bson.A{bson.M{"is_active": true}}

	if filter.Type != nil {
		and = append(and, bson.M{"type": *filter.Type})
	}
	if filter.EmergencyOnly {
		and = append(and, bson.M{"is_emergency": true})
	}
	if filter.Open24h {
		and = append(and, bson.M{"is_24_hours": true})
	}
	if filter.SearchText != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.SearchText), Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"address": pattern},
		}})
	}
	if filter.Origin != nil && filter.RadiusKm > 0 {
		box := utils.BoundingBox(filter.Origin.Point(), filter.RadiusKm)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"location": nil},
			bson.M{
				"location.latitude":  bson.M{"$gte": box.Southwest.Lat, "$lte": box.Northeast.Lat},
				"location.longitude": bson.M{"$gte": box.Southwest.Lng, "$lte": box.Northeast.Lng},
			},
		}})
	}

	return bson.D{{Key: "$and", Value: and}}
}

func (r *facilityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthService, error) {
	var facility models.HealthService
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&facility)
	if err != nil {
		return nil, translateError(err, "health service", "get health service")
	}
	return &facility, nil
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

	_, err := r.collection.InsertOne(ctx, facility)
	return translateError(err, "health service", "create health service")
}

func (r *facilityRepository) Update(ctx context.Context, id primitive.ObjectID, update models.FacilityUpdate) (*models.HealthService, error) {
	set := facilityUpdateSet(update)
	set["updated_at"] = time.Now()

	var facility models.HealthService
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&facility)
	if err != nil {
		return nil, translateError(err, "health service", "update health service")
	}
	return &facility, nil
}

func facilityUpdateSet(u models.FacilityUpdate) bson.M {
	set := bson.M{}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Website != nil {
		set["website"] = *u.Website
	}
	if u.Services != nil {
		set["services"] = u.Services
	}
	if u.OperatingHours != nil {
		set["operating_hours"] = u.OperatingHours
	}
	if u.IsEmergency != nil {
		set["is_emergency"] = *u.IsEmergency
	}
	if u.Is24Hours != nil {
		set["is_24_hours"] = *u.Is24Hours
	}
	if u.IsVerified != nil {
		set["is_verified"] = *u.IsVerified
	}
	return set
}

func (r *facilityRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return translateError(err, "health service", "deactivate health service")
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("health service")
	}
	return nil
}
