package mongodb

import (
	"context"
	"errors"
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

var openStatuses = bson.A{models.SessionStatusWaiting, models.SessionStatusActive}

type chatRepository struct {
	db                 *database.MongoDB
	sessionsCollection *mongo.Collection
	messagesCollection *mongo.Collection
}

func NewChatRepository(db *database.MongoDB) interfaces.ChatRepository {
	return &chatRepository{
		db:                 db,
		sessionsCollection: db.Collection(database.CollectionChatSessions),
		messagesCollection: db.Collection(database.CollectionChatMessages),
	}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	session.PriorityRank = session.Priority.Rank()

	_, err := r.sessionsCollection.InsertOne(ctx, session)
	return translateError(err, "session", "create session")
}

func (r *chatRepository) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessionsCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		return nil, translateError(err, "session", "get session")
	}
	return &session, nil
}

func (r *chatRepository) AssignCounselor(ctx context.Context, sessionID string, counselorID primitive.ObjectID, at time.Time) (*models.ChatSession, error) {
	return r.conditionalUpdate(ctx, sessionID,
		bson.M{"counselor_id": nil, "status": bson.M{"$in": openStatuses}},
		bson.M{"$set": bson.M{"counselor_id": counselorID, "updated_at": at}},
	)
}

// AppendMessage runs the counter bump, status transition and insert in one
// transaction. Concurrent appends to the same session conflict on the
// session document and are retried by the driver.
func (r *chatRepository) AppendMessage(ctx context.Context, sessionID string, message *models.ChatMessage) (*models.ChatMessage, error) {
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}

	result, err := r.db.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var session models.ChatSession
		err := r.sessionsCollection.FindOneAndUpdate(
			sc,
			bson.M{"session_id": sessionID, "status": bson.M{"$in": openStatuses}},
			bson.M{
				"$inc": bson.M{"message_count": 1},
				"$set": bson.M{"updated_at": message.CreatedAt},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&session)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, r.missOrConflict(sc, sessionID)
			}
			return nil, err
		}

		if message.SenderType == models.SenderTypeUser && session.Status == models.SessionStatusWaiting {
			_, err = r.sessionsCollection.UpdateOne(
				sc,
				bson.M{"_id": session.ID, "status": models.SessionStatusWaiting},
				bson.M{"$set": bson.M{"status": models.SessionStatusActive}},
			)
			if err != nil {
				return nil, err
			}
		}

		stored := *message
		stored.SessionID = session.ID
		stored.Sequence = session.MessageCount
		if _, err := r.messagesCollection.InsertOne(sc, &stored); err != nil {
			return nil, err
		}
		return &stored, nil
	})
	if err != nil {
		return nil, translateError(err, "session", "append message")
	}

	return result.(*models.ChatMessage), nil
}

func (r *chatRepository) EndSession(ctx context.Context, sessionID string, rating *int, feedback *string, at time.Time) (*models.ChatSession, error) {
	set := bson.M{
		"status":     models.SessionStatusEnded,
		"ended_at":   at,
		"updated_at": at,
	}
	if rating != nil {
		set["user_rating"] = *rating
	}
	if feedback != nil {
		set["feedback"] = *feedback
	}

	return r.conditionalUpdate(ctx, sessionID,
		bson.M{"status": bson.M{"$in": openStatuses}},
		bson.M{"$set": set},
	)
}

func (r *chatRepository) CancelSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error) {
	return r.conditionalUpdate(ctx, sessionID,
		bson.M{"status": models.SessionStatusWaiting},
		bson.M{"$set": bson.M{
			"status":     models.SessionStatusCancelled,
			"ended_at":   at,
			"updated_at": at,
		}},
	)
}

func (r *chatRepository) ConsumeBotTurn(ctx context.Context, sessionID string, limit int) (int, error) {
	session, err := r.conditionalUpdate(ctx, sessionID,
		bson.M{"status": bson.M{"$in": openStatuses}, "bot_turns": bson.M{"$lt": limit}},
		bson.M{"$inc": bson.M{"bot_turns": 1}},
	)
	if err != nil {
		return 0, err
	}
	return session.BotTurns, nil
}

func (r *chatRepository) ListWaiting(ctx context.Context, params *utils.PaginationParams) ([]*models.ChatSession, int64, error) {
	filter := bson.M{"status": models.SessionStatusWaiting}

	total, err := r.sessionsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(err, "session", "count waiting sessions")
	}

	opts := params.FindOptions().SetSort(bson.D{
		{Key: "priority_rank", Value: -1},
		{Key: "started_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.sessionsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError(err, "session", "list waiting sessions")
	}
	defer cursor.Close(ctx)

	sessions := []*models.ChatSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, translateError(err, "session", "decode waiting sessions")
	}

	return sessions, total, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	filter := bson.M{"session_id": sessionID}

	total, err := r.messagesCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(err, "message", "count messages")
	}

	opts := params.FindOptions().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.messagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError(err, "message", "list messages")
	}
	defer cursor.Close(ctx)

	messages := []*models.ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, translateError(err, "message", "decode messages")
	}

	return messages, total, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, sessionID primitive.ObjectID, senders []models.SenderType, at time.Time) (int64, error) {
	result, err := r.messagesCollection.UpdateMany(
		ctx,
		bson.M{
			"session_id":  sessionID,
			"sender_type": bson.M{"$in": senders},
			"is_read":     false,
		},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
	)
	if err != nil {
		return 0, translateError(err, "message", "mark messages read")
	}
	return result.ModifiedCount, nil
}

// conditionalUpdate applies update to the session when condition holds.
func (r *chatRepository) conditionalUpdate(ctx context.Context, sessionID string, condition, update bson.M) (*models.ChatSession, error) {
	filter := bson.M{"session_id": sessionID}
	for k, v := range condition {
		filter[k] = v
	}

	var session models.ChatSession
	err := r.sessionsCollection.FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missOrConflict(ctx, sessionID)
		}
		return nil, translateError(err, "session", "update session")
	}
	return &session, nil
}

// missOrConflict tells apart a missing session from one whose state failed
// the write condition.
func (r *chatRepository) missOrConflict(ctx context.Context, sessionID string) error {
	count, err := r.sessionsCollection.CountDocuments(ctx, bson.M{"session_id": sessionID}, options.Count().SetLimit(1))
	if err != nil {
		return translateError(err, "session", "get session")
	}
	if count == 0 {
		return utils.NewNotFoundError("session")
	}
	return interfaces.ErrConditionFailed
}
