package interfaces

import (
	"context"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRepository persists sessions and their message logs. Every method that
// changes session state is a single conditional write; when the condition
// fails it returns ErrConditionFailed (or a not-found AppError when the
// session does not exist at all).
type ChatRepository interface {
	// CreateSession returns ErrDuplicateKey when the public session id is
	// already taken.
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// AssignCounselor sets the counselor when none is assigned and the
	// session is open.
	AssignCounselor(ctx context.Context, sessionID string, counselorID primitive.ObjectID, at time.Time) (*models.ChatSession, error)

	// AppendMessage atomically bumps the session's message counter, moves a
	// waiting session to active when the sender is the user, and inserts
	// message with the new sequence. The session must be open.
	AppendMessage(ctx context.Context, sessionID string, message *models.ChatMessage) (*models.ChatMessage, error)

	// EndSession moves an open session to ended.
	EndSession(ctx context.Context, sessionID string, rating *int, feedback *string, at time.Time) (*models.ChatSession, error)

	// CancelSession moves a waiting session to cancelled.
	CancelSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error)

	// ConsumeBotTurn increments the session's bot turn counter when it is
	// below limit and the session is open, returning the new count.
	ConsumeBotTurn(ctx context.Context, sessionID string, limit int) (int, error)

	// ListWaiting returns waiting sessions by priority rank desc, started_at
	// asc, id asc.
	ListWaiting(ctx context.Context, params *utils.PaginationParams) ([]*models.ChatSession, int64, error)

	// ListMessages returns a page of the log ordered by sequence.
	ListMessages(ctx context.Context, sessionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error)

	// MarkRead flags unread messages from any of senders as read.
	MarkRead(ctx context.Context, sessionID primitive.ObjectID, senders []models.SenderType, at time.Time) (int64, error)
}
