package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// chatRepository keeps sessions and logs in process memory. One mutex guards
// both so every conditional write is atomic, matching the MongoDB
// implementation's transaction and conditional-update guarantees.
type chatRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
	messages map[primitive.ObjectID][]*models.ChatMessage
}

func NewChatRepository() interfaces.ChatRepository {
	return &chatRepository{
		sessions: make(map[string]*models.ChatSession),
		messages: make(map[primitive.ObjectID][]*models.ChatMessage),
	}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.SessionID]; exists {
		return interfaces.ErrDuplicateKey
	}

	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	session.PriorityRank = session.Priority.Rank()
	r.sessions[session.SessionID] = cloneSession(session)
	return nil
}

func (r *chatRepository) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.NewNotFoundError("session")
	}
	return cloneSession(session), nil
}

func (r *chatRepository) AssignCounselor(ctx context.Context, sessionID string, counselorID primitive.ObjectID, at time.Time) (*models.ChatSession, error) {
	return r.mutateSession(ctx, sessionID, func(s *models.ChatSession) bool {
		if s.CounselorID != nil || !s.Status.IsOpen() {
			return false
		}
		id := counselorID
		s.CounselorID = &id
		s.UpdatedAt = at
		return true
	})
}

func (r *chatRepository) AppendMessage(ctx context.Context, sessionID string, message *models.ChatMessage) (*models.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.NewNotFoundError("session")
	}
	if !session.Status.IsOpen() {
		return nil, interfaces.ErrConditionFailed
	}

	session.MessageCount++
	if message.SenderType == models.SenderTypeUser && session.Status == models.SessionStatusWaiting {
		session.Status = models.SessionStatusActive
	}
	session.UpdatedAt = message.CreatedAt

	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	message.SessionID = session.ID
	message.Sequence = session.MessageCount

	stored := *message
	r.messages[session.ID] = append(r.messages[session.ID], &stored)

	result := stored
	return &result, nil
}

func (r *chatRepository) EndSession(ctx context.Context, sessionID string, rating *int, feedback *string, at time.Time) (*models.ChatSession, error) {
	return r.mutateSession(ctx, sessionID, func(s *models.ChatSession) bool {
		if !s.Status.IsOpen() {
			return false
		}
		endedAt := at
		s.Status = models.SessionStatusEnded
		s.EndedAt = &endedAt
		s.UserRating = rating
		s.Feedback = feedback
		s.UpdatedAt = at
		return true
	})
}

func (r *chatRepository) CancelSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error) {
	return r.mutateSession(ctx, sessionID, func(s *models.ChatSession) bool {
		if s.Status != models.SessionStatusWaiting {
			return false
		}
		endedAt := at
		s.Status = models.SessionStatusCancelled
		s.EndedAt = &endedAt
		s.UpdatedAt = at
		return true
	})
}

func (r *chatRepository) ConsumeBotTurn(ctx context.Context, sessionID string, limit int) (int, error) {
	session, err := r.mutateSession(ctx, sessionID, func(s *models.ChatSession) bool {
		if !s.Status.IsOpen() || s.BotTurns >= limit {
			return false
		}
		s.BotTurns++
		return true
	})
	if err != nil {
		return 0, err
	}
	return session.BotTurns, nil
}

func (r *chatRepository) ListWaiting(ctx context.Context, params *utils.PaginationParams) ([]*models.ChatSession, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	waiting := make([]*models.ChatSession, 0)
	for _, session := range r.sessions {
		if session.Status == models.SessionStatusWaiting {
			waiting = append(waiting, cloneSession(session))
		}
	}
	r.mu.RUnlock()

	sort.Slice(waiting, func(i, j int) bool {
		a, b := waiting[i], waiting[j]
		if a.PriorityRank != b.PriorityRank {
			return a.PriorityRank > b.PriorityRank
		}
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})

	total := int64(len(waiting))
	return pageOf(waiting, params), total, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// The slice is kept in append order, which is sequence order.
	log := r.messages[sessionID]
	copies := make([]*models.ChatMessage, len(log))
	for i, m := range log {
		c := *m
		copies[i] = &c
	}

	return pageOf(copies, params), int64(len(copies)), nil
}

func (r *chatRepository) MarkRead(ctx context.Context, sessionID primitive.ObjectID, senders []models.SenderType, at time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, m := range r.messages[sessionID] {
		if m.IsRead || !containsSender(senders, m.SenderType) {
			continue
		}
		readAt := at
		m.IsRead = true
		m.ReadAt = &readAt
		updated++
	}
	return updated, nil
}

// mutateSession applies fn under the write lock. fn reports whether its
// precondition held; if not, nothing is written.
func (r *chatRepository) mutateSession(ctx context.Context, sessionID string, fn func(*models.ChatSession) bool) (*models.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.NewNotFoundError("session")
	}

	working := cloneSession(session)
	if !fn(working) {
		return nil, interfaces.ErrConditionFailed
	}
	r.sessions[sessionID] = working
	return cloneSession(working), nil
}

func containsSender(senders []models.SenderType, sender models.SenderType) bool {
	for _, s := range senders {
		if s == sender {
			return true
		}
	}
	return false
}

func cloneSession(s *models.ChatSession) *models.ChatSession {
	c := *s
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	if s.CounselorID != nil {
		id := *s.CounselorID
		c.CounselorID = &id
	}
	if s.Topic != nil {
		topic := *s.Topic
		c.Topic = &topic
	}
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		c.EndedAt = &endedAt
	}
	if s.UserRating != nil {
		rating := *s.UserRating
		c.UserRating = &rating
	}
	if s.Feedback != nil {
		feedback := *s.Feedback
		c.Feedback = &feedback
	}
	return &c
}

func pageOf[T any](items []T, params *utils.PaginationParams) []T {
	if params == nil {
		return items
	}
	start := params.GetSkip()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.GetLimit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
