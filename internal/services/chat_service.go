package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"afyalink/internal/config"
	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSessionClosed          = utils.NewConflictError("chat session is closed")
	ErrSessionAlreadyAssigned = utils.NewConflictError("session already assigned to a counselor")
	ErrSessionNotCancellable  = utils.NewConflictError("only waiting sessions can be cancelled")
)

type ChatService interface {
	// Session lifecycle
	StartSession(ctx context.Context, request *models.StartSessionRequest) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AssignCounselor(ctx context.Context, sessionID string, counselorID primitive.ObjectID) (*models.ChatSession, error)
	EndSession(ctx context.Context, sessionID string, request *models.EndSessionRequest) (*models.ChatSession, error)
	CancelSession(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// Triage queue
	ListWaiting(ctx context.Context, params *utils.PaginationParams) ([]*models.ChatSession, *utils.PaginationMeta, error)

	// Message log
	RecordMessage(ctx context.Context, sessionID string, senderType models.SenderType, senderID *primitive.ObjectID, text string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, sessionID string, params *utils.PaginationParams) ([]*models.ChatMessage, *utils.PaginationMeta, error)
	MarkRead(ctx context.Context, sessionID string, reader models.SenderType) (int64, error)

	// PollInterval is the advised delay between client polls.
	PollInterval() time.Duration
}

type chatService struct {
	chatRepo interfaces.ChatRepository
	notifier NotificationService
	config   *config.ChatConfig
	logger   *logger.Logger
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	notifier NotificationService,
	config *config.ChatConfig,
	logger *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
}

func (s *chatService) StartSession(ctx context.Context, request *models.StartSessionRequest) (*models.ChatSession, error) {
	priority := request.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, utils.NewValidationError("invalid session", map[string]string{"priority": "must be one of low, medium, high, urgent"})
	}

	topic := utils.TrimToNil(request.Topic)
	if topic != nil && utils.RuneLength(*topic) > utils.MaxTopicLength {
		return nil, utils.NewValidationError("invalid session", map[string]string{"topic": fmt.Sprintf("must be at most %d characters", utils.MaxTopicLength)})
	}

	isAnonymous := request.IsAnonymous == nil || *request.IsAnonymous || request.UserID == nil
	var userID *primitive.ObjectID
	if !isAnonymous {
		id := *request.UserID
		userID = &id
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Status:       models.SessionStatusWaiting,
		Priority:     priority,
		PriorityRank: priority.Rank(),
		Topic:        topic,
		IsAnonymous:  isAnonymous,
		StartedAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.createWithUniqueID(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithSessionID(session.SessionID).
		WithField("priority", session.Priority).
		WithField("anonymous", session.IsAnonymous).
		Info("Chat session started")

	if priority.NeedsPager() && s.notifier != nil {
		s.notifier.PageCounselors(session)
	}

	return session, nil
}

// createWithUniqueID inserts session under a fresh public id, drawing a new
// one whenever the unique index reports a collision.
func (s *chatService) createWithUniqueID(ctx context.Context, session *models.ChatSession) error {
	for attempt := 1; attempt <= utils.SessionIDMaxAttempts; attempt++ {
		sessionID, err := utils.GenerateSessionID()
		if err != nil {
			return utils.NewInternalError("failed to generate session id", err)
		}
		session.SessionID = sessionID

		err = s.chatRepo.CreateSession(ctx, session)
		if err == nil {
			return nil
		}
		if !errors.Is(err, interfaces.ErrDuplicateKey) {
			return fmt.Errorf("failed to create chat session: %w", err)
		}

		s.logger.WithField("attempt", attempt).Warn("Session id collision, regenerating")
	}

	return utils.NewInternalError("failed to allocate a unique session id", interfaces.ErrDuplicateKey)
}

func (s *chatService) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return s.chatRepo.GetSession(ctx, sessionID)
}

func (s *chatService) AssignCounselor(ctx context.Context, sessionID string, counselorID primitive.ObjectID) (*models.ChatSession, error) {
	session, err := s.chatRepo.AssignCounselor(ctx, sessionID, counselorID, time.Now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		current, getErr := s.chatRepo.GetSession(ctx, sessionID)
		if getErr != nil {
			return nil, getErr
		}
		if !current.Status.IsOpen() {
			return nil, ErrSessionClosed
		}
		return nil, ErrSessionAlreadyAssigned
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithSessionID(sessionID).WithField("counselor_id", counselorID.Hex()).Info("Counselor assigned")
	return session, nil
}

func (s *chatService) EndSession(ctx context.Context, sessionID string, request *models.EndSessionRequest) (*models.ChatSession, error) {
	if request == nil {
		request = &models.EndSessionRequest{}
	}

	fields := map[string]string{}
	if request.Rating != nil && (*request.Rating < 1 || *request.Rating > 5) {
		fields["rating"] = "must be between 1 and 5"
	}
	feedback := utils.TrimToNil(request.Feedback)
	if feedback != nil && utils.RuneLength(*feedback) > utils.MaxFeedbackLength {
		fields["feedback"] = fmt.Sprintf("must be at most %d characters", utils.MaxFeedbackLength)
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError("invalid session feedback", fields)
	}

	session, err := s.chatRepo.EndSession(ctx, sessionID, request.Rating, feedback, time.Now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		current, getErr := s.chatRepo.GetSession(ctx, sessionID)
		if getErr != nil {
			return nil, getErr
		}
		// Ending twice keeps the first outcome.
		if current.Status == models.SessionStatusEnded {
			return current, nil
		}
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithSessionID(sessionID).Info("Chat session ended")
	return session, nil
}

func (s *chatService) CancelSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session, err := s.chatRepo.CancelSession(ctx, sessionID, time.Now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		current, getErr := s.chatRepo.GetSession(ctx, sessionID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == models.SessionStatusCancelled {
			return current, nil
		}
		return nil, ErrSessionNotCancellable
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithSessionID(sessionID).Info("Chat session cancelled")
	return session, nil
}

func (s *chatService) ListWaiting(ctx context.Context, params *utils.PaginationParams) ([]*models.ChatSession, *utils.PaginationMeta, error) {
	sessions, total, err := s.chatRepo.ListWaiting(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	return sessions, utils.CreatePaginationMeta(params, total), nil
}

func (s *chatService) RecordMessage(ctx context.Context, sessionID string, senderType models.SenderType, senderID *primitive.ObjectID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	fields := map[string]string{}
	if text == "" {
		fields["message"] = "is required"
	} else if utils.RuneLength(text) > s.maxMessageLength() {
		fields["message"] = fmt.Sprintf("must be at most %d characters", s.maxMessageLength())
	}
	if !senderType.IsValid() {
		fields["senderType"] = "unknown sender type"
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError("invalid message", fields)
	}

	messageType := models.MessageTypeText
	if senderType == models.SenderTypeSystem {
		messageType = models.MessageTypeSystem
	}

	message := &models.ChatMessage{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		SenderType:  senderType,
		Message:     text,
		MessageType: messageType,
		CreatedAt:   time.Now(),
	}

	stored, err := s.chatRepo.AppendMessage(ctx, sessionID, message)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *chatService) ListMessages(ctx context.Context, sessionID string, params *utils.PaginationParams) ([]*models.ChatMessage, *utils.PaginationMeta, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	messages, total, err := s.chatRepo.ListMessages(ctx, session.ID, params)
	if err != nil {
		return nil, nil, err
	}
	return messages, utils.CreatePaginationMeta(params, total), nil
}

// MarkRead marks everything the other parties sent as read by reader.
func (s *chatService) MarkRead(ctx context.Context, sessionID string, reader models.SenderType) (int64, error) {
	var senders []models.SenderType
	switch reader {
	case models.SenderTypeUser:
		senders = []models.SenderType{models.SenderTypeCounselor, models.SenderTypeSystem}
	case models.SenderTypeCounselor:
		senders = []models.SenderType{models.SenderTypeUser}
	default:
		return 0, utils.NewValidationError("invalid reader", map[string]string{"reader": "must be user or counselor"})
	}

	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return s.chatRepo.MarkRead(ctx, session.ID, senders, time.Now())
}

func (s *chatService) PollInterval() time.Duration {
	if s.config != nil && s.config.PollInterval > 0 {
		return s.config.PollInterval
	}
	return utils.DefaultPollInterval
}

func (s *chatService) maxMessageLength() int {
	if s.config != nil && s.config.MaxMessageLength > 0 {
		return s.config.MaxMessageLength
	}
	return utils.MaxMessageLength
}
