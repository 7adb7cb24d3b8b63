package services

import (
	"context"
	"errors"

	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/pkg/logger"
)

var botResponses = []string{
	"I'm here for you. Can you tell me a bit more about what's been on your mind?",
	"It's okay to feel overwhelmed sometimes. What usually helps you calm down?",
	"Remember, you're not alone. Many people feel like this and find ways to get better.",
	"That sounds tough. Have you had a chance to talk to someone about it before?",
	"Taking care of your mental health is important. What do you usually do to relax?",
}

const botHandOffReply = "You've reached the chat limit for now. Our mental health team will reach out to assist you soon."

type BotReply struct {
	Reply          string `json:"reply"`
	RemainingTurns int    `json:"remainingTurns"`
	LimitReached   bool   `json:"limitReached"`
}

// ChatbotService answers users with scripted supportive replies until the
// session's bot turn budget is spent.
type ChatbotService interface {
	Reply(ctx context.Context, sessionID, text string) (*BotReply, error)
}

type chatbotService struct {
	chatService ChatService
	chatRepo    interfaces.ChatRepository
	turnLimit   int
	logger      *logger.Logger
}

func NewChatbotService(chatService ChatService, chatRepo interfaces.ChatRepository, turnLimit int, logger *logger.Logger) ChatbotService {
	if turnLimit < 0 {
		turnLimit = 0
	}
	return &chatbotService{
		chatService: chatService,
		chatRepo:    chatRepo,
		turnLimit:   turnLimit,
		logger:      logger,
	}
}

func (s *chatbotService) Reply(ctx context.Context, sessionID, text string) (*BotReply, error) {
	if _, err := s.chatService.RecordMessage(ctx, sessionID, models.SenderTypeUser, nil, text); err != nil {
		return nil, err
	}

	reply := &BotReply{}
	turns, err := s.chatRepo.ConsumeBotTurn(ctx, sessionID, s.turnLimit)
	switch {
	case errors.Is(err, interfaces.ErrConditionFailed):
		session, getErr := s.chatRepo.GetSession(ctx, sessionID)
		if getErr != nil {
			return nil, getErr
		}
		if !session.Status.IsOpen() {
			return nil, ErrSessionClosed
		}
		reply.Reply = botHandOffReply
		reply.LimitReached = true
		s.logger.WithSessionID(sessionID).Info("Bot turn limit reached, handing off to counselors")
	case err != nil:
		return nil, err
	default:
		reply.Reply = botResponses[(turns-1)%len(botResponses)]
		reply.RemainingTurns = s.turnLimit - turns
	}

	if _, err := s.chatService.RecordMessage(ctx, sessionID, models.SenderTypeSystem, nil, reply.Reply); err != nil {
		return nil, err
	}
	return reply, nil
}
