package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"afyalink/internal/models"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
	"afyalink/pkg/push"
)

// NotificationService alerts on-call counselors about sessions that need
// quick attention. Delivery is fire-and-forget.
type NotificationService interface {
	PageCounselors(session *models.ChatSession)
	// Wait blocks until every in-flight notification has finished.
	Wait()
}

type notificationService struct {
	provider push.PushProvider
	topic    string
	timeout  time.Duration
	logger   *logger.Logger
	inflight sync.WaitGroup
}

func NewNotificationService(provider push.PushProvider, topic string, logger *logger.Logger) NotificationService {
	if topic == "" {
		topic = utils.CounselorPagerTopic
	}
	return &notificationService{
		provider: provider,
		topic:    topic,
		timeout:  utils.NotificationTimeout,
		logger:   logger,
	}
}

func (s *notificationService) PageCounselors(session *models.ChatSession) {
	request := &push.NotificationRequest{
		Topic:    s.topic,
		Title:    fmt.Sprintf("New %s priority chat", session.Priority),
		Body:     "A user is waiting for a counselor.",
		Priority: push.PriorityHigh,
		TTL:      15 * time.Minute,
		Data: map[string]string{
			"sessionId": session.SessionID,
			"priority":  string(session.Priority),
		},
		CollapseKey: session.SessionID,
	}
	if session.Topic != nil {
		request.Body = fmt.Sprintf("A user is waiting for a counselor: %s", *session.Topic)
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		response, err := s.provider.SendNotification(ctx, request)
		reference := session.SessionID
		if err == nil && response != nil && response.MessageID != "" {
			reference = response.MessageID
		}
		s.logger.WithSessionID(session.SessionID).
			WithField("provider", s.provider.Name()).
			LogDispatchOutcome("push", reference, err)
	}()
}

func (s *notificationService) Wait() {
	s.inflight.Wait()
}
