package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/config"
	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/repositories/memory"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PageCounselors(session *models.ChatSession) {
	m.Called(session)
}

func (m *mockNotifier) Wait() {}

// collidingRepo reports duplicate keys for the first n session inserts.
type collidingRepo struct {
	interfaces.ChatRepository
	collisions int
	attempts   []string
}

func (r *collidingRepo) CreateSession(ctx context.Context, session *models.ChatSession) error {
	r.attempts = append(r.attempts, session.SessionID)
	if len(r.attempts) <= r.collisions {
		return interfaces.ErrDuplicateKey
	}
	return r.ChatRepository.CreateSession(ctx, session)
}

func testChatConfig() *config.ChatConfig {
	return &config.ChatConfig{PollInterval: 4 * time.Second, BotTurnLimit: 5, MaxMessageLength: 1000}
}

func newChatServiceForTest(t *testing.T) (ChatService, interfaces.ChatRepository, *mockNotifier) {
	t.Helper()
	repo := memory.NewChatRepository()
	notifier := new(mockNotifier)
	return NewChatService(repo, notifier, testChatConfig(), logger.NewNop()), repo, notifier
}

func startSession(t *testing.T, svc ChatService, priority models.SessionPriority) *models.ChatSession {
	t.Helper()
	session, err := svc.StartSession(context.Background(), &models.StartSessionRequest{Priority: priority})
	require.NoError(t, err)
	return session
}

func TestChatService_StartSessionDefaults(t *testing.T) {
	svc, _, notifier := newChatServiceForTest(t)

	session, err := svc.StartSession(context.Background(), &models.StartSessionRequest{
		Topic: utils.StringPtr("  exam stress  "),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(session.SessionID, utils.SessionIDPrefix))
	assert.Len(t, session.SessionID, len(utils.SessionIDPrefix)+utils.SessionIDRandomLength)
	assert.Equal(t, models.SessionStatusWaiting, session.Status)
	assert.Equal(t, models.PriorityMedium, session.Priority)
	assert.True(t, session.IsAnonymous)
	assert.Nil(t, session.UserID)
	assert.Nil(t, session.CounselorID)
	assert.Equal(t, "exam stress", *session.Topic)
	notifier.AssertNotCalled(t, "PageCounselors", mock.Anything)

	got, err := svc.GetSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, got.SessionID)
}

func TestChatService_StartSessionAuthenticatedUser(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	userID := primitive.NewObjectID()
	anonymous := false

	session, err := svc.StartSession(context.Background(), &models.StartSessionRequest{
		IsAnonymous: &anonymous,
		UserID:      &userID,
	})
	require.NoError(t, err)
	assert.False(t, session.IsAnonymous)
	require.NotNil(t, session.UserID)
	assert.Equal(t, userID, *session.UserID)

	anonSession, err := svc.StartSession(context.Background(), &models.StartSessionRequest{UserID: &userID})
	require.NoError(t, err)
	assert.True(t, anonSession.IsAnonymous)
	assert.Nil(t, anonSession.UserID)
}

func TestChatService_StartSessionValidation(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)

	_, err := svc.StartSession(context.Background(), &models.StartSessionRequest{Priority: "critical"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.StartSession(context.Background(), &models.StartSessionRequest{Topic: utils.StringPtr(strings.Repeat("a", 101))})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestChatService_StartSessionPagesForUrgent(t *testing.T) {
	svc, _, notifier := newChatServiceForTest(t)
	notifier.On("PageCounselors", mock.MatchedBy(func(s *models.ChatSession) bool {
		return s.Priority == models.PriorityUrgent
	})).Return().Once()

	startSession(t, svc, models.PriorityUrgent)
	startSession(t, svc, models.PriorityLow)

	notifier.AssertExpectations(t)
}

func TestChatService_StartSessionRegeneratesOnCollision(t *testing.T) {
	repo := &collidingRepo{ChatRepository: memory.NewChatRepository(), collisions: 2}
	svc := NewChatService(repo, nil, testChatConfig(), logger.NewNop())

	session, err := svc.StartSession(context.Background(), &models.StartSessionRequest{})
	require.NoError(t, err)

	require.Len(t, repo.attempts, 3)
	assert.NotEqual(t, repo.attempts[0], repo.attempts[1])
	assert.Equal(t, repo.attempts[2], session.SessionID)
}

func TestChatService_StartSessionGivesUpAfterMaxAttempts(t *testing.T) {
	repo := &collidingRepo{ChatRepository: memory.NewChatRepository(), collisions: utils.SessionIDMaxAttempts}
	svc := NewChatService(repo, nil, testChatConfig(), logger.NewNop())

	_, err := svc.StartSession(context.Background(), &models.StartSessionRequest{})
	require.Error(t, err)
	assert.Equal(t, utils.ErrorTypeInternal, utils.AsAppError(err).Type)
	assert.Len(t, repo.attempts, utils.SessionIDMaxAttempts)
}

func TestChatService_Lifecycle(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	ctx := context.Background()
	session := startSession(t, svc, models.PriorityMedium)

	// A counselor message does not activate the session.
	_, err := svc.RecordMessage(ctx, session.SessionID, models.SenderTypeCounselor, nil, "Hello, I'm here")
	require.NoError(t, err)
	got, err := svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusWaiting, got.Status)

	_, err = svc.RecordMessage(ctx, session.SessionID, models.SenderTypeUser, nil, "Hi")
	require.NoError(t, err)
	got, err = svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, got.Status)
	assert.Equal(t, int64(2), got.MessageCount)

	ended, err := svc.EndSession(ctx, session.SessionID, &models.EndSessionRequest{
		Rating:   intPtr(4),
		Feedback: utils.StringPtr("helpful"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusEnded, ended.Status)
	require.NotNil(t, ended.EndedAt)
	assert.Equal(t, 4, *ended.UserRating)

	again, err := svc.EndSession(ctx, session.SessionID, &models.EndSessionRequest{Rating: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 4, *again.UserRating)
	assert.True(t, ended.EndedAt.Equal(*again.EndedAt))

	_, err = svc.RecordMessage(ctx, session.SessionID, models.SenderTypeUser, nil, "still there?")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.CancelSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotCancellable)
}

func TestChatService_EndSessionValidation(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	session := startSession(t, svc, models.PriorityLow)

	_, err := svc.EndSession(context.Background(), session.SessionID, &models.EndSessionRequest{Rating: intPtr(6)})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.EndSession(context.Background(), session.SessionID, &models.EndSessionRequest{
		Feedback: utils.StringPtr(strings.Repeat("x", 501)),
	})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.EndSession(context.Background(), "sess_missing", nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_CancelSession(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	ctx := context.Background()
	session := startSession(t, svc, models.PriorityLow)

	cancelled, err := svc.CancelSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)

	again, err := svc.CancelSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, again.Status)

	_, err = svc.EndSession(ctx, session.SessionID, nil)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = svc.AssignCounselor(ctx, session.SessionID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrSessionClosed)

	active := startSession(t, svc, models.PriorityLow)
	_, err = svc.RecordMessage(ctx, active.SessionID, models.SenderTypeUser, nil, "hi")
	require.NoError(t, err)
	_, err = svc.CancelSession(ctx, active.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotCancellable)

	_, err = svc.CancelSession(ctx, "sess_missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_AssignCounselorSingleWinner(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	session := startSession(t, svc, models.PriorityMedium)

	const contenders = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AssignCounselor(context.Background(), session.SessionID, primitive.NewObjectID())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, ErrSessionAlreadyAssigned):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, contenders-1, conflicts)

	_, err := svc.AssignCounselor(context.Background(), "sess_missing", primitive.NewObjectID())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_MessageOrderingUnderConcurrency(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	ctx := context.Background()
	session := startSession(t, svc, models.PriorityMedium)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordMessage(ctx, session.SessionID, models.SenderTypeUser, nil, "message")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	messages, meta, err := svc.ListMessages(ctx, session.SessionID, utils.NewPaginationParams(1, 100))
	require.NoError(t, err)
	require.Len(t, messages, writers)
	assert.Equal(t, int64(writers), meta.TotalItems)
	for i, m := range messages {
		assert.Equal(t, int64(i+1), m.Sequence)
	}
}

func TestChatService_ListMessagesPaginatesAndIsIdempotent(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	ctx := context.Background()
	session := startSession(t, svc, models.PriorityMedium)
	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.RecordMessage(ctx, session.SessionID, models.SenderTypeUser, nil, text)
		require.NoError(t, err)
	}

	page, meta, err := svc.ListMessages(ctx, session.SessionID, utils.NewPaginationParams(2, 2))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "three", page[0].Message)
	assert.Equal(t, int64(3), meta.TotalItems)
	assert.Equal(t, 2, meta.TotalPages)

	first, _, err := svc.ListMessages(ctx, session.SessionID, utils.NewPaginationParams(1, 50))
	require.NoError(t, err)
	second, _, err := svc.ListMessages(ctx, session.SessionID, utils.NewPaginationParams(1, 50))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, _, err = svc.ListMessages(ctx, "sess_missing", utils.NewPaginationParams(1, 50))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_RecordMessageValidation(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	session := startSession(t, svc, models.PriorityMedium)

	tests := []struct {
		name   string
		sender models.SenderType
		text   string
	}{
		{"empty", models.SenderTypeUser, "   "},
		{"too long", models.SenderTypeUser, strings.Repeat("a", 1001)},
		{"bad sender", models.SenderType("bot"), "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordMessage(context.Background(), session.SessionID, tt.sender, nil, tt.text)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}

	// Length is measured in characters, not bytes.
	_, err := svc.RecordMessage(context.Background(), session.SessionID, models.SenderTypeUser, nil, strings.Repeat("é", 1000))
	assert.NoError(t, err)

	_, err = svc.RecordMessage(context.Background(), "sess_missing", models.SenderTypeUser, nil, "hello")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestChatService_MarkRead(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	ctx := context.Background()
	session := startSession(t, svc, models.PriorityMedium)
	_, err := svc.RecordMessage(ctx, session.SessionID, models.SenderTypeUser, nil, "hi")
	require.NoError(t, err)
	_, err = svc.RecordMessage(ctx, session.SessionID, models.SenderTypeCounselor, nil, "hello")
	require.NoError(t, err)

	updated, err := svc.MarkRead(ctx, session.SessionID, models.SenderTypeCounselor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	updated, err = svc.MarkRead(ctx, session.SessionID, models.SenderTypeCounselor)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	messages, _, err := svc.ListMessages(ctx, session.SessionID, utils.NewPaginationParams(1, 50))
	require.NoError(t, err)
	assert.True(t, messages[0].IsRead)
	assert.NotNil(t, messages[0].ReadAt)
	assert.False(t, messages[1].IsRead)
	assert.Equal(t, "hi", messages[0].Message)

	_, err = svc.MarkRead(ctx, session.SessionID, models.SenderTypeSystem)
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestChatService_ListWaitingOrdersByPriority(t *testing.T) {
	svc, _, notifier := newChatServiceForTest(t)
	notifier.On("PageCounselors", mock.Anything).Return()
	ctx := context.Background()

	low := startSession(t, svc, models.PriorityLow)
	urgent := startSession(t, svc, models.PriorityUrgent)
	medium := startSession(t, svc, models.PriorityMedium)
	laterUrgent := startSession(t, svc, models.PriorityUrgent)
	active := startSession(t, svc, models.PriorityHigh)
	_, err := svc.RecordMessage(ctx, active.SessionID, models.SenderTypeUser, nil, "hi")
	require.NoError(t, err)

	sessions, meta, err := svc.ListWaiting(ctx, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)

	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	assert.Equal(t, []string{urgent.SessionID, laterUrgent.SessionID, medium.SessionID, low.SessionID}, ids)
	assert.Equal(t, int64(4), meta.TotalItems)
}

func TestChatService_PollInterval(t *testing.T) {
	svc, _, _ := newChatServiceForTest(t)
	assert.Equal(t, 4*time.Second, svc.PollInterval())

	fallback := NewChatService(memory.NewChatRepository(), nil, nil, logger.NewNop())
	assert.Equal(t, utils.DefaultPollInterval, fallback.PollInterval())
}

func intPtr(i int) *int {
	return &i
}
