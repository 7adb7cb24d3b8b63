package push

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afyalink/pkg/logger"
)

func TestBuildMessage_Topic(t *testing.T) {
	message, err := buildMessage(&NotificationRequest{
		Topic:       "counselors-on-call",
		Title:       "Urgent session waiting",
		Body:        "A user is waiting",
		Data:        map[string]string{"sessionId": "sess_abc"},
		Priority:    PriorityHigh,
		TTL:         5 * time.Minute,
		CollapseKey: "sess_abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "counselors-on-call", message.Topic)
	assert.Empty(t, message.Token)
	assert.Equal(t, "Urgent session waiting", message.Notification.Title)
	assert.Equal(t, "high", message.Android.Priority)
	assert.Equal(t, 5*time.Minute, *message.Android.TTL)
	assert.Equal(t, "sess_abc", message.Data["sessionId"])
}

func TestBuildMessage_TokenWinsOverTopic(t *testing.T) {
	message, err := buildMessage(&NotificationRequest{Token: "device", Topic: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "device", message.Token)
	assert.Empty(t, message.Topic)
	assert.Nil(t, message.Notification)
	assert.Equal(t, "normal", message.Android.Priority)
	assert.Nil(t, message.Android.TTL)
}

func TestBuildMessage_RequiresTarget(t *testing.T) {
	_, err := buildMessage(&NotificationRequest{Title: "x"})
	assert.Error(t, err)
}

func TestLogProvider(t *testing.T) {
	resp, err := NewLogProvider(logger.NewNop()).SendNotification(context.Background(), &NotificationRequest{Topic: "t"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
