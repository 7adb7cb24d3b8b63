package push

import (
	"context"

	"afyalink/pkg/logger"
)

// LogProvider records notifications in the log. Used when FCM is disabled.
type LogProvider struct {
	logger *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (l *LogProvider) Name() string {
	return "log"
}

func (l *LogProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.WithFields(map[string]interface{}{
		"topic": request.Topic,
		"title": request.Title,
	}).Info("Push provider disabled; notification logged only")

	return &NotificationResponse{Success: true}, nil
}
