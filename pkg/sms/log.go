package sms

import (
	"context"
	"fmt"
	"sync/atomic"

	"afyalink/pkg/logger"
)

// LogProvider writes messages to the log instead of sending them. It is used
// when no SMS gateway is configured.
type LogProvider struct {
	logger  *logger.Logger
	counter atomic.Int64
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (l *LogProvider) Name() string {
	return "log"
}

func (l *LogProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("log-%d", l.counter.Add(1))
	l.logger.WithFields(map[string]interface{}{
		"to":         request.To,
		"message_id": id,
		"length":     len(request.Message),
	}).Warn("SMS provider not configured; message logged only")

	return &SMSResponse{MessageID: id, Status: "logged"}, nil
}
