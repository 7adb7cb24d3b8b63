package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMProvider struct {
	client *messaging.Client
}

func NewFCMProvider(ctx context.Context, projectID, credentialsFile string) (*FCMProvider, error) {
	var config *firebase.Config
	if projectID != "" {
		config = &firebase.Config{ProjectID: projectID}
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMProvider{
		client: client,
	}, nil
}

func (f *FCMProvider) Name() string {
	return "fcm"
}

func (f *FCMProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	message, err := buildMessage(request)
	if err != nil {
		return nil, err
	}

	response, err := f.client.Send(ctx, message)
	if err != nil {
		return &NotificationResponse{
			Success: false,
			Error:   err.Error(),
		}, err
	}

	return &NotificationResponse{
		MessageID: response,
		Success:   true,
	}, nil
}

func buildMessage(request *NotificationRequest) (*messaging.Message, error) {
	message := &messaging.Message{
		Data: request.Data,
	}

	switch {
	case request.Token != "":
		message.Token = request.Token
	case request.Topic != "":
		message.Topic = request.Topic
	default:
		return nil, errors.New("push: notification needs a token or topic")
	}

	if request.Title != "" || request.Body != "" {
		message.Notification = &messaging.Notification{
			Title: request.Title,
			Body:  request.Body,
		}
	}

	android := &messaging.AndroidConfig{
		Priority:    PriorityNormal,
		CollapseKey: request.CollapseKey,
	}
	if request.Priority == PriorityHigh {
		android.Priority = PriorityHigh
	}
	if request.TTL > 0 {
		ttl := request.TTL
		android.TTL = &ttl
	}
	message.Android = android

	return message, nil
}
