package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SenderType string

const (
	SenderTypeUser      SenderType = "user"
	SenderTypeCounselor SenderType = "counselor"
	SenderTypeSystem    SenderType = "system"
)

func (s SenderType) IsValid() bool {
	switch s {
	case SenderTypeUser, SenderTypeCounselor, SenderTypeSystem:
		return true
	}
	return false
}

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeSystem MessageType = "system"
)

// ChatMessage is an entry in a session's append-only log. Sequence starts at
// 1 and strictly increases within a session.
type ChatMessage struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SessionID   primitive.ObjectID  `json:"-" bson:"session_id"`
	Sequence    int64               `json:"sequence" bson:"sequence"`
	SenderID    *primitive.ObjectID `json:"senderId,omitempty" bson:"sender_id,omitempty"`
	SenderType  SenderType          `json:"senderType" bson:"sender_type"`
	Message     string              `json:"message" bson:"message"`
	MessageType MessageType         `json:"messageType" bson:"message_type"`
	IsRead      bool                `json:"isRead" bson:"is_read"`
	ReadAt      *time.Time          `json:"readAt,omitempty" bson:"read_at,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"created_at"`
}

// SendMessageRequest is a message posted by a chat participant. System
// messages are never accepted from clients.
type SendMessageRequest struct {
	Message    string     `json:"message" validate:"required,max=1000"`
	SenderType SenderType `json:"senderType" validate:"required,sender_type"`
}
