package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusEnded     SessionStatus = "ended"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// IsOpen reports whether the session still accepts messages.
func (s SessionStatus) IsOpen() bool {
	return s == SessionStatusWaiting || s == SessionStatusActive
}

type SessionPriority string

const (
	PriorityLow    SessionPriority = "low"
	PriorityMedium SessionPriority = "medium"
	PriorityHigh   SessionPriority = "high"
	PriorityUrgent SessionPriority = "urgent"
)

// Rank orders priorities for the triage queue; higher is served first.
func (p SessionPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p SessionPriority) IsValid() bool {
	return p.Rank() > 0
}

// NeedsPager reports whether a new session at this priority should alert the
// on-call counselors.
func (p SessionPriority) NeedsPager() bool {
	return p == PriorityUrgent || p == PriorityHigh
}

// ChatSession is a counseling conversation. SessionID is the public handle;
// ID is never exposed to clients.
type ChatSession struct {
	ID           primitive.ObjectID  `json:"-" bson:"_id,omitempty"`
	SessionID    string              `json:"sessionId" bson:"session_id"`
	UserID       *primitive.ObjectID `json:"userId,omitempty" bson:"user_id,omitempty"`
	CounselorID  *primitive.ObjectID `json:"counselorId,omitempty" bson:"counselor_id"`
	Status       SessionStatus       `json:"status" bson:"status"`
	Priority     SessionPriority     `json:"priority" bson:"priority"`
	PriorityRank int                 `json:"-" bson:"priority_rank"`
	Topic        *string             `json:"topic,omitempty" bson:"topic,omitempty"`
	IsAnonymous  bool                `json:"isAnonymous" bson:"is_anonymous"`
	StartedAt    time.Time           `json:"startedAt" bson:"started_at"`
	EndedAt      *time.Time          `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
	UserRating   *int                `json:"userRating,omitempty" bson:"user_rating,omitempty"`
	Feedback     *string             `json:"feedback,omitempty" bson:"feedback,omitempty"`
	MessageCount int64               `json:"messageCount" bson:"message_count"`
	BotTurns     int                 `json:"botTurns" bson:"bot_turns"`
	CreatedAt    time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updated_at"`
}

type StartSessionRequest struct {
	IsAnonymous *bool               `json:"isAnonymous"`
	Priority    SessionPriority     `json:"priority" validate:"omitempty,session_priority"`
	Topic       *string             `json:"topic" validate:"omitempty,max=100"`
	UserID      *primitive.ObjectID `json:"-"`
}

type EndSessionRequest struct {
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=500"`
}
