package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyType string
type EmergencyStatus string
type EmergencyUrgency string

const (
	EmergencyTypeMedical   EmergencyType = "medical"
	EmergencyTypePolice    EmergencyType = "police"
	EmergencyTypeFire      EmergencyType = "fire"
	EmergencyTypeGeneral   EmergencyType = "general"
	EmergencyTypeAmbulance EmergencyType = "ambulance"

	EmergencyStatusQueued EmergencyStatus = "queued"
	EmergencyStatusSent   EmergencyStatus = "sent"
	EmergencyStatusFailed EmergencyStatus = "failed"

	UrgencyLow      EmergencyUrgency = "low"
	UrgencyMedium   EmergencyUrgency = "medium"
	UrgencyHigh     EmergencyUrgency = "high"
	UrgencyCritical EmergencyUrgency = "critical"
)

// EmergencyAlert records an SMS alert and the outcome of its dispatch.
type EmergencyAlert struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Phone             string             `json:"phone" bson:"phone"`
	Type              EmergencyType      `json:"type" bson:"type"`
	Message           *string            `json:"message,omitempty" bson:"message,omitempty"`
	Location          *Coordinate        `json:"location,omitempty" bson:"location,omitempty"`
	Urgency           *EmergencyUrgency  `json:"urgency,omitempty" bson:"urgency,omitempty"`
	PatientName       *string            `json:"patientName,omitempty" bson:"patient_name,omitempty"`
	Condition         *string            `json:"condition,omitempty" bson:"condition,omitempty"`
	Body              string             `json:"-" bson:"body"`
	Status            EmergencyStatus    `json:"status" bson:"status"`
	Provider          string             `json:"-" bson:"provider,omitempty"`
	ProviderMessageID *string            `json:"-" bson:"provider_message_id,omitempty"`
	FailureReason     *string            `json:"-" bson:"failure_reason,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updated_at"`
}

// EmergencyContact is a published hotline.
type EmergencyContact struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type EmergencyGuideline struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

type EmergencyAlertRequest struct {
	Phone         string        `json:"phone" validate:"required,min=10,max=15,phone_number"`
	Message       *string       `json:"message" validate:"omitempty,max=160"`
	Location      *Coordinate   `json:"location" validate:"omitempty,coordinates"`
	EmergencyType EmergencyType `json:"emergencyType" validate:"omitempty,oneof=medical police fire general"`
}

type AmbulanceRequest struct {
	Phone       string           `json:"phone" validate:"required,min=10,max=15,phone_number"`
	Location    *Coordinate      `json:"location" validate:"required,coordinates"`
	PatientName *string          `json:"patientName" validate:"omitempty,max=100"`
	Condition   *string          `json:"condition" validate:"omitempty,max=200"`
	Urgency     EmergencyUrgency `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
}

// DispatchReceipt acknowledges a queued alert. Delivery happens afterwards.
type DispatchReceipt struct {
	AlertID   string          `json:"alertId"`
	Phone     string          `json:"phone"`
	Status    EmergencyStatus `json:"status"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}
