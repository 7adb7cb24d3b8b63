package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"afyalink/internal/config"
	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"
	"afyalink/pkg/logger"
	"afyalink/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	minRawPhoneLength = 10
	maxRawPhoneLength = 15
	maxPatientName    = 100
	maxConditionText  = 200
	smsTimeLayout     = "02/01/2006, 15:04:05"
)

type EmergencyService interface {
	// Dispatch
	SendAlert(ctx context.Context, request *models.EmergencyAlertRequest) (*models.DispatchReceipt, error)
	RequestAmbulance(ctx context.Context, request *models.AmbulanceRequest) (*models.DispatchReceipt, error)
	GetAlert(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error)

	// Directory
	Contacts() map[string]models.EmergencyContact
	Guidelines() map[string]models.EmergencyGuideline

	// Wait blocks until every in-flight dispatch has recorded its outcome.
	Wait()
}

type emergencyService struct {
	emergencyRepo interfaces.EmergencyRepository
	provider      sms.SMSProvider
	config        *config.SMSConfig
	location      *time.Location
	logger        *logger.Logger
	inflight      sync.WaitGroup
}

func NewEmergencyService(
	emergencyRepo interfaces.EmergencyRepository,
	provider sms.SMSProvider,
	config *config.SMSConfig,
	location *time.Location,
	logger *logger.Logger,
) EmergencyService {
	if location == nil {
		location = time.UTC
	}
	return &emergencyService{
		emergencyRepo: emergencyRepo,
		provider:      provider,
		config:        config,
		location:      location,
		logger:        logger,
	}
}

func (s *emergencyService) SendAlert(ctx context.Context, request *models.EmergencyAlertRequest) (*models.DispatchReceipt, error) {
	fields := map[string]string{}
	phone := s.validatePhone(request.Phone, fields)

	message := utils.TrimToNil(request.Message)
	if message != nil && utils.RuneLength(*message) > utils.MaxEmergencyMessageLength {
		fields["message"] = fmt.Sprintf("must be at most %d characters", utils.MaxEmergencyMessageLength)
	}

	emergencyType := request.EmergencyType
	if emergencyType == "" {
		emergencyType = models.EmergencyTypeMedical
	}
	switch emergencyType {
	case models.EmergencyTypeMedical, models.EmergencyTypePolice, models.EmergencyTypeFire, models.EmergencyTypeGeneral:
	default:
		fields["emergencyType"] = "must be one of medical, police, fire, general"
	}

	if request.Location != nil && !request.Location.IsValid() {
		fields["location"] = "invalid coordinates"
	}
	if len(fields) > 0 {
		return nil, utils.NewValidationError("invalid emergency alert", fields)
	}

	now := time.Now()
	alert := &models.EmergencyAlert{
		ID:       primitive.NewObjectID(),
		Phone:    phone,
		Type:     emergencyType,
		Message:  message,
		Location: request.Location,
	}
	alert.Body = s.composeAlert(alert, now)

	if err := s.queue(ctx, alert, now); err != nil {
		return nil, err
	}

	return &models.DispatchReceipt{
		AlertID:   alert.ID.Hex(),
		Phone:     phone,
		Status:    alert.Status,
		Message:   "Emergency alert queued for delivery",
		Timestamp: now,
	}, nil
}

func (s *emergencyService) RequestAmbulance(ctx context.Context, request *models.AmbulanceRequest) (*models.DispatchReceipt, error) {
	fields := map[string]string{}
	phone := s.validatePhone(request.Phone, fields)

	if request.Location == nil {
		fields["location"] = "is required"
	} else if !request.Location.IsValid() {
		fields["location"] = "invalid coordinates"
	}

	patientName := utils.TrimToNil(request.PatientName)
	if patientName != nil && utils.RuneLength(*patientName) > maxPatientName {
		fields["patientName"] = fmt.Sprintf("must be at most %d characters", maxPatientName)
	}
	condition := utils.TrimToNil(request.Condition)
	if condition != nil && utils.RuneLength(*condition) > maxConditionText {
		fields["condition"] = fmt.Sprintf("must be at most %d characters", maxConditionText)
	}

	urgency := request.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	switch urgency {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyCritical:
	default:
		fields["urgency"] = "must be one of low, medium, high, critical"
	}

	if len(fields) > 0 {
		return nil, utils.NewValidationError("invalid ambulance request", fields)
	}

	now := time.Now()
	alert := &models.EmergencyAlert{
		ID:          primitive.NewObjectID(),
		Phone:       phone,
		Type:        models.EmergencyTypeAmbulance,
		Location:    request.Location,
		Urgency:     &urgency,
		PatientName: patientName,
		Condition:   condition,
	}
	alert.Body = s.composeAmbulanceRequest(alert, now)

	if err := s.queue(ctx, alert, now); err != nil {
		return nil, err
	}

	return &models.DispatchReceipt{
		AlertID:   alert.ID.Hex(),
		Phone:     phone,
		Status:    alert.Status,
		Message:   "Ambulance request queued for delivery",
		Timestamp: now,
	}, nil
}

func (s *emergencyService) GetAlert(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error) {
	return s.emergencyRepo.GetByID(ctx, id)
}

func (s *emergencyService) Contacts() map[string]models.EmergencyContact {
	return map[string]models.EmergencyContact{
		"police":       {Name: "Police Emergency", Phone: "+254700000000", Description: "For criminal activities, accidents, and security emergencies"},
		"ambulance":    {Name: "Ambulance Services", Phone: s.ambulancePhone(), Description: "For medical emergencies requiring immediate transport"},
		"fire":         {Name: "Fire Department", Phone: "+254700000002", Description: "For fire emergencies and rescue services"},
		"redCross":     {Name: "Red Cross", Phone: "+254700000003", Description: "Emergency medical services and disaster response"},
		"stJohn":       {Name: "St. John Ambulance", Phone: "+254700000004", Description: "First aid and emergency medical services"},
		"mentalHealth": {Name: "Mental Health Crisis", Phone: "+254700000005", Description: "24/7 mental health crisis support"},
	}
}

func (s *emergencyService) Guidelines() map[string]models.EmergencyGuideline {
	return emergencyGuidelines
}

func (s *emergencyService) Wait() {
	s.inflight.Wait()
}

// queue persists the alert as queued and hands it to a detached dispatcher.
// The caller's context only bounds the insert.
func (s *emergencyService) queue(ctx context.Context, alert *models.EmergencyAlert, now time.Time) error {
	alert.Status = models.EmergencyStatusQueued
	alert.Provider = s.provider.Name()
	alert.CreatedAt = now
	alert.UpdatedAt = now

	if err := s.emergencyRepo.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to record emergency alert: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": alert.ID.Hex(),
		"type":     alert.Type,
		"phone":    utils.MaskPhone(alert.Phone),
	}).Info("Emergency alert queued")

	request := &sms.SMSRequest{
		To:      alert.Phone,
		Message: alert.Body,
		Type:    sms.TypeTransactional,
	}

	s.inflight.Add(1)
	go s.dispatch(alert.ID, request)
	return nil
}

func (s *emergencyService) dispatch(alertID primitive.ObjectID, request *sms.SMSRequest) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout())
	defer cancel()

	status := models.EmergencyStatusSent
	var providerMessageID, failureReason *string

	response, err := s.provider.SendSMS(ctx, request)
	if err != nil {
		status = models.EmergencyStatusFailed
		failureReason = utils.StringPtr(err.Error())
	} else if response != nil && response.MessageID != "" {
		providerMessageID = utils.StringPtr(response.MessageID)
	}

	s.logger.WithField("provider", s.provider.Name()).LogDispatchOutcome("sms", alertID.Hex(), err)

	// The send may have used up the deadline; the status write gets its own.
	updateCtx, updateCancel := context.WithTimeout(context.Background(), utils.NotificationTimeout)
	defer updateCancel()
	if err := s.emergencyRepo.UpdateStatus(updateCtx, alertID, status, providerMessageID, failureReason, time.Now()); err != nil {
		s.logger.WithError(err).WithField("alert_id", alertID.Hex()).Error("Failed to record emergency dispatch outcome")
	}
}

func (s *emergencyService) validatePhone(raw string, fields map[string]string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < minRawPhoneLength || len(raw) > maxRawPhoneLength {
		fields["phone"] = fmt.Sprintf("must be %d-%d characters", minRawPhoneLength, maxRawPhoneLength)
		return ""
	}
	phone := utils.NormalizePhone(raw)
	if !utils.IsValidPhone(phone) {
		fields["phone"] = "invalid phone number"
		return ""
	}
	return phone
}

func (s *emergencyService) composeAlert(alert *models.EmergencyAlert, at time.Time) string {
	var b strings.Builder
	b.WriteString("EMERGENCY ALERT\n\n")
	if alert.Message != nil {
		fmt.Fprintf(&b, "Message: %s\n\n", *alert.Message)
	}
	if alert.Location != nil {
		fmt.Fprintf(&b, "Location: %s\n\n", utils.GoogleMapsLink(alert.Location.Point()))
	}
	fmt.Fprintf(&b, "Emergency Type: %s\n", strings.ToUpper(string(alert.Type)))
	fmt.Fprintf(&b, "Time: %s\n\n", at.In(s.location).Format(smsTimeLayout))
	b.WriteString("Emergency Contacts:\n")
	b.WriteString(formatContacts(s.alertContacts(alert.Type)))
	return b.String()
}

func (s *emergencyService) composeAmbulanceRequest(alert *models.EmergencyAlert, at time.Time) string {
	var b strings.Builder
	b.WriteString("AMBULANCE REQUEST\n\n")
	if alert.PatientName != nil {
		fmt.Fprintf(&b, "Patient: %s\n", *alert.PatientName)
	}
	if alert.Condition != nil {
		fmt.Fprintf(&b, "Condition: %s\n", *alert.Condition)
	}
	fmt.Fprintf(&b, "Urgency: %s\n", strings.ToUpper(string(*alert.Urgency)))
	fmt.Fprintf(&b, "Time: %s\n\n", at.In(s.location).Format(smsTimeLayout))
	fmt.Fprintf(&b, "Location: %s\n\n", utils.GoogleMapsLink(alert.Location.Point()))
	b.WriteString("Ambulance Services:\n")
	b.WriteString(formatContacts([][2]string{
		{"Emergency", s.ambulancePhone()},
		{"Red Cross", "+254700000002"},
		{"St. John Ambulance", "+254700000003"},
	}))
	b.WriteString("\n\nPlease call the nearest service immediately!")
	return b.String()
}

func (s *emergencyService) alertContacts(emergencyType models.EmergencyType) [][2]string {
	switch emergencyType {
	case models.EmergencyTypeMedical:
		return [][2]string{{"Ambulance", s.ambulancePhone()}, {"Red Cross", "+254700000002"}, {"St. John", "+254700000003"}}
	case models.EmergencyTypePolice:
		return [][2]string{{"Police", "+254700000000"}, {"CID", "+254700000006"}, {"Traffic Police", "+254700000007"}}
	case models.EmergencyTypeFire:
		return [][2]string{{"Fire Department", "+254700000002"}, {"Emergency Services", "+254700000008"}}
	default:
		return [][2]string{{"Emergency", "+254700000000"}, {"Ambulance", "+254700000001"}, {"Fire", "+254700000002"}}
	}
}

func formatContacts(contacts [][2]string) string {
	lines := make([]string, len(contacts))
	for i, c := range contacts {
		lines[i] = fmt.Sprintf("- %s: %s", c[0], c[1])
	}
	return strings.Join(lines, "\n")
}

func (s *emergencyService) ambulancePhone() string {
	if s.config != nil && s.config.AmbulancePhone != "" {
		return s.config.AmbulancePhone
	}
	return "+254700000001"
}

func (s *emergencyService) dispatchTimeout() time.Duration {
	if s.config != nil && s.config.DispatchTimeout > 0 {
		return s.config.DispatchTimeout
	}
	return utils.SMSDispatchTimeout
}

var emergencyGuidelines = map[string]models.EmergencyGuideline{
	"medical": {
		Title: "Medical Emergency Guidelines",
		Steps: []string{
			"Stay calm and assess the situation",
			"Call emergency services immediately",
			"Provide first aid if trained",
			"Keep the patient comfortable",
			"Do not move the patient unless necessary",
			"Gather medical information if possible",
		},
	},
	"accident": {
		Title: "Accident Response Guidelines",
		Steps: []string{
			"Ensure your own safety first",
			"Call emergency services",
			"Do not move injured persons",
			"Control traffic if possible",
			"Provide first aid if trained",
			"Stay with the injured until help arrives",
		},
	},
	"fire": {
		Title: "Fire Emergency Guidelines",
		Steps: []string{
			"Evacuate immediately",
			"Call fire department",
			"Do not use elevators",
			"Stay low if there is smoke",
			"Feel doors before opening",
			"Meet at designated assembly point",
		},
	},
}
