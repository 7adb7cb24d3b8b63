package utils

import "time"

// Application Constants
const (
	AppName    = "AfyaLink"
	AppVersion = "1.0.0"

	DefaultCountryCode = "+254"
	DefaultTimeZone    = "Africa/Nairobi"

	EarthRadiusKM = 6371.0

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Facility search
	DefaultSearchRadius    = 10.0 // kilometers
	MinSearchRadius        = 1.0
	MaxSearchRadius        = 50.0
	DefaultFacilityLimit   = 50
	FacilitySearchCacheTTL = 2 * time.Minute

	// Chat
	MinMessageLength      = 1
	MaxMessageLength      = 1000
	MaxTopicLength        = 100
	MaxFeedbackLength     = 500
	DefaultMessagePage    = 50
	DefaultPollInterval   = 4 * time.Second
	SessionIDPrefix       = "sess_"
	SessionIDRandomLength = 32
	SessionIDMaxAttempts  = 5
	DefaultBotTurnLimit   = 5

	// Emergency
	MaxEmergencyMessageLength = 160
	SMSDispatchTimeout        = 30 * time.Second

	// Notification
	NotificationTimeout = 10 * time.Second
	CounselorPagerTopic = "counselors-on-call"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInternalServer     = "internal server error"
	ErrServiceUnavailable = "service temporarily unavailable"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
)

// Cache Keys
const (
	CacheFacilitySearchPrefix = "facility_search:"
	CacheFacilityGeneration   = "facility_search:generation"
)
