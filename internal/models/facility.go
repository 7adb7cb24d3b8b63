package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FacilityType string

const (
	FacilityTypeClinic       FacilityType = "clinic"
	FacilityTypePharmacy     FacilityType = "pharmacy"
	FacilityTypeHospital     FacilityType = "hospital"
	FacilityTypeEmergency    FacilityType = "emergency"
	FacilityTypeMentalHealth FacilityType = "mental_health"
	FacilityTypeSpecialist   FacilityType = "specialist"
)

var FacilityTypes = []FacilityType{
	FacilityTypeClinic,
	FacilityTypePharmacy,
	FacilityTypeHospital,
	FacilityTypeEmergency,
	FacilityTypeMentalHealth,
	FacilityTypeSpecialist,
}

func (t FacilityType) IsValid() bool {
	for _, ft := range FacilityTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HealthService is a facility in the directory. Location is nil for
// facilities whose coordinates are unknown.
type HealthService struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type           FacilityType       `json:"type" bson:"type"`
	Name           string             `json:"name" bson:"name"`
	Description    *string            `json:"description,omitempty" bson:"description,omitempty"`
	Address        string             `json:"address" bson:"address"`
	Location       *Coordinate        `json:"location,omitempty" bson:"location,omitempty"`
	Phone          *string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Email          *string            `json:"email,omitempty" bson:"email,omitempty"`
	Website        *string            `json:"website,omitempty" bson:"website,omitempty"`
	Services       []string           `json:"services" bson:"services"`
	OperatingHours map[string]string  `json:"operatingHours,omitempty" bson:"operating_hours,omitempty"`
	IsEmergency    bool               `json:"isEmergency" bson:"is_emergency"`
	Is24Hours      bool               `json:"is24Hours" bson:"is_24_hours"`
	Rating         float64            `json:"rating" bson:"rating"`
	ReviewCount    int                `json:"reviewCount" bson:"review_count"`
	IsVerified     bool               `json:"isVerified" bson:"is_verified"`
	IsActive       bool               `json:"isActive" bson:"is_active"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RankedFacility is a search hit. DistanceKm is nil when the query had no
// origin or the facility is unlocated.
type RankedFacility struct {
	HealthService
	DistanceKm *float64 `json:"distanceKm"`
}

// FacilityQuery is a validated search request.
type FacilityQuery struct {
	Origin        *Coordinate
	RadiusKm      float64
	Type          *FacilityType
	SearchText    string
	EmergencyOnly bool
	Open24h       bool
	Page          int
	Limit         int
}

// FacilityFilter is the store-side prefilter derived from a FacilityQuery.
type FacilityFilter struct {
	Type          *FacilityType
	SearchText    string
	EmergencyOnly bool
	Open24h       bool
	Origin        *Coordinate
	RadiusKm      float64
}

func (q FacilityQuery) Filter() FacilityFilter {
	return FacilityFilter{
		Type:          q.Type,
		SearchText:    q.SearchText,
		EmergencyOnly: q.EmergencyOnly,
		Open24h:       q.Open24h,
		Origin:        q.Origin,
		RadiusKm:      q.RadiusKm,
	}
}

// AppliedFilters echoes the effective search filters back to the client.
type AppliedFilters struct {
	Lat       *float64      `json:"lat,omitempty"`
	Lng       *float64      `json:"lng,omitempty"`
	Radius    float64       `json:"radius"`
	Type      *FacilityType `json:"type,omitempty"`
	Search    string        `json:"search,omitempty"`
	Emergency bool          `json:"emergency"`
	Is24Hours bool          `json:"is24Hours"`
}

func (q FacilityQuery) Applied() AppliedFilters {
	applied := AppliedFilters{
		Radius:    q.RadiusKm,
		Type:      q.Type,
		Search:    q.SearchText,
		Emergency: q.EmergencyOnly,
		Is24Hours: q.Open24h,
	}
	if q.Origin != nil {
		lat, lng := q.Origin.Latitude, q.Origin.Longitude
		applied.Lat = &lat
		applied.Lng = &lng
	}
	return applied
}

// FacilityUpdate carries a partial admin update. Nil fields are left unchanged.
type FacilityUpdate struct {
	Type           *FacilityType
	Name           *string
	Description    *string
	Address        *string
	Location       *Coordinate
	Phone          *string
	Email          *string
	Website        *string
	Services       []string
	OperatingHours map[string]string
	IsEmergency    *bool
	Is24Hours      *bool
	IsVerified     *bool
}

// Apply copies the set fields onto s.
func (u FacilityUpdate) Apply(s *HealthService) {
	if u.Type != nil {
		s.Type = *u.Type
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = u.Description
	}
	if u.Address != nil {
		s.Address = *u.Address
	}
	if u.Location != nil {
		loc := *u.Location
		s.Location = &loc
	}
	if u.Phone != nil {
		s.Phone = u.Phone
	}
	if u.Email != nil {
		s.Email = u.Email
	}
	if u.Website != nil {
		s.Website = u.Website
	}
	if u.Services != nil {
		s.Services = append([]string(nil), u.Services...)
	}
	if u.OperatingHours != nil {
		s.OperatingHours = u.OperatingHours
	}
	if u.IsEmergency != nil {
		s.IsEmergency = *u.IsEmergency
	}
	if u.Is24Hours != nil {
		s.Is24Hours = *u.Is24Hours
	}
	if u.IsVerified != nil {
		s.IsVerified = *u.IsVerified
	}
}
