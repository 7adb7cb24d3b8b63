package validators

import (
	"strings"

	"afyalink/internal/models"
	"afyalink/internal/utils"
)

type FacilityCreateRequest struct {
	Type           string             `json:"type" validate:"required,facility_type"`
	Name           string             `json:"name" validate:"required,min=2,max=200"`
	Description    *string            `json:"description" validate:"omitempty,max=1000"`
	Address        string             `json:"address" validate:"required,max=300"`
	Location       *models.Coordinate `json:"location" validate:"omitempty,coordinates"`
	Phone          *string            `json:"phone" validate:"omitempty,phone_number"`
	Email          *string            `json:"email" validate:"omitempty,email"`
	Website        *string            `json:"website" validate:"omitempty,url"`
	Services       []string           `json:"services" validate:"omitempty,max=50,dive,min=1,max=100"`
	OperatingHours map[string]string  `json:"operatingHours" validate:"omitempty,max=7"`
	IsEmergency    bool               `json:"isEmergency"`
	Is24Hours      bool               `json:"is24Hours"`
	Rating         float64            `json:"rating" validate:"min=0,max=5"`
	ReviewCount    int                `json:"reviewCount" validate:"min=0"`
	IsVerified     bool               `json:"isVerified"`
}

type FacilityUpdateRequest struct {
	Type           *string            `json:"type" validate:"omitempty,facility_type"`
	Name           *string            `json:"name" validate:"omitempty,min=2,max=200"`
	Description    *string            `json:"description" validate:"omitempty,max=1000"`
	Address        *string            `json:"address" validate:"omitempty,min=1,max=300"`
	Location       *models.Coordinate `json:"location" validate:"omitempty,coordinates"`
	Phone          *string            `json:"phone" validate:"omitempty,phone_number"`
	Email          *string            `json:"email" validate:"omitempty,email"`
	Website        *string            `json:"website" validate:"omitempty,url"`
	Services       []string           `json:"services" validate:"omitempty,max=50,dive,min=1,max=100"`
	OperatingHours map[string]string  `json:"operatingHours" validate:"omitempty,max=7"`
	IsEmergency    *bool              `json:"isEmergency"`
	Is24Hours      *bool              `json:"is24Hours"`
	IsVerified     *bool              `json:"isVerified"`
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func ValidateFacilityCreate(req *FacilityCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)
	errors = append(errors, validateOperatingHours(req.OperatingHours)...)
	return errors
}

func ValidateFacilityUpdate(req *FacilityUpdateRequest) ValidationErrors {
	errors := ValidateStruct(req)
	errors = append(errors, validateOperatingHours(req.OperatingHours)...)
	return errors
}

func validateOperatingHours(hours map[string]string) ValidationErrors {
	var errors ValidationErrors
	for day := range hours {
		if !weekdays[strings.ToLower(day)] {
			errors = append(errors, ValidationError{
				Field:   "operatingHours." + day,
				Tag:     "weekday",
				Value:   day,
				Message: "must be a day of the week",
			})
		}
	}
	return errors
}

// ToModel builds the record to insert. Phone numbers are stored normalized.
func (r *FacilityCreateRequest) ToModel() *models.HealthService {
	return &models.HealthService{
		Type:           models.FacilityType(r.Type),
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Address:        strings.TrimSpace(r.Address),
		Location:       r.Location,
		Phone:          normalizedPhone(r.Phone),
		Email:          r.Email,
		Website:        r.Website,
		Services:       r.Services,
		OperatingHours: r.OperatingHours,
		IsEmergency:    r.IsEmergency,
		Is24Hours:      r.Is24Hours,
		Rating:         r.Rating,
		ReviewCount:    r.ReviewCount,
		IsVerified:     r.IsVerified,
	}
}

func (r *FacilityUpdateRequest) ToUpdate() models.FacilityUpdate {
	update := models.FacilityUpdate{
		Name:           r.Name,
		Description:    r.Description,
		Address:        r.Address,
		Location:       r.Location,
		Phone:          normalizedPhone(r.Phone),
		Email:          r.Email,
		Website:        r.Website,
		Services:       r.Services,
		OperatingHours: r.OperatingHours,
		IsEmergency:    r.IsEmergency,
		Is24Hours:      r.Is24Hours,
		IsVerified:     r.IsVerified,
	}
	if r.Type != nil {
		t := models.FacilityType(*r.Type)
		update.Type = &t
	}
	return update
}

func normalizedPhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	normalized := utils.NormalizePhone(*phone)
	return &normalized
}
