package shared_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afyalink/internal/models"
	"afyalink/internal/services"
)

type facilityBody struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	DistanceKm *float64 `json:"distanceKm"`
}

func createFacility(t *testing.T, s *testServer, admin string, body map[string]interface{}) facilityBody {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/health-services", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created facilityBody
	decode(t, w, &created)
	return created
}

func TestFacilityHandler_SearchAndFetch(t *testing.T) {
	s := newTestServer(t)
	admin := tokenFor(t, models.UserTypeAdmin)

	near := createFacility(t, s, admin, map[string]interface{}{
		"type":     "hospital",
		"name":     "Kitengela Sub-County Hospital",
		"address":  "Namanga Road, Kitengela",
		"phone":    "0700 123 456",
		"location": map[string]float64{"latitude": -1.4736, "longitude": 36.9617},
	})
	assert.Equal(t, "+254700123456", near.Phone)

	createFacility(t, s, admin, map[string]interface{}{
		"type":     "pharmacy",
		"name":     "Nairobi CBD Pharmacy",
		"address":  "Moi Avenue, Nairobi",
		"location": map[string]float64{"latitude": -1.2833, "longitude": 36.8167},
	})

	w := s.do(t, http.MethodGet, "/api/health-services?lat=-1.4720&lng=36.9600&radius=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Services   []facilityBody `json:"services"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
		} `json:"pagination"`
		Filters struct {
			Radius float64 `json:"radius"`
		} `json:"filters"`
	}
	decode(t, w, &result)
	require.Len(t, result.Services, 1)
	assert.Equal(t, near.ID, result.Services[0].ID)
	require.NotNil(t, result.Services[0].DistanceKm)
	assert.Less(t, *result.Services[0].DistanceKm, 1.0)
	assert.EqualValues(t, 1, result.Pagination.TotalItems)
	assert.Equal(t, 5.0, result.Filters.Radius)

	w = s.do(t, http.MethodGet, "/api/health-services?type=pharmacy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	require.Len(t, result.Services, 1)
	assert.Equal(t, "Nairobi CBD Pharmacy", result.Services[0].Name)
	assert.Nil(t, result.Services[0].DistanceKm)

	w = s.do(t, http.MethodGet, "/api/health-services/"+near.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/health-services/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFacilityHandler_SearchValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"lat without lng", "lat=-1.47", "location"},
		{"non numeric lat", "lat=abc&lng=36.9", "lat"},
		{"latitude out of range", "lat=-91&lng=36.9", "location"},
		{"radius zero", "radius=0", "radius"},
		{"radius NaN", "lat=-1.47&lng=36.96&radius=NaN", "radius"},
		{"radius infinite", "radius=Inf", "radius"},
		{"lat NaN", "lat=NaN&lng=36.9", "lat"},
		{"radius too large", "radius=51", "radius"},
		{"unknown type", "type=spa", "type"},
		{"bad flag", "emergency=maybe", "emergency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/health-services?"+tt.query, "", nil)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodeError(t, w).Error.Details, tt.field)
		})
	}
}

func TestFacilityHandler_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"type": "clinic", "name": "Mlolongo Clinic", "address": "Mlolongo"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/health-services", "", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/health-services", tokenFor(t, models.UserTypeCounselor), body).Code)

	admin := tokenFor(t, models.UserTypeAdmin)
	w := s.do(t, http.MethodPost, "/api/health-services", admin, map[string]interface{}{"type": "spa", "name": "X"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decodeError(t, w).Error.Details
	assert.Contains(t, details, "type")
	assert.Contains(t, details, "address")
}

func TestFacilityHandler_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	admin := tokenFor(t, models.UserTypeAdmin)

	created := createFacility(t, s, admin, map[string]interface{}{
		"type":    "clinic",
		"name":    "Athi River Clinic",
		"address": "Athi River",
	})

	w := s.do(t, http.MethodPut, "/api/health-services/"+created.ID, admin, map[string]interface{}{"name": "Athi River Health Centre"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated facilityBody
	decode(t, w, &updated)
	assert.Equal(t, "Athi River Health Centre", updated.Name)

	// Writes invalidate cached searches.
	w = s.do(t, http.MethodGet, "/api/health-services?search=athi", "", nil)
	var result services.FacilitySearchResult
	decode(t, w, &result)
	require.Len(t, result.Services, 1)

	w = s.do(t, http.MethodDelete, "/api/health-services/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/health-services/"+created.ID, "", nil).Code)

	w = s.do(t, http.MethodGet, "/api/health-services?search=athi", "", nil)
	decode(t, w, &result)
	assert.Empty(t, result.Services)
}
