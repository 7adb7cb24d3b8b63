package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"afyalink/internal/config"
	"afyalink/internal/models"
	"afyalink/internal/repositories/interfaces"
	"afyalink/internal/utils"
	"afyalink/pkg/cache"
	"afyalink/pkg/logger"
	"afyalink/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FacilityService interface {
	// Search
	Search(ctx context.Context, query models.FacilityQuery) (*FacilitySearchResult, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthService, error)

	// Administration
	Create(ctx context.Context, facility *models.HealthService) (*models.HealthService, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.FacilityUpdate) (*models.HealthService, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

type FacilitySearchResult struct {
	Services   []models.RankedFacility `json:"services"`
	Pagination *utils.PaginationMeta   `json:"pagination"`
	Filters    models.AppliedFilters   `json:"filters"`
}

type facilityService struct {
	facilityRepo interfaces.FacilityRepository
	cache        cache.Cache
	geocoder     maps.Geocoder
	config       *config.FacilityConfig
	logger       *logger.Logger
}

// NewFacilityService builds the directory service. geocoder may be nil, in
// which case facilities created without coordinates stay unlocated.
func NewFacilityService(
	facilityRepo interfaces.FacilityRepository,
	cache cache.Cache,
	geocoder maps.Geocoder,
	config *config.FacilityConfig,
	logger *logger.Logger,
) FacilityService {
	return &facilityService{
		facilityRepo: facilityRepo,
		cache:        cache,
		geocoder:     geocoder,
		config:       config,
		logger:       logger,
	}
}

func (s *facilityService) Search(ctx context.Context, query models.FacilityQuery) (*FacilitySearchResult, error) {
	query, err := s.normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	cacheKey := s.searchCacheKey(ctx, query)
	if cacheKey != "" {
		var cached FacilitySearchResult
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Facility search cache read failed")
		}
	}

	candidates, err := s.facilityRepo.FindActive(ctx, query.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to load facilities: %w", err)
	}

	ranked := RankFacilities(query, candidates)
	page, total := PaginateFacilities(ranked, query.Page, query.Limit)

	result := &FacilitySearchResult{
		Services:   page,
		Pagination: utils.CreatePaginationMeta(&utils.PaginationParams{Page: query.Page, Limit: query.Limit}, total),
		Filters:    query.Applied(),
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL()); err != nil {
			s.logger.WithError(err).Warn("Facility search cache write failed")
		}
	}

	return result, nil
}

func (s *facilityService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HealthService, error) {
	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !facility.IsActive {
		return nil, utils.NewNotFoundError("health service")
	}
	return facility, nil
}

func (s *facilityService) Create(ctx context.Context, facility *models.HealthService) (*models.HealthService, error) {
	if err := validateFacility(facility); err != nil {
		return nil, err
	}

	if facility.Location == nil {
		facility.Location = s.geocode(ctx, facility.Address)
	}

	now := time.Now()
	facility.ID = primitive.NewObjectID()
	facility.IsActive = true
	facility.CreatedAt = now
	facility.UpdatedAt = now
	if facility.Services == nil {
		facility.Services = []string{}
	}

	if err := s.facilityRepo.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}

	s.invalidateSearchCache(ctx)
	s.logger.WithFields(map[string]interface{}{
		"facility_id": facility.ID.Hex(),
		"type":        facility.Type,
		"located":     facility.Location != nil,
	}).Info("Facility created")

	return facility, nil
}

func (s *facilityService) Update(ctx context.Context, id primitive.ObjectID, update models.FacilityUpdate) (*models.HealthService, error) {
	if err := validateFacilityUpdate(update); err != nil {
		return nil, err
	}

	facility, err := s.facilityRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx)
	return facility, nil
}

func (s *facilityService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	if err := s.facilityRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateSearchCache(ctx)
	s.logger.WithField("facility_id", id.Hex()).Info("Facility deactivated")
	return nil
}

// normalizeQuery fills defaults and rejects out-of-range values.
func (s *facilityService) normalizeQuery(query models.FacilityQuery) (models.FacilityQuery, error) {
	fields := map[string]string{}

	if query.RadiusKm == 0 {
		query.RadiusKm = s.defaultRadius()
	}
	if math.IsNaN(query.RadiusKm) || query.RadiusKm < utils.MinSearchRadius || query.RadiusKm > utils.MaxSearchRadius {
		fields["radius"] = fmt.Sprintf("must be between %.0f and %.0f", utils.MinSearchRadius, utils.MaxSearchRadius)
	}
	if query.Origin != nil && !query.Origin.IsValid() {
		fields["location"] = "latitude must be within [-90,90] and longitude within [-180,180]"
	}
	if query.Type != nil && !query.Type.IsValid() {
		fields["type"] = "unknown facility type"
	}
	if len(fields) > 0 {
		return query, utils.NewValidationError("invalid search parameters", fields)
	}

	if query.Limit == 0 {
		query.Limit = utils.DefaultFacilityLimit
	}
	params := utils.NewPaginationParams(query.Page, query.Limit)
	query.Page, query.Limit = params.Page, params.Limit
	query.SearchText = strings.TrimSpace(query.SearchText)

	return query, nil
}

// searchCacheKey derives a key scoped to the current directory generation.
// An empty key disables caching for this request.
func (s *facilityService) searchCacheKey(ctx context.Context, query models.FacilityQuery) string {
	if s.cache == nil {
		return ""
	}

	generation, err := s.cache.GetInt64(ctx, utils.CacheFacilityGeneration)
	if err != nil {
		s.logger.WithError(err).Warn("Facility cache generation unavailable")
		return ""
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s%d:%s", utils.CacheFacilitySearchPrefix, generation, hex.EncodeToString(sum[:]))
}

func (s *facilityService) invalidateSearchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Increment(ctx, utils.CacheFacilityGeneration); err != nil {
		s.logger.WithError(err).Warn("Failed to bump facility cache generation")
	}
}

// geocode resolves address to a coordinate. Any failure leaves the facility
// unlocated.
func (s *facilityService) geocode(ctx context.Context, address string) *models.Coordinate {
	if s.geocoder == nil || strings.TrimSpace(address) == "" {
		return nil
	}

	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.WithError(err).WithField("address", address).Warn("Geocoding failed, storing facility without location")
		return nil
	}

	location := models.NewCoordinate(result.Coordinates.Latitude, result.Coordinates.Longitude)
	if !location.IsValid() {
		return nil
	}
	return &location
}

func (s *facilityService) defaultRadius() float64 {
	if s.config != nil && s.config.DefaultRadiusKm > 0 {
		return s.config.DefaultRadiusKm
	}
	return utils.DefaultSearchRadius
}

func (s *facilityService) cacheTTL() time.Duration {
	if s.config != nil && s.config.SearchCacheTTL > 0 {
		return s.config.SearchCacheTTL
	}
	return utils.FacilitySearchCacheTTL
}

func validateFacility(f *models.HealthService) error {
	fields := map[string]string{}

	if !f.Type.IsValid() {
		fields["type"] = "unknown facility type"
	}
	if strings.TrimSpace(f.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(f.Address) == "" {
		fields["address"] = "is required"
	}
	if f.Location != nil && !f.Location.IsValid() {
		fields["location"] = "latitude must be within [-90,90] and longitude within [-180,180]"
	}
	if f.Rating < 0 || f.Rating > 5 {
		fields["rating"] = "must be between 0 and 5"
	}
	if f.ReviewCount < 0 {
		fields["reviewCount"] = "must not be negative"
	}

	if len(fields) > 0 {
		return utils.NewValidationError("invalid health service", fields)
	}
	return nil
}

func validateFacilityUpdate(u models.FacilityUpdate) error {
	fields := map[string]string{}

	if u.Type != nil && !u.Type.IsValid() {
		fields["type"] = "unknown facility type"
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		fields["name"] = "must not be blank"
	}
	if u.Address != nil && strings.TrimSpace(*u.Address) == "" {
		fields["address"] = "must not be blank"
	}
	if u.Location != nil && !u.Location.IsValid() {
		fields["location"] = "latitude must be within [-90,90] and longitude within [-180,180]"
	}

	if len(fields) > 0 {
		return utils.NewValidationError("invalid health service update", fields)
	}
	return nil
}
