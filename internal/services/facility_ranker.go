package services

import (
	"sort"
	"strings"

	"afyalink/internal/models"
)

// RankFacilities applies the query's filters to candidates, annotates
// distances from the query origin and sorts the survivors. Unlocated
// facilities are never excluded by the radius and sort after every located
// one. The result is a fresh slice; candidates are not modified.
func RankFacilities(query models.FacilityQuery, candidates []*models.HealthService) []models.RankedFacility {
	ranked := make([]models.RankedFacility, 0, len(candidates))
	needle := strings.ToLower(strings.TrimSpace(query.SearchText))

	for _, facility := range candidates {
		if facility == nil || !matchesQuery(query, needle, facility) {
			continue
		}

		entry := models.RankedFacility{HealthService: *facility}
		if query.Origin != nil && facility.Location != nil {
			distance := query.Origin.DistanceTo(*facility.Location)
			if distance > query.RadiusKm {
				continue
			}
			entry.DistanceKm = &distance
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedBefore(&ranked[i], &ranked[j])
	})
	return ranked
}

// PaginateFacilities returns the requested page of an already ranked list
// together with the total size of that list.
func PaginateFacilities(ranked []models.RankedFacility, page, limit int) ([]models.RankedFacility, int64) {
	total := int64(len(ranked))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []models.RankedFacility{}, total
	}

	start := (page - 1) * limit
	if start >= len(ranked) {
		return []models.RankedFacility{}, total
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], total
}

func matchesQuery(query models.FacilityQuery, needle string, f *models.HealthService) bool {
	if !f.IsActive {
		return false
	}
	if query.Type != nil && f.Type != *query.Type {
		return false
	}
	if query.EmergencyOnly && !f.IsEmergency {
		return false
	}
	if query.Open24h && !f.Is24Hours {
		return false
	}
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(f.Name), needle) ||
		strings.Contains(strings.ToLower(f.Address), needle) {
		return true
	}
	return f.Description != nil && strings.Contains(strings.ToLower(*f.Description), needle)
}

// rankedBefore orders by distance (nil last), rating desc, name, then id.
func rankedBefore(a, b *models.RankedFacility) bool {
	switch {
	case a.DistanceKm != nil && b.DistanceKm == nil:
		return true
	case a.DistanceKm == nil && b.DistanceKm != nil:
		return false
	case a.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm:
		return *a.DistanceKm < *b.DistanceKm
	}

	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.Hex() < b.ID.Hex()
}
