package utils

import (
	"fmt"
	"math"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	Northeast Point `json:"northeast"`
	Southwest Point `json:"southwest"`
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func IsValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// BoundingBox returns a lat/lng rectangle that contains every point within
// radiusKM of center. It is a coarse superset of the circle and is only meant
// for store-side prefiltering; exact filtering is done with CalculateDistance.
//
// The box is clamped at the poles. When it would cross the antimeridian the
// longitude span is widened to the full [-180, 180] range.
func BoundingBox(center Point, radiusKM float64) *Bounds {
	angular := radiusKM / EarthRadiusKM
	latDelta := radiansToDegrees(angular)

	minLat := center.Lat - latDelta
	maxLat := center.Lat + latDelta

	minLng, maxLng := -180.0, 180.0
	if minLat > -90 && maxLat < 90 {
		lngDelta := radiansToDegrees(math.Asin(math.Sin(angular) / math.Cos(degreesToRadians(center.Lat))))
		minLng = center.Lng - lngDelta
		maxLng = center.Lng + lngDelta
		if minLng < -180 || maxLng > 180 {
			minLng, maxLng = -180, 180
		}
	}

	return &Bounds{
		Northeast: Point{Lat: math.Min(maxLat, 90), Lng: maxLng},
		Southwest: Point{Lat: math.Max(minLat, -90), Lng: minLng},
	}
}

func (b *Bounds) Contains(p Point) bool {
	return p.Lat >= b.Southwest.Lat && p.Lat <= b.Northeast.Lat &&
		p.Lng >= b.Southwest.Lng && p.Lng <= b.Northeast.Lng
}

// GoogleMapsLink renders a shareable map link for a coordinate.
func GoogleMapsLink(p Point) string {
	return fmt.Sprintf("https://maps.google.com/?q=%s", p.String())
}
