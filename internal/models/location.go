package models

import (
	"afyalink/internal/utils"
)

// Coordinate is an immutable latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"longitude"`
}

func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lng}
}

func (c Coordinate) IsValid() bool {
	return utils.IsValidCoordinates(c.Latitude, c.Longitude)
}

// DistanceTo returns the great-circle distance in kilometers.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return utils.CalculateDistance(c.Latitude, c.Longitude, other.Latitude, other.Longitude)
}

func (c Coordinate) Point() utils.Point {
	return utils.Point{Lat: c.Latitude, Lng: c.Longitude}
}
