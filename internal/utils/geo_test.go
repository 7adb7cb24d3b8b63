package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox_ContainsPointsInsideRadius(t *testing.T) {
	center := Point{Lat: -1.4520, Lng: 36.9550}
	box := BoundingBox(center, 5)

	assert.True(t, box.Contains(center))
	assert.True(t, box.Contains(Point{Lat: -1.4693, Lng: 36.9384}))
	assert.False(t, box.Contains(Point{Lat: -1.2921, Lng: 36.8219}))
}

func TestBoundingBox_ClampsNearPoles(t *testing.T) {
	box := BoundingBox(Point{Lat: 89.99, Lng: 10}, 50)

	assert.Equal(t, 90.0, box.Northeast.Lat)
	assert.Equal(t, -180.0, box.Southwest.Lng)
	assert.Equal(t, 180.0, box.Northeast.Lng)
}

func TestBoundingBox_WidensAcrossAntimeridian(t *testing.T) {
	box := BoundingBox(Point{Lat: 0, Lng: 179.99}, 10)

	assert.Equal(t, -180.0, box.Southwest.Lng)
	assert.Equal(t, 180.0, box.Northeast.Lng)
	assert.True(t, box.Contains(Point{Lat: 0, Lng: -179.99}))
}

func TestIsValidCoordinates(t *testing.T) {
	assert.True(t, IsValidCoordinates(-1.45, 36.95))
	assert.True(t, IsValidCoordinates(90, 180))
	assert.False(t, IsValidCoordinates(90.1, 0))
	assert.False(t, IsValidCoordinates(0, -180.5))
}

func TestGoogleMapsLink(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=-1.452000,36.955000", GoogleMapsLink(Point{Lat: -1.452, Lng: 36.955}))
}
