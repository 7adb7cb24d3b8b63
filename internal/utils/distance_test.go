package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
	}{
		{"same point", -1.4520, 36.9550, -1.4520, 36.9550, 0},
		{"Mlolongo to Syokimau", -1.4520, 36.9550, -1.4693, 36.9384, 2.6656},
		{"Nairobi CBD to Mlolongo", -1.2921, 36.8219, -1.4520, 36.9550, 23.1311},
		{"one degree along the equator", 0, 0, 0, 1, 111.1949},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2), 0.001)
		})
	}
}

func TestCalculateDistance_Symmetric(t *testing.T) {
	points := [][2]float64{
		{-1.4520, 36.9550},
		{-1.4693, 36.9384},
		{-4.0435, 39.6682},
		{0.5143, 35.2698},
		{89.9, -179.9},
	}

	for _, a := range points {
		for _, b := range points {
			ab := CalculateDistance(a[0], a[1], b[0], b[1])
			ba := CalculateDistance(b[0], b[1], a[0], a[1])
			assert.InDelta(t, ab, ba, 1e-9)
			assert.GreaterOrEqual(t, ab, 0.0)
		}
	}
}
