package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client *maps.Client
	region string
}

// NewGoogleMapsProvider builds a geocoder. region is a ccTLD bias such as
// "ke"; options are passed through to the client.
func NewGoogleMapsProvider(apiKey, region string, options ...maps.ClientOption) (*GoogleMapsProvider, error) {
	options = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, options...)
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
		region: region,
	}, nil
}

// Geocode returns the best match for address.
func (g *GoogleMapsProvider) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	req := &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrNoResults
	}

	best := resp[0]
	return &GeocodeResult{
		PlaceID: best.PlaceID,
		Address: best.FormattedAddress,
		Coordinates: Location{
			Latitude:  best.Geometry.Location.Lat,
			Longitude: best.Geometry.Location.Lng,
		},
		Types: best.Types,
	}, nil
}
