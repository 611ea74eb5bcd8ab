package geocoding

import (
	"context"

	"github.com/UnknownOlympus/cityscore/internal/models"
)

// Provider is an interface that defines a method for geocoding a city.
// The Geocode method takes a context and a free-text city name as input,
// and returns the corresponding coordinates and an error if no match is found.
type Provider interface {
	Geocode(ctx context.Context, city string) (*models.Coordinates, error)
}
