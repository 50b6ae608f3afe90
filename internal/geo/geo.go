// Package geo computes great-circle distances between coordinates.
// All distances are in statute miles; unit conversion, if a deployment
// needs it, belongs at the API boundary.
package geo

import (
	"fmt"
	"math"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"
)

// EarthRadiusMiles is the mean Earth radius used by the Haversine formula.
const EarthRadiusMiles = 3959.0

// Distance returns the great-circle distance in miles between a and b.
// Out-of-range coordinates are rejected, never clamped.
func Distance(a, b domain.Coordinate) (float64, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("geo.Distance: (%v,%v): %w", a.Lat, a.Lng, e.ErrInvalidCoordinates)
	}
	if !b.Valid() {
		return 0, fmt.Errorf("geo.Distance: (%v,%v): %w", b.Lat, b.Lng, e.ErrInvalidCoordinates)
	}
	return haversine(a.Lat, a.Lng, b.Lat, b.Lng), nil
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
