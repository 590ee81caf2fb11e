package geo

import (
	"math"
	"slices"

	"mealdeal/models"
)

// EarthRadiusKm is the mean earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Located is anything that may carry a coordinate.
type Located interface {
	Position() (models.Coordinate, bool)
}

// Ranked pairs an entity with its distance from a center. Distance is nil
// for unlocated entities.
type Ranked[T Located] struct {
	Item     T
	Distance *float64
}

// Distance computes the great-circle distance between two points in
// kilometers, rounded to two decimals. Inputs are not validated.
func Distance(a, b models.Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(EarthRadiusKm*c*100) / 100
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// FilterByRadius keeps the entities located within radiusKm of center.
// Unlocated entities are always dropped.
func FilterByRadius[T Located](entities []T, center models.Coordinate, radiusKm float64) []T {
	filtered := make([]T, 0, len(entities))
	for _, e := range entities {
		pos, ok := e.Position()
		if !ok {
			continue
		}
		if Distance(center, pos) <= radiusKm {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// SortByDistance annotates every entity with its distance from center and
// orders them nearest first. Unlocated entities trail all located ones and
// keep their input order, as do entities at equal distance.
func SortByDistance[T Located](entities []T, center models.Coordinate) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(entities))
	for _, e := range entities {
		r := Ranked[T]{Item: e}
		if pos, ok := e.Position(); ok {
			d := Distance(center, pos)
			r.Distance = &d
		}
		ranked = append(ranked, r)
	}
	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		return CompareDistance(a.Distance, b.Distance)
	})
	return ranked
}

// CompareDistance orders optional distances ascending with absent values last.
// Two absent values compare equal.
func CompareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
