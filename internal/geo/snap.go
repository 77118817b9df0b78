package geo

import (
	"math"

	"triproute/internal/domain"
)

// ClosestPointOnRoute projects a point onto the nearest segment of a route
// and returns the globally minimal-distance projection with its segment
// index. Distance is Euclidean, in the same units as the input coordinates.
//
// Returns nil when the route has fewer than two points or the query point
// is invalid; corridor restriction is opt-in per call site, so callers
// treat nil as "no snapping".
func ClosestPointOnRoute(point domain.Coordinate, route []domain.Coordinate) *domain.SnapResult {
	if len(route) < 2 || !point.Valid() {
		return nil
	}

	var best *domain.SnapResult
	for i := 0; i < len(route)-1; i++ {
		candidate := closestOnSegment(point, route[i], route[i+1])
		d := euclidean(point, candidate)
		if best == nil || d < best.DistanceFromRoute {
			best = &domain.SnapResult{
				ClosestPoint:      candidate,
				SegmentIndex:      i,
				DistanceFromRoute: d,
			}
		}
	}

	return best
}

// closestOnSegment returns the perpendicular projection of p onto segment
// (a, b), clamped to the segment's endpoints.
func closestOnSegment(p, a, b domain.Coordinate) domain.Coordinate {
	dLng := b.Longitude - a.Longitude
	dLat := b.Latitude - a.Latitude

	lenSq := dLng*dLng + dLat*dLat
	if lenSq == 0 {
		// Degenerate segment.
		return a
	}

	t := ((p.Longitude-a.Longitude)*dLng + (p.Latitude-a.Latitude)*dLat) / lenSq
	t = math.Max(0, math.Min(1, t))

	return domain.Coordinate{
		Latitude:  a.Latitude + t*dLat,
		Longitude: a.Longitude + t*dLng,
	}
}

func euclidean(a, b domain.Coordinate) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// HaversineMeters returns the great-circle distance between two coordinates
// in meters, for callers that need snap distances converted to meters.
func HaversineMeters(a, b domain.Coordinate) float64 {
	const earthRadiusM = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	dLat := toRad(b.Latitude - a.Latitude)
	dLng := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
