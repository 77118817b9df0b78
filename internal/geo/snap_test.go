package geo

import (
	"math"
	"testing"

	"triproute/internal/domain"
)

func TestClosestPointOnRoute_PerpendicularProjection(t *testing.T) {
	t.Parallel()

	// Straight 2-point corridor; the dragged pin sits 5 units off it.
	route := []domain.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 10},
	}

	snap := ClosestPointOnRoute(domain.Coordinate{Latitude: 5, Longitude: 5}, route)
	if snap == nil {
		t.Fatal("expected snap result")
	}

	if snap.ClosestPoint.Latitude != 0 || snap.ClosestPoint.Longitude != 5 {
		t.Errorf("expected closest point (0, 5), got %+v", snap.ClosestPoint)
	}
	if snap.SegmentIndex != 0 {
		t.Errorf("expected segment index 0, got %d", snap.SegmentIndex)
	}
	if math.Abs(snap.DistanceFromRoute-5) > 1e-9 {
		t.Errorf("expected distance 5, got %f", snap.DistanceFromRoute)
	}
}

func TestClosestPointOnRoute_PointOnSegment(t *testing.T) {
	t.Parallel()

	route := []domain.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 10},
		{Latitude: 5, Longitude: 10},
	}

	snap := ClosestPointOnRoute(domain.Coordinate{Latitude: 0, Longitude: 3}, route)
	if snap == nil {
		t.Fatal("expected snap result")
	}

	if snap.DistanceFromRoute != 0 {
		t.Errorf("expected zero distance for on-segment point, got %f", snap.DistanceFromRoute)
	}
}

func TestClosestPointOnRoute_ClampsToEndpoints(t *testing.T) {
	t.Parallel()

	route := []domain.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 10},
	}

	// Beyond the far endpoint: projection clamps to (0, 10).
	snap := ClosestPointOnRoute(domain.Coordinate{Latitude: 0, Longitude: 20}, route)
	if snap == nil {
		t.Fatal("expected snap result")
	}

	if snap.ClosestPoint.Latitude != 0 || snap.ClosestPoint.Longitude != 10 {
		t.Errorf("expected clamp to (0, 10), got %+v", snap.ClosestPoint)
	}
}

func TestClosestPointOnRoute_ResultLiesOnRoute(t *testing.T) {
	t.Parallel()

	route := []domain.Coordinate{
		{Latitude: -4.441931, Longitude: 15.266293},
		{Latitude: -4.43, Longitude: 15.275},
		{Latitude: -4.415, Longitude: 15.281},
		{Latitude: -4.4, Longitude: 15.3},
	}

	queries := []domain.Coordinate{
		{Latitude: -4.45, Longitude: 15.26},
		{Latitude: -4.42, Longitude: 15.29},
		{Latitude: -4.39, Longitude: 15.31},
	}

	for _, q := range queries {
		snap := ClosestPointOnRoute(q, route)
		if snap == nil {
			t.Fatalf("expected snap result for %+v", q)
		}

		// The closest point must be a convex combination of the segment's
		// endpoints: its distance to the segment is zero.
		a := route[snap.SegmentIndex]
		b := route[snap.SegmentIndex+1]
		on := closestOnSegment(snap.ClosestPoint, a, b)
		if euclidean(snap.ClosestPoint, on) > 1e-12 {
			t.Errorf("closest point %+v does not lie on segment %d", snap.ClosestPoint, snap.SegmentIndex)
		}
	}
}

func TestClosestPointOnRoute_DegenerateInputs(t *testing.T) {
	t.Parallel()

	point := domain.Coordinate{Latitude: 1, Longitude: 1}

	if snap := ClosestPointOnRoute(point, nil); snap != nil {
		t.Error("expected nil for empty route")
	}

	single := []domain.Coordinate{{Latitude: 0, Longitude: 0}}
	if snap := ClosestPointOnRoute(point, single); snap != nil {
		t.Error("expected nil for single-point route")
	}

	route := []domain.Coordinate{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 10}}
	invalid := domain.Coordinate{Latitude: 95, Longitude: 200}
	if snap := ClosestPointOnRoute(invalid, route); snap != nil {
		t.Error("expected nil for out-of-range query point")
	}
}

func TestHaversineMeters(t *testing.T) {
	t.Parallel()

	a := domain.Coordinate{Latitude: -4.441931, Longitude: 15.266293}
	b := domain.Coordinate{Latitude: -4.4, Longitude: 15.3}

	d := HaversineMeters(a, b)
	// Roughly 6 km between these two points in Kinshasa.
	if d < 5000 || d > 7000 {
		t.Errorf("unexpected distance %f meters", d)
	}

	if HaversineMeters(a, a) != 0 {
		t.Error("expected zero distance for identical points")
	}
}
