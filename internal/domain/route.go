package domain

// RouteInfo is a computed route between two points. It is immutable once
// returned; a newer fetch supersedes it, never mutates it.
type RouteInfo struct {
	// Coordinates is the ordered path, always at least two points.
	Coordinates []Coordinate `json:"coordinates"`

	// DistanceMeters and DurationSeconds are only meaningful when
	// HasMetrics is true. A straight-line fallback route carries no
	// metrics rather than claiming false precision.
	DistanceMeters  float64 `json:"distance_meters,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	HasMetrics      bool    `json:"has_metrics"`

	// Fallback marks a synthesized straight-line route returned when the
	// directions provider could not compute one.
	Fallback bool `json:"fallback"`
}

// SnapResult is the projection of a point onto the nearest route segment.
// Recomputed per query; it has no persisted identity.
type SnapResult struct {
	ClosestPoint Coordinate `json:"closest_point"`
	SegmentIndex int        `json:"segment_index"`

	// DistanceFromRoute is in the same units as the input coordinates.
	// Callers needing meters must convert.
	DistanceFromRoute float64 `json:"distance_from_route"`
}
