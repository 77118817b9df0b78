package geo

import "triproute/internal/domain"

// DefaultSimplifyMaxPoints bounds rendering cost for very long routes.
const DefaultSimplifyMaxPoints = 300

const polylineScale = 1e5

// Decode interprets a delta-encoded polyline (5-bit groups, zig-zag signed
// deltas, 1e5 scale) into an absolute coordinate sequence.
//
// The format is self-delimiting, so decoding consumes exactly as many
// characters as were encoded. Callers must only pass provider-supplied
// strings; behavior on arbitrary garbage is undefined, though decoding
// never panics.
func Decode(encoded string) []domain.Coordinate {
	var coords []domain.Coordinate
	index := 0
	lat, lng := 0, 0

	for index < len(encoded) {
		dLat, next, ok := decodeValue(encoded, index)
		if !ok {
			break
		}
		dLng, after, ok := decodeValue(encoded, next)
		if !ok {
			break
		}
		index = after
		lat += dLat
		lng += dLng
		coords = append(coords, domain.Coordinate{
			Latitude:  float64(lat) / polylineScale,
			Longitude: float64(lng) / polylineScale,
		})
	}

	return coords
}

// decodeValue reads one zig-zag-encoded signed delta starting at index.
func decodeValue(encoded string, index int) (value, next int, ok bool) {
	result, shift := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	value = result >> 1
	if result&1 != 0 {
		value = ^value
	}
	return value, index, true
}

// Encode produces the polyline encoding of a coordinate sequence, the
// inverse of Decode for coordinates rounded to 1e-5 precision.
func Encode(coords []domain.Coordinate) string {
	var out []byte
	prevLat, prevLng := 0, 0

	for _, c := range coords {
		lat := roundScaled(c.Latitude)
		lng := roundScaled(c.Longitude)
		out = encodeValue(out, lat-prevLat)
		out = encodeValue(out, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return string(out)
}

func roundScaled(v float64) int {
	scaled := v * polylineScale
	if scaled < 0 {
		return int(scaled - 0.5)
	}
	return int(scaled + 0.5)
}

func encodeValue(out []byte, value int) []byte {
	v := value << 1
	if value < 0 {
		v = ^v
	}
	for v >= 0x20 {
		out = append(out, byte((0x20|(v&0x1f))+63))
		v >>= 5
	}
	return append(out, byte(v+63))
}

// Simplify thins a path down to at most maxPoints points by keeping every
// ceil(len/maxPoints)-th point. The first and last points are always
// preserved exactly, since snapping and marker placement depend on the
// route endpoints. Inputs already within the bound are returned unchanged.
func Simplify(points []domain.Coordinate, maxPoints int) []domain.Coordinate {
	if maxPoints < 2 {
		maxPoints = 2
	}
	if len(points) <= maxPoints {
		return points
	}

	stride := (len(points) + maxPoints - 1) / maxPoints
	out := make([]domain.Coordinate, 0, maxPoints)
	for i := 0; i < len(points)-1 && len(out) < maxPoints-1; i += stride {
		out = append(out, points[i])
	}

	return append(out, points[len(points)-1])
}
