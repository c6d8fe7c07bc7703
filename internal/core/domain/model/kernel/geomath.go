package kernel

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used for all great-circle math.
	EarthRadiusKm = 6371.0

	// minSegmentLengthKm is the threshold below which a route segment is
	// treated as a single point. Cross-track projection divides by the
	// segment length, which is numerically unstable near zero.
	minSegmentLengthKm = 0.1
)

// HaversineDistanceKm returns the great-circle distance in kilometers
// between two coordinates given in decimal degrees. The result is
// symmetric, non-negative, and zero for identical points.
func HaversineDistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// PointToSegmentDistanceKm returns the spherical cross-track distance in
// kilometers from point to the great-circle segment [segStart, segEnd].
//
// When the closest point on the infinite great-circle line falls outside the
// segment (the along-track projection is behind segStart or beyond segEnd),
// the distance falls back to the haversine distance to the nearer endpoint.
// Segments shorter than minSegmentLengthKm degenerate to the distance to
// segStart.
func PointToSegmentDistanceKm(point, segStart, segEnd GeoPoint) float64 {
	segLen := segStart.DistanceKm(segEnd)
	if segLen < minSegmentLengthKm {
		return point.DistanceKm(segStart)
	}

	d13 := segStart.DistanceKm(point)
	if d13 == 0 {
		return 0
	}

	// Angular distance start->point and the bearings start->point,
	// start->end on the unit sphere.
	delta13 := d13 / EarthRadiusKm
	theta13 := bearingRad(segStart, point)
	theta12 := bearingRad(segStart, segEnd)

	// Projection falls behind the segment start.
	if math.Cos(theta13-theta12) < 0 {
		return d13
	}

	crossTrack := math.Asin(math.Sin(delta13)*math.Sin(theta13-theta12)) * EarthRadiusKm
	alongTrack := math.Acos(clamp(math.Cos(delta13)/math.Cos(crossTrack/EarthRadiusKm), -1, 1)) * EarthRadiusKm

	// Projection falls beyond the segment end.
	if alongTrack > segLen {
		return point.DistanceKm(segEnd)
	}

	return math.Abs(crossTrack)
}

// DetourKm returns the extra travel distance in kilometers incurred by
// leaving the direct segStart->segEnd leg to visit pickup then dropoff:
//
//	d(start,pickup) + d(pickup,dropoff) + d(dropoff,end) - d(start,end)
//
// The result can be slightly negative in degenerate geometries but is
// typically non-negative.
func DetourKm(segStart, segEnd, pickup, dropoff GeoPoint) float64 {
	direct := segStart.DistanceKm(segEnd)
	withStops := segStart.DistanceKm(pickup) +
		pickup.DistanceKm(dropoff) +
		dropoff.DistanceKm(segEnd)
	return withStops - direct
}

// bearingRad returns the initial great-circle bearing from one point to
// another, in radians from north.
func bearingRad(from, to GeoPoint) float64 {
	phi1 := radians(from.lat)
	phi2 := radians(to.lat)
	dLambda := radians(to.lng - from.lng)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return math.Atan2(y, x)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// clamp keeps acos/asin arguments inside their domain despite floating
// point rounding.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
