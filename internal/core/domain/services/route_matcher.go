package services

import (
	"sort"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/domain/model/route"
)

// MatchResult is a parcel that fits inside a route's corridor, together
// with how far off the route it sits and how much driving it adds.
type MatchResult struct {
	Parcel *parcel.Parcel

	// DistanceFromRouteKm is the larger of the pickup and dropoff
	// distances to the route segment.
	DistanceFromRouteKm float64

	// DetourKm is the extra distance of driving start -> pickup ->
	// dropoff -> end instead of start -> end.
	DetourKm float64
}

// RouteMatch is a route whose corridor covers a parcel's pickup and
// dropoff points.
type RouteMatch struct {
	Route               *route.Route
	DistanceFromRouteKm float64
	DetourKm            float64
}

// RouteMatcher is a domain service that decides which parcels a courier
// could carry along a planned route, and conversely which routes could
// carry a given parcel.
//
// Business rules:
//   - Only active routes participate in matching
//   - Only active parcels still open for offers participate
//   - A parcel matches when BOTH its pickup and dropoff points lie within
//     the route's corridor width of the start-end segment
//   - Results are ordered by added detour, smallest first
type RouteMatcher struct{}

// NewRouteMatcher creates a new RouteMatcher instance.
func NewRouteMatcher() RouteMatcher {
	return RouteMatcher{}
}

// MatchParcelsToRoute filters candidates down to parcels the route can
// serve, sorted by ascending detour.
func (m RouteMatcher) MatchParcelsToRoute(r *route.Route, candidates []*parcel.Parcel) ([]MatchResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if !m.parcelIsOpen(p) || !r.IsActive() {
			continue
		}

		dist, ok := m.corridorDistance(r, p)
		if !ok {
			continue
		}

		results = append(results, MatchResult{
			Parcel:              p,
			DistanceFromRouteKm: dist,
			DetourKm:            m.detour(r, p),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DetourKm < results[j].DetourKm
	})

	return results, nil
}

// MatchRoutesToParcel filters candidates down to routes that can serve
// the parcel, sorted by ascending detour.
func (m RouteMatcher) MatchRoutesToParcel(p *parcel.Parcel, candidates []*route.Route) ([]RouteMatch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	matches := make([]RouteMatch, 0, len(candidates))
	if !m.parcelIsOpen(p) {
		return matches, nil
	}

	for _, r := range candidates {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		if !r.IsActive() {
			continue
		}

		dist, ok := m.corridorDistance(r, p)
		if !ok {
			continue
		}

		matches = append(matches, RouteMatch{
			Route:               r,
			DistanceFromRouteKm: dist,
			DetourKm:            m.detour(r, p),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DetourKm < matches[j].DetourKm
	})

	return matches, nil
}

// CountMatchingRoutes reports how many of the candidate routes could
// serve the parcel, without computing detours or ordering.
func (m RouteMatcher) CountMatchingRoutes(p *parcel.Parcel, candidates []*route.Route) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if !m.parcelIsOpen(p) {
		return 0, nil
	}

	count := 0
	for _, r := range candidates {
		if err := r.Validate(); err != nil {
			return 0, err
		}

		if !r.IsActive() {
			continue
		}

		if _, ok := m.corridorDistance(r, p); ok {
			count++
		}
	}

	return count, nil
}

func (m RouteMatcher) parcelIsOpen(p *parcel.Parcel) bool {
	if !p.IsActive() {
		return false
	}
	return p.Status() == parcel.New || p.Status() == parcel.OpenForBids
}

// corridorDistance returns the larger of the pickup and dropoff distances
// to the route segment, and whether both fall inside the corridor.
func (m RouteMatcher) corridorDistance(r *route.Route, p *parcel.Parcel) (float64, bool) {
	pickupDist := kernel.PointToSegmentDistanceKm(p.Pickup(), r.StartPoint(), r.EndPoint())
	dropoffDist := kernel.PointToSegmentDistanceKm(p.Dropoff(), r.StartPoint(), r.EndPoint())

	dist := pickupDist
	if dropoffDist > dist {
		dist = dropoffDist
	}

	return dist, dist <= r.MaxDeviationKm()
}

func (m RouteMatcher) detour(r *route.Route, p *parcel.Parcel) float64 {
	return kernel.DetourKm(r.StartPoint(), r.EndPoint(), p.Pickup(), p.Dropoff())
}
