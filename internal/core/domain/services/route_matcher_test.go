package services_test

import (
	"testing"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/domain/model/route"
	"crowdship/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func mustGeoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

// laToSDRoute runs roughly north-south between Los Angeles and San Diego.
func laToSDRoute(t *testing.T, maxDeviationKm float64) *route.Route {
	t.Helper()
	r, err := route.NewRoute(
		kernel.NewUUID(), kernel.NewUUID(),
		mustGeoPoint(t, 34.0522, -118.2437),
		mustGeoPoint(t, 32.7157, -117.1611),
		"Los Angeles, CA", "San Diego, CA",
		maxDeviationKm, nil, testNow)
	require.NoError(t, err)
	return r
}

func newParcelAt(t *testing.T, pickup, dropoff kernel.GeoPoint) *parcel.Parcel {
	t.Helper()
	p, err := parcel.NewParcel(
		kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff,
		"pickup addr", "dropoff addr",
		parcel.SizeSmall, 1.0, 20.0, false, testNow)
	require.NoError(t, err)
	return p
}

// onCorridorParcel sits near the route's midpoint.
func onCorridorParcel(t *testing.T) *parcel.Parcel {
	return newParcelAt(t,
		mustGeoPoint(t, 33.7, -117.9),
		mustGeoPoint(t, 33.1, -117.3))
}

// farAwayParcel picks up in San Francisco, hundreds of km off the corridor.
func farAwayParcel(t *testing.T) *parcel.Parcel {
	return newParcelAt(t,
		mustGeoPoint(t, 37.7749, -122.4194),
		mustGeoPoint(t, 33.1, -117.3))
}

func TestRouteMatcher_MatchParcelsToRoute(t *testing.T) {
	matcher := services.NewRouteMatcher()

	t.Run("should match parcels inside the corridor only", func(t *testing.T) {
		r := laToSDRoute(t, 25)
		near := onCorridorParcel(t)
		far := farAwayParcel(t)

		results, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{far, near})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Parcel.IsEqual(near))
		assert.LessOrEqual(t, results[0].DistanceFromRouteKm, 25.0)
		assert.GreaterOrEqual(t, results[0].DetourKm, 0.0)
	})

	t.Run("widening the corridor never removes a match", func(t *testing.T) {
		candidates := []*parcel.Parcel{onCorridorParcel(t), farAwayParcel(t)}

		prev := -1
		for _, dev := range []float64{1, 10, 50, 200, 1000} {
			results, err := matcher.MatchParcelsToRoute(laToSDRoute(t, dev), candidates)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(results), prev)
			prev = len(results)
		}
		assert.Equal(t, len(candidates), prev)
	})

	t.Run("should order matches by ascending detour", func(t *testing.T) {
		r := laToSDRoute(t, 100)
		small := onCorridorParcel(t)
		// Pickup well east of the corridor forces a longer detour.
		big := newParcelAt(t,
			mustGeoPoint(t, 33.5, -116.5),
			mustGeoPoint(t, 33.1, -117.3))

		results, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{big, small})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].Parcel.IsEqual(small))
		assert.LessOrEqual(t, results[0].DetourKm, results[1].DetourKm)
	})

	t.Run("should skip inactive and closed parcels", func(t *testing.T) {
		r := laToSDRoute(t, 25)

		deactivated := onCorridorParcel(t)
		deactivated.Deactivate()

		canceled := onCorridorParcel(t)
		require.NoError(t, canceled.ChangeStatus(parcel.Canceled, testNow))

		results, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{deactivated, canceled})

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("should match parcels still open for bids", func(t *testing.T) {
		r := laToSDRoute(t, 25)
		p := onCorridorParcel(t)
		require.NoError(t, p.OpenBidding(testNow.Add(24*time.Hour), testNow))

		results, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{p})

		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("inactive route matches nothing", func(t *testing.T) {
		r := laToSDRoute(t, 25)
		r.Deactivate()

		results, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{onCorridorParcel(t)})

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		results, err := matcher.MatchParcelsToRoute(laToSDRoute(t, 25), nil)

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestRouteMatcher_MatchRoutesToParcel(t *testing.T) {
	matcher := services.NewRouteMatcher()

	t.Run("predicate is consistent with the forward direction", func(t *testing.T) {
		r := laToSDRoute(t, 25)
		p := onCorridorParcel(t)

		forward, err := matcher.MatchParcelsToRoute(r, []*parcel.Parcel{p})
		require.NoError(t, err)
		reverse, err := matcher.MatchRoutesToParcel(p, []*route.Route{r})
		require.NoError(t, err)

		require.Len(t, forward, 1)
		require.Len(t, reverse, 1)
		assert.InDelta(t, forward[0].DistanceFromRouteKm, reverse[0].DistanceFromRouteKm, 1e-9)
		assert.InDelta(t, forward[0].DetourKm, reverse[0].DetourKm, 1e-9)
	})

	t.Run("closed parcel matches no routes", func(t *testing.T) {
		p := onCorridorParcel(t)
		require.NoError(t, p.ChangeStatus(parcel.Canceled, testNow))

		matches, err := matcher.MatchRoutesToParcel(p, []*route.Route{laToSDRoute(t, 25)})

		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestRouteMatcher_CountMatchingRoutes(t *testing.T) {
	matcher := services.NewRouteMatcher()

	t.Run("should count corridor hits without ranking", func(t *testing.T) {
		p := onCorridorParcel(t)
		inactive := laToSDRoute(t, 25)
		inactive.Deactivate()

		routes := []*route.Route{
			laToSDRoute(t, 25),
			laToSDRoute(t, 1), // corridor too narrow
			inactive,
			laToSDRoute(t, 100),
		}

		count, err := matcher.CountMatchingRoutes(p, routes)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
