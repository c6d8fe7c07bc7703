package route

import (
	"errors"
	"fmt"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// ErrRouteIsNotConstructed is returned when a Route is used without being
// created through NewRoute or RestoreRoute.
var ErrRouteIsNotConstructed = errors.New("route is not constructed")

// Route is a trip a courier plans to drive, with a corridor around the
// start-end segment inside which parcels are considered matchable.
type Route struct {
	id        kernel.UUID
	courierID kernel.UUID

	startPoint   kernel.GeoPoint
	endPoint     kernel.GeoPoint
	startAddress string
	endAddress   string

	maxDeviationKm float64
	tripDate       *time.Time
	isActive       bool
	createdAt      time.Time

	guard kernel.ConstructorGuard
}

// NewRoute creates an active route.
func NewRoute(
	id kernel.UUID,
	courierID kernel.UUID,
	startPoint kernel.GeoPoint,
	endPoint kernel.GeoPoint,
	startAddress string,
	endAddress string,
	maxDeviationKm float64,
	tripDate *time.Time,
	now time.Time,
) (*Route, error) {
	r := &Route{
		startAddress: startAddress,
		endAddress:   endAddress,
		tripDate:     tripDate,
		isActive:     true,
		createdAt:    now,
		guard:        kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setCourierID(courierID),
		r.setStartPoint(startPoint),
		r.setEndPoint(endPoint),
		r.setMaxDeviationKm(maxDeviationKm),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRoute rehydrates a route from persistence.
func RestoreRoute(
	id kernel.UUID,
	courierID kernel.UUID,
	startPoint kernel.GeoPoint,
	endPoint kernel.GeoPoint,
	startAddress string,
	endAddress string,
	maxDeviationKm float64,
	tripDate *time.Time,
	isActive bool,
	createdAt time.Time,
) (*Route, error) {
	r := &Route{
		startAddress: startAddress,
		endAddress:   endAddress,
		tripDate:     tripDate,
		isActive:     isActive,
		createdAt:    createdAt,
		guard:        kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setCourierID(courierID),
		r.setStartPoint(startPoint),
		r.setEndPoint(endPoint),
		r.setMaxDeviationKm(maxDeviationKm),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the Route instance was properly constructed.
func (r *Route) Validate() error {
	if r == nil || r.guard.Validate(ErrRouteIsNotConstructed) != nil {
		return ErrRouteIsNotConstructed
	}
	return nil
}

func (r *Route) ID() kernel.UUID             { return r.id }
func (r *Route) CourierID() kernel.UUID      { return r.courierID }
func (r *Route) StartPoint() kernel.GeoPoint { return r.startPoint }
func (r *Route) EndPoint() kernel.GeoPoint   { return r.endPoint }
func (r *Route) StartAddress() string        { return r.startAddress }
func (r *Route) EndAddress() string          { return r.endAddress }
func (r *Route) MaxDeviationKm() float64     { return r.maxDeviationKm }
func (r *Route) TripDate() *time.Time        { return r.tripDate }
func (r *Route) IsActive() bool              { return r.isActive }
func (r *Route) CreatedAt() time.Time        { return r.createdAt }

// SegmentLengthKm is the great-circle length of the start-end leg.
func (r *Route) SegmentLengthKm() float64 {
	return r.startPoint.DistanceKm(r.endPoint)
}

// IsExpired reports whether the route's trip date has passed. The
// comparison is on calendar dates in UTC, so a route stays live through
// the whole of its trip day. Routes without a trip date never expire.
func (r *Route) IsExpired(now time.Time) bool {
	if r.tripDate == nil {
		return false
	}
	ty, tm, td := r.tripDate.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	trip := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return trip.Before(today)
}

// Deactivate takes the route out of matching. Idempotent.
func (r *Route) Deactivate() {
	r.isActive = false
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	r.id = id
	return nil
}

func (r *Route) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courierID", err)
	}
	r.courierID = id
	return nil
}

func (r *Route) setStartPoint(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("startPoint", err)
	}
	r.startPoint = p
	return nil
}

func (r *Route) setEndPoint(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("endPoint", err)
	}
	r.endPoint = p
	return nil
}

func (r *Route) setMaxDeviationKm(km float64) error {
	if km <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxDeviationKm",
			fmt.Errorf("%g is not greater than 0", km))
	}
	r.maxDeviationKm = km
	return nil
}
