// Package routerepo provides data transfer objects and mapping functions
// for route persistence.
package routerepo

import (
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting route aggregates.
type RouteDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;index"`

	StartLat     float64
	StartLng     float64
	EndLat       float64
	EndLng       float64
	StartAddress string
	EndAddress   string

	MaxDeviationKm float64
	TripDate       *time.Time `gorm:"index"`
	IsActive       bool       `gorm:"index"`
	CreatedAt      time.Time
}

// TableName overrides GORM's default naming to use "routes".
func (RouteDTO) TableName() string {
	return "routes"
}

// fromDomain converts a route aggregate to its database representation.
func fromDomain(aggregate *route.Route) RouteDTO {
	return RouteDTO{
		ID:             aggregate.ID().Bytes(),
		CourierID:      aggregate.CourierID().Bytes(),
		StartLat:       aggregate.StartPoint().Lat(),
		StartLng:       aggregate.StartPoint().Lng(),
		EndLat:         aggregate.EndPoint().Lat(),
		EndLng:         aggregate.EndPoint().Lng(),
		StartAddress:   aggregate.StartAddress(),
		EndAddress:     aggregate.EndAddress(),
		MaxDeviationKm: aggregate.MaxDeviationKm(),
		TripDate:       aggregate.TripDate(),
		IsActive:       aggregate.IsActive(),
		CreatedAt:      aggregate.CreatedAt(),
	}
}

// toDomain converts a database row to a route aggregate using RestoreRoute.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	start, err := kernel.NewGeoPoint(dto.StartLat, dto.StartLng)
	if err != nil {
		return nil, err
	}
	end, err := kernel.NewGeoPoint(dto.EndLat, dto.EndLng)
	if err != nil {
		return nil, err
	}

	return route.RestoreRoute(
		id,
		courierID,
		start,
		end,
		dto.StartAddress,
		dto.EndAddress,
		dto.MaxDeviationKm,
		dto.TripDate,
		dto.IsActive,
		dto.CreatedAt,
	)
}
