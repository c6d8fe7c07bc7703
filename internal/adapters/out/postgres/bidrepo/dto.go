// Package bidrepo provides data transfer objects and mapping functions for
// bid persistence.
package bidrepo

import (
	"time"

	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BidDTO represents the database structure for persisting bid aggregates.
type BidDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParcelID  uuid.UUID  `gorm:"type:uuid;index"`
	CourierID uuid.UUID  `gorm:"type:uuid;index"`
	RouteID   *uuid.UUID `gorm:"type:uuid;index"`

	Price              float64
	EstimatedHours     *int
	ProposedPickupTime *time.Time
	Message            string

	Status      int `gorm:"index"`
	CreatedAt   time.Time
	SelectedAt  *time.Time
	WithdrawnAt *time.Time
}

// TableName overrides GORM's default naming to use "bids".
func (BidDTO) TableName() string {
	return "bids"
}

// fromDomain converts a bid aggregate to its database representation.
func fromDomain(aggregate *bid.Bid) BidDTO {
	var routeID *uuid.UUID
	if id := aggregate.RouteID(); id != nil {
		raw := id.Bytes()
		routeID = &raw
	}

	return BidDTO{
		ID:                 aggregate.ID().Bytes(),
		ParcelID:           aggregate.ParcelID().Bytes(),
		CourierID:          aggregate.CourierID().Bytes(),
		RouteID:            routeID,
		Price:              aggregate.Price(),
		EstimatedHours:     aggregate.EstimatedHours(),
		ProposedPickupTime: aggregate.ProposedPickupTime(),
		Message:            aggregate.Message(),
		Status:             int(aggregate.Status()),
		CreatedAt:          aggregate.CreatedAt(),
		SelectedAt:         aggregate.SelectedAt(),
		WithdrawnAt:        aggregate.WithdrawnAt(),
	}
}

// toDomain converts a database row to a bid aggregate using RestoreBid.
func toDomain(dto BidDTO) (*bid.Bid, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	var routeID *kernel.UUID
	if dto.RouteID != nil {
		rID, rErr := kernel.UUIDFromBytes((*dto.RouteID)[:])
		if rErr != nil {
			return nil, rErr
		}
		routeID = &rID
	}

	return bid.RestoreBid(
		id,
		parcelID,
		courierID,
		routeID,
		dto.Price,
		dto.EstimatedHours,
		dto.ProposedPickupTime,
		dto.Message,
		bid.Status(dto.Status),
		dto.CreatedAt,
		dto.SelectedAt,
		dto.WithdrawnAt,
	)
}
