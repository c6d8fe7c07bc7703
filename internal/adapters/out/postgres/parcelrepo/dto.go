// Package parcelrepo provides data transfer objects and mapping functions
// for parcel persistence. It implements the repository pattern for the
// parcel aggregate, converting between domain entities and database rows.
package parcelrepo

import (
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. Indexed for the matching and scheduler access paths.
type ParcelDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderID      uuid.UUID  `gorm:"type:uuid;index"`
	CourierID     *uuid.UUID `gorm:"type:uuid;index"`
	SelectedBidID *uuid.UUID `gorm:"type:uuid"`

	PickupLat      float64
	PickupLng      float64
	DropoffLat     float64
	DropoffLng     float64
	PickupAddress  string
	DropoffAddress string

	SizeClass string
	WeightKg  float64
	Price     float64

	Status          int `gorm:"index"`
	StatusChangedAt time.Time

	BidDeadline         *time.Time `gorm:"index"`
	BidCount            int
	DeadlineExtensions  int
	DeadlineWarningSent bool

	RequiresProof bool
	IsActive      bool `gorm:"index"`

	BidSelectedAt   *time.Time
	PendingPickupAt *time.Time
	InTransitAt     *time.Time
	PickupTime      *time.Time
	DeliveryTime    *time.Time
	FailedAt        *time.Time
	CreatedAt       time.Time
}

// TableName overrides GORM's default naming to use "parcels".
func (ParcelDTO) TableName() string {
	return "parcels"
}

// fromDomain converts a parcel aggregate to its database representation.
func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var selectedBidID *uuid.UUID
	if id := aggregate.SelectedBidID(); id != nil {
		raw := id.Bytes()
		selectedBidID = &raw
	}

	return ParcelDTO{
		ID:                  aggregate.ID().Bytes(),
		SenderID:            aggregate.SenderID().Bytes(),
		CourierID:           courierID,
		SelectedBidID:       selectedBidID,
		PickupLat:           aggregate.Pickup().Lat(),
		PickupLng:           aggregate.Pickup().Lng(),
		DropoffLat:          aggregate.Dropoff().Lat(),
		DropoffLng:          aggregate.Dropoff().Lng(),
		PickupAddress:       aggregate.PickupAddress(),
		DropoffAddress:      aggregate.DropoffAddress(),
		SizeClass:           string(aggregate.Size()),
		WeightKg:            aggregate.WeightKg(),
		Price:               aggregate.Price(),
		Status:              int(aggregate.Status()),
		StatusChangedAt:     aggregate.StatusChangedAt(),
		BidDeadline:         aggregate.BidDeadline(),
		BidCount:            aggregate.BidCount(),
		DeadlineExtensions:  aggregate.DeadlineExtensions(),
		DeadlineWarningSent: aggregate.DeadlineWarningSent(),
		RequiresProof:       aggregate.RequiresProof(),
		IsActive:            aggregate.IsActive(),
		BidSelectedAt:       aggregate.BidSelectedAt(),
		PendingPickupAt:     aggregate.PendingPickupAt(),
		InTransitAt:         aggregate.InTransitAt(),
		PickupTime:          aggregate.PickupTime(),
		DeliveryTime:        aggregate.DeliveryTime(),
		FailedAt:            aggregate.FailedAt(),
		CreatedAt:           aggregate.CreatedAt(),
	}
}

// toDomain converts a database row to a parcel aggregate using RestoreParcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}

	var selectedBidID *kernel.UUID
	if dto.SelectedBidID != nil {
		bID, bErr := kernel.UUIDFromBytes((*dto.SelectedBidID)[:])
		if bErr != nil {
			return nil, bErr
		}
		selectedBidID = &bID
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(
		id,
		senderID,
		courierID,
		selectedBidID,
		pickup,
		dropoff,
		dto.PickupAddress,
		dto.DropoffAddress,
		parcel.SizeClass(dto.SizeClass),
		dto.WeightKg,
		dto.Price,
		parcel.Status(dto.Status),
		dto.StatusChangedAt,
		dto.BidDeadline,
		dto.BidCount,
		dto.DeadlineExtensions,
		dto.DeadlineWarningSent,
		dto.RequiresProof,
		dto.IsActive,
		parcel.Timestamps{
			BidSelectedAt:   dto.BidSelectedAt,
			PendingPickupAt: dto.PendingPickupAt,
			InTransitAt:     dto.InTransitAt,
			PickupTime:      dto.PickupTime,
			DeliveryTime:    dto.DeliveryTime,
			FailedAt:        dto.FailedAt,
			CreatedAt:       dto.CreatedAt,
		},
	)
}
