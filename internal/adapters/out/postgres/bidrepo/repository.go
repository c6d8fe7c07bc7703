package bidrepo

import (
	"context"
	"errors"

	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBidRepository implements ports.BidRepository using GORM.
type GormBidRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBidRepository creates a new GORM bid repository.
func NewGormBidRepository(db *gorm.DB, tracker aggregateTracker) *GormBidRepository {
	return &GormBidRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new bid to the database.
func (r *GormBidRepository) Add(ctx context.Context, aggregate *bid.Bid) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing bid to the database.
func (r *GormBidRepository) Update(ctx context.Context, aggregate *bid.Bid) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BidDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a bid by ID.
func (r *GormBidRepository) Get(ctx context.Context, id kernel.UUID) (*bid.Bid, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BidDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bid", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForParcel retrieves every bid placed on the parcel.
func (r *GormBidRepository) GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []BidDTO
	err := r.db.WithContext(ctx).Find(&dtos, "parcel_id = ?", parcelID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetPendingForParcel retrieves the Pending bids on the parcel.
func (r *GormBidRepository) GetPendingForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []BidDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "parcel_id = ? AND status = ?", parcelID.Bytes(), int(bid.Pending)).
		Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetOpenByRoute retrieves the Pending and Selected bids tied to the route.
func (r *GormBidRepository) GetOpenByRoute(ctx context.Context, routeID kernel.UUID) ([]*bid.Bid, error) {
	if err := routeID.Validate(); err != nil {
		return nil, err
	}

	var dtos []BidDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "route_id = ? AND status IN ?",
			routeID.Bytes(), []int{int(bid.Pending), int(bid.Selected)}).
		Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetByParcelAndCourier retrieves the courier's bid on the parcel, if any.
func (r *GormBidRepository) GetByParcelAndCourier(ctx context.Context, parcelID, courierID kernel.UUID) (*bid.Bid, error) {
	if err := errors.Join(parcelID.Validate(), courierID.Validate()); err != nil {
		return nil, err
	}

	var dto BidDTO
	err := r.db.WithContext(ctx).
		First(&dto, "parcel_id = ? AND courier_id = ?", parcelID.Bytes(), courierID.Bytes()).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bid", parcelID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormBidRepository) toDomainAll(dtos []BidDTO) ([]*bid.Bid, error) {
	bids := make([]*bid.Bid, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, nil
}
