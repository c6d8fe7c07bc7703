package queries

import (
	"context"
	"time"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenParcelsQueryHandler lists parcels still accepting couriers, each
// annotated with how many active routes could carry it.
type GetOpenParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenParcelsQueryHandler creates a handler for open parcel queries.
func NewGetOpenParcelsQueryHandler(db *gorm.DB) GetOpenParcelsQueryHandler {
	return GetOpenParcelsQueryHandler{db: db}
}

// routeCorridor is one active route's matching geometry.
type routeCorridor struct {
	start          kernel.GeoPoint
	end            kernel.GeoPoint
	maxDeviationKm float64
}

// Handle executes the query. Results are ordered by creation time, newest
// first.
func (h GetOpenParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenParcelsQuery,
) ([]GetOpenParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	corridors, err := h.loadCorridors(ctx)
	if err != nil {
		return nil, err
	}

	parcels := make([]GetOpenParcelsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sender_id,
			pickup_lat,
			pickup_lng,
			dropoff_lat,
			dropoff_lng,
			pickup_address,
			dropoff_address,
			size_class,
			weight_kg,
			price,
			bid_count,
			bid_deadline
		FROM parcels
		WHERE status IN (?, ?)
		AND is_active
		ORDER BY created_at DESC
	`, int(parcel.New), int(parcel.OpenForBids)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, senderID                  uuid.UUID
			pickupLat, pickupLng          float64
			dropoffLat, dropoffLng        float64
			pickupAddress, dropoffAddress string
			sizeClass                     string
			weightKg, price               float64
			bidCount                      int
			bidDeadline                   *time.Time
		)

		if err = rows.Scan(
			&id, &senderID,
			&pickupLat, &pickupLng, &dropoffLat, &dropoffLng,
			&pickupAddress, &dropoffAddress,
			&sizeClass, &weightKg, &price, &bidCount, &bidDeadline,
		); err != nil {
			return nil, err
		}

		pickup, pErr := kernel.NewGeoPoint(pickupLat, pickupLng)
		if pErr != nil {
			return nil, pErr
		}
		dropoff, dErr := kernel.NewGeoPoint(dropoffLat, dropoffLng)
		if dErr != nil {
			return nil, dErr
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		parcelSenderID, idErr := kernel.UUIDFromBytes(senderID[:])
		if idErr != nil {
			return nil, idErr
		}

		parcels = append(parcels, GetOpenParcelsQueryResponse{
			ID:             parcelID,
			SenderID:       parcelSenderID,
			Pickup:         pickup,
			Dropoff:        dropoff,
			PickupAddress:  pickupAddress,
			DropoffAddress: dropoffAddress,
			SizeClass:      sizeClass,
			WeightKg:       weightKg,
			Price:          price,
			BidCount:       bidCount,
			BidDeadline:    bidDeadline,
			MatchingRoutes: countMatches(corridors, pickup, dropoff),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}

func (h GetOpenParcelsQueryHandler) loadCorridors(ctx context.Context) ([]routeCorridor, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			start_lat,
			start_lng,
			end_lat,
			end_lng,
			max_deviation_km
		FROM routes
		WHERE is_active
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	corridors := make([]routeCorridor, 0)
	for rows.Next() {
		var startLat, startLng, endLat, endLng, maxDeviationKm float64
		if err = rows.Scan(&startLat, &startLng, &endLat, &endLng, &maxDeviationKm); err != nil {
			return nil, err
		}

		start, sErr := kernel.NewGeoPoint(startLat, startLng)
		if sErr != nil {
			return nil, sErr
		}
		end, eErr := kernel.NewGeoPoint(endLat, endLng)
		if eErr != nil {
			return nil, eErr
		}

		corridors = append(corridors, routeCorridor{
			start:          start,
			end:            end,
			maxDeviationKm: maxDeviationKm,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return corridors, nil
}

func countMatches(corridors []routeCorridor, pickup, dropoff kernel.GeoPoint) int {
	count := 0
	for _, c := range corridors {
		dist := kernel.PointToSegmentDistanceKm(pickup, c.start, c.end)
		if d := kernel.PointToSegmentDistanceKm(dropoff, c.start, c.end); d > dist {
			dist = d
		}
		if dist <= c.maxDeviationKm {
			count++
		}
	}
	return count
}
