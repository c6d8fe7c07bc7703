package http

import "time"

// Error is the common error response body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ChangeParcelStatusRequest is the body for POST /parcels/:parcelID/status.
type ChangeParcelStatusRequest struct {
	ActorID string `json:"actorId"`
	Target  string `json:"target"`
	IsAdmin bool   `json:"isAdmin"`
	Force   bool   `json:"force"`
}

// PlaceBidRequest is the body for POST /parcels/:parcelID/bids.
type PlaceBidRequest struct {
	CourierID          string     `json:"courierId"`
	RouteID            *string    `json:"routeId,omitempty"`
	Price              float64    `json:"price"`
	EstimatedHours     *int       `json:"estimatedHours,omitempty"`
	ProposedPickupTime *time.Time `json:"proposedPickupTime,omitempty"`
	Message            string     `json:"message"`
}

// PlaceBidResponse returns the identifier of the created bid.
type PlaceBidResponse struct {
	BidID string `json:"bidId"`
}

// SelectBidRequest is the body for POST /parcels/:parcelID/bids/:bidID/select.
type SelectBidRequest struct {
	SenderID string `json:"senderId"`
}

// WithdrawBidRequest is the body for POST /bids/:bidID/withdraw.
type WithdrawBidRequest struct {
	CourierID string `json:"courierId"`
}

// MatchedParcel is one entry of GET /routes/:routeID/matching-parcels.
type MatchedParcel struct {
	ID                  string  `json:"id"`
	SenderID            string  `json:"senderId"`
	PickupLat           float64 `json:"pickupLat"`
	PickupLng           float64 `json:"pickupLng"`
	DropoffLat          float64 `json:"dropoffLat"`
	DropoffLng          float64 `json:"dropoffLng"`
	PickupAddress       string  `json:"pickupAddress"`
	DropoffAddress      string  `json:"dropoffAddress"`
	SizeClass           string  `json:"sizeClass"`
	WeightKg            float64 `json:"weightKg"`
	Price               float64 `json:"price"`
	BidCount            int     `json:"bidCount"`
	DistanceFromRouteKm float64 `json:"distanceFromRouteKm"`
	DetourKm            float64 `json:"detourKm"`
}

// OpenParcel is one entry of GET /parcels/open.
type OpenParcel struct {
	ID             string     `json:"id"`
	SenderID       string     `json:"senderId"`
	PickupLat      float64    `json:"pickupLat"`
	PickupLng      float64    `json:"pickupLng"`
	DropoffLat     float64    `json:"dropoffLat"`
	DropoffLng     float64    `json:"dropoffLng"`
	PickupAddress  string     `json:"pickupAddress"`
	DropoffAddress string     `json:"dropoffAddress"`
	SizeClass      string     `json:"sizeClass"`
	WeightKg       float64    `json:"weightKg"`
	Price          float64    `json:"price"`
	BidCount       int        `json:"bidCount"`
	BidDeadline    *time.Time `json:"bidDeadline,omitempty"`
	MatchingRoutes int        `json:"matchingRoutes"`
}
