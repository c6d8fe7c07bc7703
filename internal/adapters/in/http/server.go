package http

import (
	"errors"
	"net/http"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/domain/services"
	"crowdship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the parcel, bid and matching use cases over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	changeParcelStatusHandler commands.ChangeParcelStatusCommandHandler
	placeBidHandler           commands.PlaceBidCommandHandler
	selectBidHandler          commands.SelectBidCommandHandler
	withdrawBidHandler        commands.WithdrawBidCommandHandler

	// Query handlers
	getMatchingParcelsHandler queries.GetMatchingParcelsQueryHandler
	getOpenParcelsHandler     queries.GetOpenParcelsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	changeParcelStatusHandler commands.ChangeParcelStatusCommandHandler,
	placeBidHandler commands.PlaceBidCommandHandler,
	selectBidHandler commands.SelectBidCommandHandler,
	withdrawBidHandler commands.WithdrawBidCommandHandler,
	getMatchingParcelsHandler queries.GetMatchingParcelsQueryHandler,
	getOpenParcelsHandler queries.GetOpenParcelsQueryHandler,
) *Server {
	return &Server{
		changeParcelStatusHandler: changeParcelStatusHandler,
		placeBidHandler:           placeBidHandler,
		selectBidHandler:          selectBidHandler,
		withdrawBidHandler:        withdrawBidHandler,
		getMatchingParcelsHandler: getMatchingParcelsHandler,
		getOpenParcelsHandler:     getOpenParcelsHandler,
	}
}

// RegisterRoutes mounts all API routes on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/parcels/open", s.GetOpenParcels)
	api.GET("/routes/:routeID/matching-parcels", s.GetMatchingParcels)

	api.POST("/parcels/:parcelID/status", s.ChangeParcelStatus)
	api.POST("/parcels/:parcelID/bids", s.PlaceBid)
	api.POST("/parcels/:parcelID/bids/:bidID/select", s.SelectBid)
	api.POST("/bids/:bidID/withdraw", s.WithdrawBid)
}

// GetOpenParcels handles GET /api/v1/parcels/open - retrieves parcels open
// for bidding with their matching-route counts.
func (s *Server) GetOpenParcels(ctx echo.Context) error {
	query := queries.NewGetOpenParcelsQuery()

	parcels, err := s.getOpenParcelsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve open parcels",
		})
	}

	response := make([]OpenParcel, len(parcels))
	for i, p := range parcels {
		response[i] = OpenParcel{
			ID:             p.ID.String(),
			SenderID:       p.SenderID.String(),
			PickupLat:      p.Pickup.Lat(),
			PickupLng:      p.Pickup.Lng(),
			DropoffLat:     p.Dropoff.Lat(),
			DropoffLng:     p.Dropoff.Lng(),
			PickupAddress:  p.PickupAddress,
			DropoffAddress: p.DropoffAddress,
			SizeClass:      p.SizeClass,
			WeightKg:       p.WeightKg,
			Price:          p.Price,
			BidCount:       p.BidCount,
			BidDeadline:    p.BidDeadline,
			MatchingRoutes: p.MatchingRoutes,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetMatchingParcels handles GET /api/v1/routes/:routeID/matching-parcels -
// retrieves open parcels inside the route's corridor, ranked by detour.
func (s *Server) GetMatchingParcels(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid route ID",
		})
	}

	query, err := queries.NewGetMatchingParcelsQuery(routeID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid matching query: " + err.Error(),
		})
	}

	parcels, err := s.getMatchingParcelsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Route not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve matching parcels",
		})
	}

	response := make([]MatchedParcel, len(parcels))
	for i, p := range parcels {
		response[i] = MatchedParcel{
			ID:                  p.ID.String(),
			SenderID:            p.SenderID.String(),
			PickupLat:           p.Pickup.Lat(),
			PickupLng:           p.Pickup.Lng(),
			DropoffLat:          p.Dropoff.Lat(),
			DropoffLng:          p.Dropoff.Lng(),
			PickupAddress:       p.PickupAddress,
			DropoffAddress:      p.DropoffAddress,
			SizeClass:           p.SizeClass,
			WeightKg:            p.WeightKg,
			Price:               p.Price,
			BidCount:            p.BidCount,
			DistanceFromRouteKm: p.DistanceFromRouteKm,
			DetourKm:            p.DetourKm,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ChangeParcelStatus handles POST /api/v1/parcels/:parcelID/status - moves a
// parcel through its lifecycle.
func (s *Server) ChangeParcelStatus(ctx echo.Context) error {
	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid parcel ID",
		})
	}

	var req ChangeParcelStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid actor ID",
		})
	}

	target, err := parcel.ParseStatus(req.Target)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid target status: " + req.Target,
		})
	}

	cmd, err := commands.NewChangeParcelStatusCommand(parcelID, actorID, target, req.IsAdmin, req.Force)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status change: " + err.Error(),
		})
	}

	if err := s.changeParcelStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.commandError(ctx, err, "Failed to change parcel status")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PlaceBid handles POST /api/v1/parcels/:parcelID/bids - places a courier bid.
func (s *Server) PlaceBid(ctx echo.Context) error {
	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid parcel ID",
		})
	}

	var req PlaceBidRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier ID",
		})
	}

	var routeID *kernel.UUID
	if req.RouteID != nil {
		id, err := kernel.UUIDFromString(*req.RouteID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid route ID",
			})
		}
		routeID = &id
	}

	bidID := kernel.NewUUID()

	cmd, err := commands.NewPlaceBidCommand(bidID, parcelID, courierID, routeID,
		req.Price, req.EstimatedHours, req.ProposedPickupTime, req.Message)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid bid data: " + err.Error(),
		})
	}

	if err := s.placeBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.commandError(ctx, err, "Failed to place bid")
	}

	return ctx.JSON(http.StatusCreated, PlaceBidResponse{BidID: bidID.String()})
}

// SelectBid handles POST /api/v1/parcels/:parcelID/bids/:bidID/select - the
// sender picks a winning bid.
func (s *Server) SelectBid(ctx echo.Context) error {
	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid parcel ID",
		})
	}

	bidID, err := kernel.UUIDFromString(ctx.Param("bidID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid bid ID",
		})
	}

	var req SelectBidRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	senderID, err := kernel.UUIDFromString(req.SenderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid sender ID",
		})
	}

	cmd, err := commands.NewSelectBidCommand(parcelID, bidID, senderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid selection: " + err.Error(),
		})
	}

	if err := s.selectBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.commandError(ctx, err, "Failed to select bid")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// WithdrawBid handles POST /api/v1/bids/:bidID/withdraw - a courier withdraws
// their own pending bid.
func (s *Server) WithdrawBid(ctx echo.Context) error {
	bidID, err := kernel.UUIDFromString(ctx.Param("bidID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid bid ID",
		})
	}

	var req WithdrawBidRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier ID",
		})
	}

	cmd, err := commands.NewWithdrawBidCommand(bidID, courierID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid withdrawal: " + err.Error(),
		})
	}

	if err := s.withdrawBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.commandError(ctx, err, "Failed to withdraw bid")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// commandError maps use case failures to HTTP status codes.
func (s *Server) commandError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrBidAlreadyPlaced),
		errors.Is(err, commands.ErrParcelIsNotOpenForBids),
		errors.Is(err, commands.ErrBidIsNotPending),
		errors.Is(err, services.ErrTransitionNotAllowed),
		errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrSenderDoesNotOwnParcel),
		errors.Is(err, commands.ErrCourierDoesNotOwnBid),
		errors.Is(err, commands.ErrBidDoesNotBelongToParcel),
		errors.Is(err, commands.ErrForceRequiresAdmin):
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
