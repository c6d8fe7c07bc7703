package commands_test

import (
	"testing"
	"time"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/domain/model/route"
	"crowdship/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expiredRoute(t *testing.T) *route.Route {
	t.Helper()

	start, err := kernel.NewGeoPoint(34.05, -118.24)
	require.NoError(t, err)
	end, err := kernel.NewGeoPoint(32.72, -117.16)
	require.NoError(t, err)

	trip := testNow.AddDate(0, 0, -2)
	r, err := route.NewRoute(
		kernel.NewUUID(), kernel.NewUUID(), start, end,
		"Los Angeles, CA", "San Diego, CA", 15, &trip, trip.AddDate(0, 0, -1))
	require.NoError(t, err)
	return r
}

func routeBid(t *testing.T, parcelID, courierID, routeID kernel.UUID) *bid.Bid {
	t.Helper()
	b, err := bid.NewBid(kernel.NewUUID(), parcelID, courierID, &routeID,
		12.0, nil, nil, "", testNow.Add(-time.Hour))
	require.NoError(t, err)
	return b
}

func newCleanupHandler(uow *MockUoW, sink *recordingSink) commands.CleanupExpiredRoutesCommandHandler {
	return commands.NewCleanupExpiredRoutesCommandHandler(
		stubUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())
}

func TestCleanupExpiredRoutesCommandHandler_Handle(t *testing.T) {
	t.Run("should withdraw pending bids and deactivate the route", func(t *testing.T) {
		ctx := t.Context()
		r := expiredRoute(t)
		p := buildParcel(t)
		require.NoError(t, p.OpenBidding(testNow.Add(24*time.Hour), testNow.Add(-time.Hour)))
		p.RegisterBid()
		b := routeBid(t, p.ID(), r.CourierID(), r.ID())

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.routeRepo.On("GetAllExpired", ctx, testNow).Return([]*route.Route{r}, nil)
		uow.routeRepo.On("Update", ctx, r).Return(nil)
		uow.bidRepo.On("GetOpenByRoute", ctx, r.ID()).Return([]*bid.Bid{b}, nil)
		uow.bidRepo.On("Update", ctx, b).Return(nil)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)

		sink := &recordingSink{}
		summary, err := newCleanupHandler(uow, sink).Handle(ctx, commands.NewCleanupExpiredRoutesCommand(false))

		require.NoError(t, err)
		assert.Equal(t, commands.CleanupRunSummary{RoutesDeactivated: 1, BidsWithdrawn: 1}, summary)
		assert.Equal(t, bid.Withdrawn, b.Status())
		assert.Zero(t, p.BidCount())
		assert.False(t, r.IsActive())

		assert.Equal(t, []ports.NotificationKind{
			ports.NotificationBidWithdrawn,
			ports.NotificationRouteDeactivated,
		}, sink.kinds())
		uow.AssertExpectations(t)
	})

	t.Run("should revert a selection still awaiting pickup", func(t *testing.T) {
		ctx := t.Context()
		r := expiredRoute(t)
		p := buildParcel(t)
		deadline := testNow.Add(24 * time.Hour)
		require.NoError(t, p.OpenBidding(deadline, testNow.Add(-2*time.Hour)))

		b := routeBid(t, p.ID(), r.CourierID(), r.ID())
		require.NoError(t, b.Select(testNow.Add(-time.Hour)))
		require.NoError(t, p.SelectBid(b.ID(), b.CourierID(), testNow.Add(-time.Hour)))

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.routeRepo.On("GetAllExpired", ctx, testNow).Return([]*route.Route{r}, nil)
		uow.routeRepo.On("Update", ctx, r).Return(nil)
		uow.bidRepo.On("GetOpenByRoute", ctx, r.ID()).Return([]*bid.Bid{b}, nil)
		uow.bidRepo.On("Update", ctx, b).Return(nil)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)

		sink := &recordingSink{}
		summary, err := newCleanupHandler(uow, sink).Handle(ctx, commands.NewCleanupExpiredRoutesCommand(false))

		require.NoError(t, err)
		assert.Equal(t, commands.CleanupRunSummary{RoutesDeactivated: 1, BidsWithdrawn: 1}, summary)
		assert.Equal(t, bid.Withdrawn, b.Status())
		assert.Equal(t, parcel.OpenForBids, p.Status())
		assert.Nil(t, p.Courier())
		assert.Nil(t, p.SelectedBidID())
		require.NotNil(t, p.BidDeadline())
		assert.Equal(t, deadline, *p.BidDeadline())

		assert.Equal(t, []ports.NotificationKind{
			ports.NotificationSelectionReverted,
			ports.NotificationRouteDeactivated,
		}, sink.kinds())
	})

	t.Run("should leave parcels already past pickup alone", func(t *testing.T) {
		ctx := t.Context()
		r := expiredRoute(t)
		p := buildParcel(t)
		require.NoError(t, p.OpenBidding(testNow.Add(24*time.Hour), testNow.Add(-3*time.Hour)))

		b := routeBid(t, p.ID(), r.CourierID(), r.ID())
		require.NoError(t, b.Select(testNow.Add(-2*time.Hour)))
		require.NoError(t, p.SelectBid(b.ID(), b.CourierID(), testNow.Add(-2*time.Hour)))
		require.NoError(t, p.ChangeStatus(parcel.PendingPickup, testNow.Add(-time.Hour)))

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.routeRepo.On("GetAllExpired", ctx, testNow).Return([]*route.Route{r}, nil)
		uow.routeRepo.On("Update", ctx, r).Return(nil)
		uow.bidRepo.On("GetOpenByRoute", ctx, r.ID()).Return([]*bid.Bid{b}, nil)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)

		sink := &recordingSink{}
		summary, err := newCleanupHandler(uow, sink).Handle(ctx, commands.NewCleanupExpiredRoutesCommand(false))

		require.NoError(t, err)
		assert.Equal(t, commands.CleanupRunSummary{RoutesDeactivated: 1}, summary)
		assert.Equal(t, bid.Selected, b.Status())
		assert.Equal(t, parcel.PendingPickup, p.Status())
		assert.False(t, r.IsActive())
		uow.bidRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("dry run reports without mutating", func(t *testing.T) {
		ctx := t.Context()
		r := expiredRoute(t)
		p := buildParcel(t)
		require.NoError(t, p.OpenBidding(testNow.Add(24*time.Hour), testNow.Add(-time.Hour)))
		b := routeBid(t, p.ID(), r.CourierID(), r.ID())

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.routeRepo.On("GetAllExpired", ctx, testNow).Return([]*route.Route{r}, nil)
		uow.bidRepo.On("GetOpenByRoute", ctx, r.ID()).Return([]*bid.Bid{b}, nil)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)

		sink := &recordingSink{}
		summary, err := newCleanupHandler(uow, sink).Handle(ctx, commands.NewCleanupExpiredRoutesCommand(true))

		require.NoError(t, err)
		assert.Equal(t, commands.CleanupRunSummary{RoutesDeactivated: 1, BidsWithdrawn: 1}, summary)
		assert.True(t, r.IsActive())
		assert.Equal(t, bid.Pending, b.Status())
		assert.Empty(t, sink.notes)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.routeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
