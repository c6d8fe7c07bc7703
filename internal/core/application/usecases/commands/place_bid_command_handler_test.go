package commands_test

import (
	"testing"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/ports"
	"crowdship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildBid(t *testing.T, parcelID, courierID kernel.UUID) *bid.Bid {
	t.Helper()
	b, err := bid.NewBid(
		kernel.NewUUID(), parcelID, courierID,
		nil, 15.0, nil, nil, "", testNow)
	require.NoError(t, err)
	return b
}

func TestPlaceBidCommandHandler_Handle(t *testing.T) {
	t.Run("should store bid, bump count and notify sender", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)
		courierID := kernel.NewUUID()

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)
		uow.bidRepo.On("GetByParcelAndCourier", ctx, p.ID(), courierID).
			Return(nil, errs.NewObjectNotFoundError("bid", courierID))
		uow.bidRepo.On("Add", ctx, mock.AnythingOfType("*bid.Bid")).Return(nil)

		sink := &recordingSink{}
		handler := commands.NewPlaceBidCommandHandler(
			stubBiddingUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewPlaceBidCommand(
			kernel.NewUUID(), p.ID(), courierID, nil, 15.0, nil, nil, "")
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, cmd))

		assert.Equal(t, 1, p.BidCount())
		require.Len(t, sink.notes, 1)
		assert.Equal(t, ports.NotificationBidPlaced, sink.notes[0].Kind)
		uow.AssertExpectations(t)
		uow.bidRepo.AssertExpectations(t)
	})

	t.Run("should reject duplicate bid by the same courier", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)
		courierID := kernel.NewUUID()

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.bidRepo.On("GetByParcelAndCourier", ctx, p.ID(), courierID).
			Return(buildBid(t, p.ID(), courierID), nil)

		handler := commands.NewPlaceBidCommandHandler(
			stubBiddingUoWFactory{uow}, &recordingSink{}, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewPlaceBidCommand(
			kernel.NewUUID(), p.ID(), courierID, nil, 15.0, nil, nil, "")
		require.NoError(t, err)

		err = handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrBidAlreadyPlaced)
		assert.Zero(t, p.BidCount())
	})

	t.Run("should reject bids on closed parcels", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)
		require.NoError(t, p.ChangeStatus(parcel.Canceled, testNow))

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)

		handler := commands.NewPlaceBidCommandHandler(
			stubBiddingUoWFactory{uow}, &recordingSink{}, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewPlaceBidCommand(
			kernel.NewUUID(), p.ID(), kernel.NewUUID(), nil, 15.0, nil, nil, "")
		require.NoError(t, err)

		err = handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrParcelIsNotOpenForBids)
	})
}
