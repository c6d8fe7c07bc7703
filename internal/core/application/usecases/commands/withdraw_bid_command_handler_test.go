package commands_test

import (
	"testing"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawBidCommandHandler_Handle(t *testing.T) {
	t.Run("should withdraw pending bid and decrement count", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)
		p.RegisterBid()
		b := buildBid(t, p.ID(), kernel.NewUUID())

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.bidRepo.On("Get", ctx, b.ID()).Return(b, nil)
		uow.bidRepo.On("Update", ctx, b).Return(nil)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)

		sink := &recordingSink{}
		handler := commands.NewWithdrawBidCommandHandler(
			stubBiddingUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewWithdrawBidCommand(b.ID(), b.CourierID())
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, cmd))

		assert.Equal(t, bid.Withdrawn, b.Status())
		assert.Zero(t, p.BidCount())
		require.Len(t, sink.notes, 1)
		assert.Equal(t, ports.NotificationBidWithdrawn, sink.notes[0].Kind)
	})

	t.Run("should reject withdrawal by another courier", func(t *testing.T) {
		ctx := t.Context()
		b := buildBid(t, kernel.NewUUID(), kernel.NewUUID())

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.bidRepo.On("Get", ctx, b.ID()).Return(b, nil)

		handler := commands.NewWithdrawBidCommandHandler(
			stubBiddingUoWFactory{uow}, &recordingSink{}, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewWithdrawBidCommand(b.ID(), kernel.NewUUID())
		require.NoError(t, err)

		err = handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrCourierDoesNotOwnBid)
		assert.Equal(t, bid.Pending, b.Status())
	})

	t.Run("should reject withdrawal of a selected bid", func(t *testing.T) {
		ctx := t.Context()
		b := buildBid(t, kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, b.Select(testNow))

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.bidRepo.On("Get", ctx, b.ID()).Return(b, nil)

		handler := commands.NewWithdrawBidCommandHandler(
			stubBiddingUoWFactory{uow}, &recordingSink{}, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewWithdrawBidCommand(b.ID(), b.CourierID())
		require.NoError(t, err)

		err = handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrBidIsNotPending)
	})
}
