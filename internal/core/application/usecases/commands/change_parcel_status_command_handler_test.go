package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func buildParcel(t *testing.T) *parcel.Parcel {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(34.05, -118.24)
	require.NoError(t, err)
	dropoff, err := kernel.NewGeoPoint(32.72, -117.16)
	require.NoError(t, err)

	p, err := parcel.NewParcel(
		kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff,
		"100 Main St", "200 Harbor Dr",
		parcel.SizeSmall, 1.0, 20.0, false, testNow)
	require.NoError(t, err)
	return p
}

func TestChangeParcelStatusCommandHandler_Handle(t *testing.T) {
	t.Run("should apply transition and notify sender", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)

		sink := &recordingSink{}
		handler := commands.NewChangeParcelStatusCommandHandler(
			stubParcelUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewChangeParcelStatusCommand(
			p.ID(), p.SenderID(), parcel.OpenForBids, false, false)
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, cmd))

		assert.Equal(t, parcel.OpenForBids, p.Status())
		require.Len(t, sink.notes, 1)
		assert.Equal(t, p.SenderID(), sink.notes[0].UserID)
		assert.Equal(t, ports.NotificationStatusChanged, sink.notes[0].Kind)
		uow.AssertExpectations(t)
		uow.parcelRepo.AssertExpectations(t)
	})

	t.Run("invalid transition rolls back without notification", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)

		uow := NewMockUoW()
		uow.expectTx(false)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)

		sink := &recordingSink{}
		handler := commands.NewChangeParcelStatusCommandHandler(
			stubParcelUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewChangeParcelStatusCommand(
			p.ID(), p.SenderID(), parcel.Delivered, false, false)
		require.NoError(t, err)

		require.Error(t, handler.Handle(ctx, cmd))

		assert.Equal(t, parcel.New, p.Status())
		assert.Empty(t, sink.notes)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.parcelRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the command", func(t *testing.T) {
		ctx := t.Context()
		p := buildParcel(t)

		uow := NewMockUoW()
		uow.expectTx(true)
		uow.parcelRepo.On("Get", ctx, p.ID()).Return(p, nil)
		uow.parcelRepo.On("Update", ctx, p).Return(nil)

		sink := &recordingSink{err: assert.AnError}
		handler := commands.NewChangeParcelStatusCommandHandler(
			stubParcelUoWFactory{uow}, sink, fixedClock{testNow}, testLogger())

		cmd, err := commands.NewChangeParcelStatusCommand(
			p.ID(), p.SenderID(), parcel.Canceled, false, false)
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, cmd))
		assert.Equal(t, parcel.Canceled, p.Status())
	})
}
