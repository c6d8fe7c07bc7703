package commands_test

import (
	"context"
	"time"

	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/core/domain/model/parcel"
	"crowdship/internal/core/domain/model/route"
	"crowdship/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetAllOpenForMatching(ctx context.Context) ([]*parcel.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetAllBiddingWithDeadline(ctx context.Context) ([]*parcel.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetAllAssignedToCourier(ctx context.Context, courierID kernel.UUID) ([]*parcel.Parcel, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

type MockBidRepository struct{ mock.Mock }

func (m *MockBidRepository) Add(ctx context.Context, b *bid.Bid) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBidRepository) Update(ctx context.Context, b *bid.Bid) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBidRepository) Get(ctx context.Context, id kernel.UUID) (*bid.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bid.Bid), args.Error(1)
}

func (m *MockBidRepository) GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bid.Bid), args.Error(1)
}

func (m *MockBidRepository) GetPendingForParcel(ctx context.Context, parcelID kernel.UUID) ([]*bid.Bid, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bid.Bid), args.Error(1)
}

func (m *MockBidRepository) GetOpenByRoute(ctx context.Context, routeID kernel.UUID) ([]*bid.Bid, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bid.Bid), args.Error(1)
}

func (m *MockBidRepository) GetByParcelAndCourier(ctx context.Context, parcelID, courierID kernel.UUID) (*bid.Bid, error) {
	args := m.Called(ctx, parcelID, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bid.Bid), args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetAllActive(ctx context.Context) ([]*route.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetAllExpired(ctx context.Context, now time.Time) ([]*route.Route, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.Route), args.Error(1)
}

// MockUoW satisfies every unit of work interface in this package so one
// double serves all handlers.
type MockUoW struct {
	mock.Mock

	parcelRepo *MockParcelRepository
	bidRepo    *MockBidRepository
	routeRepo  *MockRouteRepository
}

func NewMockUoW() *MockUoW {
	return &MockUoW{
		parcelRepo: &MockParcelRepository{},
		bidRepo:    &MockBidRepository{},
		routeRepo:  &MockRouteRepository{},
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository { return m.parcelRepo }
func (m *MockUoW) BidRepository() ports.BidRepository       { return m.bidRepo }
func (m *MockUoW) RouteRepository() ports.RouteRepository   { return m.routeRepo }

// expectTx wires the usual Begin/Rollback pair plus an optional Commit.
func (m *MockUoW) expectTx(commit bool) {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything).Return(nil)
	if commit {
		m.On("Commit", mock.Anything).Return(nil)
	}
}

type stubParcelUoWFactory struct{ uow commands.ParcelUoW }

func (f stubParcelUoWFactory) Create() commands.ParcelUoW { return f.uow }

type stubBiddingUoWFactory struct{ uow commands.BiddingUoW }

func (f stubBiddingUoWFactory) Create() commands.BiddingUoW { return f.uow }

type stubUoWFactory struct{ uow commands.UoW }

func (f stubUoWFactory) Create() commands.UoW { return f.uow }

// sentNote captures one NotificationSink call for assertions.
type sentNote struct {
	UserID   kernel.UUID
	Kind     ports.NotificationKind
	Message  string
	ParcelID *kernel.UUID
}

// recordingSink collects notifications instead of delivering them.
type recordingSink struct {
	notes []sentNote
	err   error
}

func (s *recordingSink) Notify(_ context.Context, userID kernel.UUID, kind ports.NotificationKind, message string, parcelID *kernel.UUID) error {
	s.notes = append(s.notes, sentNote{UserID: userID, Kind: kind, Message: message, ParcelID: parcelID})
	return s.err
}

func (s *recordingSink) kinds() []ports.NotificationKind {
	kinds := make([]ports.NotificationKind, 0, len(s.notes))
	for _, n := range s.notes {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

// fixedClock pins Now for deterministic handler behavior.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
