package bidrepo_test

import (
	"context"
	"testing"
	"time"

	"crowdship/internal/adapters/out/postgres/bidrepo"
	"crowdship/internal/core/domain/model/bid"
	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// BidRepositoryIntegrationTestSuite provides integration tests for
// BidRepository using PostgreSQL containers to verify persistence behavior.
type BidRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *bidrepo.GormBidRepository
	tracker    *MockAggregateTracker
}

func (suite *BidRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&bidrepo.BidDTO{}))
}

func (suite *BidRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE bids").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = bidrepo.NewGormBidRepository(suite.db, suite.tracker)
}

func (suite *BidRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *BidRepositoryIntegrationTestSuite) TestAddAndGet_RoundTripsAllFields() {
	ctx := context.Background()

	routeID := kernel.NewUUID()
	hours := 6
	pickupAt := time.Now().UTC().Add(12 * time.Hour).Truncate(time.Microsecond)

	original, err := bid.NewBid(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &routeID,
		35.0, &hours, &pickupAt, "can pick up after work", suite.now())
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.ParcelID(), retrieved.ParcelID())
	suite.Equal(original.CourierID(), retrieved.CourierID())
	suite.Require().NotNil(retrieved.RouteID())
	suite.Equal(routeID, *retrieved.RouteID())
	suite.Equal(35.0, retrieved.Price())
	suite.Require().NotNil(retrieved.EstimatedHours())
	suite.Equal(hours, *retrieved.EstimatedHours())
	suite.Require().NotNil(retrieved.ProposedPickupTime())
	suite.WithinDuration(pickupAt, *retrieved.ProposedPickupTime(), time.Second)
	suite.Equal("can pick up after work", retrieved.Message())
	suite.Equal(bid.Pending, retrieved.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BidRepositoryIntegrationTestSuite) TestGet_NonExistentBid_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *BidRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusTransition() {
	ctx := context.Background()

	b := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), nil)
	suite.tracker.On("TrackAggregate", b.ID(), b).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, b))

	suite.Require().NoError(b.Select(suite.now()))
	suite.Require().NoError(suite.repository.Update(ctx, b))

	retrieved, err := suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Equal(bid.Selected, retrieved.Status())
	suite.NotNil(retrieved.SelectedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BidRepositoryIntegrationTestSuite) TestGetPendingForParcel_ExcludesClosedBids() {
	ctx := context.Background()

	parcelID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	pending := suite.createTestBid(parcelID, kernel.NewUUID(), nil)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	rejected := suite.createTestBid(parcelID, kernel.NewUUID(), nil)
	suite.Require().NoError(rejected.Reject())
	suite.Require().NoError(suite.repository.Add(ctx, rejected))

	otherParcel := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), nil)
	suite.Require().NoError(suite.repository.Add(ctx, otherParcel))

	withdrawn := suite.createTestBid(parcelID, kernel.NewUUID(), nil)
	suite.Require().NoError(withdrawn.Withdraw(suite.now()))
	suite.Require().NoError(suite.repository.Add(ctx, withdrawn))

	bids, err := suite.repository.GetPendingForParcel(ctx, parcelID)
	suite.Require().NoError(err)

	suite.Require().Len(bids, 1)
	suite.Equal(pending.ID(), bids[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BidRepositoryIntegrationTestSuite) TestGetOpenByRoute_ReturnsPendingAndSelected() {
	ctx := context.Background()

	routeID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	pending := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), &routeID)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	selected := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), &routeID)
	suite.Require().NoError(selected.Select(suite.now()))
	suite.Require().NoError(suite.repository.Add(ctx, selected))

	expired := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), &routeID)
	suite.Require().NoError(expired.Expire())
	suite.Require().NoError(suite.repository.Add(ctx, expired))

	noRoute := suite.createTestBid(kernel.NewUUID(), kernel.NewUUID(), nil)
	suite.Require().NoError(suite.repository.Add(ctx, noRoute))

	bids, err := suite.repository.GetOpenByRoute(ctx, routeID)
	suite.Require().NoError(err)

	suite.Require().Len(bids, 2)
	for _, b := range bids {
		suite.True(b.Status() == bid.Pending || b.Status() == bid.Selected)
		suite.Require().NotNil(b.RouteID())
		suite.Equal(routeID, *b.RouteID())
	}

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *BidRepositoryIntegrationTestSuite) TestGetByParcelAndCourier() {
	ctx := context.Background()

	parcelID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)

	own := suite.createTestBid(parcelID, courierID, nil)
	suite.Require().NoError(suite.repository.Add(ctx, own))

	other := suite.createTestBid(parcelID, kernel.NewUUID(), nil)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	found, err := suite.repository.GetByParcelAndCourier(ctx, parcelID, courierID)
	suite.Require().NoError(err)
	suite.Equal(own.ID(), found.ID())

	missing, err := suite.repository.GetByParcelAndCourier(ctx, parcelID, kernel.NewUUID())
	suite.Nil(missing)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

// createTestBid creates a pending bid with minimal optional fields.
func (suite *BidRepositoryIntegrationTestSuite) createTestBid(
	parcelID, courierID kernel.UUID, routeID *kernel.UUID,
) *bid.Bid {
	b, err := bid.NewBid(
		kernel.NewUUID(), parcelID, courierID, routeID,
		25.0, nil, nil, "", suite.now())
	suite.Require().NoError(err)
	return b
}

func (suite *BidRepositoryIntegrationTestSuite) now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func TestBidRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BidRepositoryIntegrationTestSuite))
}
