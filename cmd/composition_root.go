package cmd

import (
	"log/slog"

	"crowdship/internal/adapters/out/notify"
	"crowdship/internal/adapters/out/postgres"
	"crowdship/internal/adapters/out/redislock"
	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/ports"
	"crowdship/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	sink       ports.NotificationSink
	clock      ports.Clock
	jobLock    ports.JobLock
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		sink:       notify.NewGormNotificationSink(gormDB),
		clock:      ports.SystemClock{},
		jobLock:    redislock.NewRedisJobLock(redisClient),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateChangeParcelStatusCommandHandler() commands.ChangeParcelStatusCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeParcelStatusCommandHandler(f, c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreatePlaceBidCommandHandler() commands.PlaceBidCommandHandler {
	return commands.NewPlaceBidCommandHandler(c.biddingUoWFactory(), c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSelectBidCommandHandler() commands.SelectBidCommandHandler {
	return commands.NewSelectBidCommandHandler(c.biddingUoWFactory(), c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateWithdrawBidCommandHandler() commands.WithdrawBidCommandHandler {
	return commands.NewWithdrawBidCommandHandler(c.biddingUoWFactory(), c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateProcessBiddingDeadlinesCommandHandler() commands.ProcessBiddingDeadlinesCommandHandler {
	return commands.NewProcessBiddingDeadlinesCommandHandler(c.biddingUoWFactory(), c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCleanupExpiredRoutesCommandHandler() commands.CleanupExpiredRoutesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCleanupExpiredRoutesCommandHandler(f, c.sink, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetMatchingParcelsQueryHandler() queries.GetMatchingParcelsQueryHandler {
	return queries.NewGetMatchingParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenParcelsQueryHandler() queries.GetOpenParcelsQueryHandler {
	return queries.NewGetOpenParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateProcessBiddingDeadlinesCommandHandler(),
		c.CreateCleanupExpiredRoutesCommandHandler(),
		c.jobLock,
		c.logger,
	)
}

func (c *CompositionRoot) biddingUoWFactory() commands.BiddingUoWFactory {
	return FuncBiddingUoWFactory(func() commands.BiddingUoW {
		return c.uowFactory.Create()
	})
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncBiddingUoWFactory func() commands.BiddingUoW

func (f FuncBiddingUoWFactory) Create() commands.BiddingUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
