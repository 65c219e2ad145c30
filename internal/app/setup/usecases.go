package setup

import (
	"github.com/LavaJover/shvark-payout-forecast/internal/app/background"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	usecase "github.com/LavaJover/shvark-payout-forecast/internal/usecase/payout"
)

type UseCases struct {
	ForecastUsecase *usecase.DefaultPayoutForecastUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	// A nil *DefaultKafkaPublisher must not become a non-nil interface.
	var pub domain.PublisherPort
	if deps.Publisher != nil {
		pub = deps.Publisher
	}
	forecastUsecase := usecase.NewDefaultPayoutForecastUsecase(
		deps.Repositories.PayoutRepo,
		deps.Repositories.AccountRepo,
		deps.Repositories.EventRepo,
		deps.Repositories.AccuracyRepo,
		deps.Locker,
		deps.Defaults,
		pub,
		deps.Metrics,
		deps.RunLogger,
	)
	return &UseCases{ForecastUsecase: forecastUsecase}
}

func InitializeBackgroundTasks(deps *Dependencies, ucs *UseCases) *background.BackgroundTasks {
	var scheduler *background.Scheduler
	if deps.Config.Scheduler.Enabled {
		scheduler = background.NewScheduler(ucs.ForecastUsecase, deps.Repositories.AccountRepo, deps.Metrics, deps.Config.Scheduler)
	}
	var consumer *background.PayoutConfirmedConsumer
	if deps.Subscriber != nil {
		consumer = background.NewPayoutConfirmedConsumer(deps.Subscriber, ucs.ForecastUsecase, deps.Config.KafkaService.GroupID)
	}
	return background.NewBackgroundTasks(scheduler, consumer)
}
