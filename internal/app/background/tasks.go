package background

import (
	"context"
	"log/slog"
	"sync"
)

type BackgroundTasks struct {
	Scheduler *Scheduler
	Consumer  *PayoutConfirmedConsumer

	wg sync.WaitGroup
}

func NewBackgroundTasks(scheduler *Scheduler, consumer *PayoutConfirmedConsumer) *BackgroundTasks {
	return &BackgroundTasks{
		Scheduler: scheduler,
		Consumer:  consumer,
	}
}

// StartAll launches every configured task. Nil tasks are skipped.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.Scheduler != nil {
		bt.start(func() {
			if err := bt.Scheduler.Start(ctx); err != nil {
				slog.Error("forecast scheduler stopped", "error", err)
			}
		})
	}
	if bt.Consumer != nil {
		bt.start(func() {
			if err := bt.Consumer.Run(ctx); err != nil {
				slog.Error("payout-confirmed consumer stopped", "error", err)
			}
		})
	}
}

func (bt *BackgroundTasks) start(fn func()) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		fn()
	}()
}

// Wait blocks until every started task has returned.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}
