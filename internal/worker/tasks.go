package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/service"
)

type BackgroundTasks struct {
	OrderService service.OrderService
	OutboxRelay  service.OutboxRelay

	cfg    config.Worker
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewBackgroundTasks(orderService service.OrderService, relay service.OutboxRelay, cfg config.Worker, logger *slog.Logger) *BackgroundTasks {
	if logger == nil {
		logger = slog.Default()
	}

	return &BackgroundTasks{
		OrderService: orderService,
		OutboxRelay:  relay,
		cfg:          cfg,
		logger:       logger,
	}
}

// StartAll runs every task until ctx is cancelled. Wait blocks until they stop.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(2)
	go bt.startOrderExpirySweep(ctx)
	go bt.startOutboxRelay(ctx)
}

func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startOrderExpirySweep(ctx context.Context) {
	defer bt.wg.Done()

	// orders that fell due while the process was down expire right away
	bt.sweepExpired(ctx)

	ticker := time.NewTicker(interval(bt.cfg.ExpirySweepInterval, 15*time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.sweepExpired(ctx)
		}
	}
}

func (bt *BackgroundTasks) sweepExpired(ctx context.Context) {
	n, err := bt.OrderService.ExpireDue(ctx)
	if err != nil {
		bt.logger.ErrorContext(ctx, "order expiry sweep failed", "error", err)
		return
	}
	if n > 0 {
		bt.logger.InfoContext(ctx, "expired unpaid orders", "count", n)
	}
}

func (bt *BackgroundTasks) startOutboxRelay(ctx context.Context) {
	defer bt.wg.Done()

	ticker := time.NewTicker(interval(bt.cfg.OutboxRelayInterval, 5*time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.OutboxRelay.RelayBatch(ctx); err != nil {
				bt.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

func interval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
