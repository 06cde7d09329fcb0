package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"staybook/config"
	"staybook/database"
	orderRepo "staybook/database/repository/order"
	"staybook/services/inventory"
	"staybook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeHoldSweep = "hold:sweep"

// sweepBatchSize bounds the orders reclaimed per run so a backlog of
// abandoned checkouts cannot stall the worker.
const sweepBatchSize = 500

// Sweeper releases holds whose lease lapsed without a verify call. Expiry is
// otherwise only reclaimed lazily, which leaks cells for abandoned
// checkouts. Each order is reclaimed in its own transaction; the state-based
// filters make re-runs and concurrent lazy reclamation harmless.
type Sweeper struct {
	Orders orderRepo.OrderRepository
	Holds  inventory.HoldManager
	Tx     database.TxRunner
	Clock  utils.Clock
	Logger *zap.Logger
}

// InitHoldSweeper runs the async worker and its periodic schedule in the
// background. A non-positive interval disables the sweep entirely.
func InitHoldSweeper(sweeper *Sweeper, intervalMin int) {
	if intervalMin <= 0 {
		sweeper.Logger.Info("hold sweeper disabled")
		return
	}

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldSweep, sweeper.HandleSweepTask)

	scheduler := asynq.NewScheduler(redisOpts, nil)
	spec := fmt.Sprintf("@every %dm", intervalMin)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeHoldSweep, nil)); err != nil {
		log.Fatalf("[HoldSweeper] failed to register schedule: %v", err)
	}

	// Start worker and scheduler with retry logic.
	go runWithRetry("worker", func() error { return srv.Run(mux) })
	go runWithRetry("scheduler", func() error { return scheduler.Run() })
}

func runWithRetry(name string, run func() error) {
	const maxAttempts = 5
	log.Printf("[HoldSweeper] starting %s...", name)

	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err := run(); err != nil {
			log.Printf("[HoldSweeper] attempt %d/%d failed to start %s: %v", attempts, maxAttempts, name, err)
			if attempts == maxAttempts {
				log.Fatalf("[HoldSweeper] max retry attempts reached for %s", name)
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		} else {
			break
		}
	}
}

// HandleSweepTask reclaims one batch of expired pending orders.
func (s *Sweeper) HandleSweepTask(ctx context.Context, _ *asynq.Task) error {
	expired, err := s.Orders.FindExpiredPending(ctx, s.Clock.Now(), sweepBatchSize)
	if err != nil {
		s.Logger.Error("sweep query failed", zap.Error(err))
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	released := 0
	for _, o := range expired {
		err := s.Tx.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := s.Holds.ReleaseHold(txCtx, o.ID); err != nil {
				return err
			}
			return s.Orders.MarkFailed(txCtx, o.ID, s.Clock.Now())
		})
		if err != nil {
			s.Logger.Error("failed to reclaim expired order",
				zap.String("orderId", o.ID), zap.Error(err))
			continue
		}
		released++
	}

	s.Logger.Info("expired holds swept",
		zap.Int("expiredOrders", len(expired)),
		zap.Int("reclaimed", released))
	return nil
}
