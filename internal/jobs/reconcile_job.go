package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/port"
)

// ReconcileJob releases stock reservations that were decremented but
// never consumed by a persisted order, which can happen if the process
// dies between the reservation commit and the order transaction.
type ReconcileJob struct {
	medicines port.MedicineRepository
	cron      *cron.Cron
	schedule  string
	ttl       time.Duration
	logger    *zap.Logger
}

func NewReconcileJob(medicines port.MedicineRepository, schedule string,
	ttl time.Duration, logger *zap.Logger) *ReconcileJob {
	return &ReconcileJob{
		medicines: medicines,
		cron:      cron.New(),
		schedule:  schedule,
		ttl:       ttl,
		logger:    logger,
	}
}

func (j *ReconcileJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		released, err := j.medicines.ReleaseExpiredReservations(ctx, j.ttl)
		if err != nil {
			j.logger.Error("stock reconciliation failed", zap.Error(err))
			return
		}
		if released > 0 {
			j.logger.Info("released expired stock reservations", zap.Int("count", released))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("stock reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *ReconcileJob) Stop() {
	j.cron.Stop()
	j.logger.Info("stock reconciliation job stopped")
}
