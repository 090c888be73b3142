package scheduler

import (
	"time"

	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pruner drops stored audit entries older than a cutoff.
type Pruner interface {
	PruneBefore(cutoff time.Time) int
	Now() time.Time
}

// Retention periodically removes audit entries older than MaxAge from the
// in-memory log and, when a database is set, from the system_logs mirror.
type Retention struct {
	store  Pruner
	db     *gorm.DB
	maxAge time.Duration
	cron   *cron.Cron
	logger *zap.Logger
}

// NewRetention creates the job. db may be nil.
func NewRetention(store Pruner, db *gorm.DB, maxAge time.Duration, logger *zap.Logger) *Retention {
	return &Retention{
		store:  store,
		db:     db,
		maxAge: maxAge,
		cron:   cron.New(),
		logger: logger.Named("retention"),
	}
}

// Start schedules the job with a cron expression such as "@every 10m".
func (r *Retention) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce() }); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("retention scheduler started", zap.String("schedule", schedule), zap.Duration("max_age", r.maxAge))
	return nil
}

// Stop waits for a running job to finish.
func (r *Retention) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("retention scheduler stopped")
}

// RunOnce prunes immediately and returns how many in-memory entries were dropped.
func (r *Retention) RunOnce() int {
	cutoff := r.store.Now().Add(-r.maxAge)
	dropped := r.store.PruneBefore(cutoff)

	var mirrored int64
	if r.db != nil {
		res := r.db.Unscoped().Where("timestamp < ?", cutoff).Delete(&model.SystemLogRecord{})
		if res.Error != nil {
			r.logger.Warn("failed to prune system_logs", zap.Error(res.Error))
		}
		mirrored = res.RowsAffected
	}

	if dropped > 0 || mirrored > 0 {
		r.logger.Info("pruned audit entries",
			zap.Int("memory", dropped),
			zap.Int64("database", mirrored),
			zap.Time("cutoff", cutoff),
		)
	}
	return dropped
}
