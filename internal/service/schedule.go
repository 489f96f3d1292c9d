package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// backupJobTimeout bounds a single scheduled run.
const backupJobTimeout = 5 * time.Minute

// ScheduleBackups registers a Backup run on the standard cron spec. The
// returned scheduler is not started.
func ScheduleBackups(spec string, svc BackupService, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), backupJobTimeout)
		defer cancel()

		log.Info("running scheduled backup")
		res, err := svc.Backup(ctx)
		if err != nil {
			log.Error("scheduled backup failed", zap.Error(err))
			return
		}
		log.Info("scheduled backup completed", zap.String("key", res.Key), zap.Int64("size", res.Size))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return c, nil
}
