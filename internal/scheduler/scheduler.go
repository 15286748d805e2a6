package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

// Reconciler repairs friend sets.
type Reconciler interface {
	Run(ctx context.Context) (int, error)
}

// NotificationCleaner removes expired notifications.
type NotificationCleaner interface {
	DeleteExpiredNotifications(ctx context.Context) error
}

// Start registers the background jobs and starts the cron runner. The caller
// stops it on shutdown.
func Start(reconcileSchedule string, reconciler Reconciler, notifications NotificationCleaner) (*cron.Cron, error) {
	c := cron.New()

	// Friend-set repair
	if _, err := c.AddFunc(reconcileSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := reconciler.Run(ctx); err != nil {
			logrus.WithError(err).Error("Friendship reconciliation failed")
		}
	}); err != nil {
		return nil, err
	}

	// Expired notification cleanup
	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := notifications.DeleteExpiredNotifications(ctx); err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
