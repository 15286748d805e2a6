package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct{ runs atomic.Int32 }

func (c *countingReconciler) Run(context.Context) (int, error) {
	c.runs.Add(1)
	return 0, nil
}

type noopCleaner struct{}

func (noopCleaner) DeleteExpiredNotifications(context.Context) error { return nil }

func TestStartRejectsBadSchedule(t *testing.T) {
	_, err := Start("every now and then", &countingReconciler{}, noopCleaner{})
	assert.Error(t, err)
}

func TestStartRunsReconciler(t *testing.T) {
	rec := &countingReconciler{}
	c, err := Start("@every 1s", rec, noopCleaner{})
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return rec.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	assert.Len(t, c.Entries(), 2)
}
