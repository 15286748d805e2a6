package chat

import (
	"context"
	"sync"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/sirupsen/logrus"
)

const defaultSyncTimeout = 10 * time.Second

// Syncer pushes user identities to the chat provider in the background.
// A sync never blocks or fails the caller and is never retried; failures
// are logged and counted in metrics.ChatSync.
type Syncer struct {
	bridge  Bridge
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewSyncer(bridge Bridge, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	return &Syncer{bridge: bridge, timeout: timeout}
}

// Schedule upserts the user on a separate goroutine. The caller's context is
// not used so the sync outlives the HTTP request.
func (s *Syncer) Schedule(id, name, image string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.bridge.UpsertUser(ctx, id, name, image); err != nil {
			metrics.ChatSync.WithLabelValues("failure").Inc()
			logrus.WithFields(logrus.Fields{
				"userID": id,
				"error":  err,
			}).Warn("Chat user sync failed")
			return
		}
		metrics.ChatSync.WithLabelValues("success").Inc()
		logrus.WithField("userID", id).Info("Chat user synced")
	}()
}

// Wait blocks until every scheduled sync has finished.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// Token issues a chat token for userID.
func (s *Syncer) Token(userID string) (string, error) {
	return s.bridge.CreateToken(userID)
}
