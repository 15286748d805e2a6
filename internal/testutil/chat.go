package testutil

import (
	"sync"

	"github.com/Dias221467/Language_Exchange/internal/chat"
)

// ChatRecorder records scheduled chat syncs instead of calling a provider.
// NoToken makes Token behave like a disabled provider.
type ChatRecorder struct {
	mu      sync.Mutex
	Synced  []string
	NoToken bool
}

func (c *ChatRecorder) Schedule(id, name, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Synced = append(c.Synced, id+"|"+name+"|"+image)
}

func (c *ChatRecorder) Token(userID string) (string, error) {
	if c.NoToken {
		return "", chat.ErrDisabled
	}
	return "chat-token-" + userID, nil
}

// Calls returns a copy of the recorded syncs.
func (c *ChatRecorder) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Synced...)
}
