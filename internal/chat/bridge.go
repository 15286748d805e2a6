// Package chat keeps local users in sync with the hosted chat provider.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v6"
	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned by the no-op bridge when no provider is configured.
var ErrDisabled = errors.New("chat provider is not configured")

// Bridge is the contract with the external chat provider.
type Bridge interface {
	UpsertUser(ctx context.Context, id, name, image string) error
	CreateToken(userID string) (string, error)
}

// StreamBridge talks to Stream Chat.
type StreamBridge struct {
	client *stream.Client
}

// NewStreamBridge builds a bridge from API credentials.
func NewStreamBridge(apiKey, apiSecret string) (*StreamBridge, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %w", err)
	}
	return &StreamBridge{client: client}, nil
}

func (b *StreamBridge) UpsertUser(ctx context.Context, id, name, image string) error {
	_, err := b.client.UpsertUser(ctx, &stream.User{
		ID:    id,
		Name:  name,
		Image: image,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert stream user %s: %w", id, err)
	}
	return nil
}

// CreateToken issues a non-expiring user token for the chat client.
func (b *StreamBridge) CreateToken(userID string) (string, error) {
	token, err := b.client.CreateToken(userID, time.Time{})
	if err != nil {
		return "", fmt.Errorf("failed to create stream token: %w", err)
	}
	return token, nil
}

// NoopBridge is used when no chat credentials are configured.
type NoopBridge struct{}

func (NoopBridge) UpsertUser(_ context.Context, id, _, _ string) error {
	logrus.WithField("userID", id).Debug("Chat provider disabled, skipping user upsert")
	return nil
}

func (NoopBridge) CreateToken(string) (string, error) {
	return "", ErrDisabled
}

// NewBridge returns a StreamBridge when credentials are present and a
// NoopBridge otherwise.
func NewBridge(apiKey, apiSecret string) (Bridge, error) {
	if apiKey == "" || apiSecret == "" {
		logrus.Warn("STREAM_API_KEY/STREAM_API_SECRET not set, chat sync disabled")
		return NoopBridge{}, nil
	}
	return NewStreamBridge(apiKey, apiSecret)
}
