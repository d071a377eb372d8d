package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

// envelope is the wire format relayed between instances. Origin identifies
// the publishing instance so it can skip its own messages when they echo
// back from the pub/sub channel.
type envelope struct {
	Origin      string          `json:"origin"`
	RecipientID string          `json:"recipient_id"`
	Payload     json.RawMessage `json:"payload"`
}

// RedisBridge extends a local Registry with cross-instance fan-out over a
// Redis pub/sub channel. Local sinks receive the event synchronously from
// Publish; sinks on other instances receive it through the relay loop.
type RedisBridge struct {
	local      *Registry
	rdb        redis.UniversalClient
	channel    string
	instanceID string
	log        *slog.Logger
	closed     bool
	mu         sync.Mutex
}

// RedisBridgeOption configures a RedisBridge.
type RedisBridgeOption func(*RedisBridge)

// WithBridgeLogger sets the logger used for relay failures.
func WithBridgeLogger(log *slog.Logger) RedisBridgeOption {
	return func(b *RedisBridge) {
		if log != nil {
			b.log = log
		}
	}
}

// WithBridgeChannel overrides the pub/sub channel name.
func WithBridgeChannel(name string) RedisBridgeOption {
	return func(b *RedisBridge) {
		if name != "" {
			b.channel = name
		}
	}
}

// NewRedisBridge wraps the local registry with a Redis relay.
func NewRedisBridge(local *Registry, rdb redis.UniversalClient, opts ...RedisBridgeOption) *RedisBridge {
	b := &RedisBridge{
		local:      local,
		rdb:        rdb,
		channel:    "notifyhub:events",
		instanceID: uuid.New().String(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers to local sinks first, then relays the envelope to the
// pub/sub channel for other instances. A relay failure is logged and not
// surfaced: local delivery already happened and absence of remote listeners
// is not exceptional.
func (b *RedisBridge) Publish(recipientID string, payload any) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBridgeClosed
	}
	b.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrMarshalPayload, err)
	}

	b.local.publishRaw(recipientID, data)

	env, err := json.Marshal(envelope{
		Origin:      b.instanceID,
		RecipientID: recipientID,
		Payload:     data,
	})
	if err != nil {
		return errors.Join(ErrMarshalPayload, err)
	}

	if err := b.rdb.Publish(context.Background(), b.channel, env).Err(); err != nil {
		b.log.LogAttrs(context.Background(), slog.LevelWarn, "failed to relay event to redis",
			logger.RecipientID(recipientID),
			logger.Error(err),
		)
	}
	return nil
}

// Run subscribes to the relay channel and feeds remote events into the local
// registry until ctx is cancelled. It blocks and always returns a nil error
// on clean shutdown.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer func() {
		_ = sub.Close()
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.relay([]byte(msg.Payload))
		}
	}
}

// relay applies one pub/sub message to the local registry, skipping messages
// this instance published itself.
func (b *RedisBridge) relay(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		b.log.LogAttrs(context.Background(), slog.LevelWarn, "dropping malformed relay envelope",
			logger.Error(err),
		)
		return
	}
	if env.Origin == b.instanceID {
		return
	}
	b.local.publishRaw(env.RecipientID, env.Payload)
}
