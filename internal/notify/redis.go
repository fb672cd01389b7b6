package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// Channel prefix for Redis pub/sub
	diceRollsChannelPrefix = "dice_rolls:"

	// Payload is ignored by subscribers
	changedPayload = "changed"
)

// RedisConfig holds configuration for the Redis broker
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	Logger *zap.Logger
}

// RedisBroker is a Broker over Redis pub/sub, shared by every process
// connected to the same Redis
type RedisBroker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis creates a new Redis pub/sub broker
func NewRedis(cfg *RedisConfig) (*RedisBroker, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisBroker{
		client: cfg.RedisClient,
		logger: logger.Named("notify.redis"),
	}, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Subscribe waits for Redis to confirm the subscription before returning,
// so any Publish issued afterwards is delivered
func (b *RedisBroker) Subscribe(ctx context.Context, campaignID string, onNotify func()) (Subscription, error) {
	if err := validate(campaignID, onNotify); err != nil {
		return nil, err
	}

	channel := diceRollsChannelPrefix + campaignID
	pubsub := b.client.Subscribe(ctx, channel)

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	go b.messageLoop(ctx, sub, channel, onNotify)

	b.logger.Debug("subscribed", zap.String("channel", channel))

	return sub, nil
}

func (b *RedisBroker) messageLoop(ctx context.Context, sub *redisSubscription, channel string, onNotify func()) {
	msgChan := sub.pubsub.Channel()

	for {
		select {
		case <-sub.done:
			return
		case <-ctx.Done():
			sub.Unsubscribe()
			return
		case _, ok := <-msgChan:
			if !ok {
				b.logger.Warn("pubsub channel closed", zap.String("channel", channel))
				return
			}

			// Coalesce whatever else is already queued
		drain:
			for {
				select {
				case _, ok := <-msgChan:
					if !ok {
						break drain
					}
				default:
					break drain
				}
			}

			select {
			case <-sub.done:
				return
			default:
			}
			onNotify()
		}
	}
}

// Publish signals every subscriber of campaignID across processes
func (b *RedisBroker) Publish(ctx context.Context, campaignID string) error {
	if campaignID == "" {
		return errors.New("campaign ID cannot be empty")
	}

	channel := diceRollsChannelPrefix + campaignID
	if err := b.client.Publish(ctx, channel, changedPayload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}

	return nil
}

// Unsubscribe closes the underlying pub/sub connection
func (s *redisSubscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		_ = s.pubsub.Close()
	})
}
