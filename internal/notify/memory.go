package notify

import (
	"context"
	"errors"
	"sync"
)

// MemoryBroker is an in-process Broker
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[*memorySubscription]struct{}
	closed bool
}

// NewMemory creates a new in-process broker
func NewMemory() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[*memorySubscription]struct{}),
	}
}

type memorySubscription struct {
	broker     *MemoryBroker
	campaignID string
	onNotify   func()

	// signal holds at most one pending notification
	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Subscribe registers onNotify for campaignID
func (b *MemoryBroker) Subscribe(ctx context.Context, campaignID string, onNotify func()) (Subscription, error) {
	if err := validate(campaignID, onNotify); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &memorySubscription{
		broker:     b,
		campaignID: campaignID,
		onNotify:   onNotify,
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	if b.subs[campaignID] == nil {
		b.subs[campaignID] = make(map[*memorySubscription]struct{})
	}
	b.subs[campaignID][sub] = struct{}{}
	b.mu.Unlock()

	go sub.run(ctx)

	return sub, nil
}

// Publish signals every subscriber of campaignID without blocking
func (b *MemoryBroker) Publish(ctx context.Context, campaignID string) error {
	if campaignID == "" {
		return errors.New("campaign ID cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for sub := range b.subs[campaignID] {
		select {
		case sub.signal <- struct{}{}:
		default:
			// a notification is already pending
		}
	}

	return nil
}

// Close ends every subscription
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	var all []*memorySubscription
	for _, subs := range b.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Unsubscribe()
	}
	return nil
}

// Subscribers reports how many subscriptions a campaign has
func (b *MemoryBroker) Subscribers(campaignID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[campaignID])
}

func (s *memorySubscription) run(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.Unsubscribe()
			return
		case <-s.signal:
			select {
			case <-s.done:
				return
			default:
			}
			s.onNotify()
		}
	}
}

// Unsubscribe removes the subscription from the broker
func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		if subs, ok := s.broker.subs[s.campaignID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.broker.subs, s.campaignID)
			}
		}
		s.broker.mu.Unlock()
		close(s.done)
	})
}
