// Package notify is the per-campaign invalidation channel. A notification
// carries no payload: subscribers re-fetch and filter for themselves.
package notify

//go:generate mockgen -package=mocks -destination=mocks/mock_notify.go github.com/KirkDiggler/rollcall/internal/notify Broker,Subscription

import (
	"context"
	"errors"
)

// ErrBrokerClosed is returned by operations on a closed broker
var ErrBrokerClosed = errors.New("broker closed")

// Broker fans "something changed" signals out to a campaign's subscribers
type Broker interface {
	// Subscribe registers onNotify for a campaign. Callbacks for one
	// subscription run serially on that subscription's own goroutine;
	// bursts may coalesce into one call. The subscription ends when ctx is
	// done or Unsubscribe is called.
	Subscribe(ctx context.Context, campaignID string, onNotify func()) (Subscription, error)

	// Publish signals every subscriber of the campaign
	Publish(ctx context.Context, campaignID string) error
}

// Subscription is a live registration with a Broker
type Subscription interface {
	// Unsubscribe stops delivery; calling it more than once is a no-op
	Unsubscribe()
}

func validate(campaignID string, onNotify func()) error {
	if campaignID == "" {
		return errors.New("campaign ID cannot be empty")
	}
	if onNotify == nil {
		return errors.New("callback cannot be nil")
	}
	return nil
}
