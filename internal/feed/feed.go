// Package feed keeps one client's view of one campaign's rolls in step with
// the store. A feed subscribes to campaign notifications and re-fetches on
// every signal; it never shows a roll the store has not confirmed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/notify"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"go.uber.org/zap"
)

var (
	// ErrFeedStopped is returned by operations on a stopped feed
	ErrFeedStopped = errors.New("feed stopped")

	// ErrFeedStarted is returned when Start is called twice
	ErrFeedStarted = errors.New("feed already started")
)

// Config holds configuration for a feed
type Config struct {
	CampaignID string

	// Viewer decides which rolls the feed shows
	Viewer models.Viewer

	// Limit is the number of rolls fetched; zero uses the service default
	Limit int

	RollService roll.Service
	Broker      notify.Broker

	// OnChange receives a snapshot after every applied fetch (optional)
	OnChange func(rolls []*models.DiceRoll)

	// Optional
	Logger *zap.Logger
}

// Feed is one client's view of one campaign
type Feed struct {
	campaignID  string
	viewer      models.Viewer
	limit       int
	rollService roll.Service
	broker      notify.Broker
	onChange    func(rolls []*models.DiceRoll)
	logger      *zap.Logger

	mu         sync.Mutex
	rolls      []*models.DiceRoll
	generation uint64
	applied    uint64
	cancel     context.CancelFunc
	sub        notify.Subscription
	baseCtx    context.Context
	started    bool
	stopped    bool

	// emitMu keeps OnChange calls in applied order
	emitMu sync.Mutex
}

// New creates a feed; call Start to begin receiving updates
func New(cfg *Config) (*Feed, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.CampaignID == "" {
		return nil, errors.New("campaign ID cannot be empty")
	}

	if cfg.RollService == nil {
		return nil, errors.New("roll service cannot be nil")
	}

	if cfg.Broker == nil {
		return nil, errors.New("broker cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Feed{
		campaignID:  cfg.CampaignID,
		viewer:      cfg.Viewer,
		limit:       cfg.Limit,
		rollService: cfg.RollService,
		broker:      cfg.Broker,
		onChange:    cfg.OnChange,
		logger: logger.Named("feed").With(
			zap.String("campaign_id", cfg.CampaignID),
			zap.String("viewer_id", cfg.Viewer.ID),
		),
	}, nil
}

// Start subscribes to the campaign and then performs the initial fetch.
// Subscribing first means no write between the two is missed. The
// subscription lives until Stop or until ctx is done.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return ErrFeedStopped
	}
	if f.started {
		f.mu.Unlock()
		return ErrFeedStarted
	}
	f.started = true
	f.baseCtx = ctx
	f.mu.Unlock()

	sub, err := f.broker.Subscribe(ctx, f.campaignID, f.handleNotification)
	if err != nil {
		f.mu.Lock()
		f.started = false
		f.mu.Unlock()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		sub.Unsubscribe()
		return ErrFeedStopped
	}
	f.sub = sub
	f.mu.Unlock()

	return f.Refresh(ctx)
}

// Stop unsubscribes and cancels any in-flight fetch. Safe to call twice.
func (f *Feed) Stop() {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	sub := f.sub
	f.sub = nil
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Refresh re-fetches the viewer's history. Starting a refresh cancels the
// one in flight; only the newest refresh may replace the feed's rolls. A
// superseded refresh returns nil. A failed fetch leaves the rolls as they
// were and returns the error.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return ErrFeedStopped
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.generation++
	gen := f.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()
	defer cancel()

	out, err := f.rollService.History(fetchCtx, &roll.HistoryInput{
		CampaignID: f.campaignID,
		Viewer:     f.viewer,
		Limit:      f.limit,
	})

	f.emitMu.Lock()
	defer f.emitMu.Unlock()

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return ErrFeedStopped
	}
	if gen < f.generation || gen <= f.applied {
		f.mu.Unlock()
		f.logger.Debug("discarding superseded fetch", zap.Uint64("generation", gen))
		return nil
	}
	if f.cancel != nil && gen == f.generation {
		f.cancel = nil
	}
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn("failed to refresh rolls", zap.Error(err))
		return err
	}

	f.rolls = out.Rolls
	f.applied = gen
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if f.onChange != nil {
		f.onChange(snapshot)
	}

	return nil
}

// Roll makes a roll as the feed's viewer and refreshes once the store has
// confirmed it. A refresh failure is logged; the roll itself stands.
func (f *Feed) Roll(ctx context.Context, input *RollInput) (*roll.RollOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	out, err := f.rollService.Roll(ctx, &roll.RollInput{
		CampaignID:      f.campaignID,
		Viewer:          f.viewer,
		Sides:           input.Sides,
		DiceCount:       input.DiceCount,
		BatchCount:      input.BatchCount,
		Modifier:        input.Modifier,
		Mode:            input.Mode,
		MasterRoll:      input.MasterRoll,
		HideFromPlayers: input.HideFromPlayers,
	})
	if err != nil {
		return nil, err
	}

	if err := f.Refresh(ctx); err != nil {
		f.logger.Warn("failed to refresh after roll",
			zap.String("roll_id", out.Roll.ID),
			zap.Error(err),
		)
	}

	return out, nil
}

// Clear deletes every roll in the campaign as the feed's viewer and refreshes
func (f *Feed) Clear(ctx context.Context) (*roll.ClearAllOutput, error) {
	out, err := f.rollService.ClearAll(ctx, &roll.ClearAllInput{
		CampaignID: f.campaignID,
		Viewer:     f.viewer,
	})
	if err != nil {
		return nil, err
	}

	if err := f.Refresh(ctx); err != nil {
		f.logger.Warn("failed to refresh after clear", zap.Error(err))
	}

	return out, nil
}

// Rolls returns a snapshot of the feed's rolls, newest first
func (f *Feed) Rolls() []*models.DiceRoll {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// CampaignID returns the campaign the feed follows
func (f *Feed) CampaignID() string {
	return f.campaignID
}

func (f *Feed) handleNotification() {
	f.mu.Lock()
	ctx := f.baseCtx
	f.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	if err := f.Refresh(ctx); err != nil && !errors.Is(err, ErrFeedStopped) {
		f.logger.Debug("notification refresh failed", zap.Error(err))
	}
}

func (f *Feed) snapshotLocked() []*models.DiceRoll {
	snapshot := make([]*models.DiceRoll, len(f.rolls))
	copy(snapshot, f.rolls)
	return snapshot
}
