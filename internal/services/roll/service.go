package roll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/metrics"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/notify"
	diceRollRepo "github.com/KirkDiggler/rollcall/internal/repositories/dice_roll"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	"github.com/KirkDiggler/rollcall/internal/visibility"
	"go.uber.org/zap"
)

// service implements the Service interface
type service struct {
	maxSides      int
	maxDiceCount  int
	maxBatchCount int
	maxModifier   int
	historyLimit  int

	diceRollRepo diceRollRepo.Repository
	profileRepo  profileRepo.Repository
	broker       notify.Broker
	aggregator   *dice.Aggregator
	logger       *zap.Logger
	metrics      *metrics.RollMetrics
}

// New creates a new roll service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.DiceRollRepo == nil {
		return nil, ErrNilDiceRollRepo
	}

	if cfg.ProfileRepo == nil {
		return nil, ErrNilProfileRepo
	}

	if cfg.Broker == nil {
		return nil, ErrNilBroker
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	aggregator, err := dice.NewAggregator(&dice.AggregatorConfig{
		Roller: cfg.DiceRoller,
	})
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &service{
		maxSides:      cfg.MaxSides,
		maxDiceCount:  cfg.MaxDiceCount,
		maxBatchCount: cfg.MaxBatchCount,
		maxModifier:   cfg.MaxModifier,
		historyLimit:  cfg.HistoryLimit,
		diceRollRepo:  cfg.DiceRollRepo,
		profileRepo:   cfg.ProfileRepo,
		broker:        cfg.Broker,
		aggregator:    aggregator,
		logger:        logger.Named("roll"),
		metrics:       cfg.Metrics,
	}

	// Set default values if not provided
	if s.maxSides <= 0 {
		s.maxSides = DefaultMaxSides
	}
	if s.maxDiceCount <= 0 {
		s.maxDiceCount = DefaultMaxDiceCount
	}
	if s.maxBatchCount <= 0 {
		s.maxBatchCount = DefaultMaxBatchCount
	}
	if s.maxModifier <= 0 {
		s.maxModifier = DefaultMaxModifier
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}

	return s, nil
}

// Roll draws, persists and announces one roll. Nothing is drawn for a
// rejected request and nothing is published unless the insert committed.
func (s *service) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrValidation)
	}

	if input.CampaignID == "" {
		return nil, s.reject("validation", fmt.Errorf("%w: campaign ID cannot be empty", ErrValidation))
	}

	if input.Viewer.ID == "" {
		return nil, s.reject("authorization", fmt.Errorf("%w: anonymous viewers cannot roll", ErrAuthorizationDenied))
	}

	if (input.MasterRoll || input.HideFromPlayers) && !input.Viewer.IsGM {
		return nil, s.reject("authorization", fmt.Errorf("%w: only the GM can make master or hidden rolls", ErrAuthorizationDenied))
	}

	if err := s.checkLimits(input); err != nil {
		return nil, s.reject("validation", err)
	}

	result, err := s.aggregator.Aggregate(&dice.AggregateInput{
		Sides:      input.Sides,
		DiceCount:  input.DiceCount,
		BatchCount: input.BatchCount,
		Modifier:   input.Modifier,
		Mode:       input.Mode,
	})
	if err != nil {
		var diceErr dice.Error
		if errors.As(err, &diceErr) {
			return nil, s.reject("validation", fmt.Errorf("%w: %w", ErrValidation, err))
		}
		return nil, fmt.Errorf("failed to roll dice: %w", err)
	}

	start := time.Now()
	roll, err := s.diceRollRepo.Insert(ctx, &diceRollRepo.InsertInput{
		Roll: &models.DiceRoll{
			CampaignID: input.CampaignID,
			UserID:     input.Viewer.ID,
			DiceType:   result.DiceType,
			Rolls:      result.Rolls,
			Total:      result.Total,
			Modifier:   input.Modifier,
			BatchCount: result.BatchCount,
			RollMode:   result.Mode,

			// A hidden roll is always a master roll
			IsMasterRoll:      input.MasterRoll || input.HideFromPlayers,
			HiddenFromPlayers: input.HideFromPlayers,
		},
	})
	s.metrics.RecordStoreOp("insert", err == nil, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("failed to insert roll",
			zap.String("campaign_id", input.CampaignID),
			zap.String("user_id", input.Viewer.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.metrics.RecordRoll(string(roll.RollMode), visibilityLabel(roll))

	names := s.displayNames(ctx, []string{roll.UserID})
	roll.DisplayName = names[roll.UserID]

	s.logger.Debug("roll committed",
		zap.String("campaign_id", roll.CampaignID),
		zap.String("roll_id", roll.ID),
		zap.String("dice_type", roll.DiceType),
		zap.Int("total", roll.Total),
	)

	return &RollOutput{
		Roll:               roll,
		NotificationFailed: !s.publish(ctx, roll.CampaignID),
	}, nil
}

// FetchRecent returns the newest rolls with display names attached.
// A missing profile resolves to UnknownDisplayName.
func (s *service) FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, fmt.Errorf("%w: campaign ID cannot be empty", ErrValidation)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.historyLimit
	}

	start := time.Now()
	out, err := s.diceRollRepo.FetchRecent(ctx, &diceRollRepo.FetchRecentInput{
		CampaignID: input.CampaignID,
		Limit:      limit,
	})
	s.metrics.RecordStoreOp("fetch_recent", err == nil, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	userIDs := make([]string, 0, len(out.Rolls))
	for _, roll := range out.Rolls {
		userIDs = append(userIDs, roll.UserID)
	}
	names := s.displayNames(ctx, userIDs)
	for _, roll := range out.Rolls {
		roll.DisplayName = names[roll.UserID]
	}

	s.metrics.RecordHistory(len(out.Rolls))

	return &FetchRecentOutput{
		Rolls: out.Rolls,
	}, nil
}

// History returns the newest rolls narrowed to what the viewer may see
func (s *service) History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrValidation)
	}

	recent, err := s.FetchRecent(ctx, &FetchRecentInput{
		CampaignID: input.CampaignID,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Rolls: visibility.Filter(recent.Rolls, input.Viewer),
	}, nil
}

// ClearAll deletes every roll in the campaign and signals subscribers
func (s *service) ClearAll(ctx context.Context, input *ClearAllInput) (*ClearAllOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, fmt.Errorf("%w: campaign ID cannot be empty", ErrValidation)
	}

	if !input.Viewer.IsGM {
		return nil, fmt.Errorf("%w: only the GM can clear rolls", ErrAuthorizationDenied)
	}

	start := time.Now()
	err := s.diceRollRepo.ClearAll(ctx, &diceRollRepo.ClearAllInput{
		CampaignID: input.CampaignID,
	})
	s.metrics.RecordStoreOp("clear_all", err == nil, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("failed to clear rolls",
			zap.String("campaign_id", input.CampaignID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("rolls cleared",
		zap.String("campaign_id", input.CampaignID),
		zap.String("gm_user_id", input.Viewer.ID),
	)

	return &ClearAllOutput{
		NotificationFailed: !s.publish(ctx, input.CampaignID),
	}, nil
}

func (s *service) checkLimits(input *RollInput) error {
	if input.Sides > s.maxSides {
		return fmt.Errorf("%w: at most %d sides per die", ErrValidation, s.maxSides)
	}
	if input.DiceCount > s.maxDiceCount {
		return fmt.Errorf("%w: at most %d dice per batch", ErrValidation, s.maxDiceCount)
	}
	if input.BatchCount > s.maxBatchCount {
		return fmt.Errorf("%w: at most %d batches", ErrValidation, s.maxBatchCount)
	}
	if input.Modifier > s.maxModifier || input.Modifier < -s.maxModifier {
		return fmt.Errorf("%w: modifier must be between -%d and %d", ErrValidation, s.maxModifier, s.maxModifier)
	}
	return nil
}

// publish reports whether subscribers were signalled
func (s *service) publish(ctx context.Context, campaignID string) bool {
	err := s.broker.Publish(ctx, campaignID)
	s.metrics.RecordNotification(err == nil)
	if err != nil {
		s.logger.Warn("failed to notify campaign subscribers",
			zap.String("campaign_id", campaignID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// displayNames resolves every user ID to a name in one lookup.
// Lookup failures degrade to UnknownDisplayName.
func (s *service) displayNames(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names
	}

	unique := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := names[id]; ok {
			continue
		}
		names[id] = UnknownDisplayName
		unique = append(unique, id)
	}

	out, err := s.profileRepo.GetProfiles(ctx, &profileRepo.GetProfilesInput{
		UserIDs: unique,
	})
	if err != nil {
		s.logger.Warn("failed to look up display names", zap.Error(err))
		return names
	}

	for id, profile := range out.Profiles {
		if profile != nil && profile.Username != "" {
			names[id] = profile.Username
		}
	}

	return names
}

func (s *service) reject(reason string, err error) error {
	s.metrics.RecordRejected(reason)
	return err
}

func visibilityLabel(roll *models.DiceRoll) string {
	switch {
	case roll.HiddenFromPlayers:
		return "hidden"
	case roll.IsMasterRoll:
		return "master"
	}
	return "public"
}
