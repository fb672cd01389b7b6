package feed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/notify"
	diceRollRepo "github.com/KirkDiggler/rollcall/internal/repositories/dice_roll"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	"github.com/KirkDiggler/rollcall/internal/services/roll"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// CampaignFlowTestSuite runs two clients against one Redis
type CampaignFlowTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	broker      *notify.RedisBroker
	rollService roll.Service
	ctx         context.Context
	cancel      context.CancelFunc

	testCampaignID string
	gm             models.Viewer
	player         models.Viewer
}

func (s *CampaignFlowTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})
	s.ctx, s.cancel = context.WithCancel(context.Background())

	rollStore, err := diceRollRepo.NewRedis(&diceRollRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	profiles, err := profileRepo.NewRedis(&profileRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	s.broker, err = notify.NewRedis(&notify.RedisConfig{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	roller, err := dice.New(&dice.Config{Seed: 42})
	s.Require().NoError(err)

	svc, err := roll.New(&roll.Config{
		DiceRollRepo: rollStore,
		ProfileRepo:  profiles,
		Broker:       s.broker,
		DiceRoller:   roller,
	})
	s.Require().NoError(err)
	s.rollService = svc

	s.testCampaignID = "2b1c7a34-8f0e-4d55-9d0a-3c2f7e6b9a10"
	s.gm = models.Viewer{ID: "gm-id", IsGM: true}
	s.player = models.Viewer{ID: "player-id"}

	s.Require().NoError(profiles.SaveProfile(s.ctx, &profileRepo.SaveProfileInput{
		Profile: &models.Profile{ID: s.player.ID, Username: "Aria"},
	}))
}

func (s *CampaignFlowTestSuite) TearDownTest() {
	s.cancel()
	s.client.Close()
	s.mr.Close()
}

func TestCampaignFlowSuite(t *testing.T) {
	suite.Run(t, new(CampaignFlowTestSuite))
}

func (s *CampaignFlowTestSuite) startFeed(viewer models.Viewer, changes *atomic.Int32) *Feed {
	f, err := New(&Config{
		CampaignID:  s.testCampaignID,
		Viewer:      viewer,
		RollService: s.rollService,
		Broker:      s.broker,
		OnChange: func([]*models.DiceRoll) {
			changes.Add(1)
		},
	})
	s.Require().NoError(err)
	s.Require().NoError(f.Start(s.ctx))
	s.T().Cleanup(f.Stop)
	return f
}

func (s *CampaignFlowTestSuite) TestPlayerRollReachesGM() {
	var gmChanges, playerChanges atomic.Int32
	gmFeed := s.startFeed(s.gm, &gmChanges)
	playerFeed := s.startFeed(s.player, &playerChanges)
	s.Empty(gmFeed.Rolls())

	out, err := playerFeed.Roll(s.ctx, &RollInput{
		Sides:     20,
		DiceCount: 1,
		Modifier:  5,
	})
	s.Require().NoError(err)
	s.False(out.NotificationFailed)

	// The roller's own feed has it as soon as the store confirms
	s.Require().Len(playerFeed.Rolls(), 1)

	s.Eventually(func() bool {
		return len(gmFeed.Rolls()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := gmFeed.Rolls()[0]
	s.Equal(out.Roll.ID, got.ID)
	s.Equal(s.player.ID, got.UserID)
	s.Equal("Aria", got.DisplayName)
	s.Equal("1d20", got.DiceType)
	s.Require().Len(got.Rolls, 1)
	s.Equal(got.Rolls[0]+5, got.Total)
}

func (s *CampaignFlowTestSuite) TestHiddenRollStaysWithGM() {
	var gmChanges, playerChanges atomic.Int32
	gmFeed := s.startFeed(s.gm, &gmChanges)
	playerFeed := s.startFeed(s.player, &playerChanges)

	_, err := gmFeed.Roll(s.ctx, &RollInput{
		Sides:           20,
		DiceCount:       1,
		HideFromPlayers: true,
	})
	s.Require().NoError(err)
	s.Len(gmFeed.Rolls(), 1)

	// The player is notified and re-fetches but the roll is filtered out
	s.Eventually(func() bool {
		return playerChanges.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Empty(playerFeed.Rolls())
}

func (s *CampaignFlowTestSuite) TestClearEmptiesEveryFeed() {
	var gmChanges, playerChanges atomic.Int32
	gmFeed := s.startFeed(s.gm, &gmChanges)
	playerFeed := s.startFeed(s.player, &playerChanges)

	_, err := playerFeed.Roll(s.ctx, &RollInput{Sides: 6, DiceCount: 2})
	s.Require().NoError(err)
	s.Eventually(func() bool {
		return len(gmFeed.Rolls()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = playerFeed.Clear(s.ctx)
	s.ErrorIs(err, roll.ErrAuthorizationDenied)

	_, err = gmFeed.Clear(s.ctx)
	s.Require().NoError(err)
	s.Empty(gmFeed.Rolls())

	s.Eventually(func() bool {
		return len(playerFeed.Rolls()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
