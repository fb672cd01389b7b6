package dice_roll

import (
	"context"
	"time"

	clockMocks "github.com/KirkDiggler/rollcall/internal/common/clock/mocks"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	uuidMocks "github.com/KirkDiggler/rollcall/internal/common/uuid/mocks"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// repositoryContract holds the behaviour every backend shares. Backend
// suites embed it and build repo in SetupTest.
type repositoryContract struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID
	repo      Repository
	testNow   time.Time
	nextID    int

	// campaigns are fresh per test so shared databases stay isolated
	campaignOne   string
	campaignTwo   string
	campaignThree string
}

func (s *repositoryContract) setupMocks() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.ctrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.ctrl)
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
	s.nextID = 0

	gen := uuid.New()
	s.campaignOne = gen.NewUUID()
	s.campaignTwo = gen.NewUUID()
	s.campaignThree = gen.NewUUID()
}

func (s *repositoryContract) campaigns() []string {
	return []string{s.campaignOne, s.campaignTwo, s.campaignThree}
}

func (s *repositoryContract) insertAt(campaignID, userID string, at time.Time) *models.DiceRoll {
	s.nextID++
	s.mockUUID.EXPECT().NewUUID().Return(uuid.New().NewUUID())
	s.mockClock.EXPECT().Now().Return(at)

	roll, err := s.repo.Insert(context.Background(), &InsertInput{
		Roll: &models.DiceRoll{
			CampaignID: campaignID,
			UserID:     userID,
			DiceType:   "1d20",
			Rolls:      []int{s.nextID},
			Total:      s.nextID,
			RollMode:   models.RollModeSum,
		},
	})
	s.Require().NoError(err)
	return roll
}

func ids(rolls []*models.DiceRoll) []string {
	out := make([]string, 0, len(rolls))
	for _, r := range rolls {
		out = append(out, r.ID)
	}
	return out
}

func (s *repositoryContract) TestInsertAssignsIdentity() {
	id := uuid.New().NewUUID()
	s.mockUUID.EXPECT().NewUUID().Return(id)
	s.mockClock.EXPECT().Now().Return(s.testNow)

	input := &models.DiceRoll{
		ID:                "ignored",
		CampaignID:        s.campaignOne,
		UserID:            "user-1",
		DiceType:          "3x2d6",
		Rolls:             []int{1, 2, 3, 4, 5, 6},
		Total:             999, // stored verbatim, never recomputed
		Modifier:          -3,
		BatchCount:        3,
		RollMode:          models.RollModeSeparate,
		IsMasterRoll:      true,
		HiddenFromPlayers: true,
	}

	roll, err := s.repo.Insert(context.Background(), &InsertInput{Roll: input})
	s.Require().NoError(err)

	s.Equal(id, roll.ID)
	s.True(s.testNow.Equal(roll.CreatedAt))
	s.Positive(roll.Seq)

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
	s.Require().NoError(err)
	s.Require().Len(out.Rolls, 1)

	got := out.Rolls[0]
	s.Equal(roll.ID, got.ID)
	s.Equal(s.campaignOne, got.CampaignID)
	s.Equal("user-1", got.UserID)
	s.Equal("3x2d6", got.DiceType)
	s.Equal([]int{1, 2, 3, 4, 5, 6}, got.Rolls)
	s.Equal(999, got.Total)
	s.Equal(-3, got.Modifier)
	s.Equal(3, got.BatchCount)
	s.Equal(models.RollModeSeparate, got.RollMode)
	s.True(got.IsMasterRoll)
	s.True(got.HiddenFromPlayers)
	s.True(s.testNow.Equal(got.CreatedAt))
	s.Equal(roll.Seq, got.Seq)
	s.Empty(got.DisplayName)
}

func (s *repositoryContract) TestInsertDefaultsBatchCount() {
	roll := s.insertAt(s.campaignOne, "user-1", s.testNow)
	s.Equal(1, roll.BatchCount)
}

func (s *repositoryContract) TestFetchRecentNewestFirst() {
	t1 := s.insertAt(s.campaignOne, "user-1", s.testNow)
	t2 := s.insertAt(s.campaignOne, "user-2", s.testNow.Add(time.Second))
	t3 := s.insertAt(s.campaignOne, "user-1", s.testNow.Add(2*time.Second))

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 2})
	s.Require().NoError(err)
	s.Equal([]string{t3.ID, t2.ID}, ids(out.Rolls))

	out, err = s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
	s.Require().NoError(err)
	s.Equal([]string{t3.ID, t2.ID, t1.ID}, ids(out.Rolls))
}

func (s *repositoryContract) TestFetchRecentTiesByInsertionOrder() {
	first := s.insertAt(s.campaignOne, "user-1", s.testNow)
	second := s.insertAt(s.campaignOne, "user-2", s.testNow)
	third := s.insertAt(s.campaignOne, "user-3", s.testNow)

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
	s.Require().NoError(err)
	s.Equal([]string{third.ID, second.ID, first.ID}, ids(out.Rolls))
}

func (s *repositoryContract) TestFetchRecentScopedByCampaign() {
	mine := s.insertAt(s.campaignOne, "user-1", s.testNow)
	s.insertAt(s.campaignTwo, "user-1", s.testNow.Add(time.Second))

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
	s.Require().NoError(err)
	s.Equal([]string{mine.ID}, ids(out.Rolls))

	out, err = s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignThree, Limit: 20})
	s.Require().NoError(err)
	s.Empty(out.Rolls)
}

func (s *repositoryContract) TestClearAllIsIdempotent() {
	s.insertAt(s.campaignOne, "user-1", s.testNow)
	s.insertAt(s.campaignOne, "user-2", s.testNow.Add(time.Second))
	other := s.insertAt(s.campaignTwo, "user-1", s.testNow)

	for i := 0; i < 2; i++ {
		err := s.repo.ClearAll(context.Background(), &ClearAllInput{CampaignID: s.campaignOne})
		s.Require().NoError(err)

		out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
		s.Require().NoError(err)
		s.Empty(out.Rolls)
	}

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignTwo, Limit: 20})
	s.Require().NoError(err)
	s.Equal([]string{other.ID}, ids(out.Rolls))
}

func (s *repositoryContract) TestInsertAfterClear() {
	s.insertAt(s.campaignOne, "user-1", s.testNow)
	s.Require().NoError(s.repo.ClearAll(context.Background(), &ClearAllInput{CampaignID: s.campaignOne}))
	after := s.insertAt(s.campaignOne, "user-1", s.testNow.Add(time.Minute))

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 20})
	s.Require().NoError(err)
	s.Equal([]string{after.ID}, ids(out.Rolls))
}

func (s *repositoryContract) TestInputValidation() {
	ctx := context.Background()

	_, err := s.repo.Insert(ctx, nil)
	s.Error(err)
	_, err = s.repo.Insert(ctx, &InsertInput{Roll: &models.DiceRoll{UserID: "u", Rolls: []int{1}}})
	s.Error(err)
	_, err = s.repo.Insert(ctx, &InsertInput{Roll: &models.DiceRoll{CampaignID: "c", UserID: "u"}})
	s.Error(err)

	_, err = s.repo.FetchRecent(ctx, &FetchRecentInput{CampaignID: "c", Limit: 0})
	s.Error(err)
	_, err = s.repo.FetchRecent(ctx, &FetchRecentInput{Limit: 5})
	s.Error(err)

	s.Error(s.repo.ClearAll(ctx, &ClearAllInput{}))
}
