package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/rollcall/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/rollcall/internal/common/uuid/mocks"
	"github.com/KirkDiggler/rollcall/internal/models"
	campaignRepo "github.com/KirkDiggler/rollcall/internal/repositories/campaign"
	campaignMocks "github.com/KirkDiggler/rollcall/internal/repositories/campaign/mocks"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	profileMocks "github.com/KirkDiggler/rollcall/internal/repositories/profile/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CampaignServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockCampaignRepo *campaignMocks.MockRepository
	mockProfileRepo  *profileMocks.MockRepository
	mockClock        *clockMocks.MockClock
	mockUUID         *uuidMocks.MockUUID
	campaignService  Service
	ctx              context.Context

	// Test data
	testTime       time.Time
	testCampaignID string
	testChannelID  string
	testGMID       string
	testGMName     string

	// Reusable test fixtures
	expectedCampaign *models.Campaign
}

func (s *CampaignServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCampaignRepo = campaignMocks.NewMockRepository(s.mockCtrl)
	s.mockProfileRepo = profileMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testCampaignID = "2b1c7a34-8f0e-4d55-9d0a-3c2f7e6b9a10"
	s.testChannelID = "test-channel-id"
	s.testGMID = "test-gm-id"
	s.testGMName = "Dungeon Master"

	s.expectedCampaign = &models.Campaign{
		ID:        s.testCampaignID,
		Name:      "Curse of Strahd",
		GMUserID:  s.testGMID,
		ChannelID: s.testChannelID,
		CreatedAt: s.testTime,
	}

	svc, err := New(&Config{
		CampaignRepo:  s.mockCampaignRepo,
		ProfileRepo:   s.mockProfileRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.campaignService = svc
}

func (s *CampaignServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCampaignServiceSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}

func (s *CampaignServiceTestSuite) TestNew() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilCampaignRepo)

	_, err = New(&Config{CampaignRepo: s.mockCampaignRepo})
	s.ErrorIs(err, ErrNilProfileRepo)

	_, err = New(&Config{CampaignRepo: s.mockCampaignRepo, ProfileRepo: s.mockProfileRepo})
	s.ErrorIs(err, ErrNilClock)

	_, err = New(&Config{CampaignRepo: s.mockCampaignRepo, ProfileRepo: s.mockProfileRepo, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilUUIDGenerator)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, &campaignRepo.GetCampaignByChannelInput{ChannelID: s.testChannelID}).
		Return(nil, campaignRepo.ErrCampaignNotFound)
	s.mockUUID.EXPECT().NewUUID().Return(s.testCampaignID)
	s.mockClock.EXPECT().Now().Return(s.testTime)
	s.mockCampaignRepo.EXPECT().
		SaveCampaign(s.ctx, &campaignRepo.SaveCampaignInput{Campaign: s.expectedCampaign}).
		Return(nil)
	s.mockProfileRepo.EXPECT().
		SaveProfile(s.ctx, &profileRepo.SaveProfileInput{
			Profile: &models.Profile{ID: s.testGMID, Username: s.testGMName},
		}).
		Return(nil)

	output, err := s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{
		Name:       "Curse of Strahd",
		ChannelID:  s.testChannelID,
		GMUserID:   s.testGMID,
		GMUsername: s.testGMName,
	})

	s.Require().NoError(err)
	s.Equal(s.expectedCampaign, output.Campaign)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_DefaultName() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, gomock.Any()).
		Return(nil, campaignRepo.ErrCampaignNotFound)
	s.mockUUID.EXPECT().NewUUID().Return(s.testCampaignID)
	s.mockClock.EXPECT().Now().Return(s.testTime)
	s.mockCampaignRepo.EXPECT().SaveCampaign(s.ctx, gomock.Any()).Return(nil)

	output, err := s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{
		ChannelID: s.testChannelID,
		GMUserID:  s.testGMID,
	})

	s.Require().NoError(err)
	s.Equal(DefaultCampaignName, output.Campaign.Name)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_ChannelAlreadyBound() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, gomock.Any()).
		Return(s.expectedCampaign, nil)

	output, err := s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{
		ChannelID: s.testChannelID,
		GMUserID:  "someone-else",
	})

	s.ErrorIs(err, ErrChannelAlreadyBound)
	s.Require().NotNil(output)
	s.Equal(s.testCampaignID, output.Campaign.ID)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_ProfileFailureIsNotFatal() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, gomock.Any()).
		Return(nil, campaignRepo.ErrCampaignNotFound)
	s.mockUUID.EXPECT().NewUUID().Return(s.testCampaignID)
	s.mockClock.EXPECT().Now().Return(s.testTime)
	s.mockCampaignRepo.EXPECT().SaveCampaign(s.ctx, gomock.Any()).Return(nil)
	s.mockProfileRepo.EXPECT().SaveProfile(s.ctx, gomock.Any()).Return(errors.New("redis down"))

	output, err := s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{
		ChannelID:  s.testChannelID,
		GMUserID:   s.testGMID,
		GMUsername: s.testGMName,
	})

	s.Require().NoError(err)
	s.Equal(s.testCampaignID, output.Campaign.ID)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_InvalidInput() {
	_, err := s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{GMUserID: s.testGMID})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.campaignService.CreateCampaign(s.ctx, &CreateCampaignInput{ChannelID: s.testChannelID})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *CampaignServiceTestSuite) TestGetCampaignByChannel() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, &campaignRepo.GetCampaignByChannelInput{ChannelID: s.testChannelID}).
		Return(s.expectedCampaign, nil)

	campaign, err := s.campaignService.GetCampaignByChannel(s.ctx, &GetCampaignByChannelInput{
		ChannelID: s.testChannelID,
	})

	s.Require().NoError(err)
	s.Equal(s.expectedCampaign, campaign)
}

func (s *CampaignServiceTestSuite) TestGetCampaignByChannel_NotFound() {
	s.mockCampaignRepo.EXPECT().
		GetCampaignByChannel(s.ctx, gomock.Any()).
		Return(nil, campaignRepo.ErrCampaignNotFound)

	_, err := s.campaignService.GetCampaignByChannel(s.ctx, &GetCampaignByChannelInput{
		ChannelID: s.testChannelID,
	})

	s.ErrorIs(err, ErrCampaignNotFound)
}

func (s *CampaignServiceTestSuite) TestListCampaigns() {
	s.mockCampaignRepo.EXPECT().
		ListCampaigns(s.ctx, gomock.Any()).
		Return(&campaignRepo.ListCampaignsOutput{Campaigns: []*models.Campaign{s.expectedCampaign}}, nil)

	output, err := s.campaignService.ListCampaigns(s.ctx, &ListCampaignsInput{})

	s.Require().NoError(err)
	s.Equal([]*models.Campaign{s.expectedCampaign}, output.Campaigns)
}

func (s *CampaignServiceTestSuite) TestResolveViewer() {
	testCases := []struct {
		name   string
		userID string
		want   models.Viewer
	}{
		{name: "owner is GM", userID: s.testGMID, want: models.Viewer{ID: s.testGMID, IsGM: true}},
		{name: "other user is player", userID: "player-id", want: models.Viewer{ID: "player-id"}},
		{name: "anonymous", userID: "", want: models.Viewer{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockCampaignRepo.EXPECT().
				GetCampaign(s.ctx, &campaignRepo.GetCampaignInput{CampaignID: s.testCampaignID}).
				Return(s.expectedCampaign, nil)

			output, err := s.campaignService.ResolveViewer(s.ctx, &ResolveViewerInput{
				CampaignID: s.testCampaignID,
				UserID:     tc.userID,
			})

			s.Require().NoError(err)
			s.Equal(tc.want, output.Viewer)
			s.Equal(s.expectedCampaign, output.Campaign)
		})
	}
}

func (s *CampaignServiceTestSuite) TestResolveViewer_CampaignNotFound() {
	s.mockCampaignRepo.EXPECT().
		GetCampaign(s.ctx, gomock.Any()).
		Return(nil, campaignRepo.ErrCampaignNotFound)

	_, err := s.campaignService.ResolveViewer(s.ctx, &ResolveViewerInput{
		CampaignID: s.testCampaignID,
		UserID:     s.testGMID,
	})

	s.ErrorIs(err, ErrCampaignNotFound)
}

func (s *CampaignServiceTestSuite) TestSaveProfile() {
	s.mockProfileRepo.EXPECT().
		SaveProfile(s.ctx, &profileRepo.SaveProfileInput{
			Profile: &models.Profile{ID: "player-id", Username: "Aria"},
		}).
		Return(nil)

	err := s.campaignService.SaveProfile(s.ctx, &SaveProfileInput{
		UserID:   "player-id",
		Username: "Aria",
	})
	s.NoError(err)

	s.ErrorIs(s.campaignService.SaveProfile(s.ctx, &SaveProfileInput{Username: "Aria"}), ErrInvalidInput)
	s.ErrorIs(s.campaignService.SaveProfile(s.ctx, &SaveProfileInput{UserID: "player-id"}), ErrInvalidInput)
}

func (s *CampaignServiceTestSuite) TestSetBoardMessage() {
	s.mockCampaignRepo.EXPECT().
		GetCampaign(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *campaignRepo.GetCampaignInput) (*models.Campaign, error) {
			campaign := *s.expectedCampaign
			return &campaign, nil
		})
	s.mockCampaignRepo.EXPECT().
		SaveCampaign(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *campaignRepo.SaveCampaignInput) error {
			s.Equal("board-message-id", input.Campaign.BoardMessageID)
			s.Equal(s.testChannelID, input.Campaign.ChannelID)
			return nil
		})

	err := s.campaignService.SetBoardMessage(s.ctx, &SetBoardMessageInput{
		CampaignID: s.testCampaignID,
		MessageID:  "board-message-id",
	})

	s.NoError(err)
}

func (s *CampaignServiceTestSuite) TestSetBoardMessage_Unchanged() {
	campaign := *s.expectedCampaign
	campaign.BoardMessageID = "board-message-id"
	s.mockCampaignRepo.EXPECT().GetCampaign(s.ctx, gomock.Any()).Return(&campaign, nil)

	err := s.campaignService.SetBoardMessage(s.ctx, &SetBoardMessageInput{
		CampaignID: s.testCampaignID,
		MessageID:  "board-message-id",
	})

	s.NoError(err)
}
