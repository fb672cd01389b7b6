package dice_roll

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/stretchr/testify/suite"
)

type SQLiteRepositoryTestSuite struct {
	repositoryContract
	sqlite *SQLiteRepository
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	s.setupMocks()

	repo, err := NewSQLite(&SQLiteConfig{
		Path:          filepath.Join(s.T().TempDir(), "rolls.db"),
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.sqlite = repo
	s.repo = repo
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.sqlite.Close())
}

func TestSQLiteRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) TestNewSQLiteRequiresPath() {
	_, err := NewSQLite(nil)
	s.Error(err)

	_, err = NewSQLite(&SQLiteConfig{Path: "  "})
	s.Error(err)
}

func (s *SQLiteRepositoryTestSuite) TestReopenKeepsRolls() {
	path := filepath.Join(s.T().TempDir(), "reopen.db")

	first, err := NewSQLite(&SQLiteConfig{Path: path, Clock: s.mockClock, UUIDGenerator: s.mockUUID})
	s.Require().NoError(err)
	s.repo = first
	roll := s.insertAt("campaign-1", "user-1", s.testNow)
	s.Require().NoError(first.Close())

	second, err := NewSQLite(&SQLiteConfig{Path: path})
	s.Require().NoError(err)
	defer second.Close()

	out, err := second.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: "campaign-1", Limit: 5})
	s.Require().NoError(err)
	s.Equal([]string{roll.ID}, ids(out.Rolls))
}

func (s *SQLiteRepositoryTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.sqlite.Insert(ctx, &InsertInput{Roll: &models.DiceRoll{CampaignID: "c", UserID: "u", Rolls: []int{1}}})
	s.ErrorIs(err, context.Canceled)

	_, err = s.sqlite.FetchRecent(ctx, &FetchRecentInput{CampaignID: "c", Limit: 1})
	s.ErrorIs(err, context.Canceled)

	s.ErrorIs(s.sqlite.ClearAll(ctx, &ClearAllInput{CampaignID: "c"}), context.Canceled)
}
