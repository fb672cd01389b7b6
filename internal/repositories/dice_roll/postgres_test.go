package dice_roll

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestBuildInsertQuery(t *testing.T) {
	createdAt := time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
	query, args, err := buildInsertQuery(&models.DiceRoll{
		ID:         "0e8f1c7a-0000-4000-8000-000000000001",
		CampaignID: "c0ffee00-0000-4000-8000-000000000001",
		UserID:     "user-1",
		DiceType:   "2d20",
		Rolls:      []int{7, 19},
		Total:      19,
		RollMode:   models.RollModeAdvantage,
		CreatedAt:  createdAt,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO dice_rolls")
	assert.Contains(t, query, "$1::uuid")
	assert.Contains(t, query, "$2::uuid")
	assert.Contains(t, query, "RETURNING seq")
	assert.NotContains(t, query, "?")
	require.Len(t, args, 12)
	assert.Equal(t, "0e8f1c7a-0000-4000-8000-000000000001", args[0])
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", args[1])
	assert.Equal(t, []int32{7, 19}, args[4])
	assert.Equal(t, int32(19), args[5])
	assert.Equal(t, int32(1), args[7], "multiplier defaults to 1")
	assert.Equal(t, "advantage", args[8])
	assert.Equal(t, createdAt, args[11])
}

func TestBuildInsertQuery_OutOfRange(t *testing.T) {
	base := func() *models.DiceRoll {
		return &models.DiceRoll{
			ID:         "0e8f1c7a-0000-4000-8000-000000000001",
			CampaignID: "c0ffee00-0000-4000-8000-000000000001",
			UserID:     "user-1",
			DiceType:   "2d20",
			Rolls:      []int{3, 1},
			Total:      1,
			RollMode:   models.RollModeDisadvantage,
		}
	}

	tests := []struct {
		name   string
		mutate func(r *models.DiceRoll)
	}{
		{name: "face above int32", mutate: func(r *models.DiceRoll) { r.Rolls = []int{3000000000, 1} }},
		{name: "face below int32", mutate: func(r *models.DiceRoll) { r.Rolls = []int{math.MinInt32 - 1, 1} }},
		{name: "total above int32", mutate: func(r *models.DiceRoll) { r.Total = math.MaxInt32 + 1 }},
		{name: "modifier below int32", mutate: func(r *models.DiceRoll) { r.Modifier = math.MinInt32 - 1 }},
		{name: "multiplier above int32", mutate: func(r *models.DiceRoll) { r.BatchCount = math.MaxInt32 + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roll := base()
			tt.mutate(roll)

			_, _, err := buildInsertQuery(roll)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}

	_, args, err := buildInsertQuery(&models.DiceRoll{
		Rolls: []int{math.MaxInt32, math.MinInt32},
		Total: math.MaxInt32,
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{math.MaxInt32, math.MinInt32}, args[4])
}

func TestBuildFetchRecentQuery(t *testing.T) {
	query, args, err := buildFetchRecentQuery("campaign", 20)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM dice_rolls")
	assert.Contains(t, query, "WHERE campaign_id = $1::uuid")
	assert.Contains(t, query, "ORDER BY created_at DESC, seq DESC")
	assert.Contains(t, query, "LIMIT 20")
	assert.Equal(t, []any{"campaign"}, args)
}

func TestBuildClearAllQuery(t *testing.T) {
	query, args, err := buildClearAllQuery("campaign")
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM dice_rolls WHERE campaign_id = $1::uuid", query)
	assert.Equal(t, []any{"campaign"}, args)
}

// PostgresRepositoryTestSuite runs the shared contract against a real
// database when ROLLCALL_TEST_POSTGRES_DSN is set
type PostgresRepositoryTestSuite struct {
	repositoryContract
	dsn  string
	pool *pgxpool.Pool
}

func (s *PostgresRepositoryTestSuite) SetupSuite() {
	pool, err := pgxpool.New(context.Background(), s.dsn)
	s.Require().NoError(err)
	s.pool = pool
}

func (s *PostgresRepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	s.setupMocks()

	repo, err := NewPostgres(context.Background(), &PostgresConfig{
		Pool:          s.pool,
		ApplySchema:   true,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *PostgresRepositoryTestSuite) TearDownTest() {
	for _, campaignID := range s.campaigns() {
		s.NoError(s.repo.ClearAll(context.Background(), &ClearAllInput{CampaignID: campaignID}))
	}
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	dsn := os.Getenv("ROLLCALL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ROLLCALL_TEST_POSTGRES_DSN not set")
	}
	suite.Run(t, &PostgresRepositoryTestSuite{dsn: dsn})
}

func (s *PostgresRepositoryTestSuite) TestDefaultsToWallClock() {
	repo, err := NewPostgres(context.Background(), &PostgresConfig{Pool: s.pool})
	s.Require().NoError(err)

	roll, err := repo.Insert(context.Background(), &InsertInput{Roll: &models.DiceRoll{
		CampaignID: s.campaignOne,
		UserID:     "user-1",
		DiceType:   "1d20",
		Rolls:      []int{12},
		Total:      17,
		Modifier:   5,
		RollMode:   models.RollModeSum,
	}})
	s.Require().NoError(err)
	s.WithinDuration(time.Now().UTC(), roll.CreatedAt, time.Minute)

	out, err := repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 5})
	s.Require().NoError(err)
	s.Require().Len(out.Rolls, 1)
	s.Equal(roll.ID, out.Rolls[0].ID)
}

func (s *PostgresRepositoryTestSuite) TestInsertRejectsOutOfRangeFaces() {
	s.mockUUID.EXPECT().NewUUID().Return("0e8f1c7a-0000-4000-8000-000000000002")
	s.mockClock.EXPECT().Now().Return(s.testNow)

	_, err := s.repo.Insert(context.Background(), &InsertInput{Roll: &models.DiceRoll{
		CampaignID: s.campaignOne,
		UserID:     "user-1",
		DiceType:   "2d3000000000",
		Rolls:      []int{3000000000, 1},
		Total:      1,
		RollMode:   models.RollModeDisadvantage,
	}})
	s.ErrorIs(err, ErrOutOfRange)

	out, err := s.repo.FetchRecent(context.Background(), &FetchRecentInput{CampaignID: s.campaignOne, Limit: 5})
	s.Require().NoError(err)
	s.Empty(out.Rolls)
}
