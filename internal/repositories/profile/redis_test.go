package profile

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetProfile() {
	err := s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &models.Profile{ID: "user-1", Username: "Aria"},
	})
	s.Require().NoError(err)

	profile, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal("Aria", profile.Username)

	// Save again to rename
	err = s.repo.SaveProfile(context.Background(), &SaveProfileInput{
		Profile: &models.Profile{ID: "user-1", Username: "Aria the Bold"},
	})
	s.Require().NoError(err)

	profile, err = s.repo.GetProfile(context.Background(), &GetProfileInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal("Aria the Bold", profile.Username)
}

func (s *RedisRepositoryTestSuite) TestGetProfileNotFound() {
	_, err := s.repo.GetProfile(context.Background(), &GetProfileInput{UserID: "nobody"})
	s.ErrorIs(err, ErrProfileNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetProfilesOmitsUnknown() {
	for _, p := range []*models.Profile{
		{ID: "user-1", Username: "Aria"},
		{ID: "user-2", Username: "Bram"},
	} {
		s.Require().NoError(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: p}))
	}

	out, err := s.repo.GetProfiles(context.Background(), &GetProfilesInput{
		UserIDs: []string{"user-1", "user-3", "user-2", "user-1", ""},
	})
	s.Require().NoError(err)
	s.Len(out.Profiles, 2)
	s.Equal("Aria", out.Profiles["user-1"].Username)
	s.Equal("Bram", out.Profiles["user-2"].Username)
	s.NotContains(out.Profiles, "user-3")
}

func (s *RedisRepositoryTestSuite) TestGetProfilesEmpty() {
	out, err := s.repo.GetProfiles(context.Background(), &GetProfilesInput{})
	s.Require().NoError(err)
	s.Empty(out.Profiles)
}

func (s *RedisRepositoryTestSuite) TestSaveProfileValidation() {
	s.Error(s.repo.SaveProfile(context.Background(), nil))
	s.Error(s.repo.SaveProfile(context.Background(), &SaveProfileInput{Profile: &models.Profile{Username: "x"}}))
}
