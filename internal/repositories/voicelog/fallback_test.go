package voicelog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type FallbackRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *FallbackRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	primary, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	fallback, err := NewFile(&FileConfig{
		DataDir: s.T().TempDir(),
		Logger:  zerolog.Nop(),
	})
	s.Require().NoError(err)

	repo, err := NewFallback(&FallbackConfig{
		Primary:  primary,
		Fallback: fallback,
		Logger:   zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *FallbackRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestFallbackRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(FallbackRepositoryTestSuite))
}

func (s *FallbackRepositoryTestSuite) TestReadsSurvivePrimaryOutage() {
	_, err := s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "C1",
	})
	s.Require().NoError(err)

	// Take the primary down; the mirrored append must still be readable
	s.mr.Close()

	current, err := s.repo.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Equal("C1", current.ChannelID)

	occupants, err := s.repo.ListOccupants(context.Background(), &ListOccupantsInput{
		ChannelID: "C1",
	})
	s.Require().NoError(err)
	s.Require().Len(occupants.Occupants, 1)
	s.Equal("Alice", occupants.Occupants[0].GameUsername)
}

func (s *FallbackRepositoryTestSuite) TestAppendsSurvivePrimaryOutage() {
	s.mr.Close()

	out, err := s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "200",
		GameUsername: "Bob",
		ChannelID:    "C2",
	})
	s.Require().NoError(err)
	s.Empty(out.PreviousChannelID)

	current, err := s.repo.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "200",
	})
	s.Require().NoError(err)
	s.Equal("C2", current.ChannelID)
}

func (s *FallbackRepositoryTestSuite) TestNoAssignmentDoesNotFailOver() {
	_, err := s.repo.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "missing",
	})
	s.Require().Error(err)
	s.Equal(ErrNoAssignment, err)
}
