package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/voicegate/voicegate/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		Logger:      zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetByExternalID() {
	ident := &models.Identity{
		ExternalID:   "100",
		GameUsername: "Alice",
		LastUpdated:  s.testNow,
	}

	err := s.repo.SaveIdentity(context.Background(), &SaveIdentityInput{
		Identity: ident,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetByExternalID(context.Background(), &GetByExternalIDInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("100", retrieved.ExternalID)
	s.Equal("Alice", retrieved.GameUsername)
	s.Equal(s.testNow.Unix(), retrieved.LastUpdated.Unix())
}

func (s *RedisRepositoryTestSuite) TestSaveIsIdempotentOnExternalID() {
	first := &models.Identity{
		ExternalID:   "100",
		GameUsername: "Alice",
		LastUpdated:  s.testNow,
	}
	err := s.repo.SaveIdentity(context.Background(), &SaveIdentityInput{Identity: first})
	s.Require().NoError(err)

	// Replaying the disclosure updates the record in place
	second := &models.Identity{
		ExternalID:   "100",
		GameUsername: "alice",
		LastUpdated:  s.testNow.Add(time.Minute),
	}
	err = s.repo.SaveIdentity(context.Background(), &SaveIdentityInput{Identity: second})
	s.Require().NoError(err)

	out, err := s.repo.ListIdentities(context.Background(), &ListIdentitiesInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Identities, 1)
	s.Equal("alice", out.Identities[0].GameUsername)
	s.Equal(s.testNow.Add(time.Minute).Unix(), out.Identities[0].LastUpdated.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetByUsernamePrefersExactMatch() {
	identities := []*models.Identity{
		{ExternalID: "100", GameUsername: "alice", LastUpdated: s.testNow},
		{ExternalID: "200", GameUsername: "Alice", LastUpdated: s.testNow},
	}
	for _, ident := range identities {
		err := s.repo.SaveIdentity(context.Background(), &SaveIdentityInput{Identity: ident})
		s.Require().NoError(err)
	}

	retrieved, err := s.repo.GetByUsername(context.Background(), &GetByUsernameInput{
		GameUsername: "Alice",
	})
	s.Require().NoError(err)
	s.Equal("200", retrieved.ExternalID)
}

func (s *RedisRepositoryTestSuite) TestGetByUsernameCaseInsensitive() {
	err := s.repo.SaveIdentity(context.Background(), &SaveIdentityInput{
		Identity: &models.Identity{ExternalID: "100", GameUsername: "Alice", LastUpdated: s.testNow},
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetByUsername(context.Background(), &GetByUsernameInput{
		GameUsername: "ALICE",
	})
	s.Require().NoError(err)
	s.Equal("100", retrieved.ExternalID)
}

func (s *RedisRepositoryTestSuite) TestGetNonExistentIdentity() {
	_, err := s.repo.GetByExternalID(context.Background(), &GetByExternalIDInput{
		ExternalID: "missing",
	})
	s.Require().Error(err)
	s.Equal(ErrIdentityNotFound, err)

	_, err = s.repo.GetByUsername(context.Background(), &GetByUsernameInput{
		GameUsername: "nobody",
	})
	s.Require().Error(err)
	s.Equal(ErrIdentityNotFound, err)
}
