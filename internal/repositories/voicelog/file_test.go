package voicelog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type FileRepositoryTestSuite struct {
	suite.Suite
	dir  string
	repo *fileRepository
}

func (s *FileRepositoryTestSuite) SetupTest() {
	s.dir = s.T().TempDir()

	repo, err := NewFile(&FileConfig{
		DataDir: s.dir,
		Logger:  zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *FileRepositoryTestSuite) TearDownTest() {
	s.repo.Close()
}

func TestFileRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(FileRepositoryTestSuite))
}

func (s *FileRepositoryTestSuite) TestRoundTrip() {
	out, err := s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "C1",
	})
	s.Require().NoError(err)
	s.Equal("", out.PreviousChannelID)

	current, err := s.repo.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Equal("C1", current.ChannelID)

	out, err = s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "",
	})
	s.Require().NoError(err)
	s.Equal("C1", out.PreviousChannelID)

	current, err = s.repo.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Equal("", current.ChannelID)
}

func (s *FileRepositoryTestSuite) TestLogSurvivesReload() {
	_, err := s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "C1",
	})
	s.Require().NoError(err)
	_, err = s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "C2",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Close())

	reloaded, err := NewFile(&FileConfig{
		DataDir: s.dir,
		Logger:  zerolog.Nop(),
	})
	s.Require().NoError(err)
	defer reloaded.Close()

	current, err := reloaded.GetCurrent(context.Background(), &GetCurrentInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Equal("C2", current.ChannelID)
	s.Equal("C1", current.PreviousChannelID)

	history, err := reloaded.GetHistory(context.Background(), &GetHistoryInput{
		ExternalID: "100",
	})
	s.Require().NoError(err)
	s.Require().Len(history.Assignments, 2)
	s.Equal("C2", history.Assignments[0].ChannelID)
}

func (s *FileRepositoryTestSuite) TestListOccupants() {
	_, err := s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "100",
		GameUsername: "Alice",
		ChannelID:    "C1",
	})
	s.Require().NoError(err)
	_, err = s.repo.AppendAssignment(context.Background(), &AppendAssignmentInput{
		ExternalID:   "200",
		GameUsername: "Bob",
		ChannelID:    "C2",
	})
	s.Require().NoError(err)

	out, err := s.repo.ListOccupants(context.Background(), &ListOccupantsInput{
		ChannelID: "C1",
	})
	s.Require().NoError(err)
	s.Require().Len(out.Occupants, 1)
	s.Equal("Alice", out.Occupants[0].GameUsername)
}
