package ingest

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/voicegate/voicegate/internal/services/ingest Service

// Service parses raw chat-stream lines into structured events. A line yields
// at most one identity-link event and at most one of a directed command or a
// peer relay.
type Service interface {
	IngestLine(ctx context.Context, input *IngestLineInput) (*IngestLineOutput, error)
}
