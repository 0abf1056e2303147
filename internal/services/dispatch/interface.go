package dispatch

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/voicegate/voicegate/internal/services/dispatch Service

// Service maps a directed command to its action and produces the reply text
// for the sender.
type Service interface {
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)
}
