package reasoning

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/anthropic"
)

// mockAnthropic is a hand-written testify mock of anthropic.Client.
type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse wraps a payload the way the API returns it.
func textResponse(payload string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: payload}},
		StopReason: "end_turn",
	}
}
