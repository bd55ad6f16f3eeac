package llm

import (
	"context"
	"errors"
)

// Message is a role-tagged chat message sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client abstracts the external completion service.
type Client interface {
	// Complete sends the ordered messages and returns the trimmed content of
	// the first completion choice.
	Complete(ctx context.Context, messages []Message) (string, error)
}

var (
	// ErrUnavailable covers network failures, timeouts and non-2xx upstream
	// responses. Safe for the user to resubmit; not retried automatically.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrEmptyResponse means the service answered but produced no usable content.
	ErrEmptyResponse = errors.New("completion service returned no content")
)

// PlaceholderClient is installed when no provider is configured; it fails closed.
type PlaceholderClient struct{}

// Complete always reports the service as unavailable.
func (PlaceholderClient) Complete(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	_ = messages
	return "", ErrUnavailable
}

var _ Client = PlaceholderClient{}
