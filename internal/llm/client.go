// Package llm defines the streaming model contract and its OpenAI adapter.
package llm

import (
	"context"

	"pkt.systems/addschat/schema"
)

// Stream yields one event per Next call. It returns io.EOF after the final
// event. Next blocks until the transport delivers the next chunk; callers
// that want cancellation check for it between calls.
type Stream interface {
	Next(ctx context.Context) (schema.StreamEvent, error)
	Close() error
}

// Client opens streaming responses.
type Client interface {
	Stream(ctx context.Context, req schema.ChatRequest) (Stream, error)
}
