package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"

	"pkt.systems/addschat/schema"
	"pkt.systems/pslog"
)

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	UserAgent string
}

// OpenAIClient streams responses from the OpenAI Responses API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client. An API key is required.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, schema.ErrMissingAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, option.WithHeader("User-Agent", cfg.UserAgent))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}, nil
}

// Stream starts a streaming response for req.
func (c *OpenAIClient) Stream(ctx context.Context, req schema.ChatRequest) (Stream, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("stream: no messages")
	}
	items := make(responses.ResponseInputParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, inputRole(msg.Role)))
	}
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.Model),
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: items},
	}
	var opts []option.RequestOption
	if req.WebSearch {
		opts = append(opts, option.WithJSONSet("tools", []map[string]string{{"type": "web_search_preview"}}))
	}
	pslog.Ctx(ctx).Debug("openai stream start", "model", req.Model, "messages", len(req.Messages), "web_search", req.WebSearch)
	stream := c.client.Responses.NewStreaming(ctx, params, opts...)
	return newEventStream(&sseSource{stream: stream}, req.Model), nil
}

func inputRole(role schema.Role) responses.EasyInputMessageRole {
	switch role {
	case schema.RoleSystem:
		return responses.EasyInputMessageRoleSystem
	case schema.RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}

// rawSource yields raw JSON events from a transport.
type rawSource interface {
	Next() bool
	Raw() string
	Err() error
	Close() error
}

type sseSource struct {
	stream interface {
		Next() bool
		Current() responses.ResponseStreamEventUnion
		Err() error
		Close() error
	}
}

func (s *sseSource) Next() bool   { return s.stream.Next() }
func (s *sseSource) Raw() string  { return s.stream.Current().RawJSON() }
func (s *sseSource) Err() error   { return s.stream.Err() }
func (s *sseSource) Close() error { return s.stream.Close() }

// eventStream adapts a raw event source to Stream.
type eventStream struct {
	src   rawSource
	tr    *translator
	done  bool
	final bool
}

func newEventStream(src rawSource, model schema.ModelID) *eventStream {
	return &eventStream{src: src, tr: newTranslator(model)}
}

func (s *eventStream) Next(ctx context.Context) (schema.StreamEvent, error) {
	if s.final {
		return nil, io.EOF
	}
	for !s.done {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.src.Next() {
			s.done = true
			break
		}
		delta, failure := s.tr.apply(s.src.Raw())
		if failure != "" {
			return nil, errors.New(failure)
		}
		if delta != nil {
			return delta, nil
		}
	}
	if err := s.src.Err(); err != nil {
		return nil, err
	}
	s.final = true
	return s.tr.completed(), nil
}

func (s *eventStream) Close() error {
	return s.src.Close()
}
