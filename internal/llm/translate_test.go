package llm

import (
	"context"
	"errors"
	"io"
	"testing"

	"pkt.systems/addschat/schema"
)

type scriptedSource struct {
	events []string
	idx    int
	err    error
	closed bool
}

func (s *scriptedSource) Next() bool {
	if s.idx >= len(s.events) {
		return false
	}
	s.idx++
	return true
}

func (s *scriptedSource) Raw() string  { return s.events[s.idx-1] }
func (s *scriptedSource) Err() error   { return s.err }
func (s *scriptedSource) Close() error { s.closed = true; return nil }

func drain(t *testing.T, stream Stream) ([]string, schema.Completed) {
	t.Helper()
	var texts []string
	var done schema.Completed
	var sawDone bool
	for {
		ev, err := stream.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		switch e := ev.(type) {
		case schema.TextDelta:
			if sawDone {
				t.Fatalf("text after completion: %q", e.Text)
			}
			texts = append(texts, e.Text)
		case schema.Completed:
			if sawDone {
				t.Fatalf("completed twice")
			}
			sawDone = true
			done = e
		}
	}
	if !sawDone {
		t.Fatalf("expected a completed event")
	}
	return texts, done
}

func TestEventStreamDeltasAndUsage(t *testing.T) {
	src := &scriptedSource{events: []string{
		`{"type":"response.created","response":{"id":"r1"}}`,
		`{"type":"response.output_text.delta","delta":"Hel"}`,
		`{"type":"response.output_text.delta","delta":""}`,
		`{"type":"response.output_text.delta","delta":"lo"}`,
		`{"type":"response.completed","response":{"usage":{"input_tokens":1000000,"output_tokens":1000000,"total_tokens":2000000}}}`,
	}}
	stream := newEventStream(src, "gpt-4o-mini")
	texts, done := drain(t, stream)
	if len(texts) != 2 || texts[0] != "Hel" || texts[1] != "lo" {
		t.Fatalf("unexpected deltas: %#v", texts)
	}
	if done.InputTokens != 1000000 || done.OutputTokens != 1000000 || done.TotalTokens != 2000000 {
		t.Fatalf("unexpected usage: %+v", done)
	}
	if done.CostUSD < 0.7499 || done.CostUSD > 0.7501 {
		t.Fatalf("unexpected cost: %v", done.CostUSD)
	}
	if err := stream.Close(); err != nil || !src.closed {
		t.Fatalf("expected source closed")
	}
}

func TestEventStreamCitationsDeduplicated(t *testing.T) {
	src := &scriptedSource{events: []string{
		`{"type":"response.output_text.annotation.added","annotation":{"type":"url_citation","url":"https://a.example","title":"A"}}`,
		`{"type":"response.output_text.annotation.added","annotation":{"type":"url_citation","url":"https://a.example","title":"A again"}}`,
		`{"type":"response.output_text.annotation.added","annotation":{"type":"file_citation","file_id":"f1"}}`,
		`{"type":"response.output_text.annotation.added","annotation":{"type":"url_citation","url":"https://b.example"}}`,
	}}
	_, done := drain(t, newEventStream(src, "gpt-4o"))
	if len(done.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %#v", done.Citations)
	}
	if done.Citations[0].Title != "A" || done.Citations[1].URL != "https://b.example" {
		t.Fatalf("unexpected citations: %#v", done.Citations)
	}
	if done.TotalTokens != 0 || done.CostUSD != 0 {
		t.Fatalf("expected no usage without a completed event: %+v", done)
	}
}

func TestEventStreamFailure(t *testing.T) {
	src := &scriptedSource{events: []string{
		`{"type":"response.output_text.delta","delta":"partial"}`,
		`{"type":"response.failed","response":{"error":{"message":"quota exceeded"}}}`,
	}}
	stream := newEventStream(src, "gpt-4o-mini")
	if _, err := stream.Next(context.Background()); err != nil {
		t.Fatalf("first next: %v", err)
	}
	_, err := stream.Next(context.Background())
	if err == nil || err.Error() != "quota exceeded" {
		t.Fatalf("expected failure message, got %v", err)
	}
}

func TestEventStreamTransportError(t *testing.T) {
	src := &scriptedSource{err: errors.New("connection reset")}
	_, err := newEventStream(src, "gpt-4o-mini").Next(context.Background())
	if err == nil || err.Error() != "connection reset" {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestEventStreamHonoursContext(t *testing.T) {
	src := &scriptedSource{events: []string{`{"type":"response.output_text.delta","delta":"x"}`}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newEventStream(src, "gpt-4o-mini").Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(OpenAIConfig{APIKey: "  "}); !errors.Is(err, schema.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1/v1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInputRole(t *testing.T) {
	cases := map[schema.Role]string{
		schema.RoleSystem:    "system",
		schema.RoleUser:      "user",
		schema.RoleAssistant: "assistant",
	}
	for role, want := range cases {
		if got := string(inputRole(role)); got != want {
			t.Fatalf("role %s: got %q", role, got)
		}
	}
}
