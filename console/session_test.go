package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"pkt.systems/addschat/internal/catalog"
	"pkt.systems/addschat/internal/llm"
	"pkt.systems/addschat/schema"
	"pkt.systems/pslog"
)

// fakeChannel feeds scripted bytes and records every frame written.
type fakeChannel struct {
	script   []scriptByte
	frames   []string
	eof      bool
	writeErr error
}

func (c *fakeChannel) ReadByteTimeout(time.Duration) (byte, bool, error) {
	if len(c.script) == 0 {
		if c.eof {
			return 0, false, schema.ErrChannelClosed
		}
		return 0, false, nil
	}
	next := c.script[0]
	c.script = c.script[1:]
	if next.gap {
		return 0, false, nil
	}
	return next.b, true, nil
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.frames = append(c.frames, string(p))
	return len(p), nil
}

func (c *fakeChannel) push(s string) {
	c.script = append(c.script, bytesOf(s)...)
}

func (c *fakeChannel) lastFrame() string {
	if len(c.frames) == 0 {
		return ""
	}
	return c.frames[len(c.frames)-1]
}

// scriptedClient replays events for every stream it opens.
type scriptedClient struct {
	events    []schema.StreamEvent
	failAt    int
	err       error
	openErr   error
	onEvent   func(i int)
	requests  []schema.ChatRequest
	closed    int
}

func newScriptedClient(events ...schema.StreamEvent) *scriptedClient {
	return &scriptedClient{events: events, failAt: -1}
}

func (c *scriptedClient) Stream(_ context.Context, req schema.ChatRequest) (llm.Stream, error) {
	c.requests = append(c.requests, req)
	if c.openErr != nil {
		return nil, c.openErr
	}
	return &scriptedStream{client: c}, nil
}

type scriptedStream struct {
	client *scriptedClient
	next   int
}

func (s *scriptedStream) Next(context.Context) (schema.StreamEvent, error) {
	c := s.client
	if s.next == c.failAt {
		return nil, c.err
	}
	if s.next >= len(c.events) {
		return nil, io.EOF
	}
	if c.onEvent != nil {
		c.onEvent(s.next)
	}
	ev := c.events[s.next]
	s.next++
	return ev, nil
}

func (s *scriptedStream) Close() error {
	s.client.closed++
	return nil
}

type fakeWatcher struct {
	changes []bool
	err     error
}

func (w *fakeWatcher) Poll() (bool, error) {
	if len(w.changes) == 0 {
		return false, w.err
	}
	next := w.changes[0]
	w.changes = w.changes[1:]
	return next, w.err
}

func testContext() context.Context {
	log := pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true})
	return pslog.ContextWithLogger(context.Background(), log)
}

// stepClock advances one millisecond per call.
func stepClock() func() time.Time {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		SystemPrompt: "You are helpful.",
		Presets: []catalog.Preset{
			{Name: "default", Prompt: "Be brief."},
			{Name: "pirate", Prompt: "Talk like a pirate."},
			{Name: "tutorial", Prompt: "Teach step by step."},
		},
		KB: map[string]string{"Widget": "A small part."},
	}
}

func newTestSession(cfg Config, client llm.Client, cat *catalog.Catalog, opts ...Option) (*Session, *fakeChannel) {
	ch := &fakeChannel{}
	if cfg.Cols == 0 {
		cfg.Cols = 80
	}
	if cfg.Rows == 0 {
		cfg.Rows = 24
	}
	cfg.ANSI = true
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	opts = append([]Option{WithClock(stepClock())}, opts...)
	return New(cfg, ch, client, cat, opts...), ch
}

func transcriptText(s *Session) string {
	return strings.Join(s.Screen().Lines(), "\n")
}

func TestRunSplashNameThenChat(t *testing.T) {
	client := newScriptedClient(schema.TextDelta{Text: "Hi Ann"}, schema.Completed{})
	s, ch := newTestSession(Config{}, client, testCatalog())
	ctx, cancel := context.WithCancel(testContext())
	defer cancel()
	client.onEvent = func(i int) {
		if i == 1 {
			cancel()
		}
	}
	ch.push("Ann\r")
	ch.push("hello\r")

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.Screen().Mode() != schema.ModeChat {
		t.Fatalf("expected chat mode")
	}
	if !strings.Contains(transcriptText(s), "Welcome, Ann.") {
		t.Fatalf("expected greeting, got %q", transcriptText(s))
	}
	if !strings.Contains(transcriptText(s), "AI: Hi Ann") {
		t.Fatalf("expected reply, got %q", transcriptText(s))
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(client.requests))
	}
	if !strings.Contains(client.requests[0].Messages[0].Content, "The user's name is Ann") {
		t.Fatalf("expected personalization note, got %q", client.requests[0].Messages[0].Content)
	}
	if !strings.Contains(ch.frames[0], splashPrompt) {
		t.Fatalf("expected first frame to be the splash screen")
	}
}

func TestRunBlankNameUsesDefault(t *testing.T) {
	client := newScriptedClient()
	s, ch := newTestSession(Config{}, client, testCatalog())
	ch.push("\r/q\r")
	if err := s.Run(testContext()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(transcriptText(s), "Welcome, "+DefaultName+".") {
		t.Fatalf("expected default greeting, got %q", transcriptText(s))
	}
}

func TestRunChannelClosedIsFatal(t *testing.T) {
	s, ch := newTestSession(Config{Name: "Ann"}, newScriptedClient(), testCatalog())
	ch.eof = true
	err := s.Run(testContext())
	if !errors.Is(err, schema.ErrChannelClosed) {
		t.Fatalf("expected channel closed, got %v", err)
	}
}

func TestRunWriteFailureIsFatal(t *testing.T) {
	s, ch := newTestSession(Config{Name: "Ann"}, newScriptedClient(), testCatalog())
	ch.writeErr = errors.New("broken pipe")
	if err := s.Run(testContext()); err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected write failure, got %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s, _ := newTestSession(Config{Name: "Ann"}, newScriptedClient(), testCatalog())
	ctx, cancel := context.WithCancel(testContext())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

func TestRunEditsAndScrolls(t *testing.T) {
	s, ch := newTestSession(Config{Name: "Ann", Rows: 8}, newScriptedClient(), testCatalog())
	for i := 0; i < 10; i++ {
		s.Screen().AddLines("filler")
	}
	ch.push("abc\x7f")
	ch.push("\x1b[A")
	ch.push("xyz\x15")
	ch.push("q")
	ch.eof = true
	_ = s.Run(testContext())
	if got := s.Screen().Input(); got != "q" {
		t.Fatalf("expected input q, got %q", got)
	}
	if s.Screen().ScrollOffset() != 0 {
		t.Fatalf("typing should return to the live tail")
	}
}

func TestNewReportsUnknownPreset(t *testing.T) {
	s, _ := newTestSession(Config{Name: "Ann", Preset: "nope"}, newScriptedClient(), testCatalog())
	if s.Screen().Preset() != "default" {
		t.Fatalf("expected fallback preset, got %q", s.Screen().Preset())
	}
	if !strings.Contains(transcriptText(s), "Unknown preset: nope. Using default.") {
		t.Fatalf("expected unknown preset notice, got %q", transcriptText(s))
	}
}

func TestCatalogReload(t *testing.T) {
	reloaded := &catalog.Catalog{
		Presets: []catalog.Preset{{Name: "default", Prompt: "Be verbose."}},
		KB:      map[string]string{"Gear": "A toothed wheel."},
	}
	watcher := &fakeWatcher{changes: []bool{true}}
	s, ch := newTestSession(Config{Name: "Ann", Preset: "pirate", DataDir: "data"}, newScriptedClient(), testCatalog(),
		WithWatcher(watcher),
		WithCatalogLoader(func(dir string) (*catalog.Catalog, error) {
			if dir != "data" {
				t.Fatalf("unexpected dir %q", dir)
			}
			return reloaded, nil
		}),
	)
	ch.push(string([]byte{0}))
	ch.script = append(ch.script, gap())
	ch.push("/q\r")
	if err := s.Run(testContext()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(transcriptText(s), "SYS: Catalog reloaded.") {
		t.Fatalf("expected reload notice, got %q", transcriptText(s))
	}
	if s.Screen().Preset() != "default" || s.presetText != "Be verbose." {
		t.Fatalf("expected preset reselected, got %q %q", s.Screen().Preset(), s.presetText)
	}
}

func TestCatalogReloadFailureKeepsCatalog(t *testing.T) {
	watcher := &fakeWatcher{changes: []bool{true}}
	cat := testCatalog()
	s, ch := newTestSession(Config{Name: "Ann"}, newScriptedClient(), cat,
		WithWatcher(watcher),
		WithCatalogLoader(func(string) (*catalog.Catalog, error) {
			return nil, errors.New("bad yaml")
		}),
	)
	ch.script = append(ch.script, gap())
	ch.push("/q\r")
	if err := s.Run(testContext()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.catalog != cat {
		t.Fatalf("expected previous catalog to be kept")
	}
	if strings.Contains(transcriptText(s), "Catalog reloaded.") {
		t.Fatalf("did not expect reload notice")
	}
}
