package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pkt.systems/addschat/core"
	"pkt.systems/addschat/internal/logx"
	"pkt.systems/addschat/internal/retrieval"
	"pkt.systems/addschat/schema"
)

// InterruptedMarker is appended to a reply stopped with Escape.
const InterruptedMarker = "[interrupted]"

// MaxCitations caps the sources shown under a reply.
const MaxCitations = 3

// exchange is one outbound message and the preset text it is sent with.
type exchange struct {
	message    string
	search     bool
	presetText string
}

func (s *Session) chat(ctx context.Context, message string, search bool) error {
	return s.runExchange(ctx, exchange{message: message, search: search, presetText: s.presetText})
}

// runExchange sends one message and consumes the reply. The reply block is
// rewritten in place at most once per refresh interval, and Escape is
// honoured between chunks. Only channel failures are returned; model
// failures become an error block.
func (s *Session) runExchange(ctx context.Context, ex exchange) error {
	scr := s.screen
	scr.SetFresh(false)
	scr.AddBlock(PrefixUser, ex.message)
	scr.SetStatus("Thinking...")
	matches := retrieval.Match(s.catalog.KB, ex.message)
	scr.SetLastMatches(retrieval.Keys(matches))
	if err := s.flush(); err != nil {
		return err
	}

	contextText := ""
	if scr.ShowContext() {
		contextText = retrieval.FormatContext(matches)
	}
	note := ""
	if !s.conv.NoteSent() {
		note = core.PersonalizationNote(s.name)
	}
	req := core.BuildRequest(core.PromptInput{
		Model:            scr.Model(),
		SystemPrompt:     s.catalog.SystemPrompt,
		PresetText:       ex.presetText,
		Personalization:  note,
		RetrievalContext: contextText,
		Search:           ex.search,
		History:          s.conv.History.Entries(),
		Message:          ex.message,
	})
	log := logx.WithConversationModel(ctx, s.conv.ID, req.Model)
	ctx = logx.ContextWithConversationLogger(ctx, log, s.conv.ID, req.Model)
	log.Debug("stream start", "messages", len(req.Messages), "web_search", req.WebSearch, "matches", len(matches))

	mark := scr.BeginBlock()
	start := s.now()
	stream, err := s.client.Stream(ctx, req)
	if err != nil {
		return s.failExchange(ctx, mark, err)
	}
	defer func() { _ = stream.Close() }()
	s.conv.TakeNote(note)

	limiter := newRedrawLimiter(s.cfg.RefreshInterval, start)
	var acc strings.Builder
	var done schema.Completed
	completed := false
	interrupted := false
	for {
		ev, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.failExchange(ctx, mark, err)
		}
		cancel, err := s.pollCancel()
		if err != nil {
			return err
		}
		if cancel {
			interrupted = true
			break
		}
		switch e := ev.(type) {
		case schema.TextDelta:
			acc.WriteString(e.Text)
			log.Trace("stream chunk", "bytes", len(e.Text))
			if limiter.AllowN(s.now(), 1) {
				scr.ReplaceBlock(mark, PrefixAssistant, acc.String())
				scr.SetStatus("Streaming...")
				if err := s.flush(); err != nil {
					return err
				}
			}
		case schema.Completed:
			done = e
			completed = true
		}
	}

	text := strings.TrimSpace(acc.String())
	final := text
	if interrupted {
		final = strings.TrimSpace(text + " " + InterruptedMarker)
	}
	scr.ReplaceBlock(mark, PrefixAssistant, final)
	if len(done.Citations) > 0 {
		scr.AddBlock(PrefixSources, formatCitations(done.Citations))
	}
	if text != "" {
		s.conv.History.Append(schema.RoleUser, ex.message)
		s.conv.History.Append(schema.RoleAssistant, text)
	}
	if completed {
		scr.AddUsage(done)
	}
	elapsed := s.now().Sub(start).Milliseconds()
	status := fmt.Sprintf("Idle | %dms", elapsed)
	if interrupted {
		status = "stopped | " + status
	}
	scr.SetStatus(status)
	log.Debug("stream complete",
		"chars", len(text),
		"interrupted", interrupted,
		"tokens", done.TotalTokens,
		"cost_usd", done.CostUSD,
		"citations", len(done.Citations),
		"elapsed_ms", elapsed,
	)
	return s.flush()
}

// pollCancel drains keys already waiting on the channel without blocking.
// Escape requests cancellation, Up and Down still scroll, and anything else
// typed during a reply is dropped.
func (s *Session) pollCancel() (bool, error) {
	scrolled := false
	for {
		key, ok, err := s.dec.Next(0)
		if err != nil {
			return false, fmt.Errorf("read channel: %w", err)
		}
		if !ok {
			break
		}
		switch key.Kind {
		case KeyEscape:
			return true, nil
		case KeyUp:
			s.screen.ScrollUp()
			scrolled = true
		case KeyDown:
			s.screen.ScrollDown()
			scrolled = true
		}
	}
	if scrolled {
		return false, s.flush()
	}
	return false, nil
}

func (s *Session) failExchange(ctx context.Context, mark int, err error) error {
	logx.Ctx(ctx).Warn("stream failed", "err", err)
	s.screen.ReplaceBlock(mark, PrefixError, err.Error())
	s.screen.SetStatus("Idle")
	return s.flush()
}

// newRedrawLimiter allows one redraw per interval, starting one interval
// after start. A zero interval redraws on every chunk.
func newRedrawLimiter(interval time.Duration, start time.Time) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	limiter.AllowN(start, 1)
	return limiter
}

func formatCitations(citations []schema.Citation) string {
	if len(citations) > MaxCitations {
		citations = citations[:MaxCitations]
	}
	parts := make([]string, 0, len(citations))
	for _, c := range citations {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " | ")
}
