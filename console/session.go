package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pkt.systems/addschat/core"
	"pkt.systems/addschat/internal/catalog"
	"pkt.systems/addschat/internal/llm"
	"pkt.systems/addschat/internal/logx"
	"pkt.systems/addschat/schema"
)

// Channel is the raw byte channel a session runs on.
type Channel interface {
	ByteReader
	Write(p []byte) (int, error)
}

// CatalogWatcher reports catalog edits without blocking.
type CatalogWatcher interface {
	Poll() (changed bool, err error)
}

// Option customises a Session.
type Option func(*Session)

// WithWatcher enables catalog hot reload.
func WithWatcher(w CatalogWatcher) Option {
	return func(s *Session) { s.watcher = w }
}

// WithClock replaces time.Now for elapsed times and redraw throttling.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCatalogLoader replaces catalog.Load for reloads.
func WithCatalogLoader(load func(dir string) (*catalog.Catalog, error)) Option {
	return func(s *Session) {
		if load != nil {
			s.loadCatalog = load
		}
	}
}

// Session is the single-owner loop tying the decoder, screen, dispatcher and
// streaming controller together. Only Run's goroutine touches its state.
type Session struct {
	cfg     Config
	ch      Channel
	dec     *Decoder
	screen  *Screen
	client  llm.Client
	catalog *catalog.Catalog
	conv    *core.Conversation

	presetText   string
	presetNotice string
	name         string

	watcher     CatalogWatcher
	loadCatalog func(dir string) (*catalog.Catalog, error)
	now         func() time.Time
}

// New builds a session. A non-empty cfg.Name skips the splash screen.
func New(cfg Config, ch Channel, client llm.Client, cat *catalog.Catalog, opts ...Option) *Session {
	cfg = cfg.withDefaults()
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	s := &Session{
		cfg:         cfg,
		ch:          ch,
		dec:         NewDecoder(ch),
		screen:      NewScreen(cfg.Cols, cfg.Rows, cfg.ANSI),
		client:      client,
		catalog:     cat,
		conv:        core.NewConversation(cfg.HistoryMax),
		loadCatalog: catalog.Load,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.screen.SetModel(cfg.Model)
	for _, m := range cfg.Models {
		s.screen.AddModel(m)
	}
	preset, found := cat.SelectPreset(cfg.Preset)
	s.screen.SetPreset(preset.Name)
	s.presetText = preset.Prompt
	if cfg.Preset != "" && !found {
		s.presetNotice = unknownPresetMessage(cfg.Preset, preset.Name)
	}
	if name := strings.TrimSpace(cfg.Name); name != "" {
		s.enterChat(name)
	}
	return s
}

// Screen exposes the screen model.
func (s *Session) Screen() *Screen { return s.screen }

// Run drives the session until /quit, context cancellation or a channel
// failure. Channel failures are returned; quitting returns nil.
func (s *Session) Run(ctx context.Context) error {
	log := logx.WithConversationModel(ctx, s.conv.ID, s.screen.Model())
	log.Info("session start",
		"cols", s.screen.Cols(),
		"rows", s.screen.Rows(),
		"ansi", s.screen.ANSI(),
		"preset", s.screen.Preset(),
		"mode", s.screen.Mode(),
	)
	if err := s.flush(); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			log.Info("session stop", "reason", "context")
			return nil
		}
		key, ok, err := s.dec.Next(s.cfg.PollInterval)
		if err != nil {
			return fmt.Errorf("read channel: %w", err)
		}
		if !ok {
			if err := s.pollCatalog(ctx); err != nil {
				return err
			}
			continue
		}
		quit, err := s.handleKey(ctx, key)
		if err != nil {
			return err
		}
		if quit {
			log.Info("session stop", "reason", "quit")
			return nil
		}
	}
}

func (s *Session) handleKey(ctx context.Context, key Key) (bool, error) {
	logx.Ctx(ctx).Trace("key", "kind", key.Kind.String())
	if s.screen.Mode() == schema.ModeSplash {
		return false, s.handleSplashKey(ctx, key)
	}
	switch key.Kind {
	case KeyChar:
		s.screen.InsertChar(key.Ch)
	case KeyBackspace:
		s.screen.Backspace()
	case KeyClearLine:
		s.screen.ClearInput()
	case KeyUp:
		s.screen.ScrollUp()
	case KeyDown:
		s.screen.ScrollDown()
	case KeyEnter:
		return s.submit(ctx, s.screen.TakeInput())
	default:
		return false, nil
	}
	return false, s.flush()
}

func (s *Session) handleSplashKey(ctx context.Context, key Key) error {
	switch key.Kind {
	case KeyChar:
		s.screen.InsertChar(key.Ch)
	case KeyBackspace:
		s.screen.Backspace()
	case KeyClearLine:
		s.screen.ClearInput()
	case KeyEnter:
		name := strings.TrimSpace(s.screen.TakeInput())
		s.enterChat(name)
		logx.WithConversation(ctx, s.conv.ID).Info("splash complete", "named", name != "")
	default:
		return nil
	}
	return s.flush()
}

// enterChat leaves the splash screen. An empty name keeps the greeting
// generic and suppresses the personalization note.
func (s *Session) enterChat(name string) {
	s.name = name
	s.screen.SetMode(schema.ModeChat)
	s.screen.ClearInput()
	seedChat(s.screen, s.displayName())
	if s.presetNotice != "" {
		s.screen.AddBlock(PrefixSystem, s.presetNotice)
		s.presetNotice = ""
	}
}

func (s *Session) displayName() string {
	if s.name == "" {
		return DefaultName
	}
	return s.name
}

func (s *Session) pollCatalog(ctx context.Context) error {
	if s.watcher == nil {
		return nil
	}
	log := logx.Ctx(ctx)
	changed, err := s.watcher.Poll()
	if err != nil {
		log.Warn("catalog watch failed", "err", err)
	}
	if !changed {
		return nil
	}
	cat, err := s.loadCatalog(s.cfg.DataDir)
	if err != nil {
		log.Warn("catalog reload failed", "dir", s.cfg.DataDir, "err", err)
		return nil
	}
	s.catalog = cat
	preset, _ := cat.SelectPreset(s.screen.Preset())
	s.screen.SetPreset(preset.Name)
	s.presetText = preset.Prompt
	log.Info("catalog reloaded", "presets", len(cat.Presets), "kb", len(cat.KB), "preset", preset.Name)
	if s.screen.Mode() != schema.ModeChat {
		return nil
	}
	s.screen.AddBlock(PrefixSystem, "Catalog reloaded.")
	return s.flush()
}

// flush writes one full frame.
func (s *Session) flush() error {
	if _, err := s.ch.Write(Render(s.screen)); err != nil {
		return fmt.Errorf("write channel: %w", err)
	}
	return nil
}

func unknownPresetMessage(requested, using schema.PresetName) string {
	if using == "" {
		return fmt.Sprintf("Unknown preset: %s. No presets available.", requested)
	}
	return fmt.Sprintf("Unknown preset: %s. Using %s.", requested, using)
}
