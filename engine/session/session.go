package session

import (
	"context"
	"sync/atomic"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/engine/cascade"
	"github.com/npillmayer/glyphlink/engine/composite"
	"github.com/npillmayer/glyphlink/engine/depgraph"
)

// Session is the owner of a project's editable state.
type Session struct {
	chars    *glyph.Index
	graph    *depgraph.Graph
	store    GlyphStore
	settings config.Settings
	rules    composite.Rules
	pairs    *composite.Pairs
	notifier Notifier
	pending  map[rune]bool // drafts whose cascade has not run yet
	alive    atomic.Bool
	busy     atomic.Bool
}

// Option configures a session.
type Option func(*Session)

// WithSettings sets stroke thickness, metrics and batch size.
func WithSettings(s config.Settings) Option {
	return func(sess *Session) {
		sess.settings = s
	}
}

// WithRules sets the mark attachment rules.
func WithRules(r composite.Rules) Option {
	return func(sess *Session) {
		sess.rules = r
	}
}

// WithPairs sets the positioning and kerning tables. The session purges
// entries of deleted glyphs from them.
func WithPairs(p *composite.Pairs) Option {
	return func(sess *Session) {
		sess.pairs = p
	}
}

// WithNotifier replaces the default TraceNotifier.
func WithNotifier(n Notifier) Option {
	return func(sess *Session) {
		sess.notifier = n
	}
}

// New creates a live session over chars and store. The dependency graph
// is built from chars.
func New(chars []*glyph.Character, store GlyphStore, opts ...Option) (*Session, error) {
	inx, err := glyph.NewIndex(chars...)
	if err != nil {
		return nil, err
	}
	s := &Session{
		chars:    inx,
		graph:    depgraph.New(),
		store:    store,
		settings: config.Defaults(),
		pairs:    composite.NewPairs(),
		notifier: TraceNotifier{},
		pending:  make(map[rune]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.graph.Rebuild(inx.All(), inx)
	s.alive.Store(true)
	tracer().Infof("session opened with %d characters", inx.Len())
	return s, nil
}

// Characters returns the character index.
func (s *Session) Characters() *glyph.Index {
	return s.chars
}

// Graph returns the dependency graph.
func (s *Session) Graph() *depgraph.Graph {
	return s.graph
}

// Pairs returns the pair tables.
func (s *Session) Pairs() *composite.Pairs {
	return s.pairs
}

// Alive is false after Close.
func (s *Session) Alive() bool {
	return s.alive.Load()
}

// Close ends the session. A cascade in flight abandons its work at the
// next batch boundary.
func (s *Session) Close() {
	if s.alive.Swap(false) {
		tracer().Infof("session closed")
	}
}

// Glyph returns the geometry to render for code. Ephemeral pairs are
// generated on the fly.
func (s *Session) Glyph(code rune) (glyph.GlyphData, error) {
	ch, ok := s.chars.ByCode(code)
	if !ok {
		return nil, core.Error(core.EMISSING, "no character at U+%04X", code)
	}
	if ch.Ephemeral {
		return s.generator(s.store).Generate(ch)
	}
	g, _ := s.store.Glyph(code)
	return g, nil
}

func (s *Session) generator(src glyph.Source) *composite.Generator {
	ctx := composite.ContextFrom(s.settings, s.chars, src)
	ctx.Rules = s.rules
	ctx.Pairs = s.pairs
	return composite.New(ctx)
}

func (s *Session) scheduler(snapshot glyph.Source) *cascade.Scheduler {
	sched := cascade.New(s.graph, s.generator(snapshot))
	sched.BatchSize = s.settings.BatchSize
	sched.Alive = s.Alive
	return sched
}

// acquire marks the session busy for the duration of one edit.
func (s *Session) acquire() (release func(), err error) {
	if !s.Alive() {
		return nil, core.Error(core.ECANCELED, "session is closed")
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, core.Error(core.EBUSY, "a cascade is still in progress")
	}
	return func() { s.busy.Store(false) }, nil
}

func (s *Session) character(code rune) (*glyph.Character, error) {
	ch, ok := s.chars.ByCode(code)
	if !ok {
		return nil, core.Error(core.EMISSING, "no character at U+%04X", code)
	}
	return ch, nil
}

func (s *Session) codes(names []string) []rune {
	codes, _ := glyph.Codes(s.chars, names)
	return codes
}

// Apply executes cmd.
func (s *Session) Apply(ctx context.Context, cmd Command) error {
	tracer().Debugf("apply %s", cmd)
	return cmd.apply(ctx, s)
}
