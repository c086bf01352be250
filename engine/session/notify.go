package session

import (
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/engine/cascade"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Summary(s cascade.Summary)
	Warn(err error)
}

// TraceNotifier writes notifications to the session tracer.
type TraceNotifier struct{}

// Summary implements Notifier.
func (TraceNotifier) Summary(s cascade.Summary) {
	if s.Touched == 0 && s.PairsRenderable == 0 {
		return
	}
	tracer().Infof("updated %d glyphs derived from U+%04X, %d pairs now renderable",
		s.Touched, s.Source, s.PairsRenderable)
}

// Warn implements Notifier.
func (TraceNotifier) Warn(err error) {
	tracer().Errorf("%s", core.UserMessage(err))
}
