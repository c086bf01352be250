package session

import (
	"context"
	"fmt"

	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/engine/cascade"
)

// Command is an edit applied to a session.
type Command interface {
	fmt.Stringer
	apply(ctx context.Context, s *Session) error
}

// SaveOptions control a save.
type SaveOptions struct {
	Draft     bool                  // write only the edited glyph, no cascade
	Silent    bool                  // no summary notification
	OnSuccess func(cascade.Summary) // called after a successful commit save
}

// SaveCommand stores new geometry and metadata for a glyph. A nil Meta
// keeps the current metadata. Code 0 together with a new character assigns
// a private-use codepoint.
type SaveCommand struct {
	Code     rune
	Geometry glyph.GlyphData
	Meta     *glyph.Character
	Options  SaveOptions
}

func (c SaveCommand) String() string {
	mode := "commit"
	if c.Options.Draft {
		mode = "draft"
	}
	return fmt.Sprintf("save U+%04X (%s)", c.Code, mode)
}

func (c SaveCommand) apply(ctx context.Context, s *Session) error {
	return s.save(ctx, c)
}

// DeleteCommand removes a glyph after baking its dependents.
type DeleteCommand struct {
	Code rune
}

func (c DeleteCommand) String() string {
	return fmt.Sprintf("delete U+%04X", c.Code)
}

func (c DeleteCommand) apply(ctx context.Context, s *Session) error {
	return s.delete(ctx, c.Code)
}

// UnlockCommand freezes a live derivation into a composite.
type UnlockCommand struct {
	Code rune
}

func (c UnlockCommand) String() string {
	return fmt.Sprintf("unlock U+%04X", c.Code)
}

func (c UnlockCommand) apply(ctx context.Context, s *Session) error {
	return s.unlock(ctx, c.Code)
}

// RelinkCommand restores the derivation an unlocked composite came from.
type RelinkCommand struct {
	Code rune
}

func (c RelinkCommand) String() string {
	return fmt.Sprintf("relink U+%04X", c.Code)
}

func (c RelinkCommand) apply(ctx context.Context, s *Session) error {
	return s.relink(ctx, c.Code)
}

// Save applies a SaveCommand.
func (s *Session) Save(ctx context.Context, code rune, geometry glyph.GlyphData,
	meta *glyph.Character, opts SaveOptions) error {
	return s.Apply(ctx, SaveCommand{Code: code, Geometry: geometry, Meta: meta, Options: opts})
}

// Delete applies a DeleteCommand.
func (s *Session) Delete(ctx context.Context, code rune) error {
	return s.Apply(ctx, DeleteCommand{Code: code})
}

// Unlock applies an UnlockCommand.
func (s *Session) Unlock(ctx context.Context, code rune) error {
	return s.Apply(ctx, UnlockCommand{Code: code})
}

// Relink applies a RelinkCommand.
func (s *Session) Relink(ctx context.Context, code rune) error {
	return s.Apply(ctx, RelinkCommand{Code: code})
}
