package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glyphlink/backend/sqlitestore"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/glyphlink/input/glyphdef"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = `
characters:
  - name: A
    char: A
    knots: [[0, 0], [50, 100], [100, 0]]
  - name: B
    char: B
    knots: [[0, 0], [0, 100], [40, 50]]
  - name: A.alt
    link: A
  - name: AB
    composite: [A, B]
  - name: AB.alt
    composite: [A.alt, B]
  - name: Z.alt
    link: Z
  - name: Z
    char: Z
`

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.cli")
	defer teardown()
	//
	ctx := context.Background()
	defs, err := glyphdef.Parse([]byte(project))
	require.NoError(t, err)
	p, err := defs.Build(nil)
	require.NoError(t, err)
	settings := config.Defaults()
	settings.Database = filepath.Join(t.TempDir(), "build.db")
	store, err := sqlitestore.Open(settings.Database)
	require.NoError(t, err)
	defer store.Close()
	//
	stats, err := build(ctx, settings, p, store)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.authored)
	assert.Equal(t, []string{"Z.alt"}, stats.missing)
	for _, name := range []string{"A", "B", "A.alt", "AB", "AB.alt"} {
		ch, ok := p.Index.Character(name)
		require.True(t, ok, name)
		g, _ := store.Glyph(ch.Code)
		assert.True(t, g.Drawn(), "%s should be drawn", name)
	}
	chars, err := store.Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, chars, 7)
}
