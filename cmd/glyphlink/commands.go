package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/glyphlink/backend/sqlitestore"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/core/glyph/fontimport"
	"github.com/npillmayer/glyphlink/core/locate/resources"
	"github.com/npillmayer/glyphlink/engine/cascade"
	"github.com/npillmayer/glyphlink/engine/composite"
	"github.com/npillmayer/glyphlink/engine/depgraph"
	"github.com/npillmayer/glyphlink/engine/session"
	"github.com/npillmayer/glyphlink/input/glyphdef"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var defsPath string

func init() {
	for _, cmd := range []*cobra.Command{deleteCmd, unlockCmd, relinkCmd} {
		cmd.Flags().StringVar(&defsPath, "defs", "", "Glyph definitions to take rules and pair tables from")
	}
}

var buildCmd = &cobra.Command{
	Use:   "build <definitions.yaml>",
	Short: "Import outlines, generate all derived glyphs and store them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings, err := loadSettings(ctx)
		if err != nil {
			return err
		}
		defs, err := glyphdef.Load(ctx, args[0])
		if err != nil {
			return err
		}
		var font *fontimport.Font
		if defs.Font != "" {
			promise := resources.ResolveFont(defs.Font)
			if font, err = promise.FontContext(ctx); err != nil {
				return err
			}
			pterm.Info.Printfln("Using font %s", promise.Path())
		}
		project, err := defs.Build(font)
		if err != nil {
			return err
		}
		if len(project.Missing) > 0 {
			pterm.Warning.Printfln("%d characters not found in font", len(project.Missing))
		}
		store, err := openStore(settings)
		if err != nil {
			return err
		}
		defer store.Close()
		stats, err := build(ctx, settings, project, store)
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"characters", "authored", "derived", "missing"},
			{
				fmt.Sprint(project.Index.Len()),
				fmt.Sprint(stats.authored),
				fmt.Sprint(stats.derived),
				strings.Join(stats.missing, ", "),
			},
		}).Render()
	},
}

type buildStats struct {
	authored int
	derived  int
	missing  []string
}

// build stores the character set, then saves every authored glyph so that
// cascades fill in the derived glyphs. Derived glyphs no cascade reaches,
// like frozen composites, are generated afterwards.
func build(ctx context.Context, settings config.Settings, project *glyphdef.Project,
	store *sqlitestore.Store) (buildStats, error) {
	//
	var stats buildStats
	if err := store.Commit(ctx, session.Batch{Characters: project.Index.All()}); err != nil {
		return stats, err
	}
	missing := map[string]bool{}
	sess, err := session.New(project.Index.All(), store,
		session.WithSettings(settings),
		session.WithRules(project.Rules),
		session.WithPairs(project.Pairs),
		session.WithNotifier(quietNotifier{}),
	)
	if err != nil {
		return stats, err
	}
	defer sess.Close()
	opts := session.SaveOptions{
		Silent: true,
		OnSuccess: func(sum cascade.Summary) {
			stats.derived += sum.Touched
			for _, m := range sum.Missing {
				missing[m] = true
			}
		},
	}
	codes := make([]rune, 0, len(project.Authored))
	for c := range project.Authored {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		if err := sess.Save(ctx, c, project.Authored[c], nil, opts); err != nil {
			return stats, err
		}
		stats.authored++
	}
	var pending []*glyph.Character
	for _, ch := range sess.Characters().All() {
		if ch.Kind() == glyph.KindNone || ch.Ephemeral {
			continue
		}
		if g, _ := store.Glyph(ch.Code); !g.Drawn() {
			pending = append(pending, ch)
		}
	}
	// components of a pending glyph may themselves be pending
	for progress := true; progress && len(pending) > 0; {
		progress = false
		var rest []*glyph.Character
		for _, ch := range pending {
			if g, _ := store.Glyph(ch.Code); g.Drawn() {
				progress = true
				continue
			}
			ctxt := composite.ContextFrom(settings, sess.Characters(), store.Snapshot())
			ctxt.Rules, ctxt.Pairs = project.Rules, project.Pairs
			g, err := composite.New(ctxt).Generate(ch)
			if err != nil {
				if !core.Is(err, core.EMISSING) {
					return stats, err
				}
				rest = append(rest, ch)
				continue
			}
			if err := sess.Save(ctx, ch.Code, g, nil, opts); err != nil {
				return stats, err
			}
			stats.derived++
			progress = true
		}
		pending = rest
	}
	for _, ch := range pending {
		missing[ch.Name] = true
	}
	for m := range missing {
		stats.missing = append(stats.missing, m)
	}
	sort.Strings(stats.missing)
	return stats, nil
}

type quietNotifier struct{}

func (quietNotifier) Summary(cascade.Summary) {}

func (quietNotifier) Warn(err error) {
	tracer().Infof("%s", core.UserMessage(err))
}

var depsCmd = &cobra.Command{
	Use:   "deps <name>",
	Short: "List all glyphs depending on a character, directly or transitively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings, err := loadSettings(ctx)
		if err != nil {
			return err
		}
		store, err := openStore(settings)
		if err != nil {
			return err
		}
		defer store.Close()
		chars, err := store.Characters(ctx)
		if err != nil {
			return err
		}
		inx, err := glyph.NewIndex(chars...)
		if err != nil {
			return err
		}
		ch, ok := inx.Character(args[0])
		if !ok {
			return core.Error(core.EMISSING, "no character named %s", args[0])
		}
		graph := depgraph.New()
		graph.Rebuild(inx.All(), inx)
		data := pterm.TableData{{"code", "name", "kind"}}
		graph.Walk(ch.Code, func(code rune) bool {
			if dep, ok := inx.ByCode(code); ok {
				data = append(data, []string{fmt.Sprintf("U+%04X", code), dep.Name, dep.Kind().String()})
			}
			return true
		})
		if len(data) == 1 {
			pterm.Info.Printfln("nothing depends on %s", ch.Name)
			return nil
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a character, baking its dependents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), args[0], func(ctx context.Context, s *session.Session, code rune) error {
			return s.Delete(ctx, code)
		})
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <name>",
	Short: "Turn a derived glyph into an editable composite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), args[0], func(ctx context.Context, s *session.Session, code rune) error {
			return s.Unlock(ctx, code)
		})
	},
}

var relinkCmd = &cobra.Command{
	Use:   "relink <name>",
	Short: "Return an unlocked composite to its original derivation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), args[0], func(ctx context.Context, s *session.Session, code rune) error {
			return s.Relink(ctx, code)
		})
	},
}

// withSession opens a session over the stored characters and calls op for
// the character called name.
func withSession(ctx context.Context, name string,
	op func(context.Context, *session.Session, rune) error) error {
	//
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()
	chars, err := store.Characters(ctx)
	if err != nil {
		return err
	}
	opts := []session.Option{session.WithSettings(settings)}
	if defsPath != "" {
		defs, err := glyphdef.Load(ctx, defsPath)
		if err != nil {
			return err
		}
		project, err := defs.Build(nil)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithRules(project.Rules), session.WithPairs(project.Pairs))
	}
	sess, err := session.New(chars, store, opts...)
	if err != nil {
		return err
	}
	defer sess.Close()
	ch, ok := sess.Characters().Character(name)
	if !ok {
		return core.Error(core.EMISSING, "no character named %s", name)
	}
	if err := op(ctx, sess, ch.Code); err != nil {
		return err
	}
	pterm.Success.Printfln("%s done", name)
	return nil
}
