package main

import (
	"context"
	"fmt"
	"os"

	"github.com/npillmayer/glyphlink/backend/sqlitestore"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'glyphlink.cli'
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.cli")
}

var tracerKeys = []string{
	"glyphlink.cli",
	"glyphlink.config",
	"glyphlink.resources",
	"glyphlink.geom",
	"glyphlink.glyph",
	"glyphlink.import",
	"glyphlink.depgraph",
	"glyphlink.composite",
	"glyphlink.cascade",
	"glyphlink.session",
	"glyphlink.sqlitestore",
	"glyphlink.glyphdef",
}

var (
	rootCmd = &cobra.Command{
		Use:   "glyphlink",
		Short: "Keep derived glyphs of a font project in sync with their components",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initTracing(traceLevel)
		},
		SilenceUsage: true,
	}
	configPath string
	dbPath     string
	traceLevel string
)

func main() {
	initDisplay()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(core.UserMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML settings file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the glyph database (SQLite), overrides settings")
	rootCmd.PersistentFlags().StringVarP(&traceLevel, "trace", "t", "Error", "Trace level [Debug|Info|Error]")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(relinkCmd)
}

func initTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range tracerKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("trace level is %s", level)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// loadSettings reads the settings file, if any. The --db flag wins over
// the configured database.
func loadSettings(ctx context.Context) (config.Settings, error) {
	settings := config.Defaults()
	if configPath != "" {
		var err error
		if settings, err = config.Load(ctx, configPath); err != nil {
			return settings, err
		}
	}
	if dbPath != "" {
		settings.Database = dbPath
	}
	return settings, nil
}

func openStore(settings config.Settings) (*sqlitestore.Store, error) {
	tracer().Infof("using glyph database %s", settings.Database)
	return sqlitestore.Open(settings.Database)
}
