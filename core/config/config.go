/*
Package config holds the settings glyphlink's engine depends on: stroke
thickness for bounding boxes, cascade batch size, default metrics and the
location of the glyph database.

Settings are layered: built-in defaults, a YAML file, environment variables
(optionally read from a .env file) prefixed with GLYPHLINK_, and finally keys
of a schuko configuration, if a host application initialized one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'glyphlink.config'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.config")
}

// Metrics are font-wide defaults used by automatic placement.
type Metrics struct {
	DefaultLSB float64 `yaml:"default_lsb"`
	DefaultRSB float64 `yaml:"default_rsb"`
	MarkGap    float64 `yaml:"mark_gap"` // vertical distance between base and attached mark
}

// Settings are the engine settings.
type Settings struct {
	StrokeThickness float64 `yaml:"stroke_thickness"`
	BatchSize       int     `yaml:"batch_size"` // dependents processed between two yields
	Metrics         Metrics `yaml:"metrics"`
	Database        string  `yaml:"database"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		StrokeThickness: 0,
		BatchSize:       32,
		Metrics: Metrics{
			DefaultLSB: 0,
			DefaultRSB: 0,
			MarkGap:    10,
		},
		Database: "glyphlink.db",
	}
}

// Load reads settings from a YAML document at url (a local path or any URL
// the afs file system understands), then applies environment overrides.
// An empty url skips the file.
func Load(ctx context.Context, url string) (Settings, error) {
	s := Defaults()
	if url != "" {
		data, err := afs.New().DownloadWithURL(ctx, url)
		if err != nil {
			return s, core.WrapError(err, core.EMISSING, "cannot read settings from %s", url)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, core.WrapError(err, core.EINVALID, "malformed settings in %s", url)
		}
		tracer().Debugf("settings loaded from %s", url)
	}
	_ = godotenv.Load() // .env is optional
	s = s.overlay(os.Getenv, "GLYPHLINK_")
	return s, s.Validate()
}

// FromConfiguration overlays keys of a schuko configuration onto base.
// Recognized keys are stroke-thickness, batch-size, default-lsb,
// default-rsb, mark-gap and database.
func FromConfiguration(conf schuko.Configuration, base Settings) Settings {
	return base.overlay(conf.GetString, "")
}

// FromGlobal overlays the global schuko configuration onto base.
func FromGlobal(base Settings) Settings {
	return base.overlay(gconf.GetString, "")
}

// Validate checks settings for values the engine cannot work with.
func (s Settings) Validate() error {
	if s.StrokeThickness < 0 {
		return core.Error(core.EINVALID, "stroke thickness must not be negative")
	}
	if s.BatchSize <= 0 {
		return core.Error(core.EINVALID, "batch size must be positive, is %d", s.BatchSize)
	}
	return nil
}

var envNames = map[string]string{
	"stroke-thickness": "STROKE_THICKNESS",
	"batch-size":       "BATCH_SIZE",
	"default-lsb":      "DEFAULT_LSB",
	"default-rsb":      "DEFAULT_RSB",
	"mark-gap":         "MARK_GAP",
	"database":         "DATABASE",
}

// overlay reads every known key through get. With a non-empty prefix, keys
// are translated to environment variable names.
func (s Settings) overlay(get func(string) string, prefix string) Settings {
	lookup := func(key string) string {
		if prefix != "" {
			return get(prefix + envNames[key])
		}
		return get(key)
	}
	floatVal := func(key string, target *float64) {
		if v := lookup(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*target = f
			} else {
				tracer().Errorf("ignoring %s=%q: %v", key, v, err)
			}
		}
	}
	floatVal("stroke-thickness", &s.StrokeThickness)
	floatVal("default-lsb", &s.Metrics.DefaultLSB)
	floatVal("default-rsb", &s.Metrics.DefaultRSB)
	floatVal("mark-gap", &s.Metrics.MarkGap)
	if v := lookup("batch-size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.BatchSize = n
		} else {
			tracer().Errorf("ignoring batch-size=%q: %v", v, err)
		}
	}
	if v := lookup("database"); v != "" {
		s.Database = v
	}
	return s
}
