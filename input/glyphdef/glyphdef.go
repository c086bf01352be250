/*
Package glyphdef reads glyph project definitions from YAML.

A definition file names a font to import outlines from, declares
characters with their derivations and placement transforms, and lists
attachment rules and pair tables:

   font: Go-Regular.ttf
   import: "AEIOUaeiou"
   characters:
     - name: acutecomb
       char: "́"
       class: mark
       knots: [[0, 0], [8, -6], [20, -12]]
     - name: Aacute
       char: "Á"
       link: auto
       transforms:
         - {scale: 1}
         - {x: 2, y: -4}
   rules:
     - {class: "acute*", anchor: above, gap: 12}
   kerning:
     - {left: A, right: V, value: -40}

"link: auto" derives the components from the canonical decomposition of
the character.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphdef

import (
	"context"
	"strings"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/schuko/tracing"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'glyphlink.glyphdef'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.glyphdef")
}

// Components is a derivation list. The scalar "auto" requests components
// from Unicode decomposition.
type Components struct {
	Names []string
	Auto  bool
}

// UnmarshalYAML accepts a sequence of names or the scalar "auto".
func (c *Components) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if strings.EqualFold(value.Value, "auto") {
			c.Auto = true
			return nil
		}
		c.Names = []string{value.Value}
		return nil
	}
	return value.Decode(&c.Names)
}

// Empty is true if no derivation is requested.
func (c Components) Empty() bool {
	return !c.Auto && len(c.Names) == 0
}

// TransformDef is a component transform as written in YAML.
type TransformDef struct {
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Mode     string  `yaml:"mode"`
}

// CharDef defines one character.
type CharDef struct {
	Name       string         `yaml:"name"`
	Char       string         `yaml:"char"`
	Code       int            `yaml:"code"`
	Class      string         `yaml:"class"`
	Link       Components     `yaml:"link"`
	Composite  Components     `yaml:"composite"`
	Position   Components     `yaml:"position"`
	Kern       Components     `yaml:"kern"`
	Ephemeral  bool           `yaml:"ephemeral"`
	Transforms []TransformDef `yaml:"transforms"`
	Knots      [][2]float64   `yaml:"knots"`
	Cycle      bool           `yaml:"cycle"`
	LSB        float64        `yaml:"lsb"`
	RSB        float64        `yaml:"rsb"`
	Advance    float64        `yaml:"advance"`
}

// RuleDef is a mark attachment rule.
type RuleDef struct {
	Class  string  `yaml:"class"`
	Anchor string  `yaml:"anchor"`
	Gap    float64 `yaml:"gap"`
	Axis   string  `yaml:"axis"`
}

// KernDef is a kerning table entry.
type KernDef struct {
	Left  string  `yaml:"left"`
	Right string  `yaml:"right"`
	Value float64 `yaml:"value"`
}

// PosDef is a positioning table entry.
type PosDef struct {
	Base string  `yaml:"base"`
	Mark string  `yaml:"mark"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Definitions is the content of a definition file.
type Definitions struct {
	Font        string    `yaml:"font"`
	Import      string    `yaml:"import"`
	Characters  []CharDef `yaml:"characters"`
	Rules       []RuleDef `yaml:"rules"`
	Kerning     []KernDef `yaml:"kerning"`
	Positioning []PosDef  `yaml:"positioning"`
}

// Parse decodes YAML definitions.
func Parse(data []byte) (*Definitions, error) {
	d := &Definitions{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "malformed glyph definitions")
	}
	return d, nil
}

// Load reads definitions from a local path or URL.
func Load(ctx context.Context, url string) (*Definitions, error) {
	data, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read glyph definitions %s", url)
	}
	tracer().Debugf("loaded %d bytes of definitions from %s", len(data), url)
	return Parse(data)
}
