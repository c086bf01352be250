package resources

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph/fontimport"
	"github.com/viant/afs"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	e := fmt.Errorf("resource missing: %v", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

type fontPlusErr struct {
	font *fontimport.Font
	path string
	err  error
}

// FontPromise delivers a font resolved in the background.
type FontPromise interface {
	Font() (*fontimport.Font, error)
	FontContext(ctx context.Context) (*fontimport.Font, error)
	Path() string
}

// fontLoader is fulfilled when done is closed; result is written once,
// before that. Any number of goroutines may wait on it.
type fontLoader struct {
	done   chan struct{}
	result fontPlusErr
}

func (loader *fontLoader) Font() (*fontimport.Font, error) {
	return loader.FontContext(context.Background())
}

func (loader *fontLoader) FontContext(ctx context.Context) (*fontimport.Font, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-loader.done:
		return loader.result.font, loader.result.err
	}
}

// Path returns the file the font has been loaded from, or "" while the
// promise is pending.
func (loader *fontLoader) Path() string {
	select {
	case <-loader.done:
		return loader.result.path
	default:
		return ""
	}
}

// ResolveFont locates and parses a TrueType or OpenType font. name may be a
// file path, an http(s) URL or the file name of an installed font.
func ResolveFont(name string) FontPromise {
	loader := &fontLoader{done: make(chan struct{})}
	go func() {
		defer close(loader.done)
		result := fontPlusErr{}
		result.path, result.err = locate(name)
		if result.err == nil {
			var data []byte
			if data, result.err = afs.New().DownloadWithURL(context.Background(), result.path); result.err == nil {
				result.font, result.err = fontimport.Parse(data)
			}
		}
		loader.result = result
	}()
	return loader
}

// locate maps a font name to a local path.
func locate(name string) (string, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return cachedDownload(context.Background(), name)
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		tracer().Debugf("%s is a local font file", name)
		return name, nil
	}
	fpath, err := findfont.Find(name) // try to find as system font
	if err == nil && fpath != "" {
		tracer().Debugf("%s is a system font at %s", name, fpath)
		return fpath, nil
	}
	return "", NotFound(name)
}
