package resources

import (
	"context"
	"os"
	"path"

	"github.com/npillmayer/schuko/gconf"
	"github.com/viant/afs"
)

const defaultAppKey = "glyphlink"

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the global configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(subfolders ...string) (string, error) {
	appkey := gconf.GetString("app-key")
	if appkey == "" {
		appkey = defaultAppKey
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	cachedir = path.Join(cachedir, appkey, path.Join(subfolders...))
	tracer().Debugf("caching in %s", cachedir)
	if _, err = os.Stat(cachedir); os.IsNotExist(err) {
		if err = os.MkdirAll(cachedir, 0755); err != nil {
			return "", err
		}
	}
	return cachedir, nil
}

// cachedDownload fetches url into the font cache folder once and returns
// the local file path.
func cachedDownload(ctx context.Context, url string) (string, error) {
	dir, err := CacheDirPath("fonts")
	if err != nil {
		return "", err
	}
	local := path.Join(dir, path.Base(url))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	data, err := afs.New().DownloadWithURL(ctx, url)
	if err != nil {
		return "", NotFound(url)
	}
	if err = os.WriteFile(local, data, 0644); err != nil {
		return "", err
	}
	tracer().Infof("cached %s as %s", url, local)
	return local, nil
}
