package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/samuelngs/apple-emoji-linux/core"
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
	dataResourceType
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resource missing: %v", res)
	var s string
	switch rtype {
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	case dataResourceType:
		s = fmt.Sprintf("data file not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	return core.WrapError(e, core.EMISSING, s)
}

// wellKnownFontPaths are the places an Apple Color Emoji font usually lives
// when no explicit path is given.
var wellKnownFontPaths = []string{
	"/System/Library/Fonts/Apple Color Emoji.ttc",
	"/Library/Fonts/Apple Color Emoji.ttc",
	"/System/Library/Fonts/Apple Color Emoji.ttf",
}

// FontPathPromise is the await-side of an asynchronous font file search.
type FontPathPromise interface {
	Path() (string, error)
}

type pathPlusErr struct {
	path string
	err  error
}

type pathLoader struct {
	await func(ctx context.Context) (string, error)
}

func (loader pathLoader) Path() (string, error) {
	return loader.await(context.Background())
}

// ResolveFontFile locates a font file. The argument may be an explicit file
// path, which is used verbatim, or a font name, which is searched for among
// the installed system fonts and then in the usual Apple Color Emoji
// locations. Resolution only finds the file; reading and parsing it is the
// caller's business.
func ResolveFontFile(pathOrName string) FontPathPromise {
	ch := make(chan pathPlusErr)
	go func(ch chan<- pathPlusErr) {
		result := pathPlusErr{}
		result.path, result.err = findFontFile(pathOrName)
		ch <- result
		close(ch)
	}(ch)
	return pathLoader{
		await: func(ctx context.Context) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case r := <-ch:
				return r.path, r.err
			}
		},
	}
}

func findFontFile(pathOrName string) (string, error) {
	if pathOrName == "" {
		pathOrName = "Apple Color Emoji"
	}
	if strings.ContainsRune(pathOrName, filepath.Separator) || hasFontExtension(pathOrName) {
		if _, err := os.Stat(pathOrName); err == nil {
			tracer().Infof("using font file %s", pathOrName)
			return pathOrName, nil
		}
		return "", NotFound(pathOrName, fontResourceType)
	}
	if fpath, err := findfont.Find(pathOrName); err == nil && fpath != "" {
		tracer().Infof("%s is an installed system font: %s", pathOrName, fpath)
		return fpath, nil
	}
	for _, fpath := range wellKnownFontPaths {
		if _, err := os.Stat(fpath); err == nil {
			tracer().Infof("found font at well-known location %s", fpath)
			return fpath, nil
		}
	}
	return "", NotFound(pathOrName, fontResourceType)
}

func hasFontExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttc", ".ttf", ".otf":
		return true
	}
	return false
}
