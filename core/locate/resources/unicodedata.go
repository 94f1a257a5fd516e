package resources

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/npillmayer/schuko/gconf"
)

// Default locations of the Unicode emoji data files. Overridable through
// configuration, mainly so that tests and offline builds can point them to
// a local copy.
const (
	defaultSequencesURL = "https://unicode.org/Public/emoji/latest/emoji-sequences.txt"
	defaultTestURL      = "https://unicode.org/Public/emoji/latest/emoji-test.txt"
)

// TextLinesPromise is the await-side of an asynchronously loaded text
// resource. Lines blocks until loading has completed.
type TextLinesPromise interface {
	Lines() ([]string, error)
}

type linesPlusErr struct {
	lines []string
	err   error
}

type linesLoader struct {
	await func(ctx context.Context) ([]string, error)
}

func (loader linesLoader) Lines() ([]string, error) {
	return loader.await(context.Background())
}

// EmojiSequences resolves the Unicode emoji-sequences.txt data file, from
// the cache directory if a previous run fetched it already. The source URL
// is taken from configuration key 'emoji-sequences-url' if set.
func EmojiSequences() TextLinesPromise {
	return resolveDataFile("emoji-sequences.txt", "emoji-sequences-url", defaultSequencesURL)
}

// EmojiTest resolves the Unicode emoji-test.txt data file, from the cache
// directory if a previous run fetched it already. The source URL is taken
// from configuration key 'emoji-test-url' if set.
func EmojiTest() TextLinesPromise {
	return resolveDataFile("emoji-test.txt", "emoji-test-url", defaultTestURL)
}

func resolveDataFile(filename, urlKey, defaultURL string) TextLinesPromise {
	ch := make(chan linesPlusErr)
	go func(ch chan<- linesPlusErr) {
		result := linesPlusErr{}
		result.lines, result.err = loadDataFile(filename, urlKey, defaultURL)
		ch <- result
		close(ch)
	}(ch)
	return linesLoader{
		await: func(ctx context.Context) ([]string, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.lines, r.err
			}
		},
	}
}

func loadDataFile(filename, urlKey, defaultURL string) ([]string, error) {
	url := gconf.GetString(urlKey)
	if url == "" {
		url = defaultURL
	}
	// a file URL or plain path side-steps cache and network
	if local := strings.TrimPrefix(url, "file://"); local != url || !strings.Contains(url, "://") {
		return readLines(local)
	}
	cachedir, err := CacheDirPath("unicode")
	if err != nil {
		return nil, err
	}
	fpath := path.Join(cachedir, filename)
	if _, err := os.Stat(fpath); err != nil {
		tracer().Infof("fetching %s", url)
		if err := DownloadCachedFile(fpath, url); err != nil {
			return nil, err
		}
	}
	return readLines(fpath)
}

func readLines(fpath string) ([]string, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}
