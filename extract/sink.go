package extract

import (
	"os"
	"path/filepath"

	"github.com/samuelngs/apple-emoji-linux/core"
)

// AssetSink receives the extracted assets. Implementations must be
// idempotent: writing a name that already exists is a no-op, never an
// overwrite, so that repeated extraction runs produce no duplicate work.
type AssetSink interface {
	Exists(name string) bool
	Write(name string, data []byte) error
}

// DirSink stores assets as <name>.png files in a flat directory.
type DirSink struct {
	Dir string
}

// NewDirSink creates the target directory if necessary.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create asset directory %s", dir)
	}
	return &DirSink{Dir: dir}, nil
}

func (snk *DirSink) path(name string) string {
	return filepath.Join(snk.Dir, name+".png")
}

// Exists reports whether an asset file is already present.
func (snk *DirSink) Exists(name string) bool {
	_, err := os.Stat(snk.path(name))
	return err == nil
}

// Write stores an asset, leaving an existing file untouched.
func (snk *DirSink) Write(name string, data []byte) error {
	if snk.Exists(name) {
		tracer().Debugf("asset %s already on disk, skipping", name)
		return nil
	}
	if err := os.WriteFile(snk.path(name), data, 0644); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot write asset %s", name)
	}
	return nil
}

// MemorySink keeps assets in a map, for tests and dry runs.
type MemorySink struct {
	Assets map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{Assets: make(map[string][]byte)}
}

func (snk *MemorySink) Exists(name string) bool {
	_, ok := snk.Assets[name]
	return ok
}

func (snk *MemorySink) Write(name string, data []byte) error {
	if snk.Exists(name) {
		return nil
	}
	snk.Assets[name] = data
	return nil
}
