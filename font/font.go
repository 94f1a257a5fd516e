/*
Package font is for loading font files into memory.

A font file is kept as a single byte blob for its whole lifetime: the table
parsers in sister package ot work on views into the blob, and bitmap
payloads are handed to clients as sub-slices of it. Package font therefore
does no decoding of its own; it knows how to find a file, read it, and give
it a normalized name.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Samuel <hello@samuelngs.com>
*/
package font

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.fonts'
func tracer() tracing.Trace {
	return tracing.Select("emoji.fonts")
}

// BinaryFont is a font file read into memory. The Binary blob is treated as
// read-only for the duration of a run; derived structures reference into it.
type BinaryFont struct {
	Fontname string
	Filepath string
	Binary   []byte
}

// LoadFontFile reads a font file into memory. The font name is derived from
// the file name; no parsing takes place here.
func LoadFontFile(path string) (*BinaryFont, error) {
	bytez, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &BinaryFont{
		Fontname: NormalizeFontname(filepath.Base(path)),
		Filepath: path,
		Binary:   bytez,
	}
	tracer().Infof("loaded font %s (%d bytes)", f.Fontname, len(f.Binary))
	return f, nil
}

// NormalizeFontname derives a canonical key from a font file name:
// lower-cased, spaces replaced, extension cut.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
