/*
Package ot gives access to the tables of SFNT fonts, with a focus on the
tables needed to pull color bitmap glyphs out of an emoji font:
'post' (glyph names), 'sbix' (bitmap strikes), plus 'maxp' and 'name' for
cross-checks and display.

Apple Color Emoji ships as a TrueType Collection (*.ttc) containing a single
member font. Package ot decodes the collection header, the member's table
directory, and the tables listed above; every other table is exposed as a
generic byte segment and left uninterpreted. From this point of view, `ot` is
a low-level package: it will hand out glyph names and bitmap byte ranges, but
resolving a glyph name to a Unicode sequence is the job of a sister package.

The binary data of a font can be thought of as a bunch of structures
connected by offsets. Package ot keeps the initial font binary in memory and
works on views (sub-slices) into it, rather than copying table contents out
into separate buffers. Bitmap payloads in particular stay untouched until a
client calls GlyphBitmap.Bytes, so iterating over a large emoji font does not
materialize hundreds of megabytes of PNG data.

Structural failures (bad signature, truncated directory, offsets pointing
outside the file) abort parsing with an error that names the byte offset at
which decoding diverged; a half-decoded font directory is worthless.

# Status

Font collections with more than one member font are supported, variable
fonts are not. Bitmap tables other than 'sbix' (EBDT/CBDT, SVG) are out of
scope.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Samuel <hello@samuelngs.com>
*/
package ot

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"github.com/samuelngs/apple-emoji-linux/core"
)

// tracer writes to trace with key 'emoji.fonts'
func tracer() tracing.Trace {
	return tracing.Select("emoji.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "font format: %s", x)
}

// errFontFormatAt reports a structural parsing failure together with the byte
// offset at which decoding diverged from the spec.
func errFontFormatAt(x string, offset int) error {
	return core.Error(core.EINVALID, "font format: %s (at byte %d)", x, offset)
}

// ErrUnsupportedPost flags a 'post' table with a version other than 2.0.
// No other version carries glyph names, so there is nothing to recover.
// Clients receive it wrapped in a core.AppError; test with errors.Is.
var ErrUnsupportedPost = errors.New("unsupported post table version")

// ErrNoStrike flags an sbix strike lookup for a pixel size the font does not
// embed. Clients receive it wrapped in a core.AppError; test with errors.Is.
var ErrNoStrike = errors.New("no sbix strike for requested ppem")
