/*
Package extract orchestrates the extraction of emoji bitmap assets from a
font.

An Extractor walks a single bitmap strike of a parsed font in two passes.
The first pass visits every glyph carrying a bitmap, resolves its internal
name to a Unicode sequence and emits the bitmap under the sequence's asset
identifier. The second pass synthesizes the canonical skin-tone sequences
for every resolved modifier base and hunts the font's glyph names for a
glyph rendering each, emitting those bitmaps under identifiers the font
itself never names.

Asset identifiers follow the noto-emoji filename convention
(emoji_u1f468_200d_1f469, selectors dropped), so the emitted tree can feed
a noto-style build directly. Where the assets go is the sink's business;
package extract only decides their names and bytes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Samuel <hello@samuelngs.com>
*/
package extract

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.extract'
func tracer() tracing.Trace {
	return tracing.Select("emoji.extract")
}
