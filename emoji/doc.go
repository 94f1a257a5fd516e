/*
Package emoji turns a font's internal glyph names into Unicode emoji
codepoint sequences.

Apple Color Emoji names its glyphs after the codepoints they render, in a
private convention: `u<HEX>` tokens joined by underscores, digit suffixes
for skin tones, letter suffixes for gender, and letter codes for the members
of family/couple/kiss composites. The Resolver in this package is a small
rule machine over that convention; it generates candidate sequences for a
glyph name and matches them against a database built from the Unicode
emoji-test data, since the font and the Unicode data disagree on the
presence of optional selectors more often than one would hope.

ModifierBases covers the reverse direction: from the Unicode
emoji-sequences data it learns which characters take skin-tone modifiers
and enumerates, for each, the canonical modifier sequences a complete emoji
font should expose, so that a caller can go looking for assets the font
only stores under a different glyph name.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Samuel <hello@samuelngs.com>
*/
package emoji

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.core'
func tracer() tracing.Trace {
	return tracing.Select("emoji.core")
}
