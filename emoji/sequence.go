package emoji

import (
	"fmt"
	"strconv"
	"strings"
)

// Scalar values this package composes sequences from.
const (
	ZWJ        rune = 0x200D  // zero-width joiner
	VS16       rune = 0xFE0F  // variation selector-16, requests emoji rendering
	FemaleSign rune = 0x2640
	MaleSign   rune = 0x2642
	HeavyHeart rune = 0x2764  // heavy black heart, couple/kiss connective
	KissMark   rune = 0x1F48B
	Boy        rune = 0x1F466
	Girl       rune = 0x1F467
	Man        rune = 0x1F468
	Woman      rune = 0x1F469
	Family     rune = 0x1F46A // legacy composite codepoints
	Kiss       rune = 0x1F48F
	Couple     rune = 0x1F491
)

// SkinTones are the five Fitzpatrick skin-tone modifiers, type 1-2 … type 6.
// Glyph-name digit suffixes .1 … .5 index into this array.
var SkinTones = [5]rune{0x1F3FB, 0x1F3FC, 0x1F3FD, 0x1F3FE, 0x1F3FF}

// Sequence is an ordered sequence of Unicode scalar values representing one
// emoji, possibly including joiners and selectors. Two sequences denote the
// same emoji only if they are codepoint-for-codepoint identical.
type Sequence []rune

// Seq builds a Sequence from scalar values; a tiny readability helper for
// composition sites.
func Seq(runes ...rune) Sequence {
	return Sequence(runes)
}

// Equal reports codepoint-for-codepoint identity.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i, r := range s {
		if other[i] != r {
			return false
		}
	}
	return true
}

// String renders the sequence as the emoji itself.
func (s Sequence) String() string {
	return string([]rune(s))
}

// Hex renders the sequence as space-joined uppercase codepoints, the way
// Unicode data files spell sequences; used for tracing and map keys.
func (s Sequence) Hex() string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%04X", r)
	}
	return b.String()
}

// StripVS16 returns the sequence without its first variation selector, or
// the receiver if it carries none.
func (s Sequence) StripVS16() Sequence {
	for i, r := range s {
		if r == VS16 {
			out := make(Sequence, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// StripZWJ returns the sequence without any zero-width joiners, or the
// receiver if it carries none.
func (s Sequence) StripZWJ() Sequence {
	n := 0
	for _, r := range s {
		if r == ZWJ {
			n++
		}
	}
	if n == 0 {
		return s
	}
	out := make(Sequence, 0, len(s)-n)
	for _, r := range s {
		if r != ZWJ {
			out = append(out, r)
		}
	}
	return out
}

// PlusVS16 returns the sequence with a variation selector appended.
func (s Sequence) PlusVS16() Sequence {
	out := make(Sequence, 0, len(s)+1)
	out = append(out, s...)
	return append(out, VS16)
}

// SkinTone returns the skin-tone modifier contained in the sequence, if any.
func (s Sequence) SkinTone() (rune, bool) {
	for _, r := range s {
		if r >= SkinTones[0] && r <= SkinTones[4] {
			return r, true
		}
	}
	return 0, false
}

// ParseHex parses a sequence spelled as hex codepoints joined by spaces or
// underscores, e.g. "1F468 200D 1F469".
func ParseHex(str string) (Sequence, error) {
	fields := strings.FieldsFunc(str, func(r rune) bool {
		return r == ' ' || r == '_'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty codepoint sequence %q", str)
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("not a codepoint: %q", f)
		}
		seq = append(seq, rune(n))
	}
	return seq, nil
}
