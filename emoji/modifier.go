package emoji

import (
	"strconv"
	"strings"
)

// ModifierBases is the set of characters which take skin-tone modifiers,
// built from the Unicode emoji-sequences.txt data (the bases of the
// Emoji_Modifier_Sequence rows). Immutable after construction.
type ModifierBases struct {
	set map[rune]struct{}
}

// NewModifierBases scans emoji-sequences.txt-format lines and collects every
// base character of an Emoji_Modifier_Sequence row. Lines without the type
// marker, comment lines, and lines whose leading field is not a 4- or
// 5-digit codepoint are skipped silently; the data file mixes row formats
// and only the modifier rows concern us.
func NewModifierBases(lines []string) ModifierBases {
	mb := ModifierBases{set: make(map[rune]struct{})}
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "Emoji_Modifier_Sequence") {
			continue
		}
		field := line
		if semi := strings.IndexByte(line, ';'); semi >= 0 {
			field = line[:semi]
		}
		fields := strings.Fields(field)
		if len(fields) == 0 {
			continue
		}
		base := fields[0]
		if len(base) < 4 || len(base) > 5 {
			continue
		}
		n, err := strconv.ParseUint(base, 16, 32)
		if err != nil {
			continue
		}
		mb.set[rune(n)] = struct{}{}
	}
	tracer().Infof("found %d modifier base characters", len(mb.set))
	return mb
}

// Contains reports whether r takes skin-tone modifiers.
func (mb ModifierBases) Contains(r rune) bool {
	_, ok := mb.set[r]
	return ok
}

// Len returns the number of known modifier base characters.
func (mb ModifierBases) Len() int {
	return len(mb.set)
}

// SequencesFor enumerates the canonical skin-tone variants of a resolved
// sequence whose leading character is a modifier base. A base already joined
// to an explicit male sign keeps that context, yielding five sequences; any
// other base yields ten, the five plain tone variants plus five female-
// signed ones. Callers probe the font for each and simply skip the misses.
// Order is deterministic: tones ascending, plain before female-signed.
func (mb ModifierBases) SequencesFor(seq Sequence) []Sequence {
	if len(seq) == 0 {
		return nil
	}
	base := seq[0]
	if !mb.Contains(base) {
		return nil
	}
	male := false
	for _, r := range seq {
		if r == MaleSign {
			male = true
			break
		}
	}
	if male {
		out := make([]Sequence, 0, len(SkinTones))
		for _, tone := range SkinTones {
			out = append(out, Seq(base, tone, ZWJ, MaleSign, VS16))
		}
		return out
	}
	out := make([]Sequence, 0, 2*len(SkinTones))
	for _, tone := range SkinTones {
		out = append(out, Seq(base, tone))
	}
	for _, tone := range SkinTones {
		out = append(out, Seq(base, tone, ZWJ, FemaleSign, VS16))
	}
	return out
}
