package emoji

import (
	"strconv"
	"strings"
)

// Oracle is the canonical-database lookup the resolver matches its candidate
// sequences against. *Database implements it; tests may substitute a stub.
type Oracle interface {
	FindBySequence(Sequence) (*Emoji, bool)
}

// Resolver maps font-internal glyph names to Unicode codepoint sequences.
// The glyph-name convention is expressed as an ordered list of patterns;
// the first pattern claiming a name decides its base candidate, from which
// the optional-selector variants are derived.
type Resolver struct {
	oracle   Oracle
	patterns []pattern
}

// NewResolver builds a Resolver around a canonical emoji database.
func NewResolver(oracle Oracle) *Resolver {
	return &Resolver{
		oracle:   oracle,
		patterns: []pattern{compositePattern{}, tokenPattern{}},
	}
}

// pattern is one rule of the glyph-name convention. match reports whether
// the rule claims a name; a claimed name yields its base candidate sequence,
// or nil if the name is claimed but malformed (and thus unresolvable).
type pattern interface {
	match(name string) (Sequence, bool)
}

// Candidates generates all candidate sequences a glyph name could represent:
// the base candidate produced by the claiming pattern, plus the variants
// without variation selector, without joiners, and with a variation selector
// appended, since fonts and the Unicode data disagree on optional-selector
// presence. Candidates is deterministic and free of database lookups.
func (rsv *Resolver) Candidates(name string) []Sequence {
	for _, p := range rsv.patterns {
		if base, ok := p.match(name); ok {
			if base == nil {
				return nil
			}
			return variants(base)
		}
	}
	return nil
}

// variants returns the candidate list for a base sequence, deduplicated,
// in evaluation order.
func variants(base Sequence) []Sequence {
	all := []Sequence{base, base.StripVS16(), base.StripZWJ(), base.PlusVS16()}
	seen := make(map[string]bool, len(all))
	out := make([]Sequence, 0, len(all))
	for _, cand := range all {
		if len(cand) == 0 {
			continue
		}
		key := string([]rune(cand))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cand)
	}
	return out
}

// Resolve maps a glyph name to the first candidate sequence the database
// knows. Unresolvable names return (nil, false); per the error policy this
// is expected for many glyphs (ligature helpers, flags components, …) and
// never an error.
func (rsv *Resolver) Resolve(name string) (Sequence, bool) {
	for _, cand := range rsv.Candidates(name) {
		if _, ok := rsv.oracle.FindBySequence(cand); ok {
			return cand, true
		}
	}
	return nil, false
}

// ResolveAll returns every candidate sequence of a glyph name that the
// database knows; all of them are valid aliases of the glyph.
func (rsv *Resolver) ResolveAll(name string) []Sequence {
	var out []Sequence
	for _, cand := range rsv.Candidates(name) {
		if _, ok := rsv.oracle.FindBySequence(cand); ok {
			out = append(out, cand)
		}
	}
	return out
}

// Matches reports whether a glyph name can stand for the wanted sequence.
// This is the resolver's "contains" mode: the name's candidate set is
// compared against the wanted sequence's own optional-selector variants, so
// that the two sides cannot miss each other over selector placement alone.
func (rsv *Resolver) Matches(name string, want Sequence) bool {
	wants := variants(want)
	for _, cand := range rsv.Candidates(name) {
		for _, w := range wants {
			if cand.Equal(w) {
				return true
			}
		}
	}
	return false
}

// --- Composite pattern -----------------------------------------------------

// composite describes one of the legacy composite codepoints whose glyph
// names enumerate their members as letter codes (e.g. u1F46A.MWG).
type composite struct {
	base       rune
	letters    string   // allowed member codes
	canonical  string   // the member code aliased to the bare legacy codepoint
	connective Sequence // joined between adjacent member emojis
}

// The canonical letter codes mirror which combinations own a dedicated
// legacy codepoint in Unicode. Extending composite coverage means extending
// this data, not the matching logic.
var composites = map[string]composite{
	"u1F46A": {base: Family, letters: "BGMW", canonical: "MWB",
		connective: Seq(ZWJ)},
	"u1F491": {base: Couple, letters: "MW", canonical: "WM",
		connective: Seq(ZWJ, HeavyHeart, VS16, ZWJ)},
	"u1F48F": {base: Kiss, letters: "MW", canonical: "WM",
		connective: Seq(ZWJ, HeavyHeart, VS16, ZWJ, KissMark, ZWJ)},
}

var memberEmoji = map[rune]rune{'M': Man, 'W': Woman, 'B': Boy, 'G': Girl}

// compositePattern matches the family/couple/kiss naming convention: a
// composite codepoint token followed by a dot and a letter code naming the
// members. The canonical member code bypasses composition and yields the
// bare legacy codepoint.
type compositePattern struct{}

func (compositePattern) match(name string) (Sequence, bool) {
	dot := strings.IndexByte(name, '.')
	if dot < 0 {
		return nil, false
	}
	c, ok := composites[name[:dot]]
	if !ok {
		return nil, false
	}
	code := name[dot+1:]
	if code == "" || !isUpperLetters(code) {
		return nil, false // digit suffixes belong to the token pattern
	}
	if code == c.canonical {
		// the font aliases the canonical gender combination to the
		// legacy codepoint itself
		return Seq(c.base), true
	}
	seq := make(Sequence, 0, len(code)*4)
	for i, letter := range code {
		person, known := memberEmoji[letter]
		if !known || !strings.ContainsRune(c.letters, letter) {
			tracer().Infof("glyph name %s: unknown composite member code %q", name, string(letter))
			return nil, true
		}
		if i > 0 {
			seq = append(seq, c.connective...)
		}
		seq = append(seq, person)
	}
	return seq, true
}

func isUpperLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// --- Token pattern ---------------------------------------------------------

// tokenPattern matches all remaining names: u<HEX> tokens joined by
// underscores (every subsequent token is preceded by a joiner in the
// sequence, on the assumption that multi-token names are joined sequences;
// fonts which name their joiners explicitly are not given a second one),
// plus dot-suffixes, reduced in reading order:
//
//	.0           gender-neutral marker, stripped (not part of the sequence)
//	.1 … .5      skin-tone modifier
//	.M / .W      variation selector, joiner, and the gender sign
//	.u<HEX>      a scalar concatenated without a joiner
type tokenPattern struct{}

func (tokenPattern) match(name string) (Sequence, bool) {
	parts := strings.Split(name, ".")
	tokens := strings.Split(parts[0], "_")
	seq := make(Sequence, 0, len(tokens)*2)
	for _, tok := range tokens {
		r, ok := scalarToken(tok)
		if !ok {
			return nil, false
		}
		if len(seq) > 0 && seq[len(seq)-1] != ZWJ && r != ZWJ {
			seq = append(seq, ZWJ)
		}
		seq = append(seq, r)
	}
	for _, suffix := range parts[1:] {
		switch suffix {
		case "0":
			// gender-neutral marker only
		case "1", "2", "3", "4", "5":
			seq = append(seq, SkinTones[suffix[0]-'1'])
		case "M":
			seq = append(seq, VS16, ZWJ, MaleSign)
		case "W":
			seq = append(seq, VS16, ZWJ, FemaleSign)
		default:
			if r, ok := scalarToken(suffix); ok {
				seq = append(seq, r)
				continue
			}
			tracer().Infof("glyph name %s: unknown suffix %q", name, suffix)
			return nil, true
		}
	}
	return seq, true
}

func scalarToken(tok string) (rune, bool) {
	if len(tok) < 2 || tok[0] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(tok[1:], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
