package extract

import (
	"bytes"
	"fmt"
	"image"
	"sort"
	"strings"

	_ "image/jpeg" // sbix payload formats, registered for dimension probing
	_ "image/png"

	"github.com/derekparker/trie"
	"github.com/emirpasic/gods/maps/treemap"
	_ "golang.org/x/image/tiff"

	"github.com/samuelngs/apple-emoji-linux/emoji"
	"github.com/samuelngs/apple-emoji-linux/font/ot"
)

// AssetName derives the asset identifier for a sequence: lowercase hex
// codepoints joined by underscores, prefixed "emoji_u". Variation selectors
// do not participate in the identifier.
func AssetName(seq emoji.Sequence) string {
	var b strings.Builder
	b.WriteString("emoji_u")
	first := true
	for _, r := range seq {
		if r == emoji.VS16 {
			continue
		}
		if !first {
			b.WriteByte('_')
		}
		first = false
		fmt.Fprintf(&b, "%04x", r)
	}
	return b.String()
}

// Asset describes one emitted asset, as recorded in the run manifest.
type Asset struct {
	Name        string
	GlyphID     ot.GlyphIndex
	Sequence    emoji.Sequence
	Size        int
	Width       int // 0 if the payload could not be probed
	Height      int
	Synthesized bool // emitted by the skin-tone synthesis pass
}

// Stats summarizes an extraction run.
type Stats struct {
	Glyphs      int // glyphs carrying a bitmap at the selected strike
	Resolved    int
	Unresolved  int
	Emitted     int // assets written in this run (pass 1)
	Synthesized int // assets written by the synthesis pass
}

// Extractor pulls emoji bitmap assets out of a parsed font. Zero value is
// not usable; construct with New. Extraction is single-threaded and bitmap
// payloads are only materialized at write time.
type Extractor struct {
	otf   *ot.Font
	rsv   *emoji.Resolver
	bases emoji.ModifierBases
	sink  AssetSink

	PPEM    int  // strike to extract, in pixels per em
	KeepRaw bool // retain unresolved glyphs under their raw names, for debugging

	Stats Stats
}

// New creates an Extractor over a parsed font. The resolver decides which
// sequences glyph names stand for; bases drives the skin-tone synthesis
// pass; all emitted assets go to sink.
func New(otf *ot.Font, rsv *emoji.Resolver, bases emoji.ModifierBases, sink AssetSink) *Extractor {
	return &Extractor{
		otf:   otf,
		rsv:   rsv,
		bases: bases,
		sink:  sink,
		PPEM:  160,
	}
}

type resolvedGlyph struct {
	gid ot.GlyphIndex
	seq emoji.Sequence
}

// Run extracts all assets from the strike selected by PPEM and returns the
// manifest of assets written in this run, keyed and ordered by identifier.
// A missing strike is fatal; unresolvable glyph names are not.
func (x *Extractor) Run() (*treemap.Map, error) {
	strike, err := x.otf.Sbix.StrikeForPPEM(x.PPEM)
	if err != nil {
		return nil, err
	}
	x.Stats = Stats{}
	manifest := treemap.NewWithStringComparator()
	index := trie.New() // names of bitmap-carrying glyphs
	var resolved []resolvedGlyph

	// pass 1: emit every glyph whose name resolves to a known sequence
	for gid := 0; gid < x.otf.NumGlyphs(); gid++ {
		g := ot.GlyphIndex(gid)
		name := x.otf.Post.NameForGlyph(g)
		if name == "" || name == ".notdef" {
			continue
		}
		bm, ok := strike.Bitmap(g)
		if !ok {
			continue
		}
		x.Stats.Glyphs++
		index.Add(name, g)
		seq, ok := x.rsv.Resolve(name)
		if !ok {
			x.Stats.Unresolved++
			tracer().Debugf("glyph %d (%s) resolves to no sequence", gid, name)
			if x.KeepRaw {
				if err := x.sink.Write(name, bm.Bytes()); err != nil {
					return nil, err
				}
			}
			continue
		}
		x.Stats.Resolved++
		written, err := x.emit(manifest, AssetName(seq), bm, seq, false)
		if err != nil {
			return nil, err
		}
		if written {
			x.Stats.Emitted++
		}
		resolved = append(resolved, resolvedGlyph{gid: g, seq: seq})
	}

	// pass 2: synthesize skin-tone sequences the font names differently
	for _, rg := range resolved {
		if _, toned := rg.seq.SkinTone(); toned {
			continue // tone variants re-enumerate their base's set
		}
		for _, want := range x.bases.SequencesFor(rg.seq) {
			name := AssetName(want)
			if x.sink.Exists(name) {
				continue
			}
			gid, ok := x.findGlyphFor(index, want)
			if !ok {
				tracer().Debugf("no glyph renders synthesized sequence %s", want.Hex())
				continue
			}
			bm, ok := strike.Bitmap(gid)
			if !ok {
				continue
			}
			written, err := x.emit(manifest, name, bm, want, true)
			if err != nil {
				return nil, err
			}
			if written {
				x.Stats.Synthesized++
			}
		}
	}
	tracer().Infof("extracted %d assets (%d synthesized), %d of %d glyphs unresolved",
		manifest.Size(), x.Stats.Synthesized, x.Stats.Unresolved, x.Stats.Glyphs)
	return manifest, nil
}

// emit writes a bitmap to the sink unless the asset already exists, and
// records written assets in the manifest.
func (x *Extractor) emit(manifest *treemap.Map, name string, bm ot.GlyphBitmap,
	seq emoji.Sequence, synthesized bool) (bool, error) {
	if x.sink.Exists(name) {
		tracer().Debugf("asset %s already exists, skipping", name)
		return false, nil
	}
	data := bm.Bytes()
	if err := x.sink.Write(name, data); err != nil {
		return false, err
	}
	asset := Asset{
		Name:        name,
		GlyphID:     bm.GlyphID,
		Sequence:    seq,
		Size:        len(data),
		Synthesized: synthesized,
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.Width, asset.Height = cfg.Width, cfg.Height
		tracer().Debugf("asset %s: %s %dx%d, %d bytes", name, format, cfg.Width, cfg.Height, len(data))
	} else {
		tracer().Infof("asset %s: payload not decodable as an image: %v", name, err)
	}
	manifest.Put(name, asset)
	return true, nil
}

// findGlyphFor hunts the name index for a glyph whose candidate set contains
// the wanted sequence. The search space is narrowed to names starting with
// the base character's token, and further to names bearing the matching
// tone-digit suffix when the sequence carries a skin tone. Names are visited
// in sorted order so that repeated runs pick the same glyph.
func (x *Extractor) findGlyphFor(index *trie.Trie, want emoji.Sequence) (ot.GlyphIndex, bool) {
	if len(want) == 0 {
		return 0, false
	}
	names := index.PrefixSearch(fmt.Sprintf("u%04X", want[0]))
	if tone, toned := want.SkinTone(); toned {
		suffix := "." + string('1'+byte(tone-emoji.SkinTones[0]))
		narrowed := names[:0]
		for _, name := range names {
			if strings.Contains(name, suffix) {
				narrowed = append(narrowed, name)
			}
		}
		names = narrowed
	}
	sort.Strings(names)
	for _, name := range names {
		if !x.rsv.Matches(name, want) {
			continue
		}
		node, ok := index.Find(name)
		if !ok {
			continue
		}
		return node.Meta().(ot.GlyphIndex), true
	}
	return 0, false
}
