package ot

import (
	"bytes"
	"encoding/binary"

	"github.com/samuelngs/apple-emoji-linux/core"
)

// Code comments often cite passages from the OpenType specification
// version 1.9 and from Apple's TrueType Reference Manual;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/
// and https://developer.apple.com/fonts/TrueType-Reference-Manual/.

// ---------------------------------------------------------------------------

// ttcTag is the signature of a TrueType Collection header ('ttcf').
var ttcTag = T("ttcf")

// Parse parses an SFNT font from a byte slice. If the data is a TrueType
// Collection, the first member font (index 0) is selected.
//
// An ot.Font needs ongoing access to the font's byte-data after the Parse
// function returns. Its elements are assumed immutable while the ot.Font
// remains in use; in particular, bitmap payloads handed out by the sbix
// strike are views into the parsed data.
func Parse(data []byte) (*Font, error) {
	return ParseCollection(data, 0)
}

// ParseCollection parses member fontIndex of a TrueType Collection.
// Plain SFNT files parse at offset 0; for those, only index 0 is valid.
func ParseCollection(data []byte, fontIndex int) (*Font, error) {
	src := binarySegm(data)
	var base uint32
	if sig, err := src.u32(0); err != nil {
		return nil, errFontFormatAt("missing font signature", 0)
	} else if Tag(sig) == ttcTag {
		// TTC header: version, numFonts, then numFonts offsets to member
		// table directories.
		version, _ := src.u32(4)
		if version != 0x00010000 && version != 0x00020000 {
			return nil, errFontFormatAt("unknown TTC header version", 4)
		}
		n, err := src.u32(8)
		if err != nil {
			return nil, errFontFormatAt("truncated TTC header", 8)
		}
		tracer().Debugf("TTC holds %d fonts, selecting member %d", n, fontIndex)
		if fontIndex < 0 || fontIndex >= int(n) {
			return nil, errFontFormat("TTC font index out of range")
		}
		base, err = src.u32(12 + fontIndex*4)
		if err != nil {
			return nil, errFontFormatAt("truncated TTC offset table", 12+fontIndex*4)
		}
	} else if fontIndex != 0 {
		return nil, errFontFormat("font index given, but file is not a collection")
	}
	return parseSfnt(src, base)
}

// parseSfnt decodes the table directory of a single SFNT font starting at
// the given byte offset and dispatches each table to its parser.
func parseSfnt(src binarySegm, base uint32) (*Font, error) {
	// The Offset Table is 12 bytes: sfntVersion, numTables, and binary-search
	// helpers which we ignore.
	if int(base)+12 > len(src) {
		return nil, errFontFormatAt("truncated font directory", int(base))
	}
	r := bytes.NewReader(src[base:])
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h.FontType); err != nil {
		return nil, errFontFormatAt("font header", int(base))
	}
	tracer().Debugf("font type = %x|%s", h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormatAt("font type not supported", int(base))
	}
	h.TableCount, _ = src.u16(int(base) + 4)
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(int(base)+12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormatAt("truncated table record entries", int(base)+12)
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		chksum := u32(b[4:8])
		off, size := u32(b[8:12]), u32(b[12:16])
		if int(off)+int(size) > len(src) {
			return nil, errFontFormat("table " + tag.String() + " extends beyond end of file")
		}
		otf.tables[tag], err = parseTable(tag, src[off:off+size], off, size)
		if err != nil {
			return nil, err
		}
		if t, ok := otf.tables[tag].(interface{ setChecksum(uint32) }); ok {
			t.setChecksum(chksum)
		}
	}
	if err := checkTables(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

func (tb *tableBase) setChecksum(chksum uint32) {
	tb.checksum = chksum
}

// RequiredTables lists the tables a font must carry for bitmap extraction
// to be possible at all.
var RequiredTables = []string{"post", "sbix"}

// Consistency check and shortcuts to the essential tables. The glyph count
// of 'post' is authoritative; a disagreeing 'maxp' is reported but does not
// fail the parse.
func checkTables(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return core.Error(core.EMISSING, "font carries no %s table, cannot extract bitmaps", tag)
		}
	}
	otf.Post = otf.tables[T("post")].Self().AsPost()
	otf.Sbix = otf.tables[T("sbix")].Self().AsSbix()
	otf.Sbix.numGlyphs = otf.Post.NumGlyphs
	if ma := otf.Table(T("maxp")); ma != nil {
		if maxp := ma.Self().AsMaxP(); maxp != nil && maxp.NumGlyphs != otf.Post.NumGlyphs {
			tracer().Infof("maxp states %d glyphs, post states %d; using post",
				maxp.NumGlyphs, otf.Post.NumGlyphs)
		}
	}
	if nm := otf.Table(T("name")); nm != nil {
		if names := nm.Self().AsName(); names != nil {
			tracer().Infof("font is %q, version %q",
				names.Entry(NameIDFamily), names.Entry(NameIDVersion))
		}
	}
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("post"):
		return parsePost(t, b, offset, size)
	case T("sbix"):
		return parseSbix(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("name"):
		return parseName(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Post table ------------------------------------------------------------

// The 'post' table comes in several versions; only version 2.0 carries
// per-glyph names. The name index maps glyph IDs into a two-part name space:
// indices 0–257 reference the standard Macintosh glyph ordering, indices
// ≥ 258 reference entry (index − 258) of a Pascal-string pool following the
// index, read sequentially until the table's declared end.
func parsePost(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 34 {
		return nil, errFontFormatAt("post table too small", int(offset))
	}
	version, _ := b.u32(0)
	if version != 0x00020000 {
		return nil, core.WrapError(ErrUnsupportedPost, core.EINVALID,
			"post table version %d.%d carries no glyph names", version>>16, version&0xffff)
	}
	t := newPostTable(tag, b, offset, size)
	n, _ := b.u16(32)
	t.NumGlyphs = int(n)
	indexEnd := 34 + 2*t.NumGlyphs
	if int(size) < indexEnd {
		return nil, errFontFormatAt("post glyph name index truncated", int(offset)+34)
	}
	// Read the Pascal-string pool following the index.
	var pool []string
	for pos := indexEnd; pos < int(size); {
		l := int(b[pos])
		pos++
		if pos+l > int(size) {
			return nil, errFontFormatAt("post string pool truncated", int(offset)+pos)
		}
		pool = append(pool, string(b[pos:pos+l]))
		pos += l
	}
	t.names = make([]string, t.NumGlyphs)
	t.ids = make(map[string]GlyphIndex, t.NumGlyphs)
	for gid := 0; gid < t.NumGlyphs; gid++ {
		inx, _ := b.u16(34 + gid*2)
		var name string
		if inx < 258 {
			name = macGlyphNames[inx]
		} else {
			pinx := int(inx) - 258
			if pinx >= len(pool) {
				// a well-formed font never triggers this
				return nil, errFontFormatAt("post name index exceeds string pool", int(offset)+34+gid*2)
			}
			name = pool[pinx]
		}
		t.names[gid] = name
		if _, ok := t.ids[name]; !ok {
			t.ids[name] = GlyphIndex(gid)
		}
	}
	tracer().Debugf("post table names %d glyphs, %d pooled strings", t.NumGlyphs, len(pool))
	return t, nil
}

// --- Sbix table ------------------------------------------------------------

// The 'sbix' table starts with version, flags and a strike count, followed
// by 32-bit offsets to the strikes. Each strike begins with ppem and ppi,
// followed by numGlyphs+1 offsets into the strike's glyph data. We decode
// only the strike headers here; offset tables are materialized per strike
// in StrikeForPPEM, since a run ever uses a single strike.
func parseSbix(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 8 {
		return nil, errFontFormatAt("sbix table too small", int(offset))
	}
	t := newSbixTable(tag, b, offset, size)
	version, _ := b.u16(0)
	if version != 1 {
		tracer().Infof("sbix table has version %d, expected 1; reading anyway", version)
	}
	t.Flags, _ = b.u16(2)
	n, _ := b.u32(4)
	if int(size) < 8+4*int(n) {
		return nil, errFontFormatAt("sbix strike offsets truncated", int(offset)+8)
	}
	for i := 0; i < int(n); i++ {
		soff, _ := b.u32(8 + 4*i)
		if int(soff)+4 > int(size) {
			return nil, errFontFormatAt("sbix strike header out of bounds", int(offset)+8+4*i)
		}
		ppem, _ := b.u16(int(soff))
		ppi, _ := b.u16(int(soff) + 2)
		t.strikes = append(t.strikes, strikeHeader{ppem: ppem, ppi: ppi, offset: soff})
	}
	tracer().Debugf("sbix table has %d strikes: %v ppem", len(t.strikes), t.StrikePPEMs())
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with
// CFF data use Version 0.5 of this table, specifying only the numGlyphs
// field, which is the only field we read.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size <= 6 {
		return nil, nil
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}

// --- Name table ------------------------------------------------------------

// The naming table stores strings in multiple platform/encoding/language
// flavours. We decode Unicode (0,x) and Windows (3,1)/(3,10) records, which
// are UTF-16BE; English records win over other languages for the same ID.
func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormatAt("name table too small", int(offset))
	}
	t := newNameTable(tag, b, offset, size)
	t.entries = make(map[uint16]string)
	n, _ := b.u16(2)
	strOffset, _ := b.u16(4)
	if int(size) < 6+12*int(n) || int(strOffset) > int(size) {
		return nil, errFontFormatAt("name records truncated", int(offset)+6)
	}
	strbuf := b[strOffset:]
	for i := 0; i < int(n); i++ {
		rec, err := b.view(6+12*i, 12)
		if err != nil {
			break
		}
		pltf, enc := u16(rec), u16(rec[2:])
		if !(pltf == 0 || (pltf == 3 && (enc == 1 || enc == 10))) {
			continue
		}
		lang := u16(rec[4:])
		id := u16(rec[6:])
		strlen := u16(rec[8:])
		stroff := u16(rec[10:])
		if int(stroff)+int(strlen) > len(strbuf) {
			continue
		}
		s, err := decodeUtf16(strbuf[stroff : stroff+strlen])
		if err != nil {
			continue
		}
		if _, have := t.entries[id]; !have || lang == 0 || lang == 0x0409 {
			t.entries[id] = s
		}
	}
	return t, nil
}
