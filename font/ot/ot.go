package ot

import (
	"fmt"

	"github.com/samuelngs/apple-emoji-linux/core"
	"github.com/samuelngs/apple-emoji-linux/font"
	"golang.org/x/text/encoding/unicode"
)

// Font represents the internal structure of an SFNT font, or of one member
// font of a TrueType Collection. It is used to navigate the font's tables
// for glyph/bitmap extraction tasks.
//
// We only support fonts carrying both a 'post' table (version 2.0, for glyph
// names) and an 'sbix' table (for bitmap strikes); both are wired up as
// shortcuts after a successful parse.
type Font struct {
	F      *font.BinaryFont // back-link to the font file, may be nil
	Header *FontHeader
	tables map[Tag]Table
	Post   *PostTable // glyph names, mandatory
	Sbix   *SbixTable // bitmap strikes, mandatory
}

// FontHeader is a directory of the top-level tables in a font. If the font
// file contains only one font, the table directory will begin at byte 0 of
// the file. If the font file is a TrueType Collection, the beginning point
// of the table directory for each member font is indicated in the TTC
// header.
//
// Fonts with TrueType outlines use the value 0x00010000 for the FontType;
// the Apple specification additionally allows 'true'. Fonts containing CFF
// data use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Only the tables needed for bitmap extraction are interpreted ('post',
// 'sbix', 'maxp', 'name'). `Table` will nevertheless return at least a
// generic table type for each table contained in the font, i.e. no table
// information will be dropped.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// NumGlyphs returns the glyph count of the font, as stated by the 'post'
// table.
func (otf *Font) NumGlyphs() int {
	if otf.Post == nil {
		return 0
	}
	return otf.Post.NumGlyphs
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, or a
// per-glyph graphic type within an sbix strike.
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("sbix"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various SFNT font tables.
//
// Tables mandatory for extraction: 'post' (PostScript glyph names, version
// 2.0) and 'sbix' (bitmap strikes). Interpreted when present: 'maxp'
// (glyph-count cross-check) and 'name' (family/version strings for display).
// Every other table is kept as a generic byte segment.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Checksum() uint32         // checksum from the table directory record
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of SFNT tables.
type tableBase struct {
	data     binarySegm // a table is a slice of font data
	name     Tag        // 4-byte name as an integer
	offset   uint32     // from offset
	length   uint32     // to offset + length
	checksum uint32     // from the directory record; not re-validated
	self     interface{}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Checksum returns the checksum stated in the font's table directory.
func (tb *tableBase) Checksum() uint32 {
	return tb.checksum
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable {
	if p, ok := safeSelf(tself).(*PostTable); ok {
		return p
	}
	return nil
}

// AsSbix returns this table as an sbix table, or nil.
func (tself TableSelf) AsSbix() *SbixTable {
	if s, ok := safeSelf(tself).(*SbixTable); ok {
		return s
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if m, ok := safeSelf(tself).(*MaxPTable); ok {
		return m
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if n, ok := safeSelf(tself).(*NameTable); ok {
		return n
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// PostTable holds the glyph names of a font, as decoded from a version 2.0
// 'post' table. Name indices below 258 reference the standard Macintosh
// glyph ordering; all other names come from a Pascal-string pool embedded
// after the fixed-size index. By definition, glyph ID 0 is the "missing
// glyph" placeholder '.notdef'.
type PostTable struct {
	tableBase
	NumGlyphs int
	names     []string             // glyph ID → name
	ids       map[string]GlyphIndex // name → first glyph ID carrying it
}

func newPostTable(tag Tag, b binarySegm, offset, size uint32) *PostTable {
	t := &PostTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// NameForGlyph returns the PostScript name of a glyph, or "" for an
// out-of-range glyph ID.
func (t *PostTable) NameForGlyph(gid GlyphIndex) string {
	if int(gid) >= len(t.names) {
		return ""
	}
	return t.names[gid]
}

// GlyphForName returns the glyph ID carrying a given name. If more than one
// glyph carries the name, the lowest glyph ID wins.
func (t *PostTable) GlyphForName(name string) (GlyphIndex, bool) {
	gid, ok := t.ids[name]
	return gid, ok
}

// Names returns all glyph names in glyph ID order. Should be treated as
// read-only by clients.
func (t *PostTable) Names() []string {
	return t.names
}

// SbixTable exposes the bitmap strikes of an 'sbix' table. Strike headers
// (ppem and resolution) are decoded eagerly, but a strike's per-glyph offset
// table is only materialized when the strike is selected with StrikeForPPEM.
type SbixTable struct {
	tableBase
	Flags     uint16
	numGlyphs int // wired from 'post' after parsing
	strikes   []strikeHeader
}

type strikeHeader struct {
	ppem   uint16
	ppi    uint16
	offset uint32 // strike start, from the beginning of 'sbix'
}

func newSbixTable(tag Tag, b binarySegm, offset, size uint32) *SbixTable {
	t := &SbixTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// StrikeCount returns the number of strikes embedded in the font.
func (t *SbixTable) StrikeCount() int {
	return len(t.strikes)
}

// StrikePPEMs returns the pixel sizes of all embedded strikes, in font order.
func (t *SbixTable) StrikePPEMs() []int {
	ppems := make([]int, len(t.strikes))
	for i, sh := range t.strikes {
		ppems[i] = int(sh.ppem)
	}
	return ppems
}

// StrikeForPPEM selects the first strike whose pixel size equals ppem and
// materializes its per-glyph offset table. If the font embeds no strike at
// that size, the returned error wraps ErrNoStrike; callers should retry with
// one of StrikePPEMs or fail their build.
func (t *SbixTable) StrikeForPPEM(ppem int) (*Strike, error) {
	for _, sh := range t.strikes {
		if int(sh.ppem) != ppem {
			continue
		}
		need := int(sh.offset) + 4 + (t.numGlyphs+1)*4
		if need > len(t.data) {
			return nil, errFontFormatAt("sbix strike glyph offsets truncated", int(t.offset)+int(sh.offset))
		}
		offsets := make([]uint32, t.numGlyphs+1)
		for i := range offsets {
			offsets[i], _ = t.data.u32(int(sh.offset) + 4 + i*4)
		}
		tracer().Debugf("materialized sbix strike %d ppem, %d glyph entries", ppem, t.numGlyphs)
		return &Strike{
			PPEM:    int(sh.ppem),
			PPI:     int(sh.ppi),
			base:    sh.offset,
			offsets: offsets,
			data:    t.data,
		}, nil
	}
	return nil, core.WrapError(ErrNoStrike, core.EMISSING,
		"sbix carries no strike with %d ppem (has %v)", ppem, t.StrikePPEMs())
}

// Strike is one resolution tier of an sbix table, holding at most one bitmap
// per glyph at a fixed pixel size. A glyph's image occupies the byte range
// [offset[i], offset[i+1]) within the strike region; an empty range means
// the glyph has no bitmap at this strike.
type Strike struct {
	PPEM    int
	PPI     int
	base    uint32     // strike start within the sbix table
	offsets []uint32   // numGlyphs+1 entries, relative to strike start
	data    binarySegm // the sbix table's bytes
}

// Bitmap returns the embedded bitmap of a glyph, or ok=false if the glyph
// has no bitmap at this strike (e.g., it is a non-printing or composite-only
// glyph). Payload bytes are not read until GlyphBitmap.Bytes is called.
//
// A 'dupe'-typed glyph record shares the bitmap of another glyph; it is
// followed one level to the referenced glyph.
func (s *Strike) Bitmap(gid GlyphIndex) (GlyphBitmap, bool) {
	return s.bitmap(gid, 0)
}

func (s *Strike) bitmap(gid GlyphIndex, depth int) (GlyphBitmap, bool) {
	if int(gid)+1 >= len(s.offsets) {
		return GlyphBitmap{}, false
	}
	from, to := s.offsets[gid], s.offsets[gid+1]
	if from >= to {
		return GlyphBitmap{}, false
	}
	lo, hi := int(s.base)+int(from), int(s.base)+int(to)
	if hi > len(s.data) || hi-lo < 8 {
		return GlyphBitmap{}, false
	}
	g := s.data[lo:hi]
	bm := GlyphBitmap{
		GlyphID:     gid,
		OriginX:     int16(u16(g)),
		OriginY:     int16(u16(g[2:])),
		GraphicType: MakeTag(g[4:8]),
		data:        g[8:],
	}
	if bm.GraphicType == T("dupe") {
		// payload is the 2-byte glyph ID whose bitmap this glyph shares
		if depth > 0 || len(bm.data) < 2 {
			return GlyphBitmap{}, false
		}
		ref := GlyphIndex(u16(bm.data))
		if ref == gid {
			return GlyphBitmap{}, false
		}
		return s.bitmap(ref, depth+1)
	}
	return bm, true
}

// GlyphBitmap is the embedded image of a single glyph within a strike,
// together with its drawing origin and graphic type ('png ', 'jpg ',
// 'tiff'). The payload is a view into the font's binary data; nothing is
// copied until Bytes is called, and the value is not retained by the strike.
type GlyphBitmap struct {
	GlyphID     GlyphIndex
	OriginX     int16
	OriginY     int16
	GraphicType Tag
	data        binarySegm
}

// Bytes returns the raw image payload of the glyph.
func (g GlyphBitmap) Bytes() []byte {
	return g.data
}

// Size returns the payload length in bytes without reading the payload.
func (g GlyphBitmap) Size() int {
	return len(g.data)
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// We use it only to cross-check the glyph count stated by 'post'.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// NameTable gives access to the naming table strings of a font.
// Only Unicode and Windows platform records (UTF-16BE encoded) are decoded.
type NameTable struct {
	tableBase
	entries map[uint16]string
}

// Naming table name IDs, as far as this package displays them.
const (
	NameIDFamily   uint16 = 1
	NameIDFullName uint16 = 4
	NameIDVersion  uint16 = 5
)

func newNameTable(tag Tag, b binarySegm, offset, size uint32) *NameTable {
	t := &NameTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// Entry returns the string for a given name ID, or "" if the font carries
// no decodable record for it.
func (t *NameTable) Entry(nameID uint16) string {
	return t.entries[nameID]
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
