package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/samuelngs/apple-emoji-linux/core"
)

// --- Synthetic test fonts --------------------------------------------------

// testStrike describes one sbix strike for buildTestFont: payloads per glyph
// ID, with an optional graphic type override (default 'png ').
type testStrike struct {
	ppem, ppi uint16
	payload   map[int][]byte
	graphType map[int]string
}

// buildTestFont assembles a minimal binary sfnt carrying a version 2.0 post
// table with the given glyph names (glyph 0 should be ".notdef") and an sbix
// table with the given strikes. extra shifts all table offsets, for wrapping
// the font into a collection.
func buildTestFont(names []string, strikes []testStrike, extra int) []byte {
	post := buildPost(names)
	sbix := buildSbix(len(names), strikes)
	// offset table + 2 table records
	font := make([]byte, 0, 12+2*16+len(post)+len(sbix))
	font = append32(font, 0x00010000)
	font = append16(font, 2)       // numTables
	font = append16(font, 0, 0, 0) // binary search helpers, unused
	postOff := extra + 12 + 2*16
	sbixOff := postOff + len(post)
	font = appendTag(font, "post")
	font = append32(font, 0, uint32(postOff), uint32(len(post)))
	font = appendTag(font, "sbix")
	font = append32(font, 0, uint32(sbixOff), uint32(len(sbix)))
	font = append(font, post...)
	font = append(font, sbix...)
	return font
}

func buildPost(names []string) []byte {
	b := make([]byte, 0, 64)
	b = append32(b, 0x00020000)
	for i := 0; i < 7; i++ { // italicAngle … maxMemType1
		b = append32(b, 0)
	}
	b = append16(b, uint16(len(names)))
	var pool []byte
	next := 258
	for _, name := range names {
		if name == ".notdef" {
			b = append16(b, 0)
			continue
		}
		b = append16(b, uint16(next))
		next++
		pool = append(pool, byte(len(name)))
		pool = append(pool, name...)
	}
	return append(b, pool...)
}

func buildSbix(numGlyphs int, strikes []testStrike) []byte {
	b := make([]byte, 0, 64)
	b = append16(b, 1, 0) // version, flags
	b = append32(b, uint32(len(strikes)))
	strikeStart := 8 + 4*len(strikes)
	var blobs []byte
	for _, s := range strikes {
		b = append32(b, uint32(strikeStart+len(blobs)))
		blobs = append(blobs, buildStrike(numGlyphs, s)...)
	}
	return append(b, blobs...)
}

func buildStrike(numGlyphs int, s testStrike) []byte {
	b := make([]byte, 0, 64)
	b = append16(b, s.ppem, s.ppi)
	dataStart := 4 + 4*(numGlyphs+1)
	var data []byte
	for gid := 0; gid <= numGlyphs; gid++ {
		b = append32(b, uint32(dataStart+len(data)))
		if gid == numGlyphs {
			break
		}
		payload, ok := s.payload[gid]
		if !ok {
			continue // empty range, no bitmap
		}
		gt := s.graphType[gid]
		if gt == "" {
			gt = "png "
		}
		data = append16(data, 0, 0) // originX, originY
		data = append(data, gt...)
		data = append(data, payload...)
	}
	return append(b, data...)
}

func append16(b []byte, vals ...uint16) []byte {
	for _, v := range vals {
		b = append(b, byte(v>>8), byte(v))
	}
	return b
}

func append32(b []byte, vals ...uint32) []byte {
	for _, v := range vals {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return b
}

func appendTag(b []byte, tag string) []byte {
	return append(b, tag...)
}

// wrapTTC puts a single test font into a TrueType Collection envelope.
func wrapTTC(names []string, strikes []testStrike) []byte {
	const hdr = 16 // ttcf, version, numFonts, one offset
	member := buildTestFont(names, strikes, hdr)
	ttc := make([]byte, 0, hdr+len(member))
	ttc = appendTag(ttc, "ttcf")
	ttc = append32(ttc, 0x00010000, 1, hdr)
	return append(ttc, member...)
}

var testNames = []string{".notdef", "u1F466", "u1F6B4.1", "dupeglyph", "nobitmap"}

func testFontData() []byte {
	return buildTestFont(testNames, []testStrike{
		{ppem: 32, ppi: 72, payload: map[int][]byte{1: []byte("tiny-payload")}},
		{ppem: 136, ppi: 72, payload: map[int][]byte{
			1: []byte("boy-bitmap-bytes"),
			2: []byte("biker-bitmap-bytes"),
			3: {0x00, 0x01}, // shares glyph 1's bitmap
		}, graphType: map[int]string{3: "dupe"}},
	}, 0)
}

// --- Tests -----------------------------------------------------------------

func TestParsePostNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	otf, err := Parse(testFontData())
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumGlyphs() != len(testNames) {
		t.Fatalf("expected %d glyphs, got %d", len(testNames), otf.NumGlyphs())
	}
	if name := otf.Post.NameForGlyph(0); name != ".notdef" {
		t.Errorf("glyph 0 should be '.notdef', is %q", name)
	}
	if name := otf.Post.NameForGlyph(2); name != "u1F6B4.1" {
		t.Errorf("glyph 2 name is %q", name)
	}
	if gid, ok := otf.Post.GlyphForName("u1F466"); !ok || gid != 1 {
		t.Errorf("reverse lookup of u1F466 returned %d (%v)", gid, ok)
	}
	if name := otf.Post.NameForGlyph(999); name != "" {
		t.Errorf("out-of-range glyph should have empty name, got %q", name)
	}
}

func TestStrikeSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	otf, err := Parse(testFontData())
	if err != nil {
		t.Fatal(err)
	}
	if n := otf.Sbix.StrikeCount(); n != 2 {
		t.Fatalf("expected 2 strikes, got %d", n)
	}
	strike, err := otf.Sbix.StrikeForPPEM(136)
	if err != nil {
		t.Fatal(err)
	}
	if strike.PPEM != 136 || strike.PPI != 72 {
		t.Errorf("strike header mismatch: %d ppem at %d ppi", strike.PPEM, strike.PPI)
	}
	_, err = otf.Sbix.StrikeForPPEM(160)
	if err == nil {
		t.Fatal("requesting a 160 ppem strike from a {32, 136} font should fail")
	}
	if !errors.Is(err, ErrNoStrike) {
		t.Errorf("error should wrap ErrNoStrike, is %v", err)
	}
	if core.Code(err) != core.EMISSING {
		t.Errorf("missing strike should carry code EMISSING, has %d", core.Code(err))
	}
}

func TestGlyphBitmap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	otf, err := Parse(testFontData())
	if err != nil {
		t.Fatal(err)
	}
	strike, err := otf.Sbix.StrikeForPPEM(136)
	if err != nil {
		t.Fatal(err)
	}
	bm, ok := strike.Bitmap(1)
	if !ok {
		t.Fatal("glyph 1 should have a bitmap")
	}
	if bm.GraphicType != T("png ") {
		t.Errorf("graphic type should be 'png ', is %s", bm.GraphicType)
	}
	if string(bm.Bytes()) != "boy-bitmap-bytes" {
		t.Errorf("payload mismatch: %q", bm.Bytes())
	}
	if bm.Size() != len("boy-bitmap-bytes") {
		t.Errorf("size mismatch: %d", bm.Size())
	}
	if _, ok := strike.Bitmap(4); ok {
		t.Errorf("glyph 4 has an empty byte range and should have no bitmap")
	}
	if _, ok := strike.Bitmap(999); ok {
		t.Errorf("out-of-range glyph should have no bitmap")
	}
}

func TestDupeGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	otf, err := Parse(testFontData())
	if err != nil {
		t.Fatal(err)
	}
	strike, err := otf.Sbix.StrikeForPPEM(136)
	if err != nil {
		t.Fatal(err)
	}
	bm, ok := strike.Bitmap(3)
	if !ok {
		t.Fatal("dupe glyph should follow to its referenced bitmap")
	}
	if string(bm.Bytes()) != "boy-bitmap-bytes" {
		t.Errorf("dupe glyph should share glyph 1's payload, got %q", bm.Bytes())
	}
	if bm.GlyphID != 1 {
		t.Errorf("followed bitmap should identify as glyph 1, is %d", bm.GlyphID)
	}
}

func TestParseCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	ttc := wrapTTC(testNames, []testStrike{
		{ppem: 136, ppi: 72, payload: map[int][]byte{1: []byte("abc")}},
	})
	otf, err := Parse(ttc) // member 0 by default
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumGlyphs() != len(testNames) {
		t.Errorf("TTC member should parse like the plain font")
	}
	if _, err := ParseCollection(ttc, 3); err == nil {
		t.Errorf("member index 3 of a 1-font collection should fail")
	}
	if _, err := ParseCollection(testFontData(), 1); err == nil {
		t.Errorf("a member index > 0 on a plain sfnt file should fail")
	}
}

func TestParseMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	if _, err := Parse([]byte{1, 2, 3}); err == nil {
		t.Errorf("a 3-byte font should not parse")
	}
	data := testFontData()
	if _, err := Parse(data[:len(data)-10]); err == nil {
		t.Errorf("a truncated font should not parse")
	}
	bad := append([]byte{}, data...)
	bad[0], bad[1], bad[2], bad[3] = 'X', 'X', 'X', 'X'
	if _, err := Parse(bad); err == nil {
		t.Errorf("an unknown sfnt version should not parse")
	}
}

func TestUnsupportedPostVersion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.fonts")
	defer teardown()
	data := testFontData()
	// patch the post table version to 3.0
	postOff := 12 + 2*16
	data[postOff] = 0x00
	data[postOff+1] = 0x03
	data[postOff+2] = 0x00
	data[postOff+3] = 0x00
	_, err := Parse(data)
	if err == nil {
		t.Fatal("post version 3.0 carries no names and should be rejected")
	}
	if !errors.Is(err, ErrUnsupportedPost) {
		t.Errorf("error should wrap ErrUnsupportedPost, is %v", err)
	}
}
