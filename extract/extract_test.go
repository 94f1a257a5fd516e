package extract

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/samuelngs/apple-emoji-linux/emoji"
	"github.com/samuelngs/apple-emoji-linux/font/ot"
)

// --- A minimal in-memory emoji font ----------------------------------------

// buildFont assembles an sfnt blob with a post 2.0 table naming the given
// glyphs and a single sbix strike holding the given payloads (all typed
// 'png ', origins zero). Glyph 0 must be ".notdef".
func buildFont(names []string, ppem uint16, payloads map[int][]byte) []byte {
	post := be32(nil, 0x00020000)
	for i := 0; i < 7; i++ {
		post = be32(post, 0)
	}
	post = be16(post, uint16(len(names)))
	var pool []byte
	for i, name := range names {
		if i == 0 {
			post = be16(post, 0) // .notdef
			continue
		}
		post = be16(post, uint16(258+len(poolNames(pool))))
		pool = append(pool, byte(len(name)))
		pool = append(pool, name...)
	}
	post = append(post, pool...)

	strike := be16(nil, ppem, 72)
	dataStart := 4 + 4*(len(names)+1)
	var data []byte
	for gid := 0; gid <= len(names); gid++ {
		strike = be32(strike, uint32(dataStart+len(data)))
		if gid == len(names) {
			break
		}
		if payload, ok := payloads[gid]; ok {
			data = be16(data, 0, 0)
			data = append(data, "png "...)
			data = append(data, payload...)
		}
	}
	strike = append(strike, data...)
	sbix := be16(nil, 1, 0)
	sbix = be32(sbix, 1, 12) // one strike, directly after the offset array
	sbix = append(sbix, strike...)

	font := be32(nil, 0x00010000)
	font = be16(font, 2, 0, 0, 0)
	postOff, sbixOff := 12+2*16, 12+2*16+len(post)
	font = append(font, "post"...)
	font = be32(font, 0, uint32(postOff), uint32(len(post)))
	font = append(font, "sbix"...)
	font = be32(font, 0, uint32(sbixOff), uint32(len(sbix)))
	font = append(font, post...)
	return append(font, sbix...)
}

func poolNames(pool []byte) []string {
	var names []string
	for pos := 0; pos < len(pool); {
		l := int(pool[pos])
		names = append(names, string(pool[pos+1:pos+1+l]))
		pos += 1 + l
	}
	return names
}

func be16(b []byte, vals ...uint16) []byte {
	for _, v := range vals {
		b = append(b, byte(v>>8), byte(v))
	}
	return b
}

func be32(b []byte, vals ...uint32) []byte {
	for _, v := range vals {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return b
}

// --- Fixtures --------------------------------------------------------------

var fontGlyphs = []string{
	".notdef",     // 0
	"u1F466",      // 1: boy
	"u1F6B4",      // 2: person biking
	"u1F6B4.1",    // 3: person biking, light skin tone
	"u1F6B4.1.W",  // 4: woman biking, light skin tone
	"decoration7", // 5: no emoji convention at all
}

var fontPayloads = map[int][]byte{
	1: []byte("boy-png"),
	2: []byte("biker-png"),
	3: []byte("light-biker-png"),
	4: []byte("light-woman-biker-png"),
	5: []byte("decoration-png"),
}

// the database deliberately omits the woman-biking sequences, so glyph 4
// stays unresolved in pass 1 and is only reachable via synthesis
var dbLines = []string{
	"1F466       ; fully-qualified # \U0001F466 E1.0 boy",
	"1F6B4       ; fully-qualified # \U0001F6B4 E1.0 person biking",
	"1F6B4 1F3FB ; fully-qualified # \U0001F6B4\U0001F3FB E1.0 person biking: light skin tone",
}

var basesLines = []string{
	"1F6B4 1F3FB ; Emoji_Modifier_Sequence ; person biking: light skin tone # E1.0 [1]",
}

func testExtractor(t *testing.T, sink AssetSink) *Extractor {
	t.Helper()
	otf, err := ot.Parse(buildFont(fontGlyphs, 160, fontPayloads))
	if err != nil {
		t.Fatal(err)
	}
	rsv := emoji.NewResolver(emoji.NewDatabase(dbLines))
	x := New(otf, rsv, emoji.NewModifierBases(basesLines), sink)
	x.PPEM = 160
	return x
}

// --- Tests -----------------------------------------------------------------

func TestAssetName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	seq := emoji.Seq(emoji.Man, emoji.ZWJ, 0x2764, emoji.VS16, emoji.ZWJ, emoji.Man)
	if name := AssetName(seq); name != "emoji_u1f468_200d_2764_200d_1f468" {
		t.Errorf("selector must be dropped from the identifier, got %q", name)
	}
	if name := AssetName(emoji.Seq(0xA9)); name != "emoji_u00a9" {
		t.Errorf("codepoints are zero-padded to 4 digits, got %q", name)
	}
}

func TestExtractRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	sink := NewMemorySink()
	x := testExtractor(t, sink)
	manifest, err := x.Run()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"emoji_u1f466":                 "boy-png",
		"emoji_u1f6b4":                 "biker-png",
		"emoji_u1f6b4_1f3fb":           "light-biker-png",
		"emoji_u1f6b4_1f3fb_200d_2640": "light-woman-biker-png", // synthesized
	}
	if len(sink.Assets) != len(want) {
		t.Errorf("expected %d assets, got %d: %v", len(want), len(sink.Assets), sink.Assets)
	}
	for name, payload := range want {
		if string(sink.Assets[name]) != payload {
			t.Errorf("asset %s holds %q, want %q", name, sink.Assets[name], payload)
		}
	}
	if manifest.Size() != len(want) {
		t.Errorf("manifest should list %d assets, lists %d", len(want), manifest.Size())
	}
	if _, found := manifest.Get("emoji_u1f6b4_1f3fb_200d_2640"); !found {
		t.Errorf("synthesized asset missing from manifest")
	}
	if x.Stats.Resolved != 3 || x.Stats.Unresolved != 2 {
		t.Errorf("stats: %+v", x.Stats)
	}
	if x.Stats.Synthesized != 1 {
		t.Errorf("expected 1 synthesized asset, stats: %+v", x.Stats)
	}
}

func TestExtractManifestOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	x := testExtractor(t, NewMemorySink())
	manifest, err := x.Run()
	if err != nil {
		t.Fatal(err)
	}
	prev := ""
	manifest.Each(func(key interface{}, value interface{}) {
		name := key.(string)
		if name <= prev {
			t.Errorf("manifest keys out of order: %q after %q", name, prev)
		}
		prev = name
		if value.(Asset).Name != name {
			t.Errorf("manifest value for %q names itself %q", name, value.(Asset).Name)
		}
	})
}

func TestExtractIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	sink := NewMemorySink()
	x := testExtractor(t, sink)
	if _, err := x.Run(); err != nil {
		t.Fatal(err)
	}
	assets := len(sink.Assets)
	manifest, err := x.Run()
	if err != nil {
		t.Fatal(err)
	}
	if manifest.Size() != 0 {
		t.Errorf("second run should emit nothing, emitted %d", manifest.Size())
	}
	if len(sink.Assets) != assets {
		t.Errorf("second run changed the sink: %d → %d assets", assets, len(sink.Assets))
	}
}

func TestExtractKeepRaw(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	sink := NewMemorySink()
	x := testExtractor(t, sink)
	x.KeepRaw = true
	if _, err := x.Run(); err != nil {
		t.Fatal(err)
	}
	if string(sink.Assets["decoration7"]) != "decoration-png" {
		t.Errorf("unresolved glyph should be kept under its raw name")
	}
}

func TestExtractMissingStrike(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	x := testExtractor(t, NewMemorySink())
	x.PPEM = 96
	if _, err := x.Run(); err == nil {
		t.Fatal("extraction without a matching strike should fail")
	}
}

func TestDirSink(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.extract")
	defer teardown()
	sink, err := NewDirSink(t.TempDir() + "/png")
	if err != nil {
		t.Fatal(err)
	}
	if sink.Exists("emoji_u1f466") {
		t.Fatal("empty sink should hold nothing")
	}
	if err := sink.Write("emoji_u1f466", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if !sink.Exists("emoji_u1f466") {
		t.Errorf("written asset should exist")
	}
	// second write must not overwrite
	if err := sink.Write("emoji_u1f466", []byte("two")); err != nil {
		t.Fatal(err)
	}
	x := testExtractor(t, sink)
	if _, err := x.Run(); err != nil {
		t.Fatal(err)
	}
	if !sink.Exists("emoji_u1f6b4") {
		t.Errorf("extraction into a DirSink should produce files")
	}
}