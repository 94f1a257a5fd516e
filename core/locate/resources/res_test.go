package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/testconfig"
	"github.com/samuelngs/apple-emoji-linux/core"
)

func TestResolveExplicitFontPath(t *testing.T) {
	teardown := testconfig.QuickConfig(t, map[string]string{
		"app-key": "emoji-test",
	})
	defer teardown()
	fpath := filepath.Join(t.TempDir(), "Apple Color Emoji.ttc")
	if err := os.WriteFile(fpath, []byte("stub"), 0644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolveFontFile(fpath).Path()
	if err != nil {
		t.Fatal(err)
	}
	if resolved != fpath {
		t.Errorf("explicit path should resolve verbatim, got %s", resolved)
	}
}

func TestResolveMissingFont(t *testing.T) {
	teardown := testconfig.QuickConfig(t, map[string]string{
		"app-key": "emoji-test",
	})
	defer teardown()
	_, err := ResolveFontFile(filepath.Join(t.TempDir(), "no-such-font.ttc")).Path()
	if err == nil {
		t.Fatal("a missing font file should not resolve")
	}
	if core.Code(err) != core.EMISSING {
		t.Errorf("missing font should carry code EMISSING, has %d", core.Code(err))
	}
}

func TestEmojiTestFromLocalFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "emoji-test.txt")
	content := "# group: Smileys\n1F600 ; fully-qualified # \U0001F600 E1.0 grinning face\n"
	if err := os.WriteFile(fpath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	teardown := testconfig.QuickConfig(t, map[string]string{
		"app-key":        "emoji-test",
		"emoji-test-url": "file://" + fpath,
	})
	defer teardown()
	lines, err := EmojiTest().Lines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) < 2 || lines[1] != "1F600 ; fully-qualified # \U0001F600 E1.0 grinning face" {
		t.Errorf("unexpected lines: %q", lines)
	}
}

func TestEmojiSequencesFromLocalFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "emoji-sequences.txt")
	content := "1F6B4 1F3FB ; Emoji_Modifier_Sequence ; person biking # E1.0 [1]\n"
	if err := os.WriteFile(fpath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	teardown := testconfig.QuickConfig(t, map[string]string{
		"app-key":             "emoji-test",
		"emoji-sequences-url": fpath, // a plain path works like a file URL
	})
	defer teardown()
	lines, err := EmojiSequences().Lines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 || lines[0] != "1F6B4 1F3FB ; Emoji_Modifier_Sequence ; person biking # E1.0 [1]" {
		t.Errorf("unexpected lines: %q", lines)
	}
}
