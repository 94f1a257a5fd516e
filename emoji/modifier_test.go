package emoji

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var testSequenceLines = []string{
	"# emoji-sequences.txt",
	"231A..231B    ; Basic_Emoji                  ; watch..hourglass done   # E0.6  [2]",
	"261D 1F3FB    ; Emoji_Modifier_Sequence      ; index pointing up: light skin tone # E1.0  [1]",
	"1F46E 1F3FB   ; Emoji_Modifier_Sequence      ; police officer: light skin tone    # E1.0  [1]",
	"1F46E 1F3FC   ; Emoji_Modifier_Sequence      ; police officer: medium-light skin tone # E1.0 [1]",
	"1F6B4 1F3FB   ; Emoji_Modifier_Sequence      ; person biking: light skin tone     # E1.0  [1]",
	"1F1E6 1F1E8   ; Emoji_Flag_Sequence          ; flag: Ascension Island  # E2.0  [1]",
}

func TestModifierBases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.core")
	defer teardown()
	mb := NewModifierBases(testSequenceLines)
	if mb.Len() != 3 {
		t.Errorf("expected 3 distinct modifier bases, got %d", mb.Len())
	}
	for _, base := range []rune{0x261D, 0x1F46E, 0x1F6B4} {
		if !mb.Contains(base) {
			t.Errorf("expected %04X to be a modifier base", base)
		}
	}
	if mb.Contains(0x231A) {
		t.Errorf("watch is not a modifier base")
	}
}

func TestModifierSequencesNeutral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.core")
	defer teardown()
	mb := NewModifierBases(testSequenceLines)
	seqs := mb.SequencesFor(Seq(0x1F46E))
	if len(seqs) != 10 {
		t.Fatalf("expected 10 tone variants for a neutral base, got %d", len(seqs))
	}
	if !seqs[0].Equal(Seq(0x1F46E, SkinTones[0])) {
		t.Errorf("first variant should be the plain light-skin-tone one, got %s", seqs[0].Hex())
	}
	if !seqs[5].Equal(Seq(0x1F46E, SkinTones[0], ZWJ, FemaleSign, VS16)) {
		t.Errorf("sixth variant should be the female-signed light-skin-tone one, got %s", seqs[5].Hex())
	}
}

func TestModifierSequencesMale(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.core")
	defer teardown()
	mb := NewModifierBases(testSequenceLines)
	seqs := mb.SequencesFor(Seq(0x1F6B4, ZWJ, MaleSign, VS16))
	if len(seqs) != 5 {
		t.Fatalf("expected 5 tone variants for a male-signed base, got %d", len(seqs))
	}
	for i, seq := range seqs {
		want := Seq(0x1F6B4, SkinTones[i], ZWJ, MaleSign, VS16)
		if !seq.Equal(want) {
			t.Errorf("variant %d: got %s, want %s", i, seq.Hex(), want.Hex())
		}
	}
}

func TestModifierSequencesNonBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.core")
	defer teardown()
	mb := NewModifierBases(testSequenceLines)
	if seqs := mb.SequencesFor(Seq(0x231A)); seqs != nil {
		t.Errorf("non-base character should yield no variants, got %d", len(seqs))
	}
}
