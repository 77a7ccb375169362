package decoder

import (
	"testing"

	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
)

func newTestModel() *langmodel.StaticModel {
	m := langmodel.NewStaticModel()
	m.AddWord("你", "ni", -1.0)
	m.AddWord("泥", "ni", -2.0)
	m.AddWord("好", "hao", -1.0)
	return m
}

func TestDecodeRanksExactCandidatesByModelScore(t *testing.T) {
	g := pinyin.ParseUserPinyin("nihao", pinyin.None)
	lm := newTestModel()
	h := history.New()

	sentences := Decode(g, lm, h, DefaultOptions())
	if len(sentences) == 0 {
		t.Fatalf("Decode() returned no candidates for \"nihao\"")
	}
	if sentences[0].Words[0] != "你" {
		t.Fatalf("top candidate first word = %q, want %q (higher unigram weight)", sentences[0].Words[0], "你")
	}
	if sentences[0].Words[1] != "好" {
		t.Fatalf("top candidate second word = %q, want %q", sentences[0].Words[1], "好")
	}
}

func TestDecodeOrdersByAscendingCost(t *testing.T) {
	g := pinyin.ParseUserPinyin("nihao", pinyin.None)
	lm := newTestModel()
	h := history.New()

	sentences := Decode(g, lm, h, DefaultOptions())
	for i := 1; i < len(sentences); i++ {
		if sentences[i].Cost < sentences[i-1].Cost {
			t.Fatalf("sentences not ordered by ascending cost: %v then %v", sentences[i-1].Cost, sentences[i].Cost)
		}
	}
}

func TestDecodeHistoryBoostsLaterScore(t *testing.T) {
	g := pinyin.ParseUserPinyin("nihao", pinyin.None)
	lm := newTestModel()

	without := history.New()
	withoutCost := Decode(g, lm, without, DefaultOptions())[0].Cost

	with := history.New()
	with.Add([]string{"你", "好"})
	withCost := Decode(g, lm, with, DefaultOptions())[0].Cost

	if withCost >= withoutCost {
		t.Fatalf("cost with prior history commit = %v, want lower than without-history cost %v", withCost, withoutCost)
	}
}

func TestDecodeEmptyGraphReturnsSingleEmptySentence(t *testing.T) {
	g := pinyin.ParseUserPinyin("", pinyin.None)
	lm := newTestModel()
	h := history.New()

	sentences := Decode(g, lm, h, DefaultOptions())
	if len(sentences) != 1 || len(sentences[0].Words) != 0 {
		t.Fatalf("Decode() on an empty graph = %v, want a single empty sentence", sentences)
	}
}

func TestDecodeUnknownEdgeDroppedMidSentenceButKeptAsOnlyPath(t *testing.T) {
	// "ni" segments as a known syllable; the trailing "1" cannot be
	// parsed as pinyin at all and falls back to a raw-byte Unknown edge
	// starting at position 2, i.e. mid-sentence rather than at the start.
	g := pinyin.ParseUserPinyin("ni1", pinyin.None)
	lm := newTestModel()
	h := history.New()

	opts := DefaultOptions()
	pruned := Decode(g, lm, h, opts)
	if len(pruned) != 0 {
		t.Fatalf("Decode() with a mid-sentence unknown edge = %v, want no candidate reaching the end", pruned)
	}

	opts.OnlyPath = true
	kept := Decode(g, lm, h, opts)
	if len(kept) == 0 {
		t.Fatalf("Decode() with OnlyPath=true returned no candidates, want the unknown edge retained")
	}
	words := kept[0].Words
	if last := words[len(words)-1]; last != "1" {
		t.Fatalf("last word = %q, want the raw unknown byte %q", last, "1")
	}
}

func TestDecodeBeamWidthCapsLatticeWidth(t *testing.T) {
	g := pinyin.ParseUserPinyin("ni", pinyin.None)
	lm := newTestModel()
	h := history.New()

	opts := DefaultOptions()
	opts.BeamWidth = 1
	sentences := Decode(g, lm, h, opts)
	if len(sentences) != 1 {
		t.Fatalf("Decode() with BeamWidth=1 returned %d candidates, want exactly 1", len(sentences))
	}
}
