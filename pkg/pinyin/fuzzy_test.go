package pinyin

import "testing"

func TestFuzzyFlagHas(t *testing.T) {
	f := VU | ANANG
	if !f.Has(VU) {
		t.Fatalf("Has(VU) = false, want true")
	}
	if f.Has(INING) {
		t.Fatalf("Has(INING) = true, want false")
	}
	if !f.Has(VU | ANANG) {
		t.Fatalf("Has(VU|ANANG) = false, want true")
	}
}

func TestFinalEquivalentsANANG(t *testing.T) {
	got := finalEquivalents("an", ANANG)
	if len(got) != 2 || got[0] != "an" || got[1] != "ang" {
		t.Fatalf("finalEquivalents(an, ANANG) = %v, want [an ang]", got)
	}
}

func TestFinalEquivalentsNoFlagsReturnsOnlySelf(t *testing.T) {
	got := finalEquivalents("an", None)
	if len(got) != 1 || got[0] != "an" {
		t.Fatalf("finalEquivalents(an, None) = %v, want [an]", got)
	}
}

func TestInitialEquivalentsZZH(t *testing.T) {
	got := initialEquivalents("z", ZZH)
	if len(got) != 2 || got[0] != "z" || got[1] != "zh" {
		t.Fatalf("initialEquivalents(z, ZZH) = %v, want [z zh]", got)
	}
}

func TestSwapNGGN(t *testing.T) {
	testCases := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"dang", "dagn", true},
		{"dagn", "dang", true},
		{"a", "", false},
	}
	for _, tc := range testCases {
		got, ok := swapNGGN(tc.input)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("swapNGGN(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFinalEquivalentsNGGNSwap(t *testing.T) {
	got := finalEquivalents("dang", NGGN)
	var sawSwap bool
	for _, v := range got {
		if v == "dagn" {
			sawSwap = true
		}
	}
	if !sawSwap {
		t.Fatalf("finalEquivalents(dang, NGGN) = %v, want to include the ng/gn swap \"dagn\"", got)
	}
}
