package pinyin

import "testing"

func TestStringToSyllablesExact(t *testing.T) {
	table := DefaultTable()

	testCases := []struct {
		input       string
		wantInitial string
		wantFinal   string
		description string
	}{
		{"ni", "n", "i", "simple initial+final"},
		{"hao", "h", "ao", "initial plus diphthong final"},
		{"zhong", "zh", "ong", "digraph initial"},
		{"an", "", "an", "zero initial"},
		{"shi", "sh", "i", "digraph initial plus single-letter final"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			matches := table.StringToSyllables(tc.input, None)
			found := false
			for _, im := range matches {
				if table.InitialSpelling(im.Initial) != tc.wantInitial {
					continue
				}
				for _, fm := range im.Finals {
					if table.FinalSpelling(fm.Final) == tc.wantFinal && fm.Fuzzy == None {
						found = true
					}
				}
			}
			if !found {
				t.Fatalf("StringToSyllables(%q) missing exact match %s+%s", tc.input, tc.wantInitial, tc.wantFinal)
			}
		})
	}
}

func TestStringToSyllablesSingleLetterDoesNotShadowDigraph(t *testing.T) {
	table := DefaultTable()
	matches := table.StringToSyllables("zhi", None)

	var sawZh bool
	for _, im := range matches {
		if table.InitialSpelling(im.Initial) == "zh" {
			sawZh = true
		}
		if table.InitialSpelling(im.Initial) == "z" {
			for _, fm := range im.Finals {
				if table.FinalSpelling(fm.Final) == "hi" {
					t.Fatalf("z+hi should never be offered, \"hi\" is not a legal final")
				}
			}
		}
	}
	if !sawZh {
		t.Fatalf("expected zh initial to be tried for %q", "zhi")
	}
}

func TestMatchFinalsFuzzyVU(t *testing.T) {
	table := DefaultTable()
	matches := table.StringToSyllables("ju", VU)

	var sawFuzzy bool
	for _, im := range matches {
		if table.InitialSpelling(im.Initial) != "j" {
			continue
		}
		for _, fm := range im.Finals {
			if table.FinalSpelling(fm.Final) == "v" && fm.Fuzzy.Has(VU) {
				sawFuzzy = true
			}
		}
	}
	if !sawFuzzy {
		t.Fatalf("expected j+u to fuzzy-match j+v under VU")
	}
}

func TestMatchFinalsPartialFinal(t *testing.T) {
	table := DefaultTable()
	matches := table.StringToSyllables("zha", PartialFinal)

	var sawPartial bool
	for _, im := range matches {
		if table.InitialSpelling(im.Initial) != "zh" {
			continue
		}
		for _, fm := range im.Finals {
			if fm.Fuzzy.Has(PartialFinal) {
				sawPartial = true
			}
		}
	}
	if !sawPartial {
		t.Fatalf("expected a partial-final match for an incomplete keystroke run")
	}
}

func TestIsLegalRejectsInvalidPairs(t *testing.T) {
	table := DefaultTable()
	b := table.initialIndex["b"]
	ong := table.finalIndex["ong"]
	if table.IsLegal(Syllable{Initial: b, Final: ong}) {
		t.Fatalf("b+ong is not a legal Mandarin syllable")
	}
}
