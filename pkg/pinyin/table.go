// Package pinyin implements the static syllable table and the segment
// graph / encoder that turn raw ASCII keystrokes into candidate Mandarin
// syllable interpretations.
package pinyin

import "sort"

// Initial identifies one of the 23 legal consonant onsets, or the zero
// initial (no leading consonant).
type Initial int

// Final identifies one of the legal rime shapes that follow an Initial.
type Final int

// Syllable is a valid (Initial, Final) pair.
type Syllable struct {
	Initial Initial
	Final   Final
}

// initials lists every legal onset spelling in table order; index 0 is
// the zero initial, encoded on the wire as initialIndex+1.
var initials = []string{
	"", "b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h",
	"j", "q", "x", "zh", "ch", "sh", "r", "z", "c", "s", "y", "w",
}

// finals lists every legal rime spelling in table order, ASCII-romanized
// with "v" standing in for ü.
var finals = []string{
	"a", "o", "e", "ai", "ei", "ao", "ou", "an", "en", "ang", "eng", "ong", "er",
	"i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong",
	"u", "ua", "uo", "uai", "ui", "uan", "un", "uang", "ueng",
	"v", "ve", "van", "vn",
}

// legalFinals maps each initial spelling to the finals it may combine
// with, per the standard Mandarin syllabary (approximate: real usage has
// a handful of further lexical exceptions not modeled here).
var legalFinals = map[string][]string{
	"":   {"a", "o", "e", "ai", "ei", "ao", "ou", "an", "en", "ang", "eng", "er"},
	"b":  {"a", "o", "ai", "ei", "ao", "an", "ang", "en", "eng", "i", "ie", "iao", "ian", "in", "ing", "u"},
	"p":  {"a", "o", "ai", "ei", "ao", "an", "ang", "en", "eng", "i", "ie", "iao", "ian", "in", "ing", "u"},
	"m":  {"a", "o", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "i", "ie", "iao", "iu", "ian", "in", "ing", "u"},
	"f":  {"a", "o", "ei", "an", "ang", "en", "eng", "ou", "u"},
	"d":  {"a", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "ie", "iao", "iu", "ian", "ing", "u", "uo", "ui", "uan", "un"},
	"t":  {"a", "ai", "ao", "ou", "an", "ang", "eng", "ong", "i", "ie", "iao", "ian", "ing", "u", "uo", "ui", "uan", "un"},
	"n":  {"a", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "u", "uo", "uan", "un", "v", "ve"},
	"l":  {"a", "o", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "u", "uo", "uan", "un", "v", "ve"},
	"g":  {"a", "o", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"k":  {"a", "o", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"h":  {"a", "o", "ai", "ei", "ao", "ou", "an", "ang", "en", "eng", "ong", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"j":  {"i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "v", "ve", "van", "vn"},
	"q":  {"i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "v", "ve", "van", "vn"},
	"x":  {"i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "v", "ve", "van", "vn"},
	"zh": {"a", "ai", "ao", "ei", "ou", "an", "ang", "en", "eng", "ong", "i", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"ch": {"a", "ai", "ao", "ei", "ou", "an", "ang", "en", "eng", "ong", "i", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"sh": {"a", "ai", "ao", "ei", "ou", "an", "ang", "en", "eng", "i", "u", "ua", "uo", "uai", "ui", "uan", "un", "uang"},
	"r":  {"an", "ang", "en", "eng", "ong", "i", "u", "uo", "ui", "uan", "un"},
	"z":  {"a", "ai", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "u", "uo", "uan", "un"},
	"c":  {"a", "ai", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "u", "uo", "uan", "un"},
	"s":  {"a", "ai", "ao", "ou", "an", "ang", "en", "eng", "ong", "i", "u", "uo", "uan", "un"},
	"y":  {"i", "ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong", "v", "ve", "van", "vn"},
	"w":  {"u", "ua", "uo", "uai", "ui", "uan", "un", "uang", "ueng"},
}

// SyllableTable indexes the legal syllable set and exposes the lookups the
// encoder and decoder rely on.
type SyllableTable struct {
	initialIndex map[string]Initial
	finalIndex   map[string]Final
	legal        map[Syllable]bool
	// bySpelling maps the canonical "initial+final" spelling to its
	// Syllable, used for exact single-syllable lookups.
	bySpelling map[string]Syllable
}

var defaultTable = newSyllableTable()

// DefaultTable returns the process-wide static syllable table.
func DefaultTable() *SyllableTable { return defaultTable }

func newSyllableTable() *SyllableTable {
	t := &SyllableTable{
		initialIndex: make(map[string]Initial, len(initials)),
		finalIndex:   make(map[string]Final, len(finals)),
		legal:        make(map[Syllable]bool),
		bySpelling:   make(map[string]Syllable),
	}
	for i, s := range initials {
		t.initialIndex[s] = Initial(i)
	}
	for i, s := range finals {
		t.finalIndex[s] = Final(i)
	}
	for initialSpelling, finalList := range legalFinals {
		ii, ok := t.initialIndex[initialSpelling]
		if !ok {
			continue
		}
		for _, finalSpelling := range finalList {
			fi, ok := t.finalIndex[finalSpelling]
			if !ok {
				continue
			}
			syl := Syllable{Initial: ii, Final: fi}
			t.legal[syl] = true
			t.bySpelling[initialSpelling+finalSpelling] = syl
		}
	}
	return t
}

// InitialSpelling returns the canonical ASCII spelling of i.
func (t *SyllableTable) InitialSpelling(i Initial) string {
	if int(i) < 0 || int(i) >= len(initials) {
		return ""
	}
	return initials[i]
}

// FinalSpelling returns the canonical ASCII spelling of f.
func (t *SyllableTable) FinalSpelling(f Final) string {
	if int(f) < 0 || int(f) >= len(finals) {
		return ""
	}
	return finals[f]
}

// IsLegal reports whether (i, f) is a recognized syllable.
func (t *SyllableTable) IsLegal(s Syllable) bool {
	return t.legal[s]
}

// Spelling renders a Syllable back to its canonical ASCII spelling.
func (t *SyllableTable) Spelling(s Syllable) string {
	return t.InitialSpelling(s.Initial) + t.FinalSpelling(s.Final)
}

// InitialMatch is one candidate initial parsed from the start of a
// keystroke run, together with every final that can legally follow it.
type InitialMatch struct {
	Initial Initial
	Length  int // bytes consumed by the initial spelling
	Finals  []FinalMatch
}

// FinalMatch is one candidate final following a matched initial.
type FinalMatch struct {
	Final  Final
	Length int // bytes consumed by the final spelling, from after the initial
	Fuzzy  FuzzyFlag
	// Correction is set when the match required CorrectV_U/CorrectNG_GN
	// rather than an ordinary fuzzy equivalence, for penalty purposes.
	Correction bool
}

// StringToSyllables attempts to interpret s as a single syllable, trying
// every initial that can start s (including the zero initial) and, for
// each, every final that can follow under the enabled fuzzy flags.
func (t *SyllableTable) StringToSyllables(s string, flags FuzzyFlag) []InitialMatch {
	var out []InitialMatch
	triedInitials := make(map[string]bool)

	// Longest-to-shortest candidate initial spellings actually present at
	// the front of s (covers "zh"/"ch"/"sh" before falling back to single
	// letters, and the zero initial last).
	candidateInitials := candidateInitialSpellings(s)
	for _, initialSpelling := range candidateInitials {
		for _, equivInitial := range initialEquivalents(initialSpelling, flags) {
			if triedInitials[equivInitial] {
				continue
			}
			ii, ok := t.initialIndex[equivInitial]
			if !ok {
				continue
			}
			rest := s[len(initialSpelling):]
			finalMatches := t.matchFinals(ii, rest, flags)
			if len(finalMatches) == 0 {
				continue
			}
			triedInitials[equivInitial] = true
			out = append(out, InitialMatch{
				Initial: ii,
				Length:  len(initialSpelling),
				Finals:  finalMatches,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Initial < out[j].Initial })
	return out
}

// candidateInitialSpellings returns every prefix of s that is one of the
// table's initial spellings, longest first, plus the zero initial.
func candidateInitialSpellings(s string) []string {
	var out []string
	for _, spelling := range []string{"zh", "ch", "sh"} {
		if hasPrefix(s, spelling) {
			out = append(out, spelling)
		}
	}
	if len(s) > 0 {
		first := s[:1]
		switch first {
		case "z", "c", "s":
			// only offer the single-letter form if it is not actually the
			// head of a digraph already captured above
			if !(len(s) >= 2 && (s[:2] == "zh" || s[:2] == "ch" || s[:2] == "sh")) {
				out = append(out, first)
			}
		default:
			out = append(out, first)
		}
	}
	out = append(out, "") // zero initial always tried last
	return out
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// matchFinals finds every final (plus fuzzy variants) that legally follows
// initial and is a prefix of rest, longest spelling first.
func (t *SyllableTable) matchFinals(initial Initial, rest string, flags FuzzyFlag) []FinalMatch {
	initialSpelling := t.InitialSpelling(initial)
	candidates := legalFinals[initialSpelling]

	type scored struct {
		fm  FinalMatch
		len int
	}
	var out []scored
	seen := make(map[Final]bool)

	if flags.Has(Advance) && rest == "" {
		// shengmu-only shorthand: the user typed just the initial and
		// means any legal final, deferring the choice to whichever
		// candidate the language model ranks highest.
		for _, canonicalFinal := range candidates {
			fi := t.finalIndex[canonicalFinal]
			if seen[fi] {
				continue
			}
			seen[fi] = true
			out = append(out, scored{
				fm:  FinalMatch{Final: fi, Length: 0, Fuzzy: Advance},
				len: 0,
			})
		}
	}

	for _, canonicalFinal := range candidates {
		for _, variant := range finalEquivalents(canonicalFinal, flags) {
			if !hasPrefix(rest, variant) {
				if flags.Has(PartialFinal) && hasPrefix(variant, rest) && len(rest) > 0 {
					// user typed a strict prefix of the final itself
					fi := t.finalIndex[canonicalFinal]
					if !seen[fi] {
						seen[fi] = true
						out = append(out, scored{
							fm:  FinalMatch{Final: fi, Length: len(rest), Fuzzy: flags & PartialFinal},
							len: len(rest),
						})
					}
				}
				continue
			}
			fi := t.finalIndex[canonicalFinal]
			if seen[fi] {
				continue
			}
			seen[fi] = true
			var usedFlag FuzzyFlag
			if variant != canonicalFinal {
				usedFlag = fuzzyFlagFor(canonicalFinal, variant)
			}
			// v/u and ng/gn variants are corrections only when the ordinary
			// fuzzy flag for the pair is off, i.e. a Correct* flag enabled them.
			correction := (usedFlag == VU && !flags.Has(VU)) || (usedFlag == NGGN && !flags.Has(NGGN))
			out = append(out, scored{
				fm:  FinalMatch{Final: fi, Length: len(variant), Fuzzy: usedFlag, Correction: correction},
				len: len(variant),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].len != out[j].len {
			return out[i].len > out[j].len
		}
		return out[i].fm.Final < out[j].fm.Final
	})
	result := make([]FinalMatch, len(out))
	for i, s := range out {
		result[i] = s.fm
	}
	return result
}

// fuzzyFlagFor identifies which flag justifies treating variant as
// equivalent to canonical, for labeling edges.
func fuzzyFlagFor(canonical, variant string) FuzzyFlag {
	for _, p := range finalPairs {
		if (p.a == canonical && p.b == variant) || (p.b == canonical && p.a == variant) {
			return p.flag
		}
	}
	if swapped, ok := swapNGGN(canonical); ok && swapped == variant {
		return NGGN
	}
	return None
}
