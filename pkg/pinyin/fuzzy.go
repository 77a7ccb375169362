package pinyin

// FuzzyFlag is a bitset of optional equivalence relations the user has
// enabled for syllable matching. The zero value, None, disables all fuzzy
// matching and requires exact spellings.
type FuzzyFlag uint32

const (
	None FuzzyFlag = 0

	NGGN FuzzyFlag = 1 << iota
	VU
	ANANG
	ENENG
	IANIANG
	UANUANG
	INING
	UOU
	CCH
	SSH
	ZZH
	FH
	LN
	LR
	Inner
	InnerShort
	PartialFinal
	CorrectVU
	CorrectNGGN
	Advance
)

// Has reports whether all bits of other are set in f.
func (f FuzzyFlag) Has(other FuzzyFlag) bool {
	return f&other == other
}

// finalPairs lists final spellings treated as equivalent when the paired
// flag is enabled. Each entry is tried both directions.
var finalPairs = []struct {
	flag FuzzyFlag
	a, b string
}{
	{ANANG, "an", "ang"},
	{ENENG, "en", "eng"},
	{IANIANG, "ian", "iang"},
	{UANUANG, "uan", "uang"},
	{INING, "in", "ing"},
	{UOU, "u", "ou"},
	{VU, "v", "u"},
	{VU, "ve", "ue"},
	{CorrectVU, "v", "u"},
	{CorrectVU, "ve", "ue"},
}

// initialPairs lists initial spellings treated as equivalent when the
// paired flag is enabled.
var initialPairs = []struct {
	flag FuzzyFlag
	a, b string
}{
	{CCH, "c", "ch"},
	{SSH, "s", "sh"},
	{ZZH, "z", "zh"},
	{FH, "f", "h"},
	{LN, "l", "n"},
	{LR, "l", "r"},
}

// finalEquivalents returns every final spelling reachable from final under
// the enabled flags, including final itself. The returned slice is free of
// duplicates and deterministically ordered (final first).
func finalEquivalents(final string, flags FuzzyFlag) []string {
	out := []string{final}
	seen := map[string]bool{final: true}
	for _, p := range finalPairs {
		if !flags.Has(p.flag) {
			continue
		}
		var candidate string
		switch final {
		case p.a:
			candidate = p.b
		case p.b:
			candidate = p.a
		default:
			continue
		}
		if !seen[candidate] {
			seen[candidate] = true
			out = append(out, candidate)
		}
	}
	if flags.Has(NGGN) || flags.Has(CorrectNGGN) {
		if swapped, ok := swapNGGN(final); ok && !seen[swapped] {
			seen[swapped] = true
			out = append(out, swapped)
		}
	}
	return out
}

// initialEquivalents returns every initial spelling reachable from initial
// under the enabled flags, including initial itself.
func initialEquivalents(initial string, flags FuzzyFlag) []string {
	out := []string{initial}
	seen := map[string]bool{initial: true}
	for _, p := range initialPairs {
		if !flags.Has(p.flag) {
			continue
		}
		var candidate string
		switch initial {
		case p.a:
			candidate = p.b
		case p.b:
			candidate = p.a
		default:
			continue
		}
		if !seen[candidate] {
			seen[candidate] = true
			out = append(out, candidate)
		}
	}
	return out
}

// swapNGGN swaps a trailing "ng"/"gn" typo pair on a final, e.g. "dagn" <->
// "dang". It reports false when final has neither suffix.
func swapNGGN(final string) (string, bool) {
	switch {
	case len(final) >= 2 && final[len(final)-2:] == "ng":
		return final[:len(final)-2] + "gn", true
	case len(final) >= 2 && final[len(final)-2:] == "gn":
		return final[:len(final)-2] + "ng", true
	default:
		return "", false
	}
}
