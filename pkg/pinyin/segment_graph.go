package pinyin

import (
	"errors"
	"sort"
)

// ErrInvalidMerge is returned by SegmentGraph.Merge when the other graph's
// input is not an extension of this graph's input.
var ErrInvalidMerge = errors.New("pinyin: merge input is not a prefix extension")

// EdgeLabel is one candidate interpretation of the bytes spanned by an
// edge: either a matched syllable or a zero-width separator.
type EdgeLabel struct {
	Syllable   Syllable
	Separator  bool
	Fuzzy      FuzzyFlag
	Correction bool
	// Unknown marks a heavy-penalty fallback edge covering one raw byte
	// that matched no legal syllable.
	Unknown bool
}

// Edge is one transition in the SegmentGraph, from position Start to
// position End (byte offsets into the parsed input), carrying every
// interpretation that justifies it.
type Edge struct {
	Start, End int
	Labels     []EdgeLabel
}

// SegmentGraph is the DAG of candidate syllable segmentations of one
// keystroke string, over positions 0..=len(input).
type SegmentGraph struct {
	input string
	// outgoing[p] lists every edge starting at position p, ordered by End
	// ascending then insertion order.
	outgoing map[int][]*Edge
	nodeMax  int
}

// Input returns the keystroke string this graph was parsed from.
func (g *SegmentGraph) Input() string { return g.input }

// NodeCount returns len(input)+1.
func (g *SegmentGraph) NodeCount() int { return g.nodeMax + 1 }

// EdgesFrom returns every outgoing edge from position p, in ascending End
// order.
func (g *SegmentGraph) EdgesFrom(p int) []*Edge { return g.outgoing[p] }

// edgePenaltyFactor scales the per-edge match penalty the decoder adds for
// every edge it traverses (0 for an exact match, more for fuzzy, correction
// and unknown-byte edges); see DESIGN.md for the open-question resolution
// (additive per edge, not a path-length-difference multiplier).
const edgePenaltyFactor = 3

// PenaltyFactor exposes edgePenaltyFactor to other packages.
func PenaltyFactor() int { return edgePenaltyFactor }

// ParseUserPinyin builds a SegmentGraph over input under the given fuzzy
// flags, per the construction algorithm: apostrophes are zero-width
// separators, every legal syllable prefix at each position becomes an
// edge, Inner adds overlap edges for n/ng-ending finals, and positions
// left with no outgoing edge get a heavy-penalty unknown edge.
func ParseUserPinyin(input string, flags FuzzyFlag) *SegmentGraph {
	n := len(input)
	g := &SegmentGraph{
		input:    input,
		outgoing: make(map[int][]*Edge),
		nodeMax:  n,
	}
	if n == 0 {
		return g
	}
	table := DefaultTable()

	for s := 0; s < n; s++ {
		if input[s] == '\'' {
			g.addEdge(s, s+1, EdgeLabel{Separator: true})
			continue
		}
		rest := input[s:]
		matches := table.StringToSyllables(rest, flags)
		for _, im := range matches {
			for _, fm := range im.Finals {
				end := s + im.Length + fm.Length
				if end <= s || end > n {
					continue
				}
				syl := Syllable{Initial: im.Initial, Final: fm.Final}
				if !table.IsLegal(syl) && !flags.Has(PartialFinal) {
					continue
				}
				g.addEdge(s, end, EdgeLabel{
					Syllable:   syl,
					Fuzzy:      fm.Fuzzy,
					Correction: fm.Correction,
				})
				if flags.Has(Inner) || flags.Has(InnerShort) {
					addInnerOverlapEdges(g, table, s, end, syl, flags)
				}
			}
		}
	}

	// Step 3: ensure every position has at least one outgoing edge (except
	// the final node) by falling back to a raw single-byte unknown edge.
	for s := 0; s < n; s++ {
		if input[s] == '\'' {
			continue
		}
		if len(g.outgoing[s]) == 0 {
			g.addEdge(s, s+1, EdgeLabel{Unknown: true})
		}
	}

	for p := range g.outgoing {
		edges := g.outgoing[p]
		sort.SliceStable(edges, func(i, j int) bool { return edges[i].End < edges[j].End })
	}
	return g
}

// addInnerOverlapEdges emits the additional split implied by Inner/InnerShort:
// when a final ends in "n" or "ng", the syllable may also be read as ending
// before the vowel in front of that "n"/"ng", leaving the dropped tail (which
// must be a legal zero-initial final such as "an" or "ang") to begin the
// next syllable (e.g. "xian" read as "xi" + "an").
func addInnerOverlapEdges(g *SegmentGraph, table *SyllableTable, s, end int, syl Syllable, flags FuzzyFlag) {
	finalSpelling := table.FinalSpelling(syl.Final)
	overlap := 0
	switch {
	case len(finalSpelling) >= 3 && finalSpelling[len(finalSpelling)-2:] == "ng":
		overlap = 3
	case len(finalSpelling) >= 2 && finalSpelling[len(finalSpelling)-1] == 'n':
		overlap = 2
	default:
		return
	}
	shortEnd := end - overlap
	if shortEnd <= s {
		return
	}
	shortFinalSpelling := finalSpelling[:len(finalSpelling)-overlap]
	shortFinal, ok := table.finalIndex[shortFinalSpelling]
	if !ok {
		return
	}
	tailFinal, ok := table.finalIndex[finalSpelling[len(finalSpelling)-overlap:]]
	if !ok || !table.IsLegal(Syllable{Final: tailFinal}) {
		return
	}
	shortSyl := Syllable{Initial: syl.Initial, Final: shortFinal}
	if !table.IsLegal(shortSyl) {
		return
	}
	g.addEdge(s, shortEnd, EdgeLabel{Syllable: shortSyl, Fuzzy: Inner})
}

func (g *SegmentGraph) addEdge(start, end int, label EdgeLabel) {
	for _, e := range g.outgoing[start] {
		if e.End == end {
			e.Labels = append(e.Labels, label)
			return
		}
	}
	g.outgoing[start] = append(g.outgoing[start], &Edge{Start: start, End: end, Labels: []EdgeLabel{label}})
}

// Merge appends the new suffix of other onto g, reusing shared prefix
// nodes by position identity. other.Input() must be an extension of
// g.Input(); otherwise ErrInvalidMerge is returned.
func (g *SegmentGraph) Merge(other *SegmentGraph) error {
	if len(other.input) < len(g.input) || other.input[:len(g.input)] != g.input {
		return ErrInvalidMerge
	}
	for p, edges := range other.outgoing {
		for _, e := range edges {
			if p >= len(g.input) || e.End > len(g.input) {
				g.mergeForeignEdge(e)
			}
		}
	}
	g.input = other.input
	g.nodeMax = other.nodeMax
	return nil
}

func (g *SegmentGraph) mergeForeignEdge(e *Edge) {
	for _, existing := range g.outgoing[e.Start] {
		if existing.End == e.End {
			existing.Labels = append(existing.Labels, e.Labels...)
			return
		}
	}
	copied := &Edge{Start: e.Start, End: e.End, Labels: append([]EdgeLabel(nil), e.Labels...)}
	g.outgoing[e.Start] = append(g.outgoing[e.Start], copied)
	sort.SliceStable(g.outgoing[e.Start], func(i, j int) bool {
		return g.outgoing[e.Start][i].End < g.outgoing[e.Start][j].End
	})
}
