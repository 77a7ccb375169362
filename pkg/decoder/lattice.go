// Package decoder implements the beam-width Viterbi search that turns a
// SegmentGraph plus a language model and history bigram into ranked
// sentence hypotheses.
package decoder

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
)

// LatticeNode is one scored word hypothesis in the search lattice.
type LatticeNode struct {
	Pos        int // segment-graph position this node ends at
	Word       string
	WordIndex  langmodel.WordIndex
	Cost       float64 // accumulated cost; smaller is better
	State      langmodel.State
	Prev       *LatticeNode
	EdgeCount  int    // edges traversed to reach this node, for tie-breaks
	Spelling   string // concatenated ASCII syllable spellings of the path that produced this node
}

// Lattice holds, for each segment-graph position, the surviving
// LatticeNodes ending there, sorted by ascending cost and capped at the
// configured beam width.
type Lattice struct {
	beamWidth int
	nodes     map[int][]*LatticeNode
}

// Options configures one decode.
type Options struct {
	// BeamWidth caps how many lattice entries survive at each position.
	BeamWidth int
	// Candidates is the desired number of distinct n-best sentences.
	Candidates int
	// OnlyPath disables the unknown-word mid-sentence pruning rule, used
	// when the caller needs a single best path regardless of confidence.
	OnlyPath bool
	// LMWeight and HistWeight blend the two score sources; spec default
	// weight is 1.0 for both.
	LMWeight, HistWeight float64
}

// DefaultOptions returns the spec's default decode parameters.
func DefaultOptions() Options {
	return Options{BeamWidth: 20, Candidates: 5, LMWeight: 1, HistWeight: 1}
}

// Sentence is one ranked decode result.
type Sentence struct {
	Words []string
	Cost  float64
}

// Decode runs beam Viterbi over g using lm and h, returning up to
// opts.Candidates distinct sentences ordered by ascending cost.
func Decode(g *pinyin.SegmentGraph, lm langmodel.Model, h *history.Bigram, opts Options) []Sentence {
	if opts.BeamWidth <= 0 {
		opts.BeamWidth = DefaultOptions().BeamWidth
	}
	if opts.Candidates <= 0 {
		opts.Candidates = DefaultOptions().Candidates
	}
	if opts.LMWeight == 0 && opts.HistWeight == 0 {
		opts.LMWeight, opts.HistWeight = 1, 1
	}

	n := g.NodeCount() - 1
	lat := &Lattice{beamWidth: opts.BeamWidth, nodes: make(map[int][]*LatticeNode)}
	lat.nodes[0] = []*LatticeNode{{
		Pos:   0,
		Word:  "",
		State: lm.BeginSentenceState(),
	}}

	for p := 0; p <= n; p++ {
		entries := lat.nodes[p]
		if len(entries) == 0 {
			continue
		}
		for _, edge := range g.EdgesFrom(p) {
			for _, label := range edge.Labels {
				expandEdge(lat, g, lm, h, entries, edge, label, opts)
			}
		}
	}

	return backwardNBest(lat, n, opts.Candidates)
}

func expandEdge(lat *Lattice, g *pinyin.SegmentGraph, lm langmodel.Model, h *history.Bigram, entries []*LatticeNode, edge *pinyin.Edge, label pinyin.EdgeLabel, opts Options) {
	if label.Separator {
		// A separator edge carries no word of its own; it simply
		// advances every surviving entry to the next position with its
		// word and cost unchanged.
		for _, ell := range entries {
			node := &LatticeNode{
				Pos:       edge.End,
				Word:      ell.Word,
				WordIndex: ell.WordIndex,
				Cost:      ell.Cost,
				State:     ell.State,
				Prev:      ell.Prev,
				EdgeCount: ell.EdgeCount + 1,
				Spelling:  ell.Spelling,
			}
			lat.insert(edge.End, node)
		}
		return
	}

	spelling := syllableSpelling(label)
	var candidates []string
	if label.Unknown {
		// An unknown fallback edge has no lexicon entry; treat the raw
		// byte run itself as the single "word" candidate.
		spelling = g.Input()[edge.Start:edge.End]
		candidates = []string{spelling}
	} else {
		candidates = lm.CandidatesForSyllables(spelling)
		if len(candidates) == 0 {
			return
		}
	}

	// Every edge this decoder walks spans exactly one syllable (the
	// encoded pinyin payload for its candidates is always the 2-byte
	// form), so the pruning rule's "single syllable" condition always
	// holds here; it is kept explicit so the rule reads the same as the
	// reference decoder's.
	const candidateIsSingleSyllable = true

	for _, ell := range entries {
		for _, word := range candidates {
			idx := lm.WordIndex(word)
			onlyPath := opts.OnlyPath
			if lm.IsUnknown(idx, word) && candidateIsSingleSyllable && edge.Start != 0 && !onlyPath {
				continue
			}
			newState, lmLogProb := lm.Score(ell.State, idx)
			histLogProb := 0.0
			if ell.Word != "" {
				histLogProb = h.Score(ell.Word, word)
			}
			edgePenalty := float64(pinyin.PenaltyFactor()) * fuzzyPenalty(label)
			cost := ell.Cost - (opts.LMWeight*lmLogProb + opts.HistWeight*histLogProb) + edgePenalty

			node := &LatticeNode{
				Pos:       edge.End,
				Word:      word,
				WordIndex: idx,
				Cost:      cost,
				State:     newState,
				Prev:      ell,
				EdgeCount: ell.EdgeCount + 1,
				Spelling:  ell.Spelling + spelling,
			}
			lat.insert(edge.End, node)
		}
	}
}

// fuzzyPenalty returns the per-edge penalty multiplier: 0 for an exact
// match, 1 for an ordinary fuzzy equivalence, and more for a correction
// match or an unknown fallback byte.
func fuzzyPenalty(label pinyin.EdgeLabel) float64 {
	switch {
	case label.Unknown:
		return 10
	case label.Correction:
		return 2
	case label.Fuzzy != pinyin.None:
		return 1
	default:
		return 0
	}
}

func syllableSpelling(label pinyin.EdgeLabel) string {
	return pinyin.DefaultTable().Spelling(label.Syllable)
}

// insert adds node to position p's surviving set, keeping it sorted by
// ascending cost and capped at the lattice's beam width.
func (lat *Lattice) insert(p int, node *LatticeNode) {
	entries := lat.nodes[p]
	entries = append(entries, node)
	slices.SortFunc(entries, func(a, b *LatticeNode) int {
		switch {
		case a.Cost < b.Cost:
			return -1
		case a.Cost > b.Cost:
			return 1
		case a.EdgeCount != b.EdgeCount:
			return a.EdgeCount - b.EdgeCount
		case a.Word != b.Word:
			if a.Word < b.Word {
				return -1
			}
			return 1
		default:
			return 0
		}
	})
	if len(entries) > lat.beamWidth {
		entries = entries[:lat.beamWidth]
	}
	lat.nodes[p] = entries
}

// backwardNBest takes the entries that survived the beam at the end
// position, best first, and follows each one's Prev chain back to the
// start, yielding up to k distinct sentences ordered by ascending cost.
// Only those end entries are considered; no further search over the
// lattice is made.
func backwardNBest(lat *Lattice, endPos, k int) []Sentence {
	ends := lat.nodes[endPos]
	if len(ends) == 0 {
		return nil
	}
	sort.SliceStable(ends, func(i, j int) bool {
		if ends[i].Cost != ends[j].Cost {
			return ends[i].Cost < ends[j].Cost
		}
		return ends[i].EdgeCount < ends[j].EdgeCount
	})

	var out []Sentence
	seen := make(map[string]bool)
	for _, node := range ends {
		if len(out) >= k {
			break
		}
		words := reconstructWords(node)
		key := sentenceKey(words)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Sentence{Words: words, Cost: node.Cost})
	}
	return out
}

func reconstructWords(n *LatticeNode) []string {
	var rev []string
	for cur := n; cur != nil && cur.Word != ""; cur = cur.Prev {
		rev = append(rev, cur.Word)
	}
	words := make([]string, len(rev))
	for i, w := range rev {
		words[len(rev)-1-i] = w
	}
	return words
}

func sentenceKey(words []string) string {
	key := ""
	for _, w := range words {
		key += w + "\x00"
	}
	return key
}
