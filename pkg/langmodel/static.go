package langmodel

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// entry is one lexicon record: a word, its log-probability unigram
// weight, and the encoded-syllable spelling it is filed under.
type entry struct {
	word     string
	logProb  float64
	spelling string
}

// bigramState threads the previous word's index through Score calls.
type bigramState struct {
	prev WordIndex
}

// StaticModel is an in-memory Model backed by a go-patricia trie keyed by
// encoded-syllable spelling, mapping a pronunciation to its homophone
// candidates.
type StaticModel struct {
	mu         sync.RWMutex
	bySpelling *patricia.Trie // spelling -> []WordIndex (indices into words)
	words      []entry
	index      map[string]WordIndex
	bigram     map[[2]WordIndex]float64
}

// NewStaticModel returns an empty StaticModel.
func NewStaticModel() *StaticModel {
	return &StaticModel{
		bySpelling: patricia.NewTrie(),
		index:      make(map[string]WordIndex),
		bigram:     make(map[[2]WordIndex]float64),
	}
}

// AddWord registers word under spelling (the concatenated syllable
// spellings of its pronunciation, joined with no separator) with the given
// unigram log-probability.
func (m *StaticModel) AddWord(word, spelling string, logProb float64) WordIndex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.index[word]; ok {
		return idx
	}
	idx := WordIndex(len(m.words))
	m.words = append(m.words, entry{word: word, logProb: logProb, spelling: spelling})
	m.index[word] = idx

	p := patricia.Prefix(spelling)
	var ids []WordIndex
	existing := m.bySpelling.Get(p)
	if existing != nil {
		ids = existing.([]WordIndex)
	}
	ids = append(ids, idx)
	if existing != nil {
		m.bySpelling.Set(p, ids)
	} else {
		m.bySpelling.Insert(p, ids)
	}
	return idx
}

// SetBigram records a log-probability for the (prev, cur) word pair.
func (m *StaticModel) SetBigram(prev, cur WordIndex, logProb float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bigram[[2]WordIndex{prev, cur}] = logProb
}

// WordIndex implements Model.
func (m *StaticModel) WordIndex(word string) WordIndex {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if idx, ok := m.index[word]; ok {
		return idx
	}
	return Unknown
}

// IsUnknown implements Model.
func (m *StaticModel) IsUnknown(idx WordIndex, word string) bool {
	if idx == Unknown || word == "" {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int(idx) < 0 || int(idx) >= len(m.words)
}

// InitialState implements Model.
func (m *StaticModel) InitialState() State { return bigramState{prev: Unknown} }

// BeginSentenceState implements Model.
func (m *StaticModel) BeginSentenceState() State { return bigramState{prev: Unknown} }

// Score implements Model: it falls back to the unigram log-probability
// when no explicit bigram weight was recorded for the pair.
func (m *StaticModel) Score(state State, idx WordIndex) (State, float64) {
	bs, _ := state.(bigramState)
	next := bigramState{prev: idx}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if int(idx) < 0 || int(idx) >= len(m.words) {
		return next, math.Inf(-1)
	}
	if lp, ok := m.bigram[[2]WordIndex{bs.prev, idx}]; ok {
		return next, lp
	}
	return next, m.words[idx].logProb
}

// CandidatesForSyllables implements Model, returning every word filed
// under spelling, ordered by descending unigram log-probability then by
// word for determinism.
func (m *StaticModel) CandidatesForSyllables(spelling string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item := m.bySpelling.Get(patricia.Prefix(spelling))
	if item == nil {
		return nil
	}
	ids := item.([]WordIndex)
	out := make([]string, 0, len(ids))
	for _, idx := range ids {
		out = append(out, m.words[idx].word)
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := m.index[out[i]], m.index[out[j]]
		if m.words[wi].logProb != m.words[wj].logProb {
			return m.words[wi].logProb > m.words[wj].logProb
		}
		return out[i] < out[j]
	})
	return out
}

// joinSpelling builds the lookup key CandidatesForSyllables expects from
// a sequence of syllable spellings.
func joinSpelling(syllables []string) string {
	return strings.Join(syllables, "")
}
