// Package history implements the two-tier bigram learner that turns the
// sentences a user commits into a scoring source the decoder blends with
// the static language model.
package history

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kxchu/pinyinserve/pkg/datrie"
)

func log10(x float64) float64 { return math.Log10(x) }

// separator joins the two halves of a bigram key; it is assumed never to
// occur inside a word.
const separator = "|"

// decay is the weight applied to the final tier when blending with the
// recent tier.
const decay = 0.05

// recentCap is the bounded size of the recent tier.
const recentCap = 8192

// defaultUnknownFloor is the log-probability returned when history has no
// evidence for a pair.
const defaultUnknownFloor = -5.0

// pool is one tier of the two-tier history model: a bounded "recent" tier
// with its own sentence deque, or the unbounded "final" tier with none.
type pool struct {
	maxSize int
	next    *pool // overflow sink; nil for the unbounded tier

	recent   []([]string) // front = newest
	unigram  *datrie.Trie[int32]
	bigram   *datrie.Trie[int32]
	sizeVal  int
}

func newPool(maxSize int, next *pool) *pool {
	return &pool{
		maxSize: maxSize,
		next:    next,
		unigram: datrie.New[int32](),
		bigram:  datrie.New[int32](),
	}
}

func (p *pool) size() int { return p.sizeVal }

func (p *pool) unigramFreq(w string) int {
	v, ok := p.unigram.ExactMatchSearch(w)
	if !ok {
		return 0
	}
	return int(v)
}

func (p *pool) bigramFreq(w1, w2 string) int {
	v, ok := p.bigram.ExactMatchSearch(w1 + separator + w2)
	if !ok {
		return 0
	}
	return int(v)
}

func (p *pool) add(sentence []string) {
	if len(sentence) == 0 {
		return
	}
	if p.maxSize > 0 {
		for len(p.recent) >= p.maxSize {
			oldest := p.recent[len(p.recent)-1]
			p.recent = p.recent[:len(p.recent)-1]
			p.next.add(oldest)
			p.remove(oldest)
		}
	}
	for i, w := range sentence {
		p.incUnigram(w)
		if i+1 < len(sentence) {
			p.incBigram(w, sentence[i+1])
		}
	}
	if p.maxSize > 0 {
		copied := append([]string(nil), sentence...)
		p.recent = append([][]string{copied}, p.recent...)
	}
	p.sizeVal++
}

func (p *pool) remove(sentence []string) {
	for i, w := range sentence {
		p.decUnigram(w)
		if i+1 < len(sentence) {
			p.decBigram(w, sentence[i+1])
		}
	}
	p.sizeVal--
}

func (p *pool) incUnigram(w string) { p.unigram.Update(w, func(v int32) int32 { return v + 1 }) }

func (p *pool) decUnigram(w string) { decFreq(p.unigram, w) }

func (p *pool) incBigram(w1, w2 string) {
	p.bigram.Update(w1+separator+w2, func(v int32) int32 { return v + 1 })
}

func (p *pool) decBigram(w1, w2 string) { decFreq(p.bigram, w1+separator+w2) }

func decFreq(t *datrie.Trie[int32], key string) {
	v, ok := t.ExactMatchSearch(key)
	if !ok {
		return
	}
	v--
	if v <= 0 {
		t.Erase(key)
	} else {
		t.Set(key, v)
	}
}

func (p *pool) clear() {
	p.recent = nil
	p.unigram.Clear()
	p.bigram.Clear()
	p.sizeVal = 0
}

// load reads this pool (and, for bounded tiers, the chain's next pool)
// from r per the §6 history persistence layout. Any read error leaves the
// pool cleared rather than partially loaded.
func (p *pool) load(r io.Reader) error {
	p.clear()
	if p.maxSize > 0 {
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return fmt.Errorf("history: read sentence count: %w", err)
		}
		var sentences [][]string
		for i := uint32(0); i < count; i++ {
			sentence, err := readSentence(r)
			if err != nil {
				return err
			}
			sentences = append(sentences, sentence)
		}
		// The stream is newest-first; re-adding oldest-first puts the
		// newest sentence back at the front.
		for i := len(sentences) - 1; i >= 0; i-- {
			p.add(sentences[i])
		}
		if err := p.next.load(r); err != nil {
			p.clear()
			return err
		}
		return nil
	}
	if err := p.unigram.Load(r); err != nil {
		return fmt.Errorf("history: load unigram trie: %w", err)
	}
	if err := p.bigram.Load(r); err != nil {
		p.clear()
		return fmt.Errorf("history: load bigram trie: %w", err)
	}
	return nil
}

func readSentence(r io.Reader) ([]string, error) {
	var wordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &wordCount); err != nil {
		return nil, fmt.Errorf("history: read word count: %w", err)
	}
	sentence := make([]string, 0, wordCount)
	for i := uint32(0); i < wordCount; i++ {
		var byteLen uint32
		if err := binary.Read(r, binary.LittleEndian, &byteLen); err != nil {
			return nil, fmt.Errorf("history: read word length: %w", err)
		}
		buf := make([]byte, byteLen)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("history: read word bytes: %w", err)
		}
		sentence = append(sentence, string(buf))
	}
	return sentence, nil
}

// save writes this pool (and, for bounded tiers, the chain's next pool)
// to w, newest sentence first, per the §6 layout.
func (p *pool) save(w io.Writer) error {
	if p.maxSize > 0 {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(p.recent))); err != nil {
			return fmt.Errorf("history: write sentence count: %w", err)
		}
		for _, sentence := range p.recent {
			if err := writeSentence(w, sentence); err != nil {
				return err
			}
		}
		return p.next.save(w)
	}
	if err := p.unigram.Save(w); err != nil {
		return fmt.Errorf("history: save unigram trie: %w", err)
	}
	if err := p.bigram.Save(w); err != nil {
		return fmt.Errorf("history: save bigram trie: %w", err)
	}
	return nil
}

func writeSentence(w io.Writer, sentence []string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(sentence))); err != nil {
		return fmt.Errorf("history: write word count: %w", err)
	}
	for _, word := range sentence {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(word))); err != nil {
			return fmt.Errorf("history: write word length: %w", err)
		}
		if _, err := io.WriteString(w, word); err != nil {
			return fmt.Errorf("history: write word bytes: %w", err)
		}
	}
	return nil
}

// Bigram is the two-tier history model: a bounded "recent" pool backed by
// an unbounded, decayed "final" pool.
type Bigram struct {
	final   *pool
	recent  *pool
	unknown float64
}

// New returns an empty Bigram with the default unknown floor.
func New() *Bigram {
	final := newPool(0, nil)
	recent := newPool(recentCap, final)
	return &Bigram{final: final, recent: recent, unknown: defaultUnknownFloor}
}

// SetUnknown sets the log-probability floor returned when history has no
// evidence for a pair.
func (h *Bigram) SetUnknown(logProb float64) { h.unknown = logProb }

// Add feeds one observed sentence into the recent tier, evicting the
// oldest sentence into the final tier on overflow.
func (h *Bigram) Add(sentence []string) { h.recent.add(sentence) }

func (h *Bigram) combinedUnigramFreq(w string) float64 {
	return float64(h.recent.unigramFreq(w)) + decay*float64(h.final.unigramFreq(w))
}

func (h *Bigram) combinedBigramFreq(w1, w2 string) float64 {
	return float64(h.recent.bigramFreq(w1, w2)) + decay*float64(h.final.bigramFreq(w1, w2))
}

func (h *Bigram) combinedSize() float64 {
	return float64(h.recent.size()) + decay*float64(h.final.size())
}

// IsUnknown reports whether w has zero combined unigram evidence.
func (h *Bigram) IsUnknown(w string) bool {
	return w == "" || h.combinedUnigramFreq(w) == 0
}

// UnigramFreq returns the combined (recent + decayed final) unigram count
// for w, for callers that want the raw evidence rather than a score.
func (h *Bigram) UnigramFreq(w string) float64 { return h.combinedUnigramFreq(w) }

// BigramFreq returns the combined bigram count for the (w1, w2) pair.
func (h *Bigram) BigramFreq(w1, w2 string) float64 { return h.combinedBigramFreq(w1, w2) }

// Score returns the log10-probability of cur following prev, blending the
// recent and decayed final tiers per the fixed 0.68/0.32 interpolation.
func (h *Bigram) Score(prev, cur string) float64 {
	uf0 := h.combinedUnigramFreq(prev)
	bf := h.combinedBigramFreq(prev, cur)
	uf1 := h.combinedUnigramFreq(cur)

	p := 0.68*bf/(uf0+0.5) + 0.32*uf1/(h.combinedSize()+0.5)
	switch {
	case p >= 1.0:
		return 0
	case p == 0:
		return h.unknown
	default:
		return log10(p)
	}
}

// Load replaces h's state with the stream written by Save. On a read
// error h is left empty.
func (h *Bigram) Load(r io.Reader) error {
	h.Clear()
	return h.recent.load(r)
}

// Save writes h's state per the §6 persistence layout.
func (h *Bigram) Save(w io.Writer) error { return h.recent.save(w) }

// Clear discards all recorded history.
func (h *Bigram) Clear() {
	h.recent.clear()
	h.final.clear()
}

// RecentSize returns the number of sentences held in the bounded tier,
// used by tests exercising the 8192-cap eviction invariant.
func (h *Bigram) RecentSize() int { return h.recent.size() }

// FinalSize returns the number of sentences folded into the unbounded
// tier.
func (h *Bigram) FinalSize() int { return h.final.size() }

// SplitSentence splits a whitespace-joined sentence back into its word
// list. Apostrophes are not treated as separators.
func SplitSentence(s string) []string {
	return strings.Fields(s)
}
