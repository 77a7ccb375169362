// Package datrie provides a generic ordered byte-string-keyed map with
// prefix lookup and stream (de)serialization, wrapping go-patricia's trie
// for word/bigram-frequency lookup.
package datrie

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/exp/constraints"
)

// Trie is a byte-string-keyed ordered map from keys to values of type V.
// Every method takes an internal read/write lock, so concurrent calls do
// not race on the underlying patricia.Trie.
type Trie[V constraints.Integer] struct {
	mu   sync.RWMutex
	t    *patricia.Trie
	size int
}

// New returns an empty Trie.
func New[V constraints.Integer]() *Trie[V] {
	return &Trie[V]{t: patricia.NewTrie()}
}

// ExactMatchSearch returns the value stored at key and whether it was
// found.
func (d *Trie[V]) ExactMatchSearch(key string) (V, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item := d.t.Get(patricia.Prefix(key))
	if item == nil {
		return 0, false
	}
	return item.(V), true
}

// Set stores v at key, overwriting any existing value.
func (d *Trie[V]) Set(key string, v V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := patricia.Prefix(key)
	if d.t.Get(p) == nil {
		d.size++
		d.t.Insert(p, v)
		return
	}
	d.t.Set(p, v)
}

// Update applies f to the current value at key (0 if absent) and stores
// the result.
func (d *Trie[V]) Update(key string, f func(V) V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := patricia.Prefix(key)
	var cur V
	existing := d.t.Get(p)
	if existing != nil {
		cur = existing.(V)
	} else {
		d.size++
	}
	next := f(cur)
	if existing != nil {
		d.t.Set(p, next)
	} else {
		d.t.Insert(p, next)
	}
}

// Erase removes key, reporting whether it was present.
func (d *Trie[V]) Erase(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t.Delete(patricia.Prefix(key)) {
		d.size--
		return true
	}
	return false
}

// PrefixSearch visits every stored key that is a prefix of key, in
// increasing length order, stopping early if visit returns false.
func (d *Trie[V]) PrefixSearch(key string, visit func(key string, v V) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	type hit struct {
		key string
		v   V
	}
	var hits []hit
	d.t.VisitPrefixes(patricia.Prefix(key), func(prefix patricia.Prefix, item patricia.Item) error {
		hits = append(hits, hit{key: string(prefix), v: item.(V)})
		return nil
	})
	for _, h := range hits {
		if !visit(h.key, h.v) {
			return
		}
	}
}

// Visit walks every stored key in trie order.
func (d *Trie[V]) Visit(visit func(key string, v V) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.t.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if !visit(string(prefix), item.(V)) {
			return errStopVisit
		}
		return nil
	})
}

var errStopVisit = fmt.Errorf("datrie: visit stopped")

// Len reports the number of stored keys.
func (d *Trie[V]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// Clear removes every stored key.
func (d *Trie[V]) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.t = patricia.NewTrie()
	d.size = 0
}

// Save writes every (key, value) pair to w as a little-endian framed
// stream: u32 entry count, then per entry u32 key length, key bytes, and
// an 8-byte value.
func (d *Trie[V]) Save(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	type entry struct {
		key string
		v   V
	}
	var entries []entry
	d.t.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		entries = append(entries, entry{key: string(prefix), v: item.(V)})
		return nil
	})

	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return fmt.Errorf("datrie: write entry count: %w", err)
	}
	for _, e := range entries {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(e.key))); err != nil {
			return fmt.Errorf("datrie: write key length: %w", err)
		}
		if _, err := w.Write([]byte(e.key)); err != nil {
			return fmt.Errorf("datrie: write key: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int64(e.v)); err != nil {
			return fmt.Errorf("datrie: write value: %w", err)
		}
	}
	return nil
}

// Load replaces the trie's contents with the stream written by Save. On
// any read error the trie is left empty rather than partially loaded.
func (d *Trie[V]) Load(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.t = patricia.NewTrie()
	d.size = 0

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("datrie: read entry count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		var keyLen uint32
		if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
			d.t = patricia.NewTrie()
			d.size = 0
			return fmt.Errorf("datrie: read key length: %w", err)
		}
		keyBuf := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBuf); err != nil {
			d.t = patricia.NewTrie()
			d.size = 0
			return fmt.Errorf("datrie: read key: %w", err)
		}
		var v int64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			d.t = patricia.NewTrie()
			d.size = 0
			return fmt.Errorf("datrie: read value: %w", err)
		}
		d.t.Insert(patricia.Prefix(keyBuf), V(v))
		d.size++
	}
	return nil
}
