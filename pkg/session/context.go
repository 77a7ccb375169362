// Package session implements PinyinContext, the per-session state that
// ties keystroke input, segmentation, decoding, and history learning
// together for one logical input-method session.
package session

import (
	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
)

// Context is a single input-method session: a keystroke buffer, its
// lazily rebuilt SegmentGraph, and the most recently decoded candidates.
type Context struct {
	lm      langmodel.Model
	history *history.Bigram
	opts    decoder.Options
	flags   pinyin.FuzzyFlag

	buffer     []byte
	cursor     int // byte offset into buffer where the next keystroke lands
	graph      *pinyin.SegmentGraph
	candidates []decoder.Sentence
}

// New returns an empty Context bound to lm and h.
func New(lm langmodel.Model, h *history.Bigram, opts decoder.Options) *Context {
	return &Context{lm: lm, history: h, opts: opts}
}

// SetFuzzyFlags replaces the enabled fuzzy-matching flags for future
// segmentation; it does not reparse the existing buffer.
func (c *Context) SetFuzzyFlags(flags pinyin.FuzzyFlag) { c.flags = flags }

// Buffer returns the current raw keystroke buffer.
func (c *Context) Buffer() string { return string(c.buffer) }

// Cursor returns the current cursor position as a byte offset into
// Buffer(); keystrokes from Append are inserted there.
func (c *Context) Cursor() int { return c.cursor }

// SetCursor moves the cursor to an absolute byte offset, clamped to
// [0, len(Buffer())].
func (c *Context) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.buffer) {
		pos = len(c.buffer)
	}
	c.cursor = pos
}

// MoveCursor shifts the cursor by delta bytes (negative moves left),
// clamped to the buffer's bounds.
func (c *Context) MoveCursor(delta int) {
	c.SetCursor(c.cursor + delta)
}

// Append inserts keystrokes at the cursor and advances it past them. A
// cursor at the end of the buffer extends the segment graph incrementally
// via Merge; an insertion elsewhere forces a full reparse, since Merge
// only supports prefix-extending growth.
func (c *Context) Append(keys string) error {
	if len(keys) == 0 {
		return nil
	}
	if c.cursor == len(c.buffer) {
		next := append(append([]byte(nil), c.buffer...), keys...)
		nextGraph := pinyin.ParseUserPinyin(string(next), c.flags)
		if c.graph != nil {
			if err := c.graph.Merge(nextGraph); err != nil {
				return err
			}
		} else {
			c.graph = nextGraph
		}
		c.buffer = next
		c.cursor = len(next)
		c.candidates = nil
		return nil
	}

	next := make([]byte, 0, len(c.buffer)+len(keys))
	next = append(next, c.buffer[:c.cursor]...)
	next = append(next, keys...)
	next = append(next, c.buffer[c.cursor:]...)
	c.buffer = next
	c.cursor += len(keys)
	c.reparse()
	return nil
}

// Backspace removes up to n keystrokes immediately before the cursor (or
// fewer if the cursor is near the start of the buffer) and forces a full
// reparse, since merge only supports prefix-extending growth.
func (c *Context) Backspace(n int) {
	if n <= 0 {
		return
	}
	start := c.cursor - n
	if start < 0 {
		start = 0
	}
	c.buffer = append(c.buffer[:start], c.buffer[c.cursor:]...)
	c.cursor = start
	c.reparse()
}

// Clear resets the buffer, cursor, graph, and candidates without touching
// history.
func (c *Context) Clear() {
	c.buffer = nil
	c.cursor = 0
	c.graph = nil
	c.candidates = nil
}

// reparse rebuilds the segment graph from scratch after an edit that
// isn't a pure end-append and invalidates any cached candidates.
func (c *Context) reparse() {
	if len(c.buffer) == 0 {
		c.graph = nil
	} else {
		c.graph = pinyin.ParseUserPinyin(string(c.buffer), c.flags)
	}
	c.candidates = nil
}

// Decode runs the lattice decoder over the current segment graph and
// caches the resulting candidates for Commit to reference by index.
func (c *Context) Decode() []decoder.Sentence {
	if c.graph == nil {
		c.candidates = nil
		return nil
	}
	c.candidates = decoder.Decode(c.graph, c.lm, c.history, c.opts)
	return c.candidates
}

// Commit feeds the chosen sentence's word list back into the history
// bigram, clears the buffer, and returns the committed text.
func (c *Context) Commit(index int) (string, error) {
	if index < 0 || index >= len(c.candidates) {
		return "", errIndexOutOfRange
	}
	chosen := c.candidates[index]
	c.history.Add(chosen.Words)
	c.Clear()
	return joinWords(chosen.Words), nil
}

func joinWords(words []string) string {
	out := ""
	for _, w := range words {
		out += w
	}
	return out
}
