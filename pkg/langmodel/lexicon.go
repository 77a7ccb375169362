package langmodel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// lexiconEntry is one raw record read from a lexicon file before its
// frequency is normalized into a log-probability.
type lexiconEntry struct {
	word     string
	spelling string
	freq     uint32
}

// LoadLexicon reads a binary lexicon file and registers every word into m.
//
// The format is a header of the total entry count followed by one record
// per word: word length + word bytes, spelling length + spelling bytes,
// and a little-endian frequency count.
//
//	u32 entryCount
//	per entry:
//	  u16 wordLen, wordLen bytes
//	  u16 spellingLen, spellingLen bytes
//	  u32 freq
//
// Frequencies are normalized into unigram log-probabilities once the full
// file has been read, since the normalizing constant depends on the total
// count across every entry.
func LoadLexicon(r io.Reader, m *StaticModel) error {
	br := bufio.NewReader(r)

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("reading lexicon header: %w", err)
	}

	entries := make([]lexiconEntry, 0, count)
	var total uint64
	for i := uint32(0); i < count; i++ {
		e, err := readLexiconEntry(br)
		if err != nil {
			return fmt.Errorf("reading lexicon entry %d: %w", i, err)
		}
		entries = append(entries, e)
		total += uint64(e.freq)
	}
	if total == 0 {
		return nil
	}

	logTotal := math.Log10(float64(total))
	for _, e := range entries {
		freq := e.freq
		if freq == 0 {
			freq = 1
		}
		logProb := math.Log10(float64(freq)) - logTotal
		m.AddWord(e.word, e.spelling, logProb)
	}
	return nil
}

func readLexiconEntry(br *bufio.Reader) (lexiconEntry, error) {
	word, err := readLexiconString(br)
	if err != nil {
		return lexiconEntry{}, err
	}
	spelling, err := readLexiconString(br)
	if err != nil {
		return lexiconEntry{}, err
	}
	var freq uint32
	if err := binary.Read(br, binary.LittleEndian, &freq); err != nil {
		return lexiconEntry{}, err
	}
	return lexiconEntry{word: word, spelling: spelling, freq: freq}, nil
}

func readLexiconString(br *bufio.Reader) (string, error) {
	var n uint16
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
