package langmodel

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildLexiconFixture(entries []lexiconEntry) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(entries)))
	for _, e := range entries {
		writeLexiconString(&buf, e.word)
		writeLexiconString(&buf, e.spelling)
		binary.Write(&buf, binary.LittleEndian, e.freq)
	}
	return buf.Bytes()
}

func writeLexiconString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
}

func TestLoadLexiconRegistersEveryWord(t *testing.T) {
	data := buildLexiconFixture([]lexiconEntry{
		{word: "你", spelling: "ni", freq: 100},
		{word: "泥", spelling: "ni", freq: 10},
		{word: "好", spelling: "hao", freq: 50},
	})

	m := NewStaticModel()
	if err := LoadLexicon(bytes.NewReader(data), m); err != nil {
		t.Fatalf("LoadLexicon() error = %v", err)
	}

	got := m.CandidatesForSyllables("ni")
	if len(got) != 2 || got[0] != "你" || got[1] != "泥" {
		t.Fatalf("CandidatesForSyllables(ni) = %v, want [你 泥] ordered by frequency", got)
	}
}

func TestLoadLexiconEmptyFile(t *testing.T) {
	data := buildLexiconFixture(nil)
	m := NewStaticModel()
	if err := LoadLexicon(bytes.NewReader(data), m); err != nil {
		t.Fatalf("LoadLexicon() error = %v", err)
	}
	if got := m.CandidatesForSyllables("ni"); got != nil {
		t.Fatalf("CandidatesForSyllables(ni) = %v, want nil for an empty lexicon", got)
	}
}
