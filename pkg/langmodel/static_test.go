package langmodel

import "testing"

func TestAddWordIsIdempotent(t *testing.T) {
	m := NewStaticModel()
	idx1 := m.AddWord("你", "ni", -1.0)
	idx2 := m.AddWord("你", "ni", -1.0)

	if idx1 != idx2 {
		t.Fatalf("AddWord() returned different indices for the same word: %d, %d", idx1, idx2)
	}
}

func TestCandidatesForSyllablesOrderedByLogProb(t *testing.T) {
	m := NewStaticModel()
	m.AddWord("泥", "ni", -2.0)
	m.AddWord("你", "ni", -1.0)

	got := m.CandidatesForSyllables("ni")
	if len(got) != 2 || got[0] != "你" || got[1] != "泥" {
		t.Fatalf("CandidatesForSyllables(ni) = %v, want [你 泥]", got)
	}
}

func TestWordIndexUnknownForUnregisteredWord(t *testing.T) {
	m := NewStaticModel()
	if idx := m.WordIndex("不存在"); idx != Unknown {
		t.Fatalf("WordIndex() = %v, want Unknown", idx)
	}
}

func TestIsUnknown(t *testing.T) {
	m := NewStaticModel()
	idx := m.AddWord("你", "ni", -1.0)

	if m.IsUnknown(idx, "你") {
		t.Fatalf("IsUnknown() = true for a registered word")
	}
	if !m.IsUnknown(Unknown, "") {
		t.Fatalf("IsUnknown() = false for the Unknown index")
	}
}

func TestScoreFallsBackToUnigramWithoutExplicitBigram(t *testing.T) {
	m := NewStaticModel()
	idxNi := m.AddWord("你", "ni", -1.0)
	idxHao := m.AddWord("好", "hao", -3.0)

	_, score := m.Score(bigramState{prev: idxNi}, idxHao)
	if score != -3.0 {
		t.Fatalf("Score() = %v, want the unigram log-probability -3.0", score)
	}
}

func TestScoreUsesExplicitBigramWhenSet(t *testing.T) {
	m := NewStaticModel()
	idxNi := m.AddWord("你", "ni", -1.0)
	idxHao := m.AddWord("好", "hao", -3.0)
	m.SetBigram(idxNi, idxHao, -0.5)

	_, score := m.Score(bigramState{prev: idxNi}, idxHao)
	if score != -0.5 {
		t.Fatalf("Score() = %v, want the explicit bigram log-probability -0.5", score)
	}
}
