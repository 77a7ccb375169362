// Package langmodel defines the external language-model collaborator the
// decoder consults for unigram/bigram scores, plus one concrete in-memory
// implementation so the rest of the module has a real provider to run
// against.
package langmodel

// WordIndex identifies a word in a model's vocabulary. Unknown stands for
// any word absent from the model.
type WordIndex int32

// Unknown is the sentinel WordIndex for out-of-vocabulary words.
const Unknown WordIndex = -1

// State is opaque bigram-context state threaded through successive Score
// calls; models that need no context beyond the previous word may use an
// int-sized WordIndex as their own State.
type State interface{}

// Model is the external static language-model collaborator: it maps
// words to indices, flags unknown words, and scores unigram/bigram
// transitions in log-probability form.
type Model interface {
	// WordIndex returns word's index, or Unknown if it is out of vocabulary.
	WordIndex(word string) WordIndex
	// IsUnknown reports whether idx/word should be treated as unknown.
	IsUnknown(idx WordIndex, word string) bool
	// InitialState returns the state to seed a fresh decode with.
	InitialState() State
	// BeginSentenceState returns the state to use for the transition out
	// of the begin-of-sentence pseudo-word.
	BeginSentenceState() State
	// Score returns the next state and the log-probability of
	// transitioning from state into idx.
	Score(state State, idx WordIndex) (State, float64)
	// CandidatesForSyllables returns every dictionary word whose
	// pronunciation matches the given encoded-syllable spelling.
	CandidatesForSyllables(spelling string) []string
}
