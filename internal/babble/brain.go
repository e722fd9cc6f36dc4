// Package babble implements a small bigram chatbot brain on top of the
// predictor, in the spirit of the MegaHAL family: learn word transitions
// from text, babble random sentences, and answer with the candidate reply
// that carries the most information about the input.
//
// The brain owns the single mutable model slot and guards it with a mutex;
// the predictor values inside it stay immutable. Randomness is supplied by
// the caller, never generated here.
package babble

import (
	"math/rand"
	"sync"

	"github.com/bbangert/sooth"
	"github.com/bbangert/sooth/internal/dictionary"
	"github.com/bbangert/sooth/internal/logging"
)

// maxReplyWords caps the length of generated reply candidates.
const maxReplyWords = 32

// Brain is a bigram model: the context is the current word's ID and the
// event is the ID of the word that followed it. Sentence boundaries are
// modeled with the dictionary's reserved error word, so the predictor's
// failure fallback and the learned end-of-sentence event coincide.
type Brain struct {
	mu    sync.Mutex
	dict  *dictionary.Dictionary
	model sooth.Predictor
}

// BrainStats summarizes the model for display.
type BrainStats struct {
	Words           int     // distinct words interned, reserved word included
	Contexts        int     // contexts observed at least once
	Observations    uint64  // total transitions observed
	MeanUncertainty float64 // mean entropy across contexts, in bits
}

// NewBrain returns an empty Brain writing into dict.
func NewBrain(dict *dictionary.Dictionary) *Brain {
	return &Brain{
		dict:  dict,
		model: sooth.New(dictionary.ErrorID),
	}
}

// Learn observes one sentence: a transition from the boundary into the
// first word, one per adjacent pair, and a final transition back to the
// boundary. Empty sentences are ignored.
func (b *Brain) Learn(words []string) {
	if len(words) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev := dictionary.ErrorID
	for _, word := range words {
		id := b.dict.Intern(word)
		b.model, _ = b.model.Observe(prev, id)
		prev = id
	}
	b.model, _ = b.model.Observe(prev, dictionary.ErrorID)
}

// Babble generates one sentence of at most maxWords words by walking the
// model from the boundary, selecting each next word with a random limit
// drawn from rng. An empty result means the brain has learned nothing yet.
func (b *Brain) Babble(rng *rand.Rand, maxWords int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.babbleLocked(rng, maxWords)
}

func (b *Brain) babbleLocked(rng *rand.Rand, maxWords int) []string {
	var words []string
	current := dictionary.ErrorID
	for len(words) < maxWords {
		c, _, ok := b.model.FindContext(current)
		if !ok || c.Count == 0 {
			break
		}
		limit := uint32(rng.Intn(int(c.Count))) + 1
		next := b.model.Select(current, limit)
		if next == dictionary.ErrorID {
			break
		}
		word, ok := b.dict.Word(next)
		if !ok {
			break
		}
		words = append(words, word)
		current = next
	}
	return words
}

// Reply generates up to candidates babbles and returns the one whose
// summed surprise over the input's known words is highest, with its score.
// When no input word is known the first non-empty candidate wins. A nil
// reply means the brain has learned nothing yet.
func (b *Brain) Reply(rng *rand.Rand, input []string, candidates int) ([]string, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keywords := make(map[uint32]bool)
	for _, word := range input {
		if id, ok := b.dict.Lookup(word); ok && id != dictionary.ErrorID {
			keywords[id] = true
		}
	}

	var best []string
	bestScore := -1.0
	for i := 0; i < candidates; i++ {
		words := b.babbleLocked(rng, maxReplyWords)
		if len(words) == 0 {
			continue
		}
		score := b.scoreLocked(words, keywords)
		if score > bestScore {
			best = words
			bestScore = score
		}
	}

	if best == nil {
		return nil, 0
	}
	logging.BrainDebug("Reply selected from %d candidates with score %.3f", candidates, bestScore)
	return best, bestScore
}

// scoreLocked replays words through the model and sums the surprise of
// every keyword at the position it appears.
func (b *Brain) scoreLocked(words []string, keywords map[uint32]bool) float64 {
	var score float64
	prev := dictionary.ErrorID
	for _, word := range words {
		id, ok := b.dict.Lookup(word)
		if !ok {
			break
		}
		if keywords[id] {
			if s, ok := b.model.Surprise(prev, id); ok {
				score += s
			}
		}
		prev = id
	}
	return score
}

// Stats reports the current shape of the model.
func (b *Brain) Stats() BrainStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := BrainStats{
		Words:    b.dict.Size(),
		Contexts: len(b.model.Contexts),
	}

	var entropySum float64
	var measured int
	for _, c := range b.model.Contexts {
		stats.Observations += uint64(c.Count)
		if u, ok := b.model.Uncertainty(c.ID); ok {
			entropySum += u
			measured++
		}
	}
	if measured > 0 {
		stats.MeanUncertainty = entropySum / float64(measured)
	}
	return stats
}

// Model returns the current predictor value. The value is immutable, so
// callers may inspect or serialize it without holding any lock afterwards.
func (b *Brain) Model() sooth.Predictor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model
}

// Word exposes the dictionary's reverse lookup for rendering selections.
func (b *Brain) Word(id uint32) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dict.Word(id)
}
