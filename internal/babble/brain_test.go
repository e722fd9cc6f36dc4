package babble

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbangert/sooth/internal/dictionary"
)

func newTestBrain() *Brain {
	return NewBrain(dictionary.New())
}

func TestLearnBuildsModel(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"the", "cat"})
	b.Learn([]string{"the", "dog"})

	stats := b.Stats()
	// Vocabulary: <err>, the, cat, dog. Contexts: boundary, the, cat, dog.
	assert.Equal(t, 4, stats.Words)
	assert.Equal(t, 4, stats.Contexts)
	// Each two-word sentence contributes three transitions.
	assert.Equal(t, uint64(6), stats.Observations)
	// Only "the" has any uncertainty: one bit across four contexts.
	assert.Equal(t, 0.25, stats.MeanUncertainty)
}

func TestLearnEmpty(t *testing.T) {
	b := newTestBrain()
	b.Learn(nil)
	b.Learn([]string{})

	stats := b.Stats()
	assert.Equal(t, 0, stats.Contexts)
	assert.Equal(t, uint64(0), stats.Observations)
}

func TestBabbleSingleSentence(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"hello", "world"})

	// Every context holds exactly one choice, so any seed babbles the
	// sentence back.
	rng := rand.New(rand.NewSource(1))
	got := b.Babble(rng, 10)
	assert.Equal(t, []string{"hello", "world"}, got)
}

func TestBabbleMaxWords(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"go", "go", "go"})

	rng := rand.New(rand.NewSource(7))
	got := b.Babble(rng, 2)
	assert.LessOrEqual(t, len(got), 2)
	for _, w := range got {
		assert.Equal(t, "go", w)
	}
}

func TestBabbleEmptyBrain(t *testing.T) {
	b := newTestBrain()
	rng := rand.New(rand.NewSource(1))
	assert.Empty(t, b.Babble(rng, 10))
}

func TestReplyScoresKeywords(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"a", "b"})
	b.Learn([]string{"a", "c"})

	// Every candidate is "a b" or "a c"; either way exactly one keyword
	// with frequency one half appears, so the score is one bit.
	rng := rand.New(rand.NewSource(42))
	reply, score := b.Reply(rng, []string{"b", "c"}, 4)

	require.Len(t, reply, 2)
	assert.Equal(t, "a", reply[0])
	assert.Contains(t, []string{"b", "c"}, reply[1])
	assert.Equal(t, 1.0, score)
}

func TestReplyUnknownInput(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"hello", "world"})

	rng := rand.New(rand.NewSource(3))
	reply, score := b.Reply(rng, []string{"quantum", "entanglement"}, 2)

	// No keyword is known, so the first candidate wins with a zero score.
	assert.Equal(t, []string{"hello", "world"}, reply)
	assert.Equal(t, 0.0, score)
}

func TestReplyEmptyBrain(t *testing.T) {
	b := newTestBrain()
	rng := rand.New(rand.NewSource(1))
	reply, score := b.Reply(rng, []string{"anything"}, 3)
	assert.Nil(t, reply)
	assert.Equal(t, 0.0, score)
}

func TestModelSnapshot(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"one"})

	snapshot := b.Model()
	b.Learn([]string{"two"})

	// The snapshot is a persistent value; later learning must not leak in.
	assert.Equal(t, 2, len(snapshot.Contexts))
	assert.Equal(t, 3, len(b.Model().Contexts))
}

func TestWord(t *testing.T) {
	b := newTestBrain()
	b.Learn([]string{"only"})

	word, ok := b.Word(1)
	require.True(t, ok)
	assert.Equal(t, "only", word)

	_, ok = b.Word(99)
	assert.False(t, ok)
}
