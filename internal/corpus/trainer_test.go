package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/dictionary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestTrainer() (*babble.Brain, *Trainer) {
	brain := babble.NewBrain(dictionary.New())
	return brain, NewTrainer(brain, nil, 0)
}

func TestTrainReader(t *testing.T) {
	brain, trainer := newTestTrainer()

	input := "The cat sat.\n\nThe dog ran.\n"
	n, err := trainer.TrainReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats := brain.Stats()
	// Vocabulary: <err>, the, cat, sat, dog, ran.
	assert.Equal(t, 6, stats.Words)
	// Each three-word sentence contributes four transitions.
	assert.Equal(t, uint64(8), stats.Observations)
}

func TestTrainFile(t *testing.T) {
	brain, trainer := newTestTrainer()

	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0644))

	n, err := trainer.TrainFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(3), brain.Stats().Observations)
}

func TestTrainFileMissing(t *testing.T) {
	_, trainer := newTestTrainer()
	_, err := trainer.TrainFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestTrainDir(t *testing.T) {
	brain, trainer := newTestTrainer()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one two\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("three four\nfive six\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("not corpus\n"), 0644))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.txt"), []byte("seven eight\n"), 0644))

	n, err := trainer.TrainDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Four two-word sentences at three transitions apiece.
	assert.Equal(t, uint64(12), brain.Stats().Observations)
}

func TestTrainDispatch(t *testing.T) {
	brain, trainer := newTestTrainer()

	dir := t.TempDir()
	path := filepath.Join(dir, "only.txt")
	require.NoError(t, os.WriteFile(path, []byte("lone sentence\n"), 0644))

	t.Run("File", func(t *testing.T) {
		n, err := trainer.Train(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Dir", func(t *testing.T) {
		n, err := trainer.Train(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := trainer.Train(context.Background(), filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})

	assert.Equal(t, uint64(6), brain.Stats().Observations)
}

func TestMatches(t *testing.T) {
	_, trainer := newTestTrainer()
	assert.True(t, trainer.Matches("/tmp/story.txt"))
	assert.True(t, trainer.Matches("/tmp/STORY.TXT"))
	assert.False(t, trainer.Matches("/tmp/readme.md"))
	assert.False(t, trainer.Matches("/tmp/bare"))

	custom := NewTrainer(babble.NewBrain(dictionary.New()), []string{".log"}, 1)
	assert.True(t, custom.Matches("events.log"))
	assert.False(t, custom.Matches("story.txt"))
}
