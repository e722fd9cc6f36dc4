package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/logging"
)

// DefaultExtensions are the corpus file extensions trained when none are
// configured.
var DefaultExtensions = []string{".txt"}

// DefaultParallelism bounds how many files TrainDir reads at once.
const DefaultParallelism = 4

// Trainer feeds corpus text into a brain line by line; each non-empty line
// is learned as one sentence.
type Trainer struct {
	brain       *babble.Brain
	extensions  []string
	parallelism int
}

// NewTrainer returns a Trainer for brain. Empty extensions or a
// non-positive parallelism fall back to the defaults.
func NewTrainer(brain *babble.Brain, extensions []string, parallelism int) *Trainer {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &Trainer{brain: brain, extensions: extensions, parallelism: parallelism}
}

// Matches reports whether path carries one of the trainer's corpus
// extensions.
func (t *Trainer) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range t.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TrainReader learns every non-empty line of r and returns the number of
// sentences learned.
func (t *Trainer) TrainReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sentences := 0
	for scanner.Scan() {
		words := Tokenize(scanner.Text())
		if len(words) == 0 {
			continue
		}
		t.brain.Learn(words)
		sentences++
	}
	if err := scanner.Err(); err != nil {
		return sentences, fmt.Errorf("scanning corpus: %w", err)
	}
	return sentences, nil
}

// TrainFile learns one corpus file.
func (t *Trainer) TrainFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()

	n, err := t.TrainReader(f)
	if err != nil {
		return n, fmt.Errorf("training from %s: %w", path, err)
	}
	logging.CorpusDebug("Trained %d sentences from %s", n, path)
	return n, nil
}

// TrainDir learns every matching file under dir, reading up to the
// trainer's parallelism at once. The brain serializes the learning itself,
// so only sentence interleaving depends on arrival order.
func (t *Trainer) TrainDir(ctx context.Context, dir string) (int, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !t.Matches(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking corpus dir %s: %w", dir, err)
	}

	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.parallelism)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := t.TrainFile(path)
			if err != nil {
				return err
			}
			total.Add(int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(total.Load()), err
	}

	logging.Corpus("Trained %d sentences from %d files under %s", total.Load(), len(files), dir)
	return int(total.Load()), nil
}

// Train learns path, which may be a single file or a directory.
func (t *Trainer) Train(ctx context.Context, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("inspecting corpus path: %w", err)
	}
	if info.IsDir() {
		return t.TrainDir(ctx, path)
	}
	return t.TrainFile(path)
}
