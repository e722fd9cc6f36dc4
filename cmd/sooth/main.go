// Package main provides the sooth CLI entry point.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bbangert/sooth/cmd/sooth/chat"
	userconfig "github.com/bbangert/sooth/cmd/sooth/config"
	"github.com/bbangert/sooth/cmd/sooth/ui"
	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/config"
	"github.com/bbangert/sooth/internal/corpus"
	"github.com/bbangert/sooth/internal/dictionary"
	"github.com/bbangert/sooth/internal/logging"
)

const version = "0.1.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// train flags
	watch bool

	// babble flags
	babbleWords int
	babbleSeed  int64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sooth",
	Short: "sooth - a minimal stochastic predictive model that chats back",
	Long: `sooth keeps per-context event frequency statistics and uses them to
generate text. It learns word transitions from plain text corpora and
replies by weighted selection over what it has seen, preferring the reply
that says the most about your words.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Category file logging reads .sooth/config.json from the workspace
		if cwd, err := os.Getwd(); err == nil {
			if err := logging.Initialize(cwd); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}

		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "sooth" && cmd.CalledAs() == "sooth" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runInteractiveChat()
	},
}

// trainCmd trains the model from corpus files or directories
var trainCmd = &cobra.Command{
	Use:   "train [path...]",
	Short: "Train the model from corpus files or directories",
	Long: `Reads plain text corpora and folds every word transition into the model.
Directories are walked recursively; only files matching the configured
extensions (.txt by default) are read.

With --watch, training keeps running: directory arguments are watched and
changed files are retrained into the live model until interrupted.

Example:
  sooth train corpus/
  sooth train --watch corpus/ extra-lines.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrain,
}

// babbleCmd emits one generated sentence
var babbleCmd = &cobra.Command{
	Use:   "babble",
	Short: "Emit one generated sentence from the trained model",
	Long: `Trains from the configured corpus directory and prints a single random
walk through the model to stdout.

Example:
  sooth babble --words 20 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runBabble,
}

// statsCmd shows model statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model statistics for the configured corpus",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sooth version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sooth %s\n", version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sooth.yaml", "Path to the runtime config file")

	// Train flags
	trainCmd.Flags().BoolVar(&watch, "watch", false, "Keep running and retrain when corpus files change")

	// Babble flags
	babbleCmd.Flags().IntVar(&babbleWords, "words", 0, "Maximum words to generate (default from config)")
	babbleCmd.Flags().Int64Var(&babbleSeed, "seed", 0, "PRNG seed (0 seeds from the clock)")

	// Add commands to root
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(babbleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildBrain assembles the model stack from the runtime config.
func buildBrain() (*babble.Brain, *corpus.Trainer, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	brain := babble.NewBrain(dictionary.New())
	trainer := corpus.NewTrainer(brain, cfg.Corpus.Extensions, cfg.Corpus.Parallelism)
	return brain, trainer, cfg, nil
}

// newRNG seeds from the clock unless a fixed seed is given.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// runTrain trains from every path argument, then optionally keeps watching
// directory arguments for changes.
func runTrain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	brain, trainer, cfg, err := buildBrain()
	if err != nil {
		return err
	}

	total := 0
	for _, path := range args {
		n, err := trainer.Train(ctx, path)
		if err != nil {
			return fmt.Errorf("training %s: %w", path, err)
		}
		logger.Info("Trained corpus",
			zap.String("path", path),
			zap.Int("sentences", n))
		total += n
	}

	stats := brain.Stats()
	fmt.Printf("Absorbed %d sentences: %d words over %d contexts\n",
		total, stats.Words, stats.Contexts)

	if !watch {
		return nil
	}

	// Watch every directory argument until interrupted
	var watchers []*corpus.Watcher
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		w, err := corpus.NewWatcher(path, trainer, cfg.DebounceDuration())
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		logger.Info("Watching corpus directory", zap.String("dir", path))
		watchers = append(watchers, w)
	}
	if len(watchers) == 0 {
		return fmt.Errorf("--watch needs at least one directory argument")
	}

	fmt.Println("Watching for corpus changes. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	for _, w := range watchers {
		w.Stop()
		ws := w.GetStats()
		logger.Info("Watcher stopped",
			zap.Int("retrained", ws.Retrained),
			zap.Int("sentences", ws.Sentences))
	}

	stats = brain.Stats()
	fmt.Printf("Final model: %d words over %d contexts\n", stats.Words, stats.Contexts)
	return nil
}

// runBabble trains from the configured corpus directory and prints one
// generated sentence.
func runBabble(cmd *cobra.Command, args []string) error {
	brain, trainer, cfg, err := buildBrain()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Corpus.Dir); err == nil {
		n, err := trainer.TrainDir(context.Background(), cfg.Corpus.Dir)
		if err != nil {
			return fmt.Errorf("training %s: %w", cfg.Corpus.Dir, err)
		}
		logger.Info("Trained corpus",
			zap.String("dir", cfg.Corpus.Dir),
			zap.Int("sentences", n))
	}

	words := babbleWords
	if words <= 0 {
		words = cfg.Babble.MaxWords
	}
	seed := babbleSeed
	if seed == 0 {
		seed = cfg.Babble.Seed
	}

	out := brain.Babble(newRNG(seed), words)
	if len(out) == 0 {
		return fmt.Errorf("the model is empty: train a corpus first (sooth train <path>)")
	}

	fmt.Println(strings.Join(out, " "))
	return nil
}

// runStats trains from the configured corpus directory and renders the
// model statistics table.
func runStats(cmd *cobra.Command, args []string) error {
	brain, trainer, cfg, err := buildBrain()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Corpus.Dir); err == nil {
		if _, err := trainer.TrainDir(context.Background(), cfg.Corpus.Dir); err != nil {
			return fmt.Errorf("training %s: %w", cfg.Corpus.Dir, err)
		}
	}

	stats := brain.Stats()

	table := ui.NewTable("Model Statistics", "Metric", "Value")
	table.AddRow("Corpus dir", cfg.Corpus.Dir)
	table.AddRow("Words", strconv.Itoa(stats.Words))
	table.AddRow("Contexts", strconv.Itoa(stats.Contexts))
	table.AddRow("Observations", strconv.FormatUint(stats.Observations, 10))
	table.AddRow("Mean uncertainty", fmt.Sprintf("%.3f bits", stats.MeanUncertainty))

	fmt.Println(table.View(ui.DefaultStyles()))
	return nil
}

// runInteractiveChat boots the TUI with the model stack wired in.
func runInteractiveChat() error {
	brain, trainer, cfg, err := buildBrain()
	if err != nil {
		return err
	}

	userCfg, _ := userconfig.Load()

	corpusDir := cfg.Corpus.Dir
	if userCfg.CorpusDir != "" {
		corpusDir = userCfg.CorpusDir
	}

	// Live retraining while chatting, when enabled
	var watcher *corpus.Watcher
	if cfg.Watch.Enabled {
		if info, err := os.Stat(corpusDir); err == nil && info.IsDir() {
			w, err := corpus.NewWatcher(corpusDir, trainer, cfg.DebounceDuration())
			if err != nil {
				return fmt.Errorf("starting corpus watcher: %w", err)
			}
			if err := w.Start(context.Background()); err != nil {
				return fmt.Errorf("starting corpus watcher: %w", err)
			}
			watcher = w
		}
	}

	sessionID := uuid.NewString()
	logging.Chat("session %s starting", sessionID)

	p := tea.NewProgram(
		chat.New(chat.Config{
			Brain:      brain,
			Trainer:    trainer,
			Watcher:    watcher,
			RNG:        newRNG(cfg.Babble.Seed),
			User:       userCfg,
			SessionID:  sessionID,
			CorpusDir:  corpusDir,
			Candidates: cfg.Babble.Candidates,
			Version:    version,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	if watcher != nil {
		watcher.Stop()
	}
	return err
}
