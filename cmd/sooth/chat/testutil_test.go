package chat

import (
	"math/rand"

	"github.com/bbangert/sooth/cmd/sooth/config"
	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/corpus"
	"github.com/bbangert/sooth/internal/dictionary"
)

// TestModelOption configures a test model.
type TestModelOption func(*Model)

// NewTestModel creates a Model over a real in-memory brain, sized and marked
// ready so tests can skip the boot handshake.
func NewTestModel(opts ...TestModelOption) Model {
	brain := babble.NewBrain(dictionary.New())
	trainer := corpus.NewTrainer(brain, nil, 1)

	m := New(Config{
		Brain:      brain,
		Trainer:    trainer,
		RNG:        rand.New(rand.NewSource(1)),
		User:       config.DefaultConfig(),
		SessionID:  "f0e94f50-4f3e-49a0-8b72-3f35171a0c5b",
		Candidates: 4,
		Version:    "test",
	})

	m.isBooting = false
	m.ready = true
	m.width = 100
	m.height = 50

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithBooting sets the model to the boot state.
func WithBooting(booting bool) TestModelOption {
	return func(m *Model) {
		m.isBooting = booting
		m.ready = !booting
	}
}

// WithHistory adds messages to the history.
func WithHistory(messages ...Message) TestModelOption {
	return func(m *Model) {
		m.history = append(m.history, messages...)
	}
}

// WithLoading sets the loading flag.
func WithLoading(loading bool) TestModelOption {
	return func(m *Model) {
		m.isLoading = loading
	}
}

// learnLines trains the brain directly, bypassing the UI.
func learnLines(m Model, lines ...string) {
	for _, line := range lines {
		m.brain.Learn(corpus.Tokenize(line))
	}
}

// MockError is a simple error type for testing.
type MockError struct {
	msg string
}

func (e *MockError) Error() string {
	return e.msg
}
