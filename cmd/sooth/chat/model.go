// Package chat implements the interactive sooth TUI: a conversation
// viewport over a brain that learns every line it is told before replying.
package chat

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/bbangert/sooth/cmd/sooth/config"
	"github.com/bbangert/sooth/cmd/sooth/ui"
	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/corpus"
	"github.com/bbangert/sooth/internal/logging"
)

// Config carries everything the chat model needs from the command layer.
// The watcher may be nil when live retraining is disabled; its lifecycle
// belongs to the caller either way.
type Config struct {
	Brain      *babble.Brain
	Trainer    *corpus.Trainer
	Watcher    *corpus.Watcher
	RNG        *rand.Rand
	User       config.Config
	SessionID  string
	CorpusDir  string
	Candidates int
	Version    string
}

// Message is a single entry in the conversation history.
type Message struct {
	Role    string // "user", "assistant", or "note"
	Content string
	Time    time.Time
}

// Model is the bubbletea model for the interactive chat.
type Model struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	history   []Message
	isLoading bool
	isBooting bool
	err       error
	width     int
	height    int
	ready     bool

	// Backend
	brain      *babble.Brain
	trainer    *corpus.Trainer
	watcher    *corpus.Watcher
	rng        *rand.Rand
	userConfig config.Config

	sessionID  string
	corpusDir  string
	candidates int
	version    string

	turnCount    int
	lastScore    float64
	lastScoreSet bool
}

// Messages for tea updates
type (
	replyMsg struct {
		words []string
		score float64
	}
	trainedMsg struct {
		path      string
		sentences int
		err       error
	}
	bootCompleteMsg struct {
		sentences int
		err       error
	}
	errorMsg error
)

// New builds the chat model. The terminal dimensions arrive later through
// the first WindowSizeMsg.
func New(cfg Config) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.User.Theme))

	ti := textinput.New()
	ti.Placeholder = "Say something... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 1024
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	candidates := cfg.Candidates
	if candidates <= 0 {
		candidates = 10
	}

	return Model{
		textinput:  ti,
		viewport:   vp,
		spinner:    sp,
		styles:     styles,
		renderer:   newRenderer(styles, 80),
		history:    []Message{},
		isBooting:  true,
		brain:      cfg.Brain,
		trainer:    cfg.Trainer,
		watcher:    cfg.Watcher,
		rng:        cfg.RNG,
		userConfig: cfg.User,
		sessionID:  cfg.SessionID,
		corpusDir:  cfg.CorpusDir,
		candidates: candidates,
		version:    cfg.Version,
	}
}

// newRenderer builds a glamour renderer for the current theme and width.
func newRenderer(styles ui.Styles, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(width),
		)
	}
	return renderer
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.bootTrain(),
	)
}

// bootTrain reads the corpus directory into the brain before the first
// prompt is shown. A missing directory is fine; the brain starts empty.
func (m Model) bootTrain() tea.Cmd {
	trainer, dir := m.trainer, m.corpusDir
	return func() tea.Msg {
		if dir == "" {
			return bootCompleteMsg{}
		}
		if _, err := os.Stat(dir); err != nil {
			return bootCompleteMsg{}
		}
		n, err := trainer.TrainDir(context.Background(), dir)
		return bootCompleteMsg{sentences: n, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			logging.Chat("session %s closed after %d turns", m.sessionID, m.turnCount)
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading && !m.isBooting {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 4
		m.renderer = newRenderer(m.styles, msg.Width-8)
		m.viewport.SetContent(m.renderHistory())

	case spinner.TickMsg:
		if m.isLoading || m.isBooting {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case bootCompleteMsg:
		m.isBooting = false
		if msg.err != nil {
			m.err = msg.err
		}
		stats := m.brain.Stats()
		logging.Chat("session %s booted: %d sentences, %d words, %d contexts",
			m.sessionID, msg.sentences, stats.Words, stats.Contexts)
		m = m.pushNote(m.bootGreeting(msg.sentences))

	case replyMsg:
		m.isLoading = false
		m.turnCount++
		content := "sooth has nothing to say yet. Feed it a corpus with `/train <path>`, or keep talking."
		if len(msg.words) > 0 {
			content = strings.Join(msg.words, " ")
			m.lastScore = msg.score
			m.lastScoreSet = true
		}
		m = m.pushAssistant(content)

	case trainedMsg:
		m.isLoading = false
		if msg.err != nil {
			m = m.pushNote("training failed: " + msg.err.Error())
		} else {
			stats := m.brain.Stats()
			m = m.pushNote(trainedNote(msg.path, msg.sentences, stats))
		}

	case errorMsg:
		m.isLoading = false
		m.err = msg
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.history = append(m.history, Message{Role: "user", Content: input, Time: time.Now()})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.isLoading = true

	// The brain hears every line before answering it.
	words := corpus.Tokenize(input)
	m.brain.Learn(words)
	logging.ChatDebug("session %s turn %d: learned %d words", m.sessionID, m.turnCount, len(words))

	return m, tea.Batch(
		m.spinner.Tick,
		m.requestReply(words),
	)
}

// requestReply generates the reply off the UI goroutine. Only one reply is
// in flight at a time (isLoading gates submissions), so the shared rng is
// never used concurrently.
func (m Model) requestReply(words []string) tea.Cmd {
	brain, rng, candidates := m.brain, m.rng, m.candidates
	return func() tea.Msg {
		reply, score := brain.Reply(rng, words, candidates)
		return replyMsg{words: reply, score: score}
	}
}

// runTraining feeds a file or directory through the trainer in the
// background.
func (m Model) runTraining(path string) tea.Cmd {
	trainer := m.trainer
	return func() tea.Msg {
		n, err := trainer.Train(context.Background(), path)
		return trainedMsg{path: path, sentences: n, err: err}
	}
}

// pushAssistant appends an assistant message, clears the input, and scrolls
// the viewport to the newest entry.
func (m Model) pushAssistant(content string) Model {
	m.history = append(m.history, Message{Role: "assistant", Content: content, Time: time.Now()})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	return m
}

// pushNote appends a muted one-line note to the history.
func (m Model) pushNote(content string) Model {
	m.history = append(m.history, Message{Role: "note", Content: content, Time: time.Now()})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	return m
}
