package chat

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bbangert/sooth/cmd/sooth/config"
	"github.com/bbangert/sooth/cmd/sooth/ui"
	"github.com/bbangert/sooth/internal/babble"
	"github.com/bbangert/sooth/internal/logging"
)

const helpText = `## Commands

| Command | Description |
|---------|-------------|
| /help | Show this help message |
| /clear | Clear the conversation |
| /stats | Show model statistics |
| /train <path> | Learn a corpus file or directory |
| /seed <n> | Reseed the reply generator |
| /theme <light or dark> | Switch color theme |
| /quit, /exit, /q | Leave the chat |

## Tips

- **Enter** sends a line; sooth learns it before replying.
- Replies are scored by how surprising they are given your words. The
  score for the last reply lives in the footer.
- **Ctrl+C** or **Esc** exits at any time.
`

// handleCommand dispatches a /slash command typed at the prompt.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	logging.ChatDebug("session %s command: %s", m.sessionID, parts[0])

	switch parts[0] {
	case "/quit", "/exit", "/q":
		logging.Chat("session %s closed after %d turns", m.sessionID, m.turnCount)
		return m, tea.Quit

	case "/clear":
		m.history = []Message{}
		m.textinput.Reset()
		m.viewport.SetContent("")
		return m, nil

	case "/help":
		return m.pushAssistant(helpText), nil

	case "/stats":
		return m.pushAssistant(m.statsMarkdown()), nil

	case "/train":
		if len(parts) < 2 {
			return m.pushAssistant("Usage: `/train <file-or-directory>`"), nil
		}
		path := strings.Join(parts[1:], " ")
		m.history = append(m.history, Message{Role: "user", Content: input, Time: time.Now()})
		m.textinput.Reset()
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		m.isLoading = true
		return m, tea.Batch(m.spinner.Tick, m.runTraining(path))

	case "/seed":
		if len(parts) != 2 {
			return m.pushAssistant("Usage: `/seed <number>`"), nil
		}
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return m.pushAssistant(fmt.Sprintf("`%s` is not a number", parts[1])), nil
		}
		m.rng = rand.New(rand.NewSource(n))
		return m.pushNote(fmt.Sprintf("reply generator reseeded with %d", n)), nil

	case "/theme":
		if len(parts) != 2 || (parts[1] != "light" && parts[1] != "dark") {
			return m.pushAssistant("Usage: `/theme <light|dark>`"), nil
		}
		return m.switchTheme(parts[1]), nil

	default:
		return m.pushAssistant(fmt.Sprintf("Unknown command `%s`. Try `/help`.", parts[0])), nil
	}
}

// switchTheme restyles every component and persists the choice so the next
// session starts the same way.
func (m Model) switchTheme(name string) Model {
	m.userConfig.Theme = name
	m.styles = ui.NewStyles(ui.ThemeByName(name))
	m.renderer = newRenderer(m.styles, m.width-8)

	m.textinput.PromptStyle = m.styles.Prompt
	m.textinput.TextStyle = m.styles.UserInput
	m.spinner.Style = m.styles.Spinner

	if err := config.Save(m.userConfig); err != nil {
		return m.pushAssistant(fmt.Sprintf("Theme switched, but saving preferences failed: %v", err))
	}
	return m.pushNote("theme set to " + name)
}

// statsMarkdown summarizes the brain for the /stats command.
func (m Model) statsMarkdown() string {
	stats := m.brain.Stats()

	var sb strings.Builder
	sb.WriteString("## Model Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Words | %d |\n", stats.Words))
	sb.WriteString(fmt.Sprintf("| Contexts | %d |\n", stats.Contexts))
	sb.WriteString(fmt.Sprintf("| Observations | %d |\n", stats.Observations))
	sb.WriteString(fmt.Sprintf("| Mean uncertainty | %.3f bits |\n", stats.MeanUncertainty))
	sb.WriteString(fmt.Sprintf("\nSession `%s`, turn %d.\n", shortID(m.sessionID), m.turnCount))

	if m.watcher != nil && m.watcher.IsWatching() {
		ws := m.watcher.GetStats()
		sb.WriteString(fmt.Sprintf("\nWatching the corpus: %d retrains, %d sentences absorbed.\n",
			ws.Retrained, ws.Sentences))
	}
	return sb.String()
}

// bootGreeting is the first note shown once the corpus has been read.
func (m Model) bootGreeting(sentences int) string {
	stats := m.brain.Stats()
	if sentences == 0 {
		return "the corpus is empty; teach me with /train or just start talking"
	}
	return fmt.Sprintf("absorbed %d sentences: %d words over %d contexts",
		sentences, stats.Words, stats.Contexts)
}

// trainedNote describes a finished /train run.
func trainedNote(path string, sentences int, stats babble.BrainStats) string {
	return fmt.Sprintf("absorbed %d sentences from %s: now %d words over %d contexts",
		sentences, path, stats.Words, stats.Contexts)
}
