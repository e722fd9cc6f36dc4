package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n\n")

		case "note":
			sb.WriteString("  " + m.styles.Muted.Render(msg.Content) + "\n")

		default: // "assistant"
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("sooth") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.isBooting {
		return m.renderBootScreen()
	}

	header := m.renderHeader()

	content := m.viewport.View()
	if m.err != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			m.styles.Error.Render("Error: "+m.err.Error()))
	}
	chatView := m.styles.Content.Render(content)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)

	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" sooth ")
	version := m.styles.Badge.Render("v" + m.version)
	session := m.styles.Muted.Render(" session " + shortID(m.sessionID))

	var status string
	if m.isLoading {
		spin := m.spinner.View()
		status = lipgloss.JoinHorizontal(lipgloss.Center, spin, " ", m.styles.Badge.Render("Composing..."))
	} else {
		status = m.styles.Success.Render("Listening")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		version,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		session,
		m.styles.RenderDivider(m.width),
	)
}

func (m Model) renderFooter() string {
	scoreIndicator := ""
	if m.lastScoreSet {
		scoreIndicator = fmt.Sprintf("reply: %.2f bits | ", m.lastScore)
	}

	watchIndicator := ""
	if m.watcher != nil && m.watcher.IsWatching() {
		watchIndicator = "[WATCH] | "
	}

	timestamp := time.Now().Format("15:04")
	help := m.styles.Muted.Render(fmt.Sprintf("%s%sturn %d | %s | Enter: send | /help | Ctrl+C: exit",
		scoreIndicator, watchIndicator, m.turnCount, timestamp))
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(help)
}

func (m Model) renderBootScreen() string {
	spin := m.spinner.View()
	title := m.styles.Header.Render(" sooth ")
	subtitle := m.styles.Badge.Render("Reading the corpus")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"\n",
		spin,
		"\n",
		subtitle,
		m.styles.Muted.Render("Folding observations into the model..."),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// shortID trims a UUID to its leading group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
