package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	table := NewTable("Model", "Metric", "Value")
	table.AddRow("Words", "42")
	table.AddRow("Contexts", "17")

	styles := NewStyles(LightTheme())
	view := table.View(styles)

	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Model") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "Metric") {
		t.Error("View missing header")
	}
	if !strings.Contains(view, "Contexts") {
		t.Error("View missing cell content")
	}
}

func TestTableEmpty(t *testing.T) {
	table := NewTable("Empty", "A", "B")
	if got := table.View(DefaultStyles()); got != "" {
		t.Errorf("empty table rendered %q, want empty string", got)
	}
}
