package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/reconcile"
	"github.com/nhle/taskflow/internal/theme"
)

// TaskItem wraps a reconciled task entry so it can be used in a
// bubbles/list.
type TaskItem struct {
	Entry reconcile.Entry
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Entry.Task.Title }

// checkbox renders the completion marker.
func (i TaskItem) checkbox() string {
	if i.Entry.Task.Completed {
		return "[x]"
	}
	return "[ ]"
}

// marker renders the reconciliation state suffix, if any.
func (i TaskItem) marker() string {
	switch i.Entry.Phase {
	case reconcile.PhaseSaving:
		return " …saving"
	case reconcile.PhaseStale:
		return " !failed"
	default:
		return ""
	}
}

// ItemDelegate implements list.ItemDelegate for rendering task entries.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the gap between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update is a no-op; the parent model handles all input.
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single task entry.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := ti.Entry.Task
	line := fmt.Sprintf("%s %s%s", ti.checkbox(), task.Title, ti.marker())

	style := theme.ListItemStyle
	switch {
	case index == m.Index():
		style = theme.SelectedItemStyle
	case ti.Entry.Phase == reconcile.PhaseSaving:
		style = theme.ListItemStyle.Inherit(theme.SavingStyle)
	case ti.Entry.Phase == reconcile.PhaseStale:
		style = theme.ListItemStyle.Inherit(theme.StaleStyle)
	case task.Completed:
		style = theme.ListItemStyle.Inherit(theme.CompletedStyle)
	}

	detail := stepsSummary(task.Steps)
	fmt.Fprintf(w, "%s\n%s", style.Render(line), theme.StepsStyle.Render(detail))
}

// stepsSummary condenses the suggested steps into one line. Nil and empty
// step lists render identically.
func stepsSummary(steps []string) string {
	if len(steps) == 0 {
		return "no steps"
	}
	if len(steps) <= 2 {
		return strings.Join(steps, " · ")
	}
	return fmt.Sprintf("%s · %s · +%d more", steps[0], steps[1], len(steps)-2)
}
