package tasklist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/reconcile"
	"github.com/nhle/taskflow/internal/theme"
)

// Model is the task list view component.
type Model struct {
	list   list.Model
	width  int
	height int
}

// New creates a new task list model.
func New(width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		width:  width,
		height: height,
	}
}

// SetEntries replaces the rendered entries with the reconciler's current
// view, keeping the cursor position when possible.
func (m *Model) SetEntries(entries []reconcile.Entry) tea.Cmd {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = TaskItem{Entry: e}
	}
	return m.list.SetItems(items)
}

// Selected returns the entry under the cursor, if any.
func (m Model) Selected() (reconcile.Entry, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return reconcile.Entry{}, false
	}
	return item.Entry, true
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	return m.list.View()
}
