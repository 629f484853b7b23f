// Package app is the root Bubble Tea model for the taskflow terminal
// client. It routes between the task list and the add/edit form, and owns
// the optimistic reconciliation state for the rendered list.
package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/client"
	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/reconcile"
	"github.com/nhle/taskflow/internal/theme"
	"github.com/nhle/taskflow/internal/ui/taskform"
	"github.com/nhle/taskflow/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
)

// Model is the root application model.
type Model struct {
	currentView ViewState
	api         *client.Client
	owner       string
	keys        *keys.KeyMap

	view     reconcile.View
	taskList tasklist.Model
	form     taskform.Model
	helpView help.Model
	showHelp bool

	width   int
	height  int
	ready   bool
	lastErr string
}

// New creates the root application model.
func New(api *client.Client, owner string) Model {
	return Model{
		currentView: ViewList,
		api:         api,
		owner:       owner,
		keys:        keys.DefaultKeyMap(),
		view:        reconcile.NewView(nil),
		taskList:    tasklist.New(80, 24),
		form:        taskform.New(80, 24),
		helpView:    help.New(),
	}
}

// Init loads the initial task list.
func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.taskList.SetSize(msg.Width, msg.Height-2)
		m.form.SetSize(msg.Width, msg.Height-2)
		if m.currentView == ViewForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		return m, nil

	case tasksLoadedMsg:
		return m.onTasksLoaded(msg)

	case addSettledMsg:
		return m.onAddSettled(msg)

	case mutationSettledMsg:
		return m.onMutationSettled(msg)

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		return m.onFormSubmitted(msg)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		return m.handleListKeys(msg)
	}

	if m.currentView == ViewForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// handleListKeys processes key input while the task list is active.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Add):
		m.currentView = ViewForm
		return m, m.form.StartCreate()

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.Edit):
		entry, ok := m.taskList.Selected()
		if !ok {
			return m, nil
		}
		if m.view.Saving(entry.Task.ID) {
			m.lastErr = "task is still saving"
			return m, nil
		}
		m.currentView = ViewForm
		return m, m.form.StartEdit(entry.Task.ID, entry.Task.Title)

	case key.Matches(msg, m.keys.ClearSteps):
		return m.clearSelectedSteps()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// View renders the active view plus the status bar.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var body string
	if m.currentView == ViewForm {
		body = m.form.View()
	} else {
		body = m.taskList.View()
	}

	status := theme.StatusBarStyle.Render("owner: " + m.owner)
	if m.lastErr != "" {
		status = theme.ErrorStyle.Render(m.lastErr)
	}
	if m.showHelp {
		status = m.helpView.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
