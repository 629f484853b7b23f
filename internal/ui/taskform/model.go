package taskform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/theme"
)

// SubmittedMsg is dispatched when the form is confirmed.
type SubmittedMsg struct {
	// TaskID is empty for a new task, otherwise the task being renamed.
	TaskID string
	Title  string
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title string
}

// Model is the Bubble Tea model for the add/rename task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID string
	width  int
	height int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = ""
	m.fb.title = ""
	m.form = m.buildForm("New task")
	return m.form.Init()
}

// StartEdit initializes the form for renaming an existing task.
func (m *Model) StartEdit(taskID, title string) tea.Cmd {
	m.editID = taskID
	m.fb.title = title
	m.form = m.buildForm("Edit title")
	return m.form.Init()
}

// buildForm constructs the single-field title form.
func (m *Model) buildForm(heading string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(heading).
				Prompt("> ").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title must not be empty")
					}
					return nil
				}).
				Value(&m.fb.title),
		),
	).WithWidth(min(m.width-4, 60))
}

// SetSize resizes the form.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		title := strings.TrimSpace(m.fb.title)
		editID := m.editID
		m.form = nil
		return m, func() tea.Msg {
			return SubmittedMsg{TaskID: editID, Title: title}
		}
	}

	return m, cmd
}

// View renders the form panel.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	panel := theme.BorderStyle.Padding(1, 2).Render(m.form.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
