package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/client"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/reconcile"
	"github.com/nhle/taskflow/internal/ui/taskform"
)

// tasksLoadedMsg carries a fresh server listing.
type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

// addSettledMsg is sent when an in-flight creation settles.
type addSettledMsg struct {
	task *model.Task
	err  error
}

// mutationSettledMsg is sent when an in-flight mutation settles.
type mutationSettledMsg struct {
	key  string
	task *model.Task
	err  error
}

// loadTasks fetches the owner's tasks from the server.
func (m Model) loadTasks() tea.Cmd {
	api, owner := m.api, m.owner
	return func() tea.Msg {
		tasks, err := api.ListTasks(context.Background(), owner)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// onTasksLoaded resets the reconciler view from a server listing.
func (m Model) onTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.lastErr = msg.err.Error()
		return m, nil
	}
	m.lastErr = ""
	m.view = reconcile.NewView(msg.tasks)
	return m, m.taskList.SetEntries(m.view.Entries())
}

// onFormSubmitted starts the optimistic add or rename the form described.
func (m Model) onFormSubmitted(msg taskform.SubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.TaskID == "" {
		return m.addTask(msg.Title)
	}
	return m.renameTask(msg.TaskID, msg.Title)
}

// addTask applies an optimistic pending entry and creates the task.
func (m Model) addTask(title string) (tea.Model, tea.Cmd) {
	next, err := m.view.BeginAdd(model.Task{
		Owner: m.owner,
		Title: title,
	})
	if err != nil {
		m.lastErr = err.Error()
		return m, nil
	}
	m.view = next
	m.lastErr = ""

	api, owner := m.api, m.owner
	create := func() tea.Msg {
		task, err := api.CreateTask(context.Background(), owner, title)
		return addSettledMsg{task: task, err: err}
	}
	return m, tea.Batch(m.taskList.SetEntries(m.view.Entries()), create)
}

// onAddSettled reconciles a settled creation. An unusable server response
// triggers a full re-fetch instead of guessing at the stored record.
func (m Model) onAddSettled(msg addSettledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.view = m.view.Fail(reconcile.PendingAddID)
		m.lastErr = msg.err.Error()
		if errors.Is(msg.err, client.ErrUnusableResponse) {
			return m, tea.Batch(m.taskList.SetEntries(m.view.Entries()), m.loadTasks())
		}
		return m, m.taskList.SetEntries(m.view.Entries())
	}

	m.view = m.view.Commit(reconcile.PendingAddID, *msg.task)
	m.lastErr = ""
	return m, m.taskList.SetEntries(m.view.Entries())
}

// toggleSelected optimistically flips completion on the selected task.
func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	entry, ok := m.taskList.Selected()
	if !ok {
		return m, nil
	}

	optimistic := entry.Task
	optimistic.Completed = !optimistic.Completed

	api := m.api
	id, completed := optimistic.ID, optimistic.Completed
	return m.beginMutation(optimistic, func() tea.Msg {
		task, err := api.SetCompleted(context.Background(), id, completed)
		return mutationSettledMsg{key: id, task: task, err: err}
	})
}

// renameTask optimistically replaces the selected task's title.
func (m Model) renameTask(id, title string) (tea.Model, tea.Cmd) {
	entry, ok := m.view.Entry(id)
	if !ok {
		return m, nil
	}

	optimistic := entry.Task
	optimistic.Title = title

	api := m.api
	return m.beginMutation(optimistic, func() tea.Msg {
		task, err := api.SetTitle(context.Background(), id, title)
		return mutationSettledMsg{key: id, task: task, err: err}
	})
}

// clearSelectedSteps optimistically dismisses the selected task's steps.
func (m Model) clearSelectedSteps() (tea.Model, tea.Cmd) {
	entry, ok := m.taskList.Selected()
	if !ok {
		return m, nil
	}

	optimistic := entry.Task
	optimistic.Steps = nil

	api := m.api
	id := optimistic.ID
	return m.beginMutation(optimistic, func() tea.Msg {
		task, err := api.ClearSteps(context.Background(), id)
		return mutationSettledMsg{key: id, task: task, err: err}
	})
}

// beginMutation registers the optimistic change and runs the request.
// A second action on a task with a mutation in flight is refused.
func (m Model) beginMutation(optimistic model.Task, run tea.Cmd) (tea.Model, tea.Cmd) {
	next, err := m.view.BeginMutation(optimistic)
	if err != nil {
		m.lastErr = err.Error()
		return m, nil
	}
	m.view = next
	m.lastErr = ""
	return m, tea.Batch(m.taskList.SetEntries(m.view.Entries()), run)
}

// onMutationSettled reconciles a settled mutation: the server record on
// success, a rollback to the pre-action snapshot on failure.
func (m Model) onMutationSettled(msg mutationSettledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.view = m.view.Fail(msg.key)
		m.lastErr = msg.err.Error()
	} else {
		m.view = m.view.Commit(msg.key, *msg.task)
		m.lastErr = ""
	}
	return m, m.taskList.SetEntries(m.view.Entries())
}
