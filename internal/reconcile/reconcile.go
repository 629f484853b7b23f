// Package reconcile holds the consumer-side optimistic-update state for a
// task list. Each user action applies an optimistic local change keyed by
// the affected task's identifier, which is later replaced by the server's
// returned record on success or rolled back to the pre-action snapshot on
// failure. All transitions are pure: methods return a new View and never
// mutate the receiver.
package reconcile

import (
	"fmt"

	"github.com/nhle/taskflow/internal/model"
)

// PendingAddID keys a creation that is in flight and has no server id yet.
const PendingAddID = "__pending_add__"

// Phase is the lifecycle state of one task entry in the view.
type Phase int

const (
	// PhaseIdle is a settled entry with no mutation in flight.
	PhaseIdle Phase = iota

	// PhaseSaving has an optimistic change awaiting the server.
	PhaseSaving

	// PhaseCommitted holds the server's confirmed record.
	PhaseCommitted

	// PhaseStale is a rolled-back entry showing the pre-action snapshot.
	PhaseStale
)

// Entry is one task in the view together with its reconciliation state.
type Entry struct {
	// Task is what the view renders: the optimistic value while saving,
	// otherwise the settled one.
	Task model.Task

	// prior is the pre-action snapshot kept while a mutation is in
	// flight, used for rollback. Nil for a pending add.
	prior *model.Task

	Phase Phase
}

// View is the keyed optimistic state of one owner's task list, ordered
// newest-created-first like the server listing.
type View struct {
	order   []string
	entries map[string]Entry
}

// NewView builds a settled view from a server listing.
func NewView(tasks []model.Task) View {
	v := View{entries: make(map[string]Entry, len(tasks))}
	for _, t := range tasks {
		v.order = append(v.order, t.ID)
		v.entries[t.ID] = Entry{Task: t, Phase: PhaseIdle}
	}
	return v
}

// Tasks returns the rendered task list in view order.
func (v View) Tasks() []model.Task {
	tasks := make([]model.Task, 0, len(v.order))
	for _, id := range v.order {
		tasks = append(tasks, v.entries[id].Task)
	}
	return tasks
}

// Entries returns all entries in view order.
func (v View) Entries() []Entry {
	entries := make([]Entry, 0, len(v.order))
	for _, id := range v.order {
		entries = append(entries, v.entries[id])
	}
	return entries
}

// Entry returns the entry for a key, if present.
func (v View) Entry(key string) (Entry, bool) {
	e, ok := v.entries[key]
	return e, ok
}

// Saving reports whether a mutation is in flight for the given key. It is
// the single "currently saving" marker shared across all per-task actions.
func (v View) Saving(key string) bool {
	return v.entries[key].Phase == PhaseSaving
}

// clone copies the view so transitions stay pure.
func (v View) clone() View {
	next := View{
		order:   append([]string(nil), v.order...),
		entries: make(map[string]Entry, len(v.entries)),
	}
	for id, e := range v.entries {
		next.entries[id] = e
	}
	return next
}

// BeginAdd registers an optimistic creation under the pending-add key.
// Only one creation may be in flight at a time.
func (v View) BeginAdd(optimistic model.Task) (View, error) {
	if v.Saving(PendingAddID) {
		return v, fmt.Errorf("a task creation is already in flight")
	}

	next := v.clone()
	next.order = append([]string{PendingAddID}, next.order...)
	next.entries[PendingAddID] = Entry{Task: optimistic, Phase: PhaseSaving}
	return next, nil
}

// BeginMutation registers an optimistic change to an existing task. A
// second action on the same task is refused until the in-flight one
// settles.
func (v View) BeginMutation(optimistic model.Task) (View, error) {
	current, ok := v.entries[optimistic.ID]
	if !ok {
		return v, fmt.Errorf("unknown task %s", optimistic.ID)
	}
	if current.Phase == PhaseSaving {
		return v, fmt.Errorf("task %s already has a mutation in flight", optimistic.ID)
	}

	prior := current.Task
	next := v.clone()
	next.entries[optimistic.ID] = Entry{
		Task:  optimistic,
		prior: &prior,
		Phase: PhaseSaving,
	}
	return next, nil
}

// Commit replaces the optimistic entry under key with the server's record.
// A settled add is re-keyed from PendingAddID to the server-assigned id.
func (v View) Commit(key string, server model.Task) View {
	if _, ok := v.entries[key]; !ok {
		return v
	}

	next := v.clone()
	delete(next.entries, key)
	for i, id := range next.order {
		if id == key {
			next.order[i] = server.ID
			break
		}
	}
	next.entries[server.ID] = Entry{Task: server, Phase: PhaseCommitted}
	return next
}

// Fail settles a failed mutation. A pending add is dropped from the view;
// an existing task rolls back to its pre-action snapshot and is marked
// stale.
func (v View) Fail(key string) View {
	current, ok := v.entries[key]
	if !ok {
		return v
	}

	next := v.clone()
	if key == PendingAddID {
		delete(next.entries, key)
		next.order = removeID(next.order, key)
		return next
	}

	task := current.Task
	if current.prior != nil {
		task = *current.prior
	}
	next.entries[key] = Entry{Task: task, Phase: PhaseStale}
	return next
}

func removeID(order []string, key string) []string {
	out := order[:0:0]
	for _, id := range order {
		if id != key {
			out = append(out, id)
		}
	}
	return out
}
