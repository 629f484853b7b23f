package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/model"
)

func listing() []model.Task {
	return []model.Task{
		{ID: "t2", Owner: "u1", Title: "newer"},
		{ID: "t1", Owner: "u1", Title: "older"},
	}
}

func TestNewView_PreservesServerOrder(t *testing.T) {
	v := NewView(listing())

	tasks := v.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "t2", tasks[0].ID)
	assert.Equal(t, "t1", tasks[1].ID)

	for _, e := range v.Entries() {
		assert.Equal(t, PhaseIdle, e.Phase)
	}
}

func TestBeginMutation_ShowsOptimisticValue(t *testing.T) {
	v := NewView(listing())

	optimistic := listing()[0]
	optimistic.Completed = true

	next, err := v.BeginMutation(optimistic)
	require.NoError(t, err)

	entry, ok := next.Entry("t2")
	require.True(t, ok)
	assert.True(t, entry.Task.Completed)
	assert.Equal(t, PhaseSaving, entry.Phase)
	assert.True(t, next.Saving("t2"))

	// The original view is untouched.
	prev, _ := v.Entry("t2")
	assert.False(t, prev.Task.Completed)
	assert.False(t, v.Saving("t2"))
}

func TestBeginMutation_UnknownTaskRefused(t *testing.T) {
	v := NewView(listing())

	_, err := v.BeginMutation(model.Task{ID: "ghost"})
	assert.Error(t, err)
}

func TestBeginMutation_SecondInFlightRefused(t *testing.T) {
	v := NewView(listing())

	optimistic := listing()[0]
	optimistic.Completed = true
	v, err := v.BeginMutation(optimistic)
	require.NoError(t, err)

	optimistic.Title = "renamed"
	_, err = v.BeginMutation(optimistic)
	assert.Error(t, err)
}

func TestCommit_ReplacesWithServerRecord(t *testing.T) {
	v := NewView(listing())

	optimistic := listing()[0]
	optimistic.Completed = true
	v, err := v.BeginMutation(optimistic)
	require.NoError(t, err)

	server := optimistic
	server.Title = "newer (server copy)"
	v = v.Commit("t2", server)

	entry, ok := v.Entry("t2")
	require.True(t, ok)
	assert.Equal(t, PhaseCommitted, entry.Phase)
	assert.Equal(t, "newer (server copy)", entry.Task.Title)
	assert.True(t, entry.Task.Completed)
	assert.False(t, v.Saving("t2"))
}

func TestFail_RollsBackToPriorSnapshot(t *testing.T) {
	v := NewView(listing())

	optimistic := listing()[0]
	optimistic.Completed = true
	optimistic.Title = "renamed"
	v, err := v.BeginMutation(optimistic)
	require.NoError(t, err)

	v = v.Fail("t2")

	entry, ok := v.Entry("t2")
	require.True(t, ok)
	assert.Equal(t, PhaseStale, entry.Phase)
	assert.Equal(t, "newer", entry.Task.Title)
	assert.False(t, entry.Task.Completed)
}

func TestFail_AfterRollbackNewMutationAllowed(t *testing.T) {
	v := NewView(listing())

	optimistic := listing()[0]
	optimistic.Completed = true
	v, err := v.BeginMutation(optimistic)
	require.NoError(t, err)
	v = v.Fail("t2")

	_, err = v.BeginMutation(optimistic)
	assert.NoError(t, err)
}

func TestBeginAdd_PrependsPendingEntry(t *testing.T) {
	v := NewView(listing())

	next, err := v.BeginAdd(model.Task{Owner: "u1", Title: "brand new"})
	require.NoError(t, err)

	tasks := next.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "brand new", tasks[0].Title)
	assert.True(t, next.Saving(PendingAddID))
}

func TestBeginAdd_SecondPendingAddRefused(t *testing.T) {
	v := NewView(nil)

	v, err := v.BeginAdd(model.Task{Owner: "u1", Title: "one"})
	require.NoError(t, err)

	_, err = v.BeginAdd(model.Task{Owner: "u1", Title: "two"})
	assert.Error(t, err)
}

func TestCommit_ReKeysPendingAdd(t *testing.T) {
	v := NewView(listing())

	v, err := v.BeginAdd(model.Task{Owner: "u1", Title: "brand new"})
	require.NoError(t, err)

	server := model.Task{ID: "t3", Owner: "u1", Title: "Brand new (enhanced)"}
	v = v.Commit(PendingAddID, server)

	_, pending := v.Entry(PendingAddID)
	assert.False(t, pending)

	entry, ok := v.Entry("t3")
	require.True(t, ok)
	assert.Equal(t, PhaseCommitted, entry.Phase)
	assert.Equal(t, "Brand new (enhanced)", entry.Task.Title)

	tasks := v.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "t3", tasks[0].ID)
}

func TestFail_DropsPendingAdd(t *testing.T) {
	v := NewView(listing())

	v, err := v.BeginAdd(model.Task{Owner: "u1", Title: "doomed"})
	require.NoError(t, err)

	v = v.Fail(PendingAddID)

	_, ok := v.Entry(PendingAddID)
	assert.False(t, ok)
	assert.Len(t, v.Tasks(), 2)

	// A new creation may start immediately.
	_, err = v.BeginAdd(model.Task{Owner: "u1", Title: "retry"})
	assert.NoError(t, err)
}

func TestCommitAndFail_UnknownKeyAreNoOps(t *testing.T) {
	v := NewView(listing())

	assert.Len(t, v.Commit("ghost", model.Task{ID: "ghost"}).Tasks(), 2)
	assert.Len(t, v.Fail("ghost").Tasks(), 2)
}

func TestIndependentMutationsOnDifferentTasks(t *testing.T) {
	v := NewView(listing())

	a := listing()[0]
	a.Completed = true
	v, err := v.BeginMutation(a)
	require.NoError(t, err)

	b := listing()[1]
	b.Title = "older, renamed"
	v, err = v.BeginMutation(b)
	require.NoError(t, err)

	assert.True(t, v.Saving("t2"))
	assert.True(t, v.Saving("t1"))

	v = v.Commit("t1", b)
	assert.True(t, v.Saving("t2"))
	assert.False(t, v.Saving("t1"))
}
