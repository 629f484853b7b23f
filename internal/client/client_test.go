package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/client"
	"github.com/nhle/taskflow/internal/ingest"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/tests/testutil"
)

// noopEnricher disables enrichment for client round-trip tests.
type noopEnricher struct{}

func (noopEnricher) Enhance(ctx context.Context, title string) model.EnrichmentResult {
	return model.EnrichmentResult{}
}

func newClient(t *testing.T) *client.Client {
	t.Helper()

	svc := ingest.New(testutil.NewTestStore(t), noopEnricher{})
	server := api.NewServer(svc, nil)

	mux := http.NewServeMux()
	server.RegisterHTTPHandlers(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return client.New(ts.URL)
}

func TestCreateAndListRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "u1", "walk dog")
	require.NoError(t, err)
	assert.Equal(t, "walk dog", created.Title)
	assert.Equal(t, "u1", created.Owner)
	assert.NotEmpty(t, created.ID)

	tasks, err := c.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestSetCompleted(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "u1", "task")
	require.NoError(t, err)

	updated, err := c.SetCompleted(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "task", updated.Title)
}

func TestSetTitle(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "u1", "before")
	require.NoError(t, err)

	updated, err := c.SetTitle(ctx, created.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.False(t, updated.Completed)
}

func TestClearSteps(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "u1", "task")
	require.NoError(t, err)

	updated, err := c.ClearSteps(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.Steps)
}

func TestServerErrorDetailSurfaces(t *testing.T) {
	c := newClient(t)

	_, err := c.CreateTask(context.Background(), "", "task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (400)")
}

func TestUnusableResponseSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := client.New(ts.URL)
	_, err := c.CreateTask(context.Background(), "u1", "task")
	assert.ErrorIs(t, err, client.ErrUnusableResponse)
}
