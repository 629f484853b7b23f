// Package client is a thin Go client for the taskflowd HTTP API, used by
// the terminal frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/taskflow/internal/model"
)

// ErrUnusableResponse marks a 2xx reply whose body did not contain the
// expected task record. Consumers should re-fetch rather than guess at
// the server state.
var ErrUnusableResponse = errors.New("server returned no task")

// Client talks to a taskflowd instance over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client. baseURL is the server root
// (e.g. http://localhost:8080).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError is the server's uniform error body.
type apiError struct {
	Error string `json:"error"`
}

// taskEnvelope wraps single-task responses.
type taskEnvelope struct {
	Task *model.Task `json:"task"`
}

// taskListEnvelope wraps listing responses.
type taskListEnvelope struct {
	Tasks []model.Task `json:"tasks"`
}

// ListTasks fetches all tasks for an owner, newest-created-first.
func (c *Client) ListTasks(ctx context.Context, owner string) ([]model.Task, error) {
	q := url.Values{"user_identifier": {owner}}

	var envelope taskListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/tasks?"+q.Encode(), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tasks, nil
}

// CreateTask creates a task through the direct structured path.
func (c *Client) CreateTask(ctx context.Context, owner, title string) (*model.Task, error) {
	body := map[string]string{
		"user_identifier": owner,
		"title":           title,
	}

	var envelope taskEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Task == nil {
		return nil, ErrUnusableResponse
	}
	return envelope.Task, nil
}

// patchBody mirrors the PATCH endpoint's tri-state steps contract.
type patchBody struct {
	Title     *string          `json:"title,omitempty"`
	Completed *bool            `json:"completed,omitempty"`
	Steps     *json.RawMessage `json:"steps,omitempty"`
}

// SetCompleted flips a task's completion state.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	return c.patch(ctx, id, patchBody{Completed: &completed})
}

// SetTitle replaces a task's title.
func (c *Client) SetTitle(ctx context.Context, id, title string) (*model.Task, error) {
	return c.patch(ctx, id, patchBody{Title: &title})
}

// ClearSteps dismisses a task's suggested steps by sending an explicit
// steps null.
func (c *Client) ClearSteps(ctx context.Context, id string) (*model.Task, error) {
	null := json.RawMessage("null")
	return c.patch(ctx, id, patchBody{Steps: &null})
}

func (c *Client) patch(ctx context.Context, id string, body patchBody) (*model.Task, error) {
	var envelope taskEnvelope
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Task == nil {
		return nil, ErrUnusableResponse
	}
	return envelope.Task, nil
}

// do builds the request, executes it, and decodes the JSON response.
// Non-2xx responses surface the server's error detail.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
