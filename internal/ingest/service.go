// Package ingest composes the trigger parser, the enrichment client, and
// the task store into the message-driven ingestion pipeline, and applies
// the partial-update contract for task mutations.
package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/taskflow/internal/inbox"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/store"
)

// ClientError marks a request rejected because of bad client input.
// Everything else that escapes the service is a store failure.
type ClientError struct {
	msg string
}

func (e *ClientError) Error() string {
	return e.msg
}

// clientErr wraps a message as a ClientError.
func clientErr(msg string) error {
	return &ClientError{msg: msg}
}

// IsClientError reports whether err is a client input error.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// Enricher is the title-enhancement capability consumed by the pipeline.
// Implementations never fail; unusable enrichment is an empty result.
type Enricher interface {
	Enhance(ctx context.Context, title string) model.EnrichmentResult
}

// Result is the outcome of ingesting one inbound message.
type Result struct {
	// Triggered reports whether the message contained the trigger marker.
	Triggered bool

	// Reason explains a non-triggered outcome.
	Reason string

	// Task is the created record when Triggered is true.
	Task *model.Task
}

// Service is the ingestion and mutation orchestrator.
type Service struct {
	store    store.Store
	enricher Enricher
}

// New creates a Service on top of a task store and an enricher.
func New(s store.Store, e Enricher) *Service {
	return &Service{store: s, enricher: e}
}

// Ingest turns an inbound message into a persisted task when it carries
// the trigger marker. A message without the marker is a successful
// non-event: no enrichment call, no store write.
func (s *Service) Ingest(ctx context.Context, msg model.InboundMessage) (Result, error) {
	parsed, err := inbox.Parse(msg)
	if err != nil {
		return Result{}, clientErr(err.Error())
	}

	if !parsed.Triggered {
		return Result{Triggered: false, Reason: parsed.Reason}, nil
	}

	task, err := s.createEnriched(ctx, parsed.Owner, parsed.Title)
	if err != nil {
		return Result{Triggered: true}, err
	}

	return Result{Triggered: true, Task: task}, nil
}

// Create is the direct structured-creation path used by the task API.
func (s *Service) Create(ctx context.Context, owner, title string) (*model.Task, error) {
	owner = strings.TrimSpace(owner)
	title = strings.TrimSpace(title)
	if owner == "" || title == "" {
		return nil, clientErr("user_identifier and title are required")
	}

	return s.createEnriched(ctx, owner, title)
}

// createEnriched runs the best-effort enrichment and inserts the task.
// Store failures pass through verbatim; they are the only error class a
// caller sees from here.
func (s *Service) createEnriched(ctx context.Context, owner, title string) (*model.Task, error) {
	enriched := s.enricher.Enhance(ctx, title)
	if enriched.EnhancedTitle != "" {
		title = enriched.EnhancedTitle
	}

	return s.store.CreateTask(ctx, model.Task{
		Owner:     owner,
		Title:     title,
		Steps:     enriched.Steps,
		Completed: false,
	})
}

// Update applies a partial update to an existing task and returns the
// full current record.
func (s *Service) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.Empty() {
		return nil, clientErr("no valid fields to update")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, clientErr("title must not be empty")
	}

	return s.store.UpdateTask(ctx, id, patch)
}

// List returns all tasks for an owner, newest-created-first.
func (s *Service) List(ctx context.Context, owner string) ([]model.Task, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, clientErr("user_identifier is required")
	}

	return s.store.ListTasks(ctx, strings.TrimSpace(owner))
}
