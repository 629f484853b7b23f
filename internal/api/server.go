// Package api exposes the ingestion pipeline and the task mutation
// contract over HTTP:
//
//	POST  /api/inbox       message-triggered ingestion
//	POST  /api/tasks       direct task creation
//	GET   /api/tasks       list tasks for an owner
//	PATCH /api/tasks/{id}  partial update
//	GET   /health          liveness probe
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/taskflow/internal/ingest"
	"github.com/nhle/taskflow/internal/model"
)

// maxRequestBodySize limits request body sizes to prevent abuse.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server handles the HTTP surface of the task service.
type Server struct {
	svc             *ingest.Service
	logger          *slog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewServer creates a Server around the given ingestion service.
func NewServer(svc *ingest.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:             svc,
		logger:          logger,
		shutdownTimeout: 5 * time.Second,
	}
}

// RegisterHTTPHandlers wires all handlers into the given mux.
func (s *Server) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/inbox", s.handleInbox)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/", s.handleTaskByID)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// Start serves the API on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers(mux)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	s.logger.Info("api listening", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// inboxResponse is the body for non-error inbox outcomes.
type inboxResponse struct {
	OK        bool        `json:"ok"`
	Triggered bool        `json:"triggered"`
	Reason    string      `json:"reason,omitempty"`
	Channel   string      `json:"channel"`
	Task      *model.Task `json:"task,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// handleInbox runs the message-triggered ingestion pipeline.
func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg model.InboundMessage
	if !s.decodeBody(w, r, &msg) {
		return
	}

	channel := msg.Channel
	if strings.TrimSpace(channel) == "" {
		channel = "unknown"
	}

	result, err := s.svc.Ingest(r.Context(), msg)
	switch {
	case ingest.IsClientError(err):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		// A store failure after the trigger fired: report it with the
		// store's own detail, flagged as a triggered-but-failed outcome.
		s.logger.Error("inbox ingestion failed", "channel", channel, "error", err)
		writeJSON(w, http.StatusInternalServerError, inboxResponse{
			OK:        false,
			Triggered: true,
			Channel:   channel,
			Error:     err.Error(),
		})
	case !result.Triggered:
		writeJSON(w, http.StatusOK, inboxResponse{
			OK:        true,
			Triggered: false,
			Reason:    result.Reason,
			Channel:   channel,
		})
	default:
		s.logger.Info("task created from inbox",
			"channel", channel, "task_id", result.Task.ID)
		writeJSON(w, http.StatusOK, inboxResponse{
			OK:        true,
			Triggered: true,
			Channel:   channel,
			Task:      result.Task,
		})
	}
}

// createTaskRequest is the direct-creation body.
type createTaskRequest struct {
	Owner string `json:"user_identifier"`
	Title string `json:"title"`
}

// taskResponse wraps a single task.
type taskResponse struct {
	Task *model.Task `json:"task"`
}

// taskListResponse wraps a task listing.
type taskListResponse struct {
	Tasks []model.Task `json:"tasks"`
}

// handleTasks dispatches collection-level task requests.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTask(w, r)
	case http.MethodGet:
		s.handleListTasks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCreateTask creates a task from a structured request.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	task, err := s.svc.Create(r.Context(), req.Owner, req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.logger.Info("task created", "task_id", task.ID)
	writeJSON(w, http.StatusCreated, taskResponse{Task: task})
}

// handleListTasks lists an owner's tasks, newest-created-first.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("user_identifier")

	tasks, err := s.svc.List(r.Context(), owner)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks})
}

// patchTaskRequest is the partial-update body. Steps stays raw so that an
// explicit null (clear suggestions) is distinguishable from an absent key.
type patchTaskRequest struct {
	Title     *string         `json:"title"`
	Completed *bool           `json:"completed"`
	Steps     json.RawMessage `json:"steps"`
}

// handleTaskByID applies a partial update to one task.
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	var req patchTaskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	patch := model.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	}
	if req.Steps != nil {
		patch.StepsSet = true
		if string(req.Steps) != "null" {
			if err := json.Unmarshal(req.Steps, &patch.Steps); err != nil {
				writeErrorMsg(w, http.StatusBadRequest, "steps must be an array of strings or null")
				return
			}
			if patch.Steps == nil {
				patch.Steps = []string{}
			}
		}
	}

	task, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{Task: task})
}

// decodeBody decodes a JSON request body into dst, writing a 400 on
// failure. Returns false when the request has already been answered.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := decoder.Decode(dst); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps service errors onto the HTTP taxonomy: client
// input errors become 400, everything else is a store failure reported
// verbatim as 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if ingest.IsClientError(err) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logger.Error("store operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
