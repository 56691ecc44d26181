package postal

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/postal/pkg/queue"
)

const maxCallbackBody = 1 << 20 // 1 MiB

// Handler returns the task callback endpoint: POST /api/<prefix>/tasks/.
// The external dispatcher delivers queued envelopes here; the handler
// authenticates the shared secret and executes the task synchronously.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post(s.cfg.CallbackPath(), s.handleTask)
	return r
}

func (s *Service) handleTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	env, err := queue.ParseEnvelope(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed task envelope"})
		return
	}

	if err := s.backend.ExecuteEnvelope(r.Context(), env); err != nil {
		s.log.ErrorContext(r.Context(), "task execution failed",
			slog.String("task", env.TaskName),
			slog.Int64("task_id", env.TaskID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, statusFor(err), errorResponse{Error: publicError(err)})
		return
	}

	writeJSON(w, http.StatusAccepted, taskResponse{Status: "ok", TaskID: env.TaskID})
}

type taskResponse struct {
	Status string `json:"status"`
	TaskID int64  `json:"task_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, queue.ErrInvalidSecret):
		return http.StatusUnauthorized
	case errors.Is(err, queue.ErrUnknownTask):
		return http.StatusNotFound
	case errors.Is(err, queue.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, queue.ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicError keeps callback responses terse. Handler errors and stack
// traces live in the task record, not on the wire.
func publicError(err error) string {
	switch {
	case errors.Is(err, queue.ErrInvalidSecret):
		return "invalid secret key"
	case errors.Is(err, queue.ErrUnknownTask):
		return "unknown task"
	case errors.Is(err, queue.ErrTaskNotFound):
		return "task not found"
	case errors.Is(err, queue.ErrInvalidPayload):
		return "invalid task payload"
	default:
		return "task execution failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
