package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/task"
)

// maxBodyBytes caps the inbound goal payload.
const maxBodyBytes = 64 << 10

// handleGenerateTasks relays one goal and answers with the task list or {"error": ...}.
func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeAPIError(w, r, relay.NewError(relay.KindBadRequest, err))
		return
	}

	tasks, err := s.generator.Generate(r.Context(), req.Goal)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}

	writeAPIJSON(w, http.StatusOK, GenerateResponse{Tasks: tasks})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// writeAPIError answers with the caller-safe message; details go to the log only.
func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := relay.HTTPStatusOf(err)
	requestLogger(r.Context(), s.log).Error("Error in generate-tasks",
		slog.Int("status", status),
		slog.String("kind", relay.KindOf(err).String()),
		slog.Any("error", err),
	)
	writeAPIJSON(w, status, ErrorResponse{Error: relay.MessageOf(err)})
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
