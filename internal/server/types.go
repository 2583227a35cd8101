package server

import "github.com/josephgoksu/TaskFlow/internal/task"

// GenerateRequest is the payload for the generate-tasks endpoint.
type GenerateRequest struct {
	Goal string `json:"goal"`
}

// GenerateResponse is the success body of the generate-tasks endpoint.
type GenerateResponse struct {
	Tasks []task.Task `json:"tasks"`
}

// ErrorResponse is the body of every non-2xx relay response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
