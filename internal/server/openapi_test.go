package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseSchema(t *testing.T, doc *openapi3.T, path, method string, status int) *openapi3.Schema {
	t.Helper()
	item := doc.Paths.Find(path)
	require.NotNil(t, item, "path %s not documented", path)
	op := item.GetOperation(method)
	require.NotNil(t, op, "%s %s not documented", method, path)
	resp := op.Responses.Status(status)
	require.NotNil(t, resp, "status %d not documented for %s", status, path)
	media := resp.Value.Content.Get("application/json")
	require.NotNil(t, media)
	return media.Schema.Value
}

func rawTasks(t *testing.T, data string) []task.Task {
	t.Helper()
	var tasks []task.Task
	require.NoError(t, json.Unmarshal([]byte(data), &tasks))
	return tasks
}

func decodeAny(t *testing.T, data []byte) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestLoadOpenAPI(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	for _, path := range []string{PathGenerateTasks, PathGenerateTasksAlias, PathHealth} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestOpenAPI_ServedAsJSON(t *testing.T) {
	rec := do(t, newTestServer(&fakeGenerator{}).Handler(), http.MethodGet, PathOpenAPI, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find(PathGenerateTasks))
}

func TestOpenAPI_ResponsesMatchDocument(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name   string
		gen    *fakeGenerator
		method string
		path   string
		body   string
		status int
	}{
		{
			name: "tasks",
			gen: &fakeGenerator{tasks: []task.Task{
				{Title: "Define scope", Priority: task.PriorityHigh, EstimatedHours: task.Float(4), DeadlineDays: task.Float(1)},
				{Title: "Launch", Priority: "urgent", Dependencies: []string{"Define scope"}},
			}},
			method: http.MethodPost,
			path:   PathGenerateTasks,
			body:   `{"goal": "Launch a product in 2 weeks"}`,
			status: http.StatusOK,
		},
		{
			name:   "non-object tasks",
			gen:    &fakeGenerator{tasks: rawTasks(t, `["Write copy", {"title": "A", "subtasks": ["x"]}]`)},
			method: http.MethodPost,
			path:   PathGenerateTasks,
			body:   `{"goal": "x"}`,
			status: http.StatusOK,
		},
		{
			name:   "rate limited",
			gen:    &fakeGenerator{err: relay.NewError(relay.KindRateLimited, nil)},
			method: http.MethodPost,
			path:   PathGenerateTasksAlias,
			body:   `{"goal": "x"}`,
			status: http.StatusTooManyRequests,
		},
		{
			name:   "health",
			gen:    &fakeGenerator{},
			method: http.MethodGet,
			path:   PathHealth,
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(tt.gen).Handler(), tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code)

			schema := responseSchema(t, doc, tt.path, tt.method, tt.status)
			assert.NoError(t, schema.VisitJSON(decodeAny(t, rec.Body.Bytes())))
		})
	}
}
