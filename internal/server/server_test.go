package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/llm"
	"github.com/josephgoksu/TaskFlow/internal/logger"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	tasks []task.Task
	err   error
	panic bool
	goals []string
}

func (f *fakeGenerator) Generate(ctx context.Context, goal string) ([]task.Task, error) {
	if f.panic {
		panic("generator exploded")
	}
	f.goals = append(f.goals, goal)
	return f.tasks, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(gen Generator) *Server {
	return New(DefaultConfig(), gen, nil, quietLogger())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestGenerateTasks_Success(t *testing.T) {
	gen := &fakeGenerator{tasks: []task.Task{
		{Title: "Define scope", Priority: task.PriorityHigh, EstimatedHours: task.Float(4)},
		{Title: "Launch", Priority: "urgent", Dependencies: []string{"Define scope"}},
	}}
	h := newTestServer(gen).Handler()

	for _, path := range []string{PathGenerateTasks, PathGenerateTasksAlias} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, path, `{"goal": "Launch a product in 2 weeks"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
			assertCORS(t, rec)

			var resp GenerateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Tasks, 2)
			assert.Equal(t, task.Priority("urgent"), resp.Tasks[1].Priority)
		})
	}
	assert.Equal(t, []string{"Launch a product in 2 weeks", "Launch a product in 2 weeks"}, gen.goals)
}

func TestGenerateTasks_EmptyListEncodesArray(t *testing.T) {
	rec := do(t, newTestServer(&fakeGenerator{}).Handler(), http.MethodPost, PathGenerateTasks, `{"goal": "x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks": []}`, rec.Body.String())
}

func TestGenerateTasks_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "rate limited", err: relay.NewError(relay.KindRateLimited, nil), wantStatus: 429, wantMsg: relay.MsgRateLimited},
		{name: "quota", err: relay.NewError(relay.KindQuotaExhausted, nil), wantStatus: 402, wantMsg: relay.MsgQuotaExhausted},
		{name: "upstream", err: &relay.Error{Kind: relay.KindUpstream, Message: relay.MsgUpstream, StatusCode: 503, Body: "secret detail"}, wantStatus: 500, wantMsg: relay.MsgUpstream},
		{name: "configuration", err: relay.NewError(relay.KindConfiguration, nil), wantStatus: 500, wantMsg: relay.MsgConfiguration},
		{name: "untyped", err: errors.New("boom"), wantStatus: 500, wantMsg: relay.MsgUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeGenerator{err: tt.err}).Handler(), http.MethodPost, PathGenerateTasks, `{"goal": "g"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assertCORS(t, rec)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestGenerateTasks_UndecodableBody(t *testing.T) {
	gen := &fakeGenerator{}
	rec := do(t, newTestServer(gen).Handler(), http.MethodPost, PathGenerateTasks, `not json`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, gen.goals)
}

func TestPreflight_AnyPath(t *testing.T) {
	h := newTestServer(&fakeGenerator{}).Handler()
	for _, path := range []string{PathGenerateTasks, "/anything/else"} {
		rec := do(t, h, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assertCORS(t, rec)
		assert.Empty(t, rec.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := relay.NewMetrics(reg)
	m.Generations.WithLabelValues("openai", "success").Inc()

	h := New(DefaultConfig(), &fakeGenerator{}, reg, quietLogger()).Handler()

	rec := do(t, h, http.MethodGet, PathHealth, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, PathMetrics, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskflow_generations_total")
}

func TestMetricsDisabledWithoutGatherer(t *testing.T) {
	rec := do(t, newTestServer(&fakeGenerator{}).Handler(), http.MethodGet, PathMetrics, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, PathHealth, nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	newTestServer(&fakeGenerator{}).Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}

func TestPanicRecovery(t *testing.T) {
	logger.SetBasePath(t.TempDir())
	defer logger.SetBasePath("")

	rec := do(t, newTestServer(&fakeGenerator{panic: true}).Handler(), http.MethodPost, PathGenerateTasks, `{"goal": "g"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assertCORS(t, rec)
	assert.JSONEq(t, `{"error": "Failed to generate tasks"}`, rec.Body.String())
}

// TestRelayEndToEnd wires the real relay to a fake chat-completions gateway.
func TestRelayEndToEnd(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		content    string
		wantStatus int
		wantError  string
		wantTasks  int
	}{
		{
			name:       "fenced success",
			status:     200,
			content:    "```json\n{\"tasks\": [{\"title\": \"A\", \"priority\": \"high\"}, {\"title\": \"B\", \"dependencies\": [\"A\"]}]}\n```",
			wantStatus: 200,
			wantTasks:  2,
		},
		{name: "rate limited", status: 429, wantStatus: 429, wantError: relay.MsgRateLimited},
		{name: "payment required", status: 402, wantStatus: 402, wantError: relay.MsgQuotaExhausted},
		{name: "gateway failure", status: 502, wantStatus: 500, wantError: relay.MsgUpstream},
		{name: "malformed json", status: 200, content: "Here you go: tasks!", wantStatus: 500, wantError: relay.MsgMalformedJSON},
		{name: "wrong shape", status: 200, content: `{"steps": []}`, wantStatus: 500, wantError: relay.MsgInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 200 {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(`{"error": {"message": "nope"}}`))
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":     "chatcmpl-1",
					"object": "chat.completion",
					"choices": []map[string]any{{
						"index":         0,
						"message":       map[string]any{"role": "assistant", "content": tt.content},
						"finish_reason": "stop",
					}},
				})
			}))
			defer upstream.Close()

			completer := llm.NewOpenAICompleter(llm.Config{APIKey: "k", BaseURL: upstream.URL + "/v1"}, upstream.Client())
			svc := relay.NewService(relay.Config{APIKey: "k"}, completer, relay.WithLogger(quietLogger()))
			srv := httptest.NewServer(newTestServer(svc).Handler())
			defer srv.Close()

			resp, err := http.Post(srv.URL+PathGenerateTasks, "application/json", strings.NewReader(`{"goal": "Start a freelance business"}`))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantError != "" {
				var body ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body.Error)
				return
			}
			var body GenerateResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Len(t, body.Tasks, tt.wantTasks)
		})
	}
}

func TestRelayEndToEnd_TasksPassThroughUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		tasks string
	}{
		{name: "non-object elements", tasks: `["a", null]`},
		{name: "extra and missing fields", tasks: `[{"title": "A", "priority": "urgent", "subtasks": ["x"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":     "chatcmpl-1",
					"object": "chat.completion",
					"choices": []map[string]any{{
						"index":         0,
						"message":       map[string]any{"role": "assistant", "content": `{"tasks": ` + tt.tasks + `}`},
						"finish_reason": "stop",
					}},
				})
			}))
			defer upstream.Close()

			completer := llm.NewOpenAICompleter(llm.Config{APIKey: "k", BaseURL: upstream.URL + "/v1"}, upstream.Client())
			svc := relay.NewService(relay.Config{APIKey: "k"}, completer, relay.WithLogger(quietLogger()))

			rec := do(t, newTestServer(svc).Handler(), http.MethodPost, PathGenerateTasks, `{"goal": "Launch a site"}`)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"tasks": `+tt.tasks+`}`, rec.Body.String())
		})
	}
}

func TestStartAndShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, &fakeGenerator{}, nil, quietLogger())

	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	require.NoError(t, srv.Start(&wg, errCh))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	wg.Wait()

	select {
	case err := <-errCh:
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}
