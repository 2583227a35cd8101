package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/server"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Endpoint(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "", want: "http://localhost:8080/functions/v1/generate-tasks"},
		{base: "http://relay:9000/", want: "http://relay:9000/functions/v1/generate-tasks"},
		{base: "https://x.supabase.co/functions/v1/generate-tasks", want: "https://x.supabase.co/functions/v1/generate-tasks"},
		{base: "http://relay/api/generate-tasks", want: "http://relay/api/generate-tasks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.base, 0, nil).Endpoint(), tt.base)
	}
}

func TestGenerate_Success(t *testing.T) {
	var got server.GenerateRequest
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, server.PathGenerateTasks, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"tasks": [{"title": "A", "priority": "high", "estimated_hours": 3}]}`))
	}))
	defer relaySrv.Close()

	c := New(relaySrv.URL, time.Second, quietLogger())
	tasks, err := c.Generate(context.Background(), "Learn web development in 3 months")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, "Learn web development in 3 months", got.Goal)
}

func TestGenerate_KeepsRelayedElements(t *testing.T) {
	body := `[{"title": "A", "subtasks": ["x"]}, "Write copy", null]`
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks": ` + body + `}`))
	}))
	defer relaySrv.Close()

	tasks, err := New(relaySrv.URL, time.Second, quietLogger()).Generate(context.Background(), "g")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Write copy", tasks[1].Title)

	out, err := json.Marshal(tasks)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}

func TestGenerate_MissingTasksIsEmpty(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer relaySrv.Close()

	tasks, err := New(relaySrv.URL, time.Second, quietLogger()).Generate(context.Background(), "g")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGenerate_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind relay.Kind
		wantMsg  string
	}{
		{name: "429", status: 429, body: `{"error": "Rate limit exceeded. Please try again later."}`, wantKind: relay.KindRateLimited, wantMsg: relay.MsgRateLimited},
		{name: "402", status: 402, body: `{"error": "AI credits exhausted. Please add more credits."}`, wantKind: relay.KindQuotaExhausted, wantMsg: relay.MsgQuotaExhausted},
		{name: "500 with message", status: 500, body: `{"error": "Failed to parse AI response as JSON"}`, wantKind: relay.KindUpstream, wantMsg: relay.MsgMalformedJSON},
		{name: "502 without body", status: 502, body: `bad gateway`, wantKind: relay.KindUpstream, wantMsg: relay.MsgUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer relaySrv.Close()

			_, err := New(relaySrv.URL, time.Second, quietLogger()).Generate(context.Background(), "g")
			require.Error(t, err)

			var re *relay.Error
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.wantKind, re.Kind)
			assert.Equal(t, tt.wantMsg, re.Message)
			assert.Equal(t, tt.status, re.StatusCode)
		})
	}
}

func TestGenerate_MalformedSuccessBody(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer relaySrv.Close()

	_, err := New(relaySrv.URL, time.Second, quietLogger()).Generate(context.Background(), "g")
	assert.Equal(t, relay.KindMalformedJSON, relay.KindOf(err))
}

func TestGenerate_TransportError(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := relaySrv.URL
	relaySrv.Close()

	_, err := New(url, time.Second, quietLogger()).Generate(context.Background(), "g")
	assert.Equal(t, relay.KindTransport, relay.KindOf(err))
}

// TestGenerate_AgainstRelayServer covers the client and server together.
func TestGenerate_AgainstRelayServer(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, goal string) ([]task.Task, error) {
		return nil, relay.NewError(relay.KindQuotaExhausted, nil)
	})
	srv := httptest.NewServer(server.New(server.DefaultConfig(), gen, nil, quietLogger()).Handler())
	defer srv.Close()

	_, err := New(srv.URL, time.Second, quietLogger()).Generate(context.Background(), "g")
	assert.Equal(t, relay.KindQuotaExhausted, relay.KindOf(err))
}

type generatorFunc func(ctx context.Context, goal string) ([]task.Task, error)

func (f generatorFunc) Generate(ctx context.Context, goal string) ([]task.Task, error) {
	return f(ctx, goal)
}
