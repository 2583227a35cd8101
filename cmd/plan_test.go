package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/server"
	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func resultSession() session.Session {
	return session.Session{
		Goal:  "Launch a product in 2 weeks",
		Phase: session.PhaseResult,
		Tasks: []task.Task{
			{Title: "Define scope", Description: "Write the one-pager", Priority: task.PriorityHigh, Category: "Planning", EstimatedHours: task.Float(4), DeadlineDays: task.Float(1)},
			{Title: "Ship", Description: "Release to users", Priority: task.PriorityMedium, Category: "Launch", EstimatedHours: task.Float(8), DeadlineDays: task.Float(14), Dependencies: []string{"Define scope"}},
		},
	}
}

func TestWritePlan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, formatText, resultSession(), time.Now()))

	out := buf.String()
	assert.Contains(t, out, "Goal: Launch a product in 2 weeks")
	assert.Contains(t, out, "2 tasks · 12h total · 14 days")
	assert.Contains(t, out, "1. Define scope [high] (Planning)")
	assert.Contains(t, out, "after: Define scope")
	assert.NotContains(t, out, "Note:")
}

func TestWritePlan_TextReportsUnresolvedDependencies(t *testing.T) {
	s := resultSession()
	s.Tasks[1].Dependencies = []string{"Hire designer"}

	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, formatText, s, time.Now()))
	assert.Contains(t, buf.String(), "Note:")
	assert.Contains(t, buf.String(), "Hire designer")
}

func TestWritePlan_JSON(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, formatJSON, resultSession(), now))

	pf, err := session.ReadPlanFile(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Launch a product in 2 weeks", pf.Goal)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", pf.GeneratedAt)
	assert.Len(t, pf.Tasks, 2)
}

func TestWritePlan_YAML(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, formatYAML, resultSession(), now))

	assert.Contains(t, buf.String(), "estimated_hours:")
	var pf session.PlanFile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &pf))
	assert.Equal(t, "Launch a product in 2 weeks", pf.Goal)
	require.Len(t, pf.Tasks, 2)
	assert.Equal(t, []string{"Define scope"}, pf.Tasks[1].Dependencies)
}

func TestWritePlan_RequiresResult(t *testing.T) {
	for _, format := range []string{formatText, formatJSON, formatYAML} {
		err := writePlan(&bytes.Buffer{}, format, session.Session{}, time.Now())
		assert.ErrorIs(t, err, session.ErrNothingToExport, format)
	}
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("text"))
	assert.NoError(t, checkFormat("json"))
	assert.NoError(t, checkFormat("yaml"))
	assert.Error(t, checkFormat("xml"))
}

func TestPlanCmd_ThroughRelay(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, server.PathGenerateTasks, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tasks": [
			{"title": "Define scope", "description": "d", "priority": "high", "category": "Planning", "estimated_hours": 4, "deadline_days": 1},
			{"title": "Build", "description": "d", "priority": "medium", "category": "Dev", "estimated_hours": 20, "deadline_days": 7, "dependencies": ["Define scope"]},
			{"title": "Launch", "description": "d", "priority": "low", "category": "Launch", "estimated_hours": 2, "deadline_days": 14, "dependencies": ["Build"]}
		]}`))
	}))
	defer relaySrv.Close()

	output, err := executeCommand(t, "plan", "--local=false", "--export=false", "--sort=false", "--relay-url", relaySrv.URL, "--format", "json", "Launch", "a", "product")
	require.NoError(t, err)

	pf, err := session.ReadPlanFile([]byte(output))
	require.NoError(t, err)
	assert.Equal(t, "Launch a product", pf.Goal)
	assert.Len(t, pf.Tasks, 3)
}

func TestPlanCmd_SortPutsDependenciesFirst(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks": [
			{"title": "Launch", "priority": "low", "dependencies": ["Build"]},
			{"title": "Build", "priority": "medium", "dependencies": ["Define scope"]},
			{"title": "Define scope", "priority": "high"}
		]}`))
	}))
	defer relaySrv.Close()

	output, err := executeCommand(t, "plan", "--local=false", "--export=false", "--sort", "--relay-url", relaySrv.URL, "--format", "json", "Launch a product")
	require.NoError(t, err)

	pf, err := session.ReadPlanFile([]byte(output))
	require.NoError(t, err)
	require.Len(t, pf.Tasks, 3)
	assert.Equal(t, []string{"Define scope", "Build", "Launch"}, []string{pf.Tasks[0].Title, pf.Tasks[1].Title, pf.Tasks[2].Title})
}

func TestSortByDependencies_CycleKeepsOrder(t *testing.T) {
	s := resultSession()
	s.Tasks[0].Dependencies = []string{"Ship"}

	got := sortByDependencies(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, s.Tasks, got.Tasks)
}

func TestPlanCmd_RelayErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind relay.Kind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error": "Rate limit exceeded. Please try again later."}`, wantKind: relay.KindRateLimited},
		{name: "credits exhausted", status: http.StatusPaymentRequired, body: `{"error": "AI credits exhausted. Please add more credits."}`, wantKind: relay.KindQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer relaySrv.Close()

			_, err := executeCommand(t, "plan", "--local=false", "--export=false", "--relay-url", relaySrv.URL, "--format", "text", "Plan a wedding")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, relay.KindOf(err))
		})
	}
}

func TestPlanCmd_NoTasks(t *testing.T) {
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks": []}`))
	}))
	defer relaySrv.Close()

	_, err := executeCommand(t, "plan", "--local=false", "--export=false", "--relay-url", relaySrv.URL, "--format", "text", "Something vague")
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestPlanCmd_BlankGoal(t *testing.T) {
	_, err := executeCommand(t, "plan", "--local=false", "--format", "text", "   ")
	assert.ErrorIs(t, err, ErrEmptyGoal)
}
