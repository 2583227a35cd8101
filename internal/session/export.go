package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/spf13/afero"
)

// ErrNothingToExport is returned when the session holds no result.
var ErrNothingToExport = errors.New("no generated plan to export")

// timestampLayout matches ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PlanFile is the exported document.
type PlanFile struct {
	Goal        string      `json:"goal" yaml:"goal"`
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Tasks       []task.Task `json:"tasks" yaml:"tasks"`
}

// ExportFilename returns task-plan-<unix-ms>.json for now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("task-plan-%d.json", now.UnixMilli())
}

// NewPlanFile builds the exported document for a result session.
func NewPlanFile(s Session, now time.Time) (PlanFile, error) {
	if s.Phase != PhaseResult {
		return PlanFile{}, ErrNothingToExport
	}
	return PlanFile{
		Goal:        s.Goal,
		GeneratedAt: now.UTC().Format(timestampLayout),
		Tasks:       s.Tasks,
	}, nil
}

// ExportPlan renders s as an indented JSON document.
func ExportPlan(s Session, now time.Time) (string, []byte, error) {
	doc, err := NewPlanFile(s, now)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", nil, fmt.Errorf("encode plan: %w", err)
	}
	return ExportFilename(now), bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReadPlanFile parses an exported document.
func ReadPlanFile(data []byte) (PlanFile, error) {
	var pf PlanFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return PlanFile{}, fmt.Errorf("parse plan file: %w", err)
	}
	return pf, nil
}

// SaveExport writes the exported plan into dir on fs and returns the file path.
func SaveExport(fs afero.Fs, dir string, s Session, now time.Time) (string, error) {
	name, data, err := ExportPlan(s, now)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return "", fmt.Errorf("write plan: %w", err)
	}
	return path, nil
}
