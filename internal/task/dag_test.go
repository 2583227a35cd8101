package task

import (
	"testing"
)

func TestCheckDependencies_AllResolved(t *testing.T) {
	// A -> B -> C (linear, no cycle)
	tasks := []Task{
		{Title: "A"},
		{Title: "B", Dependencies: []string{"A"}},
		{Title: "C", Dependencies: []string{"B"}},
	}

	report := CheckDependencies(tasks)
	if !report.OK() {
		t.Errorf("CheckDependencies() = %s, want ok", report)
	}
}

func TestCheckDependencies_Unresolved(t *testing.T) {
	// A renamed title silently breaks the reference; this is reported, not rejected.
	tasks := []Task{
		{Title: "Define scope"},
		{Title: "Build MVP", Dependencies: []string{"Define the scope"}},
	}

	report := CheckDependencies(tasks)
	if report.OK() {
		t.Fatal("expected unresolved dependency to be reported")
	}
	got := report.Unresolved["Build MVP"]
	if len(got) != 1 || got[0] != "Define the scope" {
		t.Errorf("Unresolved[Build MVP] = %v", got)
	}
}

func TestCheckDependencies_DuplicateTitles(t *testing.T) {
	tasks := []Task{
		{Title: "Test"},
		{Title: "Test"},
		{Title: "Ship", Dependencies: []string{"Test"}},
	}

	report := CheckDependencies(tasks)
	if len(report.DuplicateTitles) != 1 || report.DuplicateTitles[0] != "Test" {
		t.Errorf("DuplicateTitles = %v, want [Test]", report.DuplicateTitles)
	}
}

func TestCheckDependencies_Cycle(t *testing.T) {
	// A -> B -> C -> A (cycle)
	tasks := []Task{
		{Title: "A", Dependencies: []string{"C"}},
		{Title: "B", Dependencies: []string{"A"}},
		{Title: "C", Dependencies: []string{"B"}},
	}

	report := CheckDependencies(tasks)
	if len(report.Cycle) == 0 {
		t.Fatal("expected cycle to be detected")
	}
	if report.Cycle[0] != report.Cycle[len(report.Cycle)-1] {
		t.Errorf("cycle path should start and end on the same title: %v", report.Cycle)
	}
}

func TestTopologicalSort_LinearDependencies(t *testing.T) {
	// C depends on B, B depends on A
	// Expected order: A, B, C
	tasks := []Task{
		{Title: "C", Dependencies: []string{"B"}},
		{Title: "A"},
		{Title: "B", Dependencies: []string{"A"}},
	}

	sorted, err := TopologicalSort(tasks)
	if err != nil {
		t.Fatalf("TopologicalSort() error: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(sorted))
	}

	want := []string{"A", "B", "C"}
	for i, title := range want {
		if sorted[i].Title != title {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].Title, title)
		}
	}
}

func TestTopologicalSort_IgnoresUnresolved(t *testing.T) {
	tasks := []Task{
		{Title: "B", Dependencies: []string{"Missing"}},
		{Title: "A"},
	}

	sorted, err := TopologicalSort(tasks)
	if err != nil {
		t.Fatalf("TopologicalSort() error: %v", err)
	}
	if len(sorted) != 2 || sorted[0].Title != "B" {
		t.Errorf("unexpected order: %v", sorted)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	tasks := []Task{
		{Title: "A", Dependencies: []string{"B"}},
		{Title: "B", Dependencies: []string{"A"}},
	}

	if _, err := TopologicalSort(tasks); err == nil {
		t.Error("TopologicalSort() should return error for cycle, got nil")
	}
}

func TestTopologicalSort_KeepsDuplicateTitles(t *testing.T) {
	tasks := []Task{
		{Title: "Review", Dependencies: []string{"Draft"}},
		{Title: "Draft", Description: "first"},
		{Title: "Draft", Description: "second"},
	}

	sorted, err := TopologicalSort(tasks)
	if err != nil {
		t.Fatalf("TopologicalSort() error: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(sorted))
	}
	if sorted[0].Description != "first" || sorted[1].Title != "Review" || sorted[2].Description != "second" {
		t.Errorf("unexpected order: %v", sorted)
	}
}
