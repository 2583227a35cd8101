package task

import (
	"fmt"
	"strings"
)

// DependencyReport describes how well a task list's title references hold together.
// Titles are soft identifiers, so the report is informational only.
type DependencyReport struct {
	// Unresolved maps a task title to the dependency names that match no task in the list.
	Unresolved map[string][]string
	// DuplicateTitles lists titles that appear more than once.
	DuplicateTitles []string
	// Cycle holds the titles forming the first detected cycle, if any.
	Cycle []string
}

// OK reports whether every dependency resolves and the graph is acyclic.
func (r DependencyReport) OK() bool {
	return len(r.Unresolved) == 0 && len(r.DuplicateTitles) == 0 && len(r.Cycle) == 0
}

func (r DependencyReport) String() string {
	if r.OK() {
		return "dependencies ok"
	}
	var parts []string
	for title, deps := range r.Unresolved {
		parts = append(parts, fmt.Sprintf("%q -> unresolved %q", title, deps))
	}
	if len(r.DuplicateTitles) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate titles %q", r.DuplicateTitles))
	}
	if len(r.Cycle) > 0 {
		parts = append(parts, "cycle "+strings.Join(r.Cycle, " -> "))
	}
	return strings.Join(parts, "; ")
}

// CheckDependencies matches every dependency against the task titles of the same list.
// Matching is exact string equality; a renamed or duplicated title breaks the reference.
func CheckDependencies(tasks []Task) DependencyReport {
	report := DependencyReport{}
	byTitle := make(map[string]Task, len(tasks))
	seen := make(map[string]int, len(tasks))
	for _, t := range tasks {
		seen[t.Title]++
		if seen[t.Title] == 2 {
			report.DuplicateTitles = append(report.DuplicateTitles, t.Title)
		}
		if _, ok := byTitle[t.Title]; !ok {
			byTitle[t.Title] = t
		}
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := byTitle[dep]; !ok {
				if report.Unresolved == nil {
					report.Unresolved = make(map[string][]string)
				}
				report.Unresolved[t.Title] = append(report.Unresolved[t.Title], dep)
			}
		}
	}

	report.Cycle = findCycle(tasks, byTitle)
	return report
}

// findCycle runs a depth-first search over resolvable dependencies and returns
// the path of the first cycle found.
func findCycle(tasks []Task, byTitle map[string]Task) []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string
	var cycle []string

	var visit func(title string) bool
	visit = func(title string) bool {
		visited[title] = true
		onStack[title] = true
		stack = append(stack, title)

		for _, dep := range byTitle[title].Dependencies {
			if _, ok := byTitle[dep]; !ok {
				continue
			}
			if onStack[dep] {
				for i, s := range stack {
					if s == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						break
					}
				}
				return true
			}
			if !visited[dep] && visit(dep) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		onStack[title] = false
		return false
	}

	for _, t := range tasks {
		if !visited[t.Title] && visit(t.Title) {
			return cycle
		}
	}
	return nil
}

// TopologicalSort returns tasks with their resolvable dependencies first.
// Unresolved references are ignored; a cycle is an error.
func TopologicalSort(tasks []Task) ([]Task, error) {
	report := CheckDependencies(tasks)
	if len(report.Cycle) > 0 {
		return nil, fmt.Errorf("cycle detected: %s", strings.Join(report.Cycle, " -> "))
	}

	// Dependencies resolve to the first task carrying the title.
	firstByTitle := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if _, ok := firstByTitle[t.Title]; !ok {
			firstByTitle[t.Title] = i
		}
	}

	sorted := make([]Task, 0, len(tasks))
	visited := make([]bool, len(tasks))

	var visit func(i int)
	visit = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		for _, dep := range tasks[i].Dependencies {
			if d, ok := firstByTitle[dep]; ok {
				visit(d)
			}
		}
		sorted = append(sorted, tasks[i])
	}

	for i := range tasks {
		visit(i)
	}
	return sorted, nil
}
